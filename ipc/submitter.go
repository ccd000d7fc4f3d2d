package ipc

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/nstehr/dfauto/model"
)

// Sender is the part of Connection the Submitter needs.
type Sender interface {
	Send(msgType string, data any) error
}

// Submitter delivers planner intents as commands. The client queues every
// command as a transaction, so the limiter keeps a big plan from flooding it.
type Submitter struct {
	conn    Sender
	limiter *rate.Limiter
}

// NewSubmitter allows perSecond commands with bursts of burst. perSecond <= 0
// disables the limit.
func NewSubmitter(conn Sender, perSecond float64, burst int) *Submitter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &Submitter{conn: conn, limiter: rate.NewLimiter(limit, burst)}
}

func (s *Submitter) send(ctx context.Context, msgType string, cmd any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", msgType, err)
	}
	if err := s.conn.Send(msgType, cmd); err != nil {
		return fmt.Errorf("%s: %w", msgType, err)
	}
	return nil
}

func (s *Submitter) Move(ctx context.Context, from, to model.LocationID, energy, silver float64, artifact model.ArtifactID) error {
	return s.send(ctx, TypeMove, MoveCommand{From: from, To: to, Forces: energy, Silver: silver, Artifact: artifact})
}

func (s *Submitter) ActivateArtifact(ctx context.Context, planet model.LocationID, artifact model.ArtifactID, wormholeTo model.LocationID) error {
	return s.send(ctx, TypeActivateArtifact, ActivateArtifactCommand{LocationID: planet, ArtifactID: artifact, WormholeTo: wormholeTo})
}

func (s *Submitter) Prospect(ctx context.Context, planet model.LocationID) error {
	return s.send(ctx, TypeProspectPlanet, ProspectPlanetCommand{LocationID: planet})
}

func (s *Submitter) FindArtifact(ctx context.Context, planet model.LocationID) error {
	return s.send(ctx, TypeFindArtifact, FindArtifactCommand{LocationID: planet})
}
