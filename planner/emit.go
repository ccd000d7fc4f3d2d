package planner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nstehr/dfauto/model"
)

// Emitter hands intents to a Submitter one call each. There is no batching
// and no retry; a failed call becomes a failed Result and emission moves on.
type Emitter struct {
	Submitter Submitter
}

// Emit submits intents in order. Once ctx is done the remaining intents are
// reported as skipped.
func (e Emitter) Emit(ctx context.Context, intents []Intent) []Result {
	results := make([]Result, 0, len(intents))
	for i := range intents {
		in := intents[i]
		r := Result{Strategy: in.Strategy, Source: in.From, Intent: &in}
		if err := ctx.Err(); err != nil {
			r.Status = StatusSkipped
			r.Reason = err.Error()
			results = append(results, r)
			continue
		}
		if err := e.submit(ctx, in); err != nil {
			slog.Warn("intent submission failed", "strategy", in.Strategy, "kind", in.Kind, "from", in.From, "error", err)
			r.Status = StatusFailed
			r.Reason = err.Error()
		} else {
			r.Status = StatusSubmitted
		}
		results = append(results, r)
	}
	return results
}

// Run emits a plan's intents and appends its skips as skipped results.
func (e Emitter) Run(ctx context.Context, plan Plan) []Result {
	results := e.Emit(ctx, plan.Intents)
	for _, s := range plan.Skipped {
		results = append(results, Result{Strategy: plan.Strategy, Source: s.Source, Status: StatusSkipped, Reason: s.Reason})
	}
	return results
}

func (e Emitter) submit(ctx context.Context, in Intent) error {
	switch in.Kind {
	case IntentMove:
		return e.Submitter.Move(ctx, in.From, in.To, in.Energy, in.Silver, in.ArtifactID)
	case IntentActivate:
		return e.Submitter.ActivateArtifact(ctx, in.From, in.ArtifactID, in.WormholeTo)
	case IntentProspect:
		return e.Submitter.Prospect(ctx, in.From)
	case IntentFind:
		return e.Submitter.FindArtifact(ctx, in.From)
	default:
		return fmt.Errorf("unknown intent kind %q", in.Kind)
	}
}

// Recorder is a Submitter that keeps every call instead of delivering it.
// The plan command uses it for dry runs.
type Recorder struct {
	mu      sync.Mutex
	Intents []Intent
}

func (r *Recorder) record(in Intent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Intents = append(r.Intents, in)
	return nil
}

func (r *Recorder) Move(_ context.Context, from, to model.LocationID, energy, silver float64, artifact model.ArtifactID) error {
	return r.record(Intent{Kind: IntentMove, From: from, To: to, Energy: energy, Silver: silver, ArtifactID: artifact})
}

func (r *Recorder) ActivateArtifact(_ context.Context, planet model.LocationID, artifact model.ArtifactID, wormholeTo model.LocationID) error {
	return r.record(Intent{Kind: IntentActivate, From: planet, ArtifactID: artifact, WormholeTo: wormholeTo})
}

func (r *Recorder) Prospect(_ context.Context, planet model.LocationID) error {
	return r.record(Intent{Kind: IntentProspect, From: planet})
}

func (r *Recorder) FindArtifact(_ context.Context, planet model.LocationID) error {
	return r.record(Intent{Kind: IntentFind, From: planet})
}
