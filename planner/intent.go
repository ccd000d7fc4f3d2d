package planner

import (
	"context"

	"github.com/nstehr/dfauto/model"
)

// IntentKind names the submission call an intent maps to.
type IntentKind string

const (
	IntentMove     IntentKind = "move"
	IntentActivate IntentKind = "activate"
	IntentProspect IntentKind = "prospect"
	IntentFind     IntentKind = "find"
)

// Intent is one planned action. It is never persisted except as an audit
// record. For activate, prospect and find intents From is the planet acted on.
type Intent struct {
	Kind       IntentKind       `json:"kind"`
	Strategy   string           `json:"strategy"`
	From       model.LocationID `json:"from"`
	To         model.LocationID `json:"to,omitempty"`
	Energy     float64          `json:"energy,omitempty"`
	Silver     float64          `json:"silver,omitempty"`
	ArtifactID model.ArtifactID `json:"artifactId,omitempty"`
	WormholeTo model.LocationID `json:"wormholeTo,omitempty"`
}

// Skip records a source the planner looked at and passed over.
type Skip struct {
	Source model.LocationID `json:"source"`
	Reason string           `json:"reason"`
}

// Plan is the output of one planner invocation.
type Plan struct {
	Strategy string   `json:"strategy"`
	Intents  []Intent `json:"intents"`
	Skipped  []Skip   `json:"skipped,omitempty"`
}

func (p *Plan) add(in Intent) {
	in.Strategy = p.Strategy
	p.Intents = append(p.Intents, in)
}

func (p *Plan) skip(source model.LocationID, reason string) {
	p.Skipped = append(p.Skipped, Skip{Source: source, Reason: reason})
}

// Status is the outcome of handing one intent to a Submitter.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Result is returned per intent (or per skipped source) instead of only
// being logged.
type Result struct {
	Strategy string           `json:"strategy"`
	Source   model.LocationID `json:"source"`
	Intent   *Intent          `json:"intent,omitempty"`
	Status   Status           `json:"status"`
	Reason   string           `json:"reason,omitempty"`
}

// Submitter is the host's action-submission surface. Implementations only
// deliver; confirmation shows up later as unconfirmed flags in a snapshot.
type Submitter interface {
	Move(ctx context.Context, from, to model.LocationID, energy, silver float64, artifact model.ArtifactID) error
	ActivateArtifact(ctx context.Context, planet model.LocationID, artifact model.ArtifactID, wormholeTo model.LocationID) error
	Prospect(ctx context.Context, planet model.LocationID) error
	FindArtifact(ctx context.Context, planet model.LocationID) error
}
