package planner

import (
	"math"
	"slices"
	"time"

	"github.com/nstehr/dfauto/model"
	"github.com/nstehr/dfauto/snapshot"
)

// WithdrawConfig tunes Withdraw. ArtifactTypes limits which artifacts are
// pulled off a source; empty means any. Silver is only moved when
// WithdrawSilver is set.
type WithdrawConfig struct {
	Source           SourceFilter
	Destination      DestinationFilter
	ArtifactTypes    []model.ArtifactType
	WithdrawSilver   bool
	MaxArtifactCount int
}

func DefaultWithdraw() WithdrawConfig {
	return WithdrawConfig{
		Source:           SourceFilter{FromPlanetTypes: []model.PlanetType{model.PlanetTypeFoundry}},
		Destination:      DestinationFilter{ToPlanetTypes: []model.PlanetType{model.PlanetTypeRip}},
		WithdrawSilver:   true,
		MaxArtifactCount: MaxArtifactCount,
	}
}

func (c *WithdrawConfig) Validate() {
	c.Source.Validate()
	c.Destination.Validate()
}

// Withdraw empties sources (foundries by default) into the nearest of my
// planets of the destination types (rips by default). A source holding a
// movable artifact sends that artifact; otherwise it sends its silver. One
// move per source per call.
func Withdraw(snap snapshot.Accessor, now time.Time, cfg WithdrawConfig) Plan {
	plan := Plan{Strategy: "withdraw"}
	caps := newCapacity(snap, now, cfg.MaxArtifactCount)
	mine := snap.MyPlanets()

	for _, from := range mine {
		if !cfg.Source.Match(from) {
			continue
		}

		artifact, hasArtifact := withdrawableArtifact(snap, from, cfg.ArtifactTypes)
		silver := math.Floor(AvailableSilver(from))
		if !hasArtifact && (!cfg.WithdrawSilver || silver < 1) {
			continue
		}

		to, ok := Closest(snap, from, mine, func(_, c model.Planet) bool {
			if !cfg.Destination.Match(c) || !caps.accepts(c, hasArtifact) {
				return false
			}
			return hasArtifact || caps.silverHeadroom(c) >= 1
		})
		if !ok {
			plan.skip(from.LocationID, "no destination")
			continue
		}

		energy, ok := MinimumEnergyNeeded(snap, from, to)
		if !ok || energy > AvailableEnergy(from) {
			plan.skip(from.LocationID, "not enough energy to reach destination")
			continue
		}

		in := Intent{Kind: IntentMove, From: from.LocationID, To: to.LocationID, Energy: energy}
		if hasArtifact {
			in.ArtifactID = artifact.ID
		} else {
			in.Silver = math.Floor(math.Min(silver, caps.silverHeadroom(to)))
		}
		plan.add(in)
		caps.reserve(in)
	}
	return plan
}

// withdrawableArtifact is the first held artifact that is idle and has
// nothing pending on it.
func withdrawableArtifact(snap snapshot.Accessor, p model.Planet, types []model.ArtifactType) (model.Artifact, bool) {
	for _, a := range snap.ArtifactsWithIDs(p.HeldArtifactIDs) {
		if IsActivated(a) || a.UnconfirmedMove || a.UnconfirmedActivate {
			continue
		}
		if len(types) > 0 && !slices.Contains(types, a.Type) {
			continue
		}
		return a, true
	}
	return model.Artifact{}, false
}
