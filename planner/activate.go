package planner

import (
	"slices"
	"time"

	"github.com/nstehr/dfauto/model"
	"github.com/nstehr/dfauto/snapshot"
)

type ActivateConfig struct {
	Source        SourceFilter
	ArtifactTypes []model.ArtifactType
}

// DefaultActivate activates the stat boosting artifacts.
func DefaultActivate() ActivateConfig {
	return ActivateConfig{ArtifactTypes: slices.Clone(model.StatArtifactTypes)}
}

func (c *ActivateConfig) Validate() {
	c.Source.Validate()
}

// Activate emits at most one activation per source planet: the first held
// artifact, in held order, that is idle, off cooldown and of an allowed type.
// Wormholes are aimed at the closest of my bigger planets.
func Activate(snap snapshot.Accessor, now time.Time, cfg ActivateConfig) Plan {
	plan := Plan{Strategy: "activate"}
	account := snap.Account()
	mine := snap.MyPlanets()

	for _, from := range mine {
		if !cfg.Source.Match(from) ||
			from.UnconfirmedActivateArtifact ||
			len(from.HeldArtifactIDs) == 0 ||
			HasActiveArtifact(snap, from) {
			continue
		}

		var artifact model.Artifact
		found := false
		for _, a := range snap.ArtifactsWithIDs(from.HeldArtifactIDs) {
			if !IsActivated(a) && CanBeActivated(a, now) && slices.Contains(cfg.ArtifactTypes, a.Type) {
				artifact, found = a, true
				break
			}
		}
		if !found {
			plan.skip(from.LocationID, "no activatable artifact")
			continue
		}

		in := Intent{Kind: IntentActivate, From: from.LocationID, ArtifactID: artifact.ID}
		if artifact.Type == model.ArtifactWormhole {
			to, ok := Closest(snap, from, mine, func(src, c model.Planet) bool {
				return MineAndBigger(account, src, c)
			})
			if !ok {
				plan.skip(from.LocationID, "no wormhole target")
				continue
			}
			in.WormholeTo = to.LocationID
		}
		plan.add(in)
	}
	return plan
}
