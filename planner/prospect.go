package planner

import (
	"github.com/nstehr/dfauto/snapshot"
)

type ProspectConfig struct {
	Source SourceFilter
	// RequireFullEnergy holds off prospecting until the planet is at least
	// ProspectEnergyPercent full.
	RequireFullEnergy bool
}

func (c *ProspectConfig) Validate() {
	c.Source.Validate()
}

// Prospect emits a prospect intent for each of my prospectable planets.
func Prospect(snap snapshot.Accessor, cfg ProspectConfig) Plan {
	plan := Plan{Strategy: "prospect"}
	for _, p := range snap.MyPlanets() {
		if !cfg.Source.Match(p) || !IsProspectable(snap, p) {
			continue
		}
		if cfg.RequireFullEnergy && !EnoughEnergyToProspect(p) {
			plan.skip(p.LocationID, "waiting for energy")
			continue
		}
		plan.add(Intent{Kind: IntentProspect, From: p.LocationID})
	}
	return plan
}

// Find emits a find intent for each of my findable planets.
func Find(snap snapshot.Accessor, cfg ProspectConfig) Plan {
	plan := Plan{Strategy: "find"}
	for _, p := range snap.MyPlanets() {
		if cfg.Source.Match(p) && IsFindable(snap, p) {
			plan.add(Intent{Kind: IntentFind, From: p.LocationID})
		}
	}
	return plan
}

// ProspectAndFind returns both lists. They are computed independently from
// the same snapshot.
func ProspectAndFind(snap snapshot.Accessor, cfg ProspectConfig) (prospect, find Plan) {
	return Prospect(snap, cfg), Find(snap, cfg)
}
