package rules

import (
	"time"

	"github.com/nstehr/dfauto/model"
	"github.com/nstehr/dfauto/planner"
	"github.com/nstehr/dfauto/snapshot"
)

// RuleEnv wraps one snapshot and exposes helper methods callable from expr
// expressions.
type RuleEnv struct {
	Snap snapshot.Accessor
	Now  time.Time
}

func (e RuleEnv) countMine(match func(model.Planet) bool) int {
	if e.Snap == nil {
		return 0
	}
	n := 0
	for _, p := range e.Snap.MyPlanets() {
		if match(p) {
			n++
		}
	}
	return n
}

func (e RuleEnv) MyPlanetCount() int {
	return e.countMine(func(model.Planet) bool { return true })
}

func (e RuleEnv) BlockNumber() int {
	if e.Snap == nil {
		return 0
	}
	return int(e.Snap.BlockNumber())
}

// PlanetCount counts my planets of the named type ("asteroid", "rip", ...).
// An unknown name counts nothing.
func (e RuleEnv) PlanetCount(planetType string) int {
	t, err := model.ParsePlanetType(planetType)
	if err != nil {
		return 0
	}
	return e.countMine(func(p model.Planet) bool { return p.Type == t })
}

// FullEnergyCount counts my planets at least pct percent full of energy.
func (e RuleEnv) FullEnergyCount(pct float64) int {
	return e.countMine(func(p model.Planet) bool { return planner.EnergyPercent(p) >= pct })
}

// SilverAboveCount counts my planets holding at least pct percent of their
// silver cap.
func (e RuleEnv) SilverAboveCount(pct float64) int {
	return e.countMine(func(p model.Planet) bool {
		return p.SilverCap > 0 && planner.AvailableSilver(p) >= p.SilverCap*pct/100
	})
}

func (e RuleEnv) FullSilverCount() int { return e.SilverAboveCount(100) }

func (e RuleEnv) ProspectableCount() int {
	return e.countMine(func(p model.Planet) bool { return planner.IsProspectable(e.Snap, p) })
}

func (e RuleEnv) FindableCount() int {
	return e.countMine(func(p model.Planet) bool { return planner.IsFindable(e.Snap, p) })
}

// HeldArtifactCount counts artifacts held on my planets of the named type.
func (e RuleEnv) HeldArtifactCount(planetType string) int {
	t, err := model.ParsePlanetType(planetType)
	if err != nil || e.Snap == nil {
		return 0
	}
	n := 0
	for _, p := range e.Snap.MyPlanets() {
		if p.Type == t {
			n += len(e.Snap.ArtifactsWithIDs(p.HeldArtifactIDs))
		}
	}
	return n
}

// ActivatableCount counts my planets with nothing active and nothing pending
// that hold an idle artifact off cooldown.
func (e RuleEnv) ActivatableCount() int {
	return e.countMine(func(p model.Planet) bool {
		if p.UnconfirmedActivateArtifact || planner.HasActiveArtifact(e.Snap, p) {
			return false
		}
		for _, a := range e.Snap.ArtifactsWithIDs(p.HeldArtifactIDs) {
			if planner.ClassifyActivation(a, e.Now) == planner.StateIdle {
				return true
			}
		}
		return false
	})
}

func (e RuleEnv) CannonsReady() int {
	if e.Snap == nil {
		return 0
	}
	return len(planner.ReadyToFire(e.Snap, e.Snap.MyPlanets(), e.Now))
}

func (e RuleEnv) PendingMoveCount() int {
	if e.Snap == nil {
		return 0
	}
	return len(e.Snap.UnconfirmedMoves())
}

// HasArtifact reports whether any of my planets or my inventory holds an
// artifact of the named type.
func (e RuleEnv) HasArtifact(artifactType string) bool {
	t, err := model.ParseArtifactType(artifactType)
	if err != nil || e.Snap == nil {
		return false
	}
	for _, a := range e.Snap.AllArtifacts() {
		if a.Type == t {
			return true
		}
	}
	return false
}

// Hour is the UTC hour of the evaluation time, for rules that should only run
// part of the day.
func (e RuleEnv) Hour() int { return e.Now.UTC().Hour() }

// Account is the identity planets are matched against.
func (e RuleEnv) Account() string {
	if e.Snap == nil {
		return ""
	}
	return e.Snap.Account()
}
