package planner

import (
	"math"
	"time"

	"github.com/nstehr/dfauto/model"
	"github.com/nstehr/dfauto/snapshot"
)

// DistributeEnergyConfig tunes DistributeEnergy. Percentages are of the
// source's energy cap.
type DistributeEnergyConfig struct {
	Source      SourceFilter
	Destination DestinationFilter

	// SourceMinPercent is how full a source must be before it sends.
	SourceMinPercent float64
	// ReservePercent is left behind on the source; the source stays strictly
	// above it after the move.
	ReservePercent   float64
	MaxArtifactCount int
}

func DefaultDistributeEnergy() DistributeEnergyConfig {
	return DistributeEnergyConfig{
		SourceMinPercent: 75,
		ReservePercent:   25,
		MaxArtifactCount: MaxArtifactCount,
	}
}

func (c *DistributeEnergyConfig) Validate() {
	c.Source.Validate()
	c.Destination.Validate()
	c.SourceMinPercent = clampPercent(c.SourceMinPercent)
	c.ReservePercent = clampPercent(c.ReservePercent)
}

// DistributeEnergy sends surplus energy from each full enough planet to the
// closest of my planets that is a bigger level and can take another move.
func DistributeEnergy(snap snapshot.Accessor, now time.Time, cfg DistributeEnergyConfig) Plan {
	plan := Plan{Strategy: "distribute-energy"}
	account := snap.Account()
	caps := newCapacity(snap, now, cfg.MaxArtifactCount)
	mine := snap.MyPlanets()

	for _, from := range mine {
		if !cfg.Source.Match(from) {
			continue
		}
		pct := EnergyPercent(from)
		if pct < cfg.SourceMinPercent || pct <= cfg.ReservePercent {
			continue
		}

		to, ok := Closest(snap, from, mine, func(src, c model.Planet) bool {
			return MineAndBigger(account, src, c) && cfg.Destination.Match(c) && caps.accepts(c, false)
		})
		if !ok {
			plan.skip(from.LocationID, "no destination")
			continue
		}

		reserve := math.Floor(from.EnergyCap*cfg.ReservePercent/100) + 1
		energy := math.Floor(AvailableEnergy(from) - reserve)
		minimum, ok := MinimumEnergyNeeded(snap, from, to)
		if !ok || energy < minimum {
			plan.skip(from.LocationID, "not enough energy to reach destination")
			continue
		}

		in := Intent{Kind: IntentMove, From: from.LocationID, To: to.LocationID, Energy: energy}
		plan.add(in)
		caps.reserve(in)
	}
	return plan
}

// DistributeSilverConfig tunes DistributeSilver. SourceMinPercent is of the
// source's silver cap; 100 means only full planets send.
type DistributeSilverConfig struct {
	Source           SourceFilter
	Destination      DestinationFilter
	SourceMinPercent float64
	MaxArtifactCount int
}

func DefaultDistributeSilver() DistributeSilverConfig {
	return DistributeSilverConfig{
		Source:           SourceFilter{FromPlanetTypes: []model.PlanetType{model.PlanetTypeAsteroid}},
		Destination:      DestinationFilter{ToPlanetTypes: []model.PlanetType{model.PlanetTypePlanet, model.PlanetTypeRip}},
		SourceMinPercent: 100,
		MaxArtifactCount: MaxArtifactCount,
	}
}

func (c *DistributeSilverConfig) Validate() {
	c.Source.Validate()
	c.Destination.Validate()
	c.SourceMinPercent = clampPercent(c.SourceMinPercent)
}

// DistributeSilver moves silver off full planets (asteroids by default) to
// the closest bigger planet with room for it. Each move carries just enough
// energy to arrive.
func DistributeSilver(snap snapshot.Accessor, now time.Time, cfg DistributeSilverConfig) Plan {
	plan := Plan{Strategy: "distribute-silver"}
	account := snap.Account()
	caps := newCapacity(snap, now, cfg.MaxArtifactCount)
	mine := snap.MyPlanets()

	for _, from := range mine {
		if !cfg.Source.Match(from) || from.SilverCap <= 0 {
			continue
		}
		available := AvailableSilver(from)
		if available <= 0 || available < from.SilverCap*cfg.SourceMinPercent/100 {
			continue
		}

		to, ok := Closest(snap, from, mine, func(src, c model.Planet) bool {
			return MineAndBigger(account, src, c) &&
				cfg.Destination.Match(c) &&
				caps.accepts(c, false) &&
				caps.silverHeadroom(c) >= 1
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

		silver := math.Floor(math.Min(available, caps.silverHeadroom(to)))
		in := Intent{Kind: IntentMove, From: from.LocationID, To: to.LocationID, Energy: energy, Silver: silver}
		plan.add(in)
		caps.reserve(in)
	}
	return plan
}
