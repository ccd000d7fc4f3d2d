package planner

import (
	"slices"
	"sort"
	"time"

	"github.com/nstehr/dfauto/model"
	"github.com/nstehr/dfauto/snapshot"
)

// Highlights groups the planet selections worth marking on the map.
type Highlights struct {
	Winners     []model.Planet
	Closest     []model.Planet
	Rips        []model.Planet
	Foundries   []model.Planet
	NeedCannon  []model.Planet
	DoubleRange []model.Planet
	ReadyToFire []model.Planet
}

// Highlight computes every selection from one snapshot. The candidate pool is
// locatable, undestroyed planets of level 3 and up, nearest the center first.
func Highlight(snap snapshot.Accessor, now time.Time) Highlights {
	var pool []model.Planet
	for _, p := range snap.LocatablePlanets() {
		if p.Level >= 3 && !p.Destroyed {
			pool = append(pool, p)
		}
	}
	all := SortByDistanceToCenter(pool)

	var mine []model.Planet
	for _, p := range snap.MyPlanets() {
		if p.Location.IsLocated() {
			mine = append(mine, p)
		}
	}

	h := Highlights{
		Winners:     SelectWinners(claimed(all), MaxWinners),
		Closest:     all[:min(len(all), MaxWinners)],
		NeedCannon:  NeedCannon(snap, mine),
		ReadyToFire: ReadyToFire(snap, mine, now),
	}
	for _, p := range all {
		if p.Type == model.PlanetTypeRip {
			h.Rips = append(h.Rips, p)
		}
		if CanHaveArtifact(snap, p) && p.Level >= 4 {
			h.Foundries = append(h.Foundries, p)
		}
		if p.Level >= 6 && p.Type == model.PlanetTypePlanet && p.Bonus[model.BonusRange] {
			h.DoubleRange = append(h.DoubleRange, p)
		}
	}
	return h
}

func claimed(planets []model.Planet) []model.Planet {
	var out []model.Planet
	for _, p := range planets {
		if p.Claimer != "" && p.Claimer != model.EmptyAddress {
			out = append(out, p)
		}
	}
	return out
}

// NeedCannon lists level 5+ regular planets holding neither a wormhole nor a
// photoid cannon.
func NeedCannon(snap snapshot.Accessor, planets []model.Planet) []model.Planet {
	var out []model.Planet
	for _, p := range planets {
		if p.Level < 5 || p.Type != model.PlanetTypePlanet {
			continue
		}
		armed := slices.ContainsFunc(snap.ArtifactsWithIDs(p.HeldArtifactIDs), func(a model.Artifact) bool {
			return a.Type == model.ArtifactWormhole || a.Type == model.ArtifactPhotoidCannon
		})
		if !armed {
			out = append(out, p)
		}
	}
	return out
}

func ReadyToFire(snap snapshot.Accessor, planets []model.Planet, now time.Time) []model.Planet {
	var out []model.Planet
	for _, p := range planets {
		ready := slices.ContainsFunc(snap.ArtifactsWithIDs(p.HeldArtifactIDs), func(a model.Artifact) bool {
			return CannonReadyToFire(a, now)
		})
		if ready {
			out = append(out, p)
		}
	}
	return out
}

// CannonStatus is one row of the cannon report.
type CannonStatus struct {
	Artifact model.Artifact
	Planet   *model.Planet
	// Status is FIRE, the time left to charge, IDLE or WAIT.
	Status    string
	Remaining time.Duration
}

// Cannons lists my better-than-common photoid cannons with nothing pending,
// highest planet level first and then highest rarity. Inventory cannons sort
// above every planet.
func Cannons(snap snapshot.Accessor, now time.Time) []CannonStatus {
	var rows []CannonStatus
	for _, a := range snap.AllArtifacts() {
		if a.Type != model.ArtifactPhotoidCannon || a.UnconfirmedMove || a.UnconfirmedActivate || a.Rarity <= model.RarityCommon {
			continue
		}
		row := CannonStatus{Artifact: a}
		if p, ok := snap.Planet(a.OnPlanetID); ok {
			row.Planet = &p
		}
		switch {
		case IsActivated(a):
			readyAt := time.Unix(a.LastActivated, 0).Add(cannonChargeTime)
			if now.After(readyAt) {
				row.Status = "FIRE"
			} else {
				row.Remaining = readyAt.Sub(now)
				row.Status = row.Remaining.Round(time.Minute).String()
			}
		case CanBeActivated(a, now):
			row.Status = "IDLE"
		default:
			row.Status = "WAIT"
		}
		rows = append(rows, row)
	}

	level := func(r CannonStatus) model.PlanetLevel {
		if r.Planet == nil {
			return model.MaxPlanetLevel + 1
		}
		return r.Planet.Level
	}
	sort.SliceStable(rows, func(i, j int) bool {
		li, lj := level(rows[i]), level(rows[j])
		if li != lj {
			return li > lj
		}
		return rows[i].Artifact.Rarity > rows[j].Artifact.Rarity
	})
	return rows
}

// FullSilver lists my asteroids of at least minLevel whose available silver
// is at cap, biggest cap first.
func FullSilver(snap snapshot.Accessor, minLevel model.PlanetLevel) []model.Planet {
	var out []model.Planet
	for _, p := range snap.MyPlanets() {
		if p.Level >= minLevel && p.Type == model.PlanetTypeAsteroid && p.SilverCap > 0 && AvailableSilver(p) >= p.SilverCap {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SilverCap > out[j].SilverCap
	})
	return out
}

func Upgradable(snap snapshot.Accessor) []model.Planet {
	var out []model.Planet
	for _, p := range snap.MyPlanets() {
		if CanUpgrade(p) {
			out = append(out, p)
		}
	}
	return out
}
