package planner

import (
	"sort"

	"github.com/nstehr/dfauto/model"
	"github.com/nstehr/dfauto/snapshot"
)

// MaxWinners is how many planets can hold a winning claim.
const MaxWinners = 63

// Pair is one (source, destination) choice with the score it was ranked by.
type Pair struct {
	Source      model.Planet
	Destination model.Planet
	Score       float64
}

// CandidateFilter decides whether candidate may receive from source.
type CandidateFilter func(source, candidate model.Planet) bool

// RankFunc scores a candidate for a source; lower ranks first. ok=false drops
// the candidate, which is how distance ranking fails closed on unlocated
// planets.
type RankFunc func(source, candidate model.Planet) (score float64, ok bool)

// ByDistance ranks candidates by Euclidean distance from the source.
func ByDistance(snap snapshot.Accessor) RankFunc {
	return func(source, candidate model.Planet) (float64, bool) {
		return snap.Distance(source, candidate)
	}
}

// SelectTargets filters candidates per source, ranks the survivors and keeps
// the best limit of them (all when limit <= 0). Pairs come back grouped by
// source in source order; equal scores keep candidate input order. A planet
// never targets itself.
func SelectTargets(sources, candidates []model.Planet, filter CandidateFilter, rank RankFunc, limit int) []Pair {
	var out []Pair
	for _, src := range sources {
		var ranked []Pair
		for _, c := range candidates {
			if c.LocationID == src.LocationID {
				continue
			}
			if filter != nil && !filter(src, c) {
				continue
			}
			score, ok := rank(src, c)
			if !ok {
				continue
			}
			ranked = append(ranked, Pair{Source: src, Destination: c, Score: score})
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Score < ranked[j].Score
		})
		if limit > 0 && len(ranked) > limit {
			ranked = ranked[:limit]
		}
		out = append(out, ranked...)
	}
	return out
}

// Closest returns the nearest candidate passing filter.
func Closest(snap snapshot.Accessor, source model.Planet, candidates []model.Planet, filter CandidateFilter) (model.Planet, bool) {
	pairs := SelectTargets([]model.Planet{source}, candidates, filter, ByDistance(snap), 1)
	if len(pairs) == 0 {
		return model.Planet{}, false
	}
	return pairs[0].Destination, true
}

// SelectWinners walks planets (already sorted by distance) once and admits
// every unowned planet plus the first planet of each owner, stopping at
// limit planets.
func SelectWinners(planets []model.Planet, limit int) []model.Planet {
	if limit <= 0 {
		limit = MaxWinners
	}
	seen := make(map[string]bool)
	var out []model.Planet
	for _, p := range planets {
		if len(out) >= limit {
			break
		}
		if IsUnowned(p) {
			out = append(out, p)
			continue
		}
		if seen[p.Owner] {
			continue
		}
		seen[p.Owner] = true
		out = append(out, p)
	}
	return out
}

// DistanceToCenter is floored to whole units like the host's display.
func DistanceToCenter(p model.Planet) (float64, bool) {
	c, ok := p.Location.Coords()
	if !ok {
		return 0, false
	}
	return float64(int64(model.Dist(c, model.Center))), true
}

// SortByDistanceToCenter returns a copy of the locatable planets ordered by
// distance to the center, stable for ties.
func SortByDistanceToCenter(planets []model.Planet) []model.Planet {
	type scored struct {
		p model.Planet
		d float64
	}
	var located []scored
	for _, p := range planets {
		if d, ok := DistanceToCenter(p); ok {
			located = append(located, scored{p, d})
		}
	}
	sort.SliceStable(located, func(i, j int) bool {
		return located[i].d < located[j].d
	})
	out := make([]model.Planet, len(located))
	for i, s := range located {
		out[i] = s.p
	}
	return out
}
