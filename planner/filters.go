package planner

import (
	"slices"

	"github.com/nstehr/dfauto/model"
)

// SourceFilter narrows which of my planets a planner acts from. Zero values
// mean "any": an empty FromID or FromPlanetTypes, and FromMaxLevel 0 is
// treated as MaxPlanetLevel.
type SourceFilter struct {
	FromID          model.LocationID   `json:"fromId,omitempty"`
	FromMinLevel    model.PlanetLevel  `json:"fromMinLevel"`
	FromMaxLevel    model.PlanetLevel  `json:"fromMaxLevel"`
	FromPlanetTypes []model.PlanetType `json:"fromPlanetTypes,omitempty"`
}

func (f SourceFilter) Match(p model.Planet) bool {
	if f.FromID != "" && p.LocationID != f.FromID {
		return false
	}
	maxLevel := f.FromMaxLevel
	if maxLevel == 0 {
		maxLevel = model.MaxPlanetLevel
	}
	if p.Level < f.FromMinLevel || p.Level > maxLevel {
		return false
	}
	return len(f.FromPlanetTypes) == 0 || slices.Contains(f.FromPlanetTypes, p.Type)
}

// Validate clamps the levels into range and orders them.
func (f *SourceFilter) Validate() {
	f.FromMinLevel = clampLevel(f.FromMinLevel)
	f.FromMaxLevel = clampLevel(f.FromMaxLevel)
	if f.FromMaxLevel != 0 && f.FromMaxLevel < f.FromMinLevel {
		f.FromMaxLevel = f.FromMinLevel
	}
}

// DestinationFilter narrows which planets may receive.
type DestinationFilter struct {
	ToMinLevel    model.PlanetLevel  `json:"toMinLevel"`
	ToPlanetTypes []model.PlanetType `json:"toPlanetTypes,omitempty"`
}

func (f DestinationFilter) Match(p model.Planet) bool {
	if p.Level < f.ToMinLevel {
		return false
	}
	return len(f.ToPlanetTypes) == 0 || slices.Contains(f.ToPlanetTypes, p.Type)
}

func (f *DestinationFilter) Validate() {
	f.ToMinLevel = clampLevel(f.ToMinLevel)
}

func clampLevel(l model.PlanetLevel) model.PlanetLevel {
	if l < model.MinPlanetLevel {
		return model.MinPlanetLevel
	}
	if l > model.MaxPlanetLevel {
		return model.MaxPlanetLevel
	}
	return l
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
