package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownPlanetType   = errors.New("unknown planet type")
	ErrUnknownArtifactType = errors.New("unknown artifact type")
)

// PlanetLevel is the ordinal 0–9 size class of a planet.
type PlanetLevel int

const (
	MinPlanetLevel PlanetLevel = 0
	MaxPlanetLevel PlanetLevel = 9
)

// PlanetType values match the host's numeric enum.
type PlanetType int

const (
	PlanetTypePlanet PlanetType = iota
	PlanetTypeAsteroid
	PlanetTypeFoundry
	PlanetTypeRip
	PlanetTypeQuasar
)

var planetTypeNames = []string{"planet", "asteroid", "foundry", "rip", "quasar"}

func (t PlanetType) String() string {
	if t < 0 || int(t) >= len(planetTypeNames) {
		return fmt.Sprintf("planetType(%d)", int(t))
	}
	return planetTypeNames[t]
}

// Acronym is the one-letter tag reports put in front of planet names.
func (t PlanetType) Acronym() string {
	switch t {
	case PlanetTypePlanet:
		return "P"
	case PlanetTypeAsteroid:
		return "A"
	case PlanetTypeFoundry:
		return "F"
	case PlanetTypeRip:
		return "R"
	case PlanetTypeQuasar:
		return "Q"
	default:
		return "?"
	}
}

// ParsePlanetType accepts the lowercase names used in config files.
// "spacetime_rip" and "silver_bank" are accepted as aliases.
func ParsePlanetType(s string) (PlanetType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spacetime_rip":
		return PlanetTypeRip, nil
	case "silver_bank":
		return PlanetTypeQuasar, nil
	case "silver_mine":
		return PlanetTypeAsteroid, nil
	case "ruins":
		return PlanetTypeFoundry, nil
	}
	for i, name := range planetTypeNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return PlanetType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPlanetType, s)
}

// SpaceType affects the number of upgrade ranks a planet can take.
type SpaceType int

const (
	SpaceTypeNebula SpaceType = iota
	SpaceTypeSpace
	SpaceTypeDeepSpace
	SpaceTypeDeadSpace
)

// ArtifactType values match the host's numeric enum; 0 is Unknown.
type ArtifactType int

const (
	ArtifactUnknown ArtifactType = iota
	ArtifactMonolith
	ArtifactColossus
	ArtifactSpaceship
	ArtifactPyramid
	ArtifactWormhole
	ArtifactPlanetaryShield
	ArtifactPhotoidCannon
	ArtifactBloomFilter
	ArtifactBlackDomain
)

var artifactTypeNames = []string{
	"unknown", "monolith", "colossus", "spaceship", "pyramid",
	"wormhole", "planetary_shield", "photoid_cannon", "bloom_filter", "black_domain",
}

// StatArtifactTypes boost planet stats while active.
var StatArtifactTypes = []ArtifactType{
	ArtifactMonolith, ArtifactColossus, ArtifactSpaceship, ArtifactPyramid,
}

// TacticalArtifactTypes have a one-off or targeted effect.
var TacticalArtifactTypes = []ArtifactType{
	ArtifactWormhole, ArtifactPlanetaryShield, ArtifactPhotoidCannon, ArtifactBloomFilter, ArtifactBlackDomain,
}

func (t ArtifactType) String() string {
	if t < 0 || int(t) >= len(artifactTypeNames) {
		return fmt.Sprintf("artifactType(%d)", int(t))
	}
	return artifactTypeNames[t]
}

func ParseArtifactType(s string) (ArtifactType, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
	for i, name := range artifactTypeNames {
		if i == int(ArtifactUnknown) {
			continue
		}
		if name == norm || strings.ReplaceAll(name, "_", "") == norm {
			return ArtifactType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownArtifactType, s)
}

// ArtifactRarity is 1 (Common) through 5 (Mythic).
type ArtifactRarity int

const (
	RarityUnknown ArtifactRarity = iota
	RarityCommon
	RarityRare
	RarityEpic
	RarityLegendary
	RarityMythic
)

var rarityNames = []string{"Unknown", "Common", "Rare", "Epic", "Legendary", "Mythic"}

func (r ArtifactRarity) String() string {
	if r < 0 || int(r) >= len(rarityNames) {
		return fmt.Sprintf("rarity(%d)", int(r))
	}
	return rarityNames[r]
}
