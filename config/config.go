// Package config loads the YAML file that turns strategies on and tunes them.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nstehr/dfauto/model"
	"github.com/nstehr/dfauto/planner"
)

type Config struct {
	// Account overrides the identity the host announces in hello.
	Account          string `yaml:"account"`
	MaxArtifactCount int    `yaml:"max_artifact_count"`

	DistributeEnergy DistributeEnergy `yaml:"distribute_energy"`
	DistributeSilver DistributeSilver `yaml:"distribute_silver"`
	Withdraw         Withdraw         `yaml:"withdraw"`
	Activate         Activate         `yaml:"activate"`
	Prospect         Prospect         `yaml:"prospect"`
	Find             Schedule         `yaml:"find"`

	// MinLevelAsteroid is the smallest asteroid the full-silver report lists.
	MinLevelAsteroid int `yaml:"min_level_asteroid"`
}

// Schedule is how the rule engine drives one strategy. Condition is an
// optional expr expression AND-ed with the strategy's own trigger.
type Schedule struct {
	Enabled   bool          `yaml:"enabled"`
	Priority  int           `yaml:"priority"`
	Interval  time.Duration `yaml:"interval"`
	Condition string        `yaml:"condition"`
}

// Filters mirror planner.SourceFilter and planner.DestinationFilter with
// planet types spelled out by name.
type Filters struct {
	FromID          string   `yaml:"from_id"`
	FromMinLevel    int      `yaml:"from_min_level"`
	FromMaxLevel    int      `yaml:"from_max_level"`
	FromPlanetTypes []string `yaml:"from_planet_types"`
	ToMinLevel      int      `yaml:"to_min_level"`
	ToPlanetTypes   []string `yaml:"to_planet_types"`
}

type DistributeEnergy struct {
	Schedule         `yaml:",inline"`
	Filters          `yaml:",inline"`
	SourceMinPercent float64 `yaml:"source_min_percent"`
	ReservePercent   float64 `yaml:"reserve_percent"`
}

type DistributeSilver struct {
	Schedule         `yaml:",inline"`
	Filters          `yaml:",inline"`
	SourceMinPercent float64 `yaml:"source_min_percent"`
}

type Withdraw struct {
	Schedule       `yaml:",inline"`
	Filters        `yaml:",inline"`
	ArtifactTypes  []string `yaml:"artifact_types"`
	WithdrawSilver bool     `yaml:"withdraw_silver"`
}

type Activate struct {
	Schedule      `yaml:",inline"`
	Filters       `yaml:",inline"`
	ArtifactTypes []string `yaml:"artifact_types"`
}

type Prospect struct {
	Schedule          `yaml:",inline"`
	Filters           `yaml:",inline"`
	RequireFullEnergy bool `yaml:"require_full_energy"`
}

// Default enables every strategy on staggered prime-minute intervals so they
// rarely land on the same snapshot.
func Default() Config {
	return Config{
		MaxArtifactCount: planner.MaxArtifactCount,
		MinLevelAsteroid: 1,
		DistributeEnergy: DistributeEnergy{
			Schedule:         Schedule{Enabled: true, Priority: 500, Interval: 7 * time.Minute},
			Filters:          Filters{FromPlanetTypes: []string{"planet"}},
			SourceMinPercent: 75,
			ReservePercent:   25,
		},
		DistributeSilver: DistributeSilver{
			Schedule:         Schedule{Enabled: true, Priority: 450, Interval: 11 * time.Minute},
			Filters:          Filters{FromPlanetTypes: []string{"asteroid"}, ToPlanetTypes: []string{"planet", "rip"}},
			SourceMinPercent: 100,
		},
		Withdraw: Withdraw{
			Schedule:       Schedule{Enabled: true, Priority: 400, Interval: 13 * time.Minute},
			Filters:        Filters{FromPlanetTypes: []string{"foundry"}, ToPlanetTypes: []string{"rip"}},
			WithdrawSilver: true,
		},
		Activate: Activate{
			Schedule:      Schedule{Enabled: true, Priority: 300, Interval: 17 * time.Minute},
			ArtifactTypes: []string{"monolith", "colossus", "spaceship", "pyramid"},
		},
		Prospect: Prospect{
			Schedule:          Schedule{Enabled: true, Priority: 200, Interval: 5 * time.Minute},
			Filters:           Filters{FromPlanetTypes: []string{"foundry"}},
			RequireFullEnergy: true,
		},
		Find: Schedule{Enabled: true, Priority: 190, Interval: 5 * time.Minute},
	}
}

// Load reads path over Default, so a file only needs the keys it changes.
func Load(path string) (Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate clamps numbers into range and checks every type name parses.
func (c *Config) Validate() error {
	c.MaxArtifactCount = clampInt(c.MaxArtifactCount, 1, 2*planner.MaxArtifactCount)
	c.MinLevelAsteroid = clampInt(c.MinLevelAsteroid, int(model.MinPlanetLevel), int(model.MaxPlanetLevel))

	for _, s := range []*Schedule{
		&c.DistributeEnergy.Schedule,
		&c.DistributeSilver.Schedule,
		&c.Withdraw.Schedule,
		&c.Activate.Schedule,
		&c.Prospect.Schedule,
		&c.Find,
	} {
		if s.Interval < 0 {
			s.Interval = 0
		}
	}

	c.DistributeEnergy.SourceMinPercent = clamp(c.DistributeEnergy.SourceMinPercent, 0, 100)
	c.DistributeEnergy.ReservePercent = clamp(c.DistributeEnergy.ReservePercent, 0, 100)
	c.DistributeSilver.SourceMinPercent = clamp(c.DistributeSilver.SourceMinPercent, 0, 100)

	if _, err := c.DistributeEnergyConfig(); err != nil {
		return fmt.Errorf("distribute_energy: %w", err)
	}
	if _, err := c.DistributeSilverConfig(); err != nil {
		return fmt.Errorf("distribute_silver: %w", err)
	}
	if _, err := c.WithdrawConfig(); err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}
	if _, err := c.ActivateConfig(); err != nil {
		return fmt.Errorf("activate: %w", err)
	}
	if _, err := c.ProspectConfig(); err != nil {
		return fmt.Errorf("prospect: %w", err)
	}
	return nil
}

func (c Config) DistributeEnergyConfig() (planner.DistributeEnergyConfig, error) {
	src, dst, err := c.DistributeEnergy.Filters.planner()
	if err != nil {
		return planner.DistributeEnergyConfig{}, err
	}
	cfg := planner.DistributeEnergyConfig{
		Source:           src,
		Destination:      dst,
		SourceMinPercent: c.DistributeEnergy.SourceMinPercent,
		ReservePercent:   c.DistributeEnergy.ReservePercent,
		MaxArtifactCount: c.MaxArtifactCount,
	}
	cfg.Validate()
	return cfg, nil
}

func (c Config) DistributeSilverConfig() (planner.DistributeSilverConfig, error) {
	src, dst, err := c.DistributeSilver.Filters.planner()
	if err != nil {
		return planner.DistributeSilverConfig{}, err
	}
	cfg := planner.DistributeSilverConfig{
		Source:           src,
		Destination:      dst,
		SourceMinPercent: c.DistributeSilver.SourceMinPercent,
		MaxArtifactCount: c.MaxArtifactCount,
	}
	cfg.Validate()
	return cfg, nil
}

func (c Config) WithdrawConfig() (planner.WithdrawConfig, error) {
	src, dst, err := c.Withdraw.Filters.planner()
	if err != nil {
		return planner.WithdrawConfig{}, err
	}
	types, err := artifactTypes(c.Withdraw.ArtifactTypes)
	if err != nil {
		return planner.WithdrawConfig{}, err
	}
	cfg := planner.WithdrawConfig{
		Source:           src,
		Destination:      dst,
		ArtifactTypes:    types,
		WithdrawSilver:   c.Withdraw.WithdrawSilver,
		MaxArtifactCount: c.MaxArtifactCount,
	}
	cfg.Validate()
	return cfg, nil
}

func (c Config) ActivateConfig() (planner.ActivateConfig, error) {
	src, _, err := c.Activate.Filters.planner()
	if err != nil {
		return planner.ActivateConfig{}, err
	}
	types, err := artifactTypes(c.Activate.ArtifactTypes)
	if err != nil {
		return planner.ActivateConfig{}, err
	}
	cfg := planner.ActivateConfig{Source: src, ArtifactTypes: types}
	cfg.Validate()
	return cfg, nil
}

func (c Config) ProspectConfig() (planner.ProspectConfig, error) {
	src, _, err := c.Prospect.Filters.planner()
	if err != nil {
		return planner.ProspectConfig{}, err
	}
	cfg := planner.ProspectConfig{Source: src, RequireFullEnergy: c.Prospect.RequireFullEnergy}
	cfg.Validate()
	return cfg, nil
}

func (f Filters) planner() (planner.SourceFilter, planner.DestinationFilter, error) {
	from, err := planetTypes(f.FromPlanetTypes)
	if err != nil {
		return planner.SourceFilter{}, planner.DestinationFilter{}, err
	}
	to, err := planetTypes(f.ToPlanetTypes)
	if err != nil {
		return planner.SourceFilter{}, planner.DestinationFilter{}, err
	}
	src := planner.SourceFilter{
		FromID:          model.LocationID(f.FromID),
		FromMinLevel:    model.PlanetLevel(f.FromMinLevel),
		FromMaxLevel:    model.PlanetLevel(f.FromMaxLevel),
		FromPlanetTypes: from,
	}
	dst := planner.DestinationFilter{
		ToMinLevel:    model.PlanetLevel(f.ToMinLevel),
		ToPlanetTypes: to,
	}
	return src, dst, nil
}

func planetTypes(names []string) ([]model.PlanetType, error) {
	var out []model.PlanetType
	for _, n := range names {
		t, err := model.ParsePlanetType(n)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func artifactTypes(names []string) ([]model.ArtifactType, error) {
	var out []model.ArtifactType
	for _, n := range names {
		t, err := model.ParseArtifactType(n)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// clampInt restricts v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
