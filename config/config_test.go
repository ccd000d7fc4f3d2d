package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/nstehr/dfauto/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dfauto.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if !reflect.DeepEqual(c, Default()) {
		t.Error("Validate changed the defaults")
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeConfig(t, `
account: "0xabc"
distribute_energy:
  reserve_percent: 40
  interval: 3m
withdraw:
  enabled: false
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Account != "0xabc" {
		t.Errorf("Account = %q, want 0xabc", c.Account)
	}
	if c.DistributeEnergy.ReservePercent != 40 || c.DistributeEnergy.SourceMinPercent != 75 {
		t.Errorf("distribute_energy = %+v, want reserve 40 and the default source minimum", c.DistributeEnergy)
	}
	if c.DistributeEnergy.Interval != 3*time.Minute {
		t.Errorf("Interval = %v, want 3m", c.DistributeEnergy.Interval)
	}
	if c.Withdraw.Enabled {
		t.Error("withdraw should be disabled")
	}
	if !c.Activate.Enabled || c.Activate.Priority != 300 {
		t.Errorf("activate = %+v, want defaults", c.Activate.Schedule)
	}
}

func TestValidateClamps(t *testing.T) {
	c := Default()
	c.MaxArtifactCount = 0
	c.DistributeEnergy.ReservePercent = 150
	c.DistributeSilver.SourceMinPercent = -5
	c.Find.Interval = -time.Second
	c.DistributeEnergy.FromMinLevel = 12

	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.MaxArtifactCount != 1 {
		t.Errorf("MaxArtifactCount = %d, want 1", c.MaxArtifactCount)
	}
	if c.DistributeEnergy.ReservePercent != 100 {
		t.Errorf("ReservePercent = %v, want 100", c.DistributeEnergy.ReservePercent)
	}
	if c.DistributeSilver.SourceMinPercent != 0 {
		t.Errorf("SourceMinPercent = %v, want 0", c.DistributeSilver.SourceMinPercent)
	}
	if c.Find.Interval != 0 {
		t.Errorf("Find.Interval = %v, want 0", c.Find.Interval)
	}

	pc, err := c.DistributeEnergyConfig()
	if err != nil {
		t.Fatal(err)
	}
	if pc.Source.FromMinLevel != model.MaxPlanetLevel {
		t.Errorf("FromMinLevel = %d, want %d", pc.Source.FromMinLevel, model.MaxPlanetLevel)
	}
}

func TestValidateRejectsUnknownTypes(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
		want error
	}{
		{"planet type", func(c *Config) { c.Withdraw.ToPlanetTypes = []string{"moon"} }, model.ErrUnknownPlanetType},
		{"artifact type", func(c *Config) { c.Activate.ArtifactTypes = []string{"laser"} }, model.ErrUnknownArtifactType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.edit(&c)
			if err := c.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPlannerConfigs(t *testing.T) {
	c := Default()
	c.Withdraw.ArtifactTypes = []string{"Photoid Cannon", "wormhole"}

	w, err := c.WithdrawConfig()
	if err != nil {
		t.Fatal(err)
	}
	want := []model.ArtifactType{model.ArtifactPhotoidCannon, model.ArtifactWormhole}
	if !reflect.DeepEqual(w.ArtifactTypes, want) {
		t.Errorf("ArtifactTypes = %v, want %v", w.ArtifactTypes, want)
	}
	if !reflect.DeepEqual(w.Source.FromPlanetTypes, []model.PlanetType{model.PlanetTypeFoundry}) {
		t.Errorf("FromPlanetTypes = %v, want [foundry]", w.Source.FromPlanetTypes)
	}
	if !reflect.DeepEqual(w.Destination.ToPlanetTypes, []model.PlanetType{model.PlanetTypeRip}) {
		t.Errorf("ToPlanetTypes = %v, want [rip]", w.Destination.ToPlanetTypes)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) = %v, want os.ErrNotExist", err)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := writeConfig(t, "distribute_energy: [oops")
	if _, err := Load(path); err == nil {
		t.Error("Load accepted malformed YAML")
	}
}

func TestLoadExampleFile(t *testing.T) {
	got, err := Load(filepath.Join("..", "dfauto.example.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	want.Find.Condition = "PendingMoveCount() < 20"
	if !reflect.DeepEqual(got, want) {
		t.Errorf("example config = %+v\nwant defaults plus the find condition %+v", got, want)
	}
}
