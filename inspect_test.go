package main

import (
	"reflect"
	"testing"
	"time"

	"github.com/nstehr/dfauto/config"
	"github.com/nstehr/dfauto/model"
	"github.com/nstehr/dfauto/planner"
	"github.com/nstehr/dfauto/snapshot"
)

func dryRunView() *snapshot.View {
	at := func(x, y float64) model.Location { return model.Located(model.Coords{X: x, Y: y}) }
	return snapshot.NewView(model.GameState{
		Account: "0xme",
		Planets: []model.Planet{
			{
				LocationID: "f", Owner: "0xme", Level: 2, Type: model.PlanetTypeFoundry, Location: at(0, 0),
				Energy: 500, EnergyCap: 1000, Range: 1000, Silver: 50,
			},
			{LocationID: "r", Owner: "0xme", Level: 1, Type: model.PlanetTypeRip, Location: at(30, 40), SilverCap: 1000},
		},
	}, "")
}

func strategies(plans []planner.Plan) []string {
	var names []string
	for _, p := range plans {
		names = append(names, p.Strategy)
	}
	return names
}

func TestDryRunPlans(t *testing.T) {
	tests := []struct {
		name string
		edit func(c *config.Config)
		want []string
	}{
		{
			name: "defaults",
			edit: func(*config.Config) {},
			want: []string{"distribute-energy", "distribute-silver", "withdraw", "activate", "prospect", "find"},
		},
		{
			name: "withdraw and find off",
			edit: func(c *config.Config) {
				c.Withdraw.Enabled = false
				c.Find.Enabled = false
			},
			want: []string{"distribute-energy", "distribute-silver", "activate", "prospect"},
		},
		{
			name: "find only",
			edit: func(c *config.Config) {
				c.DistributeEnergy.Enabled = false
				c.DistributeSilver.Enabled = false
				c.Withdraw.Enabled = false
				c.Activate.Enabled = false
				c.Prospect.Enabled = false
			},
			want: []string{"find"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.edit(&cfg)
			plans, err := dryRunPlans(dryRunView(), time.Unix(1_000_000, 0), cfg)
			if err != nil {
				t.Fatal(err)
			}
			if got := strategies(plans); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("strategies = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDryRunPlansWithdrawsSilver(t *testing.T) {
	plans, err := dryRunPlans(dryRunView(), time.Unix(1_000_000, 0), config.Default())
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range plans {
		if p.Strategy != "withdraw" {
			continue
		}
		if len(p.Intents) != 1 || p.Intents[0].From != "f" || p.Intents[0].To != "r" || p.Intents[0].Silver != 50 {
			t.Errorf("withdraw intents = %+v, want 50 silver from f to r", p.Intents)
		}
		return
	}
	t.Error("no withdraw plan")
}

func TestDryRunPlansBadArtifactType(t *testing.T) {
	cfg := config.Default()
	cfg.Activate.ArtifactTypes = []string{"death star"}
	if _, err := dryRunPlans(dryRunView(), time.Unix(1_000_000, 0), cfg); err == nil {
		t.Error("expected error for unknown artifact type")
	}
}
