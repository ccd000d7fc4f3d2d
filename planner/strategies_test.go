package planner

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/nstehr/dfauto/model"
	"github.com/nstehr/dfauto/snapshot"
)

var now = time.Unix(1_000_000, 0)

func distributeState() model.GameState {
	return model.GameState{
		Account: me,
		Planets: []model.Planet{
			{
				LocationID: "s1", Owner: me, Level: 1, Location: at(0, 0),
				Energy: 900, EnergyCap: 1000, Range: 1000,
				UnconfirmedDepartures: []model.Departure{{To: "elsewhere", Energy: 100}},
			},
			{LocationID: "d0", Owner: me, Level: 0, Location: at(10, 0), EnergyCap: 100, Range: 100},
			{LocationID: "d2", Owner: me, Level: 3, Location: at(50, 0), EnergyCap: 5000, Range: 1000},
			{LocationID: "d1", Owner: me, Level: 2, Location: at(100, 0), EnergyCap: 3000, Range: 1000},
			{LocationID: "enemy", Owner: "0xother", Level: 5, Location: at(5, 0)},
		},
	}
}

func TestDistributeEnergy(t *testing.T) {
	snap := snapshot.NewView(distributeState(), "")
	plan := DistributeEnergy(snap, now, DefaultDistributeEnergy())

	want := []Intent{{Kind: IntentMove, Strategy: "distribute-energy", From: "s1", To: "d2", Energy: 549}}
	if !reflect.DeepEqual(plan.Intents, want) {
		t.Fatalf("intents = %+v, want %+v", plan.Intents, want)
	}

	s1, _ := snap.Planet("s1")
	left := AvailableEnergy(s1) - plan.Intents[0].Energy
	if left <= s1.EnergyCap*0.25 {
		t.Errorf("source left with %v energy, want more than the 25%% reserve", left)
	}
}

func TestDistributeNeverExceedsAvailable(t *testing.T) {
	gs := distributeState()
	snap := snapshot.NewView(gs, "")
	cfg := DefaultDistributeEnergy()
	cfg.ReservePercent = 0
	cfg.SourceMinPercent = 0

	for _, in := range DistributeEnergy(snap, now, cfg).Intents {
		from, _ := snap.Planet(in.From)
		if in.Energy > AvailableEnergy(from) {
			t.Errorf("intent %+v asks for more than the %v available", in, AvailableEnergy(from))
		}
	}
}

func TestDistributeIsStableOnSameSnapshot(t *testing.T) {
	snap := snapshot.NewView(distributeState(), "")
	first := DistributeEnergy(snap, now, DefaultDistributeEnergy())
	second := DistributeEnergy(snap, now, DefaultDistributeEnergy())
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second run = %+v, want %+v", second, first)
	}
}

func TestDistributeCountsPlannedMoves(t *testing.T) {
	gs := model.GameState{
		Account: me,
		Planets: []model.Planet{
			{LocationID: "s1", Owner: me, Level: 1, Location: at(0, 0), Energy: 1000, EnergyCap: 1000, Range: 1000},
			{LocationID: "s2", Owner: me, Level: 1, Location: at(0, 10), Energy: 1000, EnergyCap: 1000, Range: 1000},
			{LocationID: "d", Owner: me, Level: 4, Location: at(50, 0)},
		},
	}
	for i := 0; i < MaxMoveCount-1; i++ {
		gs.UnconfirmedMoves = append(gs.UnconfirmedMoves, model.UnconfirmedMove{From: "x", To: "d"})
	}
	plan := DistributeEnergy(snapshot.NewView(gs, ""), now, DefaultDistributeEnergy())

	if len(plan.Intents) != 1 || plan.Intents[0].From != "s1" {
		t.Fatalf("intents = %+v, want a single move from s1", plan.Intents)
	}
	if len(plan.Skipped) != 1 || plan.Skipped[0].Source != "s2" {
		t.Errorf("skipped = %+v, want s2 skipped", plan.Skipped)
	}
}

func TestDistributeSilver(t *testing.T) {
	gs := model.GameState{
		Account: me,
		Planets: []model.Planet{
			{
				LocationID: "a1", Owner: me, Level: 1, Type: model.PlanetTypeAsteroid, Location: at(0, 0),
				Energy: 500, EnergyCap: 1000, Range: 1000, Silver: 500, SilverCap: 500,
			},
			{LocationID: "half", Owner: me, Level: 1, Type: model.PlanetTypeAsteroid, Location: at(0, 5), Silver: 100, SilverCap: 500},
			{LocationID: "p", Owner: me, Level: 2, Type: model.PlanetTypePlanet, Location: at(30, 40), Silver: 800, SilverCap: 1000},
			{LocationID: "r", Owner: me, Level: 3, Type: model.PlanetTypeRip, Location: at(300, 400), SilverCap: 10000},
		},
		UnconfirmedMoves: []model.UnconfirmedMove{{From: "x", To: "p", Silver: 50}},
	}
	plan := DistributeSilver(snapshot.NewView(gs, ""), now, DefaultDistributeSilver())

	want := []Intent{{Kind: IntentMove, Strategy: "distribute-silver", From: "a1", To: "p", Energy: 63, Silver: 150}}
	if !reflect.DeepEqual(plan.Intents, want) {
		t.Errorf("intents = %+v, want %+v", plan.Intents, want)
	}
}

func TestWithdraw(t *testing.T) {
	gs := model.GameState{
		Account: me,
		Planets: []model.Planet{
			{
				LocationID: "f1", Owner: me, Level: 2, Type: model.PlanetTypeFoundry, Location: at(0, 0),
				Energy: 500, EnergyCap: 1000, Range: 1000, Silver: 300,
				HeldArtifactIDs: []model.ArtifactID{"active", "moving", "idle"},
			},
			{
				LocationID: "f2", Owner: me, Level: 2, Type: model.PlanetTypeFoundry, Location: at(0, 100),
				Energy: 500, EnergyCap: 1000, Range: 1000, Silver: 80,
			},
			{LocationID: "empty", Owner: me, Level: 2, Type: model.PlanetTypeFoundry, Location: at(0, 200)},
			{LocationID: "r", Owner: me, Level: 1, Type: model.PlanetTypeRip, Location: at(30, 40), SilverCap: 1000},
			{LocationID: "far", Owner: me, Level: 5, Type: model.PlanetTypeRip, Location: at(300, 400), SilverCap: 1000},
		},
		Artifacts: []model.Artifact{
			{ID: "active", LastActivated: 10, LastDeactivated: 5},
			{ID: "moving", UnconfirmedMove: true},
			{ID: "idle"},
		},
	}
	plan := Withdraw(snapshot.NewView(gs, ""), now, DefaultWithdraw())

	want := []Intent{
		{Kind: IntentMove, Strategy: "withdraw", From: "f1", To: "r", Energy: 63, ArtifactID: "idle"},
		{Kind: IntentMove, Strategy: "withdraw", From: "f2", To: "r", Energy: 63, Silver: 80},
	}
	if !reflect.DeepEqual(plan.Intents, want) {
		t.Errorf("intents = %+v, want %+v", plan.Intents, want)
	}
}

func TestWithdrawSkipsFullDestination(t *testing.T) {
	full := []model.ArtifactID{"a1", "a2", "a3", "a4", "a5", "a6"}
	source := model.Planet{
		LocationID: "f", Owner: me, Level: 2, Type: model.PlanetTypeFoundry, Location: at(0, 0),
		Energy: 1000, EnergyCap: 1000, Range: 5000,
		HeldArtifactIDs: []model.ArtifactID{"idle"},
	}
	near := model.Planet{LocationID: "near", Owner: me, Level: 1, Type: model.PlanetTypeRip, Location: at(30, 40), SilverCap: 1000, HeldArtifactIDs: full}
	far := model.Planet{LocationID: "far", Owner: me, Level: 1, Type: model.PlanetTypeRip, Location: at(300, 400), SilverCap: 1000}

	tests := []struct {
		name    string
		planets []model.Planet
		wantTo  model.LocationID
	}{
		{name: "next nearest with room", planets: []model.Planet{source, near, far}, wantTo: "far"},
		{name: "only full rip", planets: []model.Planet{source, near}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := model.GameState{
				Account:   me,
				Planets:   tt.planets,
				Artifacts: []model.Artifact{{ID: "idle"}},
			}
			plan := Withdraw(snapshot.NewView(gs, ""), now, DefaultWithdraw())

			if tt.wantTo == "" {
				if len(plan.Intents) != 0 {
					t.Errorf("intents = %+v, want none", plan.Intents)
				}
				want := []Skip{{Source: "f", Reason: "no destination"}}
				if !reflect.DeepEqual(plan.Skipped, want) {
					t.Errorf("skipped = %+v, want %+v", plan.Skipped, want)
				}
				return
			}
			if len(plan.Intents) != 1 {
				t.Fatalf("intents = %+v, want one move", plan.Intents)
			}
			if in := plan.Intents[0]; in.To != tt.wantTo || in.ArtifactID != "idle" {
				t.Errorf("move = %+v, want idle to %s", in, tt.wantTo)
			}
		})
	}
}

func activateState(held ...model.ArtifactID) model.GameState {
	return model.GameState{
		Account: me,
		Planets: []model.Planet{
			{LocationID: "src", Owner: me, Level: 1, Location: at(0, 0), HeldArtifactIDs: held},
			{LocationID: "big", Owner: me, Level: 4, Location: at(100, 0)},
			{LocationID: "busy", Owner: me, Level: 1, Location: at(0, 50), HeldArtifactIDs: []model.ArtifactID{"m2"}, UnconfirmedActivateArtifact: true},
			{LocationID: "lit", Owner: me, Level: 1, Location: at(0, 60), HeldArtifactIDs: []model.ArtifactID{"on", "m3"}},
		},
		Artifacts: []model.Artifact{
			{ID: "w", Type: model.ArtifactWormhole, Rarity: model.RarityCommon},
			{ID: "m", Type: model.ArtifactMonolith, Rarity: model.RarityMythic},
			{ID: "m2", Type: model.ArtifactMonolith},
			{ID: "m3", Type: model.ArtifactMonolith},
			{ID: "on", Type: model.ArtifactPyramid, LastActivated: now.Unix() - 60},
		},
	}
}

func TestActivateFirstMatchWins(t *testing.T) {
	cfg := ActivateConfig{ArtifactTypes: []model.ArtifactType{model.ArtifactWormhole, model.ArtifactMonolith}}

	tests := []struct {
		name string
		held []model.ArtifactID
		want Intent
	}{
		{"wormhole first", []model.ArtifactID{"w", "m"}, Intent{Kind: IntentActivate, Strategy: "activate", From: "src", ArtifactID: "w", WormholeTo: "big"}},
		{"monolith first", []model.ArtifactID{"m", "w"}, Intent{Kind: IntentActivate, Strategy: "activate", From: "src", ArtifactID: "m"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Activate(snapshot.NewView(activateState(tt.held...), ""), now, cfg)
			if len(plan.Intents) != 1 || plan.Intents[0] != tt.want {
				t.Errorf("intents = %+v, want [%+v]", plan.Intents, tt.want)
			}
		})
	}
}

func TestActivateWormholeWithoutTarget(t *testing.T) {
	gs := activateState("w")
	gs.Planets[1].Level = 0
	cfg := ActivateConfig{ArtifactTypes: []model.ArtifactType{model.ArtifactWormhole}}
	plan := Activate(snapshot.NewView(gs, ""), now, cfg)

	if len(plan.Intents) != 0 {
		t.Errorf("intents = %+v, want none", plan.Intents)
	}
	if len(plan.Skipped) != 1 || plan.Skipped[0].Reason != "no wormhole target" {
		t.Errorf("skipped = %+v, want src skipped for lack of a target", plan.Skipped)
	}
}

func TestProspectAndFind(t *testing.T) {
	recent := int64(90)
	gs := model.GameState{
		Account:     me,
		BlockNumber: 100,
		Planets: []model.Planet{
			{LocationID: "new", Owner: me, Type: model.PlanetTypeFoundry, Energy: 1000, EnergyCap: 1000},
			{LocationID: "low", Owner: me, Type: model.PlanetTypeFoundry, Energy: 10, EnergyCap: 1000},
			{LocationID: "ready", Owner: me, Type: model.PlanetTypeFoundry, ProspectedBlock: &recent},
			{LocationID: "theirs", Owner: "0xother", Type: model.PlanetTypeFoundry},
		},
	}
	snap := snapshot.NewView(gs, "")

	prospect, find := ProspectAndFind(snap, ProspectConfig{})
	if got := froms(prospect.Intents); !reflect.DeepEqual(got, []model.LocationID{"new", "low"}) {
		t.Errorf("prospect = %v, want [new low]", got)
	}
	if got := froms(find.Intents); !reflect.DeepEqual(got, []model.LocationID{"ready"}) {
		t.Errorf("find = %v, want [ready]", got)
	}

	prospect = Prospect(snap, ProspectConfig{RequireFullEnergy: true})
	if got := froms(prospect.Intents); !reflect.DeepEqual(got, []model.LocationID{"new"}) {
		t.Errorf("prospect with full energy = %v, want [new]", got)
	}
}

func froms(intents []Intent) []model.LocationID {
	var out []model.LocationID
	for _, in := range intents {
		out = append(out, in.From)
	}
	return out
}

type fakeSubmitter struct {
	calls []string
	fail  model.LocationID
}

var errRejected = errors.New("rejected")

func (f *fakeSubmitter) call(name string, id model.LocationID) error {
	f.calls = append(f.calls, name+":"+string(id))
	if id == f.fail {
		return errRejected
	}
	return nil
}

func (f *fakeSubmitter) Move(_ context.Context, from, _ model.LocationID, _, _ float64, _ model.ArtifactID) error {
	return f.call("move", from)
}

func (f *fakeSubmitter) ActivateArtifact(_ context.Context, planet model.LocationID, _ model.ArtifactID, _ model.LocationID) error {
	return f.call("activate", planet)
}

func (f *fakeSubmitter) Prospect(_ context.Context, planet model.LocationID) error {
	return f.call("prospect", planet)
}

func (f *fakeSubmitter) FindArtifact(_ context.Context, planet model.LocationID) error {
	return f.call("find", planet)
}

func TestEmitterMapsOneCallPerIntent(t *testing.T) {
	sub := &fakeSubmitter{fail: "bad"}
	plan := Plan{
		Strategy: "mixed",
		Intents: []Intent{
			{Kind: IntentMove, From: "a", To: "b", Energy: 10},
			{Kind: IntentActivate, From: "bad", ArtifactID: "x"},
			{Kind: IntentProspect, From: "c"},
			{Kind: IntentFind, From: "d"},
		},
		Skipped: []Skip{{Source: "e", Reason: "no destination"}},
	}
	results := Emitter{Submitter: sub}.Run(context.Background(), plan)

	wantCalls := []string{"move:a", "activate:bad", "prospect:c", "find:d"}
	if !reflect.DeepEqual(sub.calls, wantCalls) {
		t.Errorf("calls = %v, want %v", sub.calls, wantCalls)
	}
	wantStatus := []Status{StatusSubmitted, StatusFailed, StatusSubmitted, StatusSubmitted, StatusSkipped}
	if len(results) != len(wantStatus) {
		t.Fatalf("got %d results, want %d", len(results), len(wantStatus))
	}
	for i, r := range results {
		if r.Status != wantStatus[i] {
			t.Errorf("results[%d].Status = %s, want %s", i, r.Status, wantStatus[i])
		}
	}
	if results[1].Reason != errRejected.Error() {
		t.Errorf("failed reason = %q, want %q", results[1].Reason, errRejected.Error())
	}
	if results[4].Source != "e" || results[4].Intent != nil {
		t.Errorf("skip result = %+v", results[4])
	}
}

func TestEmitterStopsOnCancel(t *testing.T) {
	sub := &fakeSubmitter{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := Emitter{Submitter: sub}.Emit(ctx, []Intent{{Kind: IntentProspect, From: "a"}})
	if len(sub.calls) != 0 {
		t.Errorf("calls = %v, want none after cancel", sub.calls)
	}
	if results[0].Status != StatusSkipped {
		t.Errorf("status = %s, want skipped", results[0].Status)
	}
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	in := Intent{Kind: IntentMove, From: "a", To: "b", Energy: 5, Silver: 2, ArtifactID: "x"}
	Emitter{Submitter: rec}.Emit(context.Background(), []Intent{in})
	if len(rec.Intents) != 1 || rec.Intents[0] != in {
		t.Errorf("recorded %+v, want %+v", rec.Intents, in)
	}
}
