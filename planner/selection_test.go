package planner

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/nstehr/dfauto/model"
	"github.com/nstehr/dfauto/snapshot"
)

func TestSelectTargetsKeepsInputOrderOnTies(t *testing.T) {
	src := model.Planet{LocationID: "src", Location: at(0, 0)}
	candidates := []model.Planet{
		src,
		{LocationID: "east", Location: at(10, 0)},
		{LocationID: "lost", Location: model.Unlocated()},
		{LocationID: "north", Location: at(0, 10)},
		{LocationID: "near", Location: at(5, 0)},
	}
	snap := snapshot.NewView(model.GameState{}, "")

	tests := []struct {
		limit int
		want  []model.LocationID
	}{
		{0, []model.LocationID{"near", "east", "north"}},
		{2, []model.LocationID{"near", "east"}},
	}
	for _, tt := range tests {
		pairs := SelectTargets([]model.Planet{src}, candidates, nil, ByDistance(snap), tt.limit)
		var got []model.LocationID
		for _, p := range pairs {
			got = append(got, p.Destination.LocationID)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("limit %d: destinations = %v, want %v", tt.limit, got, tt.want)
		}
	}
}

func TestSelectTargetsUnlocatedSourceFailsClosed(t *testing.T) {
	src := model.Planet{LocationID: "src", Location: model.Unlocated()}
	candidates := []model.Planet{{LocationID: "a", Location: at(1, 1)}}
	snap := snapshot.NewView(model.GameState{}, "")
	if pairs := SelectTargets([]model.Planet{src}, candidates, nil, ByDistance(snap), 0); len(pairs) != 0 {
		t.Errorf("pairs = %+v, want none", pairs)
	}
}

func TestSelectWinners(t *testing.T) {
	planets := []model.Planet{
		{LocationID: "A", Owner: "X"},
		{LocationID: "B", Owner: "X"},
		{LocationID: "C", Owner: model.EmptyAddress},
		{LocationID: "D", Owner: "Y"},
	}
	got := ids(SelectWinners(planets, MaxWinners))
	want := []model.LocationID{"A", "C", "D"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SelectWinners = %v, want %v", got, want)
	}
}

func TestSelectWinnersCap(t *testing.T) {
	var planets []model.Planet
	for i := 0; i < 100; i++ {
		planets = append(planets, model.Planet{LocationID: model.LocationID(fmt.Sprintf("p%d", i)), Owner: model.EmptyAddress})
	}
	if got := len(SelectWinners(planets, MaxWinners)); got != MaxWinners {
		t.Errorf("len(SelectWinners) = %d, want %d", got, MaxWinners)
	}
}

func TestSortByDistanceToCenter(t *testing.T) {
	planets := []model.Planet{
		{LocationID: "far", Location: at(300, 400)},
		{LocationID: "hidden", Location: model.Unlocated()},
		{LocationID: "tie1", Location: at(3, 4)},
		{LocationID: "tie2", Location: at(-4, 3)},
	}
	got := ids(SortByDistanceToCenter(planets))
	want := []model.LocationID{"tie1", "tie2", "far"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortByDistanceToCenter = %v, want %v", got, want)
	}
}

func TestHighlight(t *testing.T) {
	ready := now.Add(-5 * time.Hour).Unix()
	gs := model.GameState{
		Account: me,
		Planets: []model.Planet{
			{LocationID: "w1", Owner: "X", Claimer: "X", Level: 4, Location: at(1, 0)},
			{LocationID: "w2", Owner: "X", Claimer: "X", Level: 4, Location: at(2, 0)},
			{LocationID: "rip", Owner: "Y", Level: 3, Type: model.PlanetTypeRip, Location: at(3, 0)},
			{LocationID: "small", Owner: "Y", Level: 2, Type: model.PlanetTypeRip, Location: at(0, 1)},
			{LocationID: "forge", Owner: model.EmptyAddress, Level: 4, Type: model.PlanetTypeFoundry, Location: at(4, 0)},
			{LocationID: "home", Owner: me, Level: 6, Location: at(5, 0), Bonus: [6]bool{model.BonusRange: true}, HeldArtifactIDs: []model.ArtifactID{"gun"}},
			{LocationID: "bare", Owner: me, Level: 5, Location: at(6, 0)},
		},
		Artifacts: []model.Artifact{
			{ID: "gun", Type: model.ArtifactPhotoidCannon, LastActivated: ready},
		},
	}
	h := Highlight(snapshot.NewView(gs, ""), now)

	checks := []struct {
		name string
		got  []model.Planet
		want []model.LocationID
	}{
		{"winners", h.Winners, []model.LocationID{"w1"}},
		{"rips", h.Rips, []model.LocationID{"rip"}},
		{"foundries", h.Foundries, []model.LocationID{"forge"}},
		{"need cannon", h.NeedCannon, []model.LocationID{"bare"}},
		{"double range", h.DoubleRange, []model.LocationID{"home"}},
		{"ready to fire", h.ReadyToFire, []model.LocationID{"home"}},
	}
	for _, c := range checks {
		if got := ids(c.got); !reflect.DeepEqual(got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, got, c.want)
		}
	}
	if len(h.Closest) != 6 {
		t.Errorf("len(Closest) = %d, want 6", len(h.Closest))
	}
}

func TestCannons(t *testing.T) {
	gs := model.GameState{
		Account: me,
		Planets: []model.Planet{
			{LocationID: "low", Owner: me, Level: 2, HeldArtifactIDs: []model.ArtifactID{"charging", "common"}},
			{LocationID: "high", Owner: me, Level: 7, HeldArtifactIDs: []model.ArtifactID{"fire", "cool"}},
		},
		Artifacts: []model.Artifact{
			{ID: "charging", Type: model.ArtifactPhotoidCannon, Rarity: model.RarityEpic, LastActivated: now.Add(-time.Hour).Unix()},
			{ID: "common", Type: model.ArtifactPhotoidCannon, Rarity: model.RarityCommon},
			{ID: "fire", Type: model.ArtifactPhotoidCannon, Rarity: model.RarityRare, LastActivated: now.Add(-5 * time.Hour).Unix()},
			{ID: "cool", Type: model.ArtifactPhotoidCannon, Rarity: model.RarityLegendary, LastActivated: 1, LastDeactivated: now.Add(-time.Hour).Unix()},
			{ID: "spare", Type: model.ArtifactPhotoidCannon, Rarity: model.RarityRare},
		},
	}
	rows := Cannons(snapshot.NewView(gs, ""), now)

	want := []struct {
		id     model.ArtifactID
		status string
	}{
		{"spare", "IDLE"},
		{"cool", "WAIT"},
		{"fire", "FIRE"},
		{"charging", "3h0m0s"},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d: %+v", len(rows), len(want), rows)
	}
	for i, w := range want {
		if rows[i].Artifact.ID != w.id || rows[i].Status != w.status {
			t.Errorf("rows[%d] = %s %s, want %s %s", i, rows[i].Artifact.ID, rows[i].Status, w.id, w.status)
		}
	}
}

func TestFullSilver(t *testing.T) {
	gs := model.GameState{
		Account: me,
		Planets: []model.Planet{
			{LocationID: "small", Owner: me, Level: 1, Type: model.PlanetTypeAsteroid, Silver: 100, SilverCap: 100},
			{LocationID: "big", Owner: me, Level: 3, Type: model.PlanetTypeAsteroid, Silver: 900, SilverCap: 900},
			{LocationID: "sending", Owner: me, Level: 3, Type: model.PlanetTypeAsteroid, Silver: 900, SilverCap: 900, UnconfirmedDepartures: []model.Departure{{Silver: 1}}},
			{LocationID: "planet", Owner: me, Level: 3, Silver: 900, SilverCap: 900},
		},
	}
	got := ids(FullSilver(snapshot.NewView(gs, ""), 1))
	want := []model.LocationID{"big", "small"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FullSilver = %v, want %v", got, want)
	}
}

func ids(ps []model.Planet) []model.LocationID {
	var out []model.LocationID
	for _, p := range ps {
		out = append(out, p.LocationID)
	}
	return out
}
