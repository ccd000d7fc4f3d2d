// Package snapshot exposes read-only queries over one game-state snapshot.
// Planners only ever see the Accessor interface so tests can hand them a
// View built from a literal model.GameState.
package snapshot

import (
	"log/slog"
	"math"
	"time"

	"github.com/nstehr/dfauto/model"
)

// Accessor is the query surface the planners need from the host simulation.
type Accessor interface {
	Account() string
	BlockNumber() int64

	AllPlanets() []model.Planet
	MyPlanets() []model.Planet
	LocatablePlanets() []model.Planet
	Planet(id model.LocationID) (model.Planet, bool)

	ArtifactsWithIDs(ids []model.ArtifactID) []model.Artifact
	MyArtifacts() []model.Artifact
	AllArtifacts() []model.Artifact

	UnconfirmedMoves() []model.UnconfirmedMove
	Voyages() []model.Voyage
	IncomingMoves(id model.LocationID, now time.Time) []Incoming

	Distance(from, to model.Planet) (float64, bool)
	EnergyNeededForMove(from, to model.Planet, arriving float64) (float64, bool)
	IsMineable(p model.Planet) bool
	PlanetName(p model.Planet) string
}

// Incoming is a move headed for a planet, either confirmed and in flight or
// still unconfirmed.
type Incoming struct {
	From        model.LocationID
	To          model.LocationID
	Silver      float64
	ArtifactID  model.ArtifactID
	Unconfirmed bool
}

// View implements Accessor over a decoded GameState.
type View struct {
	state     model.GameState
	account   string
	planets   map[model.LocationID]int
	artifacts map[model.ArtifactID]int
	mineable  map[model.LocationID]bool
}

// NewView indexes gs. account overrides gs.Account when non-empty (the hello
// handshake is authoritative for identity).
func NewView(gs model.GameState, account string) *View {
	if account == "" {
		account = gs.Account
	}
	v := &View{
		state:     gs,
		account:   account,
		planets:   make(map[model.LocationID]int, len(gs.Planets)),
		artifacts: make(map[model.ArtifactID]int, len(gs.Artifacts)),
	}
	for i, p := range gs.Planets {
		v.planets[p.LocationID] = i
	}
	for i, a := range gs.Artifacts {
		v.artifacts[a.ID] = i
	}
	if len(gs.MineablePlanetIDs) > 0 {
		v.mineable = make(map[model.LocationID]bool, len(gs.MineablePlanetIDs))
		for _, id := range gs.MineablePlanetIDs {
			v.mineable[id] = true
		}
	}
	return v
}

func (v *View) Account() string        { return v.account }
func (v *View) BlockNumber() int64     { return v.state.BlockNumber }
func (v *View) State() model.GameState { return v.state }

// Now returns the snapshot's host timestamp, or fallback when the host did
// not send one.
func (v *View) Now(fallback time.Time) time.Time {
	if v.state.Timestamp == 0 {
		return fallback
	}
	return time.Unix(v.state.Timestamp, 0)
}

func (v *View) AllPlanets() []model.Planet {
	return v.state.Planets
}

// MyPlanets returns the caller's planets, skipping destroyed ones.
func (v *View) MyPlanets() []model.Planet {
	var out []model.Planet
	for _, p := range v.state.Planets {
		if p.Owner == v.account && !p.Destroyed {
			out = append(out, p)
		}
	}
	return out
}

// LocatablePlanets returns the planets whose coordinates this client knows.
func (v *View) LocatablePlanets() []model.Planet {
	var out []model.Planet
	for _, p := range v.state.Planets {
		if p.Location.IsLocated() {
			out = append(out, p)
		}
	}
	return out
}

func (v *View) Planet(id model.LocationID) (model.Planet, bool) {
	i, ok := v.planets[id]
	if !ok {
		return model.Planet{}, false
	}
	return v.state.Planets[i], true
}

// ArtifactsWithIDs resolves ids in order. Ids the snapshot does not know are
// dropped rather than reported.
func (v *View) ArtifactsWithIDs(ids []model.ArtifactID) []model.Artifact {
	out := make([]model.Artifact, 0, len(ids))
	for _, id := range ids {
		if i, ok := v.artifacts[id]; ok {
			out = append(out, v.state.Artifacts[i])
		}
	}
	return out
}

// MyArtifacts returns inventory artifacts (not attached to any planet).
func (v *View) MyArtifacts() []model.Artifact {
	var out []model.Artifact
	for _, a := range v.state.Artifacts {
		if a.InInventory() && !v.heldByPlanet(a.ID) {
			out = append(out, a)
		}
	}
	return out
}

// AllArtifacts gathers artifacts held on my planets plus my inventory.
// The planet-side listing is authoritative: an artifact whose OnPlanetID is
// missing gets it backfilled from the planet that reports holding it.
func (v *View) AllArtifacts() []model.Artifact {
	var out []model.Artifact
	for _, p := range v.MyPlanets() {
		for _, a := range v.ArtifactsWithIDs(p.HeldArtifactIDs) {
			if a.OnPlanetID == "" {
				slog.Debug("backfilling artifact planet", "artifact", a.ID, "planet", p.LocationID)
				a.OnPlanetID = p.LocationID
			}
			out = append(out, a)
		}
	}
	return append(out, v.MyArtifacts()...)
}

func (v *View) heldByPlanet(id model.ArtifactID) bool {
	for _, p := range v.state.Planets {
		for _, held := range p.HeldArtifactIDs {
			if held == id {
				return true
			}
		}
	}
	return false
}

func (v *View) UnconfirmedMoves() []model.UnconfirmedMove { return v.state.UnconfirmedMoves }
func (v *View) Voyages() []model.Voyage                   { return v.state.Voyages }

// IncomingMoves lists voyages that arrive after now plus unconfirmed moves,
// both targeting id.
func (v *View) IncomingMoves(id model.LocationID, now time.Time) []Incoming {
	var out []Incoming
	cutoff := now.Unix()
	for _, j := range v.state.Voyages {
		if j.To == id && j.ArrivalTime > cutoff {
			out = append(out, Incoming{From: j.From, To: j.To, Silver: j.Silver, ArtifactID: j.ArtifactID})
		}
	}
	for _, m := range v.state.UnconfirmedMoves {
		if m.To == id {
			out = append(out, Incoming{From: m.From, To: m.To, Silver: m.Silver, ArtifactID: m.ArtifactID, Unconfirmed: true})
		}
	}
	return out
}

// Distance fails closed (ok=false) when either planet is unlocated.
func (v *View) Distance(from, to model.Planet) (float64, bool) {
	a, ok := from.Location.Coords()
	if !ok {
		return 0, false
	}
	b, ok := to.Location.Coords()
	if !ok {
		return 0, false
	}
	return model.Dist(a, b), true
}

// EnergyNeededForMove inverts the host's decay formula: energy sent halves
// every `range` units of distance and 5% of the sender's cap is lost on
// departure.
func (v *View) EnergyNeededForMove(from, to model.Planet, arriving float64) (float64, bool) {
	dist, ok := v.Distance(from, to)
	if !ok || from.Range <= 0 {
		return 0, false
	}
	scale := math.Pow(0.5, dist/from.Range)
	return (arriving + 0.05*from.EnergyCap) / scale, true
}

// IsMineable uses the host's list when present; otherwise foundries are the
// only mineable planets.
func (v *View) IsMineable(p model.Planet) bool {
	if v.mineable != nil {
		return v.mineable[p.LocationID]
	}
	return p.Type == model.PlanetTypeFoundry
}

func (v *View) PlanetName(p model.Planet) string {
	if name, ok := v.state.PlanetNames[p.LocationID]; ok && name != "" {
		return name
	}
	id := string(p.LocationID)
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return id
}
