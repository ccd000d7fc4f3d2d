package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nstehr/dfauto/model"
	"github.com/nstehr/dfauto/planner"
	"github.com/nstehr/dfauto/rules"
	"github.com/nstehr/dfauto/snapshot"
)

// EventKind identifies something that changed between two snapshots and is
// worth re-running a strategy for before its interval elapses.
type EventKind string

const (
	EventPlanetCaptured   EventKind = "planet_captured"
	EventPlanetLost       EventKind = "planet_lost"
	EventArtifactFound    EventKind = "artifact_found"
	EventProspectExpiring EventKind = "prospect_expiring"
)

// ProspectWarningBlocks is how close to expiry a prospected, unsearched planet
// must be before it raises EventProspectExpiring.
const ProspectWarningBlocks = 32

// eventCategories maps each event onto the rule category whose interval it
// resets.
var eventCategories = map[EventKind]string{
	EventPlanetCaptured:   rules.CategoryMoves,
	EventPlanetLost:       rules.CategoryMoves,
	EventArtifactFound:    rules.CategoryArtifacts,
	EventProspectExpiring: rules.CategoryProspect,
}

type Event struct {
	Kind   EventKind
	Block  int64
	Planet model.LocationID
	Detail string
}

// stateSnapshot captures the diffable fields of one game state.
type stateSnapshot struct {
	owned     map[model.LocationID]bool
	artifacts map[model.ArtifactID]bool // mine, on a planet or in inventory
	expiring  map[model.LocationID]bool
}

func takeSnapshot(snap snapshot.Accessor) stateSnapshot {
	mine := snap.MyPlanets()
	s := stateSnapshot{
		owned:     make(map[model.LocationID]bool, len(mine)),
		artifacts: make(map[model.ArtifactID]bool),
		expiring:  make(map[model.LocationID]bool),
	}
	block := snap.BlockNumber()
	for _, p := range mine {
		s.owned[p.LocationID] = true
		if prospectExpiring(p, block) {
			s.expiring[p.LocationID] = true
		}
	}
	for _, a := range snap.AllArtifacts() {
		s.artifacts[a.ID] = true
	}
	return s
}

func prospectExpiring(p model.Planet, block int64) bool {
	if p.ProspectedBlock == nil || p.HasTriedFindingArtifact || p.UnconfirmedFindArtifact {
		return false
	}
	left := planner.BlocksLeftToProspectExpiration(p.ProspectedBlock, block)
	return left > 0 && left <= ProspectWarningBlocks
}

// detectEvents compares cur against prev. Returns nil if prev is nil (first
// snapshot of a session).
func detectEvents(block int64, prev *stateSnapshot, cur stateSnapshot) []Event {
	if prev == nil {
		return nil
	}

	var events []Event
	for _, id := range sortedKeys(cur.owned) {
		if !prev.owned[id] {
			events = append(events, Event{
				Kind:   EventPlanetCaptured,
				Block:  block,
				Planet: id,
				Detail: fmt.Sprintf("captured %s", id),
			})
		}
	}
	for _, id := range sortedKeys(prev.owned) {
		if !cur.owned[id] {
			events = append(events, Event{
				Kind:   EventPlanetLost,
				Block:  block,
				Planet: id,
				Detail: fmt.Sprintf("lost %s", id),
			})
		}
	}

	var found []string
	for id := range cur.artifacts {
		if !prev.artifacts[id] {
			found = append(found, string(id))
		}
	}
	if len(found) > 0 {
		sort.Strings(found)
		events = append(events, Event{
			Kind:   EventArtifactFound,
			Block:  block,
			Detail: "new artifacts: " + strings.Join(found, ", "),
		})
	}

	// Only the transition into the window counts, so one planet warns once.
	for _, id := range sortedKeys(cur.expiring) {
		if !prev.expiring[id] {
			events = append(events, Event{
				Kind:   EventProspectExpiring,
				Block:  block,
				Planet: id,
				Detail: fmt.Sprintf("prospect on %s expires within %d blocks", id, ProspectWarningBlocks),
			})
		}
	}
	return events
}

// categoriesFor returns the distinct rule categories touched by events, in
// first-seen order.
func categoriesFor(events []Event) []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range events {
		c, ok := eventCategories[e.Kind]
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func sortedKeys(m map[model.LocationID]bool) []model.LocationID {
	keys := make([]model.LocationID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
