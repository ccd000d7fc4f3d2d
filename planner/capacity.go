package planner

import (
	"time"

	"github.com/nstehr/dfauto/model"
	"github.com/nstehr/dfauto/snapshot"
)

// capacity tracks what one planner invocation has already sent toward each
// destination, so the moves it plans on top of the snapshot never push a
// planet past MaxMoveCount or the artifact cap. It lives for one call only.
type capacity struct {
	snap         snapshot.Accessor
	now          time.Time
	maxArtifacts int

	moves     map[model.LocationID]int
	artifacts map[model.LocationID]int
	silver    map[model.LocationID]float64
}

func newCapacity(snap snapshot.Accessor, now time.Time, maxArtifacts int) *capacity {
	if maxArtifacts <= 0 {
		maxArtifacts = MaxArtifactCount
	}
	return &capacity{
		snap:         snap,
		now:          now,
		maxArtifacts: maxArtifacts,
		moves:        make(map[model.LocationID]int),
		artifacts:    make(map[model.LocationID]int),
		silver:       make(map[model.LocationID]float64),
	}
}

func (c *capacity) accepts(p model.Planet, carryingArtifact bool) bool {
	incoming := c.snap.IncomingMoves(p.LocationID, c.now)

	moveCount := len(incoming) + c.moves[p.LocationID] + 1

	artifactCount := len(p.HeldArtifactIDs) + c.artifacts[p.LocationID]
	for _, m := range incoming {
		if m.ArtifactID != "" {
			artifactCount++
		}
	}
	if carryingArtifact {
		artifactCount++
	}

	return moveCount <= MaxMoveCount && artifactCount <= c.maxArtifacts
}

// silverHeadroom is how much more silver p can take once everything headed
// there lands.
func (c *capacity) silverHeadroom(p model.Planet) float64 {
	room := p.SilverCap - p.Silver - c.silver[p.LocationID]
	for _, m := range c.snap.IncomingMoves(p.LocationID, c.now) {
		room -= m.Silver
	}
	if room < 0 {
		return 0
	}
	return room
}

func (c *capacity) reserve(in Intent) {
	if in.Kind != IntentMove {
		return
	}
	c.moves[in.To]++
	if in.ArtifactID != "" {
		c.artifacts[in.To]++
	}
	c.silver[in.To] += in.Silver
}
