package planner

import (
	"math"
	"slices"
	"time"

	"github.com/nstehr/dfauto/model"
	"github.com/nstehr/dfauto/snapshot"
)

const (
	// MaxMoveCount is the most moves that may be headed to one planet.
	MaxMoveCount = 5
	// MaxArtifactCount is the default cap on held-plus-incoming artifacts.
	MaxArtifactCount = 6
	// ProspectExpiryBlocks is how long a prospect stays findable.
	ProspectExpiryBlocks = 255
	// ProspectEnergyPercent is the fill a planet needs before prospecting.
	ProspectEnergyPercent = 95.5
	// MinimumArrivingEnergy is sent when a move only exists to carry silver
	// or an artifact; anything above zero works but small values round away.
	MinimumArrivingEnergy = 10

	activationCooldown         = 24 * time.Hour
	wormholeActivationCooldown = 48 * time.Hour
	cannonChargeTime           = 4 * time.Hour
)

func IsUnowned(p model.Planet) bool { return p.Owner == model.EmptyAddress }

// IsMine compares the owner with the caller's account. An empty account
// never matches.
func IsMine(p model.Planet, account string) bool {
	return account != "" && p.Owner == account
}

func HasPendingMove(p model.Planet) bool { return len(p.UnconfirmedDepartures) > 0 }

func PendingEnergy(p model.Planet) float64 {
	var total float64
	for _, d := range p.UnconfirmedDepartures {
		total += d.Energy
	}
	return total
}

func PendingSilver(p model.Planet) float64 {
	var total float64
	for _, d := range p.UnconfirmedDepartures {
		total += d.Silver
	}
	return total
}

// AvailableEnergy is current energy minus energy already committed to
// unconfirmed departures.
func AvailableEnergy(p model.Planet) float64 { return p.Energy - PendingEnergy(p) }

func AvailableSilver(p model.Planet) float64 { return p.Silver - PendingSilver(p) }

// EnergyPercent is available energy as a whole percentage of the cap.
func EnergyPercent(p model.Planet) float64 {
	if p.EnergyCap <= 0 {
		return 0
	}
	return math.Floor(AvailableEnergy(p) / p.EnergyCap * 100)
}

func SilverPercent(p model.Planet) float64 {
	if p.SilverCap <= 0 {
		return 0
	}
	return math.Floor(AvailableSilver(p) / p.SilverCap * 100)
}

func EnoughEnergyToProspect(p model.Planet) bool {
	return EnergyPercent(p) >= ProspectEnergyPercent
}

// CanAcceptMove reports whether one more move may target p: fewer than
// MaxMoveCount incoming moves, and held plus incoming artifacts within
// maxArtifactCount (MaxArtifactCount when <= 0).
func CanAcceptMove(snap snapshot.Accessor, p model.Planet, now time.Time, maxArtifactCount int) bool {
	return newCapacity(snap, now, maxArtifactCount).accepts(p, false)
}

// CanAcceptArtifactMove is CanAcceptMove for a move that carries an
// artifact, so the artifact it brings counts against the cap too.
func CanAcceptArtifactMove(snap snapshot.Accessor, p model.Planet, now time.Time, maxArtifactCount int) bool {
	return newCapacity(snap, now, maxArtifactCount).accepts(p, true)
}

// MineAndBigger is the default destination filter for moves: the candidate
// is mine and strictly higher level than the source.
func MineAndBigger(account string, from, to model.Planet) bool {
	return IsMine(to, account) && to.Level > from.Level
}

// MinimumEnergyNeeded is the energy a move from→to must carry to arrive with
// anything at all.
func MinimumEnergyNeeded(snap snapshot.Accessor, from, to model.Planet) (float64, bool) {
	e, ok := snap.EnergyNeededForMove(from, to, MinimumArrivingEnergy)
	if !ok {
		return 0, false
	}
	return math.Ceil(e), true
}

// EnergyNeeded is the energy to send so the destination ends up targetPercent
// full, including what it takes to beat the defense of a planet that is not
// mine.
func EnergyNeeded(snap snapshot.Accessor, account string, from, to model.Planet, targetPercent float64) (float64, bool) {
	var toTake float64
	if !IsMine(to, account) {
		toTake = to.Energy * (to.Defense / 100)
	}
	arriving := to.EnergyCap*targetPercent/100 + toTake
	e, ok := snap.EnergyNeededForMove(from, to, arriving)
	if !ok {
		return 0, false
	}
	return math.Ceil(e), true
}

// IsActivated is true while lastActivated is after lastDeactivated.
func IsActivated(a model.Artifact) bool { return a.LastActivated > a.LastDeactivated }

// ActivationCooldown is the wait after deactivation before reactivation.
func ActivationCooldown(t model.ArtifactType) time.Duration {
	if t == model.ArtifactWormhole {
		return wormholeActivationCooldown
	}
	return activationCooldown
}

// CanBeActivated is true strictly after lastDeactivated plus the cooldown.
func CanBeActivated(a model.Artifact, now time.Time) bool {
	readyAt := time.Unix(a.LastDeactivated, 0).Add(ActivationCooldown(a.Type))
	return now.After(readyAt)
}

// ActivationState is where an artifact sits in its activation lifecycle.
type ActivationState int

const (
	StateIdle ActivationState = iota
	StateActivationPending
	StateActive
	StateDeactivationCooldown
)

func (s ActivationState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActivationPending:
		return "activation-pending"
	case StateActive:
		return "active"
	case StateDeactivationCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// ClassifyActivation derives the lifecycle state from the snapshot alone.
func ClassifyActivation(a model.Artifact, now time.Time) ActivationState {
	switch {
	case a.UnconfirmedActivate:
		return StateActivationPending
	case IsActivated(a):
		return StateActive
	case !CanBeActivated(a, now):
		return StateDeactivationCooldown
	default:
		return StateIdle
	}
}

// HasActiveArtifact reports whether any artifact p holds is active.
func HasActiveArtifact(snap snapshot.Accessor, p model.Planet) bool {
	return slices.ContainsFunc(snap.ArtifactsWithIDs(p.HeldArtifactIDs), IsActivated)
}

// CannonReadyToFire is an active photoid cannon that has charged long enough.
func CannonReadyToFire(a model.Artifact, now time.Time) bool {
	if a.Type != model.ArtifactPhotoidCannon || !IsActivated(a) {
		return false
	}
	return now.After(time.Unix(a.LastActivated, 0).Add(cannonChargeTime))
}

// BlocksLeftToProspectExpiration counts down from the prospect block; an
// unprospected planet counts from block zero.
func BlocksLeftToProspectExpiration(prospectedBlock *int64, currentBlock int64) int64 {
	var start int64
	if prospectedBlock != nil {
		start = *prospectedBlock
	}
	return start + ProspectExpiryBlocks - currentBlock
}

func ProspectExpired(prospectedBlock, currentBlock int64) bool {
	return BlocksLeftToProspectExpiration(&prospectedBlock, currentBlock) <= 0
}

func IsProspectable(snap snapshot.Accessor, p model.Planet) bool {
	return snap.IsMineable(p) && p.ProspectedBlock == nil && !p.UnconfirmedProspect
}

func IsFindable(snap snapshot.Accessor, p model.Planet) bool {
	return snap.IsMineable(p) &&
		p.ProspectedBlock != nil &&
		!p.HasTriedFindingArtifact &&
		!p.UnconfirmedFindArtifact &&
		!ProspectExpired(*p.ProspectedBlock, snap.BlockNumber())
}

func CanHaveArtifact(snap snapshot.Accessor, p model.Planet) bool {
	return snap.IsMineable(p) && !p.HasTriedFindingArtifact
}

// PlanetRank is the total number of upgrades across branches.
func PlanetRank(p model.Planet) int {
	return p.UpgradeState[0] + p.UpgradeState[1] + p.UpgradeState[2]
}

func PlanetMaxRank(p model.Planet) int {
	switch p.SpaceType {
	case model.SpaceTypeNebula:
		return 3
	case model.SpaceTypeSpace:
		return 4
	default:
		return 5
	}
}

// SilverForNextUpgrade is 20% of the silver cap per rank already taken plus
// one. ok is false once the planet is fully upgraded.
func SilverForNextUpgrade(p model.Planet) (float64, bool) {
	rank := PlanetRank(p)
	if rank >= PlanetMaxRank(p) {
		return 0, false
	}
	return math.Floor(float64(rank+1) * 0.2 * p.SilverCap), true
}

// CanUpgrade reports whether a regular planet is below its max rank and holds
// enough silver for the next upgrade.
func CanUpgrade(p model.Planet) bool {
	need, ok := SilverForNextUpgrade(p)
	return ok && p.Type == model.PlanetTypePlanet && AvailableSilver(p) >= need
}
