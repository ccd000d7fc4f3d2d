package rules

import (
	"context"
	"time"

	"github.com/expr-lang/expr/vm"

	"github.com/nstehr/dfauto/planner"
)

// ActionFunc plans against the snapshot in env and emits the plan.
type ActionFunc func(ctx context.Context, env RuleEnv, emit planner.Emitter) []planner.Result

// Rule pairs a condition with a strategy run.
// The engine evaluates rules by priority and uses Category + Exclusive
// to keep two planners from moving to the same planets off one snapshot.
type Rule struct {
	Name         string        // human-readable identifier
	Priority     int           // higher = evaluated first
	Category     string        // grouping for exclusive semantics
	Exclusive    bool          // if true, blocks lower-priority rules in same category
	Interval     time.Duration // minimum time between firings; 0 fires on every snapshot
	ConditionSrc string        // expr source (preserved for serialization)
	program      *vm.Program   // compiled bytecode
	Action       ActionFunc
}
