package rules

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/nstehr/dfauto/planner"
	"github.com/nstehr/dfauto/snapshot"
)

// Engine runs compiled rules against each snapshot the host pushes.
// Rules fire in priority order; exclusive rules block lower-priority rules
// in the same category, and a rule that fired less than Interval ago waits.
type Engine struct {
	mu    sync.RWMutex
	rules []*Rule

	firedMu   sync.Mutex // guards lastFired
	lastFired map[string]time.Time
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{
		rules:     compiled,
		lastFired: make(map[string]time.Time),
	}, nil
}

// Evaluate runs all rules against snap as of now and returns every result the
// fired actions produced.
func (e *Engine) Evaluate(ctx context.Context, snap snapshot.Accessor, now time.Time, sub planner.Submitter) []planner.Result {
	e.mu.RLock()
	rules := e.rules
	e.mu.RUnlock()

	env := RuleEnv{Snap: snap, Now: now}
	emit := planner.Emitter{Submitter: sub}
	blocked := make(map[string]bool) // category → exclusive rule already fired

	var results []planner.Result
	for _, r := range rules {
		if blocked[r.Category] || !e.due(r, now) {
			continue
		}

		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}
		match, ok := result.(bool)
		if !ok || !match {
			continue
		}

		slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "category", r.Category)
		e.markFired(r.Name, now)
		results = append(results, r.Action(ctx, env, emit)...)

		if r.Exclusive {
			blocked[r.Category] = true
		}
	}
	return results
}

func (e *Engine) due(r *Rule, now time.Time) bool {
	if r.Interval <= 0 {
		return true
	}
	e.firedMu.Lock()
	last, ok := e.lastFired[r.Name]
	e.firedMu.Unlock()
	return !ok || now.Sub(last) >= r.Interval
}

func (e *Engine) markFired(name string, now time.Time) {
	e.firedMu.Lock()
	e.lastFired[name] = now
	e.firedMu.Unlock()
}

// ResetInterval makes every rule in category due on the next snapshot.
// The agent calls it when an event makes waiting pointless.
func (e *Engine) ResetInterval(category string) {
	e.mu.RLock()
	rules := e.rules
	e.mu.RUnlock()

	e.firedMu.Lock()
	defer e.firedMu.Unlock()
	for _, r := range rules {
		if r.Category == category {
			delete(e.lastFired, r.Name)
		}
	}
}

// Swap atomically replaces the rule set (called by the reloader when the
// config file changes). Compiles first; if compilation fails the old rules
// remain active. Firing times carry over for rules that keep their name.
func (e *Engine) Swap(newRules []*Rule) error {
	compiled, err := compileRules(newRules)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.rules = compiled
	e.mu.Unlock()
	slog.Info("rule set swapped", "count", len(compiled), "rules", ruleNames(compiled))
	return nil
}

// RuleNames lists the active rules in evaluation order.
func (e *Engine) RuleNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return ruleNames(e.rules)
}

func ruleNames(rules []*Rule) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(RuleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
