package rules

import (
	"context"
	"log/slog"

	"github.com/nstehr/dfauto/planner"
)

func logPlan(plan planner.Plan) {
	slog.Debug("planned", "strategy", plan.Strategy, "intents", len(plan.Intents), "skipped", len(plan.Skipped))
}

func ActionDistributeEnergy(cfg planner.DistributeEnergyConfig) ActionFunc {
	return func(ctx context.Context, env RuleEnv, emit planner.Emitter) []planner.Result {
		plan := planner.DistributeEnergy(env.Snap, env.Now, cfg)
		logPlan(plan)
		return emit.Run(ctx, plan)
	}
}

func ActionDistributeSilver(cfg planner.DistributeSilverConfig) ActionFunc {
	return func(ctx context.Context, env RuleEnv, emit planner.Emitter) []planner.Result {
		plan := planner.DistributeSilver(env.Snap, env.Now, cfg)
		logPlan(plan)
		return emit.Run(ctx, plan)
	}
}

func ActionWithdraw(cfg planner.WithdrawConfig) ActionFunc {
	return func(ctx context.Context, env RuleEnv, emit planner.Emitter) []planner.Result {
		plan := planner.Withdraw(env.Snap, env.Now, cfg)
		logPlan(plan)
		return emit.Run(ctx, plan)
	}
}

// ActionActivate activates at most one artifact per planet; the planet's
// unconfirmed flag keeps the next snapshot from repeating it.
func ActionActivate(cfg planner.ActivateConfig) ActionFunc {
	return func(ctx context.Context, env RuleEnv, emit planner.Emitter) []planner.Result {
		plan := planner.Activate(env.Snap, env.Now, cfg)
		logPlan(plan)
		return emit.Run(ctx, plan)
	}
}

func ActionProspect(cfg planner.ProspectConfig) ActionFunc {
	return func(ctx context.Context, env RuleEnv, emit planner.Emitter) []planner.Result {
		plan := planner.Prospect(env.Snap, cfg)
		logPlan(plan)
		return emit.Run(ctx, plan)
	}
}

func ActionFind(cfg planner.ProspectConfig) ActionFunc {
	return func(ctx context.Context, env RuleEnv, emit planner.Emitter) []planner.Result {
		plan := planner.Find(env.Snap, cfg)
		logPlan(plan)
		return emit.Run(ctx, plan)
	}
}
