package rules

import (
	"fmt"

	"github.com/nstehr/dfauto/config"
)

// Categories group rules for exclusive semantics. Every move-producing
// strategy shares CategoryMoves so only one of them plans against a snapshot;
// otherwise two planners could each fill the same destination's move slots.
const (
	CategoryMoves     = "moves"
	CategoryArtifacts = "artifacts"
	CategoryProspect  = "prospect"
)

// CompileConfig generates the rule set for the enabled strategies.
// Conditions are built via fmt.Sprintf from validated numbers, and a
// strategy's own condition is AND-ed with the user's.
func CompileConfig(c config.Config) ([]*Rule, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var rules []*Rule

	if s := c.DistributeEnergy.Schedule; s.Enabled {
		cfg, err := c.DistributeEnergyConfig()
		if err != nil {
			return nil, err
		}
		rules = append(rules, &Rule{
			Name:         "distribute-energy",
			Priority:     s.Priority,
			Category:     CategoryMoves,
			Exclusive:    true,
			Interval:     s.Interval,
			ConditionSrc: withUser(fmt.Sprintf(`FullEnergyCount(%.1f) > 0`, cfg.SourceMinPercent), s.Condition),
			Action:       ActionDistributeEnergy(cfg),
		})
	}

	if s := c.DistributeSilver.Schedule; s.Enabled {
		cfg, err := c.DistributeSilverConfig()
		if err != nil {
			return nil, err
		}
		rules = append(rules, &Rule{
			Name:         "distribute-silver",
			Priority:     s.Priority,
			Category:     CategoryMoves,
			Exclusive:    true,
			Interval:     s.Interval,
			ConditionSrc: withUser(fmt.Sprintf(`SilverAboveCount(%.1f) > 0`, cfg.SourceMinPercent), s.Condition),
			Action:       ActionDistributeSilver(cfg),
		})
	}

	if s := c.Withdraw.Schedule; s.Enabled {
		cfg, err := c.WithdrawConfig()
		if err != nil {
			return nil, err
		}
		rules = append(rules, &Rule{
			Name:         "withdraw",
			Priority:     s.Priority,
			Category:     CategoryMoves,
			Exclusive:    true,
			Interval:     s.Interval,
			ConditionSrc: withUser(`MyPlanetCount() > 1`, s.Condition),
			Action:       ActionWithdraw(cfg),
		})
	}

	if s := c.Activate.Schedule; s.Enabled {
		cfg, err := c.ActivateConfig()
		if err != nil {
			return nil, err
		}
		rules = append(rules, &Rule{
			Name:         "activate-artifacts",
			Priority:     s.Priority,
			Category:     CategoryArtifacts,
			Exclusive:    true,
			Interval:     s.Interval,
			ConditionSrc: withUser(`ActivatableCount() > 0`, s.Condition),
			Action:       ActionActivate(cfg),
		})
	}

	// Prospect and find are independent; neither blocks the other.
	prospect, err := c.ProspectConfig()
	if err != nil {
		return nil, err
	}
	if s := c.Prospect.Schedule; s.Enabled {
		rules = append(rules, &Rule{
			Name:         "prospect",
			Priority:     s.Priority,
			Category:     CategoryProspect,
			Interval:     s.Interval,
			ConditionSrc: withUser(`ProspectableCount() > 0`, s.Condition),
			Action:       ActionProspect(prospect),
		})
	}
	if s := c.Find; s.Enabled {
		rules = append(rules, &Rule{
			Name:         "find-artifacts",
			Priority:     s.Priority,
			Category:     CategoryProspect,
			Interval:     s.Interval,
			ConditionSrc: withUser(`FindableCount() > 0`, s.Condition),
			Action:       ActionFind(prospect),
		})
	}

	return rules, nil
}

func withUser(base, user string) string {
	if user == "" {
		return base
	}
	return fmt.Sprintf("(%s) && (%s)", base, user)
}
