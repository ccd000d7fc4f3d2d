package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/nstehr/dfauto/audit"
	"github.com/nstehr/dfauto/config"
	"github.com/nstehr/dfauto/model"
	"github.com/nstehr/dfauto/planner"
	"github.com/nstehr/dfauto/snapshot"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow)
)

// snapshotFlags are shared by the commands that read a saved game_state.
type snapshotFlags struct {
	account string
	at      int64
}

func (f *snapshotFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.account, "account", "", "treat this address as mine (overrides the snapshot and config)")
	cmd.Flags().Int64Var(&f.at, "at", 0, "evaluate as of this unix time (default: snapshot timestamp, then now)")
}

func (f *snapshotFlags) load(path string, cfg config.Config) (*snapshot.View, time.Time, error) {
	gs, err := readSnapshot(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	account := f.account
	if account == "" {
		account = cfg.Account
	}
	view := snapshot.NewView(gs, account)
	if view.Account() == "" {
		return nil, time.Time{}, fmt.Errorf("%s: no account in snapshot; pass --account", path)
	}
	now := view.Now(time.Now())
	if f.at != 0 {
		now = time.Unix(f.at, 0)
	}
	return view, now, nil
}

func planCmd() *cobra.Command {
	var sf snapshotFlags
	cmd := &cobra.Command{
		Use:   "plan <snapshot.json>",
		Short: "Dry-run every enabled strategy against a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			view, now, err := sf.load(args[0], cfg)
			if err != nil {
				return err
			}
			plans, err := dryRunPlans(view, now, cfg)
			if err != nil {
				return err
			}

			// Each strategy is planned independently, so destinations may be
			// counted by more than one of them here.
			emit := planner.Emitter{Submitter: &planner.Recorder{}}
			titleColor.Printf("\nPlans for %s at block %d\n", view.Account(), view.BlockNumber())
			total := 0
			for _, plan := range plans {
				results := emit.Run(context.Background(), plan)
				total += len(plan.Intents)
				printResults(view, plan.Strategy, results)
			}
			successColor.Printf("\n%d intents\n", total)
			return nil
		},
	}
	sf.register(cmd)
	return cmd
}

func dryRunPlans(view *snapshot.View, now time.Time, cfg config.Config) ([]planner.Plan, error) {
	var plans []planner.Plan
	if cfg.DistributeEnergy.Enabled {
		c, err := cfg.DistributeEnergyConfig()
		if err != nil {
			return nil, err
		}
		plans = append(plans, planner.DistributeEnergy(view, now, c))
	}
	if cfg.DistributeSilver.Enabled {
		c, err := cfg.DistributeSilverConfig()
		if err != nil {
			return nil, err
		}
		plans = append(plans, planner.DistributeSilver(view, now, c))
	}
	if cfg.Withdraw.Enabled {
		c, err := cfg.WithdrawConfig()
		if err != nil {
			return nil, err
		}
		plans = append(plans, planner.Withdraw(view, now, c))
	}
	if cfg.Activate.Enabled {
		c, err := cfg.ActivateConfig()
		if err != nil {
			return nil, err
		}
		plans = append(plans, planner.Activate(view, now, c))
	}
	if cfg.Prospect.Enabled || cfg.Find.Enabled {
		c, err := cfg.ProspectConfig()
		if err != nil {
			return nil, err
		}
		prospect, find := planner.ProspectAndFind(view, c)
		if cfg.Prospect.Enabled {
			plans = append(plans, prospect)
		}
		if cfg.Find.Enabled {
			plans = append(plans, find)
		}
	}
	return plans, nil
}

func printResults(view *snapshot.View, strategy string, results []planner.Result) {
	fmt.Printf("\n%s:\n", strategy)
	if len(results) == 0 {
		fmt.Println("   nothing to do")
		return
	}
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Status", "Kind", "From", "To", "Energy", "Silver", "Artifact", "Reason"}),
	)
	for _, r := range results {
		row := []string{string(r.Status), "", planetLabel(view, r.Source), "", "", "", "", r.Reason}
		if in := r.Intent; in != nil {
			row[1] = string(in.Kind)
			row[3] = planetLabel(view, in.To)
			if in.WormholeTo != "" {
				row[3] = planetLabel(view, in.WormholeTo)
			}
			if in.Kind == planner.IntentMove {
				row[4] = fmt.Sprintf("%.0f", in.Energy)
				row[5] = fmt.Sprintf("%.0f", in.Silver)
			}
			row[6] = string(in.ArtifactID)
		}
		table.Append(row)
	}
	table.Render()
}

func planetLabel(view *snapshot.View, id model.LocationID) string {
	if id == "" {
		return ""
	}
	if p, ok := view.Planet(id); ok {
		return view.PlanetName(p)
	}
	return string(id)
}

func reportCmd() *cobra.Command {
	var sf snapshotFlags
	cmd := &cobra.Command{
		Use:   "report <snapshot.json>",
		Short: "Print planet highlights, cannon status and upgrade candidates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			view, now, err := sf.load(args[0], cfg)
			if err != nil {
				return err
			}

			titleColor.Printf("\nReport for %s at block %d\n", view.Account(), view.BlockNumber())
			h := planner.Highlight(view, now)
			printPlanets(view, "Winners", h.Winners)
			printPlanets(view, "Closest to center", h.Closest)
			printPlanets(view, "Spacetime rips", h.Rips)
			printPlanets(view, "Foundries", h.Foundries)
			printPlanets(view, "Level 5+ without wormhole or cannon", h.NeedCannon)
			printPlanets(view, "Double range", h.DoubleRange)
			printPlanets(view, "Cannons ready to fire", h.ReadyToFire)
			printCannons(view, planner.Cannons(view, now))
			printPlanets(view, "Full silver asteroids", planner.FullSilver(view, model.PlanetLevel(cfg.MinLevelAsteroid)))
			printPlanets(view, "Upgradable", planner.Upgradable(view))
			return nil
		},
	}
	sf.register(cmd)
	return cmd
}

func printPlanets(view *snapshot.View, title string, planets []model.Planet) {
	fmt.Printf("\n%s (%d):\n", title, len(planets))
	if len(planets) == 0 {
		return
	}
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Planet", "Type", "Level", "Owner", "Energy", "Silver", "Center"}),
	)
	for _, p := range planets {
		center := "?"
		if d, ok := planner.DistanceToCenter(p); ok {
			center = fmt.Sprintf("%.0f", d)
		}
		table.Append([]string{
			view.PlanetName(p),
			p.Type.String(),
			fmt.Sprintf("%d", p.Level),
			shortAddress(p.Owner),
			fmt.Sprintf("%.0f%%", planner.EnergyPercent(p)),
			fmt.Sprintf("%.0f%%", planner.SilverPercent(p)),
			center,
		})
	}
	table.Render()
}

func printCannons(view *snapshot.View, rows []planner.CannonStatus) {
	fmt.Printf("\nPhotoid cannons (%d):\n", len(rows))
	if len(rows) == 0 {
		return
	}
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Artifact", "Rarity", "Planet", "Level", "Status"}),
	)
	for _, r := range rows {
		planet, level := "inventory", ""
		if r.Planet != nil {
			planet = view.PlanetName(*r.Planet)
			level = fmt.Sprintf("%d", r.Planet.Level)
		}
		status := r.Status
		if status == "FIRE" {
			status = successColor.Sprint(status)
		}
		table.Append([]string{string(r.Artifact.ID), r.Artifact.Rarity.String(), planet, level, status})
	}
	table.Render()
}

func shortAddress(addr string) string {
	if addr == model.EmptyAddress {
		return "-"
	}
	if len(addr) > 10 {
		return addr[:6] + ".." + addr[len(addr)-4:]
	}
	return addr
}

func auditCmd() *cobra.Command {
	var tail int
	cmd := &cobra.Command{
		Use:   "audit <dir|file>",
		Short: "Print entries from the compressed audit trail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := []string{args[0]}
			if info, err := os.Stat(args[0]); err != nil {
				return err
			} else if info.IsDir() {
				if files, err = audit.Files(args[0]); err != nil {
					return err
				}
			}

			var entries []audit.Entry
			for _, f := range files {
				e, err := audit.ReadFile(f)
				if err != nil {
					// A file still being written ends mid-frame.
					warnColor.Fprintf(os.Stderr, "%v\n", err)
				}
				entries = append(entries, e...)
			}
			if tail > 0 && len(entries) > tail {
				entries = entries[len(entries)-tail:]
			}

			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Time", "Block", "Strategy", "Status", "Source", "Detail"}),
			)
			for _, e := range entries {
				table.Append([]string{
					e.Time.Local().Format(time.DateTime),
					fmt.Sprintf("%d", e.Block),
					e.Strategy,
					string(e.Status),
					e.Source,
					entryDetail(e),
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&tail, "tail", 50, "show only the last N entries (0 = all)")
	return cmd
}

func entryDetail(e audit.Entry) string {
	var parts []string
	if in := e.Intent; in != nil {
		switch in.Kind {
		case planner.IntentMove:
			parts = append(parts, fmt.Sprintf("move to %s energy=%.0f silver=%.0f", in.To, in.Energy, in.Silver))
			if in.ArtifactID != "" {
				parts = append(parts, "artifact="+string(in.ArtifactID))
			}
		case planner.IntentActivate:
			parts = append(parts, "activate "+string(in.ArtifactID))
			if in.WormholeTo != "" {
				parts = append(parts, "to "+string(in.WormholeTo))
			}
		default:
			parts = append(parts, string(in.Kind))
		}
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	return strings.Join(parts, " ")
}
