package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nstehr/dfauto/config"
	"github.com/nstehr/dfauto/model"
)

const banner = `
     _  __             _
  __| |/ _| __ _ _   _| |_ ___
 / _' | |_ / _' | | | | __/ _ \
| (_| |  _| (_| | |_| | || (_) |
 \__,_|_|  \__,_|\__,_|\__\___/

Dark Forest Automation Sidecar`

var (
	logLevel   string
	configPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dfauto",
		Short: "Dark Forest automation sidecar",
		Long: `Runs energy/silver distribution, artifact and prospecting strategies
against snapshots pushed by the game client plugin, and sends the resulting
moves back to it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("--log-level: %w", err)
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))
			slog.SetDefault(logger)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (defaults when empty)")

	rootCmd.AddCommand(serveCmd(), planCmd(), reportCmd(), auditCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// readSnapshot decodes a game_state payload saved from the plugin.
func readSnapshot(path string) (model.GameState, error) {
	var gs model.GameState
	raw, err := os.ReadFile(path)
	if err != nil {
		return gs, err
	}
	if err := json.Unmarshal(raw, &gs); err != nil {
		return gs, fmt.Errorf("%s: %w", path, err)
	}
	return gs, nil
}
