package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	configURL string
	verbose   bool
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pocketguard",
		Short:         "Pocket call and unlock guard",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	cmd.PersistentFlags().StringVarP(&configURL, "config", "c", os.Getenv("POCKETGUARD_CONFIG"), "configuration URL (YAML)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	cmd.AddCommand(replayCmd())
	cmd.AddCommand(configCmd())
	cmd.AddCommand(settingsCmd())
	return cmd
}
