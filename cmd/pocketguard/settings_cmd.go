package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/viant/pocketguard/policy"
	"github.com/viant/pocketguard/policy/file"
)

const defaultSettings = "pocketguard-settings.yaml"

func settingsCmd() *cobra.Command {
	var location string
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View, change and watch the feature settings",
	}
	cmd.PersistentFlags().StringVarP(&location, "file", "f", defaultSettings, "settings file")
	cmd.AddCommand(settingsShowCmd(&location))
	cmd.AddCommand(settingsSetCmd(&location))
	cmd.AddCommand(settingsWatchCmd(&location))
	return cmd
}

func settingsShowCmd(location *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the current feature settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := file.New(cmd.Context(), *location)
			if err != nil {
				return err
			}
			return printPolicy(provider.Policy())
		},
	}
}

func settingsSetCmd(location *string) *cobra.Command {
	var (
		secureCalls      bool
		onlyWhenInPocket bool
		antiPocket       bool
		lockWhenInPocket bool
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change feature settings; flags not given keep their value",
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := file.New(cmd.Context(), *location)
			if err != nil {
				return err
			}
			pol := *provider.Policy()
			flags := cmd.Flags()
			if flags.Changed("secure-calls") {
				pol.SecureCalls = secureCalls
			}
			if flags.Changed("only-in-pocket") {
				pol.OnlyWhenInPocket = onlyWhenInPocket
			}
			if flags.Changed("anti-pocket") {
				pol.AntiPocket = antiPocket
			}
			if flags.Changed("lock-in-pocket") {
				pol.LockWhenInPocket = lockWhenInPocket
			}
			if err = provider.Save(cmd.Context(), &pol); err != nil {
				return err
			}
			return printPolicy(&pol)
		},
	}
	cmd.Flags().BoolVar(&secureCalls, "secure-calls", false, "confirm outgoing calls with a slide")
	cmd.Flags().BoolVar(&onlyWhenInPocket, "only-in-pocket", false, "confirm only calls placed from a pocket")
	cmd.Flags().BoolVar(&antiPocket, "anti-pocket", false, "react when the phone enters a pocket")
	cmd.Flags().BoolVar(&lockWhenInPocket, "lock-in-pocket", false, "lock the screen instead of showing the unlock slider")
	return cmd
}

func settingsWatchCmd(location *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the feature settings every time the file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			provider, err := file.New(ctx, *location, file.WithLogger(slog.Default()), file.WithOnChange(func(pol *policy.Policy) {
				_ = printPolicy(pol)
			}))
			if err != nil {
				return err
			}
			defer provider.Close()
			if err = provider.Watch(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			return ignoreCancel(ctx.Err())
		},
	}
}

func printPolicy(pol *policy.Policy) error {
	data, err := yaml.Marshal(policyConfig(pol))
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	fmt.Println("---")
	return nil
}

func policyConfig(pol *policy.Policy) *policy.Config {
	if cfg := policy.ToConfig(pol); cfg != nil {
		return cfg
	}
	return &policy.Config{}
}

func ignoreCancel(err error) error {
	if err == context.Canceled {
		return nil
	}
	return err
}
