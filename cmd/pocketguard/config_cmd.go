package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/viant/pocketguard"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and validate configuration",
	}
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configValidateCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration (defaults, file, environment)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := pocketguard.LoadConfig(cmd.Context(), configURL)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

func configValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := pocketguard.LoadConfig(cmd.Context(), configURL); err != nil {
				return err
			}
			location := configURL
			if location == "" {
				location = "defaults"
			}
			fmt.Printf("Config at %s is valid.\n", location)
			return nil
		},
	}
}
