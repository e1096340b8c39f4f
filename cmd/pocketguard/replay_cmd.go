package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/viant/afs"

	"github.com/viant/pocketguard"
	"github.com/viant/pocketguard/policy/file"
	"github.com/viant/pocketguard/scenario"
	"github.com/viant/pocketguard/service/event"
	fsqueue "github.com/viant/pocketguard/service/messaging/fs"
	"github.com/viant/pocketguard/tracing"
)

func replayCmd() *cobra.Command {
	var (
		settings  string
		traceFile string
		journal   string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>...",
		Short: "Replay scripted samples, calls and gestures",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if traceFile != "" {
				if err := tracing.Init("pocketguard", version, traceFile); err != nil {
					return fmt.Errorf("failed to init tracing: %w", err)
				}
			}
			fs := afs.New()
			var opts []scenario.Option
			if journal != "" {
				queue, err := fsqueue.NewQueue[event.Event[any]](fs, fsqueue.Config{BasePath: journal})
				if err != nil {
					return err
				}
				opts = append(opts, scenario.WithJournal(queue))
			}
			failed := 0
			for _, URL := range args {
				report, err := replay(ctx, fs, URL, settings, opts...)
				if err != nil {
					return err
				}
				if asJSON {
					data, _ := json.MarshalIndent(report, "", "  ")
					fmt.Println(string(data))
				} else {
					printReport(report)
				}
				if !report.Passed() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scenarios failed", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&settings, "settings", "", "settings file overriding the scenario feature flags")
	cmd.Flags().StringVar(&traceFile, "trace", "", "write spans to this file")
	cmd.Flags().StringVar(&journal, "journal", "", "directory journaling every replayed event")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print reports as JSON")
	return cmd
}

func replay(ctx context.Context, fs afs.Service, URL, settings string, opts ...scenario.Option) (*scenario.Report, error) {
	script, err := scenario.Load(ctx, fs, URL)
	if err != nil {
		return nil, err
	}
	if configURL != "" {
		cfg, err := pocketguard.LoadConfig(ctx, configURL)
		if err != nil {
			return nil, err
		}
		cfg.Policy = script.Config.Policy
		script.Config = cfg
	}
	if settings != "" {
		pol, err := file.Load(ctx, fs, settings)
		if err != nil {
			return nil, err
		}
		script.Config.Policy = *policyConfig(pol)
	}
	return scenario.Run(ctx, script, opts...)
}

func printReport(report *scenario.Report) {
	fmt.Printf("== %s\n", report.Name)
	for _, step := range report.Steps {
		status := "ok"
		if len(step.Failures) > 0 {
			status = "FAIL"
		}
		line := fmt.Sprintf("%3d %-4s %s", step.Index, status, step.Action)
		if step.Decision != "" {
			line += " [" + string(step.Decision) + "]"
		}
		if step.Detail != "" {
			line += " " + step.Detail
		}
		fmt.Println(line)
		for _, failure := range step.Failures {
			fmt.Fprintf(os.Stdout, "         %s\n", failure)
		}
	}
	p := report.Progress
	fmt.Printf("allowed:%d intercepted:%d suppressed:%d confirmed:%d cancelled:%d placed:%d failed:%d locks:%d\n",
		p.Allowed, p.Intercepted, p.Suppressed, p.Confirmed, p.Cancelled, p.Placed, p.PlaceFailed, report.Locks)
}
