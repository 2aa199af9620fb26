package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prom-tools/promkit/pkg/prometheus"
)

var (
	targetsOutput string
	rulesOutput   string
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List Prometheus scrape targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		promCfg, err := prometheusConfig()
		if err != nil {
			return err
		}
		client, err := prometheus.NewClient(promCfg, prometheus.WithLogger(logger))
		if err != nil {
			return err
		}

		targets, err := client.TargetsDetailed(cmd.Context())
		if err != nil {
			return err
		}

		if targetsOutput == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(targets)
		}

		up := 0
		for _, t := range targets {
			marker := "DOWN"
			if t.Health == "up" {
				marker = "up"
				up++
			}
			fmt.Printf("%-40s %-20s %s", t.Instance, t.Job, marker)
			if t.LastError != "" {
				fmt.Printf("  (%s)", t.LastError)
			}
			fmt.Println()
		}
		fmt.Printf("\n%d/%d targets up\n", up, len(targets))
		return nil
	},
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show active Prometheus alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		promCfg, err := prometheusConfig()
		if err != nil {
			return err
		}
		client, err := prometheus.NewClient(promCfg, prometheus.WithLogger(logger))
		if err != nil {
			return err
		}

		raw, err := client.Alerts(cmd.Context())
		if err != nil {
			return err
		}
		return printRaw(raw)
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show loaded Prometheus rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		promCfg, err := prometheusConfig()
		if err != nil {
			return err
		}
		client, err := prometheus.NewClient(promCfg, prometheus.WithLogger(logger))
		if err != nil {
			return err
		}

		if rulesOutput == "json" {
			raw, err := client.Rules(cmd.Context())
			if err != nil {
				return err
			}
			return printRaw(raw)
		}

		rules, err := client.RulesDetailed(cmd.Context())
		if err != nil {
			return err
		}
		for _, r := range rules {
			state := r.State
			if state == "" {
				state = "-"
			}
			fmt.Printf("%-50s %-10s %-10s %s\n", r.Name, r.Type, state, r.Health)
		}
		fmt.Printf("\n%d rules loaded\n", len(rules))
		return nil
	},
}

func printRaw(raw json.RawMessage) error {
	var buf any
	if err := json.Unmarshal(raw, &buf); err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(buf)
}

func init() {
	targetsCmd.Flags().StringVarP(&targetsOutput, "output", "o", "table", "output format: table or json")
	rulesCmd.Flags().StringVarP(&rulesOutput, "output", "o", "table", "output format: table or json")

	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(rulesCmd)
}
