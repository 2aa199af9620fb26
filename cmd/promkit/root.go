// Package main provides the promkit CLI application.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prom-tools/promkit/pkg/config"
	"github.com/prom-tools/promkit/pkg/observability"
	"github.com/prom-tools/promkit/pkg/version"
)

var (
	cfgFile string

	cfg    *config.Config
	logger observability.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "promkit",
	Short: "Prometheus and Grafana automation toolkit",
	Long: `promkit automates common Prometheus and Grafana operations:
querying metrics, inspecting scrape targets and alerts, and managing
dashboards and datasources.

Configuration is read from a .promkit.yaml file in the working
directory or its parents, or from PROMKIT_* environment variables.`,
	Version:       version.FullString(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadDefault()
		}
		if err != nil {
			return err
		}

		logger, err = observability.NewLogger(cfg.Logging.Level, cfg.Logging.File)
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .promkit.yaml in the working directory or its parents)")
}

func prometheusConfig() (*config.PrometheusConfig, error) {
	if cfg == nil || cfg.Prometheus == nil {
		return nil, fmt.Errorf("prometheus is not configured; set prometheus.url in .promkit.yaml or PROMKIT_PROMETHEUS_URL")
	}
	return cfg.Prometheus, nil
}

func grafanaConfig() (*config.GrafanaConfig, error) {
	if cfg == nil || cfg.Grafana == nil {
		return nil, fmt.Errorf("grafana is not configured; set grafana.url in .promkit.yaml or PROMKIT_GRAFANA_URL")
	}
	return cfg.Grafana, nil
}
