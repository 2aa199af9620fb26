package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prom-tools/promkit/pkg/grafana"
	"github.com/prom-tools/promkit/pkg/prometheus"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of configured services",
	Long: `Probe every configured service and report its health. Prometheus
is checked through its health and readiness endpoints, Grafana through
its health API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		checked := 0
		failed := 0

		if cfg.Prometheus != nil {
			checked++
			client, err := prometheus.NewClient(cfg.Prometheus, prometheus.WithLogger(logger))
			if err != nil {
				return err
			}

			healthy, msg, err := client.Healthy(ctx)
			switch {
			case err != nil:
				failed++
				fmt.Printf("prometheus  %s  UNHEALTHY: %v\n", client.BaseURL(), err)
			case healthy:
				fmt.Printf("prometheus  %s  healthy: %s\n", client.BaseURL(), msg)
			}

			if _, _, err := client.Ready(ctx); err != nil {
				fmt.Printf("prometheus  %s  NOT READY: %v\n", client.BaseURL(), err)
			}
		}

		if cfg.Grafana != nil {
			checked++
			client, err := grafana.NewClient(cfg.Grafana, grafana.WithLogger(logger))
			if err != nil {
				return err
			}

			health, err := client.Health(ctx)
			if err != nil {
				failed++
				fmt.Printf("grafana     %s  UNHEALTHY: %v\n", client.BaseURL(), err)
			} else {
				fmt.Printf("grafana     %s  database=%v version=%v\n", client.BaseURL(), health["database"], health["version"])
			}
		}

		if checked == 0 {
			return fmt.Errorf("no services configured; set prometheus.url or grafana.url")
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d services unhealthy", failed, checked)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
