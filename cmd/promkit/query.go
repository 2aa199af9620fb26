package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/prom-tools/promkit/pkg/models"
	"github.com/prom-tools/promkit/pkg/prometheus"
	"github.com/prom-tools/promkit/pkg/promutil"
)

var (
	queryRange    bool
	queryStart    string
	queryEnd      string
	queryStep     string
	queryTime     string
	queryTimeout  string
	queryOutput   string
	queryFile     string
	queryParallel int
)

var queryCmd = &cobra.Command{
	Use:   "query [expression]",
	Short: "Execute PromQL queries",
	Long: `Execute an instant or range PromQL query, or a batch of named
queries loaded from a YAML file.

Examples:
  promkit query 'up'
  promkit query --range --start 2h --end now --step 1m 'rate(http_requests_total[5m])'
  promkit query --file queries.yaml --parallel 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		promCfg, err := prometheusConfig()
		if err != nil {
			return err
		}
		client, err := prometheus.NewClient(promCfg, prometheus.WithLogger(logger))
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if queryFile != "" {
			return runQueryBatch(ctx, client)
		}
		if len(args) == 0 {
			return fmt.Errorf("an expression or --file is required")
		}
		if queryRange {
			return runRangeQuery(ctx, client, args[0])
		}
		return runInstantQuery(ctx, client, args[0])
	},
}

func init() {
	queryCmd.Flags().BoolVar(&queryRange, "range", false, "execute a range query")
	queryCmd.Flags().StringVar(&queryStart, "start", "1h", "range start: RFC3339 timestamp or duration before now")
	queryCmd.Flags().StringVar(&queryEnd, "end", "", "range end: RFC3339 timestamp or duration before now (default now)")
	queryCmd.Flags().StringVar(&queryStep, "step", "1m", "range query resolution step")
	queryCmd.Flags().StringVar(&queryTime, "time", "", "instant query evaluation time (RFC3339)")
	queryCmd.Flags().StringVar(&queryTimeout, "timeout", "", "server-side evaluation timeout, e.g. 30s")
	queryCmd.Flags().StringVarP(&queryOutput, "output", "o", "table", "output format: table or json")
	queryCmd.Flags().StringVarP(&queryFile, "file", "f", "", "YAML file with a list of named queries")
	queryCmd.Flags().IntVar(&queryParallel, "parallel", 10, "max concurrent queries for --file batches")

	rootCmd.AddCommand(queryCmd)
}

func runInstantQuery(ctx context.Context, client *prometheus.Client, expr string) error {
	opts := prometheus.QueryOptions{Timeout: queryTimeout}
	if queryTime != "" {
		t, err := time.Parse(time.RFC3339, queryTime)
		if err != nil {
			return fmt.Errorf("invalid --time: %w", err)
		}
		opts.Time = t
	}

	result := client.Query(ctx, expr, opts)
	return printResults([]models.QueryResult{result})
}

func runRangeQuery(ctx context.Context, client *prometheus.Client, expr string) error {
	start, end, err := promutil.ParseTimeRange(queryStart, queryEnd)
	if err != nil {
		return err
	}

	result := client.QueryRange(ctx, expr, start, end, queryStep, prometheus.QueryOptions{Timeout: queryTimeout})
	return printResults([]models.QueryResult{result})
}

// queryFileEntry is one query in a --file batch.
type queryFileEntry struct {
	Name        string `yaml:"name"`
	Query       string `yaml:"query"`
	Description string `yaml:"description"`
	Start       string `yaml:"start"`
	End         string `yaml:"end"`
	Step        string `yaml:"step"`
	Timeout     string `yaml:"timeout"`
}

func runQueryBatch(ctx context.Context, client *prometheus.Client) error {
	data, err := os.ReadFile(queryFile)
	if err != nil {
		return fmt.Errorf("failed to read query file: %w", err)
	}

	var entries []queryFileEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse query file: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("query file %s contains no queries", queryFile)
	}

	queries := make([]models.Query, 0, len(entries))
	for _, e := range entries {
		q := models.NewQuery(e.Name, e.Query)
		q.Description = e.Description
		q.Timeout = e.Timeout
		if e.Start != "" {
			start, end, err := promutil.ParseTimeRange(e.Start, e.End)
			if err != nil {
				return fmt.Errorf("query %q: %w", e.Name, err)
			}
			q.Start, q.End = &start, &end
			q.Step = e.Step
		}
		queries = append(queries, q)
	}

	began := time.Now()
	results, err := client.QueryMultiple(ctx, queries, prometheus.MultiOptions{MaxConcurrent: queryParallel})
	if err != nil {
		return err
	}

	if err := printResults(results); err != nil {
		return err
	}
	if queryOutput != "json" {
		printBatchSummary(results, time.Since(began))
	}
	return nil
}

func printResults(results []models.QueryResult) error {
	if queryOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, r := range results {
		status := "ok"
		if !r.Success {
			status = "FAILED"
		}
		fmt.Printf("%s  [%s]  %s  (%s)\n", r.DisplayName(), r.Type, status, promutil.FormatDuration(r.ExecutionTime))
		if !r.Success {
			fmt.Printf("  error: %s\n", r.Error)
			continue
		}
		for _, m := range r.Metrics {
			fmt.Printf("  %s\n", m)
		}
	}
	return nil
}

func printBatchSummary(results []models.QueryResult, elapsed time.Duration) {
	succeeded := 0
	var slowest time.Duration
	var total time.Duration
	for _, r := range results {
		if r.Success {
			succeeded++
		}
		total += r.ExecutionTime
		if r.ExecutionTime > slowest {
			slowest = r.ExecutionTime
		}
	}

	fmt.Printf("\n%d/%d queries succeeded in %s (slowest %s, avg %s)\n",
		succeeded, len(results),
		promutil.FormatDuration(elapsed),
		promutil.FormatDuration(slowest),
		promutil.FormatDuration(total/time.Duration(len(results))))
}
