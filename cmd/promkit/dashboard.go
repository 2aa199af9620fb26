package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prom-tools/promkit/pkg/grafana"
)

var (
	dashboardSearchTags  []string
	dashboardSearchLimit int
	dashboardImportDir   int
	dashboardOverwrite   bool
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Manage Grafana dashboards",
}

var dashboardGetCmd = &cobra.Command{
	Use:   "get <uid>",
	Short: "Fetch a dashboard by UID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newGrafanaClient()
		if err != nil {
			return err
		}
		payload, err := client.GetDashboard(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printRaw(payload.Dashboard)
	},
}

var dashboardSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search dashboards",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newGrafanaClient()
		if err != nil {
			return err
		}

		opts := grafana.SearchOptions{
			Tags:  dashboardSearchTags,
			Limit: dashboardSearchLimit,
			Type:  "dash-db",
		}
		if len(args) == 1 {
			opts.Query = args[0]
		}

		hits, err := client.SearchDashboards(cmd.Context(), opts)
		if err != nil {
			return err
		}
		for _, d := range hits {
			folder := d.FolderTitle
			if folder == "" {
				folder = "General"
			}
			fmt.Printf("%-20s %-40s %s\n", d.UID, d.Title, folder)
		}
		fmt.Printf("\n%d dashboards\n", len(hits))
		return nil
	},
}

var dashboardExportCmd = &cobra.Command{
	Use:   "export <uid> <file>",
	Short: "Export a dashboard to a JSON file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newGrafanaClient()
		if err != nil {
			return err
		}
		payload, err := client.GetDashboard(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := grafana.ExportJSON(args[1], payload.Dashboard); err != nil {
			return err
		}
		fmt.Printf("exported %s to %s\n", args[0], args[1])
		return nil
	},
}

var dashboardImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a dashboard from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newGrafanaClient()
		if err != nil {
			return err
		}

		dashboard, err := grafana.LoadJSON(args[0])
		if err != nil {
			return err
		}
		// Strip identity fields so Grafana treats the import as a new
		// dashboard unless --overwrite is set.
		if !dashboardOverwrite {
			var def map[string]any
			if err := json.Unmarshal(dashboard, &def); err != nil {
				return err
			}
			delete(def, "id")
			delete(def, "version")
			if dashboard, err = json.Marshal(def); err != nil {
				return err
			}
		}

		result, err := client.CreateDashboard(cmd.Context(), dashboard, dashboardImportDir, dashboardOverwrite)
		if err != nil {
			return err
		}
		fmt.Printf("imported dashboard %s (version %d)\n", result.UID, result.Version)
		return nil
	},
}

var datasourceCmd = &cobra.Command{
	Use:   "datasource",
	Short: "Manage Grafana datasources",
}

var datasourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured datasources",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newGrafanaClient()
		if err != nil {
			return err
		}
		list, err := client.Datasources(cmd.Context())
		if err != nil {
			return err
		}
		for _, ds := range list {
			marker := " "
			if ds.IsDefault {
				marker = "*"
			}
			fmt.Printf("%s %-20s %-12s %s\n", marker, ds.Name, ds.Type, ds.URL)
		}
		return nil
	},
}

func newGrafanaClient() (*grafana.Client, error) {
	grafCfg, err := grafanaConfig()
	if err != nil {
		return nil, err
	}
	return grafana.NewClient(grafCfg, grafana.WithLogger(logger))
}

func init() {
	dashboardSearchCmd.Flags().StringSliceVar(&dashboardSearchTags, "tag", nil, "filter by tag (repeatable)")
	dashboardSearchCmd.Flags().IntVar(&dashboardSearchLimit, "limit", 0, "limit the number of results")
	dashboardImportCmd.Flags().IntVar(&dashboardImportDir, "folder-id", 0, "target folder ID")
	dashboardImportCmd.Flags().BoolVar(&dashboardOverwrite, "overwrite", false, "overwrite an existing dashboard with the same UID")

	dashboardCmd.AddCommand(dashboardGetCmd)
	dashboardCmd.AddCommand(dashboardSearchCmd)
	dashboardCmd.AddCommand(dashboardExportCmd)
	dashboardCmd.AddCommand(dashboardImportCmd)
	datasourceCmd.AddCommand(datasourceListCmd)

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(datasourceCmd)
}
