package commands

import (
	"encoding/json"
	"fmt"

	"loto-mcp/internal/checker"
	"loto-mcp/internal/closure"
	"loto-mcp/internal/report"
	"loto-mcp/internal/stats"

	"github.com/spf13/cobra"
)

var (
	reportCombos string
	reportOpen   bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write an HTML statistics report into the reports directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, h, err := loadGame(cmd.Context())
		if err != nil {
			return err
		}

		data := report.Data{Stats: stats.Compute(h, p, cfg.Stats)}
		if reportCombos != "" {
			combos, err := closure.LoadCombinations(reportCombos, p, registry)
			if err != nil {
				return err
			}
			rep, err := checker.New(p, cfg.CheckWorkers).Check(cmd.Context(), combos, h)
			if err != nil {
				return err
			}
			data.Check = &rep
		}

		path, err := report.Write(cfg.ReportsDir, data)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		if reportOpen {
			return report.Open(path)
		}
		return nil
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of closure files",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := closure.Schema()
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// Skips configuration and store setup.
	PersistentPreRun:  func(cmd *cobra.Command, args []string) {},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "loto-mcp %s (commit %s, built %s)\n", Version, Commit, BuildDate)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportCombos, "combinations", "", "closure file to include as a check section")
	reportCmd.Flags().BoolVar(&reportOpen, "open", false, "open the report in the default browser")
	rootCmd.AddCommand(reportCmd, schemaCmd, versionCmd)
}
