package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"loto-mcp/internal/checker"
	"loto-mcp/internal/closure"
	"loto-mcp/internal/report"
	"loto-mcp/internal/stats"

	"github.com/spf13/cobra"
)

var (
	checkJSON   bool
	checkReport bool
	checkOpen   bool
)

var checkCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Check the combinations of a closure file against the stored draws",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, h, err := loadGame(cmd.Context())
		if err != nil {
			return err
		}
		combos, err := closure.LoadCombinations(args[0], p, registry)
		if err != nil {
			return err
		}

		rep, err := checker.New(p, cfg.CheckWorkers).Check(cmd.Context(), combos, h)
		if err != nil {
			return err
		}

		if checkReport {
			path, err := report.Write(cfg.ReportsDir, report.Data{Stats: stats.Compute(h, p, cfg.Stats), Check: &rep})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", path)
			if checkOpen {
				if err := report.Open(path); err != nil {
					return err
				}
			}
		}

		if checkJSON {
			return writeJSON(cmd.OutOrStdout(), rep)
		}
		printCheck(cmd.OutOrStdout(), filepath.Base(args[0]), rep)
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the full report as JSON")
	checkCmd.Flags().BoolVar(&checkReport, "report", false, "also write an HTML report")
	checkCmd.Flags().BoolVar(&checkOpen, "open", false, "open the HTML report in the browser")
	rootCmd.AddCommand(checkCmd)
}

func printCheck(w io.Writer, source string, rep checker.Report) {
	fmt.Fprintf(w, "%s: %d combinations against %d draws of %s\n\n", source, rep.TotalCombinations, rep.TotalDraws, rep.Game)

	fmt.Fprintf(w, "%-4s %6s %8s %8s %7s %4s %8s\n", "#", "Latest", "Latest%", "Average", "Median", "Max", "MinHits")
	for i, m := range rep.History {
		l := rep.Latest[i]
		fmt.Fprintf(w, "%-4d %6d %7.2f%% %8.2f %7.2f %4d %8d\n", m.Index, l.Count, l.Percentage, m.Average, m.Median, m.Max, m.MinNonZero)
	}

	if len(rep.Latest) > 0 && rep.Latest[0].Sequence > 0 {
		fmt.Fprintf(w, "\nLatest draw %d (%s): %s\n", rep.Latest[0].Sequence, rep.Latest[0].Date, joinNumbers(rep.Latest[0].Drawn))
	}
}
