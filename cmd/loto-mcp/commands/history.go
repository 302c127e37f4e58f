package commands

import (
	"fmt"

	"loto-mcp/internal/history"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	listLast int
	resetYes bool
	listJSON bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the stored draw history",
}

var historyImportCmd = &cobra.Command{
	Use:   "import FILE...",
	Short: "Import draws from provider JSON, .jsonl or .csv files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := registry.Get(cfg.DefaultGame)
		if err != nil {
			return err
		}
		for _, path := range args {
			res, err := history.ImportFile(path, p)
			if err != nil {
				return err
			}
			added, err := store.Append(cmd.Context(), p.Name, res.Draws)
			if err != nil {
				return err
			}
			log.Info().Str("file", path).Int("read", res.Read).Int("skipped", res.Skipped).Int("added", added).Msg("Draws imported")
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d read, %d skipped, %d new\n", path, res.Read, res.Skipped, added)
		}
		return nil
	},
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the store summary and the latest draws",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := registry.Get(cfg.DefaultGame)
		if err != nil {
			return err
		}
		summary, err := store.Stats(cmd.Context(), p.Name)
		if err != nil {
			return err
		}
		latest, err := store.Latest(cmd.Context(), p.Name, listLast)
		if err != nil {
			return err
		}

		if listJSON {
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{"summary": summary, "latest": latest})
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s: %d draws", p.Name, summary.Count)
		if summary.Count > 0 {
			fmt.Fprintf(w, " (%d %s .. %d %s)", summary.FirstSequence, summary.FirstDate, summary.LastSequence, summary.LastDate)
		}
		fmt.Fprintln(w)
		for _, d := range latest {
			fmt.Fprintf(w, "%6d  %-10s  %s\n", d.Sequence, d.Date, joinNumbers(d.Numbers))
		}
		return nil
	},
}

var historyResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every stored draw of the game",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			return fmt.Errorf("refusing to reset %s history without --yes", cfg.DefaultGame)
		}
		p, err := registry.Get(cfg.DefaultGame)
		if err != nil {
			return err
		}
		if err := store.Reset(cmd.Context(), p.Name); err != nil {
			return err
		}
		log.Info().Str("game", p.Name).Msg("History reset")
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntVarP(&listLast, "last", "n", 10, "number of recent draws to show")
	historyListCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON instead of text")
	historyResetCmd.Flags().BoolVar(&resetYes, "yes", false, "confirm the reset")

	historyCmd.AddCommand(historyImportCmd, historyListCmd, historyResetCmd)
	rootCmd.AddCommand(historyCmd)
}
