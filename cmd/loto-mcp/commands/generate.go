package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"loto-mcp/internal/closure"
	"loto-mcp/internal/stats"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	genStrategies []string
	genCount      int
	genSize       int
	genFixed      []int
	genSeed       int64
	genOut        string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a closure of distinct combinations",
	Long: `Generate combinations with one or more strategies (frequency, delay, balanced, blended).
Several strategies run concurrently and produce one closure each.
Output is the text layout unless --out names a .json file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, h, err := loadGame(cmd.Context())
		if err != nil {
			return err
		}

		seed := genSeed
		if seed == 0 {
			seed = cfg.RandomSeed
		}
		reqs := make([]closure.Request, len(genStrategies))
		for i, name := range genStrategies {
			reqs[i] = closure.Request{
				Strategy:     strings.TrimSpace(name),
				Count:        genCount,
				ComboSize:    genSize,
				Fixed:        genFixed,
				MaxRebalance: cfg.MaxRebalance,
			}
		}

		closures, err := closure.GenerateBatch(cmd.Context(), reqs, stats.Compute(h, p, cfg.Stats), seed)
		if err != nil {
			return err
		}

		if strings.EqualFold(filepath.Ext(genOut), ".json") {
			if len(closures) == 1 {
				return closure.WriteFile(genOut, closures[0])
			}
			for _, c := range closures {
				path := strings.TrimSuffix(genOut, filepath.Ext(genOut)) + "-" + c.Strategy + ".json"
				if err := closure.WriteFile(path, c); err != nil {
					return err
				}
			}
			return nil
		}

		var buf bytes.Buffer
		for _, c := range closures {
			if err := closure.WriteText(&buf, c, p); err != nil {
				return err
			}
			buf.WriteString("\n")
		}
		if genOut == "" {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := os.WriteFile(genOut, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write closure: %w", err)
		}
		log.Info().Str("path", genOut).Int("closures", len(closures)).Msg("Closure written")
		return nil
	},
}

func init() {
	generateCmd.Flags().StringSliceVarP(&genStrategies, "strategy", "s", []string{closure.StrategyBlended}, "strategies to run (comma separated)")
	generateCmd.Flags().IntVarP(&genCount, "count", "n", 10, "combinations per strategy")
	generateCmd.Flags().IntVar(&genSize, "size", 0, "numbers per combination (defaults to the game's combination size)")
	generateCmd.Flags().IntSliceVar(&genFixed, "fixed", nil, "numbers kept in every combination")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "random seed (0 uses RANDOM_SEED or the clock)")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "output file (.json or text)")
	rootCmd.AddCommand(generateCmd)
}
