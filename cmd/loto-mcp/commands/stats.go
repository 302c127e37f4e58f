package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"loto-mcp/internal/stats"

	"github.com/spf13/cobra"
)

var (
	statsLast int
	statsJSON bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show frequency, delay and distribution statistics for the stored draws",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, h, err := loadGame(cmd.Context())
		if err != nil {
			return err
		}
		if statsLast > 0 {
			h = h.Window(statsLast)
		}
		st := stats.Compute(h, p, cfg.Stats)

		if statsJSON {
			return writeJSON(cmd.OutOrStdout(), st)
		}
		printStats(cmd.OutOrStdout(), st, stats.ConsecutivePairs(h))
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsLast, "last", 0, "only analyse the most recent N draws")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print JSON instead of text")
	rootCmd.AddCommand(statsCmd)
}

func printStats(w io.Writer, st *stats.Statistics, pairs []stats.PairCount) {
	p := st.Profile
	fmt.Fprintf(w, "%s: %d draws\n\n", strings.ToUpper(st.Game), st.TotalDraws)

	fmt.Fprintf(w, "%-6s %9s %6s\n", "Number", "Frequency", "Delay")
	for n := p.NumberMin; n <= p.NumberMax; n++ {
		fmt.Fprintf(w, "%-6s %9d %6d\n", fmt.Sprintf("%02d", n), st.Frequency[n], st.Delay[n])
	}

	fmt.Fprintf(w, "\nHot:     %s\n", joinNumbers(st.Hot))
	fmt.Fprintf(w, "Cold:    %s\n", joinNumbers(st.Cold))
	fmt.Fprintf(w, "Delayed: %s\n", joinNumbers(st.Delayed))

	fmt.Fprintln(w, "\nBuckets (average per draw):")
	for _, b := range st.Buckets {
		fmt.Fprintf(w, "  %-4s %02d-%02d  %.2f\n", b.Name, b.Low, b.High, b.Average)
	}
	fmt.Fprintf(w, "\nParity (average per draw): %.2f even / %.2f odd\n", st.Parity.Even, st.Parity.Odd)

	if len(pairs) > 0 {
		fmt.Fprintln(w, "\nConsecutive pairs:")
		for _, pc := range pairs[:min(len(pairs), 10)] {
			fmt.Fprintf(w, "  %02d-%02d  %d\n", pc.Low, pc.High, pc.Count)
		}
	}
}

func joinNumbers(nums []int) string {
	if len(nums) == 0 {
		return "-"
	}
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, " ")
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
