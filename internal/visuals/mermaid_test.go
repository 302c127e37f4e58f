package visuals

import (
	"strings"
	"testing"

	"loto-mcp/internal/checker"
	"loto-mcp/internal/game"
	"loto-mcp/internal/stats"
)

func TestGenerateFrequencyChart(t *testing.T) {
	p := game.Lotofacil()
	h := game.History{{Sequence: 1, Numbers: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}}}
	s := stats.Compute(h, p, stats.DefaultOptions())

	chart := GenerateFrequencyChart(s)
	if !strings.HasPrefix(chart, "```mermaid\nxychart-beta") {
		t.Errorf("Expected mermaid xychart, got %q", chart)
	}
	if !strings.Contains(chart, "\"25\"") {
		t.Errorf("Expected one label per number for a small range, got %q", chart)
	}

	if got := GenerateFrequencyChart(stats.Compute(nil, p, stats.DefaultOptions())); got != "" {
		t.Errorf("Expected empty chart for empty history, got %q", got)
	}
}

func TestGenerateDelayChart_GroupsWideRanges(t *testing.T) {
	p := game.Timemania()
	h := game.History{{Sequence: 1, Numbers: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}}
	chart := GenerateDelayChart(stats.Compute(h, p, stats.DefaultOptions()))

	if !strings.Contains(chart, "\"01-02\"") {
		t.Errorf("Expected grouped labels for an 80-number range, got %q", chart)
	}
}

func TestGenerateParityPie(t *testing.T) {
	p := game.Lotofacil()
	h := game.History{{Sequence: 1, Numbers: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}}}
	pie := GenerateParityPie(stats.Compute(h, p, stats.DefaultOptions()))

	if !strings.Contains(pie, "\"Even\" : 7.00") || !strings.Contains(pie, "\"Odd\" : 8.00") {
		t.Errorf("Unexpected pie chart %q", pie)
	}
}

func TestGenerateMatchDistributionChart(t *testing.T) {
	m := checker.HistoryMatch{Index: 2, TotalDraws: 3, Distribution: []int{0, 1, 2}}
	chart := GenerateMatchDistributionChart(m)

	if !strings.Contains(chart, "bar [0, 1, 2]") {
		t.Errorf("Expected distribution bars, got %q", chart)
	}
	if GenerateMatchDistributionChart(checker.HistoryMatch{}) != "" {
		t.Error("Expected empty chart without draws")
	}
}
