package checker

import (
	"cmp"
	"context"
	"fmt"
	"runtime"
	"slices"

	"loto-mcp/internal/game"
	"loto-mcp/internal/stats"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// topDrawsPerCombination is how many best-matching draws each history entry keeps.
const topDrawsPerCombination = 10

// LatestMatch compares one combination with the most recent draw.
type LatestMatch struct {
	Index       int     `json:"index"`
	Combination []int   `json:"combination"`
	Size        int     `json:"size"`
	Hits        []int   `json:"hits"`
	Count       int     `json:"count"`
	Percentage  float64 `json:"percentage"`
	Sequence    int     `json:"sequence,omitempty"`
	Date        string  `json:"date,omitempty"`
	Drawn       []int   `json:"drawn,omitempty"`
}

// DrawMatch is the overlap between a combination and one historical draw.
type DrawMatch struct {
	Sequence int    `json:"sequence"`
	Date     string `json:"date,omitempty"`
	Count    int    `json:"count"`
	Hits     []int  `json:"hits"`
}

// HistoryMatch summarises a combination against every draw in the history.
type HistoryMatch struct {
	Index       int   `json:"index"`
	Combination []int `json:"combination"`
	Size        int   `json:"size"`

	TotalDraws    int     `json:"total_draws"`
	DrawsWithHits int     `json:"draws_with_hits"`
	HitRate       float64 `json:"hit_rate"`

	PerDraw    []int   `json:"per_draw"`
	Total      int     `json:"total"`
	Average    float64 `json:"average"`
	Median     float64 `json:"median"`
	Max        int     `json:"max"`
	MinNonZero int     `json:"min_non_zero"`

	// Distribution[k] is the number of draws with exactly k hits.
	Distribution    []int               `json:"distribution"`
	NumberFrequency []stats.NumberCount `json:"number_frequency"`
	TopDraws        []DrawMatch         `json:"top_draws"`
}

// Report is the full result of a check, both sub-reports in the same order.
type Report struct {
	Game              string         `json:"game"`
	TotalCombinations int            `json:"total_combinations"`
	TotalDraws        int            `json:"total_draws"`
	Latest            []LatestMatch  `json:"latest"`
	History           []HistoryMatch `json:"history"`
}

// Checker cross-checks combinations against a history for one game.
type Checker struct {
	profile game.Profile
	workers int
}

// New returns a checker. workers <= 0 uses one worker per CPU.
func New(profile game.Profile, workers int) *Checker {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Checker{profile: profile, workers: workers}
}

// Check validates every combination, then scores each one against the latest
// draw and the full history. Entries are ranked by average hits, best first;
// ties keep the submitted order.
func (c *Checker) Check(ctx context.Context, combos [][]int, history game.History) (Report, error) {
	normalized := make([][]int, len(combos))
	for i, combo := range combos {
		if err := game.ValidateCombination(c.profile, combo); err != nil {
			return Report{}, fmt.Errorf("%w: combination %d: %v", game.ErrInvalidArgument, i+1, err)
		}
		normalized[i] = slices.Sorted(slices.Values(combo))
	}

	report := Report{
		Game:              c.profile.Name,
		TotalCombinations: len(combos),
		TotalDraws:        len(history),
		Latest:            make([]LatestMatch, len(normalized)),
		History:           make([]HistoryMatch, len(normalized)),
	}

	latest, _ := history.Latest()
	drawn := drawnSets(history)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, combo := range normalized {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report.Latest[i] = c.matchLatest(i+1, combo, latest, drawn)
			report.History[i] = c.matchHistory(i+1, combo, history, drawn)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	rank(&report)

	log.Debug().
		Str("game", c.profile.Name).
		Int("combinations", len(combos)).
		Int("draws", len(history)).
		Msg("Combinations checked")

	return report, nil
}

// drawnSets indexes each draw's numbers. Draws supplied by callers are not
// guaranteed to be sorted.
func drawnSets(history game.History) []map[int]bool {
	sets := make([]map[int]bool, len(history))
	for i, d := range history {
		set := make(map[int]bool, len(d.Numbers))
		for _, n := range d.Numbers {
			set[n] = true
		}
		sets[i] = set
	}
	return sets
}

func intersect(combo []int, drawn map[int]bool) []int {
	hits := []int{}
	for _, n := range combo {
		if drawn[n] {
			hits = append(hits, n)
		}
	}
	return hits
}

func (c *Checker) matchLatest(index int, combo []int, latest game.Draw, drawn []map[int]bool) LatestMatch {
	m := LatestMatch{
		Index:       index,
		Combination: combo,
		Size:        len(combo),
		Hits:        []int{},
	}
	if len(drawn) == 0 {
		return m
	}
	m.Hits = intersect(combo, drawn[len(drawn)-1])
	m.Count = len(m.Hits)
	m.Percentage = stats.Percentage(m.Count, len(combo))
	m.Sequence = latest.Sequence
	m.Date = latest.Date
	m.Drawn = latest.Numbers
	return m
}

func (c *Checker) matchHistory(index int, combo []int, history game.History, drawn []map[int]bool) HistoryMatch {
	m := HistoryMatch{
		Index:        index,
		Combination:  combo,
		Size:         len(combo),
		TotalDraws:   len(history),
		PerDraw:      make([]int, len(history)),
		Distribution: make([]int, min(len(combo), c.profile.DrawSize)+1),
		TopDraws:     []DrawMatch{},
	}

	freq := make(map[int]int, len(combo))
	var withHits []DrawMatch
	for i, d := range history {
		hits := intersect(combo, drawn[i])
		count := len(hits)

		m.PerDraw[i] = count
		m.Total += count
		m.Max = max(m.Max, count)
		if count < len(m.Distribution) {
			m.Distribution[count]++
		}
		for _, n := range hits {
			freq[n]++
		}
		if count > 0 {
			m.DrawsWithHits++
			if m.MinNonZero == 0 || count < m.MinNonZero {
				m.MinNonZero = count
			}
			withHits = append(withHits, DrawMatch{Sequence: d.Sequence, Date: d.Date, Count: count, Hits: hits})
		}
	}

	m.NumberFrequency = make([]stats.NumberCount, len(combo))
	for i, n := range combo {
		m.NumberFrequency[i] = stats.NumberCount{Number: n, Count: freq[n]}
	}

	slices.SortStableFunc(withHits, func(a, b DrawMatch) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(withHits) > topDrawsPerCombination {
		withHits = withHits[:topDrawsPerCombination]
	}
	if len(withHits) > 0 {
		m.TopDraws = withHits
	}

	if len(history) > 0 {
		m.Average = stats.Round2(stats.Mean(m.PerDraw))
		m.Median = stats.Median(m.PerDraw)
		m.HitRate = stats.Percentage(m.DrawsWithHits, len(history))
	}
	return m
}

// rank orders the history sub-report by average hits and applies the same
// order to the latest-draw sub-report.
func rank(r *Report) {
	order := make([]int, len(r.History))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(r.History[b].Average, r.History[a].Average)
	})

	history := make([]HistoryMatch, len(order))
	latest := make([]LatestMatch, len(order))
	for pos, idx := range order {
		history[pos] = r.History[idx]
		latest[pos] = r.Latest[idx]
	}
	r.History = history
	r.Latest = latest
}
