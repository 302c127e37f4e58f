package stats

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"loto-mcp/internal/game"
)

// NeverDrawnSentinel selects the delay reported for numbers that never appeared.
type NeverDrawnSentinel string

const (
	// SentinelHistoryLength reports len(history) for never-drawn numbers.
	SentinelHistoryLength NeverDrawnSentinel = "history_length"
	// SentinelHistoryLengthPlusOne reports len(history)+1 for never-drawn numbers.
	SentinelHistoryLengthPlusOne NeverDrawnSentinel = "history_length_plus_one"
)

// ParseSentinel maps a configuration string to a sentinel. Empty means history_length.
func ParseSentinel(s string) (NeverDrawnSentinel, error) {
	switch NeverDrawnSentinel(strings.ToLower(strings.TrimSpace(s))) {
	case "", SentinelHistoryLength:
		return SentinelHistoryLength, nil
	case SentinelHistoryLengthPlusOne:
		return SentinelHistoryLengthPlusOne, nil
	}
	return "", fmt.Errorf("unknown never-drawn sentinel %q (expected %s or %s)", s, SentinelHistoryLength, SentinelHistoryLengthPlusOne)
}

// Options tunes the windowed statistics.
type Options struct {
	HotWindow      int
	ColdWindow     int
	DelayThreshold int
	Sentinel       NeverDrawnSentinel
}

// DefaultOptions mirrors the defaults of the analysis screens: ten-draw windows
// and a delay of five draws to call a number late.
func DefaultOptions() Options {
	return Options{
		HotWindow:      10,
		ColdWindow:     10,
		DelayThreshold: 5,
		Sentinel:       SentinelHistoryLength,
	}
}

// NumberCount pairs a number with a count (frequency or delay).
type NumberCount struct {
	Number int `json:"number"`
	Count  int `json:"count"`
}

// BucketAverage is the mean amount of drawn numbers that fell in a bucket per draw.
type BucketAverage struct {
	Name    string  `json:"name"`
	Low     int     `json:"low"`
	High    int     `json:"high"`
	Average float64 `json:"average"`
}

// ParityAverages is the mean even/odd split per draw.
type ParityAverages struct {
	Even float64 `json:"even"`
	Odd  float64 `json:"odd"`
}

// EvenShare returns the even proportion, or fallback when nothing was drawn.
func (p ParityAverages) EvenShare(fallback float64) float64 {
	total := p.Even + p.Odd
	if total <= 0 {
		return fallback
	}
	return p.Even / total
}

// Statistics is the full descriptive summary of a history for one game.
type Statistics struct {
	Game       string       `json:"game"`
	Profile    game.Profile `json:"-"`
	TotalDraws int          `json:"total_draws"`

	Frequency map[int]int `json:"frequency"`
	Delay     map[int]int `json:"delay"`

	Hot     []int `json:"hot"`
	Cold    []int `json:"cold"`
	Delayed []int `json:"delayed"`

	MostDrawn  []NumberCount `json:"most_drawn"`
	LeastDrawn []NumberCount `json:"least_drawn"`

	Buckets []BucketAverage `json:"buckets"`
	Parity  ParityAverages  `json:"parity"`
}

// Compute derives every statistic from scratch. It never mutates the history.
func Compute(history game.History, profile game.Profile, opts Options) *Statistics {
	freq := Frequency(history, profile)
	delay := Delay(history, profile, opts.Sentinel)

	return &Statistics{
		Game:       profile.Name,
		Profile:    profile,
		TotalDraws: len(history),
		Frequency:  freq,
		Delay:      delay,
		Hot:        HotNumbers(history, profile, opts.HotWindow),
		Cold:       ColdNumbers(history, profile, opts.ColdWindow),
		Delayed:    DelayedNumbers(delay, opts.DelayThreshold),
		MostDrawn:  MostDrawn(freq, profile.DrawSize),
		LeastDrawn: LeastDrawn(freq, profile.DrawSize),
		Buckets:    BucketAverages(history, profile),
		Parity:     CalculateParityAverages(history),
	}
}

// Frequency counts, for every number in range, the draws containing it.
func Frequency(history game.History, profile game.Profile) map[int]int {
	freq := make(map[int]int, profile.RangeSize())
	for n := profile.NumberMin; n <= profile.NumberMax; n++ {
		freq[n] = 0
	}
	for _, d := range history {
		for _, n := range d.Numbers {
			if profile.InRange(n) {
				freq[n]++
			}
		}
	}
	return freq
}

// Delay counts the draws since each number last appeared.
func Delay(history game.History, profile game.Profile, sentinel NeverDrawnSentinel) map[int]int {
	lastSeen := make(map[int]int, profile.RangeSize())
	for idx, d := range history {
		for _, n := range d.Numbers {
			lastSeen[n] = idx
		}
	}

	// With no draws there is nothing to be delayed from, whatever the sentinel.
	never := len(history)
	if sentinel == SentinelHistoryLengthPlusOne && len(history) > 0 {
		never++
	}

	lastIdx := len(history) - 1
	delay := make(map[int]int, profile.RangeSize())
	for n := profile.NumberMin; n <= profile.NumberMax; n++ {
		if idx, ok := lastSeen[n]; ok {
			delay[n] = lastIdx - idx
		} else {
			delay[n] = never
		}
	}
	return delay
}

func windowCounts(history game.History, window int) (map[int]int, int) {
	recent := history.Window(window)
	counts := make(map[int]int)
	for _, d := range recent {
		for _, n := range d.Numbers {
			counts[n]++
		}
	}
	return counts, len(recent)
}

// HotNumbers returns the numbers present in at least half of the last window draws.
func HotNumbers(history game.History, profile game.Profile, window int) []int {
	counts, size := windowCounts(history, window)
	threshold := size / 2

	var hot []int
	for n := profile.NumberMin; n <= profile.NumberMax; n++ {
		if c := counts[n]; c > 0 && c >= threshold {
			hot = append(hot, n)
		}
	}
	return hot
}

// ColdNumbers returns the numbers seen in under 30% of the last window draws,
// including those not seen at all.
func ColdNumbers(history game.History, profile game.Profile, window int) []int {
	counts, size := windowCounts(history, window)
	threshold := float64(size) * 0.3

	var cold []int
	for n := profile.NumberMin; n <= profile.NumberMax; n++ {
		c := counts[n]
		if c == 0 || float64(c) < threshold {
			cold = append(cold, n)
		}
	}
	return cold
}

// DelayedNumbers lists numbers whose delay reaches the threshold, most delayed first.
func DelayedNumbers(delay map[int]int, threshold int) []int {
	ranked := RankDescending(delay)
	var out []int
	for _, nc := range ranked {
		if nc.Count >= threshold {
			out = append(out, nc.Number)
		}
	}
	return out
}

// RankDescending orders numbers by count, highest first, ties by ascending number.
func RankDescending(m map[int]int) []NumberCount {
	out := toSlice(m)
	slices.SortFunc(out, func(a, b NumberCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Number, b.Number)
	})
	return out
}

// RankAscending orders numbers by count, lowest first, ties by ascending number.
func RankAscending(m map[int]int) []NumberCount {
	out := toSlice(m)
	slices.SortFunc(out, func(a, b NumberCount) int {
		if c := cmp.Compare(a.Count, b.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Number, b.Number)
	})
	return out
}

func toSlice(m map[int]int) []NumberCount {
	out := make([]NumberCount, 0, len(m))
	for n, c := range m {
		out = append(out, NumberCount{Number: n, Count: c})
	}
	return out
}

// TopNumbers returns the first n numbers of a ranking (or all of them).
func TopNumbers(ranked []NumberCount, n int) []int {
	if n > len(ranked) || n < 0 {
		n = len(ranked)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = ranked[i].Number
	}
	return out
}

// MostDrawn returns the n most frequent numbers.
func MostDrawn(freq map[int]int, n int) []NumberCount {
	ranked := RankDescending(freq)
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// LeastDrawn returns the n least frequent numbers.
func LeastDrawn(freq map[int]int, n int) []NumberCount {
	ranked := RankAscending(freq)
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// BucketAverages computes the mean count of drawn numbers per bucket per draw.
func BucketAverages(history game.History, profile game.Profile) []BucketAverage {
	totals := make([]int, len(profile.Buckets))
	for _, d := range history {
		for _, n := range d.Numbers {
			if i := profile.BucketOf(n); i >= 0 {
				totals[i]++
			}
		}
	}

	out := make([]BucketAverage, len(profile.Buckets))
	for i, b := range profile.Buckets {
		out[i] = BucketAverage{Name: b.Name, Low: b.Low, High: b.High}
		if len(history) > 0 {
			out[i].Average = float64(totals[i]) / float64(len(history))
		}
	}
	return out
}

// CalculateParityAverages computes the mean even and odd count per draw.
func CalculateParityAverages(history game.History) ParityAverages {
	if len(history) == 0 {
		return ParityAverages{}
	}
	even, odd := 0, 0
	for _, d := range history {
		for _, n := range d.Numbers {
			if n%2 == 0 {
				even++
			} else {
				odd++
			}
		}
	}
	total := float64(len(history))
	return ParityAverages{Even: float64(even) / total, Odd: float64(odd) / total}
}
