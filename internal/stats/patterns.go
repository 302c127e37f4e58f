package stats

import (
	"cmp"
	"fmt"
	"slices"

	"loto-mcp/internal/game"
)

// maxSubsetsPerDraw caps subset enumeration so a careless k cannot explode.
const maxSubsetsPerDraw = 20000

// PairCount is how often two consecutive numbers were drawn together.
type PairCount struct {
	Low   int `json:"low"`
	High  int `json:"high"`
	Count int `json:"count"`
}

// RepeatedCombination is a drawn set together with how many draws produced it.
type RepeatedCombination struct {
	Numbers []int `json:"numbers"`
	Count   int   `json:"count"`
}

// ConsecutivePairs counts adjacent pairs (n, n+1) appearing in the same draw.
func ConsecutivePairs(history game.History) []PairCount {
	counts := make(map[int]int)
	for _, d := range history {
		nums := slices.Clone(d.Numbers)
		slices.Sort(nums)
		for i := 0; i+1 < len(nums); i++ {
			if nums[i+1]-nums[i] == 1 {
				counts[nums[i]]++
			}
		}
	}

	out := make([]PairCount, 0, len(counts))
	for low, c := range counts {
		out = append(out, PairCount{Low: low, High: low + 1, Count: c})
	}
	slices.SortFunc(out, func(a, b PairCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Low, b.Low)
	})
	return out
}

// MostRepeatedCombination finds the full drawn set that occurred most often.
// Only draws with the profile's draw size are considered.
func MostRepeatedCombination(history game.History, profile game.Profile) RepeatedCombination {
	counts := make(map[string]*RepeatedCombination)
	for _, d := range history {
		if len(d.Numbers) != profile.DrawSize {
			continue
		}
		addCount(counts, d.Numbers)
	}
	return pickMostRepeated(counts)
}

// MostFrequentSubset enumerates every k-number subset of every draw and
// returns the subset shared by the most draws.
func MostFrequentSubset(history game.History, profile game.Profile, k int) (RepeatedCombination, error) {
	if k <= 0 || k > profile.DrawSize {
		return RepeatedCombination{}, fmt.Errorf("subset size %d outside [1, %d]", k, profile.DrawSize)
	}
	if n := binomial(profile.DrawSize, k); n > maxSubsetsPerDraw {
		return RepeatedCombination{}, fmt.Errorf("subset size %d yields %d subsets per draw, limit is %d", k, n, maxSubsetsPerDraw)
	}

	counts := make(map[string]*RepeatedCombination)
	for _, d := range history {
		if len(d.Numbers) != profile.DrawSize {
			continue
		}
		nums := slices.Clone(d.Numbers)
		slices.Sort(nums)
		forEachSubset(nums, k, func(subset []int) {
			addCount(counts, subset)
		})
	}
	return pickMostRepeated(counts), nil
}

func addCount(counts map[string]*RepeatedCombination, nums []int) {
	sorted := slices.Clone(nums)
	slices.Sort(sorted)
	key := game.Key(sorted)
	if rc, ok := counts[key]; ok {
		rc.Count++
		return
	}
	counts[key] = &RepeatedCombination{Numbers: sorted, Count: 1}
}

func pickMostRepeated(counts map[string]*RepeatedCombination) RepeatedCombination {
	var best *RepeatedCombination
	for _, rc := range counts {
		if best == nil || rc.Count > best.Count || (rc.Count == best.Count && slices.Compare(rc.Numbers, best.Numbers) < 0) {
			best = rc
		}
	}
	if best == nil {
		return RepeatedCombination{Numbers: []int{}}
	}
	return *best
}

func forEachSubset(nums []int, k int, fn func([]int)) {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	buf := make([]int, k)
	n := len(nums)
	for {
		for i, j := range idx {
			buf[i] = nums[j]
		}
		fn(buf)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func binomial(n, k int) int {
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
		if result > maxSubsetsPerDraw {
			return result
		}
	}
	return result
}
