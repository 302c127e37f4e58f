package game

import (
	"fmt"
	"slices"
)

// Draw is one recorded lottery result.
type Draw struct {
	Sequence int    `json:"sequence"`
	Date     string `json:"date,omitempty"`
	Numbers  []int  `json:"numbers"`
}

// Contains reports whether n was drawn. It does not rely on Numbers being sorted.
func (d Draw) Contains(n int) bool {
	return slices.Contains(d.Numbers, n)
}

// History is an ordered sequence of draws, ascending by Sequence.
type History []Draw

// Latest returns the most recent draw.
func (h History) Latest() (Draw, bool) {
	if len(h) == 0 {
		return Draw{}, false
	}
	return h[len(h)-1], true
}

// Window returns the last n draws, clipped to the history length.
func (h History) Window(n int) History {
	if n <= 0 {
		return nil
	}
	if n > len(h) {
		n = len(h)
	}
	return h[len(h)-n:]
}

// Normalize sorts each draw's numbers, orders draws by sequence and drops
// duplicate sequences keeping the last occurrence.
func Normalize(draws []Draw) History {
	bySeq := make(map[int]Draw, len(draws))
	for _, d := range draws {
		nums := slices.Clone(d.Numbers)
		slices.Sort(nums)
		d.Numbers = nums
		bySeq[d.Sequence] = d
	}
	out := make(History, 0, len(bySeq))
	for _, d := range bySeq {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b Draw) int { return a.Sequence - b.Sequence })
	return out
}

// ValidateDraw checks a draw against the profile's size and range rules.
func ValidateDraw(p Profile, d Draw) error {
	if d.Sequence <= 0 {
		return fmt.Errorf("draw sequence must be positive, got %d", d.Sequence)
	}
	if len(d.Numbers) != p.DrawSize {
		return fmt.Errorf("draw %d: expected %d numbers, got %d", d.Sequence, p.DrawSize, len(d.Numbers))
	}
	if err := checkNumbers(p, d.Numbers); err != nil {
		return fmt.Errorf("draw %d: %w", d.Sequence, err)
	}
	return nil
}

// ValidateCombination checks that every number is distinct and in range, and
// that the size sits inside the profile's combo bounds.
func ValidateCombination(p Profile, combo []int) error {
	if len(combo) < p.MinComboSize || len(combo) > p.MaxComboSize {
		return fmt.Errorf("combination has %d numbers, %s accepts %d to %d", len(combo), p.Name, p.MinComboSize, p.MaxComboSize)
	}
	return checkNumbers(p, combo)
}

func checkNumbers(p Profile, nums []int) error {
	seen := make(map[int]bool, len(nums))
	for _, n := range nums {
		if !p.InRange(n) {
			return fmt.Errorf("number %d outside [%d, %d]", n, p.NumberMin, p.NumberMax)
		}
		if seen[n] {
			return fmt.Errorf("number %d repeated", n)
		}
		seen[n] = true
	}
	return nil
}

// Key renders a sorted combination as a stable map key.
func Key(combo []int) string {
	return fmt.Sprint(combo)
}
