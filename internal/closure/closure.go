package closure

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"loto-mcp/internal/game"
	"loto-mcp/internal/stats"

	"github.com/rs/zerolog/log"
)

// ErrInvalidArgument marks requests rejected before any sampling starts.
var ErrInvalidArgument = game.ErrInvalidArgument

// DefaultMaxRebalance is the parity rebalance ceiling of the balanced strategy.
const DefaultMaxRebalance = 20

// Combination is a sorted set of distinct numbers.
type Combination = []int

// Request describes one generation call.
type Request struct {
	Strategy  string `json:"strategy"`
	Count     int    `json:"count"`
	ComboSize int    `json:"combo_size,omitempty"`
	Fixed     []int  `json:"fixed,omitempty"`
	// MaxRebalance bounds the balanced strategy's parity loop. Zero means DefaultMaxRebalance.
	MaxRebalance int `json:"max_rebalance,omitempty"`
}

// NewRand returns a random source. A zero seed is replaced by the current time.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Engine generates combinations for one game from precomputed statistics.
// An Engine is not safe for concurrent use; give each goroutine its own.
type Engine struct {
	stats   *stats.Statistics
	profile game.Profile
	rng     *rand.Rand

	maxRebalance int
	byFrequency  []int
}

// NewEngine binds statistics and a random source.
func NewEngine(s *stats.Statistics, rng *rand.Rand) *Engine {
	return &Engine{
		stats:        s,
		profile:      s.Profile,
		rng:          rng,
		maxRebalance: DefaultMaxRebalance,
		byFrequency:  stats.TopNumbers(stats.RankDescending(s.Frequency), -1),
	}
}

// Generate runs req against the statistics with the given random source.
func Generate(req Request, s *stats.Statistics, rng *rand.Rand) ([]Combination, error) {
	return NewEngine(s, rng).Generate(req)
}

// Generate validates req and returns up to req.Count distinct combinations.
// Duplicate attempts are dropped, so fewer than Count may come back.
func (e *Engine) Generate(req Request) ([]Combination, error) {
	size, err := e.validate(req)
	if err != nil {
		return nil, err
	}
	// The request's ceiling applies to this call only.
	run := *e
	if req.MaxRebalance > 0 {
		run.maxRebalance = req.MaxRebalance
	}

	var pick func() []int
	if len(req.Fixed) > 0 {
		fixed := slices.Clone(req.Fixed)
		pick = func() []int { return run.withFixed(fixed, size) }
	} else {
		strategy := Lookup(req.Strategy)
		pick = func() []int { return strategy.Pick(&run, size) }
	}

	seen := make(map[string]bool, req.Count)
	out := make([]Combination, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		combo := run.finish(pick(), size)
		if len(combo) != size {
			continue
		}
		key := game.Key(combo)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, combo)
	}

	log.Debug().
		Str("game", e.profile.Name).
		Str("strategy", req.Strategy).
		Int("requested", req.Count).
		Int("generated", len(out)).
		Msg("Closure generated")

	return out, nil
}

func (e *Engine) validate(req Request) (int, error) {
	p := e.profile
	if req.Count < 1 {
		return 0, fmt.Errorf("%w: count must be at least 1, got %d", ErrInvalidArgument, req.Count)
	}
	size := req.ComboSize
	if size == 0 {
		size = p.ComboSize
	}
	if size < p.MinComboSize || size > p.MaxComboSize {
		return 0, fmt.Errorf("%w: combo size %d outside [%d, %d] for %s", ErrInvalidArgument, size, p.MinComboSize, p.MaxComboSize, p.Name)
	}
	if len(req.Fixed) > size {
		return 0, fmt.Errorf("%w: %d fixed numbers exceed combo size %d", ErrInvalidArgument, len(req.Fixed), size)
	}
	seen := make(map[int]bool, len(req.Fixed))
	for _, n := range req.Fixed {
		if !p.InRange(n) {
			return 0, fmt.Errorf("%w: fixed number %d outside [%d, %d]", ErrInvalidArgument, n, p.NumberMin, p.NumberMax)
		}
		if seen[n] {
			return 0, fmt.Errorf("%w: fixed number %d repeated", ErrInvalidArgument, n)
		}
		seen[n] = true
	}
	return size, nil
}

// withFixed keeps every fixed number and fills the rest uniformly. When the
// fixed set already has size numbers it samples size-subsets of it instead.
func (e *Engine) withFixed(fixed []int, size int) []int {
	if len(fixed) >= size {
		return e.sample(fixed, size, nil)
	}
	used := toSet(fixed)
	fill := e.sample(e.profile.Numbers(), size-len(fixed), used)
	return append(slices.Clone(fixed), fill...)
}

// finish dedupes, truncates to size, pads with the most frequent unused
// numbers and sorts.
func (e *Engine) finish(nums []int, size int) Combination {
	seen := make(map[int]bool, size)
	out := make([]int, 0, size)
	for _, n := range nums {
		if len(out) == size {
			break
		}
		if !e.profile.InRange(n) || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	for _, n := range e.byFrequency {
		if len(out) == size {
			break
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return out
}
