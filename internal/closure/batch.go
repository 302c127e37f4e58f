package closure

import (
	"context"
	"time"

	"loto-mcp/internal/stats"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Closure is a set of combinations generated together under one strategy.
type Closure struct {
	ID           string        `json:"id"`
	Game         string        `json:"game"`
	Strategy     string        `json:"strategy"`
	CreatedAt    string        `json:"created_at"`
	ComboSize    int           `json:"combo_size"`
	Combinations []Combination `json:"combinations"`
}

// NewClosure stamps a fresh identifier and creation time on a generated set.
func NewClosure(gameName, strategy string, size int, combos []Combination) Closure {
	return Closure{
		ID:           uuid.NewString(),
		Game:         gameName,
		Strategy:     strategy,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		ComboSize:    size,
		Combinations: combos,
	}
}

// Build runs a single request and wraps the result as a Closure.
func Build(req Request, s *stats.Statistics, seed int64) (Closure, error) {
	combos, err := Generate(req, s, NewRand(seed))
	if err != nil {
		return Closure{}, err
	}
	return NewClosure(s.Game, strategyLabel(req), sizeOf(req, s), combos), nil
}

// GenerateBatch runs several requests concurrently over the same statistics.
// Each request gets its own random source derived from seed, so a fixed
// non-zero seed gives reproducible output regardless of scheduling.
func GenerateBatch(ctx context.Context, reqs []Request, s *stats.Statistics, seed int64) ([]Closure, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	out := make([]Closure, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := Build(req, s, seed+int64(i))
			if err != nil {
				return err
			}
			out[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func strategyLabel(req Request) string {
	if len(req.Fixed) > 0 {
		return "fixed"
	}
	return Lookup(req.Strategy).Name()
}

func sizeOf(req Request, s *stats.Statistics) int {
	if req.ComboSize > 0 {
		return req.ComboSize
	}
	return s.Profile.ComboSize
}
