package engine

import (
	"context"
	"math/rand"
	"slices"
	"time"

	"loto-mcp/internal/game"
	"loto-mcp/internal/history"
)

// DateLayout is the provider date format used in generated draws.
const DateLayout = "02/01/2006"

type GeneratorConfig struct {
	Profile  game.Profile
	Scenario string // "uniform", "skewed" or "drift"
	Count    int
	Seed     int64
	Now      time.Time
}

// Generate produces Count synthetic draws ending at Now, one every two days.
// "skewed" favours low numbers throughout; "drift" moves that bias from the
// low end to the high end across the history.
func Generate(cfg GeneratorConfig) []game.Draw {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	p := cfg.Profile
	start := cfg.Now.AddDate(0, 0, -2*(cfg.Count-1))

	draws := make([]game.Draw, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		var bias float64
		switch cfg.Scenario {
		case "skewed":
			bias = 1.5
		case "drift":
			ratio := float64(i) / float64(max(cfg.Count-1, 1))
			bias = 1.5 - 3.0*ratio // 1.5 -> -1.5
		}

		draws = append(draws, game.Draw{
			Sequence: i + 1,
			Date:     start.AddDate(0, 0, 2*i).Format(DateLayout),
			Numbers:  drawNumbers(rng, p, bias),
		})
	}
	return draws
}

// drawNumbers samples DrawSize distinct numbers. bias > 0 weights low
// numbers up, bias < 0 weights high numbers up, zero is uniform.
func drawNumbers(rng *rand.Rand, p game.Profile, bias float64) []int {
	pool := p.Numbers()
	weights := make([]float64, len(pool))
	for i := range pool {
		pos := float64(i) / float64(max(len(pool)-1, 1)) // 0 at the low end
		w := 1 + bias*(1-2*pos)
		weights[i] = max(w, 0.05)
	}

	out := make([]int, 0, p.DrawSize)
	for len(out) < p.DrawSize {
		total := 0.0
		for _, w := range weights {
			total += w
		}
		r := rng.Float64() * total
		idx := len(pool) - 1
		for j, w := range weights {
			r -= w
			if r < 0 {
				idx = j
				break
			}
		}
		out = append(out, pool[idx])
		pool = slices.Delete(pool, idx, idx+1)
		weights = slices.Delete(weights, idx, idx+1)
	}
	slices.Sort(out)
	return out
}

// Save appends the draws to the JSONL history cache in dir.
func Save(ctx context.Context, dir string, gameName string, draws []game.Draw) (int, error) {
	store, err := history.NewJSONLStore(dir)
	if err != nil {
		return 0, err
	}
	defer store.Close()
	return store.Append(ctx, gameName, draws)
}
