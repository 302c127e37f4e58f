package closure

import (
	"math"
	"strings"

	"loto-mcp/internal/stats"

	"github.com/rs/zerolog/log"
)

// Strategy names accepted by Lookup.
const (
	StrategyFrequency = "frequency"
	StrategyDelay     = "delay"
	StrategyBalanced  = "balanced"
	StrategyBlended   = "blended"
)

// Strategy produces one raw combination attempt. The engine dedupes, pads
// and sorts whatever it returns.
type Strategy interface {
	Name() string
	Pick(e *Engine, size int) []int
}

var strategies = map[string]Strategy{
	StrategyFrequency: frequencyStrategy{},
	StrategyDelay:     delayStrategy{},
	StrategyBalanced:  balancedStrategy{},
	StrategyBlended:   blendedStrategy{},
	"misto":           blendedStrategy{},
	"mixed":           blendedStrategy{},
}

// Lookup resolves a strategy by name. Empty or unknown names fall back to blended.
func Lookup(name string) Strategy {
	key := strings.ToLower(strings.TrimSpace(name))
	if s, ok := strategies[key]; ok {
		return s
	}
	if key != "" {
		log.Warn().Str("strategy", name).Msg("Unknown strategy, falling back to blended")
	}
	return blendedStrategy{}
}

// StrategyNames lists the canonical strategy names.
func StrategyNames() []string {
	return []string{StrategyFrequency, StrategyDelay, StrategyBalanced, StrategyBlended}
}

type frequencyStrategy struct{}

func (frequencyStrategy) Name() string { return StrategyFrequency }

func (frequencyStrategy) Pick(e *Engine, size int) []int {
	pool := e.byFrequency
	if n := e.profile.FrequencyPool; n > 0 && n < len(pool) {
		pool = pool[:n]
	}
	return e.sample(pool, size, nil)
}

type delayStrategy struct{}

func (delayStrategy) Name() string { return StrategyDelay }

func (delayStrategy) Pick(e *Engine, size int) []int {
	pool := stats.TopNumbers(stats.RankDescending(e.stats.Delay), size+e.profile.DelayPoolPadding)
	return e.sample(pool, size, nil)
}

type balancedStrategy struct{}

func (balancedStrategy) Name() string { return StrategyBalanced }

func (balancedStrategy) Pick(e *Engine, size int) []int {
	buckets := e.profile.Buckets
	if len(buckets) == 0 {
		return e.weightedSample(e.profile.Numbers(), size, nil)
	}

	slots := allocateSlots(e, size)
	used := make(map[int]bool, size)
	combo := make([]int, 0, size)
	for i, b := range buckets {
		picked := e.weightedSample(b.Numbers(), slots[i], used)
		for _, n := range picked {
			used[n] = true
		}
		combo = append(combo, picked...)
	}

	return rebalanceParity(e, combo, size)
}

// allocateSlots splits size across buckets proportionally to their historical
// average, with a per-bucket floor, capped by bucket capacity.
func allocateSlots(e *Engine, size int) []int {
	buckets := e.profile.Buckets
	slots := make([]int, len(buckets))

	total := 0.0
	for _, b := range e.stats.Buckets {
		total += b.Average
	}

	if total > 0 && len(e.stats.Buckets) == len(buckets) {
		for i, b := range e.stats.Buckets {
			share := int(math.RoundToEven(b.Average / total * float64(size)))
			slots[i] = max(e.profile.BucketFloor, share)
		}
	} else {
		per, rest := size/len(buckets), size%len(buckets)
		for i := range slots {
			slots[i] = per
			if i < rest {
				slots[i]++
			}
		}
	}

	for i, b := range buckets {
		slots[i] = min(slots[i], b.Size())
	}

	sum := 0
	for _, s := range slots {
		sum += s
	}
	for sum > size {
		// Trim the fullest bucket, preferring ones above the floor.
		idx := fullest(slots, e.profile.BucketFloor)
		if idx < 0 {
			idx = fullest(slots, 0)
		}
		slots[idx]--
		sum--
	}
	for sum < size {
		// Grow the bucket with the most spare room.
		idx := -1
		for i, b := range buckets {
			spare := b.Size() - slots[i]
			if spare > 0 && (idx < 0 || spare > buckets[idx].Size()-slots[idx]) {
				idx = i
			}
		}
		if idx < 0 {
			break
		}
		slots[idx]++
		sum++
	}
	return slots
}

// fullest returns the index of the largest slot above floor, or -1.
// Ties go to the later bucket.
func fullest(slots []int, floor int) int {
	idx := -1
	for i, s := range slots {
		if s > floor && (idx < 0 || s >= slots[idx]) {
			idx = i
		}
	}
	return idx
}

// rebalanceParity swaps numbers between parity classes until the even count
// matches the historical share, giving up after the configured ceiling.
func rebalanceParity(e *Engine, combo []int, size int) []int {
	share := e.stats.Parity.EvenShare(e.profile.DefaultEvenShare)
	targetEven := int(math.RoundToEven(share * float64(size)))

	used := toSet(combo)
	isEven := func(n int) bool { return n%2 == 0 }
	isOdd := func(n int) bool { return n%2 != 0 }

	for i := 0; i < e.maxRebalance; i++ {
		evens := 0
		for _, n := range combo {
			if isEven(n) {
				evens++
			}
		}
		if evens == targetEven {
			break
		}

		drop, want := isOdd, isEven
		if evens > targetEven {
			drop, want = isEven, isOdd
		}
		replacement, ok := e.choiceTop(10, used, want)
		if !ok {
			break
		}
		var victims []int
		for idx, n := range combo {
			if drop(n) {
				victims = append(victims, idx)
			}
		}
		if len(victims) == 0 {
			break
		}
		idx := victims[e.rng.Intn(len(victims))]
		delete(used, combo[idx])
		combo[idx] = replacement
		used[replacement] = true
	}
	return combo
}

type blendedStrategy struct{}

func (blendedStrategy) Name() string { return StrategyBlended }

func (blendedStrategy) Pick(e *Engine, size int) []int {
	w := e.profile.Blend
	used := make(map[int]bool, size)
	combo := make([]int, 0, size)

	take := func(pool []int, share float64) {
		want := min(max(1, int(float64(size)*share)), size-len(combo))
		for _, n := range e.sample(pool, want, used) {
			used[n] = true
			combo = append(combo, n)
		}
	}

	take(e.stats.Hot, w.Hot)
	take(e.stats.Delayed, w.Delayed)
	frequent := e.byFrequency
	if n := e.profile.FrequentTop; n > 0 && n < len(frequent) {
		frequent = frequent[:n]
	}
	take(frequent, w.Frequent)

	if len(e.profile.Buckets) > 0 {
		perBucket := max(1, int(float64(size)*w.Bucket)/len(e.profile.Buckets))
		for _, b := range e.profile.Buckets {
			if len(combo) >= size {
				break
			}
			want := min(perBucket, size-len(combo))
			for _, n := range e.sample(b.Numbers(), want, used) {
				used[n] = true
				combo = append(combo, n)
			}
		}
	}

	if rest := size - len(combo); rest > 0 {
		combo = append(combo, e.sample(e.profile.Numbers(), rest, used)...)
	}
	return combo
}
