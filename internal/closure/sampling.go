package closure

func toSet(nums []int) map[int]bool {
	set := make(map[int]bool, len(nums))
	for _, n := range nums {
		set[n] = true
	}
	return set
}

// available filters pool down to numbers not in used, keeping order.
func available(pool []int, used map[int]bool) []int {
	out := make([]int, 0, len(pool))
	for _, n := range pool {
		if !used[n] {
			out = append(out, n)
		}
	}
	return out
}

// sample draws k numbers without replacement from the unused part of pool.
// A pool smaller than k is returned whole, shuffled.
func (e *Engine) sample(pool []int, k int, used map[int]bool) []int {
	candidates := available(pool, used)
	if k > len(candidates) {
		k = len(candidates)
	}
	if k <= 0 {
		return nil
	}
	e.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return candidates[:k]
}

// weightedSample draws k numbers without replacement, each with probability
// proportional to its historical frequency plus one.
func (e *Engine) weightedSample(pool []int, k int, used map[int]bool) []int {
	candidates := available(pool, used)
	if k > len(candidates) {
		k = len(candidates)
	}
	out := make([]int, 0, k)
	for len(out) < k {
		total := 0
		for _, n := range candidates {
			total += e.stats.Frequency[n] + 1
		}
		r := e.rng.Intn(total)
		idx := 0
		for i, n := range candidates {
			r -= e.stats.Frequency[n] + 1
			if r < 0 {
				idx = i
				break
			}
		}
		out = append(out, candidates[idx])
		candidates = append(candidates[:idx], candidates[idx+1:]...)
	}
	return out
}

// choiceTop picks one random number among the top n of the frequency ranking
// that satisfies keep and is not used. Returns false when none qualifies.
func (e *Engine) choiceTop(n int, used map[int]bool, keep func(int) bool) (int, bool) {
	var top []int
	for _, c := range e.byFrequency {
		if len(top) == n {
			break
		}
		if !used[c] && keep(c) {
			top = append(top, c)
		}
	}
	if len(top) == 0 {
		return 0, false
	}
	return top[e.rng.Intn(len(top))], true
}
