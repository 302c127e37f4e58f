package mcp

import (
	"context"
	"fmt"
	"path/filepath"

	"loto-mcp/internal/checker"
	"loto-mcp/internal/closure"
	"loto-mcp/internal/game"
	"loto-mcp/internal/history"
	"loto-mcp/internal/report"
	"loto-mcp/internal/stats"
	"loto-mcp/internal/visuals"

	"github.com/rs/zerolog/log"
)

// latestShown is how many recent draws the history summary lists.
const latestShown = 5

const descriptiveOnly = "Statistics describe past draws only. Every combination has the same probability in the next draw."

func (s *Server) handleListGames(_ context.Context, _ struct{}) (interface{}, error) {
	games := make([]game.Profile, 0, len(s.registry.Names()))
	for _, name := range s.registry.Names() {
		p, err := s.registry.Get(name)
		if err != nil {
			return nil, err
		}
		games = append(games, p)
	}
	return map[string]interface{}{
		"games":        games,
		"default_game": s.cfg.DefaultGame,
		"strategies":   closure.StrategyNames(),
	}, nil
}

func (s *Server) handleHistorySummary(ctx context.Context, in gameInput) (interface{}, error) {
	p, err := s.profile(in.Game)
	if err != nil {
		return nil, err
	}
	summary, err := s.store.Stats(ctx, p.Name)
	if err != nil {
		return nil, err
	}
	latest, err := s.store.Latest(ctx, p.Name, latestShown)
	if err != nil {
		return nil, err
	}

	res := map[string]interface{}{
		"summary": summary,
		"latest":  latest,
	}
	if summary.Count == 0 {
		res["_guidance"] = []string{"No draws stored yet. Use import_history with a provider JSON, .jsonl or .csv file."}
	}
	return res, nil
}

func (s *Server) handleImportHistory(ctx context.Context, in importInput) (interface{}, error) {
	p, err := s.profile(in.Game)
	if err != nil {
		return nil, err
	}
	result, err := history.ImportFile(in.Path, p)
	if err != nil {
		return nil, err
	}
	added, err := s.store.Append(ctx, p.Name, result.Draws)
	if err != nil {
		return nil, err
	}
	summary, err := s.store.Stats(ctx, p.Name)
	if err != nil {
		return nil, err
	}

	log.Info().Str("game", p.Name).Int("read", result.Read).Int("added", added).Msg("History imported")
	return map[string]interface{}{
		"read":     result.Read,
		"skipped":  result.Skipped,
		"accepted": len(result.Draws),
		"added":    added,
		"summary":  summary,
	}, nil
}

func (s *Server) handleGetStatistics(ctx context.Context, in statisticsInput) (interface{}, error) {
	p, h, err := s.resolveGame(ctx, in.Game)
	if err != nil {
		return nil, err
	}
	if in.LastN > 0 {
		h = h.Window(in.LastN)
	}

	st := stats.Compute(h, p, s.cfg.Stats)
	res := map[string]interface{}{
		"statistics":        st,
		"consecutive_pairs": topPairs(stats.ConsecutivePairs(h), 10),
		"_guidance": []string{
			descriptiveOnly,
			fmt.Sprintf("Delay counts draws since a number last appeared; never-drawn numbers use the %s sentinel.", s.cfg.Stats.Sentinel),
			fmt.Sprintf("Hot numbers appeared in at least half of the last %d draws; cold numbers in under 30%% of the last %d, or not at all.", s.cfg.Stats.HotWindow, s.cfg.Stats.ColdWindow),
		},
	}

	if s.enableMermaidCharts {
		res["visual_frequency"] = visuals.GenerateFrequencyChart(st)
		res["visual_delay"] = visuals.GenerateDelayChart(st)
		res["visual_buckets"] = visuals.GenerateBucketChart(st)
		res["visual_parity"] = visuals.GenerateParityPie(st)
	}
	return res, nil
}

func topPairs(pairs []stats.PairCount, n int) []stats.PairCount {
	if len(pairs) > n {
		return pairs[:n]
	}
	return pairs
}

func (s *Server) handleGenerateClosure(ctx context.Context, in closureInput) (interface{}, error) {
	p, h, err := s.resolveGame(ctx, in.Game)
	if err != nil {
		return nil, err
	}

	seed := in.Seed
	if seed == 0 {
		seed = s.cfg.RandomSeed
	}
	req := closure.Request{
		Strategy:     in.Strategy,
		Count:        in.Count,
		ComboSize:    in.ComboSize,
		Fixed:        in.Fixed,
		MaxRebalance: s.cfg.MaxRebalance,
	}

	c, err := closure.Build(req, stats.Compute(h, p, s.cfg.Stats), seed)
	if err != nil {
		return nil, err
	}

	res := map[string]interface{}{
		"closure": c,
	}
	if len(c.Combinations) < in.Count {
		res["_data_quality"] = []string{
			fmt.Sprintf("Only %d distinct combinations could be produced out of %d requested.", len(c.Combinations), in.Count),
		}
	}
	if in.Save {
		path := filepath.Join(s.cfg.ReportsDir, fmt.Sprintf("closure-%s.json", c.ID))
		if err := closure.WriteFile(path, c); err != nil {
			return nil, err
		}
		res["file"] = path
	}
	res["_guidance"] = []string{
		descriptiveOnly,
		"Use check_combinations with these combinations (or the saved file) to compare them against the history.",
	}
	return res, nil
}

func (s *Server) handleCheckCombinations(ctx context.Context, in checkInput) (interface{}, error) {
	p, h, err := s.resolveGame(ctx, in.Game)
	if err != nil {
		return nil, err
	}

	combos := in.Combinations
	if in.ClosureFile != "" {
		combos, err = closure.LoadCombinations(in.ClosureFile, p, s.registry)
		if err != nil {
			return nil, err
		}
	}

	rep, err := checker.New(p, s.cfg.CheckWorkers).Check(ctx, combos, h)
	if err != nil {
		return nil, err
	}

	res := map[string]interface{}{
		"report": rep,
		"_guidance": []string{
			"History entries are ranked by average hits (descending); 'latest' follows the same order.",
			"min_non_zero ignores draws with no hits.",
		},
	}
	if s.enableMermaidCharts && len(rep.History) > 0 {
		res["visual_average_hits"] = visuals.GenerateAverageHitsChart(rep)
		res["visual_best_distribution"] = visuals.GenerateMatchDistributionChart(rep.History[0])
	}
	return res, nil
}

func (s *Server) handleRepeatedCombinations(ctx context.Context, in repeatedInput) (interface{}, error) {
	p, h, err := s.resolveGame(ctx, in.Game)
	if err != nil {
		return nil, err
	}

	res := map[string]interface{}{
		"most_repeated": stats.MostRepeatedCombination(h, p),
		"total_draws":   len(h),
	}
	if in.SubsetSize > 0 {
		subset, err := stats.MostFrequentSubset(h, p, in.SubsetSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", game.ErrInvalidArgument, err)
		}
		res["most_frequent_subset"] = subset
	}
	return res, nil
}

func (s *Server) handleGenerateReport(ctx context.Context, in reportInput) (interface{}, error) {
	p, h, err := s.resolveGame(ctx, in.Game)
	if err != nil {
		return nil, err
	}

	data := report.Data{Stats: stats.Compute(h, p, s.cfg.Stats)}
	if len(in.Combinations) > 0 {
		rep, err := checker.New(p, s.cfg.CheckWorkers).Check(ctx, in.Combinations, h)
		if err != nil {
			return nil, err
		}
		data.Check = &rep
	}

	path, err := report.Write(s.cfg.ReportsDir, data)
	if err != nil {
		return nil, err
	}
	if in.Open {
		if err := report.Open(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to open report in browser")
		}
	}
	return map[string]interface{}{"file": path}, nil
}

func (s *Server) profile(name string) (game.Profile, error) {
	if name == "" {
		name = s.cfg.DefaultGame
	}
	return s.registry.Get(name)
}
