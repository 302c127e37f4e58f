package main

import (
	"context"
	"flag"
	"fmt"
	"loto-mcp/cmd/mockgen/engine"
	"loto-mcp/internal/game"
	"os"
	"time"
)

func main() {
	gameName := flag.String("game", "lotofacil", "Game profile to generate draws for")
	scenario := flag.String("scenario", "uniform", "Scenario to generate: uniform, skewed, drift")
	outDir := flag.String("out", "./cache", "History cache directory (JSONL backend)")
	count := flag.Int("count", 200, "Number of draws to generate")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	p, err := game.NewRegistry().Get(*gameName)
	if err != nil {
		fmt.Printf("Unknown game: %v\n", err)
		os.Exit(1)
	}

	cfg := engine.GeneratorConfig{
		Profile:  p,
		Scenario: *scenario,
		Count:    *count,
		Seed:     *seed,
		Now:      time.Now(),
	}

	fmt.Printf("Generating %d %s draws (scenario '%s', seed %d) to %s...\n", cfg.Count, p.Name, cfg.Scenario, cfg.Seed, *outDir)

	draws := engine.Generate(cfg)
	added, err := engine.Save(context.Background(), *outDir, p.Name, draws)
	if err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done. %d new draws.\n", added)
}
