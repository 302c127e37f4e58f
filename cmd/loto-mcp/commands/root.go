package commands

import (
	"context"
	"os"
	"os/signal"

	"loto-mcp/internal/config"
	"loto-mcp/internal/game"
	"loto-mcp/internal/history"
	"loto-mcp/internal/logging"
	"loto-mcp/internal/mcp"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose  bool
	gameName string

	cfg      *config.AppConfig
	registry *game.Registry
	store    history.Store
)

var rootCmd = &cobra.Command{
	Use:   "loto-mcp",
	Short: "loto-mcp is a lottery statistics MCP Server",
	Long: `An MCP Server and CLI that computes descriptive statistics over lottery draw histories,
generates closures (sets of combinations) with statistical strategies and checks combinations
against past results.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(logging.Options{Verbose: verbose}); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Error().Err(err).Msg("Failed to load configuration")
			return err
		}
		if gameName != "" {
			cfg.DefaultGame = gameName
		}

		registry = game.NewRegistry()
		if cfg.GameProfilesFile != "" {
			if err := registry.LoadProfiles(cfg.GameProfilesFile); err != nil {
				log.Error().Err(err).Str("path", cfg.GameProfilesFile).Msg("Failed to load game profiles")
				return err
			}
		}
		if _, err := registry.Get(cfg.DefaultGame); err != nil {
			return err
		}

		store, err = history.NewFromConfig(cfg.HistoryBackend, cfg.DataPath)
		if err != nil {
			log.Error().Err(err).Str("backend", cfg.HistoryBackend).Msg("Failed to open history store")
			return err
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("backend", cfg.HistoryBackend).
			Str("game", cfg.DefaultGame).
			Msg("loto-mcp starting")
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store == nil {
			return nil
		}
		return store.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		log.Info().Msg("MCP Server starting Stdio loop")
		server := mcp.NewServer(cfg, registry, store, Version)
		return server.Start(ctx)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&gameName, "game", "g", "", "game to work on (defaults to DEFAULT_GAME)")
}

// loadGame returns the active profile and its stored history.
func loadGame(ctx context.Context) (game.Profile, game.History, error) {
	p, err := registry.Get(cfg.DefaultGame)
	if err != nil {
		return game.Profile{}, nil, err
	}
	h, err := store.Load(ctx, p.Name)
	if err != nil {
		return game.Profile{}, nil, err
	}
	if len(h) == 0 {
		log.Warn().Str("game", p.Name).Msg("No stored draws, run 'history import' first")
	}
	return p, h, nil
}
