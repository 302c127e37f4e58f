package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"loto-mcp/internal/config"
	"loto-mcp/internal/game"
	"loto-mcp/internal/history"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Server holds the state for the MCP server.
type Server struct {
	cfg      *config.AppConfig
	registry *game.Registry
	store    history.Store

	enableMermaidCharts bool

	sdk *sdk.Server
}

// NewServer creates a new MCP server and registers every tool.
func NewServer(cfg *config.AppConfig, registry *game.Registry, store history.Store, version string) *Server {
	s := &Server{
		cfg:                 cfg,
		registry:            registry,
		store:               store,
		enableMermaidCharts: cfg.EnableMermaidCharts,
	}
	s.sdk = sdk.NewServer(&sdk.Implementation{Name: "loto-mcp", Version: version}, nil)
	s.registerTools()
	return s
}

// Start serves over stdio until the client disconnects.
func (s *Server) Start(ctx context.Context) error {
	log.Info().Int("games", len(s.registry.Names())).Msg("MCP server listening on stdio")
	return s.sdk.Run(ctx, &sdk.StdioTransport{})
}

// Connect serves a single session over an arbitrary transport.
func (s *Server) Connect(ctx context.Context, t sdk.Transport) (*sdk.ServerSession, error) {
	return s.sdk.Connect(ctx, t, nil)
}

// handlerFunc is the shape of every tool implementation: the result is
// rendered as indented JSON text content.
type handlerFunc[In any] func(ctx context.Context, in In) (interface{}, error)

func wrap[In any](name string, h handlerFunc[In]) sdk.ToolHandlerFor[In, any] {
	return func(ctx context.Context, _ *sdk.CallToolRequest, in In) (*sdk.CallToolResult, any, error) {
		log.Debug().Str("tool", name).Interface("args", in).Msg("Tool call")

		res, err := h(ctx, in)
		if err != nil {
			log.Error().Err(err).Str("tool", name).Msg("Tool call failed")
			return nil, nil, err
		}

		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode %s result: %w", name, err)
		}
		return &sdk.CallToolResult{
			Content: []sdk.Content{&sdk.TextContent{Text: string(out)}},
		}, nil, nil
	}
}

// resolveGame returns the profile and stored history for a game name,
// falling back to the configured default game.
func (s *Server) resolveGame(ctx context.Context, name string) (game.Profile, game.History, error) {
	p, err := s.profile(name)
	if err != nil {
		return game.Profile{}, nil, err
	}
	h, err := s.store.Load(ctx, p.Name)
	if err != nil {
		return game.Profile{}, nil, fmt.Errorf("failed to load %s history: %w", p.Name, err)
	}
	if len(h) == 0 {
		log.Warn().Str("game", p.Name).Msg("No stored draws, statistics will be empty")
	}
	return p, h, nil
}
