package history

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"loto-mcp/internal/game"
)

// ErrUnknownBackend is returned by NewFromConfig for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown history backend")

// Backend names.
const (
	BackendJSONL  = "jsonl"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Summary describes what a store holds for one game.
type Summary struct {
	Game          string `json:"game"`
	Count         int    `json:"count"`
	FirstSequence int    `json:"first_sequence,omitempty"`
	LastSequence  int    `json:"last_sequence,omitempty"`
	FirstDate     string `json:"first_date,omitempty"`
	LastDate      string `json:"last_date,omitempty"`
}

// Store persists draw histories partitioned by game. Draws are identified by
// sequence number; appending an existing sequence replaces it.
type Store interface {
	// Append stores draws and returns how many sequences were new.
	Append(ctx context.Context, gameName string, draws []game.Draw) (int, error)
	// Load returns the full history, ascending by sequence.
	Load(ctx context.Context, gameName string) (game.History, error)
	// Latest returns the last n draws, ascending by sequence.
	Latest(ctx context.Context, gameName string, n int) (game.History, error)
	Reset(ctx context.Context, gameName string) error
	Stats(ctx context.Context, gameName string) (Summary, error)
	Close() error
}

// NewFromConfig opens the store named by backend under dataDir.
func NewFromConfig(backend, dataDir string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendJSONL:
		return NewJSONLStore(filepath.Join(dataDir, "cache"))
	case BackendBadger:
		return NewBadgerStore(filepath.Join(dataDir, "badger"))
	case BackendSQLite:
		return NewSQLiteStore(filepath.Join(dataDir, "history.db"))
	default:
		return nil, fmt.Errorf("%w: %q (expected %s, %s or %s)", ErrUnknownBackend, backend, BackendJSONL, BackendBadger, BackendSQLite)
	}
}

func summarize(gameName string, h game.History) Summary {
	s := Summary{Game: gameName, Count: len(h)}
	if len(h) == 0 {
		return s
	}
	s.FirstSequence, s.FirstDate = h[0].Sequence, h[0].Date
	last := h[len(h)-1]
	s.LastSequence, s.LastDate = last.Sequence, last.Date
	return s
}

func partition(gameName string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(gameName))
	if name == "" || strings.ContainsAny(name, `/\.`) {
		return "", fmt.Errorf("%w: invalid game partition %q", game.ErrInvalidArgument, gameName)
	}
	return name, nil
}
