package history

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"loto-mcp/internal/game"

	"github.com/rs/zerolog/log"
)

// JSONLStore keeps each game's history in memory and mirrors it to
// <dir>/<game>.jsonl, one draw per line.
type JSONLStore struct {
	mu     sync.Mutex
	dir    string
	loaded map[string]bool
	draws  map[string]game.History
}

// NewJSONLStore creates the cache directory if needed.
func NewJSONLStore(dir string) (*JSONLStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history cache dir: %w", err)
	}
	return &JSONLStore{
		dir:    dir,
		loaded: make(map[string]bool),
		draws:  make(map[string]game.History),
	}, nil
}

func (s *JSONLStore) path(name string) string {
	return filepath.Join(s.dir, name+".jsonl")
}

// ensureLoaded reads the cache file once per game. Caller holds s.mu.
func (s *JSONLStore) ensureLoaded(name string) error {
	if s.loaded[name] {
		return nil
	}

	file, err := os.Open(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded[name] = true
			return nil
		}
		return fmt.Errorf("failed to open history cache: %w", err)
	}
	defer file.Close()

	var draws []game.Draw
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var d game.Draw
		if err := json.Unmarshal(scanner.Bytes(), &d); err != nil {
			log.Warn().Err(err).Str("game", name).Msg("Skipping invalid JSON line in history cache")
			continue
		}
		draws = append(draws, d)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading history cache: %w", err)
	}

	s.draws[name] = game.Normalize(draws)
	s.loaded[name] = true
	log.Info().Str("game", name).Int("count", len(draws)).Msg("Loaded draws from cache")
	return nil
}

// Append merges draws by sequence and rewrites the cache file.
func (s *JSONLStore) Append(ctx context.Context, gameName string, draws []game.Draw) (int, error) {
	name, err := partition(gameName)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(name); err != nil {
		return 0, err
	}

	existing := s.draws[name]
	known := make(map[int]bool, len(existing))
	for _, d := range existing {
		known[d.Sequence] = true
	}
	added := 0
	for _, d := range draws {
		if !known[d.Sequence] {
			known[d.Sequence] = true
			added++
		}
	}

	merged := game.Normalize(append(slices.Clone(existing), draws...))
	if err := s.save(name, merged); err != nil {
		return 0, err
	}
	s.draws[name] = merged
	return added, nil
}

// save writes the history to a temp file and renames it over the cache.
func (s *JSONLStore) save(name string, h game.History) error {
	path := s.path(name)
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for _, d := range h {
		if err := encoder.Encode(d); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode draw: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename cache file: %w", err)
	}

	log.Debug().Str("game", name).Int("count", len(h)).Msg("History cache saved")
	return nil
}

// Load returns a copy of the game's history.
func (s *JSONLStore) Load(ctx context.Context, gameName string) (game.History, error) {
	name, err := partition(gameName)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(name); err != nil {
		return nil, err
	}
	return slices.Clone(s.draws[name]), nil
}

// Latest returns the last n draws.
func (s *JSONLStore) Latest(ctx context.Context, gameName string, n int) (game.History, error) {
	h, err := s.Load(ctx, gameName)
	if err != nil {
		return nil, err
	}
	return slices.Clone(h.Window(n)), nil
}

// Reset forgets the game's history and removes its cache file.
func (s *JSONLStore) Reset(ctx context.Context, gameName string) error {
	name, err := partition(gameName)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.draws, name)
	s.loaded[name] = true
	if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove history cache: %w", err)
	}
	log.Info().Str("game", name).Msg("History reset")
	return nil
}

// Stats summarises the stored history.
func (s *JSONLStore) Stats(ctx context.Context, gameName string) (Summary, error) {
	h, err := s.Load(ctx, gameName)
	if err != nil {
		return Summary{}, err
	}
	return summarize(gameName, h), nil
}

// Close is a no-op; every Append is already on disk.
func (s *JSONLStore) Close() error { return nil }
