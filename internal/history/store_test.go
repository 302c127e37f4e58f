package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"loto-mcp/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draw(seq int, date string, lo int) game.Draw {
	nums := make([]int, 0, 15)
	for n := lo; n < lo+15; n++ {
		nums = append(nums, n)
	}
	return game.Draw{Sequence: seq, Date: date, Numbers: nums}
}

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	jsonl, err := NewJSONLStore(filepath.Join(dir, "cache"))
	require.NoError(t, err)
	bdg, err := NewBadgerStore(filepath.Join(dir, "badger"))
	require.NoError(t, err)
	sqlite, err := NewSQLiteStore(filepath.Join(dir, "history.db"))
	require.NoError(t, err)

	stores := map[string]Store{
		BackendJSONL:  jsonl,
		BackendBadger: bdg,
		BackendSQLite: sqlite,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStores_AppendLoadLatest(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			added, err := s.Append(ctx, "lotofacil", []game.Draw{
				draw(3, "2024-01-03", 5),
				draw(1, "2024-01-01", 1),
				draw(2, "2024-01-02", 11),
			})
			require.NoError(t, err)
			assert.Equal(t, 3, added)

			// Re-appending sequence 2 replaces it and is not counted as new.
			added, err = s.Append(ctx, "lotofacil", []game.Draw{draw(2, "2024-01-02", 3), draw(4, "2024-01-04", 2)})
			require.NoError(t, err)
			assert.Equal(t, 1, added)

			h, err := s.Load(ctx, "lotofacil")
			require.NoError(t, err)
			require.Len(t, h, 4)
			for i, d := range h {
				assert.Equal(t, i+1, d.Sequence)
			}
			assert.Equal(t, 3, h[1].Numbers[0])

			latest, err := s.Latest(ctx, "lotofacil", 2)
			require.NoError(t, err)
			require.Len(t, latest, 2)
			assert.Equal(t, 3, latest[0].Sequence)
			assert.Equal(t, 4, latest[1].Sequence)

			other, err := s.Load(ctx, "timemania")
			require.NoError(t, err)
			assert.Empty(t, other)
		})
	}
}

func TestStores_StatsAndReset(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Append(ctx, "lotofacil", []game.Draw{draw(10, "2024-02-01", 1), draw(12, "2024-02-03", 2)})
			require.NoError(t, err)

			sum, err := s.Stats(ctx, "lotofacil")
			require.NoError(t, err)
			assert.Equal(t, 2, sum.Count)
			assert.Equal(t, 10, sum.FirstSequence)
			assert.Equal(t, 12, sum.LastSequence)
			assert.Equal(t, "2024-02-03", sum.LastDate)

			require.NoError(t, s.Reset(ctx, "lotofacil"))
			sum, err = s.Stats(ctx, "lotofacil")
			require.NoError(t, err)
			assert.Zero(t, sum.Count)
		})
	}
}

func TestJSONLStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewJSONLStore(dir)
	require.NoError(t, err)
	_, err = first.Append(ctx, "lotofacil", []game.Draw{draw(1, "", 1), draw(2, "", 4)})
	require.NoError(t, err)

	second, err := NewJSONLStore(dir)
	require.NoError(t, err)
	h, err := second.Load(ctx, "lotofacil")
	require.NoError(t, err)
	assert.Len(t, h, 2)
	assert.NoFileExists(t, filepath.Join(dir, "lotofacil.jsonl.tmp"))
}

func TestNewFromConfig(t *testing.T) {
	s, err := NewFromConfig("", t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &JSONLStore{}, s)

	_, err = NewFromConfig("postgres", t.TempDir())
	assert.True(t, errors.Is(err, ErrUnknownBackend))
}

func TestPartitionRejectsPaths(t *testing.T) {
	s, err := NewJSONLStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Load(context.Background(), "../etc")
	assert.ErrorIs(t, err, game.ErrInvalidArgument)
}
