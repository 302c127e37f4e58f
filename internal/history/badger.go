package history

import (
	"context"
	"encoding/json"
	"fmt"

	"loto-mcp/internal/game"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore keeps draws under keys draws/<game>/<zero-padded sequence>, so
// a prefix scan yields them in sequence order.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a Badger database at dir.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func gamePrefix(name string) []byte {
	return []byte("draws/" + name + "/")
}

func drawKey(name string, seq int) []byte {
	return []byte(fmt.Sprintf("draws/%s/%010d", name, seq))
}

// Append writes every draw in one transaction.
func (b *BadgerStore) Append(ctx context.Context, gameName string, draws []game.Draw) (int, error) {
	name, err := partition(gameName)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	added := 0
	err = b.db.Update(func(txn *badger.Txn) error {
		for _, d := range game.Normalize(draws) {
			key := drawKey(name, d.Sequence)
			if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
				added++
			} else if err != nil {
				return err
			}
			data, err := json.Marshal(d)
			if err != nil {
				return fmt.Errorf("failed to encode draw %d: %w", d.Sequence, err)
			}
			if err := txn.Set(key, data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to append draws: %w", err)
	}
	return added, nil
}

// Load scans the game's prefix.
func (b *BadgerStore) Load(ctx context.Context, gameName string) (game.History, error) {
	name, err := partition(gameName)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var h game.History
	err = b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := gamePrefix(name)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			var d game.Draw
			if err := json.Unmarshal(val, &d); err != nil {
				return fmt.Errorf("corrupt draw at %s: %w", it.Item().Key(), err)
			}
			h = append(h, d)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load draws: %w", err)
	}
	return h, nil
}

// Latest iterates backwards from the end of the prefix.
func (b *BadgerStore) Latest(ctx context.Context, gameName string, n int) (game.History, error) {
	name, err := partition(gameName)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var h game.History
	err = b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		p := gamePrefix(name)
		seek := append(append([]byte{}, p...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(p) && len(h) < n; it.Next() {
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			var d game.Draw
			if err := json.Unmarshal(val, &d); err != nil {
				return fmt.Errorf("corrupt draw at %s: %w", it.Item().Key(), err)
			}
			h = append(h, d)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load latest draws: %w", err)
	}
	for i, j := 0, len(h)-1; i < j; i, j = i+1, j-1 {
		h[i], h[j] = h[j], h[i]
	}
	return h, nil
}

// Reset drops every key of the game.
func (b *BadgerStore) Reset(ctx context.Context, gameName string) error {
	name, err := partition(gameName)
	if err != nil {
		return err
	}
	if err := b.db.DropPrefix(gamePrefix(name)); err != nil {
		return fmt.Errorf("failed to reset draws: %w", err)
	}
	return nil
}

// Stats loads the history and summarises it.
func (b *BadgerStore) Stats(ctx context.Context, gameName string) (Summary, error) {
	h, err := b.Load(ctx, gameName)
	if err != nil {
		return Summary{}, err
	}
	return summarize(gameName, h), nil
}

// Close releases the database.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}
