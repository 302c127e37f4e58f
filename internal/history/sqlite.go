package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"loto-mcp/internal/game"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS draws (
	game     TEXT    NOT NULL,
	sequence INTEGER NOT NULL,
	date     TEXT    NOT NULL DEFAULT '',
	numbers  TEXT    NOT NULL,
	PRIMARY KEY (game, sequence)
);
CREATE INDEX IF NOT EXISTS idx_draws_date ON draws(game, date);
`

// SQLiteStore keeps draws in a single table keyed by (game, sequence).
// Numbers are stored as a JSON array.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database file and applies the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append upserts the draws in one transaction.
func (s *SQLiteStore) Append(ctx context.Context, gameName string, draws []game.Draw) (int, error) {
	name, err := partition(gameName)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for _, d := range game.Normalize(draws) {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM draws WHERE game = ? AND sequence = ?`, name, d.Sequence).Scan(&exists)
		if err == sql.ErrNoRows {
			added++
		} else if err != nil {
			return 0, fmt.Errorf("failed to look up draw %d: %w", d.Sequence, err)
		}

		nums, err := json.Marshal(d.Numbers)
		if err != nil {
			return 0, fmt.Errorf("failed to encode draw %d: %w", d.Sequence, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO draws (game, sequence, date, numbers) VALUES (?, ?, ?, ?)`,
			name, d.Sequence, d.Date, string(nums)); err != nil {
			return 0, fmt.Errorf("failed to store draw %d: %w", d.Sequence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit draws: %w", err)
	}
	return added, nil
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) (game.History, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query draws: %w", err)
	}
	defer rows.Close()

	var h game.History
	for rows.Next() {
		var d game.Draw
		var nums string
		if err := rows.Scan(&d.Sequence, &d.Date, &nums); err != nil {
			return nil, fmt.Errorf("failed to scan draw: %w", err)
		}
		if err := json.Unmarshal([]byte(nums), &d.Numbers); err != nil {
			return nil, fmt.Errorf("corrupt numbers for draw %d: %w", d.Sequence, err)
		}
		h = append(h, d)
	}
	return h, rows.Err()
}

// Load returns every draw of the game ordered by sequence.
func (s *SQLiteStore) Load(ctx context.Context, gameName string) (game.History, error) {
	name, err := partition(gameName)
	if err != nil {
		return nil, err
	}
	return s.query(ctx, `SELECT sequence, date, numbers FROM draws WHERE game = ? ORDER BY sequence`, name)
}

// Latest returns the last n draws ordered by sequence.
func (s *SQLiteStore) Latest(ctx context.Context, gameName string, n int) (game.History, error) {
	name, err := partition(gameName)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	return s.query(ctx, `SELECT sequence, date, numbers FROM (
		SELECT sequence, date, numbers FROM draws WHERE game = ? ORDER BY sequence DESC LIMIT ?
	) ORDER BY sequence`, name, n)
}

// Reset deletes the game's rows.
func (s *SQLiteStore) Reset(ctx context.Context, gameName string) error {
	name, err := partition(gameName)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM draws WHERE game = ?`, name); err != nil {
		return fmt.Errorf("failed to reset draws: %w", err)
	}
	return nil
}

// Stats aggregates in SQL rather than loading the history.
func (s *SQLiteStore) Stats(ctx context.Context, gameName string) (Summary, error) {
	name, err := partition(gameName)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Game: gameName}
	var first, last sql.NullInt64
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(sequence), MAX(sequence) FROM draws WHERE game = ?`, name).
		Scan(&sum.Count, &first, &last)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to summarise draws: %w", err)
	}
	if sum.Count == 0 {
		return sum, nil
	}
	sum.FirstSequence, sum.LastSequence = int(first.Int64), int(last.Int64)

	dateOf := `SELECT date FROM draws WHERE game = ? AND sequence = ?`
	if err := s.db.QueryRowContext(ctx, dateOf, name, sum.FirstSequence).Scan(&sum.FirstDate); err != nil {
		return Summary{}, fmt.Errorf("failed to read first draw date: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, dateOf, name, sum.LastSequence).Scan(&sum.LastDate); err != nil {
		return Summary{}, fmt.Errorf("failed to read last draw date: %w", err)
	}
	return sum, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
