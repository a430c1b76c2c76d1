// Package store persists line histories in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jensroland/git-linelog/internal/linelog"
)

// ErrNotFound is returned when no history exists under the requested name.
var ErrNotFound = errors.New("history not found")

// History describes one stored history.
type History struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	MaxRev       linelog.Rev `json:"max_rev"`
	Instructions int         `json:"instructions"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Store is a SQLite-backed collection of named histories.
type Store struct {
	db *sql.DB
}

const schema = `
	CREATE TABLE IF NOT EXISTS histories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		max_rev INTEGER NOT NULL,
		instructions INTEGER NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS instructions (
		history_id TEXT NOT NULL,
		pc INTEGER NOT NULL,
		op INTEGER NOT NULL,
		rev INTEGER NOT NULL,
		target INTEGER NOT NULL,
		data INTEGER NOT NULL,
		PRIMARY KEY (history_id, pc)
	);
	CREATE TABLE IF NOT EXISTS contents (
		history_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		data TEXT NOT NULL,
		PRIMARY KEY (history_id, idx)
	);
`

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes log under name, replacing any previous version.
func (s *Store) Save(ctx context.Context, name string, log linelog.LineLog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	defer tx.Rollback()

	id, err := historyID(ctx, tx, name)
	switch {
	case errors.Is(err, ErrNotFound):
		id = uuid.NewString()
	case err != nil:
		return fmt.Errorf("save %s: %w", name, err)
	}

	p := log.Program()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO histories (id, name, max_rev, instructions, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			max_rev = excluded.max_rev,
			instructions = excluded.instructions,
			updated_at = excluded.updated_at
	`, id, name, int(log.MaxRev()), p.Len(), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save %s: upsert history: %w", name, err)
	}

	for _, table := range []string{"instructions", "contents"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE history_id = ?", id); err != nil {
			return fmt.Errorf("save %s: clear %s: %w", name, table, err)
		}
	}

	inst, err := tx.PrepareContext(ctx, `
		INSERT INTO instructions (history_id, pc, op, rev, target, data)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	defer inst.Close()
	for pc, in := range p.Code() {
		if _, err := inst.ExecContext(ctx, id, pc, int(in.Op), int(in.Rev), in.PC, in.Data); err != nil {
			return fmt.Errorf("save %s: instruction %d: %w", name, pc, err)
		}
	}

	content, err := tx.PrepareContext(ctx, `INSERT INTO contents (history_id, idx, data) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	defer content.Close()
	for idx, data := range p.Contents() {
		if _, err := content.ExecContext(ctx, id, idx, data); err != nil {
			return fmt.Errorf("save %s: content %d: %w", name, idx, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save %s: commit: %w", name, err)
	}
	return nil
}

// Load reads the history stored under name. opts are passed to the
// resulting LineLog.
func (s *Store) Load(ctx context.Context, name string, opts ...linelog.Option) (linelog.LineLog, error) {
	var id string
	var maxRev int
	err := s.db.QueryRowContext(ctx, `SELECT id, max_rev FROM histories WHERE name = ?`, name).Scan(&id, &maxRev)
	if errors.Is(err, sql.ErrNoRows) {
		return linelog.LineLog{}, fmt.Errorf("load %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return linelog.LineLog{}, fmt.Errorf("load %s: %w", name, err)
	}

	code, err := s.loadCode(ctx, id)
	if err != nil {
		return linelog.LineLog{}, fmt.Errorf("load %s: %w", name, err)
	}
	contents, err := s.loadContents(ctx, id)
	if err != nil {
		return linelog.LineLog{}, fmt.Errorf("load %s: %w", name, err)
	}

	p, err := linelog.NewProgram(code, contents)
	if err != nil {
		return linelog.LineLog{}, fmt.Errorf("load %s: %w", name, err)
	}
	log, err := linelog.FromProgram(p, linelog.Rev(maxRev), opts...)
	if err != nil {
		return linelog.LineLog{}, fmt.Errorf("load %s: %w", name, err)
	}
	return log, nil
}

func (s *Store) loadCode(ctx context.Context, id string) ([]linelog.Inst, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT op, rev, target, data FROM instructions
		WHERE history_id = ? ORDER BY pc
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query instructions: %w", err)
	}
	defer rows.Close()

	var code []linelog.Inst
	for rows.Next() {
		var op, rev, target, data int
		if err := rows.Scan(&op, &rev, &target, &data); err != nil {
			return nil, fmt.Errorf("scan instruction: %w", err)
		}
		code = append(code, linelog.Inst{Op: linelog.Op(op), Rev: linelog.Rev(rev), PC: target, Data: data})
	}
	return code, rows.Err()
}

func (s *Store) loadContents(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM contents WHERE history_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("query contents: %w", err)
	}
	defer rows.Close()

	var contents []string
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		contents = append(contents, data)
	}
	return contents, rows.Err()
}

// List returns all stored histories ordered by name.
func (s *Store) List(ctx context.Context) ([]History, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, max_rev, instructions, updated_at
		FROM histories ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list histories: %w", err)
	}
	defer rows.Close()

	var out []History
	for rows.Next() {
		var h History
		var maxRev int
		var updated string
		if err := rows.Scan(&h.ID, &h.Name, &maxRev, &h.Instructions, &updated); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		h.MaxRev = linelog.Rev(maxRev)
		if h.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, fmt.Errorf("history %s: bad timestamp %q: %w", h.Name, updated, err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Delete removes the history stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	defer tx.Rollback()

	id, err := historyID(ctx, tx, name)
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	for _, q := range []string{
		"DELETE FROM instructions WHERE history_id = ?",
		"DELETE FROM contents WHERE history_id = ?",
		"DELETE FROM histories WHERE id = ?",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("delete %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete %s: commit: %w", name, err)
	}
	return nil
}

func historyID(ctx context.Context, tx *sql.Tx, name string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM histories WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return id, err
}
