// Package history records committed schedule changes in a local SQLite
// database. Each confirmed cascade (shift, resize or rain delay) becomes one
// change set with a row per affected task, so past reschedules can be
// reviewed after the fact.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ganttwing/ganttwing/models"
)

// ChangeKind names the operation that produced a change set.
type ChangeKind string

const (
	KindShift     ChangeKind = "shift"
	KindResize    ChangeKind = "resize"
	KindRainDelay ChangeKind = "rain-delay"
)

// ChangeSet is one committed reschedule.
type ChangeSet struct {
	ID        string
	Kind      ChangeKind
	Note      string
	CreatedAt time.Time
	// EntryCount is the number of tasks the set touched.
	EntryCount int
}

// Entry is one task's date change within a set.
type Entry struct {
	TaskID    string
	TaskName  string
	OldStart  models.Date
	OldEnd    models.Date
	NewStart  models.Date
	NewEnd    models.Date
	DeltaDays int
	Direct    bool
}

// Store is a SQLite-backed change history.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the history database at dbPath. Pass
// ":memory:" for an ephemeral store in tests.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// initSchema creates the tables if they don't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS change_sets (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		note TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS change_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		set_id TEXT NOT NULL,
		task_id TEXT NOT NULL,
		task_name TEXT NOT NULL,
		old_start TEXT NOT NULL,
		old_end TEXT NOT NULL,
		new_start TEXT NOT NULL,
		new_end TEXT NOT NULL,
		delta_days INTEGER NOT NULL,
		direct INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (set_id) REFERENCES change_sets(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_change_entries_set ON change_entries(set_id);
	CREATE INDEX IF NOT EXISTS idx_change_sets_created ON change_sets(created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// Record stores one committed reschedule and its per-task entries in a
// single transaction.
func (s *Store) Record(kind ChangeKind, note string, entries []Entry) (ChangeSet, error) {
	if len(entries) == 0 {
		return ChangeSet{}, fmt.Errorf("change set must contain at least one entry")
	}

	set := ChangeSet{
		ID:         uuid.NewString(),
		Kind:       kind,
		Note:       note,
		CreatedAt:  time.Now().UTC(),
		EntryCount: len(entries),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return ChangeSet{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO change_sets (id, kind, note, created_at) VALUES (?, ?, ?, ?)`,
		set.ID, string(set.Kind), set.Note, set.CreatedAt.Format(time.RFC3339),
	); err != nil {
		return ChangeSet{}, fmt.Errorf("insert change set: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO change_entries
		(set_id, task_id, task_name, old_start, old_end, new_start, new_end, delta_days, direct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return ChangeSet{}, fmt.Errorf("prepare entry insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range entries {
		direct := 0
		if e.Direct {
			direct = 1
		}
		if _, err := stmt.Exec(
			set.ID, e.TaskID, e.TaskName,
			e.OldStart.String(), e.OldEnd.String(),
			e.NewStart.String(), e.NewEnd.String(),
			e.DeltaDays, direct,
		); err != nil {
			return ChangeSet{}, fmt.Errorf("insert entry for task %s: %w", e.TaskID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ChangeSet{}, fmt.Errorf("commit change set: %w", err)
	}
	return set, nil
}

// List returns the most recent change sets, newest first. A limit of zero
// or less returns everything.
func (s *Store) List(limit int) ([]ChangeSet, error) {
	query := `
		SELECT cs.id, cs.kind, COALESCE(cs.note, ''), cs.created_at, COUNT(ce.id)
		FROM change_sets cs
		LEFT JOIN change_entries ce ON ce.set_id = cs.id
		GROUP BY cs.id
		ORDER BY cs.created_at DESC, cs.id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query change sets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sets []ChangeSet
	for rows.Next() {
		var set ChangeSet
		var kind, createdAt string
		if err := rows.Scan(&set.ID, &kind, &set.Note, &createdAt, &set.EntryCount); err != nil {
			return nil, fmt.Errorf("scan change set: %w", err)
		}
		set.Kind = ChangeKind(kind)
		if set.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

// Entries returns the per-task changes of one set, ordered by old start date.
func (s *Store) Entries(setID string) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT task_id, task_name, old_start, old_end, new_start, new_end, delta_days, direct
		FROM change_entries
		WHERE set_id = ?
		ORDER BY old_start, task_id`, setID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var oldStart, oldEnd, newStart, newEnd string
		var direct int
		if err := rows.Scan(&e.TaskID, &e.TaskName, &oldStart, &oldEnd, &newStart, &newEnd, &e.DeltaDays, &direct); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if e.OldStart, err = models.ParseDate(oldStart); err != nil {
			return nil, fmt.Errorf("parse old_start: %w", err)
		}
		if e.OldEnd, err = models.ParseDate(oldEnd); err != nil {
			return nil, fmt.Errorf("parse old_end: %w", err)
		}
		if e.NewStart, err = models.ParseDate(newStart); err != nil {
			return nil, fmt.Errorf("parse new_start: %w", err)
		}
		if e.NewEnd, err = models.ParseDate(newEnd); err != nil {
			return nil, fmt.Errorf("parse new_end: %w", err)
		}
		e.Direct = direct != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Purge deletes all but the newest keep change sets. Entries follow their
// set via the foreign key cascade. Returns the number of sets removed.
func (s *Store) Purge(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.Exec(`
		DELETE FROM change_sets WHERE id NOT IN (
			SELECT id FROM change_sets ORDER BY created_at DESC, id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("purge change sets: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
