package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *ulid.MonotonicEntropy
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// newID returns ids that sort in creation order, also within a millisecond.
func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		path        TEXT NOT NULL,
		checksum    TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL,
		error       TEXT,
		keywords    INTEGER NOT NULL DEFAULT 0,
		steps       INTEGER NOT NULL DEFAULT 0,
		wells       INTEGER NOT NULL DEFAULT 0,
		warnings    INTEGER NOT NULL DEFAULT 0,
		start       TEXT,
		created_at  TEXT NOT NULL,
		deleted_at  TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_path ON runs(path);
	CREATE INDEX IF NOT EXISTS idx_runs_deleted ON runs(deleted_at);

	CREATE TABLE IF NOT EXISTS keywords (
		id       TEXT PRIMARY KEY,
		run_id   TEXT NOT NULL REFERENCES runs(id),
		seq      INTEGER NOT NULL,
		name     TEXT NOT NULL,
		section  TEXT,
		file     TEXT,
		line     INTEGER,
		records  INTEGER NOT NULL DEFAULT 0,
		known    INTEGER NOT NULL DEFAULT 1,
		text     TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_keywords_run ON keywords(run_id, seq);
	CREATE INDEX IF NOT EXISTS idx_keywords_name ON keywords(run_id, name);

	CREATE TABLE IF NOT EXISTS well_states (
		id          TEXT PRIMARY KEY,
		run_id      TEXT NOT NULL REFERENCES runs(id),
		well        TEXT NOT NULL,
		version     INTEGER NOT NULL,
		step        INTEGER NOT NULL,
		supersedes  TEXT,
		state       TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_well_states_run_well ON well_states(run_id, well, step);

	CREATE TABLE IF NOT EXISTS group_edges (
		run_id  TEXT NOT NULL REFERENCES runs(id),
		step    INTEGER NOT NULL,
		child   TEXT NOT NULL,
		parent  TEXT NOT NULL,
		PRIMARY KEY (run_id, step, child)
	);

	CREATE TABLE IF NOT EXISTS diagnostics (
		run_id    TEXT NOT NULL REFERENCES runs(id),
		seq       INTEGER NOT NULL,
		severity  TEXT NOT NULL,
		code      TEXT NOT NULL,
		text      TEXT NOT NULL,
		file      TEXT,
		line      INTEGER,
		PRIMARY KEY (run_id, seq)
	);

	CREATE VIRTUAL TABLE IF NOT EXISTS keywords_fts USING fts5(
		name,
		text,
		content=keywords,
		content_rowid=rowid
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// FTS5 triggers for automatic sync
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS keywords_ai AFTER INSERT ON keywords BEGIN
			INSERT INTO keywords_fts(rowid, name, text) VALUES (new.rowid, new.name, new.text);
		END`,
		`CREATE TRIGGER IF NOT EXISTS keywords_ad AFTER DELETE ON keywords BEGIN
			INSERT INTO keywords_fts(keywords_fts, rowid, name, text) VALUES('delete', old.rowid, old.name, old.text);
		END`,
	}
	for _, t := range triggers {
		if _, err := s.db.Exec(t); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun stores the run and the rows derived from its deck and schedule in
// one transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, p RunParams) (*model.Run, error) {
	now := time.Now().UTC()
	run := &model.Run{
		ID:        s.newID(),
		Path:      p.Path,
		Checksum:  p.Checksum,
		Status:    model.RunOK,
		CreatedAt: now,
	}
	if p.Err != nil {
		run.Status = model.RunFailed
		run.Error = p.Err.Error()
	}
	if p.Deck != nil {
		run.Keywords = p.Deck.Size()
	}
	if p.Schedule != nil {
		run.Steps = p.Schedule.Size()
		run.Wells = len(p.Schedule.WellNames())
		if t, err := p.Schedule.TimeMap().StartTime(0); err == nil {
			run.Start = &t
		}
	}
	var msgs []diag.Message
	if p.Messages != nil {
		msgs = p.Messages.All()
	}
	for _, m := range msgs {
		if m.Severity >= diag.SeverityWarning {
			run.Warnings++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var start *string
	if run.Start != nil {
		v := run.Start.Format(time.RFC3339)
		start = &v
	}
	var errText *string
	if run.Error != "" {
		errText = &run.Error
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, path, checksum, status, error, keywords, steps, wells, warnings, start, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Path, run.Checksum, run.Status, errText, run.Keywords, run.Steps,
		run.Wells, run.Warnings, start, now.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	if p.Deck != nil {
		for _, k := range keywordEntries(p.Deck) {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO keywords (id, run_id, seq, name, section, file, line, records, known, text)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				s.newID(), run.ID, k.Seq, k.Name, k.Section, k.File, k.Line, k.Records, k.Known, k.Text)
			if err != nil {
				return nil, fmt.Errorf("insert keyword %s: %w", k.Name, err)
			}
		}
	}

	if p.Schedule != nil {
		prevID := map[string]string{}
		for _, ws := range wellStates(p.Schedule) {
			b, err := json.Marshal(ws.State)
			if err != nil {
				return nil, err
			}
			ws.ID = s.newID()
			var supersedes *string
			if prev, ok := prevID[ws.Well]; ok {
				supersedes = &prev
			}
			prevID[ws.Well] = ws.ID
			_, err = tx.ExecContext(ctx,
				`INSERT INTO well_states (id, run_id, well, version, step, supersedes, state)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				ws.ID, run.ID, ws.Well, ws.Version, ws.Step, supersedes, string(b))
			if err != nil {
				return nil, fmt.Errorf("insert well state %s: %w", ws.Well, err)
			}
		}
		for _, e := range groupEdges(p.Schedule) {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO group_edges (run_id, step, child, parent) VALUES (?, ?, ?, ?)`,
				run.ID, e.Step, e.Child, e.Parent)
			if err != nil {
				return nil, fmt.Errorf("insert group edge: %w", err)
			}
		}
	}

	for i, m := range msgs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO diagnostics (run_id, seq, severity, code, text, file, line)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, m.Severity.String(), m.Code, m.Text, m.File, m.Line)
		if err != nil {
			return nil, fmt.Errorf("insert diagnostic: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return run, nil
}

const runColumns = `id, path, checksum, status, error, keywords, steps, wells, warnings, start, created_at, deleted_at`

func (s *SQLiteStore) ListRuns(ctx context.Context, p ListParams) ([]model.Run, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + runColumns + ` FROM runs WHERE deleted_at IS NULL`
	var args []interface{}
	if p.Path != "" {
		query += ` AND path = ?`
		args = append(args, p.Path)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns a run by id; an empty id selects the latest run.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	id, err := s.resolveRunID(ctx, id)
	if err != nil {
		return nil, err
	}
	r, err := scanRun(s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// resolveRunID checks that id names a live run, or finds the latest one
// when id is empty.
func (s *SQLiteStore) resolveRunID(ctx context.Context, id string) (string, error) {
	var err error
	if id == "" {
		err = s.db.QueryRowContext(ctx,
			`SELECT id FROM runs WHERE deleted_at IS NULL ORDER BY id DESC LIMIT 1`).Scan(&id)
		if err != nil {
			return "", fmt.Errorf("no runs stored")
		}
		return id, nil
	}
	var found string
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM runs WHERE id = ? AND deleted_at IS NULL`, id).Scan(&found)
	if err != nil {
		return "", fmt.Errorf("run not found: %s", id)
	}
	return found, nil
}

func (s *SQLiteStore) WellHistory(ctx context.Context, p WellParams) ([]model.WellState, error) {
	runID, err := s.resolveRunID(ctx, p.RunID)
	if err != nil {
		return nil, err
	}

	const cols = `id, run_id, well, version, step, supersedes, state`
	var query string
	args := []interface{}{runID, p.Well}
	switch {
	case p.History:
		query = `SELECT ` + cols + ` FROM well_states WHERE run_id = ? AND well = ? ORDER BY version DESC`
	case p.Step >= 0:
		query = `SELECT ` + cols + ` FROM well_states WHERE run_id = ? AND well = ? AND step <= ?
				 ORDER BY version DESC LIMIT 1`
		args = append(args, p.Step)
	default:
		query = `SELECT ` + cols + ` FROM well_states WHERE run_id = ? AND well = ? ORDER BY version DESC LIMIT 1`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var states []model.WellState
	for rows.Next() {
		ws, err := scanWellState(rows)
		if err != nil {
			return nil, err
		}
		states = append(states, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(states) == 0 {
		return nil, fmt.Errorf("well not found: %s (run %s)", p.Well, runID)
	}
	return states, nil
}

func (s *SQLiteStore) DeleteRun(ctx context.Context, p DeleteParams) error {
	id, err := s.resolveRunID(ctx, p.RunID)
	if err != nil {
		return err
	}
	if !p.Hard {
		_, err := s.db.ExecContext(ctx, `UPDATE runs SET deleted_at = ? WHERE id = ?`,
			time.Now().UTC().Format(time.RFC3339Nano), id)
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	// Children first, foreign keys are on.
	for _, table := range []string{"keywords", "well_states", "group_edges", "diagnostics"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE run_id = ?`, id); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (model.Run, error) {
	var r model.Run
	var errText, start, deletedAt sql.NullString
	var createdAt string

	err := row.Scan(
		&r.ID, &r.Path, &r.Checksum, &r.Status, &errText, &r.Keywords,
		&r.Steps, &r.Wells, &r.Warnings, &start, &createdAt, &deletedAt,
	)
	if err != nil {
		return r, err
	}

	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if errText.Valid {
		r.Error = errText.String
	}
	if start.Valid {
		t, _ := time.Parse(time.RFC3339, start.String)
		r.Start = &t
	}
	if deletedAt.Valid {
		t, _ := time.Parse(time.RFC3339Nano, deletedAt.String)
		r.DeletedAt = &t
	}
	return r, nil
}

func scanWellState(row scanner) (model.WellState, error) {
	var ws model.WellState
	var supersedes sql.NullString
	var state string

	err := row.Scan(&ws.ID, &ws.RunID, &ws.Well, &ws.Version, &ws.Step, &supersedes, &state)
	if err != nil {
		return ws, err
	}
	if supersedes.Valid {
		ws.Supersedes = supersedes.String
	}
	if err := json.Unmarshal([]byte(state), &ws.State); err != nil {
		return ws, fmt.Errorf("decode state of %s: %w", ws.Well, err)
	}
	return ws, nil
}
