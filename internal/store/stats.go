package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath      string      `json:"db_path"`
	DBSizeBytes int64       `json:"db_size_bytes"`
	TotalRuns   int         `json:"total_runs"`
	ActiveRuns  int         `json:"active_runs"`
	FailedRuns  int         `json:"failed_runs"`
	Keywords    int         `json:"keywords"`
	WellStates  int         `json:"well_states"`
	Diagnostics int         `json:"diagnostics"`
	Decks       []DeckStats `json:"decks"`
}

// DeckStats holds per-deck counts.
type DeckStats struct {
	Path string `json:"path"`
	Runs int    `json:"runs"`
	Last string `json:"last_run"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&st.TotalRuns)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE deleted_at IS NULL`).Scan(&st.ActiveRuns)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE deleted_at IS NULL AND status = 'failed'`).Scan(&st.FailedRuns)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM keywords`).Scan(&st.Keywords)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM well_states`).Scan(&st.WellStates)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM diagnostics`).Scan(&st.Diagnostics)

	rows, err := s.db.QueryContext(ctx, `
		SELECT path, COUNT(*) AS cnt, MAX(id) AS last
		FROM runs WHERE deleted_at IS NULL
		GROUP BY path ORDER BY cnt DESC, path`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var d DeckStats
		rows.Scan(&d.Path, &d.Runs, &d.Last)
		st.Decks = append(st.Decks, d)
	}

	return st, nil
}
