package store

import (
	"context"

	"github.com/rcliao/simdeck/internal/model"
)

// RunExport is everything stored for one run.
type RunExport struct {
	Run         model.Run            `json:"run"`
	Keywords    []model.KeywordEntry `json:"keywords"`
	Wells       []model.WellState    `json:"wells"`
	GroupEdges  []model.GroupEdge    `json:"group_edges"`
	Diagnostics []model.Diagnostic   `json:"diagnostics"`
}

// ExportRun collects a run with all of its rows; an empty id selects the
// latest run.
func (s *SQLiteStore) ExportRun(ctx context.Context, runID string) (*RunExport, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	out := &RunExport{Run: *run}

	if out.Keywords, err = s.Keywords(ctx, run.ID, ""); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, well, version, step, supersedes, state FROM well_states
		 WHERE run_id = ? ORDER BY well, version`, run.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		ws, err := scanWellState(rows)
		if err != nil {
			return nil, err
		}
		out.Wells = append(out.Wells, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	edges, err := s.db.QueryContext(ctx,
		`SELECT run_id, step, child, parent FROM group_edges WHERE run_id = ? ORDER BY step, parent, child`, run.ID)
	if err != nil {
		return nil, err
	}
	defer edges.Close()
	for edges.Next() {
		var e model.GroupEdge
		if err := edges.Scan(&e.RunID, &e.Step, &e.Child, &e.Parent); err != nil {
			return nil, err
		}
		out.GroupEdges = append(out.GroupEdges, e)
	}

	if out.Diagnostics, err = s.Diagnostics(ctx, run.ID); err != nil {
		return nil, err
	}
	return out, nil
}
