package store

import (
	"context"

	"github.com/rcliao/simdeck/internal/model"
)

// GroupEdges returns the group tree in force at step; a negative step
// selects the last stored tree.
func (s *SQLiteStore) GroupEdges(ctx context.Context, runID string, step int) ([]model.GroupEdge, error) {
	runID, err := s.resolveRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	bound := `SELECT MAX(step) FROM group_edges WHERE run_id = ?`
	args := []interface{}{runID, runID}
	if step >= 0 {
		bound += ` AND step <= ?`
		args = append(args, step)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, step, child, parent FROM group_edges
		 WHERE run_id = ? AND step = (`+bound+`)
		 ORDER BY parent, child`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []model.GroupEdge
	for rows.Next() {
		var e model.GroupEdge
		if err := rows.Scan(&e.RunID, &e.Step, &e.Child, &e.Parent); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// Diagnostics returns the messages recorded for a run in order.
func (s *SQLiteStore) Diagnostics(ctx context.Context, runID string) ([]model.Diagnostic, error) {
	runID, err := s.resolveRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, seq, severity, code, text, file, line FROM diagnostics
		 WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Diagnostic
	for rows.Next() {
		var d model.Diagnostic
		if err := rows.Scan(&d.RunID, &d.Seq, &d.Severity, &d.Code, &d.Text, &d.File, &d.Line); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
