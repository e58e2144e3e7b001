package store

import (
	"context"
	"strings"
	"unicode"

	"github.com/rcliao/simdeck/internal/model"
)

// SearchParams holds parameters for searching stored keywords.
type SearchParams struct {
	RunID   string // empty searches every live run
	Query   string
	Keyword string
	Limit   int
}

// SearchResult wraps a keyword with the run it belongs to.
type SearchResult struct {
	model.KeywordEntry
	Path    string `json:"path"`
	Snippet string `json:"snippet"`
}

// Search finds keywords whose name or text match the query, best match first.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]SearchResult, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	phrase := ftsPhrase(p.Query)
	if phrase == "" {
		return nil, nil
	}

	where := []string{"keywords_fts MATCH ?", "r.deleted_at IS NULL"}
	args := []interface{}{phrase}
	if p.RunID != "" {
		where = append(where, "k.run_id = ?")
		args = append(args, p.RunID)
	}
	if p.Keyword != "" {
		where = append(where, "k.name = ?")
		args = append(args, strings.ToUpper(p.Keyword))
	}

	query := `
		SELECT k.id, k.run_id, k.seq, k.name, k.section, k.file, k.line, k.records, k.known, k.text,
		       r.path, snippet(keywords_fts, 1, '[', ']', '...', 12)
		FROM keywords_fts
		JOIN keywords k ON k.rowid = keywords_fts.rowid
		JOIN runs r ON r.id = k.run_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY bm25(keywords_fts), k.run_id DESC, k.seq
		LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		err := rows.Scan(&r.ID, &r.RunID, &r.Seq, &r.Name, &r.Section, &r.File, &r.Line,
			&r.Records, &r.Known, &r.Text, &r.Path, &r.Snippet)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ftsPhrase quotes each term of q so deck punctuation such as quotes and
// slashes is not read as FTS5 query syntax.
// Terms without a letter or digit match nothing and are dropped.
func ftsPhrase(q string) string {
	var terms []string
	for _, t := range strings.Fields(q) {
		if strings.IndexFunc(t, isWordRune) < 0 {
			continue
		}
		terms = append(terms, `"`+strings.ReplaceAll(t, `"`, `""`)+`"`)
	}
	return strings.Join(terms, " ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Keywords returns the stored keywords of a run in deck order, optionally
// only those named name.
func (s *SQLiteStore) Keywords(ctx context.Context, runID, name string) ([]model.KeywordEntry, error) {
	runID, err := s.resolveRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, run_id, seq, name, section, file, line, records, known, text
	          FROM keywords WHERE run_id = ?`
	args := []interface{}{runID}
	if name != "" {
		query += ` AND name = ?`
		args = append(args, strings.ToUpper(name))
	}
	query += ` ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.KeywordEntry
	for rows.Next() {
		var k model.KeywordEntry
		if err := rows.Scan(&k.ID, &k.RunID, &k.Seq, &k.Name, &k.Section, &k.File, &k.Line,
			&k.Records, &k.Known, &k.Text); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}
