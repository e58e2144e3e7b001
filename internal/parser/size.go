package parser

import (
	"log/slog"

	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/schema"
)

// resolveSize returns the record count of a keyword sized by another
// keyword's item. The sizing keyword is looked up in the deck parsed so far;
// when it has not been seen yet the item default of its schema is used, even
// if the sizing keyword turns up later in the file.
func (s *state) resolveSize(sch *schema.Keyword) (int, error) {
	if k, ok := s.deck.Last(sch.SizeKeyword); ok && k.Size() > 0 {
		r, _ := k.Record(0)
		it, err := r.Item(sch.SizeItem)
		if err != nil {
			return 0, err
		}
		if it.Size() > 0 {
			n, err := it.Int(0)
			if err != nil {
				return 0, err
			}
			return n + sch.SizeShift, nil
		}
	}

	sizer, ok := s.p.reg.Lookup(sch.SizeKeyword)
	if !ok {
		return 0, diag.Format(diag.Schema, diag.CodeBadSchema,
			"keyword %s is sized by unknown keyword %s", sch.Name, sch.SizeKeyword)
	}
	is, ok := sizer.Record(0).Item(sch.SizeItem)
	if !ok || !is.HasDefault || is.Type != schema.Int {
		return 0, diag.Format(diag.Schema, diag.CodeBadSchema,
			"keyword %s is sized by %s.%s which has no integer default", sch.Name, sch.SizeKeyword, sch.SizeItem)
	}
	s.p.log.Log(slog.LevelDebug, "size keyword not seen, using default",
		slog.String("keyword", sch.Name),
		slog.String("size_keyword", sch.SizeKeyword),
		slog.Int("default", is.IntDefault))
	return is.IntDefault + sch.SizeShift, nil
}
