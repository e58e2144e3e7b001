package parser

import (
	"strconv"
	"strings"

	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/lexer"
	"github.com/rcliao/simdeck/internal/schema"
)

// slot is one value position after repeat counts are expanded.
type slot struct {
	tok       lexer.Token
	defaulted bool
}

func expand(tokens []lexer.Token) ([]slot, error) {
	slots := make([]slot, 0, len(tokens))
	for _, t := range tokens {
		r, ok, err := lexer.ParseRepeat(t)
		if err != nil {
			return nil, err
		}
		if !ok {
			slots = append(slots, slot{tok: t})
			continue
		}
		for i := 0; i < r.Count; i++ {
			slots = append(slots, slot{tok: r.Value, defaulted: r.Defaulted})
		}
	}
	return slots, nil
}

// parseRecord types the text of one record against rs. Items left without a
// value take their default; items with neither stay empty.
func parseRecord(rs *schema.Record, text string, raw bool) (*deck.Record, error) {
	rec := deck.NewRecord()
	if raw {
		it := deck.NewItem(rs.Items[0].Name, schema.RawString)
		it.AppendString(text, false)
		return rec, rec.Add(it)
	}

	tokens, err := lexer.Tokenize(text)
	if err != nil {
		return nil, err
	}
	slots, err := expand(tokens)
	if err != nil {
		return nil, err
	}

	pos := 0
	for _, is := range rs.Items {
		it := deck.NewItem(is.Name, is.Type)
		switch {
		case is.Cardinality == schema.All:
			for ; pos < len(slots); pos++ {
				if err := push(it, is, slots[pos]); err != nil {
					return nil, err
				}
			}
		case pos < len(slots):
			if err := push(it, is, slots[pos]); err != nil {
				return nil, err
			}
			pos++
		case is.HasDefault:
			pushDefault(it, is)
		}
		if err := rec.Add(it); err != nil {
			return nil, err
		}
	}
	if pos < len(slots) {
		return nil, diag.Format(diag.Schema, diag.CodeTooManyItems,
			"record has %d values, at most %d expected", len(slots), pos)
	}
	return rec, nil
}

func pushDefault(it *deck.Item, is *schema.Item) {
	switch is.Type {
	case schema.Int:
		it.AppendInt(is.IntDefault, true)
	case schema.Double:
		it.AppendDouble(is.DblDefault, true)
	default:
		it.AppendString(is.StrDefault, true)
	}
}

func push(it *deck.Item, is *schema.Item, s slot) error {
	if s.defaulted {
		pushDefault(it, is)
		return nil
	}
	v := s.tok.Value()
	switch is.Type {
	case schema.Int:
		n, err := parseInt(v)
		if err != nil {
			return itemError(is, v, err)
		}
		it.AppendInt(n, false)
	case schema.Double:
		f, err := parseDouble(v)
		if err != nil {
			return itemError(is, v, err)
		}
		it.AppendDouble(f, false)
	default:
		it.AppendString(v, false)
	}
	return nil
}

func parseInt(v string) (int, error) {
	return strconv.Atoi(v)
}

// parseDouble accepts Fortran style exponents (1.5D+3) as well.
func parseDouble(v string) (float64, error) {
	if strings.ContainsAny(v, "dD") {
		v = strings.NewReplacer("d", "e", "D", "E").Replace(v)
	}
	return strconv.ParseFloat(v, 64)
}

// itemError tells a value that looks numeric but is malformed from a value of
// the wrong type altogether.
func itemError(is *schema.Item, v string, err error) error {
	if looksNumeric(v) {
		return diag.Wrap(err, diag.Structural, diag.CodeBadNumber,
			"item %s: malformed number %q", is.Name, v)
	}
	return diag.Format(diag.Schema, diag.CodeTypeMismatch,
		"item %s expects %s, got %q", is.Name, is.Type, v)
}

func looksNumeric(v string) bool {
	if v == "" {
		return false
	}
	c := v[0]
	if c == '+' || c == '-' || c == '.' {
		if len(v) == 1 {
			return false
		}
		c = v[1]
	}
	return c >= '0' && c <= '9' || c == '.'
}
