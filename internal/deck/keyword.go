package deck

import (
	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/schema"
)

// Keyword is one occurrence of a keyword in a deck. Unknown keywords keep
// their raw text but have no records.
type Keyword struct {
	Name string
	File string
	Line int
	// Schema is nil for unknown keywords.
	Schema  *schema.Keyword
	Raw     []string
	records []*Record
}

// NewKeyword returns a keyword occurrence located at file:line.
func NewKeyword(name, file string, line int, sch *schema.Keyword) *Keyword {
	return &Keyword{Name: name, File: file, Line: line, Schema: sch}
}

// Known reports whether the keyword was parsed against a schema.
func (k *Keyword) Known() bool {
	return k.Schema != nil
}

// AddRecord appends a record.
func (k *Keyword) AddRecord(r *Record) {
	k.records = append(k.records, r)
}

func (k *Keyword) Size() int { return len(k.records) }
func (k *Keyword) Records() []*Record { return k.records }

// Record returns record i.
func (k *Keyword) Record(i int) (*Record, error) {
	if i < 0 || i >= len(k.records) {
		return nil, diag.FormatAt(k.File, k.Line, diag.Schema, diag.CodeRecordCount,
			"keyword %s has %d records, no record %d", k.Name, len(k.records), i)
	}
	return k.records[i], nil
}

// Errorf returns a semantic error located at the keyword.
func (k *Keyword) Errorf(code, msg string, params ...any) error {
	return diag.FormatAt(k.File, k.Line, diag.Semantic, code, msg, params...)
}
