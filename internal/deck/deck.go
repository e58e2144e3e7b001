// Package deck holds parsed keyword occurrences in file order, with name
// lookup, section views and the unit systems the values are expressed in.
package deck

import (
	"path/filepath"

	"github.com/rcliao/simdeck/internal/units"
)

// Deck is the ordered collection of keywords of one input file with its
// includes inlined.
type Deck struct {
	keywords []*Keyword
	index    map[string][]int
	def      *units.UnitSystem
	active   *units.UnitSystem
	path     string
}

// New returns an empty deck in METRIC units.
func New() *Deck {
	return &Deck{
		index:  make(map[string][]int),
		def:    units.New(units.Metric),
		active: units.New(units.Metric),
	}
}

// SetPath records the root input file.
func (d *Deck) SetPath(p string) { d.path = p }

// Path returns the root input file, or "" for decks parsed from a string.
func (d *Deck) Path() string { return d.path }

// Dir returns the directory of the root input file.
func (d *Deck) Dir() string {
	if d.path == "" {
		return "."
	}
	return filepath.Dir(d.path)
}

// Add appends a keyword.
func (d *Deck) Add(k *Keyword) {
	d.index[k.Name] = append(d.index[k.Name], len(d.keywords))
	d.keywords = append(d.keywords, k)
}

func (d *Deck) Size() int            { return len(d.keywords) }
func (d *Deck) Keywords() []*Keyword { return d.keywords }

// Has reports whether at least one keyword called name is present.
func (d *Deck) Has(name string) bool {
	return len(d.index[name]) > 0
}

// Count returns the number of occurrences of name.
func (d *Deck) Count(name string) int {
	return len(d.index[name])
}

// Get returns every occurrence of name in file order.
func (d *Deck) Get(name string) []*Keyword {
	idx := d.index[name]
	out := make([]*Keyword, len(idx))
	for i, pos := range idx {
		out[i] = d.keywords[pos]
	}
	return out
}

// Last returns the last occurrence of name.
func (d *Deck) Last(name string) (*Keyword, bool) {
	idx := d.index[name]
	if len(idx) == 0 {
		return nil, false
	}
	return d.keywords[idx[len(idx)-1]], true
}

// At returns the keyword at position i, or nil when i is out of range.
func (d *Deck) At(i int) *Keyword {
	if i < 0 || i >= len(d.keywords) {
		return nil
	}
	return d.keywords[i]
}

// Index returns the positions of name in file order.
func (d *Deck) Index(name string) []int {
	return d.index[name]
}

// DefaultUnits is the system schema defaults are expressed in.
func (d *Deck) DefaultUnits() *units.UnitSystem { return d.def }

// ActiveUnits is the system deck values are expressed in.
func (d *Deck) ActiveUnits() *units.UnitSystem { return d.active }
