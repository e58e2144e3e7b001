package deck

import (
	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/schema"
	"github.com/rcliao/simdeck/internal/units"
)

// Item is one named value slot of a record. Values are appended together with
// their default-applied flag, so both sequences always have the same length.
type Item struct {
	name      string
	typ       schema.ItemType
	ints      []int
	dbls      []float64
	strs      []string
	defaulted []bool

	active []units.Dimension
	def    []units.Dimension
	si     []float64
}

// NewItem returns an empty item of the given type.
func NewItem(name string, typ schema.ItemType) *Item {
	return &Item{name: name, typ: typ}
}

func (it *Item) Name() string { return it.name }
func (it *Item) Type() schema.ItemType { return it.typ }
func (it *Item) Size() int { return len(it.defaulted) }
func (it *Item) HasValue(i int) bool { return i >= 0 && i < len(it.defaulted) }
func (it *Item) Dimensions() int { return len(it.active) }

// AppendInt appends an integer value.
func (it *Item) AppendInt(v int, defaulted bool) {
	it.ints = append(it.ints, v)
	it.defaulted = append(it.defaulted, defaulted)
}

// AppendDouble appends a floating point value.
func (it *Item) AppendDouble(v float64, defaulted bool) {
	it.dbls = append(it.dbls, v)
	it.defaulted = append(it.defaulted, defaulted)
	it.si = nil
}

// AppendString appends a string value.
func (it *Item) AppendString(v string, defaulted bool) {
	it.strs = append(it.strs, v)
	it.defaulted = append(it.defaulted, defaulted)
}

// DefaultApplied reports whether position i holds the schema default.
// Positions past the end count as defaulted.
func (it *Item) DefaultApplied(i int) bool {
	if !it.HasValue(i) {
		return true
	}
	return it.defaulted[i]
}

// AllDefaulted reports whether every value of the item is a default.
func (it *Item) AllDefaulted() bool {
	for _, d := range it.defaulted {
		if !d {
			return false
		}
	}
	return true
}

func (it *Item) check(i int, typ schema.ItemType) error {
	if it.typ != typ && !(typ == schema.String && it.typ == schema.RawString) {
		return diag.Format(diag.Schema, diag.CodeTypeMismatch,
			"item %s holds %s values, not %s", it.name, it.typ, typ)
	}
	if !it.HasValue(i) {
		return diag.Format(diag.Schema, diag.CodeMissingItem,
			"item %s has no value at position %d", it.name, i)
	}
	return nil
}

// Int returns the integer at position i.
func (it *Item) Int(i int) (int, error) {
	if err := it.check(i, schema.Int); err != nil {
		return 0, err
	}
	return it.ints[i], nil
}

// Double returns the raw (deck unit) value at position i.
func (it *Item) Double(i int) (float64, error) {
	if err := it.check(i, schema.Double); err != nil {
		return 0, err
	}
	return it.dbls[i], nil
}

// String returns the string at position i.
func (it *Item) String(i int) (string, error) {
	if err := it.check(i, schema.String); err != nil {
		return "", err
	}
	return it.strs[i], nil
}

func (it *Item) Ints() []int { return it.ints }
func (it *Item) Doubles() []float64 { return it.dbls }
func (it *Item) Strings() []string { return it.strs }

// PushDimension adds the dimension pair for the next value position. Items
// with several dimensions cycle through them, one per value.
func (it *Item) PushDimension(active, def units.Dimension) {
	it.active = append(it.active, active)
	it.def = append(it.def, def)
	it.si = nil
}

// SI returns the value at position i converted to SI units.
func (it *Item) SI(i int) (float64, error) {
	data, err := it.SIData()
	if err != nil {
		return 0, err
	}
	if !it.HasValue(i) {
		return 0, diag.Format(diag.Schema, diag.CodeMissingItem,
			"item %s has no value at position %d", it.name, i)
	}
	return data[i], nil
}

// SIData returns all values in SI units. The conversion runs once; defaulted
// values go through the default unit system.
func (it *Item) SIData() ([]float64, error) {
	if it.typ != schema.Double {
		return nil, diag.Format(diag.Schema, diag.CodeTypeMismatch,
			"item %s holds %s values, not DOUBLE", it.name, it.typ)
	}
	if len(it.active) == 0 {
		return nil, diag.Format(diag.Schema, diag.CodeInvalidValue,
			"item %s has no dimension", it.name)
	}
	if it.si != nil {
		return it.si, nil
	}
	si := make([]float64, len(it.dbls))
	for i, v := range it.dbls {
		d := it.active[i%len(it.active)]
		if it.defaulted[i] {
			d = it.def[i%len(it.def)]
		}
		si[i] = d.ToSI(v)
	}
	it.si = si
	return si, nil
}

// Value returns position i as an any, for rendering.
func (it *Item) Value(i int) any {
	if !it.HasValue(i) {
		return nil
	}
	switch it.typ {
	case schema.Int:
		return it.ints[i]
	case schema.Double:
		return it.dbls[i]
	default:
		return it.strs[i]
	}
}
