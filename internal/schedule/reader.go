package schedule

import (
	"strings"

	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/units"
)

// recordReader reads items of one record and keeps the first error, so a
// handler can read every item it needs and check once.
type recordReader struct {
	r     *deck.Record
	units *units.UnitSystem
	err   error
}

func newReader(r *deck.Record, u *units.UnitSystem) *recordReader {
	return &recordReader{r: r, units: u}
}

func (rr *recordReader) item(name string) *deck.Item {
	if rr.err != nil {
		return nil
	}
	it, err := rr.r.Item(name)
	if err != nil {
		rr.err = err
		return nil
	}
	return it
}

// given reports whether the record holds an explicit value for name.
func (rr *recordReader) given(name string) bool {
	it, err := rr.r.Item(name)
	return err == nil && !it.DefaultApplied(0)
}

// has reports whether name holds a value, explicit or default.
func (rr *recordReader) has(name string) bool {
	it, err := rr.r.Item(name)
	return err == nil && it.HasValue(0)
}

func (rr *recordReader) str(name string) string {
	it := rr.item(name)
	if it == nil {
		return ""
	}
	s, err := it.String(0)
	if err != nil {
		rr.err = err
	}
	return s
}

func (rr *recordReader) int(name string) int {
	it := rr.item(name)
	if it == nil {
		return 0
	}
	v, err := it.Int(0)
	if err != nil {
		rr.err = err
	}
	return v
}

// double returns the raw value of an item without dimension.
func (rr *recordReader) double(name string) float64 {
	it := rr.item(name)
	if it == nil {
		return 0
	}
	v, err := it.Double(0)
	if err != nil {
		rr.err = err
	}
	return v
}

// si returns the SI value of a dimensioned item.
func (rr *recordReader) si(name string) float64 {
	it := rr.item(name)
	if it == nil {
		return 0
	}
	v, err := it.SI(0)
	if err != nil {
		rr.err = err
	}
	return v
}

// siAs converts the raw value of name through dimension dim of the active
// unit system. Items whose dimension depends on a sibling value go through
// here.
func (rr *recordReader) siAs(name, dim string) float64 {
	raw := rr.double(name)
	if rr.err != nil {
		return 0
	}
	v, err := rr.units.ToSI(dim, raw)
	if err != nil {
		rr.err = err
	}
	return v
}

// valueSI returns the SI value of name when it carries a dimension and the
// raw value otherwise.
func (rr *recordReader) valueSI(name string) float64 {
	it := rr.item(name)
	if it == nil {
		return 0
	}
	if it.Dimensions() == 0 {
		return rr.double(name)
	}
	return rr.si(name)
}

// optStr returns the string value of name, or "" when it has none.
func (rr *recordReader) optStr(name string) string {
	if !rr.has(name) {
		return ""
	}
	return rr.str(name)
}

// yes reads a YES/NO item.
func (rr *recordReader) yes(name string) bool {
	return strings.EqualFold(rr.str(name), "YES")
}

// index returns the zero based cell index of a one based item, or -1 when
// the item is defaulted or not positive.
func (rr *recordReader) index(name string) int {
	if !rr.given(name) {
		return -1
	}
	v := rr.int(name)
	if v <= 0 {
		return -1
	}
	return v - 1
}
