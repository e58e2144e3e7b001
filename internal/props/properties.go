// Package props builds the static state of a deck: 3D grid properties with
// their box operations, and the saturation and PVT tables.
package props

import (
	"sort"

	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/grid"
	"github.com/rcliao/simdeck/internal/units"
)

// propertyDef describes a supported 3D property.
type propertyDef struct {
	dimension  string
	isInt      bool
	hasDefault bool
	def        float64
}

var propertyDefs = map[string]propertyDef{
	"PORO":   {dimension: "1"},
	"NTG":    {dimension: "1", hasDefault: true, def: 1},
	"PERMX":  {dimension: "Permeability"},
	"PERMY":  {dimension: "Permeability"},
	"PERMZ":  {dimension: "Permeability"},
	"DX":     {dimension: "Length"},
	"DY":     {dimension: "Length"},
	"DZ":     {dimension: "Length"},
	"ACTNUM": {isInt: true, hasDefault: true, def: 1},
	"SATNUM": {isInt: true, hasDefault: true, def: 1},
	"PVTNUM": {isInt: true, hasDefault: true, def: 1},
	"EQLNUM": {isInt: true, hasDefault: true, def: 1},
	"FIPNUM": {isInt: true, hasDefault: true, def: 1},
}

// Supported reports whether name is a known 3D property.
func Supported(name string) bool {
	_, ok := propertyDefs[name]
	return ok
}

// Property is one value per cell, in SI units. Cells never assigned keep the
// property default and are flagged in Assigned.
type Property struct {
	Name      string
	Dimension string
	IsInt     bool
	Values    []float64
	Assigned  []bool
}

// Ints returns the values of an integer property.
func (p *Property) Ints() []int {
	out := make([]int, len(p.Values))
	for i, v := range p.Values {
		out[i] = int(v)
	}
	return out
}

// Complete reports whether every cell has a value.
func (p *Property) Complete() bool {
	for _, a := range p.Assigned {
		if !a {
			return false
		}
	}
	return true
}

// Properties holds the 3D properties of a deck by name.
type Properties struct {
	dims  grid.Dims
	units *units.UnitSystem
	props map[string]*Property
}

func newProperties(dims grid.Dims, u *units.UnitSystem) *Properties {
	return &Properties{dims: dims, units: u, props: make(map[string]*Property)}
}

// Get returns the property called name.
func (ps *Properties) Get(name string) (*Property, bool) {
	p, ok := ps.props[name]
	return p, ok
}

// Names returns the names of the properties present, sorted.
func (ps *Properties) Names() []string {
	out := make([]string, 0, len(ps.props))
	for n := range ps.props {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// property returns name, creating it with its default on first use.
func (ps *Properties) property(name string) (*Property, error) {
	if p, ok := ps.props[name]; ok {
		return p, nil
	}
	def, ok := propertyDefs[name]
	if !ok {
		return nil, diag.Format(diag.Semantic, diag.CodeInvalidValue, "unsupported grid property %s", name)
	}
	n := ps.dims.Size()
	p := &Property{Name: name, Dimension: def.dimension, IsInt: def.isInt,
		Values: make([]float64, n), Assigned: make([]bool, n)}
	if def.hasDefault {
		for i := range p.Values {
			p.Values[i] = def.def
		}
	}
	ps.props[name] = p
	return p, nil
}

func (ps *Properties) toSI(p *Property, raw float64) (float64, error) {
	if p.IsInt || p.Dimension == "" {
		return raw, nil
	}
	return ps.units.ToSI(p.Dimension, raw)
}

// scale returns the factor of the property dimension without its offset, for
// shifting values by a raw amount.
func (ps *Properties) scale(p *Property) (float64, error) {
	if p.IsInt || p.Dimension == "" {
		return 1, nil
	}
	d, err := ps.units.Dimension(p.Dimension)
	if err != nil {
		return 0, err
	}
	return d.Scale, nil
}

// assign stores per-cell values for the cells of box, in box order.
func (ps *Properties) assign(p *Property, b Box, values []float64) error {
	if len(values) != b.Size() {
		return diag.Format(diag.Semantic, diag.CodeInvalidValue,
			"%s has %d values, the box holds %d cells", p.Name, len(values), b.Size())
	}
	n := 0
	b.each(ps.dims, func(g int) {
		p.Values[g] = values[n]
		p.Assigned[g] = true
		n++
	})
	return nil
}

// apply runs fn over every cell of box.
func (ps *Properties) apply(p *Property, b Box, fn func(g int)) {
	b.each(ps.dims, func(g int) {
		fn(g)
		p.Assigned[g] = true
	})
}

// arrayFromKeyword stores the data item of an array keyword.
func (ps *Properties) arrayFromKeyword(k *deck.Keyword, b Box) error {
	p, err := ps.property(k.Name)
	if err != nil {
		return diag.Locate(err, k.File, k.Line)
	}
	r, err := k.Record(0)
	if err != nil {
		return err
	}
	it, err := r.Item("data")
	if err != nil {
		return diag.Locate(err, k.File, k.Line)
	}
	var values []float64
	if p.IsInt {
		for _, v := range it.Ints() {
			values = append(values, float64(v))
		}
	} else if values, err = it.SIData(); err != nil {
		return diag.Locate(err, k.File, k.Line)
	}
	return diag.Locate(ps.assign(p, b, values), k.File, k.Line)
}
