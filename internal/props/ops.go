package props

import (
	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/grid"
	"github.com/rcliao/simdeck/internal/units"
)

// propertySections are walked in order when properties are built.
var propertySections = []string{deck.Grid, deck.Edit, deck.Props, deck.Regions, deck.Solution}

type opFunc func(ps *Properties, k *deck.Keyword, r *deck.Record, b Box) error

var operations = map[string]opFunc{
	"EQUALS":   equals,
	"MULTIPLY": multiply,
	"ADD":      add,
	"COPY":     copyProperty,
}

// BuildProperties applies the array keywords and box operations of the
// property sections in file order.
func BuildProperties(d *deck.Deck, dims grid.Dims) (*Properties, error) {
	ps := newProperties(dims, d.ActiveUnits())
	for _, name := range propertySections {
		sec, ok := d.Section(name)
		if !ok {
			continue
		}
		if err := ps.applySection(sec, dims); err != nil {
			return nil, err
		}
	}
	return ps, nil
}

func (ps *Properties) applySection(sec *deck.Section, dims grid.Dims) error {
	full := FullBox(dims)
	box := full
	for _, k := range sec.Keywords() {
		switch {
		case k.Name == "BOX":
			r, err := k.Record(0)
			if err != nil {
				return err
			}
			b, err := boxFromRecord(r, full, dims)
			if err != nil {
				return diag.Locate(err, k.File, k.Line)
			}
			box = b
		case k.Name == "ENDBOX":
			box = full
		case operations[k.Name] != nil:
			for _, r := range k.Records() {
				b, err := boxFromRecord(r, box, dims)
				if err != nil {
					return diag.Locate(err, k.File, k.Line)
				}
				if err := operations[k.Name](ps, k, r, b); err != nil {
					return diag.Locate(err, k.File, k.Line)
				}
			}
		case Supported(k.Name) && k.Known():
			if err := ps.arrayFromKeyword(k, box); err != nil {
				return err
			}
		}
	}
	return nil
}

func stringItem(r *deck.Record, name string) (string, error) {
	it, err := r.Item(name)
	if err != nil {
		return "", err
	}
	return it.String(0)
}

func doubleItem(r *deck.Record, name string) (float64, error) {
	it, err := r.Item(name)
	if err != nil {
		return 0, err
	}
	return it.Double(0)
}

func equals(ps *Properties, _ *deck.Keyword, r *deck.Record, b Box) error {
	name, err := stringItem(r, "field")
	if err != nil {
		return err
	}
	raw, err := doubleItem(r, "value")
	if err != nil {
		return err
	}
	p, err := ps.property(name)
	if err != nil {
		return err
	}
	v, err := ps.toSI(p, raw)
	if err != nil {
		return err
	}
	ps.apply(p, b, func(g int) { p.Values[g] = v })
	return nil
}

func multiply(ps *Properties, _ *deck.Keyword, r *deck.Record, b Box) error {
	name, err := stringItem(r, "field")
	if err != nil {
		return err
	}
	factor, err := doubleItem(r, "factor")
	if err != nil {
		return err
	}
	p, err := ps.existing(name, b)
	if err != nil {
		return err
	}
	ps.apply(p, b, func(g int) { p.Values[g] *= factor })
	return nil
}

func add(ps *Properties, _ *deck.Keyword, r *deck.Record, b Box) error {
	name, err := stringItem(r, "field")
	if err != nil {
		return err
	}
	shift, err := doubleItem(r, "shift")
	if err != nil {
		return err
	}
	p, err := ps.existing(name, b)
	if err != nil {
		return err
	}
	scale, err := ps.scale(p)
	if err != nil {
		return err
	}
	ps.apply(p, b, func(g int) { p.Values[g] += shift * scale })
	return nil
}

func copyProperty(ps *Properties, _ *deck.Keyword, r *deck.Record, b Box) error {
	src, err := stringItem(r, "src")
	if err != nil {
		return err
	}
	target, err := stringItem(r, "target")
	if err != nil {
		return err
	}
	from, err := ps.existing(src, b)
	if err != nil {
		return err
	}
	to, err := ps.property(target)
	if err != nil {
		return err
	}
	if from.IsInt != to.IsInt || dimensionName(from) != dimensionName(to) {
		return diag.Format(diag.Semantic, diag.CodeInvalidValue,
			"cannot copy %s into %s: different kinds of value", src, target)
	}
	ps.apply(to, b, func(g int) { to.Values[g] = from.Values[g] })
	return nil
}

func dimensionName(p *Property) string {
	if p.IsInt {
		return ""
	}
	if p.Dimension == "" {
		return units.Dimensionless.Name
	}
	return p.Dimension
}

// existing returns a property every cell of which in b holds a value, either
// assigned or from a default.
func (ps *Properties) existing(name string, b Box) (*Property, error) {
	p, err := ps.property(name)
	if err != nil {
		return nil, err
	}
	if propertyDefs[name].hasDefault {
		return p, nil
	}
	missing := false
	b.each(ps.dims, func(g int) {
		if !p.Assigned[g] {
			missing = true
		}
	})
	if missing {
		return nil, diag.Format(diag.Semantic, diag.CodeInvalidValue,
			"%s is used before it has a value in every cell of the box", name)
	}
	return p, nil
}
