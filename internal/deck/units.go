package deck

import (
	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/units"
)

// unitPriority orders the unit keywords; the strongest present wins
// regardless of position.
var unitPriority = []struct {
	keyword string
	system  units.System
}{
	{"FIELD", units.Field},
	{"METRIC", units.Metric},
	{"LAB", units.Lab},
}

// SelectUnits sets the active unit system from the unit keywords present.
// FIELD beats METRIC, which beats LAB. Without any, METRIC stays active.
func (d *Deck) SelectUnits() units.System {
	for _, p := range unitPriority {
		if d.Has(p.keyword) {
			d.active = units.New(p.system)
			return p.system
		}
	}
	return d.active.Kind()
}

// PushDimensions attaches active and default dimensions to every dimensioned
// item of every known keyword. Items whose dimension depends on a sibling
// value are left untouched for the model builders.
func (d *Deck) PushDimensions() error {
	for _, k := range d.keywords {
		if !k.Known() || !k.Schema.HasDimension() {
			continue
		}
		for ri, r := range k.records {
			rs := k.Schema.Record(ri)
			for _, it := range r.items {
				is, ok := rs.Item(it.name)
				if !ok || !is.HasDimension() || is.Dimensions[0] == units.ContextDependent {
					continue
				}
				for _, expr := range is.Dimensions {
					active, err := d.active.Dimension(expr)
					if err != nil {
						return diag.Locate(diag.Wrap(err, diag.Schema, diag.CodeBadSchema,
							"keyword %s item %s", k.Name, it.name), k.File, k.Line)
					}
					def, err := d.def.Dimension(expr)
					if err != nil {
						return diag.Locate(diag.Wrap(err, diag.Schema, diag.CodeBadSchema,
							"keyword %s item %s", k.Name, it.name), k.File, k.Line)
					}
					it.PushDimension(active, def)
				}
			}
		}
	}
	return nil
}
