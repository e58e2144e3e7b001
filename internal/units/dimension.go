// Package units converts raw deck values to SI through the unit system that is
// active for a deck.
package units

import "math"

// Dimension is a physical dimension with the affine map raw -> SI.
type Dimension struct {
	Name   string
	Scale  float64
	Offset float64
}

// Dimensionless is the identity dimension.
var Dimensionless = Dimension{Name: "1", Scale: 1}

// ToSI converts a raw value to SI.
func (d Dimension) ToSI(raw float64) float64 {
	return raw*d.Scale + d.Offset
}

// FromSI converts an SI value back to raw units.
func (d Dimension) FromSI(si float64) float64 {
	return (si - d.Offset) / d.Scale
}

// Composable reports whether d can take part in a product or quotient.
// Dimensions carrying an offset (temperature) cannot.
func (d Dimension) Composable() bool {
	return d.Offset == 0
}

// IsZero reports whether d is the zero Dimension (no dimension set).
func (d Dimension) IsZero() bool {
	return d.Name == "" && d.Scale == 0
}

// Equal compares two dimensions with a relative tolerance on the scale.
func (d Dimension) Equal(o Dimension) bool {
	if d.Name != o.Name || d.Offset != o.Offset {
		return false
	}
	if d.Scale == o.Scale {
		return true
	}
	return math.Abs(d.Scale-o.Scale) <= 1e-12*math.Max(math.Abs(d.Scale), math.Abs(o.Scale))
}
