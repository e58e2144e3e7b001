package units

import (
	"fmt"
	"strings"
)

// System identifies one of the deck unit systems.
type System int

const (
	Metric System = iota + 1
	Field
	Lab
)

func (s System) String() string {
	switch s {
	case Metric:
		return "METRIC"
	case Field:
		return "FIELD"
	case Lab:
		return "LAB"
	}
	return "UNKNOWN"
}

// ParseSystem maps a unit keyword name to a System.
func ParseSystem(name string) (System, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "METRIC":
		return Metric, nil
	case "FIELD":
		return Field, nil
	case "LAB":
		return Lab, nil
	}
	return 0, fmt.Errorf("unknown unit system %q", name)
}

// ContextDependent marks items whose dimension is chosen by a sibling item
// (for example an injector rate whose dimension follows the injected phase).
const ContextDependent = "ContextDependent"

const (
	day     = 86400.0
	hour    = 3600.0
	bar     = 1e5
	psia    = 6894.75729316836
	atm     = 101325.0
	feet    = 0.3048
	stb     = 0.158987294928
	mscf    = 28.316846592
	pound   = 0.45359237
	cP      = 1e-3
	milliD  = 9.869233e-16
	lbPerFt = 16.01846337396014
)

type baseTable map[string]Dimension

func dim(name string, scale float64) Dimension {
	return Dimension{Name: name, Scale: scale}
}

var tables = map[System]baseTable{
	Metric: {
		"1":                    Dimensionless,
		"Length":               dim("Length", 1),
		"Time":                 dim("Time", day),
		"Timestep":             dim("Timestep", day),
		"Mass":                 dim("Mass", 1),
		"Density":              dim("Density", 1),
		"Pressure":             dim("Pressure", bar),
		"AbsoluteTemperature":  dim("AbsoluteTemperature", 1),
		"Temperature":          {Name: "Temperature", Scale: 1, Offset: 273.15},
		"Viscosity":            dim("Viscosity", cP),
		"Permeability":         dim("Permeability", milliD),
		"LiquidSurfaceVolume":  dim("LiquidSurfaceVolume", 1),
		"GasSurfaceVolume":     dim("GasSurfaceVolume", 1),
		"ReservoirVolume":      dim("ReservoirVolume", 1),
		"Transmissibility":     dim("Transmissibility", cP/(day*bar)),
		"GasDissolutionFactor": dim("GasDissolutionFactor", 1),
		"OilDissolutionFactor": dim("OilDissolutionFactor", 1),
	},
	Field: {
		"1":                    Dimensionless,
		"Length":               dim("Length", feet),
		"Time":                 dim("Time", day),
		"Timestep":             dim("Timestep", day),
		"Mass":                 dim("Mass", pound),
		"Density":              dim("Density", lbPerFt),
		"Pressure":             dim("Pressure", psia),
		"AbsoluteTemperature":  dim("AbsoluteTemperature", 5.0/9.0),
		"Temperature":          {Name: "Temperature", Scale: 5.0 / 9.0, Offset: 459.67 * 5.0 / 9.0},
		"Viscosity":            dim("Viscosity", cP),
		"Permeability":         dim("Permeability", milliD),
		"LiquidSurfaceVolume":  dim("LiquidSurfaceVolume", stb),
		"GasSurfaceVolume":     dim("GasSurfaceVolume", mscf),
		"ReservoirVolume":      dim("ReservoirVolume", stb),
		"Transmissibility":     dim("Transmissibility", cP*stb/(day*psia)),
		"GasDissolutionFactor": dim("GasDissolutionFactor", mscf/stb),
		"OilDissolutionFactor": dim("OilDissolutionFactor", stb/mscf),
	},
	Lab: {
		"1":                    Dimensionless,
		"Length":               dim("Length", 0.01),
		"Time":                 dim("Time", hour),
		"Timestep":             dim("Timestep", hour),
		"Mass":                 dim("Mass", 1e-3),
		"Density":              dim("Density", 1000),
		"Pressure":             dim("Pressure", atm),
		"AbsoluteTemperature":  dim("AbsoluteTemperature", 1),
		"Temperature":          {Name: "Temperature", Scale: 1, Offset: 273.15},
		"Viscosity":            dim("Viscosity", cP),
		"Permeability":         dim("Permeability", milliD),
		"LiquidSurfaceVolume":  dim("LiquidSurfaceVolume", 1e-6),
		"GasSurfaceVolume":     dim("GasSurfaceVolume", 1e-6),
		"ReservoirVolume":      dim("ReservoirVolume", 1e-6),
		"Transmissibility":     dim("Transmissibility", cP*1e-6/(hour*atm)),
		"GasDissolutionFactor": dim("GasDissolutionFactor", 1),
		"OilDissolutionFactor": dim("OilDissolutionFactor", 1),
	},
}

// UnitSystem resolves dimension expressions for one System.
// It is immutable and safe to share.
type UnitSystem struct {
	kind System
	base baseTable
}

// New returns the unit system for kind. Unknown kinds fall back to Metric.
func New(kind System) *UnitSystem {
	base, ok := tables[kind]
	if !ok {
		kind, base = Metric, tables[Metric]
	}
	return &UnitSystem{kind: kind, base: base}
}

// Kind returns the system identifier.
func (u *UnitSystem) Kind() System {
	return u.kind
}

// Name returns the deck keyword naming the system.
func (u *UnitSystem) Name() string {
	return u.kind.String()
}

// Has reports whether name is a base dimension of the system.
func (u *UnitSystem) Has(name string) bool {
	_, ok := u.base[name]
	return ok
}

// Dimension parses a dimension expression such as "Length",
// "Viscosity*ReservoirVolume/Time*Pressure" or "1".
// Everything after the first '/' is the denominator.
func (u *UnitSystem) Dimension(expr string) (Dimension, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Dimension{}, fmt.Errorf("empty dimension expression")
	}
	if d, ok := u.base[expr]; ok {
		return d, nil
	}

	num, den, hasDen := strings.Cut(expr, "/")
	if hasDen && strings.Contains(den, "/") {
		return Dimension{}, fmt.Errorf("dimension %q: only one '/' is allowed", expr)
	}
	scale, err := u.product(num, expr)
	if err != nil {
		return Dimension{}, err
	}
	if hasDen {
		ds, err := u.product(den, expr)
		if err != nil {
			return Dimension{}, err
		}
		scale /= ds
	}
	return Dimension{Name: expr, Scale: scale}, nil
}

func (u *UnitSystem) product(part, expr string) (float64, error) {
	scale := 1.0
	for _, name := range strings.Split(part, "*") {
		name = strings.TrimSpace(name)
		d, ok := u.base[name]
		if !ok {
			return 0, fmt.Errorf("dimension %q: unknown base dimension %q in %s system", expr, name, u.kind)
		}
		if !d.Composable() {
			return 0, fmt.Errorf("dimension %q: %s has an offset and cannot be composed", expr, name)
		}
		scale *= d.Scale
	}
	return scale, nil
}

// ToSI converts raw through the dimension expression.
func (u *UnitSystem) ToSI(expr string, raw float64) (float64, error) {
	d, err := u.Dimension(expr)
	if err != nil {
		return 0, err
	}
	return d.ToSI(raw), nil
}

// FromSI converts an SI value into this system's raw units.
func (u *UnitSystem) FromSI(expr string, si float64) (float64, error) {
	d, err := u.Dimension(expr)
	if err != nil {
		return 0, err
	}
	return d.FromSI(si), nil
}
