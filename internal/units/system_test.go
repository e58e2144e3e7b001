package units

import (
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestBaseDimensions(t *testing.T) {
	tests := []struct {
		sys  System
		expr string
		raw  float64
		want float64
	}{
		{Metric, "Pressure", 1, 1e5},
		{Metric, "Time", 1, 86400},
		{Field, "Length", 1, 0.3048},
		{Field, "Pressure", 1, 6894.75729316836},
		{Lab, "Time", 2, 7200},
		{Metric, "Temperature", 0, 273.15},
		{Field, "Temperature", 32, 273.15},
		{Metric, "1", 42, 42},
	}
	for _, tt := range tests {
		u := New(tt.sys)
		got, err := u.ToSI(tt.expr, tt.raw)
		if err != nil {
			t.Fatalf("%s %s: %v", tt.sys, tt.expr, err)
		}
		if !near(got, tt.want) {
			t.Errorf("%s %s(%g): expected %g, got %g", tt.sys, tt.expr, tt.raw, tt.want, got)
		}
	}
}

func TestComposedDimension(t *testing.T) {
	u := New(Metric)
	d, err := u.Dimension("LiquidSurfaceVolume/Time")
	if err != nil {
		t.Fatalf("dimension: %v", err)
	}
	if !near(d.ToSI(86400), 1) {
		t.Errorf("expected 86400 sm3/day == 1 m3/s, got %g", d.ToSI(86400))
	}

	d, err = u.Dimension("Viscosity*ReservoirVolume/Time*Pressure")
	if err != nil {
		t.Fatalf("dimension: %v", err)
	}
	if !near(d.Scale, 1e-3/(86400*1e5)) {
		t.Errorf("unexpected transmissibility scale %g", d.Scale)
	}
}

func TestDimensionErrors(t *testing.T) {
	u := New(Field)
	for _, expr := range []string{"", "Furlong", "Temperature*Length", "Length/Time/Time"} {
		if _, err := u.Dimension(expr); err == nil {
			t.Errorf("expected error for %q", expr)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	u := New(Field)
	si, _ := u.ToSI("Temperature", 100)
	raw, _ := u.FromSI("Temperature", si)
	if !near(raw, 100) {
		t.Errorf("expected 100 back, got %g", raw)
	}
}

func TestParseSystem(t *testing.T) {
	s, err := ParseSystem("field")
	if err != nil || s != Field {
		t.Fatalf("expected FIELD, got %v %v", s, err)
	}
	if _, err := ParseSystem("IMPERIAL"); err == nil {
		t.Error("expected error for unknown system")
	}
}
