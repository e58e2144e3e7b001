package timemap

import (
	"testing"
	"time"

	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/parser"
	"github.com/rcliao/simdeck/internal/schema"
)

func TestMonthAliases(t *testing.T) {
	pairs := [][2]string{{"OCT", "OKT"}, {"MAY", "MAI"}, {"JUL", "JLY"}, {"DEC", "DES"}}
	for _, p := range pairs {
		a, err := ParseDate("1 " + p[0] + " 2000")
		if err != nil {
			t.Fatal(err)
		}
		b, err := ParseDate("1 " + p[1] + " 2000")
		if err != nil {
			t.Fatal(err)
		}
		if !a.Equal(b) {
			t.Errorf("%s and %s should parse to the same date", p[0], p[1])
		}
	}
	if m, ok := Month("jan"); !ok || m != time.January {
		t.Error("month names are case insensitive")
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("3 JAN 1982 14:56:45.123")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(1982, time.January, 3, 14, 56, 45, 123e6, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}

	for _, bad := range []string{"1 JANUARY 2000", "32 JAN 2000", "30 FEB 2000", "1 JAN", "1 JAN 2000 25:00:00", "x JAN 2000"} {
		if _, err := ParseDate(bad); !diag.IsCode(err, diag.CodeInvalidValue) {
			t.Errorf("%q: expected INVALID_VALUE, got %v", bad, err)
		}
	}
}

func TestForwardRoundTrip(t *testing.T) {
	dates := []time.Time{MkDate(1981, time.May, 21), MkDate(2000, time.February, 29), MkDate(2037, time.December, 31)}
	offsets := []int64{0, 1, 86399, 86400, 31536000, 999999999, -123456}
	for _, d := range dates {
		for _, n := range offsets {
			if back := Forward(Forward(d, n), -n); !back.Equal(d) {
				t.Errorf("%s forward %d and back gave %s", d, n, back)
			}
		}
	}
}

func TestMonotonic(t *testing.T) {
	m := New(MkDate(2000, time.January, 1))
	if err := m.AddTime(MkDate(2000, time.January, 1)); !diag.IsCode(err, diag.CodeTimeOrder) {
		t.Errorf("equal time must fail, got %v", err)
	}
	if err := m.AddTime(MkDate(1999, time.December, 31)); !diag.IsCode(err, diag.CodeTimeOrder) {
		t.Errorf("earlier time must fail, got %v", err)
	}
	if err := m.AddTStep(0); err == nil {
		t.Error("zero step must fail")
	}
	if err := m.AddTStep(time.Hour); err != nil {
		t.Fatal(err)
	}
	if m.Size() != 2 {
		t.Errorf("failed additions must not change the map, size %d", m.Size())
	}
	times := m.Times()
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			t.Errorf("entry %d not after entry %d", i, i-1)
		}
	}
}

const scenarioDeck = `
START
 21 MAY 1981 /

SCHEDULE
TSTEP
 1 2 3 4 5 /

DATES
 1 JAN 1982 /
 1 JAN 1982 13:55:44 /
 3 JAN 1982 14:56:45.123 /
/

TSTEP
 6 7 /
`

func TestFromDeck(t *testing.T) {
	reg, err := schema.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	d, _, err := parser.New(reg, parser.WithSectionCheck(false)).ParseString(scenarioDeck)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	m, err := FromDeck(d)
	if err != nil {
		t.Fatalf("time map: %v", err)
	}

	if m.NumSteps() != 10 || m.Size() != 11 {
		t.Fatalf("expected 10 steps after the start, got size %d", m.Size())
	}
	if l, _ := m.StepLength(0); l != 24*time.Hour {
		t.Errorf("expected first step of one day, got %s", l)
	}
	if s, _ := m.StartTime(0); !s.Equal(MkDate(1981, time.May, 21)) {
		t.Errorf("unexpected start %s", s)
	}
	if s, _ := m.StartTime(6); !s.Equal(MkDate(1982, time.January, 1)) {
		t.Errorf("expected step 6 on 1 JAN 1982, got %s", s)
	}
	if s, _ := m.StartTime(7); !s.Equal(time.Date(1982, time.January, 1, 13, 55, 44, 0, time.UTC)) {
		t.Errorf("unexpected step 7 %s", s)
	}
	if s, _ := m.StartTime(10); !s.Equal(time.Date(1982, time.January, 16, 14, 56, 45, 123e6, time.UTC)) {
		t.Errorf("unexpected final step %s", s)
	}
	if e, _ := m.Elapsed(5); e != 15*24*time.Hour {
		t.Errorf("expected 15 days elapsed at step 5, got %s", e)
	}
	if _, err := m.StartTime(11); !diag.IsCode(err, diag.CodeOutOfRange) {
		t.Errorf("expected OUT_OF_RANGE, got %v", err)
	}
	if _, err := m.StepLength(10); err == nil {
		t.Error("the last entry has no step length")
	}
	if step := m.StepAt(MkDate(1982, time.January, 2)); step != 7 {
		t.Errorf("expected step 7, got %d", step)
	}
}

func TestFromDeckRepeatedDate(t *testing.T) {
	reg, _ := schema.Builtin()
	d, _, err := parser.New(reg, parser.WithSectionCheck(false)).ParseString("START\n 1 JAN 1980 /\nDATES\n 1 JAN 1982 /\n 1 JAN 1982 /\n/\n")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := FromDeck(d); !diag.IsCode(err, diag.CodeTimeOrder) {
		t.Errorf("repeated date must fail, got %v", err)
	}
}

func TestStartFromDeckDefault(t *testing.T) {
	reg, _ := schema.Builtin()
	d, _, err := parser.New(reg, parser.WithSectionCheck(false)).ParseString("TSTEP\n 1 /\n")
	if err != nil {
		t.Fatal(err)
	}
	m, err := FromDeck(d)
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := m.StartTime(0); !s.Equal(DefaultStart) {
		t.Errorf("expected default start, got %s", s)
	}
}
