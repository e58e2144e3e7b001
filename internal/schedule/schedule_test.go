package schedule

import (
	"errors"
	"math"
	"testing"

	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/grid"
	"github.com/rcliao/simdeck/internal/parser"
	"github.com/rcliao/simdeck/internal/props"
	"github.com/rcliao/simdeck/internal/schema"
)

const header = `RUNSPEC
DIMENS
 10 10 3 /
OIL
WATER
METRIC
START
 1 JAN 2000 /
GRID
DX
 300*100 /
DY
 300*100 /
DZ
 300*10 /
TOPS
 100*2000 /
PERMX
 300*100 /
PERMY
 300*100 /
PORO
 300*0.2 /
PROPS
SOLUTION
SCHEDULE
`

const producer = `WELSPECS
 'P1' 'G1' 9 9 1* 'OIL' /
/
COMPDAT
 'P1' 2* 1 3 'OPEN' /
/
WCONPROD
 'P1' 'OPEN' 'ORAT' 1000 4* 100 /
/
`

func parseDeck(t *testing.T, schedule string) *deck.Deck {
	t.Helper()
	reg, err := schema.Builtin()
	if err != nil {
		t.Fatalf("builtin registry: %v", err)
	}
	d, _, err := parser.New(reg).ParseString(header + schedule)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return d
}

func build(t *testing.T, schedule string) (*Schedule, error) {
	t.Helper()
	d := parseDeck(t, schedule)
	g, err := grid.FromDeck(d)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	ps, err := props.BuildProperties(d, g.Dims())
	if err != nil {
		t.Fatalf("properties: %v", err)
	}
	return New(d, g, WithProperties(ps))
}

func mustBuild(t *testing.T, schedule string) *Schedule {
	t.Helper()
	s, err := build(t, schedule)
	if err != nil {
		t.Fatalf("build schedule: %v", err)
	}
	return s
}

func mustWell(t *testing.T, s *Schedule, name string) *Well {
	t.Helper()
	w, err := s.Well(name)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

// checkStatusInvariant fails when an open well has no completion able to
// flow.
func checkStatusInvariant(t *testing.T, s *Schedule) {
	t.Helper()
	for step := 0; step < s.Size(); step++ {
		for _, w := range s.Wells(step) {
			if w.Status(step) == Open && w.Completions(step).AllShut() {
				t.Errorf("step %d: well %s is open with every completion shut", step, w.Name())
			}
		}
	}
}

func TestWellLifecycle(t *testing.T) {
	s := mustBuild(t, producer+"DATES\n 1 FEB 2000 /\n/\nTSTEP\n 10 /\n")

	if s.Size() != 3 {
		t.Fatalf("size = %d, want 3", s.Size())
	}
	w := mustWell(t, s, "P1")
	if w.CreatedAt() != 0 {
		t.Errorf("created at %d", w.CreatedAt())
	}
	if i, j := w.Head(); i != 8 || j != 8 {
		t.Errorf("head = %d %d", i, j)
	}
	cs := w.Completions(0)
	if cs.Size() != 3 {
		t.Fatalf("completions = %d, want 3", cs.Size())
	}
	for n, want := range []float64{2005, 2015, 2025} {
		c := cs.At(n)
		if !near(c.Depth, want) || c.Number != n+1 || c.Status != Open {
			t.Errorf("completion %d = %+v", n, c)
		}
		if c.CF <= 0 {
			t.Errorf("completion %d has no connection factor", n)
		}
	}
	if !near(w.RefDepth(0), 2005) {
		t.Errorf("ref depth = %v", w.RefDepth(0))
	}
	if w.Status(0) != Open || w.Status(2) != Open {
		t.Errorf("status = %s, %s", w.Status(0), w.Status(2))
	}
	p := w.Production(1)
	if p.CMode != ProdORAT || !near(p.OilRate, 1000.0/86400) || !near(p.BHP, 100e5) {
		t.Errorf("production = %+v", p)
	}
	if !w.IsProducer(0) || w.Group(0) != "G1" {
		t.Errorf("producer %v, group %s", w.IsProducer(0), w.Group(0))
	}

	g, err := s.Group("G1")
	if err != nil {
		t.Fatal(err)
	}
	if !g.HasWell(2, "P1") {
		t.Error("G1 should hold P1")
	}
	if p, ok := s.GroupTree(0).Parent("G1"); !ok || p != FieldGroup {
		t.Errorf("parent of G1 = %q", p)
	}

	ev := s.Events(0)
	for _, e := range []Event{EventNewWell, EventNewGroup, EventCompletionChange, EventProductionUpdate, EventWellStatusChange} {
		if !ev.Has(e) {
			t.Errorf("events %s lack %s", ev, e)
		}
	}
	if s.Events(1) != 0 {
		t.Errorf("step 1 events = %s", s.Events(1))
	}
	checkStatusInvariant(t, s)
}

func TestHeadPositionMismatch(t *testing.T) {
	_, err := build(t, `WELSPECS
 'W' 'G' 9 9 1* 'OIL' /
/
TSTEP
 1 /
WELSPECS
 'W' 'G' 8 9 1* 'OIL' /
/
`)
	if !diag.IsCode(err, diag.CodeHeadMismatch) {
		t.Fatalf("err = %v, want %s", err, diag.CodeHeadMismatch)
	}
	var de *diag.Error
	if !errors.As(err, &de) || de.Line == 0 {
		t.Errorf("error %v carries no line", err)
	}
}

func TestWelspecsMovesGroup(t *testing.T) {
	s := mustBuild(t, `WELSPECS
 'W' 'G1' 9 9 1* 'OIL' /
/
TSTEP
 1 /
WELSPECS
 'W' 'G2' 9 9 1* 'OIL' /
/
`)
	w := mustWell(t, s, "W")
	if w.Group(0) != "G1" || w.Group(1) != "G2" {
		t.Errorf("groups = %s, %s", w.Group(0), w.Group(1))
	}
	g1, _ := s.Group("G1")
	g2, _ := s.Group("G2")
	if !g1.HasWell(0, "W") || g1.HasWell(1, "W") || !g2.HasWell(1, "W") {
		t.Errorf("membership: G1 %v/%v G2 %v", g1.Wells(0), g1.Wells(1), g2.Wells(1))
	}
	if len(s.Groups(0)) != 2 || len(s.Groups(1)) != 3 {
		t.Errorf("groups at 0: %d, at 1: %d", len(s.Groups(0)), len(s.Groups(1)))
	}
}

func TestWelopen(t *testing.T) {
	s := mustBuild(t, producer+`TSTEP
 1 /
WELOPEN
 'P1' 'SHUT' /
/
TSTEP
 1 /
WELOPEN
 'P1' 'OPEN' /
/
TSTEP
 1 /
WELOPEN
 'P1' 'SHUT' 9 9 2 /
/
TSTEP
 1 /
WELOPEN
 'P1' 'SHUT' 9 9 1 /
 'P1' 'SHUT' 9 9 3 /
/
TSTEP
 1 /
WELOPEN
 'P1' 'OPEN' /
/
`)
	w := mustWell(t, s, "P1")
	states := func(step int) []Status {
		var out []Status
		for _, c := range w.Completions(step).All() {
			out = append(out, c.Status)
		}
		return out
	}
	tests := []struct {
		step   int
		status Status
		conns  []Status
	}{
		{0, Open, []Status{Open, Open, Open}},
		{1, Shut, []Status{Open, Open, Open}},
		{2, Open, []Status{Open, Open, Open}},
		{3, Open, []Status{Open, Shut, Open}},
		{4, Shut, []Status{Shut, Shut, Shut}},
		{5, Shut, []Status{Shut, Shut, Shut}},
	}
	for _, tt := range tests {
		if got := w.Status(tt.step); got != tt.status {
			t.Errorf("step %d: status = %s, want %s", tt.step, got, tt.status)
		}
		got := states(tt.step)
		for n := range tt.conns {
			if got[n] != tt.conns[n] {
				t.Errorf("step %d: completions = %v, want %v", tt.step, got, tt.conns)
				break
			}
		}
	}
	checkStatusInvariant(t, s)
}

func TestWelopenCompletionRange(t *testing.T) {
	s := mustBuild(t, producer+`TSTEP
 1 /
WELOPEN
 'P1' 'SHUT' 3* 2 3 /
/
`)
	w := mustWell(t, s, "P1")
	cs := w.Completions(1)
	if cs.At(0).Status != Open || cs.At(1).Status != Shut || cs.At(2).Status != Shut {
		t.Errorf("completions = %+v", cs.All())
	}
	if w.Status(1) != Open {
		t.Errorf("status = %s", w.Status(1))
	}
}

func TestWelopenLumpedRange(t *testing.T) {
	_, err := build(t, producer+`COMPLUMP
 'P1' 9 9 1 2 1 /
/
WELOPEN
 'P1' 'SHUT' 3* 1 1 /
/
`)
	if !diag.IsCode(err, diag.CodeUnsupported) {
		t.Fatalf("err = %v, want %s", err, diag.CodeUnsupported)
	}
}

func TestComplump(t *testing.T) {
	s := mustBuild(t, producer+`COMPLUMP
 'P1' 9 9 1 2 1 /
 'P1' 9 9 3 3 2 /
/
WELOPEN
 'P1' 'SHUT' 9 9 3 /
/
`)
	cs := mustWell(t, s, "P1").Completions(0)
	for n, want := range []int{1, 1, 2} {
		if c := cs.At(n); c.Number != want || !c.Lumped {
			t.Errorf("completion %d = %+v", n, c)
		}
	}
	if cs.At(2).Status != Shut {
		t.Error("K=3 completion should be shut")
	}
}

func TestOpenRequiresCompletion(t *testing.T) {
	s := mustBuild(t, `WELSPECS
 'P1' 'G1' 9 9 1* 'OIL' /
/
WCONPROD
 'P1' 'OPEN' 'BHP' 5* 100 /
/
TSTEP
 1 /
COMPDAT
 'P1' 2* 1 1 'OPEN' /
/
`)
	w := mustWell(t, s, "P1")
	if w.Status(0) != Shut {
		t.Errorf("well without completions is %s", w.Status(0))
	}
	if w.Status(1) != Open {
		t.Errorf("well is %s once completed", w.Status(1))
	}
	checkStatusInvariant(t, s)
}

func TestInjectors(t *testing.T) {
	s := mustBuild(t, `WELSPECS
 'I1' 'G1' 1 1 1* 'WATER' /
/
COMPDAT
 'I1' 2* 1 1 'OPEN' /
/
WCONINJE
 'I1' 'WATER' 'OPEN' 'RATE' 1000 1* 300 /
/
TSTEP
 1 /
WCONINJH
 'I1' 'GAS' 'OPEN' 5000 /
/
WPOLYMER
 'I1' 1.5 /
/
`)
	w := mustWell(t, s, "I1")
	if !w.IsInjector(0) {
		t.Fatal("I1 should inject")
	}
	inj := w.Injection(0)
	if inj.Type != InjectWater || inj.CMode != InjRATE || !near(inj.SurfaceRate, 1000.0/86400) || !near(inj.BHP, 300e5) {
		t.Errorf("injection = %+v", inj)
	}
	hist := w.Injection(1)
	if !hist.History || hist.Type != InjectGas || !near(hist.SurfaceRate, 5000.0/86400) {
		t.Errorf("history injection = %+v", hist)
	}
	if p := w.Polymer(1); !near(p.Concentration, 1.5) {
		t.Errorf("polymer = %+v", p)
	}
	if !s.Events(0).Has(EventInjectionUpdate) || !s.Events(1).Has(EventPolymerUpdate) {
		t.Errorf("events = %s, %s", s.Events(0), s.Events(1))
	}
}

func TestMultiInjectorUnsupported(t *testing.T) {
	_, err := build(t, `WELSPECS
 'I1' 'G1' 1 1 1* 'WATER' /
/
WCONINJE
 'I1' 'MULTI' 'OPEN' 'RATE' 1000 /
/
`)
	if !diag.IsCode(err, diag.CodeUnsupported) {
		t.Fatalf("err = %v, want %s", err, diag.CodeUnsupported)
	}
}

func TestWeltarg(t *testing.T) {
	s := mustBuild(t, producer+`TSTEP
 1 /
WELTARG
 'P1' 'BHP' 50 /
 'P1' 'ORAT' 500 /
/
`)
	w := mustWell(t, s, "P1")
	p := w.Production(1)
	if !near(p.BHP, 50e5) || !near(p.OilRate, 500.0/86400) {
		t.Errorf("production = %+v", p)
	}
	if !near(w.Production(0).BHP, 100e5) {
		t.Errorf("step 0 changed: %+v", w.Production(0))
	}

	_, err := build(t, producer+"WELTARG\n 'P1' 'FOO' 1 /\n/\n")
	if !diag.IsCode(err, diag.CodeInvalidValue) {
		t.Fatalf("err = %v, want %s", err, diag.CodeInvalidValue)
	}
}

func TestWellPatterns(t *testing.T) {
	s := mustBuild(t, `WELSPECS
 'PA' 'G1' 1 1 1* 'OIL' /
 'PB' 'G1' 2 2 1* 'OIL' /
 'X1' 'G1' 3 3 1* 'OIL' /
/
WGRUPCON
 'P*' 'NO' 2.5 'OIL' /
/
WGRUPCON
 'Q*' 'NO' 2.5 'OIL' /
/
`)
	for _, name := range []string{"PA", "PB"} {
		if g := mustWell(t, s, name).GuideRate(0); g.GroupControlled || g.Rate != 2.5 {
			t.Errorf("%s guide rate = %+v", name, g)
		}
	}
	if g := mustWell(t, s, "X1").GuideRate(0); !g.GroupControlled {
		t.Errorf("X1 guide rate = %+v", g)
	}
	if len(s.Messages().WithCode(diag.CodeUndefinedWell)) != 1 {
		t.Errorf("messages = %v", s.Messages().All())
	}
	if _, err := build(t, "WGRUPCON\n 'NOPE' /\n/\n"); !diag.IsCode(err, diag.CodeUndefinedWell) {
		t.Errorf("err = %v, want %s", err, diag.CodeUndefinedWell)
	}
}

func TestGroupTree(t *testing.T) {
	s := mustBuild(t, producer+`TSTEP
 1 /
GRUPTREE
 'G1' 'PLAT' /
/
GCONPROD
 'PLAT' 'ORAT' 2000 /
/
GCONINJE
 'FIELD' 'WATER' 'RATE' 3000 /
/
`)
	if p, _ := s.GroupTree(0).Parent("G1"); p != FieldGroup {
		t.Errorf("G1 at 0 under %s", p)
	}
	tree := s.GroupTree(1)
	if p, _ := tree.Parent("G1"); p != "PLAT" {
		t.Errorf("G1 at 1 under %s", p)
	}
	if p, _ := tree.Parent("PLAT"); p != FieldGroup {
		t.Errorf("PLAT under %s", p)
	}
	if got := tree.Children(FieldGroup); len(got) != 1 || got[0] != "PLAT" {
		t.Errorf("children of FIELD = %v", got)
	}
	if s.GroupTree(0).Has("PLAT") {
		t.Error("tree of step 0 was modified")
	}
	plat, _ := s.Group("PLAT")
	if gp := plat.Production(1); gp.CMode != "ORAT" || !near(gp.OilTarget, 2000.0/86400) {
		t.Errorf("PLAT production = %+v", gp)
	}
	field, _ := s.Group(FieldGroup)
	if gi := field.Injection(1); gi.Phase != InjectWater || !near(gi.SurfaceTarget, 3000.0/86400) {
		t.Errorf("FIELD injection = %+v", gi)
	}
	if !s.Events(1).Has(EventGroupTreeChange) {
		t.Errorf("events = %s", s.Events(1))
	}

	_, err := build(t, producer+"GRUPTREE\n 'G1' 'PLAT' /\n 'PLAT' 'G1' /\n/\n")
	if !diag.IsCode(err, diag.CodeInvalidValue) {
		t.Fatalf("cycle: err = %v", err)
	}
}

func TestTuning(t *testing.T) {
	s := mustBuild(t, `TUNING
 2 /
/
 20 /
TSTEP
 1 /
TUNING
/
 0.2 /
/
`)
	def := DefaultTuning()
	t0, t1 := s.Tuning(0), s.Tuning(1)
	if !near(t0.TSINIT, 2*day) || t0.NEWTMX != 20 || !near(t0.TRGTTE, def.TRGTTE) {
		t.Errorf("step 0 tuning = %+v", t0)
	}
	if !near(t0.TSMAXZ, 365*day) || t0.HasTMAXWC {
		t.Errorf("step 0 defaults = %+v", t0)
	}
	if !near(t1.TSINIT, 2*day) || t1.NEWTMX != 20 || !near(t1.TRGTTE, 0.2) {
		t.Errorf("step 1 tuning = %+v", t1)
	}
	if !s.Events(1).Has(EventTuningChange) {
		t.Errorf("events = %s", s.Events(1))
	}
}

func TestRFT(t *testing.T) {
	s := mustBuild(t, producer+`TSTEP
 1 /
WRFT
 'P1' /
/
TSTEP
 1 /
WELOPEN
 'P1' 'SHUT' /
/
WRFTPLT
 'P1' 'FOPN' 'REPT' /
/
TSTEP
 1 /
TSTEP
 1 /
WELOPEN
 'P1' 'OPEN' /
/
TSTEP
 1 /
`)
	w := mustWell(t, s, "P1")
	rft := []bool{false, true, false, false, true, false}
	plt := []bool{false, false, true, true, true, true}
	for step := range rft {
		if got := w.RFTActive(step); got != rft[step] {
			t.Errorf("step %d: RFT = %v, want %v", step, got, rft[step])
		}
		if got := w.PLTActive(step); got != plt[step] {
			t.Errorf("step %d: PLT = %v, want %v", step, got, plt[step])
		}
	}
	if !s.Events(1).Has(EventRFTRequest) || !s.Events(4).Has(EventRFTRequest) {
		t.Errorf("events = %s, %s", s.Events(1), s.Events(4))
	}
}

func TestRFTFirstOpenOnOpenWell(t *testing.T) {
	s := mustBuild(t, producer+`WRFTPLT
 'P1' 'FOPN' /
/
TSTEP
 1 /
`)
	w := mustWell(t, s, "P1")
	if !w.RFTActive(0) || w.RFTActive(1) {
		t.Errorf("RFT = %v, %v; want true, false", w.RFTActive(0), w.RFTActive(1))
	}
	if !s.Events(0).Has(EventRFTRequest) {
		t.Errorf("events = %s", s.Events(0))
	}
}

func TestTimeSteps(t *testing.T) {
	s := mustBuild(t, "TSTEP\n 1 2 /\nDATES\n 1 MAR 2000 /\n 1 APR 2000 /\n/\n")
	if s.Size() != 5 {
		t.Fatalf("size = %d", s.Size())
	}
	start, _ := s.TimeMap().StartTime(3)
	if start.Month() != 3 || start.Day() != 1 {
		t.Errorf("step 3 starts %s", start)
	}
	_, err := build(t, "DATES\n 1 MAR 2000 /\n/\nDATES\n 1 FEB 2000 /\n/\n")
	if !diag.IsCode(err, diag.CodeTimeOrder) {
		t.Errorf("err = %v, want %s", err, diag.CodeTimeOrder)
	}
}

func TestNoScheduleSection(t *testing.T) {
	reg, _ := schema.Builtin()
	d, _, err := parser.New(reg).ParseString("RUNSPEC\nDIMENS\n 1 1 1 /\n")
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(d, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Size() != 1 || len(s.WellNames()) != 0 {
		t.Errorf("size %d, wells %v", s.Size(), s.WellNames())
	}
}
