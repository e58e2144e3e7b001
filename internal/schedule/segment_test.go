package schedule

import (
	"testing"

	"github.com/rcliao/simdeck/internal/diag"
)

func branchSet(lengths ...float64) *SegmentSet {
	ss := &SegmentSet{Well: "W", Type: Incremental, index: make(map[int]int)}
	ss.add(Segment{Number: 1, Branch: 1, DataReady: true})
	for n, l := range lengths {
		ss.add(Segment{Number: n + 2, Branch: 1, Outlet: n + 1, TotalLength: l, Depth: 1000 + l, DataReady: true})
	}
	return ss
}

func TestResolveSegmentNearest(t *testing.T) {
	ss := branchSet(10, 20, 30)
	tests := []struct {
		name       string
		start, end float64
		want       int
	}{
		{"nearest below", 20, 22, 3},
		{"nearest above", 27, 29, 4},
		{"tie goes to first", 14, 16, 2},
		{"beyond the end", 40, 50, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := resolveSegment(compseg{Branch: 1, DistanceStart: tt.start, DistanceEnd: tt.end}, ss)
			if err != nil {
				t.Fatal(err)
			}
			if s.Number != tt.want {
				t.Errorf("segment = %d (length %g), want %d", s.Number, s.TotalLength, tt.want)
			}
		})
	}
}

func TestResolveSegmentExplicit(t *testing.T) {
	ss := branchSet(10, 20, 30)
	s, err := resolveSegment(compseg{Branch: 1, DistanceStart: 20, DistanceEnd: 22, Segment: 4}, ss)
	if err != nil || s.Number != 4 {
		t.Fatalf("segment = %d, err %v", s.Number, err)
	}
	if _, err := resolveSegment(compseg{Branch: 1, Segment: 9}, ss); !diag.IsCode(err, diag.CodeUnresolvedSegment) {
		t.Errorf("err = %v, want %s", err, diag.CodeUnresolvedSegment)
	}
	if _, err := resolveSegment(compseg{Branch: 2, DistanceEnd: 10}, ss); !diag.IsCode(err, diag.CodeUnresolvedSegment) {
		t.Errorf("err = %v, want %s", err, diag.CodeUnresolvedSegment)
	}
}

func TestCenterDepth(t *testing.T) {
	ss := branchSet(10, 20, 30)
	seg := func(n int) Segment {
		s, _ := ss.Get(n)
		return s
	}
	tests := []struct {
		name string
		c    compseg
		seg  int
		want float64
	}{
		{"given depth", compseg{Branch: 1, DistanceStart: 0, DistanceEnd: 2, CenterDepth: 1234}, 2, 1234},
		{"top segment", compseg{Branch: 1, DistanceStart: 0, DistanceEnd: 2}, 1, 0},
		{"towards outlet", compseg{Branch: 1, DistanceStart: 16, DistanceEnd: 18}, 3, 1017},
		{"towards inlet", compseg{Branch: 1, DistanceStart: 22, DistanceEnd: 24}, 3, 1023},
		{"last segment extrapolates", compseg{Branch: 1, DistanceStart: 32, DistanceEnd: 34}, 4, 1033},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := centerDepth(tt.c, seg(tt.seg), ss)
			if err != nil {
				t.Fatal(err)
			}
			if !near(got, tt.want) {
				t.Errorf("depth = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCenterDepthZeroSpan(t *testing.T) {
	ss := branchSet(10, 10)
	s, _ := ss.Get(3)
	_, err := centerDepth(compseg{Branch: 1, DistanceStart: 8, DistanceEnd: 9}, s, ss)
	if !diag.IsCode(err, diag.CodeZeroSpan) {
		t.Fatalf("err = %v, want %s", err, diag.CodeZeroSpan)
	}
}

const multiSegment = `WELSPECS
 'M1' 'G1' 5 5 1* 'OIL' /
/
COMPDAT
 'M1' 2* 1 3 'OPEN' /
/
`

func TestWelsegsIncremental(t *testing.T) {
	s := mustBuild(t, multiSegment+`WELSEGS
 'M1' 2000 0 1* 'INC' /
 2 4 1 1 10 10 0.1 1e-3 /
/
COMPSEGS
 'M1' /
 5 5 1 1 0 10 /
 5 5 2 1 10 20 /
 5 5 3 1 20 30 /
/
`)
	w := mustWell(t, s, "M1")
	if !w.IsMultiSegment(0) {
		t.Fatal("M1 should be multi-segment")
	}
	ss := w.Segments(0)
	if ss.Size() != 4 {
		t.Fatalf("segments = %d", ss.Size())
	}
	for n, want := range []struct{ length, depth float64 }{{0, 2000}, {10, 2010}, {20, 2020}, {30, 2030}} {
		sg := ss.At(n)
		if !near(sg.TotalLength, want.length) || !near(sg.Depth, want.depth) || sg.Outlet != n {
			t.Errorf("segment %d = %+v", sg.Number, sg)
		}
	}
	cs := w.Completions(0)
	for n, want := range []struct {
		seg   int
		depth float64
	}{{1, 2000}, {2, 2015}, {3, 2025}} {
		c := cs.At(n)
		if c.Segment != want.seg || !near(c.Depth, want.depth) {
			t.Errorf("completion %d: segment %d depth %v, want %d %v", n, c.Segment, c.Depth, want.seg, want.depth)
		}
	}
	if !s.Events(0).Has(EventWellSegmentsChange) {
		t.Errorf("events = %s", s.Events(0))
	}
}

func TestWelsegsAbsolute(t *testing.T) {
	s := mustBuild(t, multiSegment+`WELSEGS
 'M1' 2000 0 1* 'ABS' /
 2 4 1 1 30 2030 0.1 1e-3 /
/
COMPSEGS
 'M1' /
 5 5 1 1 0 10 /
 5 5 2 1 10 20 /
 5 5 3 1 20 30 /
/
`)
	ss := mustWell(t, s, "M1").Segments(0)
	for n, want := range []struct{ length, depth float64 }{{0, 2000}, {10, 2010}, {20, 2020}, {30, 2030}} {
		sg := ss.At(n)
		if !near(sg.TotalLength, want.length) || !near(sg.Depth, want.depth) || !sg.DataReady {
			t.Errorf("segment %d = %+v", sg.Number, sg)
		}
	}
}

func TestMultiSegmentErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  string
	}{
		{"unattached completion", `WELSEGS
 'M1' 2000 0 1* 'INC' /
 2 4 1 1 10 10 0.1 1e-3 /
/
COMPSEGS
 'M1' /
 5 5 1 1 0 10 /
 5 5 2 1 10 20 /
/
`, diag.CodeUnattachedCompletion},
		{"non-positive length", `WELSEGS
 'M1' 2000 0 1* 'INC' /
 2 4 1 1 0 10 0.1 1e-3 /
/
`, diag.CodeBadLength},
		{"unknown outlet", `WELSEGS
 'M1' 2000 0 1* 'INC' /
 2 4 1 7 10 10 0.1 1e-3 /
/
`, diag.CodeUnresolvedSegment},
		{"ranged compsegs", `WELSEGS
 'M1' 2000 0 1* 'INC' /
 2 4 1 1 10 10 0.1 1e-3 /
/
COMPSEGS
 'M1' /
 5 5 1 1 0 10 'Z' 3 /
/
`, diag.CodeUnsupported},
		{"compsegs before welsegs", `COMPSEGS
 'M1' /
 5 5 1 1 0 10 /
/
`, diag.CodeInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := build(t, multiSegment+tt.input)
			if !diag.IsCode(err, tt.code) {
				t.Fatalf("err = %v, want %s", err, tt.code)
			}
		})
	}
}
