package schedule

import (
	"math"

	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/units"
)

// compseg links one perforated cell to a distance range along a branch.
// It lives only while a COMPSEGS keyword is applied.
type compseg struct {
	I, J, K       int
	Branch        int
	DistanceStart float64
	DistanceEnd   float64
	CenterDepth   float64
	Segment       int
}

func (c compseg) center() float64 {
	return (c.DistanceStart + c.DistanceEnd) / 2
}

// compsegsFromKeyword reads the well name and the cell records of COMPSEGS.
func compsegsFromKeyword(k *deck.Keyword, u *units.UnitSystem) (string, []compseg, error) {
	head, err := k.Record(0)
	if err != nil {
		return "", nil, err
	}
	hr := newReader(head, u)
	well := hr.str("WELL")
	if hr.err != nil {
		return "", nil, hr.err
	}
	var out []compseg
	for _, r := range k.Records()[1:] {
		rr := newReader(r, u)
		if rr.given("DIRECTION") || rr.given("END_IJK") {
			return "", nil, diag.Format(diag.Semantic, diag.CodeUnsupported,
				"ranged COMPSEGS records are not supported")
		}
		c := compseg{
			I:      rr.int("I") - 1,
			J:      rr.int("J") - 1,
			K:      rr.int("K") - 1,
			Branch: rr.int("BRANCH"),
		}
		if rr.given("SEGMENT_NUMBER") {
			c.Segment = rr.int("SEGMENT_NUMBER")
		}
		if !rr.given("DISTANCE_START") || !rr.given("DISTANCE_END") {
			return "", nil, diag.Format(diag.Semantic, diag.CodeInvalidValue,
				"COMPSEGS record for cell %d %d %d needs both distances", c.I+1, c.J+1, c.K+1)
		}
		c.DistanceStart = rr.si("DISTANCE_START")
		c.DistanceEnd = rr.si("DISTANCE_END")
		if rr.given("CENTER_DEPTH") {
			c.CenterDepth = rr.si("CENTER_DEPTH")
		}
		if rr.err != nil {
			return "", nil, rr.err
		}
		out = append(out, c)
	}
	return well, out, nil
}

// resolveSegment finds the segment of c: the explicit one when given,
// otherwise the segment of the branch whose total length is nearest the
// centre of the perforation. Ties go to the first in set order.
func resolveSegment(c compseg, ss *SegmentSet) (Segment, error) {
	if c.Segment > 0 {
		s, ok := ss.Get(c.Segment)
		if !ok {
			return Segment{}, diag.Format(diag.Semantic, diag.CodeUnresolvedSegment,
				"segment %d does not exist", c.Segment)
		}
		return s, nil
	}
	center := c.center()
	best, found := Segment{}, false
	bestDiff := math.Inf(1)
	for _, s := range ss.segments {
		if s.Branch != c.Branch {
			continue
		}
		if d := math.Abs(s.TotalLength - center); d < bestDiff {
			best, bestDiff, found = s, d, true
		}
	}
	if !found {
		return Segment{}, diag.Format(diag.Semantic, diag.CodeUnresolvedSegment,
			"no segment on branch %d for cell %d %d %d", c.Branch, c.I+1, c.J+1, c.K+1)
	}
	return best, nil
}

// centerDepth returns the depth of the perforation centre. A given depth
// wins. Otherwise the top segment gives its own depth and other segments
// interpolate along total length towards their outlet, or towards the
// inlet on the same branch when the centre lies beyond the segment.
func centerDepth(c compseg, s Segment, ss *SegmentSet) (float64, error) {
	if c.CenterDepth != 0 {
		return c.CenterDepth, nil
	}
	if s.Number == 1 {
		return s.Depth, nil
	}
	center := c.center()
	other, ok := Segment{}, false
	if center > s.TotalLength {
		other, ok = ss.Inlet(s.Number, s.Branch)
	}
	if !ok {
		other, ok = ss.Get(s.Outlet)
		if !ok {
			return 0, diag.Format(diag.Semantic, diag.CodeUnresolvedSegment,
				"segment %d has unknown outlet %d", s.Number, s.Outlet)
		}
	}
	span := other.TotalLength - s.TotalLength
	if span == 0 {
		return 0, diag.Format(diag.Semantic, diag.CodeZeroSpan,
			"segments %d and %d have the same total length", s.Number, other.Number)
	}
	return s.Depth + (center-s.TotalLength)/span*(other.Depth-s.Depth), nil
}

// attach resolves every compseg against ss and folds the result into the
// matching completion of cs.
func attach(cs *CompletionSet, ss *SegmentSet, list []compseg) (*CompletionSet, error) {
	out := cs.clone()
	for _, c := range list {
		n, ok := out.Find(c.I, c.J, c.K)
		if !ok {
			return nil, diag.Format(diag.Semantic, diag.CodeInvalidValue,
				"well %s has no completion in cell %d %d %d", ss.Well, c.I+1, c.J+1, c.K+1)
		}
		s, err := resolveSegment(c, ss)
		if err != nil {
			return nil, err
		}
		depth, err := centerDepth(c, s, ss)
		if err != nil {
			return nil, err
		}
		comp := &out.list[n]
		comp.Segment = s.Number
		comp.Depth = depth
		comp.DistanceStart = c.DistanceStart
		comp.DistanceEnd = c.DistanceEnd
	}
	return out, nil
}
