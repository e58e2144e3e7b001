package schedule

import (
	"strings"

	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/units"
)

// Segment is a node of a multi-segment well. Outlet refers to another
// segment of the same set by number; 0 marks the top segment.
type Segment struct {
	Number      int
	Branch      int
	Outlet      int
	TotalLength float64
	Depth       float64
	Diameter    float64
	Roughness   float64
	Area        float64
	Volume      float64

	// DataReady is false while TotalLength and Depth wait to be resolved
	// from the segments around it.
	DataReady bool
}

// LengthDepthType tells whether WELSEGS lengths and depths are increments
// or absolute values.
type LengthDepthType string

const (
	Incremental LengthDepthType = "INC"
	Absolute    LengthDepthType = "ABS"
)

// SegmentSet is the segment structure of one well, immutable once built.
type SegmentSet struct {
	Well      string
	Type      LengthDepthType
	TopDepth  float64
	TopLength float64
	segments  []Segment
	index     map[int]int
}

func (ss *SegmentSet) Size() int { return len(ss.segments) }

// At returns segment i in set order.
func (ss *SegmentSet) At(i int) Segment { return ss.segments[i] }

// All returns a copy of the segments in set order.
func (ss *SegmentSet) All() []Segment {
	out := make([]Segment, len(ss.segments))
	copy(out, ss.segments)
	return out
}

// Get returns the segment numbered n.
func (ss *SegmentSet) Get(n int) (Segment, bool) {
	i, ok := ss.index[n]
	if !ok {
		return Segment{}, false
	}
	return ss.segments[i], true
}

// Inlet returns the first segment on branch whose outlet is n.
func (ss *SegmentSet) Inlet(n, branch int) (Segment, bool) {
	for _, s := range ss.segments {
		if s.Outlet == n && s.Branch == branch {
			return s, true
		}
	}
	return Segment{}, false
}

func (ss *SegmentSet) add(s Segment) error {
	if _, dup := ss.index[s.Number]; dup {
		return diag.Format(diag.Semantic, diag.CodeInvalidValue, "segment %d defined twice", s.Number)
	}
	ss.index[s.Number] = len(ss.segments)
	ss.segments = append(ss.segments, s)
	return nil
}

func (ss *SegmentSet) ptr(n int) *Segment {
	i, ok := ss.index[n]
	if !ok {
		return nil
	}
	return &ss.segments[i]
}

// segmentsFromKeyword builds the segment set of one WELSEGS keyword.
func segmentsFromKeyword(k *deck.Keyword, u *units.UnitSystem) (*SegmentSet, error) {
	head, err := k.Record(0)
	if err != nil {
		return nil, err
	}
	hr := newReader(head, u)
	ss := &SegmentSet{
		Well:      hr.str("WELL"),
		TopDepth:  hr.si("DEPTH"),
		TopLength: hr.si("LENGTH"),
		Type:      LengthDepthType(strings.ToUpper(hr.str("INFO_TYPE"))),
		index:     make(map[int]int),
	}
	if hr.err != nil {
		return nil, hr.err
	}
	if ss.Type != Incremental && ss.Type != Absolute {
		return nil, diag.Format(diag.Semantic, diag.CodeInvalidValue, "unknown length and depth type %q", ss.Type)
	}
	top := Segment{Number: 1, Branch: 1, TotalLength: ss.TopLength, Depth: ss.TopDepth, DataReady: true}
	if hr.given("WELLBORE_VOLUME") {
		top.Volume = hr.si("WELLBORE_VOLUME")
	}
	if err := ss.add(top); err != nil {
		return nil, err
	}

	for _, r := range k.Records()[1:] {
		if err := ss.addRange(newReader(r, u)); err != nil {
			return nil, err
		}
	}
	if ss.Type == Absolute {
		if err := ss.resolveAbsolute(); err != nil {
			return nil, err
		}
	}
	return ss, nil
}

// addRange adds the segments SEGMENT1..SEGMENT2 of one WELSEGS record. The
// first hangs off JOIN_SEGMENT, each following one off its predecessor.
func (ss *SegmentSet) addRange(rr *recordReader) error {
	s1, s2 := rr.int("SEGMENT1"), rr.int("SEGMENT2")
	branch, join := rr.int("BRANCH"), rr.int("JOIN_SEGMENT")
	length, dz := rr.si("SEGMENT_LENGTH"), rr.si("DEPTH_CHANGE")
	var diameter, roughness, area, volume float64
	if rr.has("DIAMETER") {
		diameter = rr.si("DIAMETER")
	}
	if rr.has("ROUGHNESS") {
		roughness = rr.si("ROUGHNESS")
	}
	if rr.given("AREA") {
		area = rr.si("AREA")
	}
	if rr.given("VOLUME") {
		volume = rr.si("VOLUME")
	}
	if rr.err != nil {
		return rr.err
	}
	if s1 < 2 || s2 < s1 {
		return diag.Format(diag.Semantic, diag.CodeInvalidValue, "bad segment range %d-%d", s1, s2)
	}
	if branch < 1 {
		return diag.Format(diag.Semantic, diag.CodeInvalidValue, "bad branch %d", branch)
	}

	outlet := join
	for n := s1; n <= s2; n++ {
		s := Segment{Number: n, Branch: branch, Outlet: outlet,
			Diameter: diameter, Roughness: roughness, Area: area, Volume: volume}
		switch ss.Type {
		case Incremental:
			if length <= 0 {
				return diag.Format(diag.Semantic, diag.CodeBadLength,
					"segment %d has non-positive length %g", n, length)
			}
			base := ss.ptr(outlet)
			if base == nil {
				return diag.Format(diag.Semantic, diag.CodeUnresolvedSegment,
					"segment %d has unknown outlet %d", n, outlet)
			}
			s.TotalLength = base.TotalLength + length
			s.Depth = base.Depth + dz
			s.DataReady = true
		case Absolute:
			if n == s2 {
				s.TotalLength, s.Depth, s.DataReady = length, dz, true
			}
		}
		if err := ss.add(s); err != nil {
			return err
		}
		outlet = n
	}
	return nil
}

// resolveAbsolute fills the segments of ABS ranges that were given no
// values: each is interpolated between its outlet and the next ready
// segment down its branch. Passes repeat until every segment is ready.
func (ss *SegmentSet) resolveAbsolute() error {
	for {
		pending, progress := 0, false
		for i := range ss.segments {
			s := &ss.segments[i]
			if s.DataReady {
				continue
			}
			pending++
			out := ss.ptr(s.Outlet)
			if out == nil {
				return diag.Format(diag.Semantic, diag.CodeUnresolvedSegment,
					"segment %d has unknown outlet %d", s.Number, s.Outlet)
			}
			if !out.DataReady {
				continue
			}
			end, steps := ss.nextReady(s.Number, s.Branch)
			if end == nil {
				return diag.Format(diag.Semantic, diag.CodeUnresolvedSegment,
					"segment %d has no ready segment below it", s.Number)
			}
			s.TotalLength = out.TotalLength + (end.TotalLength-out.TotalLength)/float64(steps+1)
			s.Depth = out.Depth + (end.Depth-out.Depth)/float64(steps+1)
			s.DataReady = true
			pending--
			progress = true
		}
		if pending == 0 {
			break
		}
		if !progress {
			return diag.Format(diag.Semantic, diag.CodeUnresolvedSegment,
				"%d segments of well %s cannot be resolved", pending, ss.Well)
		}
	}
	for i := range ss.segments {
		s := ss.segments[i]
		if s.Outlet == 0 {
			continue
		}
		if out := ss.ptr(s.Outlet); s.TotalLength <= out.TotalLength {
			return diag.Format(diag.Semantic, diag.CodeBadLength,
				"segment %d does not extend beyond its outlet %d", s.Number, s.Outlet)
		}
	}
	return nil
}

// nextReady follows inlets of n on branch until a ready segment and returns
// it with the number of steps taken.
func (ss *SegmentSet) nextReady(n, branch int) (*Segment, int) {
	steps := 0
	for cur := n; ; {
		in, ok := ss.Inlet(cur, branch)
		if !ok {
			return nil, 0
		}
		steps++
		if in.DataReady {
			return ss.ptr(in.Number), steps
		}
		cur = in.Number
	}
}
