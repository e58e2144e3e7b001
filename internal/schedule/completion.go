package schedule

import "sort"

// Completion connects a well to one grid cell. Completions are values: a
// change produces a new Completion that replaces the old one in its set.
// Cell indices are zero based.
type Completion struct {
	I, J, K int

	// Number is the one based completion number, the lump number when
	// COMPLUMP has grouped the completion.
	Number    int
	Lumped    bool
	Status    Status
	Direction Direction
	SatTable  int
	CF        float64
	Kh        float64
	Skin      float64
	Diameter  float64
	Depth     float64

	// Segment data, set by COMPSEGS. Segment 0 means unattached.
	Segment       int
	DistanceStart float64
	DistanceEnd   float64
}

// SameCell reports whether c and o sit in the same cell.
func (c Completion) SameCell(o Completion) bool {
	return c.I == o.I && c.J == o.J && c.K == o.K
}

// CompletionSet is an ordered, immutable collection of completions. Every
// mutation returns a new set and leaves the receiver untouched.
type CompletionSet struct {
	list []Completion
}

var emptyCompletions = &CompletionSet{}

func (cs *CompletionSet) Size() int { return len(cs.list) }

// At returns completion i in set order.
func (cs *CompletionSet) At(i int) Completion { return cs.list[i] }

// All returns a copy of the completions in set order.
func (cs *CompletionSet) All() []Completion {
	out := make([]Completion, len(cs.list))
	copy(out, cs.list)
	return out
}

// Find returns the position of the completion in cell i, j, k.
func (cs *CompletionSet) Find(i, j, k int) (int, bool) {
	for n, c := range cs.list {
		if c.I == i && c.J == j && c.K == k {
			return n, true
		}
	}
	return -1, false
}

// AllShut reports whether no completion can flow. An empty set is all shut.
func (cs *CompletionSet) AllShut() bool {
	for _, c := range cs.list {
		if c.Status != Shut {
			return false
		}
	}
	return true
}

// Lumped reports whether any completion was grouped by COMPLUMP.
func (cs *CompletionSet) Lumped() bool {
	for _, c := range cs.list {
		if c.Lumped {
			return true
		}
	}
	return false
}

func (cs *CompletionSet) clone() *CompletionSet {
	return &CompletionSet{list: cs.All()}
}

// With returns a set holding c. A completion in the same cell is replaced
// in place and keeps its number, otherwise c is appended with the next
// number.
func (cs *CompletionSet) With(c Completion) *CompletionSet {
	out := cs.clone()
	if n, ok := cs.Find(c.I, c.J, c.K); ok {
		c.Number = cs.list[n].Number
		out.list[n] = c
		return out
	}
	c.Number = len(cs.list) + 1
	out.list = append(out.list, c)
	return out
}

// Map returns a set with fn applied to every completion.
func (cs *CompletionSet) Map(fn func(Completion) Completion) *CompletionSet {
	out := cs.clone()
	for n := range out.list {
		out.list[n] = fn(out.list[n])
	}
	return out
}

// Ordered returns the set sorted by order. TRACK and INPUT keep insertion
// order, DEPTH sorts by completion depth.
func (cs *CompletionSet) Ordered(order CompletionOrder) *CompletionSet {
	out := cs.clone()
	if order == OrderDepth {
		sort.SliceStable(out.list, func(a, b int) bool { return out.list[a].Depth < out.list[b].Depth })
	}
	return out
}

// Unattached returns the completions not attached to a segment.
func (cs *CompletionSet) Unattached() []Completion {
	var out []Completion
	for _, c := range cs.list {
		if c.Segment == 0 {
			out = append(out, c)
		}
	}
	return out
}
