package grid

import (
	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/diag"
)

// Cartesian is a block-centred grid. All lengths are in metres.
type Cartesian struct {
	dims   Dims
	dx     []float64
	dy     []float64
	dz     []float64
	tops   []float64
	active []int
	nact   int
}

// NewCartesian builds a grid from per-cell arrays. tops may hold either one
// value per cell or only the top layer, deeper layers then stack on DZ.
// A nil actnum makes every cell active.
func NewCartesian(dims Dims, dx, dy, dz, tops []float64, actnum []int) (*Cartesian, error) {
	n := dims.Size()
	for name, arr := range map[string][]float64{"DX": dx, "DY": dy, "DZ": dz} {
		if len(arr) != n {
			return nil, diag.Format(diag.Semantic, diag.CodeInvalidValue,
				"%s has %d values, grid has %d cells", name, len(arr), n)
		}
	}
	layer := dims.NX * dims.NY
	full := make([]float64, n)
	switch len(tops) {
	case n:
		copy(full, tops)
	case layer:
		copy(full, tops)
		for g := layer; g < n; g++ {
			full[g] = full[g-layer] + dz[g-layer]
		}
	default:
		return nil, diag.Format(diag.Semantic, diag.CodeInvalidValue,
			"TOPS has %d values, expected %d or %d", len(tops), layer, n)
	}
	if actnum != nil && len(actnum) != n {
		return nil, diag.Format(diag.Semantic, diag.CodeInvalidValue,
			"ACTNUM has %d values, grid has %d cells", len(actnum), n)
	}

	g := &Cartesian{dims: dims, dx: dx, dy: dy, dz: dz, tops: full, active: make([]int, n)}
	for c := 0; c < n; c++ {
		if actnum != nil && actnum[c] == 0 {
			g.active[c] = -1
			continue
		}
		g.active[c] = g.nact
		g.nact++
	}
	return g, nil
}

// FromDeck builds the grid from DIMENS, DX, DY, DZ, TOPS and ACTNUM.
func FromDeck(d *deck.Deck) (*Cartesian, error) {
	dims, err := DimsFromDeck(d)
	if err != nil {
		return nil, err
	}
	arrays := make(map[string][]float64, 4)
	for _, name := range []string{"DX", "DY", "DZ", "TOPS"} {
		k, ok := d.Last(name)
		if !ok {
			return nil, diag.Format(diag.Semantic, diag.CodeMissingKeyword, "deck has no %s keyword", name)
		}
		r, err := k.Record(0)
		if err != nil {
			return nil, err
		}
		it, err := r.Item("data")
		if err != nil {
			return nil, diag.Locate(err, k.File, k.Line)
		}
		vals, err := it.SIData()
		if err != nil {
			return nil, diag.Locate(err, k.File, k.Line)
		}
		arrays[name] = vals
	}
	var actnum []int
	if k, ok := d.Last("ACTNUM"); ok {
		r, err := k.Record(0)
		if err != nil {
			return nil, err
		}
		it, err := r.Item("data")
		if err != nil {
			return nil, diag.Locate(err, k.File, k.Line)
		}
		actnum = it.Ints()
	}
	g, err := NewCartesian(dims, arrays["DX"], arrays["DY"], arrays["DZ"], arrays["TOPS"], actnum)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Cartesian) Dims() Dims     { return g.dims }
func (g *Cartesian) NumActive() int { return g.nact }

func (g *Cartesian) CellActive(i, j, k int) bool {
	return g.ActiveIndex(i, j, k) >= 0
}

func (g *Cartesian) ActiveIndex(i, j, k int) int {
	if !g.dims.Contains(i, j, k) {
		return -1
	}
	return g.active[g.dims.GlobalIndex(i, j, k)]
}

func (g *Cartesian) CellDepth(i, j, k int) float64 {
	c := g.dims.GlobalIndex(i, j, k)
	return g.tops[c] + g.dz[c]/2
}

func (g *Cartesian) CellSize(i, j, k int) (dx, dy, dz float64) {
	c := g.dims.GlobalIndex(i, j, k)
	return g.dx[c], g.dy[c], g.dz[c]
}

// Uniform returns an all-active grid with constant cell sizes whose top
// layer sits at depth top.
func Uniform(dims Dims, dx, dy, dz, top float64) *Cartesian {
	n := dims.Size()
	fill := func(v float64, size int) []float64 {
		out := make([]float64, size)
		for i := range out {
			out[i] = v
		}
		return out
	}
	g, _ := NewCartesian(dims, fill(dx, n), fill(dy, n), fill(dz, n), fill(top, dims.NX*dims.NY), nil)
	return g
}
