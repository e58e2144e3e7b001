// Package grid describes the cell grid a deck runs on. The model builders
// only need the Grid interface; Cartesian is the block-centred grid built
// from DX, DY, DZ and TOPS.
package grid

import (
	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/diag"
)

// Grid answers the cell queries of the model builders. Indices are zero
// based.
type Grid interface {
	Dims() Dims
	CellActive(i, j, k int) bool
	// CellDepth is the depth of the cell centre in metres.
	CellDepth(i, j, k int) float64
	// CellSize returns the cell extent in metres along x, y and z.
	CellSize(i, j, k int) (dx, dy, dz float64)
	// ActiveIndex returns the position of the cell among active cells, or
	// -1 for inactive cells.
	ActiveIndex(i, j, k int) int
	NumActive() int
}

// Dims is the logical size of a grid.
type Dims struct {
	NX, NY, NZ int
}

// Size returns the number of cells.
func (d Dims) Size() int { return d.NX * d.NY * d.NZ }

// Contains reports whether (i, j, k) lies inside the grid.
func (d Dims) Contains(i, j, k int) bool {
	return i >= 0 && i < d.NX && j >= 0 && j < d.NY && k >= 0 && k < d.NZ
}

// GlobalIndex returns the natural (i fastest) index of a cell.
func (d Dims) GlobalIndex(i, j, k int) int {
	return i + d.NX*(j+d.NY*k)
}

// IJK inverts GlobalIndex.
func (d Dims) IJK(g int) (i, j, k int) {
	i = g % d.NX
	j = (g / d.NX) % d.NY
	k = g / (d.NX * d.NY)
	return i, j, k
}

// DimsFromDeck reads DIMENS.
func DimsFromDeck(d *deck.Deck) (Dims, error) {
	k, ok := d.Last("DIMENS")
	if !ok {
		return Dims{}, diag.Format(diag.Semantic, diag.CodeMissingKeyword, "deck has no DIMENS keyword")
	}
	r, err := k.Record(0)
	if err != nil {
		return Dims{}, err
	}
	var out [3]int
	for n, name := range []string{"NX", "NY", "NZ"} {
		it, err := r.Item(name)
		if err != nil {
			return Dims{}, diag.Locate(err, k.File, k.Line)
		}
		v, err := it.Int(0)
		if err != nil {
			return Dims{}, diag.Locate(err, k.File, k.Line)
		}
		if v <= 0 {
			return Dims{}, k.Errorf(diag.CodeInvalidValue, "DIMENS %s must be positive, got %d", name, v)
		}
		out[n] = v
	}
	return Dims{NX: out[0], NY: out[1], NZ: out[2]}, nil
}
