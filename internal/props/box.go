package props

import (
	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/grid"
)

// Box is an inclusive, zero based cell range.
type Box struct {
	I1, I2, J1, J2, K1, K2 int
}

// FullBox covers the whole grid.
func FullBox(d grid.Dims) Box {
	return Box{I2: d.NX - 1, J2: d.NY - 1, K2: d.NZ - 1}
}

// Size returns the number of cells in the box.
func (b Box) Size() int {
	return (b.I2 - b.I1 + 1) * (b.J2 - b.J1 + 1) * (b.K2 - b.K1 + 1)
}

func (b Box) each(d grid.Dims, fn func(g int)) {
	for k := b.K1; k <= b.K2; k++ {
		for j := b.J1; j <= b.J2; j++ {
			for i := b.I1; i <= b.I2; i++ {
				fn(d.GlobalIndex(i, j, k))
			}
		}
	}
}

var boxItems = [6]string{"I1", "I2", "J1", "J2", "K1", "K2"}

// boxFromRecord reads the one based I1..K2 items of r. Defaulted items keep
// the bound of base.
func boxFromRecord(r *deck.Record, base Box, d grid.Dims) (Box, error) {
	bounds := [6]int{base.I1, base.I2, base.J1, base.J2, base.K1, base.K2}
	for n, name := range boxItems {
		if !r.Has(name) {
			continue
		}
		it, _ := r.Item(name)
		if it.DefaultApplied(0) {
			continue
		}
		v, err := it.Int(0)
		if err != nil {
			return Box{}, err
		}
		bounds[n] = v - 1
	}
	b := Box{I1: bounds[0], I2: bounds[1], J1: bounds[2], J2: bounds[3], K1: bounds[4], K2: bounds[5]}
	if b.I1 < 0 || b.J1 < 0 || b.K1 < 0 || b.I2 >= d.NX || b.J2 >= d.NY || b.K2 >= d.NZ ||
		b.I1 > b.I2 || b.J1 > b.J2 || b.K1 > b.K2 {
		return Box{}, diag.Format(diag.Semantic, diag.CodeOutOfRange,
			"box %d-%d %d-%d %d-%d outside grid %dx%dx%d",
			b.I1+1, b.I2+1, b.J1+1, b.J2+1, b.K1+1, b.K2+1, d.NX, d.NY, d.NZ)
	}
	return b, nil
}
