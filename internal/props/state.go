package props

import (
	"fmt"

	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/grid"
)

// Phase is a fluid phase enabled in RUNSPEC.
type Phase string

const (
	Oil   Phase = "OIL"
	Water Phase = "WATER"
	Gas   Phase = "GAS"
)

var phaseKeywords = []Phase{Oil, Water, Gas}

// State is the static, read-only model derived from a deck: the grid,
// 3D properties, tables and active phases.
type State struct {
	Grid   grid.Grid
	Props  *Properties
	Tables *Tables
	Phases []Phase
}

// HasPhase reports whether p is enabled.
func (s *State) HasPhase(p Phase) bool {
	for _, q := range s.Phases {
		if q == p {
			return true
		}
	}
	return false
}

// Build derives the static state of d. When g is nil the grid is built from
// the cartesian keywords of the deck.
func Build(d *deck.Deck, g grid.Grid) (*State, error) {
	if g == nil {
		cg, err := grid.FromDeck(d)
		if err != nil {
			return nil, fmt.Errorf("build grid: %w", err)
		}
		g = cg
	}
	ps, err := BuildProperties(d, g.Dims())
	if err != nil {
		return nil, fmt.Errorf("build properties: %w", err)
	}
	ts, err := BuildTables(d)
	if err != nil {
		return nil, fmt.Errorf("build tables: %w", err)
	}
	s := &State{Grid: g, Props: ps, Tables: ts}
	for _, p := range phaseKeywords {
		if d.Has(string(p)) {
			s.Phases = append(s.Phases, p)
		}
	}
	return s, nil
}
