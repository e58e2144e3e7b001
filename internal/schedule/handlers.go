package schedule

import (
	"fmt"
	"math"

	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/diag"
)

type handler func(s *Schedule, k *deck.Keyword) error

// handlers maps each SCHEDULE keyword with an effect on the model to the
// function applying it. Other keywords are skipped.
var handlers = map[string]handler{
	"DATES":    handleTime,
	"TSTEP":    handleTime,
	"WELSPECS": handleWelspecs,
	"COMPDAT":  handleCompdat,
	"COMPORD":  handleCompord,
	"COMPLUMP": handleComplump,
	"WELOPEN":  handleWelopen,
	"WCONPROD": handleWconprod,
	"WCONHIST": handleWconprod,
	"WCONINJE": handleWconinje,
	"WCONINJH": handleWconinje,
	"WELTARG":  handleWeltarg,
	"WPOLYMER": handleWpolymer,
	"WGRUPCON": handleWgrupcon,
	"GRUPTREE": handleGruptree,
	"GCONPROD": handleGconprod,
	"GCONINJE": handleGconinje,
	"TUNING":   handleTuning,
	"WRFT":     handleWrft,
	"WRFTPLT":  handleWrftplt,
	"WELSEGS":  handleWelsegs,
	"COMPSEGS": handleCompsegs,
}

// handleTime closes the current step and advances by the steps the
// keyword adds to the time map.
func handleTime(s *Schedule, k *deck.Keyword) error {
	if err := s.checkAttached(); err != nil {
		return err
	}
	n, err := s.tm.AddKeyword(k)
	if err != nil {
		return err
	}
	s.step += n
	return nil
}

func handleWelspecs(s *Schedule, k *deck.Keyword) error {
	for _, r := range k.Records() {
		rr := newReader(r, s.units)
		name, group := rr.str("WELL"), rr.str("GROUP")
		hi, hj := rr.int("HEAD_I")-1, rr.int("HEAD_J")-1
		phase, err := ParsePhase(rr.str("PHASE"))
		if rr.err != nil {
			return rr.err
		}
		if err != nil {
			return err
		}
		if s.grid != nil && !s.grid.Dims().Contains(hi, hj, 0) {
			return diag.Format(diag.Semantic, diag.CodeOutOfRange,
				"well %s: head %d %d is outside the grid", name, hi+1, hj+1)
		}

		w, ok := s.wells[name]
		if !ok {
			w = newWell(name, s.step, hi, hj)
			s.wells[name] = w
			s.wellOrder = append(s.wellOrder, name)
			s.addEvent(EventNewWell)
		} else if w.headI != hi || w.headJ != hj {
			return diag.Format(diag.Semantic, diag.CodeHeadMismatch,
				"well %s: head %d %d differs from %d %d given before",
				name, hi+1, hj+1, w.headI+1, w.headJ+1)
		}
		if rr.given("REF_DEPTH") {
			w.refDepth.Set(s.step, rr.si("REF_DEPTH"))
			w.refGiven.Set(s.step, true)
		}
		w.phase.Set(s.step, phase)

		g := s.ensureGroup(group)
		if prev := w.group.At(s.step); prev != group {
			if prev != "" {
				s.groups[prev].removeWell(s.step, name)
			}
			g.addWell(s.step, name)
			w.group.Set(s.step, group)
			s.addEvent(EventGroupChange)
		}
		if rr.err != nil {
			return rr.err
		}
	}
	return nil
}

// defaultDiameter is the wellbore diameter used when COMPDAT gives none.
const defaultDiameter = 0.3048

func handleCompdat(s *Schedule, k *deck.Keyword) error {
	for _, r := range k.Records() {
		rr := newReader(r, s.units)
		wells, err := s.matchWells(k, rr.str("WELL"))
		if err != nil {
			return err
		}
		st, err := ParseStatus(rr.str("STATE"))
		if err != nil {
			return err
		}
		dir, err := ParseDirection(rr.str("DIR"))
		if err != nil {
			return err
		}
		k1, k2 := rr.int("K1")-1, rr.int("K2")-1
		tmpl := Completion{
			Status:    completionStatus(st),
			Direction: dir,
			SatTable:  rr.int("SAT_TABLE"),
			Skin:      rr.si("SKIN"),
			Diameter:  defaultDiameter,
			Kh:        -1,
		}
		if rr.given("DIAMETER") {
			tmpl.Diameter = rr.si("DIAMETER")
		}
		if rr.given("Kh") {
			tmpl.Kh = rr.si("Kh")
		}
		cfGiven := rr.given("CONNECTION_TRANSMISSIBILITY_FACTOR")
		if cfGiven {
			tmpl.CF = rr.si("CONNECTION_TRANSMISSIBILITY_FACTOR")
		}
		if rr.err != nil {
			return rr.err
		}
		if k1 < 0 || k2 < k1 {
			return diag.Format(diag.Semantic, diag.CodeInvalidValue, "bad layer range %d-%d", k1+1, k2+1)
		}

		for _, w := range wells {
			i, j := rr.index("I"), rr.index("J")
			if i < 0 {
				i = w.headI
			}
			if j < 0 {
				j = w.headJ
			}
			cs := w.conns.At(s.step)
			for kk := k1; kk <= k2; kk++ {
				c := tmpl
				c.I, c.J, c.K = i, j, kk
				if s.grid != nil {
					if !s.grid.Dims().Contains(i, j, kk) {
						return diag.Format(diag.Semantic, diag.CodeOutOfRange,
							"well %s: cell %d %d %d is outside the grid", w.name, i+1, j+1, kk+1)
					}
					if !s.grid.CellActive(i, j, kk) {
						s.msgs.Note("INACTIVE_CELL", k.File, k.Line,
							fmt.Sprintf("well %s: completion in inactive cell %d %d %d ignored", w.name, i+1, j+1, kk+1))
						continue
					}
					c.Depth = s.grid.CellDepth(i, j, kk)
					if !cfGiven {
						c.CF, c.Kh = s.connectionFactor(c)
					}
				}
				cs = cs.With(c)
			}
			s.setCompletions(w, cs)
		}
	}
	return nil
}

// connectionFactor computes the Peaceman connection factor of c from the
// cell size and permeabilities. It returns 0 when permeabilities are not
// known.
func (s *Schedule) connectionFactor(c Completion) (cf, kh float64) {
	kh = c.Kh
	if s.props == nil {
		return 0, kh
	}
	names := map[Direction][2]string{
		DirX: {"PERMY", "PERMZ"},
		DirY: {"PERMX", "PERMZ"},
		DirZ: {"PERMX", "PERMY"},
	}[c.Direction]
	p1, ok1 := s.props.Get(names[0])
	p2, ok2 := s.props.Get(names[1])
	if !ok1 || !ok2 {
		return 0, kh
	}
	cell := s.grid.Dims().GlobalIndex(c.I, c.J, c.K)
	k1, k2 := p1.Values[cell], p2.Values[cell]
	if k1 <= 0 || k2 <= 0 {
		return 0, kh
	}
	dx, dy, dz := s.grid.CellSize(c.I, c.J, c.K)
	d1, d2, h := dx, dy, dz
	switch c.Direction {
	case DirX:
		d1, d2, h = dy, dz, dx
	case DirY:
		d1, d2, h = dx, dz, dy
	}
	if kh <= 0 {
		kh = math.Sqrt(k1*k2) * h
	}
	r21, r12 := math.Sqrt(k2/k1), math.Sqrt(k1/k2)
	ro := 0.28 * math.Sqrt(d1*d1*r21+d2*d2*r12) / (math.Sqrt(r21) + math.Sqrt(r12))
	rw := c.Diameter / 2
	denom := math.Log(ro/rw) + c.Skin
	if denom <= 0 {
		return 0, kh
	}
	return 2 * math.Pi * kh / denom, kh
}

func handleCompord(s *Schedule, k *deck.Keyword) error {
	for _, r := range k.Records() {
		rr := newReader(r, s.units)
		wells, err := s.matchWells(k, rr.str("WELL"))
		if err != nil {
			return err
		}
		order, err := ParseCompletionOrder(rr.str("ORDER_TYPE"))
		if rr.err != nil {
			return rr.err
		}
		if err != nil {
			return err
		}
		for _, w := range wells {
			w.order.Set(s.step, order)
		}
	}
	return nil
}

// cellFilter selects completions by cell. Negative bounds match anything.
type cellFilter struct {
	i, j, k1, k2 int
}

func (f cellFilter) match(c Completion) bool {
	return (f.i < 0 || c.I == f.i) &&
		(f.j < 0 || c.J == f.j) &&
		(f.k1 < 0 || c.K >= f.k1) &&
		(f.k2 < 0 || c.K <= f.k2)
}

func handleComplump(s *Schedule, k *deck.Keyword) error {
	for _, r := range k.Records() {
		rr := newReader(r, s.units)
		wells, err := s.matchWells(k, rr.str("WELL"))
		if err != nil {
			return err
		}
		f := cellFilter{i: rr.index("I"), j: rr.index("J"), k1: rr.index("K1"), k2: rr.index("K2")}
		n := rr.int("N")
		if rr.err != nil {
			return rr.err
		}
		if n < 1 {
			return diag.Format(diag.Semantic, diag.CodeInvalidValue, "bad completion number %d", n)
		}
		for _, w := range wells {
			cs := w.conns.At(s.step).Map(func(c Completion) Completion {
				if f.match(c) {
					c.Number, c.Lumped = n, true
				}
				return c
			})
			s.setCompletions(w, cs)
		}
	}
	return nil
}

// handleWelopen sets the status of whole wells, or of the completions
// selected by cell and completion number.
func handleWelopen(s *Schedule, k *deck.Keyword) error {
	for _, r := range k.Records() {
		rr := newReader(r, s.units)
		wells, err := s.matchWells(k, rr.str("WELL"))
		if err != nil {
			return err
		}
		st, err := ParseStatus(rr.str("STATUS"))
		if err != nil {
			return err
		}
		k0 := rr.index("K")
		f := cellFilter{i: rr.index("I"), j: rr.index("J"), k1: k0, k2: k0}
		c1, c2 := rr.index("C1"), rr.index("C2")
		if rr.err != nil {
			return rr.err
		}
		ranged := c1 >= 0 || c2 >= 0
		if f.i < 0 && f.j < 0 && k0 < 0 && !ranged {
			for _, w := range wells {
				s.setStatus(w, st)
			}
			continue
		}

		for _, w := range wells {
			cs := w.conns.At(s.step)
			if ranged && cs.Lumped() {
				return diag.Format(diag.Semantic, diag.CodeUnsupported,
					"well %s: WELOPEN completion ranges on lumped completions", w.name)
			}
			cs = cs.Map(func(c Completion) Completion {
				if !f.match(c) ||
					(c1 >= 0 && c.Number < c1+1) ||
					(c2 >= 0 && c.Number > c2+1) {
					return c
				}
				c.Status = completionStatus(st)
				return c
			})
			s.setCompletions(w, cs)
			if st == Open {
				s.setStatus(w, Open)
			}
		}
	}
	return nil
}
