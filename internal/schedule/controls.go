package schedule

import (
	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/diag"
)

// handleWconprod applies WCONPROD and WCONHIST. History controls carry
// observed rates rather than targets.
func handleWconprod(s *Schedule, k *deck.Keyword) error {
	history := k.Name == "WCONHIST"
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
		cmode, err := ParseProducerCMode(rr.str("CMODE"))
		if rr.err != nil {
			return rr.err
		}
		if err != nil {
			return err
		}
		p := Production{
			CMode:     cmode,
			History:   history,
			OilRate:   rr.si("ORAT"),
			WaterRate: rr.si("WRAT"),
			GasRate:   rr.si("GRAT"),
			BHP:       rr.si("BHP"),
			THP:       rr.si("THP"),
			VFPTable:  rr.int("VFP_TABLE"),
		}
		if history {
			p.ALQ = rr.double("LIFT")
			p.LiquidRate = p.OilRate + p.WaterRate
		} else {
			p.LiquidRate = rr.si("LRAT")
			p.ResvRate = rr.si("RESV")
			p.ALQ = rr.double("ALQ")
		}
		if rr.err != nil {
			return rr.err
		}
		for _, w := range wells {
			w.prod.Set(s.step, p)
			w.producer.Set(s.step, true)
			s.setStatus(w, st)
			s.addEvent(EventProductionUpdate)
		}
	}
	return nil
}

// handleWconinje applies WCONINJE and WCONINJH. The surface rate is
// converted with the dimension of the injected phase.
func handleWconinje(s *Schedule, k *deck.Keyword) error {
	history := k.Name == "WCONINJH"
	for _, r := range k.Records() {
		rr := newReader(r, s.units)
		wells, err := s.matchWells(k, rr.str("WELL"))
		if err != nil {
			return err
		}
		typ, err := ParseInjectorType(rr.str("TYPE"))
		if err != nil {
			return err
		}
		st, err := ParseStatus(rr.str("STATUS"))
		if err != nil {
			return err
		}
		cmode, err := ParseInjectorCMode(rr.str("CMODE"))
		if rr.err != nil {
			return rr.err
		}
		if err != nil {
			return err
		}
		inj := Injection{Type: typ, CMode: cmode, History: history, VFPTable: rr.int("VFP_TABLE"), BHP: rr.si("BHP")}
		if rr.has("RATE") {
			dim, err := typ.rateDimension()
			if err != nil {
				return err
			}
			inj.SurfaceRate = rr.siAs("RATE", dim)
		}
		if rr.has("RESV") {
			inj.ResvRate = rr.si("RESV")
		}
		if rr.has("THP") {
			inj.THP = rr.si("THP")
		}
		if rr.err != nil {
			return rr.err
		}
		for _, w := range wells {
			w.inj.Set(s.step, inj)
			w.producer.Set(s.step, false)
			s.setStatus(w, st)
			s.addEvent(EventInjectionUpdate)
		}
	}
	return nil
}

// handleWeltarg changes one control target of producers or injectors.
func handleWeltarg(s *Schedule, k *deck.Keyword) error {
	for _, r := range k.Records() {
		rr := newReader(r, s.units)
		wells, err := s.matchWells(k, rr.str("WELL"))
		if err != nil {
			return err
		}
		mode, err := ParseTargetMode(rr.str("CMODE"))
		if err != nil {
			return err
		}
		raw := rr.double("NEW_VALUE")
		if rr.err != nil {
			return rr.err
		}
		for _, w := range wells {
			if err := s.setTarget(w, mode, raw); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Schedule) setTarget(w *Well, mode TargetMode, raw float64) error {
	dim := targetDimensions[mode]
	injector := w.IsInjector(s.step)
	if injector && (mode == "ORAT" || mode == "WRAT" || mode == "GRAT") {
		d, err := w.inj.At(s.step).Type.rateDimension()
		if err != nil {
			return err
		}
		dim = d
	}
	v := raw
	if dim != "" {
		var err error
		if v, err = s.units.ToSI(dim, raw); err != nil {
			return err
		}
	}

	if mode == "GUID" {
		g := w.guide.At(s.step)
		g.Rate = v
		w.guide.Set(s.step, g)
		return nil
	}
	if injector {
		inj := w.inj.At(s.step)
		switch mode {
		case "ORAT", "WRAT", "GRAT":
			inj.SurfaceRate = v
		case "RESV":
			inj.ResvRate = v
		case "BHP":
			inj.BHP = v
		case "THP":
			inj.THP = v
		case "VFP":
			inj.VFPTable = int(raw)
		default:
			return diag.Format(diag.Semantic, diag.CodeInvalidValue,
				"well %s: %s is not an injector control", w.name, mode)
		}
		w.inj.Set(s.step, inj)
		s.addEvent(EventInjectionUpdate)
		return nil
	}

	p := w.prod.At(s.step)
	switch mode {
	case "ORAT":
		p.OilRate = v
	case "WRAT":
		p.WaterRate = v
	case "GRAT":
		p.GasRate = v
	case "LRAT":
		p.LiquidRate = v
	case "CRAT":
		p.CombinedRate = v
	case "RESV":
		p.ResvRate = v
	case "BHP":
		p.BHP = v
	case "THP":
		p.THP = v
	case "VFP":
		p.VFPTable = int(raw)
	case "LIFT":
		p.ALQ = v
	}
	w.prod.Set(s.step, p)
	s.addEvent(EventProductionUpdate)
	return nil
}

func handleWpolymer(s *Schedule, k *deck.Keyword) error {
	for _, r := range k.Records() {
		rr := newReader(r, s.units)
		wells, err := s.matchWells(k, rr.str("WELL"))
		if err != nil {
			return err
		}
		p := Polymer{
			Concentration: rr.si("POLYMER_CONCENTRATION"),
			Salt:          rr.si("SALT_CONCENTRATION"),
			GroupPolymer:  rr.optStr("GROUP_POLYMER_CONCENTRATION"),
			GroupSalt:     rr.optStr("GROUP_SALT_CONCENTRATION"),
		}
		if rr.err != nil {
			return rr.err
		}
		for _, w := range wells {
			w.polymer.Set(s.step, p)
			s.addEvent(EventPolymerUpdate)
		}
	}
	return nil
}

func handleWgrupcon(s *Schedule, k *deck.Keyword) error {
	for _, r := range k.Records() {
		rr := newReader(r, s.units)
		wells, err := s.matchWells(k, rr.str("WELL"))
		if err != nil {
			return err
		}
		g := GuideRate{
			GroupControlled: rr.yes("GROUP_CONTROLLED"),
			Rate:            rr.double("GUIDE_RATE"),
			Phase:           rr.optStr("PHASE"),
			Scaling:         rr.double("SCALING_FACTOR"),
		}
		if rr.err != nil {
			return rr.err
		}
		for _, w := range wells {
			w.guide.Set(s.step, g)
		}
	}
	return nil
}

// handleGruptree hangs each child group under its parent, creating groups
// not seen before. The tree is copied before it changes.
func handleGruptree(s *Schedule, k *deck.Keyword) error {
	for _, r := range k.Records() {
		rr := newReader(r, s.units)
		child, parent := rr.str("CHILD_GROUP"), rr.str("PARENT_GROUP")
		if rr.err != nil {
			return rr.err
		}
		if child == FieldGroup {
			return diag.Format(diag.Semantic, diag.CodeInvalidValue, "FIELD cannot have a parent")
		}
		tree := s.tree.At(s.step)
		if child == parent || tree.isAncestor(child, parent) {
			return diag.Format(diag.Semantic, diag.CodeInvalidValue,
				"group %s cannot be placed under %s", child, parent)
		}
		s.ensureGroup(parent)
		s.ensureGroup(child)
		tree = s.tree.At(s.step)
		if p, _ := tree.Parent(child); p != parent {
			s.tree.Set(s.step, tree.with(child, parent))
			s.addEvent(EventGroupTreeChange)
		}
	}
	return nil
}

func handleGconprod(s *Schedule, k *deck.Keyword) error {
	for _, r := range k.Records() {
		rr := newReader(r, s.units)
		g, err := s.Group(rr.str("GROUP"))
		if err != nil {
			return err
		}
		cmode, err := ParseGroupProdCMode(rr.str("CONTROL_MODE"))
		if err != nil {
			return err
		}
		p := GroupProduction{
			CMode:           cmode,
			OilTarget:       rr.si("OIL_TARGET"),
			WaterTarget:     rr.si("WATER_TARGET"),
			GasTarget:       rr.si("GAS_TARGET"),
			LiquidTarget:    rr.si("LIQUID_TARGET"),
			ResvTarget:      rr.si("RESERVOIR_FLUID_TARGET"),
			ExceedProcedure: rr.str("EXCEED_PROC"),
			RespondToParent: rr.yes("RESPOND_TO_PARENT"),
			GuideRate:       rr.double("GUIDE_RATE"),
			GuideRateDef:    rr.str("GUIDE_RATE_DEF"),
		}
		if rr.err != nil {
			return rr.err
		}
		g.prod.Set(s.step, p)
		s.addEvent(EventGroupChange)
	}
	return nil
}

func handleGconinje(s *Schedule, k *deck.Keyword) error {
	for _, r := range k.Records() {
		rr := newReader(r, s.units)
		g, err := s.Group(rr.str("GROUP"))
		if err != nil {
			return err
		}
		phase, err := ParseInjectorType(rr.str("PHASE"))
		if err != nil {
			return err
		}
		cmode, err := ParseGroupInjCMode(rr.str("CONTROL_MODE"))
		if err != nil {
			return err
		}
		dim, err := phase.rateDimension()
		if err != nil {
			return err
		}
		inj := GroupInjection{
			Phase:           phase,
			CMode:           cmode,
			SurfaceTarget:   rr.siAs("SURFACE_TARGET", dim),
			ResvTarget:      rr.si("RESV_TARGET"),
			ReinjTarget:     rr.double("REINJ_TARGET"),
			VoidageTarget:   rr.double("VOIDAGE_TARGET"),
			RespondToParent: rr.yes("RESPOND_TO_PARENT"),
			GuideRate:       rr.double("GUIDE_RATE"),
		}
		if rr.err != nil {
			return rr.err
		}
		g.inj.Set(s.step, inj)
		s.addEvent(EventGroupChange)
	}
	return nil
}

// handleTuning updates the solver controls. Records are applied in order
// and independently.
func handleTuning(s *Schedule, k *deck.Keyword) error {
	t := s.tuning.At(s.step)
	for n, r := range k.Records() {
		if n >= len(tuningRecords) {
			break
		}
		if err := t.applyRecord(n, newReader(r, s.units)); err != nil {
			return err
		}
	}
	s.tuning.Set(s.step, t)
	s.addEvent(EventTuningChange)
	return nil
}

func handleWrft(s *Schedule, k *deck.Keyword) error {
	for _, r := range k.Records() {
		rr := newReader(r, s.units)
		wells := s.Wells(s.step)
		if rr.given("WELL") {
			var err error
			if wells, err = s.matchWells(k, rr.str("WELL")); err != nil {
				return err
			}
		}
		for _, w := range wells {
			w.rft.once(s.step)
			s.addEvent(EventRFTRequest)
		}
	}
	return nil
}

func handleWrftplt(s *Schedule, k *deck.Keyword) error {
	for _, r := range k.Records() {
		rr := newReader(r, s.units)
		wells, err := s.matchWells(k, rr.str("WELL"))
		if err != nil {
			return err
		}
		rft, plt := rr.str("OUTPUT_RFT"), rr.str("OUTPUT_PLT")
		if rr.err != nil {
			return rr.err
		}
		for _, w := range wells {
			open := w.Status(s.step) == Open
			if err := w.rft.apply(s.step, rft, open); err != nil {
				return err
			}
			if err := w.plt.apply(s.step, plt, open); err != nil {
				return err
			}
			if w.RFTActive(s.step) || w.PLTActive(s.step) {
				s.addEvent(EventRFTRequest)
			}
		}
	}
	return nil
}

func handleWelsegs(s *Schedule, k *deck.Keyword) error {
	ss, err := segmentsFromKeyword(k, s.units)
	if err != nil {
		return err
	}
	w, err := s.Well(ss.Well)
	if err != nil {
		return err
	}
	w.segments.Set(s.step, ss)
	s.addEvent(EventWellSegmentsChange)
	return nil
}

func handleCompsegs(s *Schedule, k *deck.Keyword) error {
	name, list, err := compsegsFromKeyword(k, s.units)
	if err != nil {
		return err
	}
	w, err := s.Well(name)
	if err != nil {
		return err
	}
	ss := w.Segments(s.step)
	if ss == nil {
		return diag.Format(diag.Semantic, diag.CodeInvalidValue,
			"COMPSEGS for well %s before its WELSEGS", name)
	}
	cs, err := attach(w.conns.At(s.step), ss, list)
	if err != nil {
		return err
	}
	s.setCompletions(w, cs)
	return nil
}
