package store

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/model"
	"github.com/rcliao/simdeck/internal/schedule"
)

// keywordEntries renders every keyword of d, tagged with its section.
func keywordEntries(d *deck.Deck) []model.KeywordEntry {
	var out []model.KeywordEntry
	section := ""
	for i, k := range d.Keywords() {
		if deck.IsSectionName(k.Name) {
			section = k.Name
		}
		out = append(out, model.KeywordEntry{
			Seq:     i,
			Name:    k.Name,
			Section: section,
			File:    k.File,
			Line:    k.Line,
			Records: k.Size(),
			Known:   k.Known(),
			Text:    RenderKeyword(k),
		})
	}
	return out
}

// RenderKeyword writes k back as deck text: the name, then one line per
// record. Defaulted positions print as 1*, strings are quoted. Unknown
// keywords keep their raw lines.
func RenderKeyword(k *deck.Keyword) string {
	var b strings.Builder
	b.WriteString(k.Name)
	if !k.Known() {
		for _, l := range k.Raw {
			b.WriteString("\n  ")
			b.WriteString(l)
		}
		return b.String()
	}
	for _, r := range k.Records() {
		b.WriteString("\n ")
		for _, it := range r.Items() {
			for i := 0; i < it.Size(); i++ {
				b.WriteByte(' ')
				b.WriteString(renderValue(it, i))
			}
		}
		b.WriteString(" /")
	}
	return b.String()
}

func renderValue(it *deck.Item, i int) string {
	if it.DefaultApplied(i) {
		return "1*"
	}
	switch v := it.Value(i).(type) {
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return "'" + v + "'"
	}
	return "1*"
}

// wellStates walks every well over every step and keeps a version each
// time the snapshot changes. Versions come out in step order per well.
func wellStates(s *schedule.Schedule) []model.WellState {
	var out []model.WellState
	for _, name := range s.WellNames() {
		w, err := s.Well(name)
		if err != nil {
			continue
		}
		var last *model.WellSnapshot
		version := 0
		for step := w.CreatedAt(); step < s.Size(); step++ {
			snap := snapshotWell(w, step)
			if last != nil && reflect.DeepEqual(*last, snap) {
				continue
			}
			version++
			out = append(out, model.WellState{Well: name, Version: version, Step: step, State: snap})
			last = &snap
		}
	}
	return out
}

func snapshotWell(w *schedule.Well, step int) model.WellSnapshot {
	cs := w.Completions(step)
	open := 0
	for _, c := range cs.All() {
		if c.Status == schedule.Open {
			open++
		}
	}
	snap := model.WellSnapshot{
		Status:          string(w.Status(step)),
		Group:           w.Group(step),
		Phase:           string(w.Phase(step)),
		Producer:        w.IsProducer(step),
		RefDepth:        w.RefDepth(step),
		Completions:     cs.Size(),
		OpenCompletions: open,
		MultiSegment:    w.IsMultiSegment(step),
		RFT:             w.RFTActive(step),
		PLT:             w.PLTActive(step),
	}
	if w.IsProducer(step) {
		p := w.Production(step)
		snap.Control = string(p.CMode)
		snap.Targets = targets(
			"ORAT", p.OilRate, "WRAT", p.WaterRate, "GRAT", p.GasRate, "LRAT", p.LiquidRate,
			"RESV", p.ResvRate, "BHP", p.BHP, "THP", p.THP)
	} else {
		inj := w.Injection(step)
		snap.Control = string(inj.CMode)
		snap.Targets = targets("RATE", inj.SurfaceRate, "RESV", inj.ResvRate, "BHP", inj.BHP, "THP", inj.THP)
		if inj.Type != "" {
			snap.Targets["TYPE"] = string(inj.Type)
		}
	}
	if len(snap.Targets) == 0 {
		snap.Targets = nil
	}
	return snap
}

// targets builds a map of the non-zero values of name/value pairs.
func targets(pairs ...any) map[string]any {
	out := make(map[string]any)
	for i := 0; i+1 < len(pairs); i += 2 {
		if v, ok := pairs[i+1].(float64); ok && v != 0 {
			out[fmt.Sprint(pairs[i])] = v
		}
	}
	return out
}

// groupEdges stores the tree at step 0 and at every step that changed it.
func groupEdges(s *schedule.Schedule) []model.GroupEdge {
	var out []model.GroupEdge
	for step := 0; step < s.Size(); step++ {
		if step > 0 && !s.Events(step).Has(schedule.EventGroupTreeChange) {
			continue
		}
		for _, e := range s.GroupTree(step).Edges() {
			out = append(out, model.GroupEdge{Step: step, Parent: e[0], Child: e[1]})
		}
	}
	return out
}
