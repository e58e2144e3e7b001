// Package schedule builds the time indexed model of the SCHEDULE section:
// wells, groups, completions and segments, each property versioned by
// report step.
package schedule

import (
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/dynstate"
	"github.com/rcliao/simdeck/internal/grid"
	"github.com/rcliao/simdeck/internal/props"
	"github.com/rcliao/simdeck/internal/timemap"
	"github.com/rcliao/simdeck/internal/units"
)

// Schedule is the state machine over the SCHEDULE section. It is built once
// by New and read-only afterwards.
type Schedule struct {
	grid  grid.Grid
	props *props.Properties
	units *units.UnitSystem
	log   diag.Logger
	msgs  *diag.Messages

	tm   *timemap.TimeMap
	step int

	wells      map[string]*Well
	wellOrder  []string
	groups     map[string]*Group
	groupOrder []string
	tree       *dynstate.State[*GroupTree]
	tuning     *dynstate.State[Tuning]
	events     map[int]Event
}

// Option configures New.
type Option func(*Schedule)

// WithLogger logs handled and skipped keywords at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(s *Schedule) { s.log = diag.NewLogger(l, "schedule") }
}

// WithProperties lets COMPDAT compute connection factors from the grid
// permeabilities when the deck gives none.
func WithProperties(p *props.Properties) Option {
	return func(s *Schedule) { s.props = p }
}

// WithMessages records notes and warnings into msgs instead of a list of
// the schedule's own.
func WithMessages(msgs *diag.Messages) Option {
	return func(s *Schedule) { s.msgs = msgs }
}

// New walks the SCHEDULE section of d. g may be nil, in which case cells
// are not checked and completion depths stay zero.
func New(d *deck.Deck, g grid.Grid, opts ...Option) (*Schedule, error) {
	start, err := timemap.StartFromDeck(d)
	if err != nil {
		return nil, err
	}
	s := &Schedule{
		grid:   g,
		units:  d.ActiveUnits(),
		msgs:   &diag.Messages{},
		tm:     timemap.New(start),
		wells:  make(map[string]*Well),
		groups: make(map[string]*Group),
		tree:   dynstate.New(newGroupTree()),
		tuning: dynstate.New(DefaultTuning()),
		events: make(map[int]Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.groups[FieldGroup] = newGroup(FieldGroup, 0)
	s.groupOrder = append(s.groupOrder, FieldGroup)

	sec, ok := d.Section(deck.Schedule)
	if !ok {
		return s, nil
	}
	for _, k := range sec.Keywords() {
		h, ok := handlers[k.Name]
		if !ok {
			s.log.Log(slog.LevelDebug, "keyword skipped",
				slog.String("keyword", k.Name), slog.Int("step", s.step))
			continue
		}
		if err := h(s, k); err != nil {
			return nil, diag.Locate(err, k.File, k.Line)
		}
		s.log.Log(slog.LevelDebug, "keyword applied",
			slog.String("keyword", k.Name), slog.Int("step", s.step))
	}
	if err := s.checkAttached(); err != nil {
		return nil, err
	}
	return s, nil
}

// TimeMap returns the report step times.
func (s *Schedule) TimeMap() *timemap.TimeMap { return s.tm }

// Size returns the number of report steps, the start included.
func (s *Schedule) Size() int { return s.tm.Size() }

// Messages returns the notes and warnings recorded while building.
func (s *Schedule) Messages() *diag.Messages { return s.msgs }

// Well returns the well called name.
func (s *Schedule) Well(name string) (*Well, error) {
	w, ok := s.wells[name]
	if !ok {
		return nil, diag.Format(diag.Semantic, diag.CodeUndefinedWell, "well %s is not defined", name)
	}
	return w, nil
}

// WellNames returns the names of all wells in creation order.
func (s *Schedule) WellNames() []string {
	out := make([]string, len(s.wellOrder))
	copy(out, s.wellOrder)
	return out
}

// Wells returns the wells existing at step, in creation order.
func (s *Schedule) Wells(step int) []*Well {
	var out []*Well
	for _, name := range s.wellOrder {
		if w := s.wells[name]; w.created <= step {
			out = append(out, w)
		}
	}
	return out
}

// Group returns the group called name.
func (s *Schedule) Group(name string) (*Group, error) {
	g, ok := s.groups[name]
	if !ok {
		return nil, diag.Format(diag.Semantic, diag.CodeUndefinedGroup, "group %s is not defined", name)
	}
	return g, nil
}

// Groups returns the groups existing at step, in creation order.
func (s *Schedule) Groups(step int) []*Group {
	var out []*Group
	for _, name := range s.groupOrder {
		if g := s.groups[name]; g.created <= step {
			out = append(out, g)
		}
	}
	return out
}

func (s *Schedule) GroupTree(step int) *GroupTree { return s.tree.At(step) }
func (s *Schedule) Tuning(step int) Tuning        { return s.tuning.At(step) }
func (s *Schedule) Events(step int) Event         { return s.events[step] }

func (s *Schedule) addEvent(e Event) {
	s.events[s.step] |= e
}

// matchWells returns the wells matching pattern. Names with * or ? are
// shell patterns; a pattern matching nothing is a warning, an unknown
// plain name an error.
func (s *Schedule) matchWells(k *deck.Keyword, pattern string) ([]*Well, error) {
	if !strings.ContainsAny(pattern, "*?") {
		w, err := s.Well(pattern)
		if err != nil {
			return nil, err
		}
		return []*Well{w}, nil
	}
	var out []*Well
	for _, name := range s.wellOrder {
		if ok, _ := path.Match(pattern, name); ok {
			out = append(out, s.wells[name])
		}
	}
	if len(out) == 0 {
		s.msgs.Warning(diag.CodeUndefinedWell, k.File, k.Line,
			fmt.Sprintf("%s: pattern %s matches no well", k.Name, pattern))
	}
	return out, nil
}

// ensureGroup returns the group called name, creating it under FIELD.
func (s *Schedule) ensureGroup(name string) *Group {
	if g, ok := s.groups[name]; ok {
		return g
	}
	g := newGroup(name, s.step)
	s.groups[name] = g
	s.groupOrder = append(s.groupOrder, name)
	s.addEvent(EventNewGroup)
	if tree := s.tree.At(s.step); !tree.Has(name) {
		s.tree.Set(s.step, tree.with(name, FieldGroup))
		s.addEvent(EventGroupTreeChange)
	}
	return g
}

// setStatus requests st for w and records a status event when the status
// in force changes.
func (s *Schedule) setStatus(w *Well, st Status) {
	before := w.status.At(s.step)
	if w.setStatus(s.step, st) != before {
		s.addEvent(EventWellStatusChange)
	}
	if w.RFTActive(s.step) || w.PLTActive(s.step) {
		s.addEvent(EventRFTRequest)
	}
}

// setCompletions replaces the completions of w at the current step.
func (s *Schedule) setCompletions(w *Well, cs *CompletionSet) {
	before := w.status.At(s.step)
	w.setCompletions(s.step, cs)
	s.addEvent(EventCompletionChange)
	if w.status.At(s.step) != before {
		s.addEvent(EventWellStatusChange)
	}
	if w.RFTActive(s.step) || w.PLTActive(s.step) {
		s.addEvent(EventRFTRequest)
	}
}

// checkAttached fails when a multi-segment well has a completion that no
// COMPSEGS placed on a segment by the end of the current step.
func (s *Schedule) checkAttached() error {
	for _, name := range s.wellOrder {
		w := s.wells[name]
		if !w.IsMultiSegment(s.step) {
			continue
		}
		if un := w.conns.At(s.step).Unattached(); len(un) > 0 {
			c := un[0]
			return diag.Format(diag.Semantic, diag.CodeUnattachedCompletion,
				"well %s: completion in cell %d %d %d is not attached to a segment at step %d",
				name, c.I+1, c.J+1, c.K+1, s.step)
		}
	}
	return nil
}
