package deck

import (
	"fmt"

	"github.com/rcliao/simdeck/internal/diag"
)

// Section header keywords in their required order.
const (
	Runspec  = "RUNSPEC"
	Grid     = "GRID"
	Edit     = "EDIT"
	Props    = "PROPS"
	Regions  = "REGIONS"
	Solution = "SOLUTION"
	Summary  = "SUMMARY"
	Schedule = "SCHEDULE"
)

// SectionNames lists the section headers in deck order.
var SectionNames = []string{Runspec, Grid, Edit, Props, Regions, Solution, Summary, Schedule}

// nextSections maps a section to the sections allowed to follow it.
var nextSections = map[string][]string{
	Runspec:  {Grid},
	Grid:     {Edit, Props},
	Edit:     {Props},
	Props:    {Regions, Solution},
	Regions:  {Solution},
	Solution: {Summary, Schedule},
	Summary:  {Schedule},
	Schedule: nil,
}

// IsSectionName reports whether name is a section header keyword.
func IsSectionName(name string) bool {
	_, ok := nextSections[name]
	return ok
}

// Section is a view of the keywords from a section header up to the next
// header. The header itself is not part of the view.
type Section struct {
	Name  string
	deck  *Deck
	start int
	end   int
}

// Section returns the first section called name.
func (d *Deck) Section(name string) (*Section, bool) {
	if !IsSectionName(name) {
		return nil, false
	}
	idx := d.index[name]
	if len(idx) == 0 {
		return nil, false
	}
	start := idx[0] + 1
	end := start
	for end < len(d.keywords) && !IsSectionName(d.keywords[end].Name) {
		end++
	}
	return &Section{Name: name, deck: d, start: start, end: end}, true
}

// Size returns the number of keywords in the section.
func (s *Section) Size() int { return s.end - s.start }

// Keywords returns the section's keywords in file order.
func (s *Section) Keywords() []*Keyword {
	return s.deck.keywords[s.start:s.end]
}

// Has reports whether the section contains name.
func (s *Section) Has(name string) bool {
	return s.Count(name) > 0
}

// Count returns the occurrences of name within the section.
func (s *Section) Count(name string) int {
	n := 0
	for _, pos := range s.deck.index[name] {
		if pos >= s.start && pos < s.end {
			n++
		}
	}
	return n
}

// Get returns the occurrences of name within the section.
func (s *Section) Get(name string) []*Keyword {
	var out []*Keyword
	for _, pos := range s.deck.index[name] {
		if pos >= s.start && pos < s.end {
			out = append(out, s.deck.keywords[pos])
		}
	}
	return out
}

// Last returns the last occurrence of name within the section.
func (s *Section) Last(name string) (*Keyword, bool) {
	ks := s.Get(name)
	if len(ks) == 0 {
		return nil, false
	}
	return ks[len(ks)-1], true
}

// CheckSections validates the section order RUNSPEC, GRID, [EDIT], PROPS,
// [REGIONS], SOLUTION, [SUMMARY], SCHEDULE and that every known keyword sits
// in a section its schema allows. Each problem goes through ctx; the result
// reports whether the deck was valid. The error is non-nil only when the
// policy escalates a problem.
func (d *Deck) CheckSections(ctx *diag.ParseContext, msgs *diag.Messages) (bool, error) {
	valid := true
	report := func(cat diag.Category, k *Keyword, format string, params ...any) error {
		valid = false
		file, line := d.path, 0
		if k != nil {
			file, line = k.File, k.Line
		}
		return ctx.Handle(cat, msgs, file, line, fmt.Sprintf(format, params...))
	}

	if len(d.keywords) == 0 {
		return false, report(diag.SectionTopology, nil, "deck is empty")
	}
	first := d.keywords[0]
	if first.Name != Runspec {
		if err := report(diag.SectionTopology, first, "deck must start with RUNSPEC, found %s", first.Name); err != nil {
			return false, err
		}
	}

	current := ""
	for _, k := range d.keywords {
		if IsSectionName(k.Name) {
			if current != "" && !allowedAfter(current, k.Name) {
				if err := report(diag.SectionTopology, k, "section %s cannot follow %s", k.Name, current); err != nil {
					return false, err
				}
			}
			current = k.Name
			continue
		}
		if current == "" || !k.Known() || k.Schema.ValidIn(current) {
			continue
		}
		if err := report(diag.OutOfSection, k, "keyword %s is not allowed in the %s section", k.Name, current); err != nil {
			return false, err
		}
	}

	if current != Schedule {
		last := d.keywords[len(d.keywords)-1]
		if current == "" {
			current = "none"
		}
		if err := report(diag.SectionTopology, last, "deck must end in the SCHEDULE section, last section is %s", current); err != nil {
			return false, err
		}
	}
	return valid, nil
}

func allowedAfter(prev, next string) bool {
	for _, s := range nextSections[prev] {
		if s == next {
			return true
		}
	}
	return false
}
