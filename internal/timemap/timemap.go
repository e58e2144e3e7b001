// Package timemap keeps the strictly increasing list of report times of a
// deck, starting at START and extended by DATES and TSTEP.
package timemap

import (
	"math"
	"time"

	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/diag"
)

// DefaultStart is used when a deck has no START keyword.
var DefaultStart = MkDate(1983, time.January, 1)

// TimeMap holds the start time followed by one entry per report step.
type TimeMap struct {
	times []time.Time
}

// New returns a time map holding only start.
func New(start time.Time) *TimeMap {
	return &TimeMap{times: []time.Time{start}}
}

// StartFromDeck returns the START date of d, or DefaultStart.
func StartFromDeck(d *deck.Deck) (time.Time, error) {
	k, ok := d.Last("START")
	if !ok || k.Size() == 0 {
		return DefaultStart, nil
	}
	r, _ := k.Record(0)
	t, err := DateFromRecord(r)
	if err != nil {
		return time.Time{}, diag.Locate(err, k.File, k.Line)
	}
	return t, nil
}

// FromDeck builds the time map of every DATES and TSTEP keyword in d.
func FromDeck(d *deck.Deck) (*TimeMap, error) {
	start, err := StartFromDeck(d)
	if err != nil {
		return nil, err
	}
	m := New(start)
	for _, k := range d.Keywords() {
		if _, err := m.AddKeyword(k); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AddKeyword extends the map from a DATES or TSTEP keyword and returns the
// number of steps added. Other keywords add nothing.
func (m *TimeMap) AddKeyword(k *deck.Keyword) (int, error) {
	before := len(m.times)
	switch k.Name {
	case "DATES":
		for _, r := range k.Records() {
			t, err := DateFromRecord(r)
			if err != nil {
				return 0, diag.Locate(err, k.File, k.Line)
			}
			if err := m.AddTime(t); err != nil {
				return 0, diag.Locate(err, k.File, k.Line)
			}
		}
	case "TSTEP":
		for _, r := range k.Records() {
			it, err := r.Item("step_list")
			if err != nil {
				return 0, diag.Locate(err, k.File, k.Line)
			}
			steps, err := it.SIData()
			if err != nil {
				return 0, diag.Locate(err, k.File, k.Line)
			}
			for _, sec := range steps {
				if err := m.AddTStep(seconds(sec)); err != nil {
					return 0, diag.Locate(err, k.File, k.Line)
				}
			}
		}
	}
	return len(m.times) - before, nil
}

// seconds rounds to whole milliseconds so that day fractions do not pick up
// floating point noise.
func seconds(sec float64) time.Duration {
	return time.Duration(math.Round(sec*1e3)) * time.Millisecond
}

// AddTime appends t, which must be later than the last entry.
func (m *TimeMap) AddTime(t time.Time) error {
	last := m.times[len(m.times)-1]
	if !t.After(last) {
		return diag.Format(diag.Semantic, diag.CodeTimeOrder,
			"time %s is not after %s", t.Format(time.RFC3339Nano), last.Format(time.RFC3339Nano))
	}
	m.times = append(m.times, t)
	return nil
}

// AddTStep appends the last entry moved forward by step.
func (m *TimeMap) AddTStep(step time.Duration) error {
	if step <= 0 {
		return diag.Format(diag.Semantic, diag.CodeTimeOrder, "time step %s is not positive", step)
	}
	return m.AddTime(m.Last().Add(step))
}

// Size returns the number of entries, start included.
func (m *TimeMap) Size() int { return len(m.times) }

// NumSteps returns the number of report steps, Size()-1.
func (m *TimeMap) NumSteps() int { return len(m.times) - 1 }

// Last returns the latest entry.
func (m *TimeMap) Last() time.Time { return m.times[len(m.times)-1] }

// Times returns a copy of the entries.
func (m *TimeMap) Times() []time.Time {
	out := make([]time.Time, len(m.times))
	copy(out, m.times)
	return out
}

func (m *TimeMap) check(step int) error {
	if step < 0 || step >= len(m.times) {
		return diag.Format(diag.Semantic, diag.CodeOutOfRange,
			"step %d outside the time map of %d entries", step, len(m.times))
	}
	return nil
}

// StartTime returns the time at which step begins.
func (m *TimeMap) StartTime(step int) (time.Time, error) {
	if err := m.check(step); err != nil {
		return time.Time{}, err
	}
	return m.times[step], nil
}

// StepLength returns the length of step, from its start to the next entry.
func (m *TimeMap) StepLength(step int) (time.Duration, error) {
	if err := m.check(step + 1); err != nil {
		return 0, err
	}
	return m.times[step+1].Sub(m.times[step]), nil
}

// Elapsed returns the time from the start to the beginning of step.
func (m *TimeMap) Elapsed(step int) (time.Duration, error) {
	if err := m.check(step); err != nil {
		return 0, err
	}
	return m.times[step].Sub(m.times[0]), nil
}

// StepAt returns the last step starting at or before t, or -1 when t is
// before the start.
func (m *TimeMap) StepAt(t time.Time) int {
	step := -1
	for i, ti := range m.times {
		if ti.After(t) {
			break
		}
		step = i
	}
	return step
}
