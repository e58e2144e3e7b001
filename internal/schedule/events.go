package schedule

import "strings"

// Event is a bit set of what changed at a report step.
type Event uint32

const (
	EventNewWell Event = 1 << iota
	EventWellStatusChange
	EventCompletionChange
	EventProductionUpdate
	EventInjectionUpdate
	EventPolymerUpdate
	EventNewGroup
	EventGroupChange
	EventGroupTreeChange
	EventTuningChange
	EventWellSegmentsChange
	EventRFTRequest
)

var eventNames = []struct {
	e    Event
	name string
}{
	{EventNewWell, "NEW_WELL"},
	{EventWellStatusChange, "WELL_STATUS_CHANGE"},
	{EventCompletionChange, "COMPLETION_CHANGE"},
	{EventProductionUpdate, "PRODUCTION_UPDATE"},
	{EventInjectionUpdate, "INJECTION_UPDATE"},
	{EventPolymerUpdate, "POLYMER_UPDATE"},
	{EventNewGroup, "NEW_GROUP"},
	{EventGroupChange, "GROUP_CHANGE"},
	{EventGroupTreeChange, "GROUP_TREE_CHANGE"},
	{EventTuningChange, "TUNING_CHANGE"},
	{EventWellSegmentsChange, "WELL_SEGMENTS_CHANGE"},
	{EventRFTRequest, "RFT_REQUEST"},
}

// Has reports whether every bit of o is set in e.
func (e Event) Has(o Event) bool { return e&o == o }

// Names returns the names of the events set, in bit order.
func (e Event) Names() []string {
	var out []string
	for _, n := range eventNames {
		if e.Has(n.e) {
			out = append(out, n.name)
		}
	}
	return out
}

func (e Event) String() string {
	if e == 0 {
		return "NONE"
	}
	return strings.Join(e.Names(), "|")
}
