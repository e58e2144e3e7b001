// Package model defines the records persisted for parsed decks.
package model

import "time"

// Run is one parse of a deck, with the schedule built from it.
type Run struct {
	ID        string     `json:"id"`
	Path      string     `json:"path"`
	Checksum  string     `json:"checksum"`
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	Keywords  int        `json:"keywords"`
	Steps     int        `json:"steps"`
	Wells     int        `json:"wells"`
	Warnings  int        `json:"warnings"`
	Start     *time.Time `json:"start,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Run statuses.
const (
	RunOK     = "ok"
	RunFailed = "failed"
)

// KeywordEntry is one keyword of a run, rendered back to deck text.
type KeywordEntry struct {
	ID      string `json:"id"`
	RunID   string `json:"run_id"`
	Seq     int    `json:"seq"`
	Name    string `json:"name"`
	Section string `json:"section,omitempty"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Records int    `json:"records"`
	Known   bool   `json:"known"`
	Text    string `json:"text"`
}

// WellState is a version of a well's dynamic state. A new version is written
// at each step where the state differs from the one before.
type WellState struct {
	ID         string       `json:"id"`
	RunID      string       `json:"run_id"`
	Well       string       `json:"well"`
	Version    int          `json:"version"`
	Step       int          `json:"step"`
	Supersedes string       `json:"supersedes,omitempty"`
	State      WellSnapshot `json:"state"`
}

// WellSnapshot is the state of one well at one step, rates in SI units.
type WellSnapshot struct {
	Status          string         `json:"status"`
	Group           string         `json:"group"`
	Phase           string         `json:"phase"`
	Producer        bool           `json:"producer"`
	RefDepth        float64        `json:"ref_depth"`
	Completions     int            `json:"completions"`
	OpenCompletions int            `json:"open_completions"`
	MultiSegment    bool           `json:"multi_segment,omitempty"`
	Control         string         `json:"control,omitempty"`
	Targets         map[string]any `json:"targets,omitempty"`
	RFT             bool           `json:"rft,omitempty"`
	PLT             bool           `json:"plt,omitempty"`
}

// GroupEdge is a child-parent link of the group tree, valid from Step until
// the next step that stores edges.
type GroupEdge struct {
	RunID  string `json:"run_id"`
	Step   int    `json:"step"`
	Child  string `json:"child"`
	Parent string `json:"parent"`
}

// Diagnostic is a message recorded while parsing or building.
type Diagnostic struct {
	RunID    string `json:"run_id"`
	Seq      int    `json:"seq"`
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Text     string `json:"text"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
}
