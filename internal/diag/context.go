package diag

import (
	"fmt"
	"strings"
)

// Action tells the parser what to do with a recoverable problem.
type Action int

const (
	Ignore Action = iota
	Warn
	Throw
)

func (a Action) String() string {
	switch a {
	case Ignore:
		return "ignore"
	case Warn:
		return "warn"
	case Throw:
		return "throw"
	}
	return "unknown"
}

// ParseAction parses "ignore", "warn" or "throw" (case-insensitive).
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ignore":
		return Ignore, nil
	case "warn", "warning":
		return Warn, nil
	case "throw", "error", "fail":
		return Throw, nil
	}
	return Ignore, fmt.Errorf("unknown action %q (valid: ignore, warn, throw)", s)
}

// Category names a recoverable problem.
type Category string

const (
	MissingInclude   Category = "MISSING_INCLUDE"
	UnknownKeyword   Category = "UNKNOWN_KEYWORD"
	RandomText       Category = "RANDOM_TEXT"
	RandomSlash      Category = "RANDOM_SLASH"
	OutOfSection     Category = "OUT_OF_SECTION"
	SectionTopology  Category = "SECTION_TOPOLOGY"
	AmbiguousKeyword Category = "AMBIGUOUS_KEYWORD"
	ExtraRecords     Category = "EXTRA_RECORDS"
	BackslashPath    Category = "BACKSLASH_PATH"
)

// Categories lists every recoverable category.
var Categories = []Category{
	MissingInclude, UnknownKeyword, RandomText, RandomSlash, OutOfSection,
	SectionTopology, AmbiguousKeyword, ExtraRecords, BackslashPath,
}

var categoryKinds = map[Category]Kind{
	MissingInclude:   IO,
	UnknownKeyword:   Structural,
	RandomText:       Structural,
	RandomSlash:      Structural,
	OutOfSection:     Schema,
	SectionTopology:  Schema,
	AmbiguousKeyword: Schema,
	ExtraRecords:     Schema,
	BackslashPath:    Structural,
}

var defaultActions = map[Category]Action{
	MissingInclude:   Throw,
	UnknownKeyword:   Warn,
	RandomText:       Warn,
	RandomSlash:      Warn,
	OutOfSection:     Warn,
	SectionTopology:  Warn,
	AmbiguousKeyword: Throw,
	ExtraRecords:     Throw,
	BackslashPath:    Warn,
}

// ParseContext maps each recoverable category to an Action.
// The zero value is not usable; call NewParseContext.
type ParseContext struct {
	actions map[Category]Action
}

// NewParseContext returns the lenient default policy.
func NewParseContext() *ParseContext {
	c := &ParseContext{actions: make(map[Category]Action, len(defaultActions))}
	for cat, a := range defaultActions {
		c.actions[cat] = a
	}
	return c
}

// Strict returns a policy escalating every category except BACKSLASH_PATH.
func Strict() *ParseContext {
	c := NewParseContext()
	c.UpdateAll(Throw)
	c.Update(BackslashPath, Warn)
	return c
}

// Update sets the action for one category.
func (c *ParseContext) Update(cat Category, a Action) {
	c.actions[cat] = a
}

// UpdateAll sets the action for every category.
func (c *ParseContext) UpdateAll(a Action) {
	for _, cat := range Categories {
		c.actions[cat] = a
	}
}

// Action returns the configured action; unknown categories throw.
func (c *ParseContext) Action(cat Category) Action {
	a, ok := c.actions[cat]
	if !ok {
		return Throw
	}
	return a
}

// Handle applies the policy for cat. It returns a non-nil error only when the
// category is configured to throw; a warning is appended to msgs otherwise.
func (c *ParseContext) Handle(cat Category, msgs *Messages, file string, line int, text string) error {
	switch c.Action(cat) {
	case Ignore:
		return nil
	case Warn:
		if msgs != nil {
			msgs.Warning(string(cat), file, line, text)
		}
		return nil
	default:
		return FormatAt(file, line, categoryKinds[cat], string(cat), "%s", text)
	}
}
