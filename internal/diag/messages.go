package diag

import "fmt"

// Severity of a recorded message.
type Severity int

const (
	SeverityNote Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityNote:
		return "note"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// MarshalText lets messages render severities by name in JSON.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Message is one diagnostic recorded during a parse or build.
type Message struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Text     string   `json:"text"`
	File     string   `json:"file,omitempty"`
	Line     int      `json:"line,omitempty"`
}

func (m Message) String() string {
	if m.File != "" {
		return fmt.Sprintf("%s:%d: %s: %s", m.File, m.Line, m.Severity, m.Text)
	}
	return fmt.Sprintf("%s: %s", m.Severity, m.Text)
}

// Messages is an ordered, append-only diagnostic list.
type Messages struct {
	list []Message
}

// Add appends a message.
func (ms *Messages) Add(m Message) {
	ms.list = append(ms.list, m)
}

// Note records an informational message.
func (ms *Messages) Note(code, file string, line int, text string) {
	ms.Add(Message{Severity: SeverityNote, Code: code, Text: text, File: file, Line: line})
}

// Warning records a warning.
func (ms *Messages) Warning(code, file string, line int, text string) {
	ms.Add(Message{Severity: SeverityWarning, Code: code, Text: text, File: file, Line: line})
}

// Len returns the number of messages.
func (ms *Messages) Len() int {
	if ms == nil {
		return 0
	}
	return len(ms.list)
}

// All returns a copy of the messages in insertion order.
func (ms *Messages) All() []Message {
	if ms == nil {
		return nil
	}
	out := make([]Message, len(ms.list))
	copy(out, ms.list)
	return out
}

// WithCode returns the messages carrying code.
func (ms *Messages) WithCode(code string) []Message {
	var out []Message
	for _, m := range ms.All() {
		if m.Code == code {
			out = append(out, m)
		}
	}
	return out
}

// Append copies all messages of other onto ms.
func (ms *Messages) Append(other *Messages) {
	if other == nil {
		return
	}
	ms.list = append(ms.list, other.list...)
}
