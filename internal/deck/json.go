package deck

import "encoding/json"

type jsonKeyword struct {
	Name    string           `json:"name"`
	File    string           `json:"file,omitempty"`
	Line    int              `json:"line,omitempty"`
	Known   bool             `json:"known"`
	Records []map[string]any `json:"records,omitempty"`
	Raw     []string         `json:"raw,omitempty"`
}

// MarshalJSON renders the keyword with one object per record mapping item
// names to their value lists.
func (k *Keyword) MarshalJSON() ([]byte, error) {
	out := jsonKeyword{Name: k.Name, File: k.File, Line: k.Line, Known: k.Known(), Raw: k.Raw}
	for _, r := range k.records {
		m := make(map[string]any, len(r.items))
		for _, it := range r.items {
			vals := make([]any, it.Size())
			for i := range vals {
				vals[i] = it.Value(i)
			}
			m[it.name] = vals
		}
		out.Records = append(out.Records, m)
	}
	return json.Marshal(out)
}
