package schema

import (
	"sort"

	"github.com/rcliao/simdeck/internal/diag"
)

// Registry is a frozen lookup table from deck names to keyword schemas.
// Exact names are tried first, then patterns in registration order.
type Registry struct {
	byName   map[string]*Keyword
	patterns []*Keyword
}

// Lookup returns the schema for a deck name.
func (r *Registry) Lookup(deckName string) (*Keyword, bool) {
	if k, ok := r.byName[deckName]; ok {
		return k, true
	}
	for _, k := range r.patterns {
		if k.re.MatchString(deckName) {
			return k, true
		}
	}
	return nil, false
}

// LookupIn is Lookup for a keyword read in section. Pattern schemas only
// match inside the sections they list; outside them the name is unknown.
func (r *Registry) LookupIn(deckName, section string) (*Keyword, bool) {
	if k, ok := r.byName[deckName]; ok {
		return k, true
	}
	for _, k := range r.patterns {
		if k.declaredIn(section) && k.re.MatchString(deckName) {
			return k, true
		}
	}
	return nil, false
}

// IsKeyword reports whether deckName is recognised.
func (r *Registry) IsKeyword(deckName string) bool {
	_, ok := r.Lookup(deckName)
	return ok
}

// Len returns the number of registered schemas.
func (r *Registry) Len() int {
	seen := make(map[*Keyword]bool)
	for _, k := range r.byName {
		seen[k] = true
	}
	return len(seen) + len(r.patterns)
}

// Schemas returns all schemas sorted by name.
func (r *Registry) Schemas() []*Keyword {
	seen := make(map[*Keyword]bool)
	var out []*Keyword
	for _, k := range r.byName {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	out = append(out, r.patterns...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Builder collects schemas before they are frozen into a Registry.
type Builder struct {
	byName   map[string]*Keyword
	patterns []*Keyword
	frozen   bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{byName: make(map[string]*Keyword)}
}

// Add validates and registers k. Registering a deck name twice is an
// AMBIGUOUS_KEYWORD error.
func (b *Builder) Add(k *Keyword) error {
	return b.add(k, false)
}

// Merge registers schemas applying ctx to redefinitions: unless the policy
// throws, a later schema replaces the earlier one.
func (b *Builder) Merge(ctx *diag.ParseContext, msgs *diag.Messages, ks ...*Keyword) error {
	for _, k := range ks {
		err := b.add(k, false)
		if err == nil {
			continue
		}
		if !diag.IsCode(err, string(diag.AmbiguousKeyword)) {
			return err
		}
		if herr := ctx.Handle(diag.AmbiguousKeyword, msgs, "", 0, err.Error()); herr != nil {
			return herr
		}
		if err := b.add(k, true); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) add(k *Keyword, replace bool) error {
	if b.frozen {
		return diag.Format(diag.Schema, diag.CodeBadSchema, "registry already frozen")
	}
	if err := k.Validate(); err != nil {
		return diag.Wrap(err, diag.Schema, diag.CodeBadSchema, "invalid schema")
	}
	names := k.deckNames()
	if !replace {
		for _, n := range names {
			if _, dup := b.byName[n]; dup {
				return diag.Format(diag.Schema, string(diag.AmbiguousKeyword),
					"keyword %s registered twice", n)
			}
		}
		if k.Match != "" {
			for _, p := range b.patterns {
				if p.Match == k.Match {
					return diag.Format(diag.Schema, string(diag.AmbiguousKeyword),
						"keyword pattern %s registered twice", k.Match)
				}
			}
		}
	}
	for _, n := range names {
		b.byName[n] = k
	}
	if k.Match != "" {
		for i, p := range b.patterns {
			if p.Match == k.Match {
				b.patterns[i] = k
				return nil
			}
		}
		b.patterns = append(b.patterns, k)
	}
	return nil
}

// Freeze returns the immutable Registry. The Builder cannot be used afterwards.
func (b *Builder) Freeze() *Registry {
	b.frozen = true
	byName := make(map[string]*Keyword, len(b.byName))
	for n, k := range b.byName {
		byName[n] = k
	}
	patterns := make([]*Keyword, len(b.patterns))
	copy(patterns, b.patterns)
	return &Registry{byName: byName, patterns: patterns}
}
