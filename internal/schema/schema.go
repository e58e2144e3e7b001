// Package schema describes keyword shapes: how many records a keyword has,
// which typed items each record carries, their defaults and dimensions.
//
// Schemas are registered once into a Builder and frozen into a Registry that
// is read-only and safe to share between parses.
package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// ItemType is the value type of an item.
type ItemType int

const (
	Int ItemType = iota + 1
	Double
	String
	// RawString takes the whole record text verbatim (titles).
	RawString
)

func (t ItemType) String() string {
	switch t {
	case Int:
		return "INT"
	case Double:
		return "DOUBLE"
	case String:
		return "STRING"
	case RawString:
		return "RAW_STRING"
	}
	return "UNKNOWN"
}

// ParseItemType maps a YAML type name to an ItemType.
func ParseItemType(s string) (ItemType, error) {
	switch strings.ToUpper(s) {
	case "INT":
		return Int, nil
	case "DOUBLE":
		return Double, nil
	case "STRING":
		return String, nil
	case "RAW_STRING":
		return RawString, nil
	}
	return 0, fmt.Errorf("unknown item type %q", s)
}

// Cardinality tells whether an item takes one value or the rest of the record.
type Cardinality int

const (
	Single Cardinality = iota
	All
)

// SizeType is the record-count strategy of a keyword.
type SizeType int

const (
	// Fixed keywords have exactly FixedSize records.
	Fixed SizeType = iota + 1
	// SlashTerminated keywords end at a record consisting of a lone '/'.
	SlashTerminated
	// Unknown keywords end where the next recognised keyword starts.
	Unknown
	// OtherKeyword keywords read their record count from an item of another keyword.
	OtherKeyword
)

func (s SizeType) String() string {
	switch s {
	case Fixed:
		return "FIXED"
	case SlashTerminated:
		return "SLASH_TERMINATED"
	case Unknown:
		return "UNKNOWN"
	case OtherKeyword:
		return "OTHER_KEYWORD_IN_DECK"
	}
	return "INVALID"
}

// Item describes one item of a record.
type Item struct {
	Name        string
	Type        ItemType
	Cardinality Cardinality
	HasDefault  bool
	IntDefault  int
	DblDefault  float64
	StrDefault  string
	// Dimensions holds one dimension expression per value position, cycling
	// for All items. Empty for dimensionless items.
	Dimensions []string
}

// HasDimension reports whether the item carries a physical dimension.
func (it *Item) HasDimension() bool {
	return len(it.Dimensions) > 0
}

// Record describes the ordered items of one record.
type Record struct {
	Items []*Item
}

// Size returns the number of items.
func (r *Record) Size() int {
	return len(r.Items)
}

// Item returns the item schema called name.
func (r *Record) Item(name string) (*Item, bool) {
	for _, it := range r.Items {
		if it.Name == name {
			return it, true
		}
	}
	return nil, false
}

// Keyword is the schema of one keyword.
type Keyword struct {
	Name string
	// DeckNames lists the names matched exactly; defaults to Name.
	DeckNames []string
	// Match is an optional pattern for families of keywords.
	Match       string
	Sections    []string
	Size        SizeType
	FixedSize   int
	SizeKeyword string
	SizeItem    string
	// SizeShift is added to the value read from SizeKeyword.SizeItem.
	SizeShift int
	// Records are indexed by record position; positions past the end reuse
	// the last schema.
	Records     []*Record
	Description string

	re *regexp.Regexp
}

// Record returns the schema for record i.
func (k *Keyword) Record(i int) *Record {
	if len(k.Records) == 0 {
		return &Record{}
	}
	if i >= len(k.Records) {
		return k.Records[len(k.Records)-1]
	}
	return k.Records[i]
}

// IsRawString reports whether the keyword's records are taken verbatim.
func (k *Keyword) IsRawString() bool {
	r := k.Record(0)
	return len(r.Items) == 1 && r.Items[0].Type == RawString
}

// HasDimension reports whether any item of any record is dimensioned.
func (k *Keyword) HasDimension() bool {
	for _, r := range k.Records {
		for _, it := range r.Items {
			if it.HasDimension() {
				return true
			}
		}
	}
	return false
}

// ValidIn reports whether the keyword may appear in section. Keywords with no
// section list are valid anywhere.
func (k *Keyword) ValidIn(section string) bool {
	if len(k.Sections) == 0 || section == "" {
		return true
	}
	for _, s := range k.Sections {
		if s == section {
			return true
		}
	}
	return false
}

// declaredIn is ValidIn without the pass for an unknown section.
func (k *Keyword) declaredIn(section string) bool {
	if len(k.Sections) == 0 {
		return true
	}
	for _, s := range k.Sections {
		if s == section {
			return true
		}
	}
	return false
}

// Matches reports whether deckName selects this keyword.
func (k *Keyword) Matches(deckName string) bool {
	for _, n := range k.deckNames() {
		if n == deckName {
			return true
		}
	}
	return k.re != nil && k.re.MatchString(deckName)
}

func (k *Keyword) deckNames() []string {
	if len(k.DeckNames) > 0 {
		return k.DeckNames
	}
	if k.Match != "" {
		return nil
	}
	return []string{k.Name}
}

// Validate checks internal consistency and compiles the match pattern.
func (k *Keyword) Validate() error {
	if k.Name == "" {
		return fmt.Errorf("keyword schema without name")
	}
	switch k.Size {
	case Fixed:
		if k.FixedSize < 0 {
			return fmt.Errorf("keyword %s: negative fixed size", k.Name)
		}
	case SlashTerminated, Unknown:
	case OtherKeyword:
		if k.SizeKeyword == "" || k.SizeItem == "" {
			return fmt.Errorf("keyword %s: size keyword and item required", k.Name)
		}
	default:
		return fmt.Errorf("keyword %s: invalid size type", k.Name)
	}
	for ri, r := range k.Records {
		seen := make(map[string]bool, len(r.Items))
		for ii, it := range r.Items {
			if seen[it.Name] {
				return fmt.Errorf("keyword %s record %d: duplicate item %s", k.Name, ri, it.Name)
			}
			seen[it.Name] = true
			if it.Cardinality == All && ii != len(r.Items)-1 {
				return fmt.Errorf("keyword %s record %d: item %s takes all values but is not last", k.Name, ri, it.Name)
			}
			if it.Type == RawString && len(r.Items) != 1 {
				return fmt.Errorf("keyword %s: raw string item must be alone in its record", k.Name)
			}
		}
	}
	if k.Match != "" {
		re, err := regexp.Compile(k.Match)
		if err != nil {
			return fmt.Errorf("keyword %s: invalid pattern: %w", k.Name, err)
		}
		k.re = re
	}
	return nil
}
