package deck

import "github.com/rcliao/simdeck/internal/diag"

// Record is an ordered set of items with unique names.
type Record struct {
	items  []*Item
	byName map[string]int
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{byName: make(map[string]int)}
}

// Add appends it. A second item with the same name is rejected.
func (r *Record) Add(it *Item) error {
	if _, dup := r.byName[it.Name()]; dup {
		return diag.Format(diag.Schema, diag.CodeDuplicateItem,
			"record already has an item called %s", it.Name())
	}
	r.byName[it.Name()] = len(r.items)
	r.items = append(r.items, it)
	return nil
}

func (r *Record) Size() int { return len(r.items) }
func (r *Record) Items() []*Item { return r.items }

// Has reports whether the record carries an item called name.
func (r *Record) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Item returns the item called name.
func (r *Record) Item(name string) (*Item, error) {
	i, ok := r.byName[name]
	if !ok {
		return nil, diag.Format(diag.Schema, diag.CodeMissingItem, "record has no item %s", name)
	}
	return r.items[i], nil
}

// ItemAt returns the item at position i, or nil.
func (r *Record) ItemAt(i int) *Item {
	if i < 0 || i >= len(r.items) {
		return nil
	}
	return r.items[i]
}
