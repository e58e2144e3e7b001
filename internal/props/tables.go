package props

import (
	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/diag"
)

// Order is the monotonicity a table column must follow.
type Order int

const (
	AnyOrder Order = iota
	StrictlyIncreasing
	Increasing
	Decreasing
	StrictlyDecreasing
)

// ColumnSchema describes one table column. Defaultable columns may carry 1*
// entries, which are filled by linear interpolation over the first column.
type ColumnSchema struct {
	Name        string
	Order       Order
	Defaultable bool
}

var tableSchemas = map[string][]ColumnSchema{
	"SWOF": {
		{Name: "SW", Order: StrictlyIncreasing},
		{Name: "KRW", Order: Increasing, Defaultable: true},
		{Name: "KROW", Order: Decreasing, Defaultable: true},
		{Name: "PCOW", Order: Decreasing, Defaultable: true},
	},
	"SGOF": {
		{Name: "SG", Order: StrictlyIncreasing},
		{Name: "KRG", Order: Increasing, Defaultable: true},
		{Name: "KROG", Order: Decreasing, Defaultable: true},
		{Name: "PCOG", Order: Increasing, Defaultable: true},
	},
	"PVDO": {
		{Name: "P", Order: StrictlyIncreasing},
		{Name: "BO", Order: StrictlyDecreasing, Defaultable: true},
		{Name: "MUO", Order: AnyOrder, Defaultable: true},
	},
}

// Table is one validated table, values in SI units, stored by column.
type Table struct {
	Name    string
	Columns []ColumnSchema
	data    [][]float64
}

// Rows returns the number of rows.
func (t *Table) Rows() int {
	if len(t.data) == 0 {
		return 0
	}
	return len(t.data[0])
}

// Column returns the values of the named column.
func (t *Table) Column(name string) ([]float64, bool) {
	for i, c := range t.Columns {
		if c.Name == name {
			return t.data[i], true
		}
	}
	return nil, false
}

// Evaluate interpolates column name linearly at x of the first column,
// clamping outside the table.
func (t *Table) Evaluate(name string, x float64) (float64, error) {
	col, ok := t.Column(name)
	if !ok {
		return 0, diag.Format(diag.Semantic, diag.CodeInvalidValue, "table %s has no column %s", t.Name, name)
	}
	xs := t.data[0]
	if x <= xs[0] {
		return col[0], nil
	}
	for i := 1; i < len(xs); i++ {
		if x <= xs[i] {
			w := (x - xs[i-1]) / (xs[i] - xs[i-1])
			return col[i-1] + w*(col[i]-col[i-1]), nil
		}
	}
	return col[len(col)-1], nil
}

// newTable validates the flat data of one table record.
func newTable(name string, cols []ColumnSchema, item *deck.Item) (*Table, error) {
	values, err := item.SIData()
	if err != nil {
		return nil, err
	}
	nc := len(cols)
	if len(values) == 0 || len(values)%nc != 0 {
		return nil, diag.Format(diag.Semantic, diag.CodeInvalidValue,
			"table %s: %d values is not a multiple of %d columns", name, len(values), nc)
	}
	rows := len(values) / nc
	t := &Table{Name: name, Columns: cols, data: make([][]float64, nc)}
	for c := range cols {
		col := make([]float64, rows)
		defaulted := make([]bool, rows)
		for r := 0; r < rows; r++ {
			col[r] = values[r*nc+c]
			defaulted[r] = item.DefaultApplied(r*nc + c)
		}
		if err := fillDefaults(name, cols[c], col, defaulted, t.data); err != nil {
			return nil, err
		}
		if err := checkOrder(name, cols[c], col); err != nil {
			return nil, err
		}
		t.data[c] = col
	}
	return t, nil
}

// fillDefaults interpolates defaulted entries of col against the first
// column. The first and last rows must be given.
func fillDefaults(table string, cs ColumnSchema, col []float64, defaulted []bool, data [][]float64) error {
	seen := false
	for _, d := range defaulted {
		seen = seen || d
	}
	if !seen {
		return nil
	}
	if !cs.Defaultable || data[0] == nil {
		return diag.Format(diag.Semantic, diag.CodeInvalidValue,
			"table %s: column %s cannot be defaulted", table, cs.Name)
	}
	last := len(col) - 1
	if defaulted[0] || defaulted[last] {
		return diag.Format(diag.Semantic, diag.CodeInvalidValue,
			"table %s: column %s cannot default its first or last row", table, cs.Name)
	}
	xs := data[0]
	for r := 1; r < last; r++ {
		if !defaulted[r] {
			continue
		}
		lo := r - 1
		hi := r + 1
		for defaulted[hi] {
			hi++
		}
		w := (xs[r] - xs[lo]) / (xs[hi] - xs[lo])
		col[r] = col[lo] + w*(col[hi]-col[lo])
	}
	return nil
}

func checkOrder(table string, cs ColumnSchema, col []float64) error {
	for r := 1; r < len(col); r++ {
		prev, cur := col[r-1], col[r]
		ok := true
		switch cs.Order {
		case StrictlyIncreasing:
			ok = cur > prev
		case Increasing:
			ok = cur >= prev
		case Decreasing:
			ok = cur <= prev
		case StrictlyDecreasing:
			ok = cur < prev
		}
		if !ok {
			return diag.Format(diag.Semantic, diag.CodeInvalidValue,
				"table %s: column %s is not monotonic at row %d", table, cs.Name, r+1)
		}
	}
	return nil
}

// Tables holds the tables of each supported table keyword, in record order.
type Tables struct {
	byKeyword map[string][]*Table
}

// Get returns table n (zero based) of keyword.
func (ts *Tables) Get(keyword string, n int) (*Table, bool) {
	list := ts.byKeyword[keyword]
	if n < 0 || n >= len(list) {
		return nil, false
	}
	return list[n], true
}

// Count returns the number of tables of keyword.
func (ts *Tables) Count(keyword string) int {
	return len(ts.byKeyword[keyword])
}

// BuildTables validates every supported table keyword of d.
func BuildTables(d *deck.Deck) (*Tables, error) {
	ts := &Tables{byKeyword: make(map[string][]*Table)}
	for name, cols := range tableSchemas {
		k, ok := d.Last(name)
		if !ok {
			continue
		}
		for _, r := range k.Records() {
			it, err := r.Item("DATA")
			if err != nil {
				return nil, diag.Locate(err, k.File, k.Line)
			}
			t, err := newTable(name, cols, it)
			if err != nil {
				return nil, diag.Locate(err, k.File, k.Line)
			}
			ts.byKeyword[name] = append(ts.byKeyword[name], t)
		}
	}
	return ts, nil
}
