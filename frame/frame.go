/*
Package frame implements a small in-memory tabular structure: ordered, named
columns of typed cells with an explicit missing marker.

It supports the handful of transformations the timeline renderer needs:
column projection, renaming, dropping, lenient date parsing, and a stable
chronological sort. Tables are value-copied before mutation so callers keep
their original data.
*/
package frame

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrColumnNotFound is returned when a lookup names a column the table
// does not have.
var ErrColumnNotFound = errors.New("column not found")

// Kind identifies the type of value a Cell holds.
type Kind int

const (
	// KindString is free-form text.
	KindString Kind = iota
	// KindFloat is a numeric value.
	KindFloat
	// KindTime is a calendar date or timestamp.
	KindTime
)

// Cell is a single typed value. The zero Cell is missing.
type Cell struct {
	kind  Kind
	str   string
	num   float64
	ts    time.Time
	valid bool
}

// String returns a text cell.
func String(s string) Cell {
	return Cell{kind: KindString, str: s, valid: true}
}

// Float returns a numeric cell.
func Float(f float64) Cell {
	return Cell{kind: KindFloat, num: f, valid: true}
}

// Time returns a date cell.
func Time(t time.Time) Cell {
	return Cell{kind: KindTime, ts: t, valid: true}
}

// NA returns a missing cell.
func NA() Cell {
	return Cell{}
}

// IsNA reports whether the cell is missing.
func (c Cell) IsNA() bool {
	return !c.valid
}

// Kind returns the cell's value kind. Missing cells report KindString.
func (c Cell) Kind() Kind {
	return c.kind
}

// Float returns the cell's numeric value. Text cells are parsed leniently,
// so numeric-looking CSV fields can be used without an explicit conversion
// pass. The second return value is false for missing, non-numeric, or date
// cells.
func (c Cell) Float() (float64, bool) {
	if !c.valid {
		return 0, false
	}

	switch c.kind {
	case KindFloat:
		return c.num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(c.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Time returns the cell's date value; the second return value is false
// unless the cell is a valid date.
func (c Cell) Time() (time.Time, bool) {
	if !c.valid || c.kind != KindTime {
		return time.Time{}, false
	}
	return c.ts, true
}

// String returns the display form of the cell. Missing cells render as the
// empty string.
func (c Cell) String() string {
	if !c.valid {
		return ""
	}

	switch c.kind {
	case KindFloat:
		return strconv.FormatFloat(c.num, 'g', -1, 64)
	case KindTime:
		return c.ts.Format("2006-01-02")
	default:
		return c.str
	}
}

// less orders cells of the same kind; missing cells sort last.
func less(a, b Cell) bool {
	if !a.valid {
		return false
	}
	if !b.valid {
		return true
	}

	if a.kind == b.kind {
		switch a.kind {
		case KindFloat:
			return a.num < b.num
		case KindTime:
			return a.ts.Before(b.ts)
		}
	}

	return a.String() < b.String()
}

// Series is a named column of cells.
type Series struct {
	Name  string
	Cells []Cell
}

// Strings builds a text series from raw values. Empty strings become
// missing cells.
func Strings(name string, values ...string) Series {
	cells := make([]Cell, len(values))
	for i, v := range values {
		if v == "" {
			cells[i] = NA()
			continue
		}
		cells[i] = String(v)
	}
	return Series{Name: name, Cells: cells}
}

// Floats builds a numeric series from raw values.
func Floats(name string, values ...float64) Series {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = Float(v)
	}
	return Series{Name: name, Cells: cells}
}

// At returns the cell at row i, or a missing cell when i is out of range.
func (s Series) At(i int) Cell {
	if i < 0 || i >= len(s.Cells) {
		return NA()
	}
	return s.Cells[i]
}

// copySeries deep-copies the cell slice so tables never alias each other.
func copySeries(s Series) Series {
	cells := make([]Cell, len(s.Cells))
	copy(cells, s.Cells)
	return Series{Name: s.Name, Cells: cells}
}

// Table is an ordered collection of equally sized series.
type Table struct {
	series []Series
}

// New builds a table from the given series. All series must have the same
// length and distinct names.
func New(series ...Series) (*Table, error) {
	seen := make(map[string]bool, len(series))
	rows := -1

	for _, s := range series {
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate column %q", s.Name)
		}
		seen[s.Name] = true

		if rows == -1 {
			rows = len(s.Cells)
		} else if len(s.Cells) != rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", s.Name, len(s.Cells), rows)
		}
	}

	t := &Table{series: make([]Series, len(series))}
	for i, s := range series {
		t.series[i] = copySeries(s)
	}

	return t, nil
}

// MustNew is New for statically known inputs; it panics on error.
func MustNew(series ...Series) *Table {
	t, err := New(series...)
	if err != nil {
		panic(err)
	}
	return t
}

// Copy returns a deep copy of the table.
func (t *Table) Copy() *Table {
	c := &Table{series: make([]Series, len(t.series))}
	for i, s := range t.series {
		c.series[i] = copySeries(s)
	}
	return c
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.series) == 0 {
		return 0
	}
	return len(t.series[0].Cells)
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.series))
	for i, s := range t.series {
		names[i] = s.Name
	}
	return names
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	return t.index(name) >= 0
}

func (t *Table) index(name string) int {
	for i, s := range t.series {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// Column returns the named series or ErrColumnNotFound.
func (t *Table) Column(name string) (Series, error) {
	i := t.index(name)
	if i < 0 {
		return Series{}, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return t.series[i], nil
}

// Select returns a new table holding only the named columns, in the given
// order. Naming an absent column is an error.
func (t *Table) Select(names ...string) (*Table, error) {
	selected := make([]Series, 0, len(names))
	for _, name := range names {
		s, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, copySeries(s))
	}
	return &Table{series: selected}, nil
}

// Rename renames columns in place per the old-name to new-name map. Names
// absent from the table are ignored.
func (t *Table) Rename(renames map[string]string) {
	for i := range t.series {
		if newName, ok := renames[t.series[i].Name]; ok {
			t.series[i].Name = newName
		}
	}
}

// Drop removes the named columns in place. Names absent from the table are
// ignored.
func (t *Table) Drop(names ...string) {
	dropped := make(map[string]bool, len(names))
	for _, name := range names {
		dropped[name] = true
	}

	kept := t.series[:0]
	for _, s := range t.series {
		if !dropped[s.Name] {
			kept = append(kept, s)
		}
	}
	t.series = kept
}

// ParseDates converts the named columns to date cells in place. Columns the
// table does not have are skipped. Values that cannot be parsed become
// missing cells rather than errors.
func (t *Table) ParseDates(names ...string) {
	for _, name := range names {
		i := t.index(name)
		if i < 0 {
			continue
		}

		cells := t.series[i].Cells
		for j, c := range cells {
			if c.IsNA() || c.kind == KindTime {
				continue
			}
			cells[j] = parseDateCell(c)
		}
	}
}

// parseDateCell attempts a lenient parse of the cell's display form.
func parseDateCell(c Cell) Cell {
	s := strings.TrimSpace(c.String())
	if s == "" {
		return NA()
	}

	ts, err := dateparse.ParseAny(s)
	if err != nil {
		return NA()
	}

	return Time(ts)
}

// SortBy stable-sorts rows ascending by the named column. Missing cells
// sort last. Sorting by an absent column is a no-op.
func (t *Table) SortBy(name string) {
	i := t.index(name)
	if i < 0 || t.Len() < 2 {
		return
	}

	order := make([]int, t.Len())
	for j := range order {
		order[j] = j
	}

	key := t.series[i].Cells
	sort.SliceStable(order, func(a, b int) bool {
		return less(key[order[a]], key[order[b]])
	})

	for k := range t.series {
		cells := t.series[k].Cells
		sorted := make([]Cell, len(cells))
		for j, idx := range order {
			sorted[j] = cells[idx]
		}
		t.series[k].Cells = sorted
	}
}
