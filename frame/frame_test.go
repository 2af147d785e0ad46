package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsRaggedColumns(t *testing.T) {
	_, err := New(
		Strings("a", "1", "2"),
		Strings("b", "1"),
	)
	require.Error(t, err)
}

func TestNewRejectsDuplicateNames(t *testing.T) {
	_, err := New(
		Strings("a", "1"),
		Strings("a", "2"),
	)
	require.Error(t, err)
}

func TestColumnLookup(t *testing.T) {
	tbl := MustNew(Strings("a", "1", "2"))

	s, err := tbl.Column("a")
	require.NoError(t, err)
	assert.Equal(t, "a", s.Name)

	_, err = tbl.Column("missing")
	require.ErrorIs(t, err, ErrColumnNotFound)
}

func TestSelectMissingColumn(t *testing.T) {
	tbl := MustNew(Strings("a", "1"))

	_, err := tbl.Select("a", "missing")
	require.ErrorIs(t, err, ErrColumnNotFound)
}

func TestSelectProjectsAndOrders(t *testing.T) {
	tbl := MustNew(
		Strings("a", "1"),
		Strings("b", "2"),
		Strings("c", "3"),
	)

	out, err := tbl.Select("c", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, out.Columns())
}

func TestRenameThenDropOrderSensitivity(t *testing.T) {
	// A column renamed away from its drop-list name must survive the drop.
	tbl := MustNew(
		Strings("patient_id", "5"),
		Strings("noise", "x"),
	)

	tbl.Rename(map[string]string{"patient_id": "pasient"})
	tbl.Drop("patient_id", "noise")

	assert.Equal(t, []string{"pasient"}, tbl.Columns())
}

func TestDropIgnoresMissingColumns(t *testing.T) {
	tbl := MustNew(Strings("a", "1"))

	tbl.Drop("not-there")

	assert.Equal(t, []string{"a"}, tbl.Columns())
}

func TestCopyIsolation(t *testing.T) {
	tbl := MustNew(Strings("a", "1", "2"))

	c := tbl.Copy()
	c.Rename(map[string]string{"a": "b"})
	c.series[0].Cells[0] = String("changed")

	assert.Equal(t, []string{"a"}, tbl.Columns())
	assert.Equal(t, "1", tbl.series[0].Cells[0].String())
}

func TestParseDatesCoercesUnparsable(t *testing.T) {
	tbl := MustNew(Strings("start", "2001-01-01", "not a date", ""))

	tbl.ParseDates("start", "absent")

	s, err := tbl.Column("start")
	require.NoError(t, err)

	ts, ok := s.At(0).Time()
	require.True(t, ok)
	assert.Equal(t, 2001, ts.Year())

	assert.True(t, s.At(1).IsNA(), "unparsable value should become missing")
	assert.True(t, s.At(2).IsNA())
}

func TestSortByDatesMissingLast(t *testing.T) {
	tbl := MustNew(
		Strings("start", "2005-01-01", "", "2001-01-01"),
		Strings("label", "second", "missing", "first"),
	)
	tbl.ParseDates("start")

	tbl.SortBy("start")

	labels, err := tbl.Column("label")
	require.NoError(t, err)
	assert.Equal(t, "first", labels.At(0).String())
	assert.Equal(t, "second", labels.At(1).String())
	assert.Equal(t, "missing", labels.At(2).String())

	// Non-decreasing by start date over the valid prefix.
	starts, err := tbl.Column("start")
	require.NoError(t, err)
	first, _ := starts.At(0).Time()
	second, _ := starts.At(1).Time()
	assert.False(t, second.Before(first))
}

func TestSortByAbsentColumnIsNoop(t *testing.T) {
	tbl := MustNew(Strings("a", "2", "1"))

	tbl.SortBy("missing")

	s, _ := tbl.Column("a")
	assert.Equal(t, "2", s.At(0).String())
}

func TestCellFloat(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want float64
		ok   bool
	}{
		{"float", Float(4.5), 4.5, true},
		{"numeric string", String("50"), 50, true},
		{"padded string", String(" 1.5 "), 1.5, true},
		{"text", String("abc"), 0, false},
		{"missing", NA(), 0, false},
		{"date", Time(time.Now()), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cell.Float()

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", NA().String())
	assert.Equal(t, "5", Float(5).String())
	assert.Equal(t, "2001-01-01", Time(time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)).String())
}
