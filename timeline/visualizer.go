/*
Package timeline renders per-patient episode timelines as SVG charts.

A Visualizer first normalizes a raw table (column selection, renaming,
dropping, date parsing, chronological sort) and then plots one horizontal
segment per episode: the x axis is the patient's age at the episode, the y
axis is one row per patient, segment color encodes an integer cluster
label, and configured annotation columns are drawn as small labels next to
the segment start.
*/
package timeline

import (
	"github.com/rs/zerolog"

	"trajectory2svg/frame"
)

// Date columns recognized by LoadData. When present they are parsed to
// dates, and the table is sorted by the start date.
const (
	StartDateColumn = "episode_start_date"
	EndDateColumn   = "episode_end_date"
)

// Visualizer loads and plots patient trajectory tables.
type Visualizer struct {
	selected []string
	renames  map[string]string
	drops    []string
	log      zerolog.Logger
}

// Option configures a Visualizer.
type Option func(*Visualizer)

// WithSelectedColumns keeps only the named columns, in order, when loading.
// Naming an absent column makes LoadData fail.
func WithSelectedColumns(names ...string) Option {
	return func(v *Visualizer) { v.selected = names }
}

// WithRenameColumns renames columns per the old-name to new-name map when
// loading. Renaming happens after selection and before dropping.
func WithRenameColumns(renames map[string]string) Option {
	return func(v *Visualizer) { v.renames = renames }
}

// WithDropColumns removes the named columns when loading. Names the table
// does not have are ignored.
func WithDropColumns(names ...string) Option {
	return func(v *Visualizer) { v.drops = names }
}

// WithLogger sets the logger used for per-row diagnostics. The default is
// a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(v *Visualizer) { v.log = log }
}

// New returns a Visualizer with the given options applied.
func New(opts ...Option) *Visualizer {
	v := &Visualizer{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// LoadData normalizes a raw episode table for plotting. The input is
// copied, never mutated. Steps, in order: select configured columns,
// rename, drop, parse the episode date columns (unparsable values become
// missing cells), and stable-sort ascending by episode start date when
// that column exists.
//
// The ordering of rename before drop is deliberate: a column renamed away
// from a name on the drop list is kept.
func (v *Visualizer) LoadData(t *frame.Table) (*frame.Table, error) {
	out := t.Copy()

	if v.selected != nil {
		selected, err := out.Select(v.selected...)
		if err != nil {
			return nil, err
		}
		out = selected
	}

	if v.renames != nil {
		out.Rename(v.renames)
	}

	if len(v.drops) > 0 {
		out.Drop(v.drops...)
	}

	out.ParseDates(StartDateColumn, EndDateColumn)

	if out.HasColumn(StartDateColumn) {
		out.SortBy(StartDateColumn)
	}

	v.log.Debug().
		Int("rows", out.Len()).
		Strs("columns", out.Columns()).
		Msg("loaded episode table")

	return out, nil
}
