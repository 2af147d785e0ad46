package timeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trajectory2svg/frame"
)

func plotEpisodes(t *testing.T, opts PlotOptions) *Figure {
	t.Helper()

	viz := New()
	clean, err := viz.LoadData(episodeTable(t))
	require.NoError(t, err)

	opts.PatientColumn = "patient_id"

	fig, err := viz.Plot(clean, opts)
	require.NoError(t, err)

	return fig
}

func TestPlotMissingAgeColumn(t *testing.T) {
	tbl := frame.MustNew(frame.Strings("patient_id", "5"))

	_, err := New().Plot(tbl, PlotOptions{PatientColumn: "patient_id"})
	require.ErrorIs(t, err, frame.ErrColumnNotFound)
	assert.Contains(t, err.Error(), "age")
}

func TestPlotMissingPatientColumn(t *testing.T) {
	tbl := frame.MustNew(frame.Floats("age", 1))

	_, err := New().Plot(tbl, PlotOptions{})
	require.ErrorIs(t, err, frame.ErrColumnNotFound)
	assert.Contains(t, err.Error(), "patient")
}

func TestPlotSegmentsAndTicks(t *testing.T) {
	fig := plotEpisodes(t, PlotOptions{})

	// Three episodes across two patients: one segment per episode, one
	// y tick per distinct patient, in first-appearance order.
	require.Len(t, fig.Segments, 3)
	assert.Equal(t, []string{"5", "6"}, fig.YTicks)

	assert.Equal(t, 0, fig.Segments[0].Row)
	assert.Equal(t, 0, fig.Segments[1].Row)
	assert.Equal(t, 1, fig.Segments[2].Row)
}

func TestPlotEndPositionFromDates(t *testing.T) {
	fig := plotEpisodes(t, PlotOptions{})

	// 2001-01-01 .. 2001-06-01 is 151 days.
	first := fig.Segments[0]
	assert.Equal(t, 0.0, first.Start)
	assert.InDelta(t, 151/365.2425, first.End, 1e-9)

	// Missing end date collapses the segment to its start.
	second := fig.Segments[1]
	assert.Equal(t, second.Start, second.End)

	// 2010-01-01 .. 2010-12-31 is 364 days.
	third := fig.Segments[2]
	assert.InDelta(t, 50+364/365.2425, third.End, 1e-9)
}

func TestPlotClusterColors(t *testing.T) {
	fig := plotEpisodes(t, PlotOptions{})

	palette := DefaultPalette()
	assert.Equal(t, palette[0], fig.Segments[0].Color)
	assert.Equal(t, palette[1], fig.Segments[1].Color)
	assert.Equal(t, FallbackColor, fig.Segments[2].Color, "missing cluster falls back")
}

func TestPlotAnnotations(t *testing.T) {
	fig := plotEpisodes(t, PlotOptions{AnnotationColumns: []string{"diagnosis"}})

	// The first episode has no diagnosis value, so only two labels.
	require.Len(t, fig.Annotations, 2)
	assert.Equal(t, "diagnosis: B", fig.Annotations[0].Text)
	assert.Equal(t, "diagnosis: C", fig.Annotations[1].Text)
	assert.Equal(t, 4.0, fig.Annotations[0].X, "label anchors at the segment start")
}

func TestPlotJoinsMultipleAnnotationColumns(t *testing.T) {
	tbl := frame.MustNew(
		frame.Strings("patient_id", "5"),
		frame.Floats("age", 10),
		frame.Strings("diagnosis", "B"),
		frame.Strings("ward", "3A"),
	)

	fig, err := New().Plot(tbl, PlotOptions{
		PatientColumn:     "patient_id",
		AnnotationColumns: []string{"diagnosis", "ward", "absent"},
	})
	require.NoError(t, err)

	require.Len(t, fig.Annotations, 1)
	assert.Equal(t, "diagnosis: B; ward: 3A", fig.Annotations[0].Text)
}

func TestPlotSkipsRowsWithoutStartValue(t *testing.T) {
	tbl := frame.MustNew(
		frame.Strings("patient_id", "5", "5"),
		frame.Strings("age", "10", "not numeric"),
	)

	fig, err := New().Plot(tbl, PlotOptions{PatientColumn: "patient_id"})
	require.NoError(t, err)

	assert.Len(t, fig.Segments, 1)
	assert.Equal(t, []string{"5"}, fig.YTicks)
}

func TestPlotDefaults(t *testing.T) {
	fig := plotEpisodes(t, PlotOptions{})

	assert.Equal(t, "Age", fig.XLabel)
	assert.Equal(t, "Patient_id", fig.YLabel)
	assert.Equal(t, 0.0, fig.XMin)
	assert.Equal(t, 100.0, fig.XMax)
	assert.Equal(t, 1200, fig.Width)
	assert.Equal(t, 500, fig.Height)
	assert.Equal(t, 100, fig.DPI)
}

func TestPlotSavesFigure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.svg")

	plotEpisodes(t, PlotOptions{SavePath: path})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}
