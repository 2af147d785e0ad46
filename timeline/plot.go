package timeline

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"trajectory2svg/frame"
)

// daysPerYear converts an episode duration in days to years on the age
// axis. The Gregorian mean year length keeps long trajectories aligned.
const daysPerYear = 365.2425

// Default figure geometry, mirroring a 12x5 inch figure at 100 dpi.
const (
	defaultDPI          = 100
	defaultWidthInches  = 12
	defaultHeightInches = 5
	defaultXMax         = 100
)

// PlotOptions controls a single Plot call. The zero value of any field
// falls back to the documented default, so callers only set what they
// need. The yaml tags let the CLI map a config file section directly onto
// the options.
type PlotOptions struct {
	// PatientColumn identifies patients. Required at plot time. Default "pasient".
	PatientColumn string `yaml:"patient_column"`
	// AgeColumn holds the numeric start position of each episode. Required
	// at plot time. Default "age".
	AgeColumn string `yaml:"age_column"`
	// ClusterColumn holds the integer cluster label used for segment
	// colors. Optional. Default "cluster".
	ClusterColumn string `yaml:"cluster_column"`
	// AnnotationColumns are drawn as "name: value" labels next to each
	// segment start when the row has a value.
	AnnotationColumns []string `yaml:"annotation_columns"`
	// Palette colors cluster labels 1..len(Palette). Default is
	// DefaultPalette.
	Palette []string `yaml:"palette"`
	// XMin and XMax bound the age axis. Default 0..100.
	XMin float64 `yaml:"x_min"`
	XMax float64 `yaml:"x_max"`
	// Width and Height are the figure size in pixels. Defaults derive from
	// a 12x5 inch figure at the configured DPI.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// DPI scales the default figure size. Default 100.
	DPI int `yaml:"dpi"`
	// SavePath, when set, writes the rendered SVG there as a side effect
	// of Plot.
	SavePath string `yaml:"output"`
}

// DefaultPlotOptions returns the defaults documented on PlotOptions.
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{
		PatientColumn: "pasient",
		AgeColumn:     "age",
		ClusterColumn: "cluster",
		Palette:       DefaultPalette(),
		XMin:          0,
		XMax:          defaultXMax,
		DPI:           defaultDPI,
		Width:         defaultWidthInches * defaultDPI,
		Height:        defaultHeightInches * defaultDPI,
	}
}

// withDefaults fills unset fields from DefaultPlotOptions.
func (o PlotOptions) withDefaults() PlotOptions {
	def := DefaultPlotOptions()

	if o.PatientColumn == "" {
		o.PatientColumn = def.PatientColumn
	}
	if o.AgeColumn == "" {
		o.AgeColumn = def.AgeColumn
	}
	if o.ClusterColumn == "" {
		o.ClusterColumn = def.ClusterColumn
	}
	if len(o.Palette) == 0 {
		o.Palette = def.Palette
	}
	if o.XMin == 0 && o.XMax == 0 {
		o.XMax = def.XMax
	}
	if o.DPI == 0 {
		o.DPI = def.DPI
	}
	if o.Width == 0 {
		o.Width = defaultWidthInches * o.DPI
	}
	if o.Height == 0 {
		o.Height = defaultHeightInches * o.DPI
	}

	return o
}

// Segment is one episode drawn as a horizontal line.
type Segment struct {
	Patient string
	Row     int
	Start   float64
	End     float64
	Color   string
}

// Annotation is a text label anchored near a segment start.
type Annotation struct {
	Text string
	X    float64
	Row  int
}

// Figure is the in-memory result of a Plot call, ready to be rendered to
// SVG.
type Figure struct {
	Segments    []Segment
	Annotations []Annotation
	// YTicks holds one patient label per row, in first-appearance order.
	YTicks []string
	XLabel string
	YLabel string
	XMin   float64
	XMax   float64
	Width  int
	Height int
	DPI    int
}

// Plot renders the normalized table into a Figure. The patient and age
// columns are required and produce a lookup error when absent; everything
// else degrades gracefully: rows without a usable age value are skipped,
// missing dates collapse the segment to a point, and unknown cluster
// labels fall back to a neutral color.
func (v *Visualizer) Plot(t *frame.Table, opts PlotOptions) (*Figure, error) {
	opts = opts.withDefaults()

	patients, err := t.Column(opts.PatientColumn)
	if err != nil {
		return nil, fmt.Errorf("patient column: %w", err)
	}

	ages, err := t.Column(opts.AgeColumn)
	if err != nil {
		return nil, fmt.Errorf("age column: %w", err)
	}

	clusters, hasClusters := optionalColumn(t, opts.ClusterColumn)
	startDates, hasStartDates := optionalColumn(t, StartDateColumn)
	endDates, hasEndDates := optionalColumn(t, EndDateColumn)
	hasDates := hasStartDates && hasEndDates

	fig := &Figure{
		YTicks: uniquePatients(patients),
		XLabel: capitalize(opts.AgeColumn),
		YLabel: capitalize(opts.PatientColumn),
		XMin:   opts.XMin,
		XMax:   opts.XMax,
		Width:  opts.Width,
		Height: opts.Height,
		DPI:    opts.DPI,
	}

	rowOf := make(map[string]int, len(fig.YTicks))
	for row, label := range fig.YTicks {
		rowOf[label] = row
	}

	for i := 0; i < t.Len(); i++ {
		patient := patients.At(i).String()
		if patient == "" {
			v.log.Debug().Int("row", i).Msg("skipping episode without patient id")
			continue
		}

		start, ok := ages.At(i).Float()
		if !ok {
			v.log.Debug().Int("row", i).Str("patient", patient).Msg("skipping episode without start value")
			continue
		}

		end := start
		if hasDates {
			if d, ok := episodeDuration(startDates.At(i), endDates.At(i)); ok {
				end = start + d
			}
		}

		color := FallbackColor
		if hasClusters {
			color = clusterColor(clusters.At(i), opts.Palette)
		}

		row := rowOf[patient]
		fig.Segments = append(fig.Segments, Segment{
			Patient: patient,
			Row:     row,
			Start:   start,
			End:     end,
			Color:   color,
		})

		if text := annotationText(t, i, opts.AnnotationColumns); text != "" {
			fig.Annotations = append(fig.Annotations, Annotation{Text: text, X: start, Row: row})
		}
	}

	v.log.Debug().
		Int("segments", len(fig.Segments)).
		Int("patients", len(fig.YTicks)).
		Msg("plotted patient timeline")

	if opts.SavePath != "" {
		if err := fig.Save(opts.SavePath); err != nil {
			return nil, err
		}
	}

	return fig, nil
}

// episodeDuration converts the gap between two date cells to years. It
// reports false unless both dates are valid.
func episodeDuration(start, end frame.Cell) (float64, bool) {
	startTS, ok := start.Time()
	if !ok {
		return 0, false
	}

	endTS, ok := end.Time()
	if !ok {
		return 0, false
	}

	days := int(endTS.Sub(startTS) / (24 * time.Hour))

	return float64(days) / daysPerYear, true
}

// annotationText joins the row's non-missing annotation values as
// "column: value" pairs.
func annotationText(t *frame.Table, row int, cols []string) string {
	var parts []string
	for _, name := range cols {
		s, err := t.Column(name)
		if err != nil {
			continue
		}
		if cell := s.At(row); !cell.IsNA() {
			parts = append(parts, fmt.Sprintf("%s: %s", name, cell.String()))
		}
	}
	return strings.Join(parts, "; ")
}

// uniquePatients returns the distinct patient labels in first-appearance
// order.
func uniquePatients(patients frame.Series) []string {
	seen := make(map[string]bool)
	var labels []string

	for i := range patients.Cells {
		label := patients.At(i).String()
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}

	return labels
}

func optionalColumn(t *frame.Table, name string) (frame.Series, bool) {
	s, err := t.Column(name)
	return s, err == nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
