package timeline

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Figure layout constants, in pixels.
const (
	marginLeft   = 70
	marginRight  = 25
	marginTop    = 20
	marginBottom = 55

	tickFontSize       = 12
	labelFontSize      = 14
	annotationFontSize = 11

	segmentStrokeWidth = 5
	targetXTicks       = 6
)

// SVG renders the figure as a standalone SVG document.
func (f *Figure) SVG() string {
	plotLeft := float64(marginLeft)
	plotTop := float64(marginTop)
	plotRight := float64(f.Width - marginRight)
	plotBottom := float64(f.Height - marginBottom)
	plotWidth := plotRight - plotLeft
	plotHeight := plotBottom - plotTop

	xSpan := f.XMax - f.XMin
	if xSpan <= 0 {
		xSpan = 1
	}

	xScale := func(v float64) float64 {
		return plotLeft + (v-f.XMin)/xSpan*plotWidth
	}

	// Rows are centered in evenly sized bands, bottom-up, the way the
	// original chart stacks patients.
	rows := len(f.YTicks)
	rowY := func(row int) float64 {
		if rows == 0 {
			return plotTop + plotHeight/2
		}
		band := plotHeight / float64(rows)
		return plotBottom - band*(float64(row)+0.5)
	}

	var svg strings.Builder

	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<defs>
<clipPath id="plot-area"><rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"/></clipPath>
<style>
.tick-text { font-family: Arial, sans-serif; font-size: %dpx; fill: #333333; }
.label-text { font-family: Arial, sans-serif; font-size: %dpx; fill: #333333; }
.annotation-text { font-family: Arial, sans-serif; font-size: %dpx; fill: #333333; }
</style>
</defs>
`, f.Width, f.Height, plotLeft, plotTop, plotWidth, plotHeight,
		tickFontSize, labelFontSize, annotationFontSize))

	// Light grid, matching the original's thin translucent lines.
	xTicks := niceTicks(f.XMin, f.XMax, targetXTicks)
	for _, tick := range xTicks {
		x := xScale(tick)
		svg.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#b0b0b0" stroke-width="0.5" opacity="0.3"/>`,
			x, plotTop, x, plotBottom))
		svg.WriteString("\n")
	}
	for row := range f.YTicks {
		y := rowY(row)
		svg.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#b0b0b0" stroke-width="0.5" opacity="0.3"/>`,
			plotLeft, y, plotRight, y))
		svg.WriteString("\n")
	}

	// Plot frame.
	svg.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#333333" stroke-width="1"/>`,
		plotLeft, plotTop, plotWidth, plotHeight))
	svg.WriteString("\n")

	// Episode segments, clipped to the plot area.
	svg.WriteString(`<g clip-path="url(#plot-area)">`)
	svg.WriteString("\n")
	for _, seg := range f.Segments {
		y := rowY(seg.Row)
		svg.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%d" stroke-linecap="round"/>`,
			xScale(seg.Start), y, xScale(seg.End), y, seg.Color, segmentStrokeWidth))
		svg.WriteString("\n")
	}

	// Annotation labels in rounded boxes near each segment start.
	for _, a := range f.Annotations {
		f.writeAnnotation(&svg, a, xScale(a.X), rowY(a.Row))
	}
	svg.WriteString("</g>\n")

	// Y ticks: one patient label per row.
	for row, label := range f.YTicks {
		svg.WriteString(fmt.Sprintf(`<text x="%.2f" y="%.2f" text-anchor="end" class="tick-text">%s</text>`,
			plotLeft-8, rowY(row)+4, escapeXML(label)))
		svg.WriteString("\n")
	}

	// X ticks with small marks below the axis.
	for _, tick := range xTicks {
		x := xScale(tick)
		svg.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#333333" stroke-width="1"/>`,
			x, plotBottom, x, plotBottom+5))
		svg.WriteString("\n")
		svg.WriteString(fmt.Sprintf(`<text x="%.2f" y="%.2f" text-anchor="middle" class="tick-text">%s</text>`,
			x, plotBottom+20, formatTick(tick)))
		svg.WriteString("\n")
	}

	// Axis labels.
	if f.XLabel != "" {
		svg.WriteString(fmt.Sprintf(`<text x="%.2f" y="%.2f" text-anchor="middle" class="label-text">%s</text>`,
			plotLeft+plotWidth/2, float64(f.Height)-12, escapeXML(f.XLabel)))
		svg.WriteString("\n")
	}
	if f.YLabel != "" {
		centerY := plotTop + plotHeight/2
		svg.WriteString(fmt.Sprintf(`<text x="14" y="%.2f" text-anchor="middle" class="label-text" transform="rotate(-90 14 %.2f)">%s</text>`,
			centerY, centerY, escapeXML(f.YLabel)))
		svg.WriteString("\n")
	}

	svg.WriteString("</svg>\n")

	return svg.String()
}

// writeAnnotation draws one label with a translucent rounded box, offset a
// few pixels up-right from the segment start.
func (f *Figure) writeAnnotation(svg *strings.Builder, a Annotation, x, y float64) {
	const pad = 4

	anchorX := x + 5
	baseY := y - 7

	boxWidth := estimateTextWidth(a.Text, annotationFontSize) + 2*pad
	boxHeight := float64(annotationFontSize) + 2*pad

	svg.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="3" fill="#ffffff" fill-opacity="0.7" stroke="grey" stroke-width="0.5"/>`,
		anchorX, baseY-boxHeight, boxWidth, boxHeight))
	svg.WriteString("\n")
	svg.WriteString(fmt.Sprintf(`<text x="%.2f" y="%.2f" class="annotation-text">%s</text>`,
		anchorX+pad, baseY-pad-1, escapeXML(a.Text)))
	svg.WriteString("\n")
}

// Save writes the rendered SVG to the given path.
func (f *Figure) Save(path string) error {
	if err := os.WriteFile(path, []byte(f.SVG()), 0644); err != nil {
		return fmt.Errorf("writing SVG file: %w", err)
	}
	return nil
}

// estimateTextWidth estimates rendered text width from the character
// count; average character width is about 0.6 of the font size.
func estimateTextWidth(text string, fontSize int) float64 {
	return float64(len(text)) * float64(fontSize) * 0.6
}

// niceTicks returns round tick values covering [min, max], aiming for
// about n ticks with a 1/2/5 step progression.
func niceTicks(min, max float64, n int) []float64 {
	span := max - min
	if span <= 0 || n < 2 {
		return []float64{min}
	}

	raw := span / float64(n)
	magnitude := math.Pow(10, math.Floor(math.Log10(raw)))
	step := magnitude
	switch {
	case raw/magnitude > 5:
		step = magnitude * 10
	case raw/magnitude > 2:
		step = magnitude * 5
	case raw/magnitude > 1:
		step = magnitude * 2
	}

	var ticks []float64
	for v := math.Ceil(min/step) * step; v <= max+step/1e6; v += step {
		// Round accumulated drift back onto the step grid.
		ticks = append(ticks, math.Round(v/step)*step)
	}

	return ticks
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// escapeXML escapes special XML characters so annotation and label text
// cannot break the SVG document.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
