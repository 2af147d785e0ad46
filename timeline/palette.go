package timeline

import "trajectory2svg/frame"

// FallbackColor is used for episodes whose cluster label is missing or
// outside the palette range.
const FallbackColor = "gray"

// DefaultPalette returns the default segment colors for cluster labels
// 1..n.
func DefaultPalette() []string {
	return []string{"red", "green", "blue", "orange", "purple", "brown", "cyan"}
}

// clusterColor maps a cluster cell to a palette color. Cluster labels are
// 1-based: label 1 selects the first palette entry. Missing, non-numeric,
// and out-of-range labels select FallbackColor.
func clusterColor(cluster frame.Cell, palette []string) string {
	f, ok := cluster.Float()
	if !ok {
		return FallbackColor
	}

	idx := int(f) - 1
	if idx < 0 || idx >= len(palette) {
		return FallbackColor
	}

	return palette[idx]
}
