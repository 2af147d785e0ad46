package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trajectory2svg/frame"
)

func TestClusterColor(t *testing.T) {
	palette := DefaultPalette()

	tests := []struct {
		name    string
		cluster frame.Cell
		want    string
	}{
		{"first cluster", frame.Float(1), palette[0]},
		{"last cluster", frame.Float(float64(len(palette))), palette[len(palette)-1]},
		{"numeric string", frame.String("2"), palette[1]},
		{"zero is out of range", frame.Float(0), FallbackColor},
		{"negative", frame.Float(-3), FallbackColor},
		{"beyond palette", frame.Float(float64(len(palette) + 1)), FallbackColor},
		{"missing", frame.NA(), FallbackColor},
		{"non-numeric", frame.String("abc"), FallbackColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clusterColor(tt.cluster, palette))
		})
	}
}
