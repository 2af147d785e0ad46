package timeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration surface for the CLI. The data section
// configures the Visualizer, the plot section maps directly onto
// PlotOptions.
type Config struct {
	Data struct {
		SelectedColumns []string          `yaml:"selected_columns"` // Columns to keep, in order; empty keeps all
		RenameColumns   map[string]string `yaml:"rename_columns"`   // old-name -> new-name
		DropColumns     []string          `yaml:"drop_columns"`     // Columns to remove after renaming
	} `yaml:"data"`
	Plot PlotOptions `yaml:"plot"`
}

// DefaultConfig returns the configuration used when no file is given: keep
// every column and plot with the PlotOptions defaults.
func DefaultConfig() Config {
	return Config{Plot: DefaultPlotOptions()}
}

// LoadConfig loads a YAML configuration file, or returns DefaultConfig when
// the path is empty. Plot fields left unset in the file keep their
// defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}

	config.Plot = config.Plot.withDefaults()

	return config, nil
}

// Visualizer builds a Visualizer from the data section.
func (c Config) Visualizer(opts ...Option) *Visualizer {
	configured := make([]Option, 0, len(opts)+3)

	if c.Data.SelectedColumns != nil {
		configured = append(configured, WithSelectedColumns(c.Data.SelectedColumns...))
	}
	if c.Data.RenameColumns != nil {
		configured = append(configured, WithRenameColumns(c.Data.RenameColumns))
	}
	if len(c.Data.DropColumns) > 0 {
		configured = append(configured, WithDropColumns(c.Data.DropColumns...))
	}

	return New(append(configured, opts...)...)
}
