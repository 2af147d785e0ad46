// Command trajectory2svg renders a patient trajectory CSV file as an SVG
// timeline chart: one row per patient, one colored segment per episode.
package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"trajectory2svg/frame"
	"trajectory2svg/timeline"
)

func main() {
	var (
		csvFile    string
		configFile string
		outputFile string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:   "trajectory2svg",
		Short: "Render patient trajectory timelines from CSV to SVG",
		Long: `trajectory2svg reads a CSV file of patient episodes and renders a
horizontal timeline chart: age on the x axis, one row per patient, colored
segments per episode, and optional per-episode annotations.

Column selection, renaming, dropping, and all plot options come from an
optional YAML configuration file. Without --output, the SVG is written next
to the CSV file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(csvFile, configFile, outputFile, verbose)
		},
	}

	rootCmd.Flags().StringVar(&csvFile, "csv", "", "CSV file with episode data (required)")
	rootCmd.Flags().StringVar(&configFile, "config", "", "YAML configuration file")
	rootCmd.Flags().StringVar(&outputFile, "output", "", "output SVG filename")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	_ = rootCmd.MarkFlagRequired("csv")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(csvFile, configFile, outputFile string, verbose bool) error {
	logger := newLogger(verbose)

	cfg, err := timeline.LoadConfig(configFile)
	if err != nil {
		return err
	}

	table, err := frame.ReadCSVFile(csvFile)
	if err != nil {
		return err
	}
	logger.Debug().Int("rows", table.Len()).Str("csv", csvFile).Msg("read episode data")

	viz := cfg.Visualizer(timeline.WithLogger(logger))

	clean, err := viz.LoadData(table)
	if err != nil {
		return err
	}

	opts := cfg.Plot
	opts.SavePath = outputPath(csvFile, outputFile, opts.SavePath)

	fig, err := viz.Plot(clean, opts)
	if err != nil {
		return err
	}

	logger.Info().
		Int("patients", len(fig.YTicks)).
		Int("segments", len(fig.Segments)).
		Str("output", opts.SavePath).
		Msg("timeline rendered")

	return nil
}

// outputPath picks the SVG destination: the --output flag wins, then the
// config file's output setting, then the CSV filename with a .svg
// extension.
func outputPath(csvFile, outputFile, configured string) string {
	if outputFile != "" {
		return outputFile
	}
	if configured != "" {
		return configured
	}

	base := filepath.Base(csvFile)
	ext := filepath.Ext(base)

	return strings.TrimSuffix(base, ext) + ".svg"
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}
