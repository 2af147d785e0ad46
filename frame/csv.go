package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadCSV reads a header-led CSV stream into a table of text cells. Header
// names are trimmed and lower-cased so column configuration can match them
// case-insensitively. Empty fields become missing cells.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	series := make([]Series, len(header))
	for i, name := range header {
		series[i] = Series{Name: strings.ToLower(strings.TrimSpace(name))}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}

		for i := range series {
			var cell Cell
			if i < len(record) {
				if v := strings.TrimSpace(record[i]); v != "" {
					cell = String(v)
				}
			}
			series[i].Cells = append(series[i].Cells, cell)
		}
	}

	return New(series...)
}

// ReadCSVFile reads a CSV file into a table.
func ReadCSVFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening CSV file: %w", err)
	}
	defer file.Close()

	return ReadCSV(file)
}
