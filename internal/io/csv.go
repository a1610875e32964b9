package io

import (
	"encoding/csv"
	"fmt"
	stdio "io"
	"os"
	"strconv"
	"strings"
)

// ReadCSV reads a CSV file with a header line and returns the trimmed
// header and the remaining records
func ReadCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("[ReadCSV] failed to open file: %w", err)
	}
	defer f.Close()

	return ParseCSV(f)
}

// ParseCSV is ReadCSV over an arbitrary reader
func ParseCSV(r stdio.Reader) ([]string, [][]string, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("[ParseCSV] failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		// Excel exports prepend a byte order mark to the first cell.
		header[i] = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	}

	rows := records[1:]
	for _, row := range rows {
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
	}

	return header, rows, nil
}

// SamplesToCSV saves sample columns side by side, one column per header
// entry. Shorter columns leave their trailing cells empty.
func SamplesToCSV(path string, header []string, columns [][]float64) error {
	if len(header) != len(columns) {
		return fmt.Errorf("[SamplesToCSV] %d header names for %d columns", len(header), len(columns))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("[SamplesToCSV] failed to create file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("[SamplesToCSV] failed to write header: %w", err)
	}

	rows := 0
	for _, col := range columns {
		if len(col) > rows {
			rows = len(col)
		}
	}

	line := make([]string, len(columns))
	for row := 0; row < rows; row++ {
		for i, col := range columns {
			line[i] = ""
			if row < len(col) {
				line[i] = strconv.FormatFloat(col[row], 'g', -1, 64)
			}
		}
		if err := w.Write(line); err != nil {
			return fmt.Errorf("[SamplesToCSV] failed to write row %d: %w", row, err)
		}
	}

	w.Flush()
	return w.Error()
}
