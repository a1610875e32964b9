// Package atlas holds the static anatomy of a session: the Cerebra region
// table and the voxel label map, and the queries that combine them.
package atlas

import (
	"fmt"
	stdio "io"
	"sort"
	"strconv"
	"strings"

	"github.com/KyungWonPark/Activation/internal/io"
)

// Required region table columns.
const (
	ColumnID   = "Cerebra_ID"
	ColumnName = "Region_name"
)

// UnknownRegion is returned by Lookup for IDs absent from the table.
const UnknownRegion = "Unknown Region"

// SchemaError reports a region table that cannot be used.
type SchemaError struct {
	Path    string
	Missing []string
	Reason  string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("region table %s: missing required columns %s", e.Path, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("region table %s: %s", e.Path, e.Reason)
}

// RegionTable maps Cerebra IDs to region names. It is immutable once built.
type RegionTable struct {
	names map[int]string
}

// NewRegionTable builds a table from an id -> name mapping.
func NewRegionTable(names map[int]string) *RegionTable {
	t := &RegionTable{names: make(map[int]string, len(names))}
	for id, name := range names {
		t.names[id] = name
	}
	return t
}

// ReadRegionTable loads the region table from a CSV file.
func ReadRegionTable(path string) (*RegionTable, error) {
	header, rows, err := io.ReadCSV(path)
	if err != nil {
		return nil, err
	}
	return buildRegionTable(path, header, rows)
}

// ParseRegionTable loads the region table from CSV text; name is used in errors.
func ParseRegionTable(r stdio.Reader, name string) (*RegionTable, error) {
	header, rows, err := io.ParseCSV(r)
	if err != nil {
		return nil, err
	}
	return buildRegionTable(name, header, rows)
}

func buildRegionTable(path string, header []string, rows [][]string) (*RegionTable, error) {
	idCol, nameCol := -1, -1
	for i, col := range header {
		switch col {
		case ColumnID:
			idCol = i
		case ColumnName:
			nameCol = i
		}
	}

	var missing []string
	if idCol < 0 {
		missing = append(missing, ColumnID)
	}
	if nameCol < 0 {
		missing = append(missing, ColumnName)
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Path: path, Missing: missing}
	}

	names := make(map[int]string, len(rows))
	for i, row := range rows {
		line := i + 2
		if idCol >= len(row) || nameCol >= len(row) {
			return nil, &SchemaError{Path: path, Reason: fmt.Sprintf("line %d: expected at least %d fields, got %d", line, max(idCol, nameCol)+1, len(row))}
		}
		if row[idCol] == "" && row[nameCol] == "" {
			continue
		}

		id, err := strconv.Atoi(row[idCol])
		if err != nil {
			return nil, &SchemaError{Path: path, Reason: fmt.Sprintf("line %d: invalid %s %q", line, ColumnID, row[idCol])}
		}
		if prev, ok := names[id]; ok {
			return nil, &SchemaError{Path: path, Reason: fmt.Sprintf("line %d: duplicate %s %d (already %q)", line, ColumnID, id, prev)}
		}
		names[id] = row[nameCol]
	}

	return &RegionTable{names: names}, nil
}

// Lookup returns the region name for id, or UnknownRegion.
func (t *RegionTable) Lookup(id int) string {
	if name, ok := t.names[id]; ok {
		return name
	}
	return UnknownRegion
}

// Len returns the number of regions in the table.
func (t *RegionTable) Len() int {
	return len(t.names)
}

// IDs returns the region IDs in ascending order.
func (t *RegionTable) IDs() []int {
	ids := make([]int, 0, len(t.names))
	for id := range t.names {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
