// Package sheet decodes uploaded spreadsheet exports into rows of text cells
// and writes the mapped output workbook.
package sheet

import "strings"

// Row is one data line of the export: an ordered mapping from column label
// to cell text. Lookups go through the label index; Columns preserves the
// original column order for positional scans.
type Row struct {
	labels []string
	cells  []string
	index  map[string]int
	number int
}

// NewRow builds a row from header labels and cell values. Short rows are
// padded with empty cells so every label has a value. number is the 1-based
// position of the line in the source sheet, used in skip diagnostics.
func NewRow(labels, cells []string, number int) Row {
	padded := cells
	if len(padded) < len(labels) {
		padded = make([]string, len(labels))
		copy(padded, cells)
	}
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		if _, ok := index[label]; !ok {
			index[label] = i
		}
	}
	return Row{labels: labels, cells: padded, index: index, number: number}
}

// Get returns the cell under label, or "" when the column does not exist.
func (r Row) Get(label string) string {
	v, _ := r.Lookup(label)
	return v
}

// Lookup returns the cell under label and whether the column exists.
func (r Row) Lookup(label string) (string, bool) {
	i, ok := r.index[label]
	if !ok {
		return "", false
	}
	return r.cells[i], true
}

// Columns returns the column labels in source order.
func (r Row) Columns() []string {
	return r.labels
}

// Cell returns the cell at column position i.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}

// Number returns the 1-based line number of the row in the source sheet.
func (r Row) Number() int {
	return r.number
}

// Empty reports whether every cell is blank after trimming.
func (r Row) Empty() bool {
	for _, c := range r.cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
