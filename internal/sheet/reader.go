package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// ErrUnsupportedFormat is returned for uploads that are not .xls, .xlsx or .csv.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Options controls decoding of the uploaded export.
type Options struct {
	// CSVEncoding is "utf-8" or "windows-1251" and only applies to .csv uploads.
	CSVEncoding string
}

// ReadRows decodes an uploaded export into data rows. The format is chosen by
// the file extension. The export carries a title line above the real header:
// the first line is discarded, the second supplies column labels, the rest
// become rows. Lines with only blank cells are dropped.
func ReadRows(r io.Reader, filename string, opts Options) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	var raw [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		raw, err = readXLSX(data)
	case ".xls":
		raw, err = readXLS(data)
	case ".csv":
		raw, err = readCSV(data, opts.CSVEncoding)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	return assembleRows(raw)
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	if name == "" {
		return nil, errors.New("xlsx has no sheets")
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	return rows, nil
}

func readXLS(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("xls has no sheets")
	}

	raw := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			raw = append(raw, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		raw = append(raw, cells)
	}
	return raw, nil
}

func readCSV(data []byte, encoding string) ([][]string, error) {
	var reader io.Reader = bytes.NewReader(data)
	if encoding == "windows-1251" {
		reader = charmap.Windows1251.NewDecoder().Reader(reader)
	}

	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true

	raw, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return raw, nil
}

// assembleRows drops the title line, maps the header line to column labels
// and wraps the remaining lines into Rows.
func assembleRows(raw [][]string) ([]Row, error) {
	if len(raw) < 2 {
		return nil, errors.New("sheet has no header line")
	}

	header := raw[1]
	labels := make([]string, len(header))
	for i, label := range header {
		labels[i] = strings.TrimSpace(label)
	}

	rows := make([]Row, 0, len(raw)-2)
	for i, cells := range raw[2:] {
		row := NewRow(labels, cells, i+3)
		if row.Empty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
