package resources

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ZanzyTHEbar/date-decision-simulator/internal/features"
)

// ParseBaseline reads a one-row baseline table. The format follows the
// artifact's extension: .csv or .xlsx.
func ParseBaseline(name string, r io.Reader) (*features.BaselineTemplate, error) {
	var (
		header []string
		record []string
		err    error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", "":
		header, record, err = readCSV(r)
	case ".xlsx":
		header, record, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported baseline format %q", filepath.Ext(name))
	}
	if err != nil {
		return nil, err
	}

	return buildBaseline(header, record)
}

func readCSV(r io.Reader) ([]string, []string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("baseline is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read baseline header: %w", err)
	}

	record, err := cr.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("baseline has no data row")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read baseline row: %w", err)
	}
	return header, record, nil
}

func readXLSX(r io.Reader) ([]string, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open baseline workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("baseline workbook has no sheets")
	}

	// raw values so number formats such as percentages do not leak into parsing
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("baseline sheet %s needs a header and one data row", sheets[0])
	}

	// GetRows trims trailing empty cells
	record := rows[1]
	for len(record) < len(rows[0]) {
		record = append(record, "")
	}
	return rows[0], record, nil
}

func buildBaseline(header, record []string) (*features.BaselineTemplate, error) {
	if len(record) != len(header) {
		return nil, fmt.Errorf("baseline row has %d values for %d columns", len(record), len(header))
	}

	names := make([]string, 0, len(header))
	values := make([]float64, 0, len(header))
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\uFEFF"))
		// pandas writes the index as an unnamed first column
		if col == "" && i == 0 {
			continue
		}
		v, err := parseCell(record[i])
		if err != nil {
			return nil, fmt.Errorf("baseline column %s: %w", col, err)
		}
		names = append(names, col)
		values = append(values, v)
	}

	row, err := features.NewFeatureRow(names, values)
	if err != nil {
		return nil, err
	}
	return features.NewBaselineTemplate(row)
}

// parseCell reads one baseline value. An empty cell is missing data and
// becomes NaN, which the classifier rejects if the model needs that column.
func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
