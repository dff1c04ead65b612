package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Load parses CSV or Excel content into a Dataset, inferring a dtype for
// every column. The filename extension selects the parser.
func Load(content []byte, filename string) (*Dataset, error) {
	var records [][]string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		records, err = readCSV(content)
	case ".xlsx", ".xls":
		records, err = readExcel(content)
	default:
		return nil, fmt.Errorf("%w: %s (use .csv, .xlsx or .xls)", ErrUnsupportedFormat, filename)
	}
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%w: file has no data rows", ErrParse)
	}
	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: dataset must have at least 2 columns (features + target)", ErrParse)
	}

	rows := records[1:]
	ds := &Dataset{Columns: make([]Column, len(header))}
	for c, name := range header {
		raw := make([]string, len(rows))
		for r := range rows {
			if c < len(rows[r]) {
				raw[r] = rows[r][c]
			}
		}
		ds.Columns[c] = inferColumn(strings.TrimSpace(name), raw)
	}
	return ds, nil
}

func readCSV(content []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return records, nil
}

func readExcel(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrParse)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return rows, nil
}

// missing reports whether a raw string marks an absent value.
func missing(s string) bool {
	switch s {
	case "", "NA", "NaN", "nan", "null", "None":
		return true
	}
	return false
}

// inferColumn classifies a raw string column as int64, float64, bool or
// object and parses the cells accordingly. Infinities are cleaned to missing
// the way the upload contract requires. An integer column with missing cells
// is promoted to float64, matching how pandas widens nullable int columns.
func inferColumn(name string, raw []string) Column {
	allInt, allFloat, allBool := true, true, true
	hasMissing := false
	nonMissing := 0

	for _, s := range raw {
		s = strings.TrimSpace(s)
		if missing(s) {
			hasMissing = true
			continue
		}
		nonMissing++
		if allInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				allFloat = false
			}
		}
		if allBool {
			switch s {
			case "true", "false", "True", "False", "TRUE", "FALSE":
			default:
				allBool = false
			}
		}
	}

	// A fully missing column carries no type evidence; treat it as float64
	// full of NaN, the way pandas does.
	if nonMissing == 0 {
		allInt, allBool = false, false
		allFloat = true
	}

	col := Column{Name: name, Cells: make([]Cell, len(raw))}
	switch {
	case allBool:
		col.Type = Bool
		for i, s := range raw {
			s = strings.TrimSpace(s)
			if missing(s) {
				continue
			}
			col.Cells[i] = strings.EqualFold(s, "true")
		}
	case allInt && !hasMissing:
		col.Type = Int64
		for i, s := range raw {
			v, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			col.Cells[i] = v
		}
	case allFloat:
		col.Type = Float64
		for i, s := range raw {
			s = strings.TrimSpace(s)
			if missing(s) {
				continue
			}
			v, _ := strconv.ParseFloat(s, 64)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			col.Cells[i] = v
		}
	default:
		col.Type = Object
		for i, s := range raw {
			s = strings.TrimSpace(s)
			if missing(s) {
				continue
			}
			col.Cells[i] = s
		}
	}
	return col
}
