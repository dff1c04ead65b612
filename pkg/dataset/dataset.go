// Package dataset holds the in-memory tabular store: a typed, column-oriented
// table parsed from an uploaded file, with pandas-style dtypes and nullable
// cells. The pipeline keeps two copies: the immutable original and a working
// copy that preprocessing mutates.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrParse reports unreadable, empty or structurally invalid content.
	ErrParse = errors.New("could not parse dataset")
	// ErrUnsupportedFormat reports an unrecognized file extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrInvalidColumn reports a reference to a missing or wrong-typed column.
	ErrInvalidColumn = errors.New("invalid column")
)

// DType is the inferred scalar type of a column, named the way pandas
// stringifies dtypes so the JSON surface matches the original tool.
type DType string

const (
	Int64   DType = "int64"
	Float64 DType = "float64"
	Bool    DType = "bool"
	Object  DType = "object"
)

// Cell is a single nullable value: int64, float64, bool, string, or nil
// for missing.
type Cell any

// Column is a named, typed, ordered sequence of cells.
type Column struct {
	Name  string
	Type  DType
	Cells []Cell
}

// Numeric reports whether the column holds int64 or float64 values.
func (c *Column) Numeric() bool {
	return c.Type == Int64 || c.Type == Float64
}

// Floats returns the column as float64 values, with NaN for missing cells.
// Only valid on numeric columns.
func (c *Column) Floats() []float64 {
	out := make([]float64, len(c.Cells))
	for i, v := range c.Cells {
		switch x := v.(type) {
		case int64:
			out[i] = float64(x)
		case float64:
			out[i] = x
		default:
			out[i] = math.NaN()
		}
	}
	return out
}

// SetFloats overwrites the column with float values and retypes it float64.
// Cells that were missing stay missing.
func (c *Column) SetFloats(vals []float64) {
	c.Type = Float64
	for i := range c.Cells {
		if c.Cells[i] == nil {
			continue
		}
		c.Cells[i] = vals[i]
	}
}

// Codes label-encodes the column in first-seen order, the same coding
// pd.factorize uses. Missing cells get code -1.
func (c *Column) Codes() []float64 {
	seen := map[string]int{}
	out := make([]float64, len(c.Cells))
	for i, v := range c.Cells {
		if v == nil {
			out[i] = -1
			continue
		}
		key := FormatCell(v)
		code, ok := seen[key]
		if !ok {
			code = len(seen)
			seen[key] = code
		}
		out[i] = float64(code)
	}
	return out
}

// Distinct returns the distinct cell values of the column, stringified, in
// first-seen order. Missing cells count as the value "NaN".
func (c *Column) Distinct() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, v := range c.Cells {
		key := FormatCell(v)
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	return out
}

// FormatCell renders a cell for display and class naming.
func FormatCell(v Cell) string {
	switch x := v.(type) {
	case nil:
		return "NaN"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		if x {
			return "True"
		}
		return "False"
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// Dataset is an ordered sequence of equally sized columns.
type Dataset struct {
	Columns []Column
}

// Rows returns the row count.
func (d *Dataset) Rows() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0].Cells)
}

// ColumnNames returns the column names in dataset order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i := range d.Columns {
		names[i] = d.Columns[i].Name
	}
	return names
}

// DTypes maps column name to its dtype string.
func (d *Dataset) DTypes() map[string]string {
	out := make(map[string]string, len(d.Columns))
	for i := range d.Columns {
		out[d.Columns[i].Name] = string(d.Columns[i].Type)
	}
	return out
}

// Column looks a column up by name.
func (d *Dataset) Column(name string) (*Column, bool) {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i], true
		}
	}
	return nil, false
}

// MissingCount returns the total number of missing cells.
func (d *Dataset) MissingCount() int {
	n := 0
	for i := range d.Columns {
		for _, v := range d.Columns[i].Cells {
			if v == nil {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of the dataset. Cells hold scalars only, so
// copying the cell slices is enough.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{Columns: make([]Column, len(d.Columns))}
	for i := range d.Columns {
		out.Columns[i] = Column{
			Name:  d.Columns[i].Name,
			Type:  d.Columns[i].Type,
			Cells: append([]Cell(nil), d.Columns[i].Cells...),
		}
	}
	return out
}

// DefaultPreviewRows bounds how many rows a preview carries.
const DefaultPreviewRows = 100

// Preview is the JSON-safe head-of-table projection returned to clients.
type Preview struct {
	Columns     []string          `json:"columns"`
	Data        [][]Cell          `json:"data"`
	DTypes      map[string]string `json:"dtypes"`
	TotalRows   int               `json:"total_rows"`
	PreviewRows int               `json:"preview_rows"`
}

// Preview projects the first n rows without mutating the dataset. n <= 0
// falls back to DefaultPreviewRows.
func (d *Dataset) Preview(n int) Preview {
	if n <= 0 {
		n = DefaultPreviewRows
	}
	total := d.Rows()
	if n > total {
		n = total
	}
	data := make([][]Cell, n)
	for r := 0; r < n; r++ {
		row := make([]Cell, len(d.Columns))
		for c := range d.Columns {
			row[c] = d.Columns[c].Cells[r]
		}
		data[r] = row
	}
	return Preview{
		Columns:     d.ColumnNames(),
		Data:        data,
		DTypes:      d.DTypes(),
		TotalRows:   total,
		PreviewRows: n,
	}
}
