// Package preprocess applies numeric rescaling to selected columns of the
// working dataset. Applications compound: a second transform recomputes its
// statistics over the already-transformed values.
package preprocess

import (
	"errors"
	"fmt"
	"math"

	"github.com/ad-kumar007/ml-pipeline-builder/pkg/dataset"
	"github.com/ad-kumar007/ml-pipeline-builder/pkg/stats"
)

// ErrInvalidMethod reports a scaling method outside the supported set.
var ErrInvalidMethod = errors.New("invalid method")

// Method selects a scaling transform.
type Method string

const (
	Standardize Method = "standardize"
	Normalize   Method = "normalize"
)

// methodName is the display name recorded in the transformation log,
// matching the wording the UI shows.
func methodName(m Method) string {
	if m == Standardize {
		return "StandardScaler (z-score normalization)"
	}
	return "MinMaxScaler (0-1 normalization)"
}

// Apply rescales the named columns of ds in place and returns the
// human-readable description appended to the transformation record.
// Every requested column must exist and be numeric. Missing cells are
// excluded from the statistics and stay missing.
func Apply(ds *dataset.Dataset, columns []string, method Method) (string, error) {
	if method != Standardize && method != Normalize {
		return "", fmt.Errorf("%w %q: use 'standardize' or 'normalize'", ErrInvalidMethod, method)
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("%w: no columns selected", dataset.ErrInvalidColumn)
	}

	// Validate everything up front so a bad request mutates nothing.
	cols := make([]*dataset.Column, len(columns))
	for i, name := range columns {
		col, ok := ds.Column(name)
		if !ok {
			return "", fmt.Errorf("%w: column %q not found, available: %v",
				dataset.ErrInvalidColumn, name, ds.ColumnNames())
		}
		if !col.Numeric() {
			return "", fmt.Errorf("%w: column %q must be numeric for transformation, got %s",
				dataset.ErrInvalidColumn, name, col.Type)
		}
		cols[i] = col
	}

	for _, col := range cols {
		vals := col.Floats()
		switch method {
		case Standardize:
			standardize(vals)
		case Normalize:
			normalize(vals)
		}
		col.SetFloats(vals)
	}

	return fmt.Sprintf("Applied %s to columns: %v", methodName(method), columns), nil
}

// standardize rescales to zero mean and unit (population) variance. A
// zero-spread column collapses to zeros rather than dividing by zero.
func standardize(vals []float64) {
	present := observed(vals)
	mean := stats.Mean(present)
	std := stats.Std(present)
	for i, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		if std == 0 {
			vals[i] = 0
		} else {
			vals[i] = (v - mean) / std
		}
	}
}

// normalize rescales to the [0,1] range, collapsing zero-spread columns to
// zeros.
func normalize(vals []float64) {
	present := observed(vals)
	min, max := stats.MinMax(present)
	for i, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		if max == min {
			vals[i] = 0
		} else {
			vals[i] = (v - min) / (max - min)
		}
	}
}

func observed(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
