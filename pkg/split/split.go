// Package split partitions the working dataset into train and test subsets
// with a deterministic, seed-keyed permutation, and builds the numeric
// feature matrices the trainer consumes.
package split

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/ad-kumar007/ml-pipeline-builder/pkg/dataset"
)

// ErrInvalidRatio reports a test fraction outside (0,1).
var ErrInvalidRatio = errors.New("invalid test size")

// Split is a train/test partition of the dataset rows, with one column
// designated as the prediction target and the rest as features.
type Split struct {
	Target   string
	Features []string
	// Classes are the distinct target values in first-seen order over the
	// full dataset. Label vectors below index into this slice.
	Classes []string

	XTrain [][]float64
	XTest  [][]float64
	YTrain []int
	YTest  []int

	TestFraction float64
	Seed         int64
}

// New partitions ds by a seeded pseudo-random permutation: the first
// round(n*(1-testFraction)) permuted rows train, the remainder test.
// There is no stratification; identical arguments always produce an
// identical partition.
func New(ds *dataset.Dataset, target string, testFraction float64, seed int64) (*Split, error) {
	targetCol, ok := ds.Column(target)
	if !ok {
		return nil, fmt.Errorf("%w: target column %q not found, available: %v",
			dataset.ErrInvalidColumn, target, ds.ColumnNames())
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, fmt.Errorf("%w: test size must be between 0 and 1 (exclusive), got %g",
			ErrInvalidRatio, testFraction)
	}

	n := ds.Rows()
	features, X := featureMatrix(ds, target)
	classes, y := encodeTarget(targetCol)

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	nTrain := int(math.Round(float64(n) * (1 - testFraction)))

	s := &Split{
		Target:       target,
		Features:     features,
		Classes:      classes,
		TestFraction: testFraction,
		Seed:         seed,
	}
	for i, idx := range perm {
		if i < nTrain {
			s.XTrain = append(s.XTrain, X[idx])
			s.YTrain = append(s.YTrain, y[idx])
		} else {
			s.XTest = append(s.XTest, X[idx])
			s.YTest = append(s.YTest, y[idx])
		}
	}
	return s, nil
}

// TrainRatio returns the train share as a rounded percentage, for reporting
// only.
func (s *Split) TrainRatio() int { return 100 - s.TestRatio() }

// TestRatio returns the test share as a rounded percentage, for reporting
// only.
func (s *Split) TestRatio() int { return int(math.Round(s.TestFraction * 100)) }

// featureMatrix builds the row-major feature matrix from every non-target
// column in dataset order. Non-numeric columns are label-encoded in
// first-seen order; missing numeric cells become 0 so both model families
// see finite inputs.
func featureMatrix(ds *dataset.Dataset, target string) ([]string, [][]float64) {
	n := ds.Rows()
	var features []string
	var cols [][]float64

	for i := range ds.Columns {
		col := &ds.Columns[i]
		if col.Name == target {
			continue
		}
		features = append(features, col.Name)
		var vals []float64
		if col.Numeric() {
			vals = col.Floats()
			for j, v := range vals {
				if math.IsNaN(v) {
					vals[j] = 0
				}
			}
		} else {
			vals = col.Codes()
		}
		cols = append(cols, vals)
	}

	X := make([][]float64, n)
	for r := 0; r < n; r++ {
		row := make([]float64, len(cols))
		for c := range cols {
			row[c] = cols[c][r]
		}
		X[r] = row
	}
	return features, X
}

// encodeTarget enumerates the distinct target values in first-seen order and
// encodes every row as an index into that enumeration.
func encodeTarget(col *dataset.Column) ([]string, []int) {
	classes := col.Distinct()
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	y := make([]int, len(col.Cells))
	for i, v := range col.Cells {
		y[i] = index[dataset.FormatCell(v)]
	}
	return classes, y
}
