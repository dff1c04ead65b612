package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ad-kumar007/ml-pipeline-builder/pkg/dataset"
)

const sampleCSV = "age,height,name,active\n25,1.75,alice,true\n30,1.6,bob,false\n22,1.82,carol,true\n"

// TestLoadCSV verifies dimensions and per-column dtype inference.
func TestLoadCSV(t *testing.T) {
	ds, err := dataset.Load([]byte(sampleCSV), "people.csv")
	require.NoError(t, err)

	require.Equal(t, 3, ds.Rows())
	require.Equal(t, []string{"age", "height", "name", "active"}, ds.ColumnNames())
	require.Equal(t, map[string]string{
		"age":    "int64",
		"height": "float64",
		"name":   "object",
		"active": "bool",
	}, ds.DTypes())

	age, ok := ds.Column("age")
	require.True(t, ok)
	require.Equal(t, int64(25), age.Cells[0])
	require.True(t, age.Numeric())

	name, _ := ds.Column("name")
	require.False(t, name.Numeric())
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := dataset.Load([]byte("a,b\n1,2\n"), "data.parquet")
	require.ErrorIs(t, err, dataset.ErrUnsupportedFormat)
}

func TestLoadEmpty(t *testing.T) {
	_, err := dataset.Load([]byte(""), "empty.csv")
	require.ErrorIs(t, err, dataset.ErrParse)

	// Header only, no data rows.
	_, err = dataset.Load([]byte("a,b\n"), "header.csv")
	require.ErrorIs(t, err, dataset.ErrParse)
}

func TestLoadSingleColumnRejected(t *testing.T) {
	_, err := dataset.Load([]byte("a\n1\n2\n"), "one.csv")
	require.ErrorIs(t, err, dataset.ErrParse)
}

// TestLoadMissingValues checks that blanks and NaN markers become nulls,
// that an int column with holes is promoted to float64, and that
// infinities are cleaned to missing.
func TestLoadMissingValues(t *testing.T) {
	csv := "a,b\n1,x\n,y\n3,NaN\nInf,z\n"
	ds, err := dataset.Load([]byte(csv), "gaps.csv")
	require.NoError(t, err)

	a, _ := ds.Column("a")
	require.Equal(t, dataset.Float64, a.Type)
	require.Nil(t, a.Cells[1])
	require.Nil(t, a.Cells[3], "Inf should be cleaned to missing")
	require.Equal(t, 1.0, a.Cells[0])

	require.Equal(t, 3, ds.MissingCount())
}

func TestPreview(t *testing.T) {
	ds, err := dataset.Load([]byte(sampleCSV), "people.csv")
	require.NoError(t, err)

	pv := ds.Preview(2)
	require.Equal(t, 3, pv.TotalRows)
	require.Equal(t, 2, pv.PreviewRows)
	require.Len(t, pv.Data, 2)
	require.Equal(t, []string{"age", "height", "name", "active"}, pv.Columns)
	require.Equal(t, int64(25), pv.Data[0][0])

	// Larger n than rows clamps.
	pv = ds.Preview(50)
	require.Equal(t, 3, pv.PreviewRows)
}

// TestCloneIndependence verifies a clone is a deep copy: mutating it leaves
// the source untouched.
func TestCloneIndependence(t *testing.T) {
	ds, err := dataset.Load([]byte(sampleCSV), "people.csv")
	require.NoError(t, err)

	clone := ds.Clone()
	col, _ := clone.Column("height")
	col.SetFloats([]float64{0, 0, 0})

	orig, _ := ds.Column("height")
	require.Equal(t, 1.75, orig.Cells[0])
	require.Equal(t, 0.0, col.Cells[0])
}

func TestCodesFirstSeen(t *testing.T) {
	ds, err := dataset.Load([]byte("c,d\nb,1\na,2\nb,3\nc,4\n"), "codes.csv")
	require.NoError(t, err)

	col, _ := ds.Column("c")
	require.Equal(t, []float64{0, 1, 0, 2}, col.Codes())
	require.Equal(t, []string{"b", "a", "c"}, col.Distinct())
}

func TestFormatCell(t *testing.T) {
	require.Equal(t, "NaN", dataset.FormatCell(nil))
	require.Equal(t, "42", dataset.FormatCell(int64(42)))
	require.Equal(t, "1.5", dataset.FormatCell(1.5))
	require.Equal(t, "True", dataset.FormatCell(true))
	require.Equal(t, "x", dataset.FormatCell("x"))
}
