package render

import (
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// cmGrid adapts a confusion matrix to plotter.GridXYZ. Rows are flipped so
// the first class renders at the top, the way the matrix reads.
type cmGrid struct {
	m [][]int
}

func (g cmGrid) Dims() (int, int)   { return len(g.m), len(g.m) }
func (g cmGrid) X(c int) float64    { return float64(c) }
func (g cmGrid) Y(r int) float64    { return float64(r) }
func (g cmGrid) Z(c, r int) float64 { return float64(g.m[len(g.m)-1-r][c]) }

// ConfusionHeatmap renders the actual-vs-predicted count grid as a heatmap
// with per-cell counts and class-labelled axes.
func ConfusionHeatmap(matrix [][]int, classes []string) ([]byte, error) {
	k := len(classes)

	p := plot.New()
	p.Title.Text = "Confusion Matrix"
	p.X.Label.Text = "Predicted Label"
	p.Y.Label.Text = "True Label"

	heat := plotter.NewHeatMap(cmGrid{m: matrix}, moreland.SmoothBlueRed().Palette(255))
	p.Add(heat)

	labels := plotter.XYLabels{}
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			labels.XYs = append(labels.XYs, plotter.XY{X: float64(j), Y: float64(k - 1 - i)})
			labels.Labels = append(labels.Labels, strconv.Itoa(matrix[i][j]))
		}
	}
	cellLabels, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, err
	}
	p.Add(cellLabels)

	p.NominalX(classes...)
	reversed := make([]string, k)
	for i, c := range classes {
		reversed[k-1-i] = c
	}
	p.NominalY(reversed...)

	return pngBytes(p, 6*vg.Inch, 5*vg.Inch)
}
