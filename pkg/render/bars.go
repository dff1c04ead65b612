package render

import (
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ImportanceBars renders per-feature importances as horizontal bars, most
// important feature on top.
func ImportanceBars(features []string, importances []float64) ([]byte, error) {
	order := make([]int, len(features))
	for i := range order {
		order[i] = i
	}
	// Ascending, so the largest bar lands on the topmost nominal tick.
	sort.Slice(order, func(a, b int) bool {
		return importances[order[a]] < importances[order[b]]
	})

	vals := make(plotter.Values, len(order))
	names := make([]string, len(order))
	for i, idx := range order {
		vals[i] = importances[idx]
		names[i] = features[idx]
	}

	p := plot.New()
	p.Title.Text = "Feature Importance (Logistic Regression)"
	p.X.Label.Text = "Absolute Coefficient Value"

	bars, err := plotter.NewBarChart(vals, vg.Points(18))
	if err != nil {
		return nil, err
	}
	bars.Horizontal = true
	bars.Color = color.RGBA{R: 0x41, G: 0x69, B: 0xb0, A: 0xff}
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalY(names...)

	return pngBytes(p, 7*vg.Inch, 5*vg.Inch)
}
