package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ad-kumar007/ml-pipeline-builder/pkg/model"
)

// TreeDiagram renders the fitted tree as a node/edge diagram: leaves spread
// left to right, depth running top to bottom, each node labelled with its
// split condition or predicted class.
func TreeDiagram(nodes []model.TreeNode, features, classes []string) ([]byte, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("render: tree has no nodes")
	}

	pos := make([]plotter.XY, len(nodes))
	leafX := 0.0
	var layout func(i int, depth float64) float64
	layout = func(i int, depth float64) float64 {
		n := &nodes[i]
		var x float64
		if n.Leaf() {
			x = leafX
			leafX += 1
		} else {
			lx := layout(n.Left, depth+1)
			rx := layout(n.Right, depth+1)
			x = (lx + rx) / 2
		}
		pos[i] = plotter.XY{X: x, Y: -depth}
		return x
	}
	layout(0, 0)

	p := plot.New()
	p.Title.Text = "Decision Tree Visualization"
	p.HideAxes()

	labels := plotter.XYLabels{}
	for i := range nodes {
		n := &nodes[i]
		if !n.Leaf() {
			for _, child := range []int{n.Left, n.Right} {
				edge, err := plotter.NewLine(plotter.XYs{pos[i], pos[child]})
				if err != nil {
					return nil, err
				}
				edge.LineStyle.Width = vg.Points(0.75)
				p.Add(edge)
			}
		}
		labels.XYs = append(labels.XYs, pos[i])
		labels.Labels = append(labels.Labels, nodeLabel(n, features, classes))
	}

	nodeLabels, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, err
	}
	for i := range nodeLabels.TextStyle {
		nodeLabels.TextStyle[i].XAlign = draw.XCenter
		nodeLabels.TextStyle[i].Font.Size = vg.Points(8)
	}
	p.Add(nodeLabels)

	// Pad so edge labels do not clip at the frame.
	p.X.Min, p.X.Max = p.X.Min-0.5, p.X.Max+0.5
	p.Y.Min, p.Y.Max = p.Y.Min-0.5, p.Y.Max+0.5

	return pngBytes(p, 10*vg.Inch, 6*vg.Inch)
}

func nodeLabel(n *model.TreeNode, features, classes []string) string {
	if n.Leaf() {
		return fmt.Sprintf("%s (n=%d)", className(n.Class, classes), n.Samples)
	}
	return fmt.Sprintf("%s <= %.3f (n=%d)", featureName(n.Feature, features), n.Threshold, n.Samples)
}

func featureName(i int, features []string) string {
	if i >= 0 && i < len(features) {
		return features[i]
	}
	return fmt.Sprintf("x[%d]", i)
}

func className(i int, classes []string) string {
	if i >= 0 && i < len(classes) {
		return classes[i]
	}
	return fmt.Sprintf("class %d", i)
}
