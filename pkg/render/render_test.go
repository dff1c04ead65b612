package render_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ad-kumar007/ml-pipeline-builder/pkg/model"
	"github.com/ad-kumar007/ml-pipeline-builder/pkg/render"
)

func requirePNG(t *testing.T, img []byte) {
	t.Helper()
	require.NotEmpty(t, img)
	decoded, err := png.Decode(bytes.NewReader(img))
	require.NoError(t, err, "artifact must decode as PNG")
	require.Greater(t, decoded.Bounds().Dx(), 0)
}

func TestConfusionHeatmap(t *testing.T) {
	img, err := render.ConfusionHeatmap([][]int{{5, 1}, {2, 4}}, []string{"0", "1"})
	require.NoError(t, err)
	requirePNG(t, img)
}

func TestConfusionHeatmapMulticlass(t *testing.T) {
	cm := [][]int{{3, 0, 1}, {0, 4, 0}, {1, 1, 2}}
	img, err := render.ConfusionHeatmap(cm, []string{"setosa", "versicolor", "virginica"})
	require.NoError(t, err)
	requirePNG(t, img)
}

func TestImportanceBars(t *testing.T) {
	img, err := render.ImportanceBars(
		[]string{"age", "height", "income"},
		[]float64{0.2, 1.7, 0.9},
	)
	require.NoError(t, err)
	requirePNG(t, img)
}

func TestTreeDiagram(t *testing.T) {
	m, err := model.Fit(model.DecisionTree,
		[][]float64{{0, 1}, {1, 0}, {10, 1}, {11, 0}},
		[]int{0, 0, 1, 1},
		[]string{"a", "b"}, []string{"no", "yes"})
	require.NoError(t, err)

	img, err := render.TreeDiagram(m.Tree.Nodes, m.Features, m.Classes)
	require.NoError(t, err)
	requirePNG(t, img)
}

func TestTreeDiagramEmpty(t *testing.T) {
	_, err := render.TreeDiagram(nil, nil, nil)
	require.Error(t, err)
}

func TestBase64(t *testing.T) {
	require.Equal(t, "aGk=", render.Base64([]byte("hi")))
}
