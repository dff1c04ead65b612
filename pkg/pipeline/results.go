package pipeline

import (
	"log"
	"math"

	"github.com/ad-kumar007/ml-pipeline-builder/pkg/model"
	"github.com/ad-kumar007/ml-pipeline-builder/pkg/render"
)

// Metrics is the scoring half of an evaluation.
type Metrics struct {
	ModelName       string  `json:"model_name"`
	Accuracy        float64 `json:"accuracy"`
	AccuracyDecimal float64 `json:"accuracy_decimal"`
	TestSamples     int     `json:"test_samples"`
	ConfusionMatrix [][]int `json:"confusion_matrix"`
}

// Visualization is one embeddable rendered artifact.
type Visualization struct {
	Title string `json:"title"`
	Image string `json:"image"`
}

// Visualizations groups the rendered artifacts of an evaluation. Either
// entry may be nil when rendering degraded.
type Visualizations struct {
	ConfusionMatrix *Visualization `json:"confusion_matrix"`
	ModelSpecific   *Visualization `json:"model_specific"`
}

// Results is the payload of an evaluation.
type Results struct {
	Message        string
	Metrics        Metrics
	Visualizations Visualizations
	// Degraded is set when an optional artifact could not be rendered.
	Degraded bool
}

// Results scores the trained model on the held-out test partition and
// renders the visualization artifacts. Rendering failures degrade the
// response instead of failing it.
func (p *Pipeline) Results() (*Results, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.model == nil {
		return nil, stageErr("No model trained. Please train a model first.")
	}

	s := p.split
	m := p.model
	if !sameFeatures(m.Features, s.Features) {
		return nil, ErrModelMismatch
	}

	yPred := m.Predict(s.XTest)
	acc := model.Accuracy(s.YTest, yPred)
	cm := model.ConfusionMatrix(s.YTest, yPred, len(s.Classes))

	res := &Results{
		Message: "Model evaluation complete!",
		Metrics: Metrics{
			ModelName:       m.Name,
			Accuracy:        roundTo(acc*100, 2),
			AccuracyDecimal: roundTo(acc, 4),
			TestSamples:     len(s.YTest),
			ConfusionMatrix: cm,
		},
	}

	if img, err := render.ConfusionHeatmap(cm, s.Classes); err != nil {
		log.Printf("results: confusion matrix rendering failed: %v", err)
		res.Degraded = true
	} else {
		res.Visualizations.ConfusionMatrix = &Visualization{
			Title: "Confusion Matrix",
			Image: render.Base64(img),
		}
	}

	if viz, err := modelVisualization(m); err != nil {
		log.Printf("results: %s rendering failed: %v", m.Family, err)
		res.Degraded = true
	} else {
		res.Visualizations.ModelSpecific = viz
	}

	p.evaluated = true
	return res, nil
}

// modelVisualization renders the family-specific artifact: importance bars
// for logistic regression, the node/edge diagram for a decision tree.
func modelVisualization(m *model.TrainedModel) (*Visualization, error) {
	switch m.Family {
	case model.LogisticRegression:
		img, err := render.ImportanceBars(m.Features, m.Logistic.Importance())
		if err != nil {
			return nil, err
		}
		return &Visualization{Title: "Feature Importance", Image: render.Base64(img)}, nil
	case model.DecisionTree:
		img, err := render.TreeDiagram(m.Tree.Nodes, m.Features, m.Classes)
		if err != nil {
			return nil, err
		}
		return &Visualization{Title: "Decision Tree Structure", Image: render.Base64(img)}, nil
	}
	return nil, nil
}

func sameFeatures(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
