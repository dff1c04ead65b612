package model

import (
	"math"

	"github.com/ad-kumar007/ml-pipeline-builder/pkg/optim"
)

// Training hyperparameters. Full-batch gradient descent from a zero init is
// deterministic, so fits are reproducible without a seed. The L2 decay
// mirrors library-default moderate regularization.
const (
	logisticLearningRate = 0.1
	logisticWeightDecay  = 1e-4
	logisticEpochs       = 1000
)

// LogisticModel holds fitted logistic regression parameters. Binary fits
// produce a single weight row (sigmoid decision); fits with three or more
// classes produce one row per class (multinomial softmax).
type LogisticModel struct {
	Weights    [][]float64
	Intercepts []float64

	nClasses int
}

func sigmoid(z float64) float64 { return 1.0 / (1.0 + math.Exp(-z)) }

func dot(w, x []float64) float64 {
	s := 0.0
	for j, v := range x {
		s += w[j] * v
	}
	return s
}

// fitLogistic trains on X and class-index labels y. nClasses is the size of
// the full class enumeration, which prediction indices refer back to.
func fitLogistic(X [][]float64, y []int, nClasses int) *LogisticModel {
	if nClasses <= 2 {
		w, b := fitBinary(X, y)
		return &LogisticModel{Weights: [][]float64{w}, Intercepts: []float64{b}, nClasses: nClasses}
	}
	W, B := fitMultinomial(X, y, nClasses)
	return &LogisticModel{Weights: W, Intercepts: B, nClasses: nClasses}
}

// fitBinary runs gradient descent on the binary cross-entropy loss: the
// gradient per sample is (sigmoid(wx+b) - y) * x.
func fitBinary(X [][]float64, y []int) ([]float64, float64) {
	p := len(X[0])
	n := float64(len(X))
	w := make([]float64, p)
	b := 0.0
	opt := optim.NewSGD(logisticLearningRate, logisticWeightDecay)

	gW := make([]float64, p)
	for ep := 0; ep < logisticEpochs; ep++ {
		for j := range gW {
			gW[j] = 0
		}
		gb := 0.0
		for i, row := range X {
			d := (sigmoid(dot(w, row)+b) - float64(y[i])) / n
			for j, xij := range row {
				gW[j] += d * xij
			}
			gb += d
		}
		opt.Step(w, gW)
		b -= logisticLearningRate * gb
	}
	return w, b
}

// fitMultinomial runs gradient descent on the softmax cross-entropy loss,
// one weight row per class.
func fitMultinomial(X [][]float64, y []int, k int) ([][]float64, []float64) {
	p := len(X[0])
	n := float64(len(X))
	W := make([][]float64, k)
	for c := range W {
		W[c] = make([]float64, p)
	}
	B := make([]float64, k)
	opt := optim.NewSGD(logisticLearningRate, logisticWeightDecay)

	gW := make([][]float64, k)
	for c := range gW {
		gW[c] = make([]float64, p)
	}
	gB := make([]float64, k)
	probs := make([]float64, k)

	for ep := 0; ep < logisticEpochs; ep++ {
		for c := 0; c < k; c++ {
			for j := range gW[c] {
				gW[c][j] = 0
			}
			gB[c] = 0
		}
		for i, row := range X {
			softmaxInto(W, B, row, probs)
			for c := 0; c < k; c++ {
				d := probs[c]
				if y[i] == c {
					d -= 1
				}
				d /= n
				for j, xij := range row {
					gW[c][j] += d * xij
				}
				gB[c] += d
			}
		}
		for c := 0; c < k; c++ {
			opt.Step(W[c], gW[c])
			B[c] -= logisticLearningRate * gB[c]
		}
	}
	return W, B
}

// softmaxInto writes the class probabilities for one row into out, using the
// max-shift trick for numerical stability.
func softmaxInto(W [][]float64, B []float64, x []float64, out []float64) {
	max := math.Inf(-1)
	for c := range W {
		out[c] = dot(W[c], x) + B[c]
		if out[c] > max {
			max = out[c]
		}
	}
	sum := 0.0
	for c := range out {
		out[c] = math.Exp(out[c] - max)
		sum += out[c]
	}
	for c := range out {
		out[c] /= sum
	}
}

// Predict returns class indices: the 0.5-threshold sigmoid decision for
// binary models, argmax over class scores otherwise.
func (m *LogisticModel) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	if len(m.Weights) == 1 {
		for i, row := range X {
			if dot(m.Weights[0], row)+m.Intercepts[0] >= 0 {
				out[i] = 1
			}
		}
		return out
	}
	for i, row := range X {
		best, bestScore := 0, math.Inf(-1)
		for c := range m.Weights {
			if s := dot(m.Weights[c], row) + m.Intercepts[c]; s > bestScore {
				best, bestScore = c, s
			}
		}
		out[i] = best
	}
	return out
}

// Importance returns per-feature importance as the mean absolute coefficient
// across class rows.
func (m *LogisticModel) Importance() []float64 {
	p := len(m.Weights[0])
	out := make([]float64, p)
	for _, row := range m.Weights {
		for j, w := range row {
			out[j] += math.Abs(w)
		}
	}
	for j := range out {
		out[j] /= float64(len(m.Weights))
	}
	return out
}
