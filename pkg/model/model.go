// Package model implements the two supported classifier families and the
// evaluation metrics computed over their predictions. A fitted model is a
// tagged variant: exactly one of the family-specific parameter sets is
// populated.
package model

import (
	"errors"
	"fmt"
)

// Family tags a classifier family.
type Family string

const (
	LogisticRegression Family = "logistic_regression"
	DecisionTree       Family = "decision_tree"
)

var (
	// ErrUnknownFamily reports a model type outside the two supported
	// families.
	ErrUnknownFamily = errors.New("invalid model type")
	// ErrEmptySplit reports a train partition with zero rows.
	ErrEmptySplit = errors.New("empty training partition")
	// ErrInvalidTarget reports a train partition with fewer than 2 classes.
	ErrInvalidTarget = errors.New("invalid training target")
)

// DisplayName returns the human-readable family name.
func (f Family) DisplayName() string {
	switch f {
	case LogisticRegression:
		return "Logistic Regression"
	case DecisionTree:
		return "Decision Tree Classifier"
	}
	return string(f)
}

// TrainedModel is a fitted classifier bound to the feature ordering and
// class enumeration it was fit with. Exactly one of Logistic or Tree is
// non-nil, according to Family.
type TrainedModel struct {
	Family   Family
	Name     string
	Features []string
	Classes  []string

	Logistic *LogisticModel
	Tree     *TreeModel
}

// Fit trains a classifier of the requested family on X (row-major features)
// and y (class indices aligned with classes). A failed fit returns an error
// and no model.
func Fit(family Family, X [][]float64, y []int, features, classes []string) (*TrainedModel, error) {
	if len(X) == 0 || len(y) == 0 {
		return nil, fmt.Errorf("%w: train partition has no rows", ErrEmptySplit)
	}
	if distinct(y) < 2 {
		return nil, fmt.Errorf("%w: classification requires at least 2 classes in the train partition", ErrInvalidTarget)
	}

	m := &TrainedModel{
		Family:   family,
		Name:     family.DisplayName(),
		Features: append([]string(nil), features...),
		Classes:  append([]string(nil), classes...),
	}
	switch family {
	case LogisticRegression:
		m.Logistic = fitLogistic(X, y, len(classes))
	case DecisionTree:
		tree, err := fitTree(X, y, len(classes))
		if err != nil {
			return nil, err
		}
		m.Tree = tree
	default:
		return nil, fmt.Errorf("%w: %q, use 'logistic_regression' or 'decision_tree'", ErrUnknownFamily, family)
	}
	return m, nil
}

// Predict returns the predicted class index for every row of X.
func (m *TrainedModel) Predict(X [][]float64) []int {
	if m.Logistic != nil {
		return m.Logistic.Predict(X)
	}
	return m.Tree.Predict(X)
}

func distinct(y []int) int {
	seen := map[int]struct{}{}
	for _, v := range y {
		seen[v] = struct{}{}
	}
	return len(seen)
}
