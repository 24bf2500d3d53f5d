// Package models provides the trainable function approximators used by
// operator learning: a binary classifier and a generative Gaussian
// regressor. The rest of the system treats these as opaque synchronous
// fit/predict boxes.
package models

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/zeu5/skill-learn/types"
)

// Classifier is a trainable binary classifier.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	Classify(x []float64) bool
}

// Regressor is a trainable generative regressor.
type Regressor interface {
	Fit(X, Y [][]float64) error
	PredictMean(x []float64) []float64
	PredictSample(x []float64, rng *rand.Rand) []float64
}

// toDense converts row-major samples to a gonum matrix.
func toDense(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no samples")
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, fmt.Errorf("samples have no features")
	}
	flat := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("sample %d has %d features, want %d", i, len(r), cols)
		}
		flat = append(flat, r...)
	}
	return mat.NewDense(len(rows), cols, flat), nil
}

// LearnedPredicateClassifier adapts a trained binary classifier into a
// predicate classifier over object tuples.
type LearnedPredicateClassifier struct {
	Model Classifier
}

// Classifier returns the predicate classifier function: it vectorizes
// the object tuple in the state and runs the model.
func (c LearnedPredicateClassifier) Classifier() types.PredicateClassifier {
	model := c.Model
	return func(s types.State, objects []*types.Object) bool {
		return model.Classify(s.Vec(objects))
	}
}
