package model

import "gonum.org/v1/gonum/mat"

// Classifier is a binary classifier over feature matrices.
type Classifier interface {
	Fit(X mat.Matrix, y []int) error
	Predict(X mat.Matrix) []int
	PredictProba(X mat.Matrix) []float64 // p(y=1)
}

var _ Classifier = (*LogisticRegression)(nil)
