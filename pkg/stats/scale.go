package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNotFitted     = errors.New("scaler is not fitted")
	ErrShapeMismatch = errors.New("column count does not match fitted scaler")
)

// StandardScaler standardizes columns to zero mean and unit variance using
// population statistics. NaN cells are ignored when fitting and stay NaN.
type StandardScaler struct {
	Mean     []float64
	Var      []float64
	Scale    []float64
	NSamples int
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

func (s *StandardScaler) Fitted() bool { return s != nil && len(s.Mean) > 0 }

func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return fmt.Errorf("cannot fit scaler on an empty %dx%d matrix", r, c)
	}
	s.Mean = make([]float64, c)
	s.Var = make([]float64, c)
	s.Scale = make([]float64, c)
	s.NSamples = r
	col := make([]float64, r)
	for j := range c {
		mat.Col(col, j, X)
		f := Finite(col)
		if len(f) == 0 {
			s.Mean[j], s.Var[j], s.Scale[j] = 0, 0, 1
			continue
		}
		s.Mean[j], s.Var[j] = stat.PopMeanVariance(f, nil)
		s.Scale[j] = math.Sqrt(s.Var[j])
		if s.Scale[j] == 0 {
			s.Scale[j] = 1
		}
	}
	return nil
}

// Transform returns a new matrix; X is not modified.
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if !s.Fitted() {
		return nil, ErrNotFitted
	}
	r, c := X.Dims()
	if c != len(s.Mean) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrShapeMismatch, c, len(s.Mean))
	}
	if r == 0 {
		return nil, errors.New("cannot transform an empty matrix")
	}
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)
	return out, nil
}

func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
