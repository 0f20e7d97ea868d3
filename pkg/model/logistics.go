package model

import (
	"errors"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"hotelprep/pkg/optim"
)

// LogisticRegression (binary) with sigmoid.
type LogisticRegression struct {
	W         []float64 // weights
	B         float64   // bias
	Lr        float64
	Epochs    int
	BatchSize int
	Seed      int64
}

// NewLogisticRegression sets small random initial weights from seed.
func NewLogisticRegression(nFeatures int, lr float64, epochs, batchSize int, seed int64) *LogisticRegression {
	rng := rand.New(rand.NewSource(seed))
	w := make([]float64, nFeatures)
	for i := range w {
		w[i] = rng.NormFloat64() * 0.01
	}
	return &LogisticRegression{W: w, Lr: lr, Epochs: epochs, BatchSize: batchSize, Seed: seed}
}

// PredictProba returns p(y=1) for each row of X. NaN features count as 0.
func (m *LogisticRegression) PredictProba(X mat.Matrix) []float64 {
	r, _ := X.Dims()
	out := make([]float64, r)
	for i := range r {
		out[i] = Sigmoid(m.logit(X, i))
	}
	return out
}

func (m *LogisticRegression) logit(X mat.Matrix, i int) float64 {
	sum := m.B
	for j, w := range m.W {
		if v := X.At(i, j); !math.IsNaN(v) {
			sum += w * v
		}
	}
	return sum
}

// Predict thresholds the probabilities at 0.5.
func (m *LogisticRegression) Predict(X mat.Matrix) []int {
	return BinaryPredFromProba(m.PredictProba(X), 0.5)
}

// Fit runs mini-batch gradient descent on binary cross-entropy. Rows are
// reshuffled every epoch from the model seed.
func (m *LogisticRegression) Fit(X mat.Matrix, y []int) error {
	r, c := X.Dims()
	if r != len(y) {
		return errors.New("row count mismatch between features and labels")
	}
	if c != len(m.W) {
		return errors.New("feature count mismatch between model and data")
	}
	if m.BatchSize < 1 {
		m.BatchSize = r
	}
	opt := optim.NewSGD(m.Lr)
	rng := rand.New(rand.NewSource(m.Seed))
	gW := make([]float64, c)

	for range m.Epochs {
		order := rng.Perm(r)
		for start := 0; start < r; start += m.BatchSize {
			end := min(start+m.BatchSize, r)
			batch := order[start:end]

			yt := make([]float64, len(batch))
			p := make([]float64, len(batch))
			for k, i := range batch {
				yt[k] = float64(y[i])
				p[k] = Sigmoid(m.logit(X, i))
			}
			_, dy := BCE(yt, p)

			clear(gW)
			gb := 0.0
			for k, i := range batch {
				for j := range gW {
					if v := X.At(i, j); !math.IsNaN(v) {
						gW[j] += dy[k] * v
					}
				}
				gb += dy[k]
			}
			opt.Step(m.W, gW)
			m.B -= m.Lr * gb
		}
	}
	return nil
}
