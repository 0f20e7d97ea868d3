package report

import (
	"errors"

	"hotelprep/pkg/model"
	"hotelprep/pkg/pipeline"
)

type BaselineResult struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

type BaselineOptions struct {
	Epochs       int
	LearningRate float64
	BatchSize    int
	Seed         int64
}

// Baseline fits a logistic regression on the scaled train partition and
// scores it on the test partition. It checks the split is usable by a
// classifier; it is not a tuned model.
func Baseline(split *pipeline.Split, opts BaselineOptions) (*BaselineResult, error) {
	if split.XTrain == nil || split.XTest == nil {
		return nil, errors.New("split has no feature matrices")
	}
	_, c := split.XTrain.Dims()
	m := model.NewLogisticRegression(c, opts.LearningRate, opts.Epochs, opts.BatchSize, opts.Seed)
	if err := m.Fit(split.XTrain, split.YTrain); err != nil {
		return nil, err
	}
	pred := m.Predict(split.XTest)
	res := &BaselineResult{Accuracy: model.Accuracy(split.YTest, pred)}
	res.Precision, res.Recall, res.F1 = model.PrecisionRecallF1(split.YTest, pred)
	return res, nil
}
