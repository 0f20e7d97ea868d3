package pipeline

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/afero"
	"gonum.org/v1/gonum/mat"

	"hotelprep/pkg/data"
	"hotelprep/pkg/dataprep"
	"hotelprep/pkg/loader"
	"hotelprep/pkg/logger"
	"hotelprep/pkg/stats"
)

var (
	ErrTargetMissing   = errors.New("target column not found")
	ErrFeatureMismatch = errors.New("features do not match the fitted feature list")
	ErrNotFitted       = errors.New("preprocessor is not fitted")
)

type Options struct {
	Target         string
	OutlierColumns []string
	TestSize       float64
	RandomState    int64
}

func DefaultOptions() Options {
	return Options{
		Target:         "is_canceled",
		OutlierColumns: []string{"adr", "lead_time"},
		TestSize:       0.2,
		RandomState:    42,
	}
}

// Split is the outcome of a training preparation run.
type Split struct {
	Target            string
	FeatureNames      []string
	Full              dataframe.DataFrame // preprocessed table before splitting, target included
	XTrain, XTest     *mat.Dense
	YTrain, YTest     []int
	TrainIdx, TestIdx []int
}

// ArtifactWriter persists a finished split together with the fitted state.
type ArtifactWriter interface {
	Save(split *Split, state *State) error
}

// Preprocessor runs the fixed cleaning sequence over bookings tables.
type Preprocessor struct {
	opts  Options
	state *State
	log   logger.Logger
}

// New returns a preprocessor over state. A nil state starts unfitted.
func New(opts Options, state *State, log logger.Logger) *Preprocessor {
	if state == nil {
		state = NewState()
	}
	return &Preprocessor{opts: opts, state: state, log: logger.OrDiscard(log)}
}

func (p *Preprocessor) State() *State { return p.state }

// Run applies missing-value handling, duplicate removal, feature derivation,
// outlier capping and categorical encoding, in that order. With fit set the
// capping bounds and encoders are learned from df and replace those in the
// state; otherwise the stored ones are applied.
func (p *Preprocessor) Run(df dataframe.DataFrame, fit bool) (dataframe.DataFrame, error) {
	out, _, err := p.run(df, fit)
	return out, err
}

// run is Run that also reports which input rows survived deduplication.
func (p *Preprocessor) run(df dataframe.DataFrame, fit bool) (dataframe.DataFrame, []int, error) {
	p.log.Info("preprocessing started", "rows", df.Nrow(), "cols", df.Ncol(), "fit", fit)

	df, missing, err := dataprep.HandleMissingValues(df)
	if err != nil {
		return df, nil, err
	}
	p.log.Info("missing values handled", "sentinels", missing.Sentinels, "filled", missing.Filled, "remaining", missing.Remaining)

	before := df.Nrow()
	df, kept, err := dataprep.DropDuplicates(df)
	if err != nil {
		return df, nil, err
	}
	p.log.Info("duplicates removed", "count", before-len(kept), "rows", df.Nrow())

	df, err = dataprep.DeriveFeatures(df)
	if err != nil {
		return df, nil, err
	}
	p.log.Info("features derived", "cols", df.Ncol())

	if fit {
		bounds, err := stats.FitBounds(df, p.opts.OutlierColumns)
		if err != nil {
			return df, nil, err
		}
		p.state.OutlierBounds = bounds
	}
	df, clipped, err := stats.ApplyBounds(df, p.state.OutlierBounds)
	if err != nil {
		return df, nil, err
	}
	p.log.Info("outliers capped", "cells", clipped, "bounds", p.state.OutlierBounds)

	if fit {
		p.state.Encoders = make(map[string]*dataprep.LabelEncoder)
	}
	df, encoded, err := dataprep.EncodeCategorical(df, p.opts.Target, p.state.Encoders, fit)
	if err != nil {
		return df, nil, err
	}
	p.log.Info("categorical columns encoded", "count", len(encoded))

	return df, kept, nil
}

// Prepare runs the fit-mode pipeline on df, splits it into stratified train
// and test partitions and fits the scaler on the training rows.
func (p *Preprocessor) Prepare(df dataframe.DataFrame) (*Split, error) {
	out, err := p.Run(df, true)
	if err != nil {
		return nil, err
	}
	if !data.Has(out, p.opts.Target) {
		return nil, fmt.Errorf("%w: %q", ErrTargetMissing, p.opts.Target)
	}
	y, err := labels(out, p.opts.Target)
	if err != nil {
		return nil, err
	}

	names := slices.DeleteFunc(slices.Clone(out.Names()), func(n string) bool { return n == p.opts.Target })
	X, err := data.ToMatrix(out, names)
	if err != nil {
		return nil, fmt.Errorf("building feature matrix: %w", err)
	}
	p.state.FeatureNames = names

	trainIdx, testIdx, err := loader.StratifiedSplit(y, p.opts.TestSize, p.opts.RandomState)
	if err != nil {
		return nil, err
	}
	p.log.Info("data split", "train", len(trainIdx), "test", len(testIdx), "seed", p.opts.RandomState)

	scaler := stats.NewStandardScaler()
	xTrain, err := scaler.FitTransform(rows(X, trainIdx))
	if err != nil {
		return nil, fmt.Errorf("scaling train features: %w", err)
	}
	xTest, err := scaler.Transform(rows(X, testIdx))
	if err != nil {
		return nil, fmt.Errorf("scaling test features: %w", err)
	}
	p.state.Scaler = scaler
	p.log.Info("features scaled", "features", len(names))

	return &Split{
		Target:       p.opts.Target,
		FeatureNames: names,
		Full:         out,
		XTrain:       xTrain,
		XTest:        xTest,
		YTrain:       pick(y, trainIdx),
		YTest:        pick(y, testIdx),
		TrainIdx:     trainIdx,
		TestIdx:      testIdx,
	}, nil
}

// PrepareForTraining loads path from fs, prepares it and hands the result to
// w. Any failure is logged and returned.
func (p *Preprocessor) PrepareForTraining(fs afero.Fs, path string, w ArtifactWriter) (*Split, error) {
	split, err := p.prepareForTraining(fs, path, w)
	if err != nil {
		p.log.Error("preprocessing failed", "input", path, "err", err)
		return nil, err
	}
	return split, nil
}

func (p *Preprocessor) prepareForTraining(fs afero.Fs, path string, w ArtifactWriter) (*Split, error) {
	df, err := data.ReadCSV(fs, path)
	if err != nil {
		return nil, err
	}
	p.log.Info("data loaded", "path", path, "rows", df.Nrow(), "cols", df.Ncol())

	split, err := p.Prepare(df)
	if err != nil {
		return nil, err
	}
	if w != nil {
		if err := w.Save(split, p.state); err != nil {
			return nil, fmt.Errorf("saving artifacts: %w", err)
		}
	}
	return split, nil
}

// Transform prepares new rows with the fitted state only: the pipeline runs
// in transform mode, the recorded features are selected in order and scaled
// with the stored statistics. A target column, if present, is ignored.
// Repeated rows are dropped like in training; the returned positions give,
// for each output row, the row of df it came from.
func (p *Preprocessor) Transform(df dataframe.DataFrame) (*mat.Dense, []int, error) {
	if !p.state.Fitted() {
		return nil, nil, ErrNotFitted
	}
	out, kept, err := p.run(df, false)
	if err != nil {
		return nil, nil, err
	}
	for _, name := range p.state.FeatureNames {
		if !data.Has(out, name) {
			return nil, nil, fmt.Errorf("%w: missing %q", ErrFeatureMismatch, name)
		}
	}
	raw, err := data.ToMatrix(out, p.state.FeatureNames)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrFeatureMismatch, err)
	}
	X, err := p.state.Scaler.Transform(raw)
	if err != nil {
		return nil, nil, err
	}
	return X, kept, nil
}

func labels(df dataframe.DataFrame, target string) ([]int, error) {
	vals, err := data.Column(df, target)
	if err != nil {
		return nil, fmt.Errorf("target %q: %w", target, err)
	}
	y := make([]int, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) || v != math.Trunc(v) {
			return nil, fmt.Errorf("target %q: row %d holds %v, want an integer class", target, i, v)
		}
		y[i] = int(v)
	}
	return y, nil
}

func rows(X *mat.Dense, idx []int) *mat.Dense {
	_, c := X.Dims()
	out := mat.NewDense(len(idx), c, nil)
	for k, i := range idx {
		out.SetRow(k, X.RawRowView(i))
	}
	return out
}

func pick(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for k, i := range idx {
		out[k] = y[i]
	}
	return out
}
