package pipeline_test

import (
	"encoding/csv"
	"math"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelprep/pkg/data"
	"hotelprep/pkg/data/datatest"
	"hotelprep/pkg/dataprep"
	"hotelprep/pkg/loader"
	"hotelprep/pkg/persist"
	"hotelprep/pkg/pipeline"
)

func writeRecords(t *testing.T, fs afero.Fs, path string, recs [][]string) {
	t.Helper()
	f, err := fs.Create(path)
	require.NoError(t, err)
	require.NoError(t, csv.NewWriter(f).WriteAll(recs))
	require.NoError(t, f.Close())
}

func TestPrepareForTraining(t *testing.T) {
	recs := datatest.Bookings(datatest.Options{Rows: 1000, Seed: 42, MissingCountry: 0.05, Duplicates: 0.02})
	fs := afero.NewMemMapFs()
	writeRecords(t, fs, "hotel_bookings.csv", recs)
	store := persist.NewStore(fs, "out", nil)

	p := pipeline.New(pipeline.DefaultOptions(), nil, nil)
	split, err := p.PrepareForTraining(fs, "hotel_bookings.csv", store)
	require.NoError(t, err)

	t.Run("Should keep every deduplicated row in exactly one partition", func(t *testing.T) {
		assert.Equal(t, 1000-20, len(split.YTrain)+len(split.YTest))
		assert.Len(t, split.YTest, 196)
		r, c := split.XTrain.Dims()
		assert.Equal(t, len(split.YTrain), r)
		assert.Equal(t, len(split.FeatureNames), c)
	})

	t.Run("Should leave no nulls in the treated columns", func(t *testing.T) {
		for _, col := range []string{"children", "agent", "company", "country"} {
			vals, err := data.Column(split.Full, col)
			require.NoError(t, err, col)
			for _, v := range vals {
				require.False(t, math.IsNaN(v), col)
			}
		}
		assert.NotContains(t, p.State().Encoders["country"].Classes, dataprep.NALabel)
	})

	t.Run("Should persist a feature list matching the feature table", func(t *testing.T) {
		state, err := store.LoadState()
		require.NoError(t, err)
		xTrain, err := data.ReadCSV(fs, store.Path("X_train.csv"))
		require.NoError(t, err)
		assert.Equal(t, xTrain.Ncol(), len(state.FeatureNames))
		assert.Equal(t, xTrain.Names(), state.FeatureNames)
		assert.NotContains(t, state.FeatureNames, "is_canceled")
	})

	t.Run("Should stratify on the target", func(t *testing.T) {
		y := append(append([]int(nil), split.YTrain...), split.YTest...)
		all := make([]int, len(y))
		for i := range all {
			all[i] = i
		}
		full := loader.Proportion(y, all, 1)
		assert.InDelta(t, full, loader.Proportion(split.YTrain, seq(len(split.YTrain)), 1), 0.02)
		assert.InDelta(t, full, loader.Proportion(split.YTest, seq(len(split.YTest)), 1), 0.02)
	})

	t.Run("Should record capping bounds for the outlier columns", func(t *testing.T) {
		assert.Contains(t, p.State().OutlierBounds, "adr")
		assert.Contains(t, p.State().OutlierBounds, "lead_time")
	})

	t.Run("Should produce the same split for the same seed", func(t *testing.T) {
		again, err := pipeline.New(pipeline.DefaultOptions(), nil, nil).PrepareForTraining(fs, "hotel_bookings.csv", nil)
		require.NoError(t, err)
		assert.Equal(t, split.TestIdx, again.TestIdx)
		assert.Equal(t, split.FeatureNames, again.FeatureNames)
	})
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPrepareForTrainingInputNotFound(t *testing.T) {
	p := pipeline.New(pipeline.DefaultOptions(), nil, nil)
	_, err := p.PrepareForTraining(afero.NewMemMapFs(), "missing.csv", nil)
	assert.ErrorIs(t, err, data.ErrInputNotFound)
}

func TestPrepareTargetMissing(t *testing.T) {
	df := datatest.Frame(datatest.Bookings(datatest.Options{Rows: 50, Seed: 1})).Drop("is_canceled")
	require.NoError(t, df.Err)
	_, err := pipeline.New(pipeline.DefaultOptions(), nil, nil).Prepare(df)
	assert.ErrorIs(t, err, pipeline.ErrTargetMissing)
}

func TestTransform(t *testing.T) {
	raw := datatest.Frame(datatest.Bookings(datatest.Options{Rows: 400, Seed: 5, MissingCountry: 0.05}))
	p := pipeline.New(pipeline.DefaultOptions(), nil, nil)

	t.Run("Should refuse to transform before fitting", func(t *testing.T) {
		_, _, err := p.Transform(raw)
		assert.ErrorIs(t, err, pipeline.ErrNotFitted)
	})

	split, err := p.Prepare(raw)
	require.NoError(t, err)

	t.Run("Should reproduce the training rows with the fitted state", func(t *testing.T) {
		X, kept, err := p.Transform(raw)
		require.NoError(t, err)
		assert.Len(t, kept, raw.Nrow())
		for k, i := range split.TrainIdx[:25] {
			assert.InDeltaSlice(t, split.XTrain.RawRowView(k), X.RawRowView(i), 1e-9)
		}
	})

	t.Run("Should map unseen categories to the fallback without failing", func(t *testing.T) {
		recs := datatest.Bookings(datatest.Options{Rows: 10, Seed: 99})
		country := indexOf(datatest.Header, "country")
		for _, row := range recs[1:] {
			row[country] = "ZZZ"
		}
		X, _, err := p.Transform(datatest.Frame(recs))
		require.NoError(t, err)
		_, c := X.Dims()
		assert.Equal(t, len(split.FeatureNames), c)

		j := indexOf(split.FeatureNames, "country")
		le := p.State().Encoders["country"]
		s := p.State().Scaler
		want := (float64(le.Unknown) - s.Mean[j]) / s.Scale[j]
		assert.InDelta(t, want, X.At(0, j), 1e-9)
	})

	t.Run("Should reject tables missing a fitted feature", func(t *testing.T) {
		df := raw.Drop("booking_changes")
		_, _, err := p.Transform(df)
		assert.ErrorIs(t, err, pipeline.ErrFeatureMismatch)
	})

	t.Run("Should not refit state in transform mode", func(t *testing.T) {
		before := p.State().OutlierBounds["adr"]
		shifted := datatest.Frame(datatest.Bookings(datatest.Options{Rows: 100, Seed: 7}))
		_, _, err := p.Transform(shifted)
		require.NoError(t, err)
		assert.Equal(t, before, p.State().OutlierBounds["adr"])
	})

	t.Run("Should report which input rows a repeated row collapses to", func(t *testing.T) {
		recs := datatest.Bookings(datatest.Options{Rows: 6, Seed: 12})
		recs = append(recs, append([]string(nil), recs[2]...))
		df := datatest.Frame(recs)

		X, kept, err := p.Transform(df)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, kept)
		r, _ := X.Dims()
		assert.Equal(t, len(kept), r)

		unique, _, err := p.Transform(df.Subset(kept))
		require.NoError(t, err)
		assert.InDeltaSlice(t, unique.RawMatrix().Data, X.RawMatrix().Data, 1e-12)
	})
}

func TestRunEncodesEveryCategoricalColumn(t *testing.T) {
	raw := datatest.Frame(datatest.Bookings(datatest.Options{Rows: 120, Seed: 8}))
	out, err := pipeline.New(pipeline.DefaultOptions(), nil, nil).Run(raw, true)
	require.NoError(t, err)
	assert.Empty(t, dataprep.CategoricalColumns(out, "is_canceled"))
	assert.True(t, data.Has(out, dataprep.SeasonCol))
	assert.True(t, data.Has(out, dataprep.LeadTimeCategoryCol))
}

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}
