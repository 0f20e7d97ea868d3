package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelprep/pkg/data"
	"hotelprep/pkg/data/datatest"
)

func TestIQRBounds(t *testing.T) {
	b := IQRBounds([]float64{1, 2, 3, 4, 5})
	assert.InDelta(t, -1, b.Lower, 1e-12)
	assert.InDelta(t, 7, b.Upper, 1e-12)

	assert.Equal(t, -1.0, b.Clip(-40))
	assert.Equal(t, 7.0, b.Clip(100))
	assert.Equal(t, 3.0, b.Clip(3))
	assert.True(t, math.IsNaN(b.Clip(math.NaN())))
}

func TestCapOutliers(t *testing.T) {
	df := datatest.Frame([][]string{
		{"adr", "lead_time", "hotel"},
		{"1", "1", "a"},
		{"2", "2", "b"},
		{"3", "3", "c"},
		{"4", "4", "d"},
		{"500", "5", "e"},
	})

	out, bounds, err := CapOutliers(df, []string{"adr", "lead_time", "absent"})
	require.NoError(t, err)
	require.Len(t, bounds, 2)

	t.Run("Should clip instead of dropping rows", func(t *testing.T) {
		assert.Equal(t, df.Nrow(), out.Nrow())
		adr, err := data.Column(out, "adr")
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3, 4, 7}, adr)
	})

	t.Run("Should leave in-range columns unchanged", func(t *testing.T) {
		lead, _ := data.Column(out, "lead_time")
		assert.Equal(t, []float64{1, 2, 3, 4, 5}, lead)
	})

	t.Run("Should reject a non-numeric column", func(t *testing.T) {
		_, _, err := CapOutliers(df, []string{"hotel"})
		assert.ErrorIs(t, err, data.ErrNonNumeric)
	})
}

// Bounds fitted on one partition and reused on another differ from bounds
// recomputed on the second partition alone.
func TestFittedBoundsDifferFromRecomputed(t *testing.T) {
	train := datatest.Frame([][]string{{"adr"}, {"10"}, {"20"}, {"30"}, {"40"}, {"50"}})
	test := datatest.Frame([][]string{{"adr"}, {"100"}, {"110"}, {"120"}, {"130"}, {"400"}})

	fitted, err := FitBounds(train, []string{"adr"})
	require.NoError(t, err)
	reused, _, err := ApplyBounds(test, fitted)
	require.NoError(t, err)
	recomputed, own, err := CapOutliers(test, []string{"adr"})
	require.NoError(t, err)

	assert.NotEqual(t, fitted["adr"], own["adr"])
	a, _ := data.Column(reused, "adr")
	b, _ := data.Column(recomputed, "adr")
	assert.Equal(t, []float64{70, 70, 70, 70, 70}, a)
	assert.Equal(t, []float64{100, 110, 120, 130, 160}, b)
}
