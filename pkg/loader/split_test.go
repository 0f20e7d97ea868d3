package loader

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(n int, positive float64, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))
	y := make([]int, n)
	for i := range y {
		if rng.Float64() < positive {
			y[i] = 1
		}
	}
	return y
}

func TestStratifiedSplit(t *testing.T) {
	y := labels(980, 0.37, 1)

	train, test, err := StratifiedSplit(y, 0.2, 42)
	require.NoError(t, err)

	t.Run("Should size the test set with ceil", func(t *testing.T) {
		assert.Len(t, test, 196)
		assert.Len(t, train, 784)
	})

	t.Run("Should form disjoint partitions covering every row", func(t *testing.T) {
		all := append(append([]int(nil), train...), test...)
		sort.Ints(all)
		for i, v := range all {
			require.Equal(t, i, v)
		}
	})

	t.Run("Should keep class proportions within two points", func(t *testing.T) {
		idx := make([]int, len(y))
		for i := range idx {
			idx[i] = i
		}
		full := Proportion(y, idx, 1)
		assert.InDelta(t, full, Proportion(y, train, 1), 0.02)
		assert.InDelta(t, full, Proportion(y, test, 1), 0.02)
	})

	t.Run("Should be reproducible for a seed", func(t *testing.T) {
		train2, test2, err := StratifiedSplit(y, 0.2, 42)
		require.NoError(t, err)
		assert.Equal(t, train, train2)
		assert.Equal(t, test, test2)

		_, test3, err := StratifiedSplit(y, 0.2, 7)
		require.NoError(t, err)
		assert.NotEqual(t, test, test3)
	})
}

func TestStratifiedSplitMulticlass(t *testing.T) {
	y := []int{0, 0, 0, 0, 0, 0, 1, 1, 1, 2, 2}
	train, test, err := StratifiedSplit(y, 0.3, 5)
	require.NoError(t, err)
	assert.Len(t, test, 4)
	assert.Len(t, train, 7)
	for _, c := range []int{0, 1, 2} {
		assert.Positive(t, Proportion(y, test, c), c)
		assert.Positive(t, Proportion(y, train, c), c)
	}
}

func TestStratifiedSplitRareClasses(t *testing.T) {
	y := make([]int, 100)
	y[96], y[97] = 1, 1
	y[98], y[99] = 2, 2

	train, test, err := StratifiedSplit(y, 0.03, 9)
	require.NoError(t, err)
	assert.Len(t, test, 3)
	assert.Len(t, train, 97)
	for _, c := range []int{0, 1, 2} {
		assert.Positive(t, Proportion(y, test, c), c)
		assert.Positive(t, Proportion(y, train, c), c)
	}
}

func TestStratifiedSplitErrors(t *testing.T) {
	cases := map[string]struct {
		y        []int
		testSize float64
	}{
		"zero test size":  {[]int{0, 0, 1, 1}, 0},
		"full test size":  {[]int{0, 0, 1, 1}, 1},
		"singleton class": {[]int{0, 0, 0, 1}, 0.5},
		"too few rows":    {[]int{0, 0, 1, 1}, 0.1},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := StratifiedSplit(tc.y, tc.testSize, 1)
			assert.ErrorIs(t, err, ErrInvalidSplit)
		})
	}
}
