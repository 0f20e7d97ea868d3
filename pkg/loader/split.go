package loader

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

var ErrInvalidSplit = errors.New("invalid train/test split")

// StratifiedSplit partitions row indices 0..len(y)-1 into train and test sets
// whose class proportions follow y. The test set holds ceil(n*testSize) rows,
// shared out across classes by largest remainder. The same seed always
// yields the same partition.
func StratifiedSplit(y []int, testSize float64, seed int64) (train, test []int, err error) {
	n := len(y)
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("%w: test size %v outside (0,1)", ErrInvalidSplit, testSize)
	}
	// The epsilon keeps 980*0.2 from rounding up to 197.
	nTest := int(math.Ceil(float64(n)*testSize - 1e-9))
	nTrain := n - nTest

	groups := make(map[int][]int)
	for i, c := range y {
		groups[c] = append(groups[c], i)
	}
	classes := make([]int, 0, len(groups))
	for c, idx := range groups {
		if len(idx) < 2 {
			return nil, nil, fmt.Errorf("%w: class %d has %d member(s), need at least 2", ErrInvalidSplit, c, len(idx))
		}
		classes = append(classes, c)
	}
	sort.Ints(classes)
	if nTest < len(classes) || nTrain < len(classes) {
		return nil, nil, fmt.Errorf("%w: %d test / %d train rows cannot hold %d classes", ErrInvalidSplit, nTest, nTrain, len(classes))
	}

	alloc := allocate(classes, groups, n, nTest)

	rng := rand.New(rand.NewSource(seed))
	for _, c := range classes {
		idx := append([]int(nil), groups[c]...)
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		test = append(test, idx[:alloc[c]]...)
		train = append(train, idx[alloc[c]:]...)
	}
	rng.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	rng.Shuffle(len(test), func(i, j int) { test[i], test[j] = test[j], test[i] })
	return train, test, nil
}

// allocate shares nTest rows across classes in proportion to class size,
// keeping at least one row of each class on each side. The total is always
// exactly nTest: rows needed to lift a class to one are taken back from the
// classes holding the most.
func allocate(classes []int, groups map[int][]int, n, nTest int) map[int]int {
	type share struct {
		class int
		frac  float64
	}
	alloc := make(map[int]int, len(classes))
	shares := make([]share, 0, len(classes))
	given := 0
	for _, c := range classes {
		exact := float64(len(groups[c])) * float64(nTest) / float64(n)
		k := min(max(int(math.Floor(exact)), 1), len(groups[c])-1)
		alloc[c] = k
		given += k
		shares = append(shares, share{c, exact - math.Floor(exact)})
	}
	sort.SliceStable(shares, func(i, j int) bool { return shares[i].frac > shares[j].frac })
	for i := 0; given < nTest; i = (i + 1) % len(shares) {
		c := shares[i].class
		if alloc[c] < len(groups[c])-1 {
			alloc[c]++
			given++
		}
	}
	for given > nTest {
		top := classes[0]
		for _, c := range classes[1:] {
			if alloc[c] > alloc[top] {
				top = c
			}
		}
		alloc[top]--
		given--
	}
	return alloc
}

// Proportion returns the share of rows in idx whose label equals class.
func Proportion(y []int, idx []int, class int) float64 {
	if len(idx) == 0 {
		return 0
	}
	hits := 0
	for _, i := range idx {
		if y[i] == class {
			hits++
		}
	}
	return float64(hits) / float64(len(idx))
}
