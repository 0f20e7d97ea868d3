// Package report summarises a preparation run: counts, the class balance of
// both partitions as a chart, and a baseline classifier score.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"hotelprep/pkg/pipeline"
)

type Summary struct {
	Features     int
	TrainSamples int
	TestSamples  int
	TrainDist    map[int]int
	TestDist     map[int]int
	Baseline     *BaselineResult
}

// Distribution counts rows per class label.
func Distribution(y []int) map[int]int {
	out := make(map[int]int)
	for _, v := range y {
		out[v]++
	}
	return out
}

func Summarize(split *pipeline.Split) Summary {
	return Summary{
		Features:     len(split.FeatureNames),
		TrainSamples: len(split.YTrain),
		TestSamples:  len(split.YTest),
		TrainDist:    Distribution(split.YTrain),
		TestDist:     Distribution(split.YTest),
	}
}

func formatDist(d map[int]int) string {
	keys := make([]int, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%d: %d", k, d[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Print writes the human-readable summary block.
func (s Summary) Print(w io.Writer) {
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Preprocessing Summary")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total features: %d\n", s.Features)
	fmt.Fprintf(w, "Training samples: %d\n", s.TrainSamples)
	fmt.Fprintf(w, "Test samples: %d\n", s.TestSamples)
	fmt.Fprintf(w, "Target distribution (train): %s\n", formatDist(s.TrainDist))
	fmt.Fprintf(w, "Target distribution (test): %s\n", formatDist(s.TestDist))
	if b := s.Baseline; b != nil {
		fmt.Fprintf(w, "Baseline accuracy: %.4f (precision %.4f, recall %.4f, f1 %.4f)\n",
			b.Accuracy, b.Precision, b.Recall, b.F1)
	}
	fmt.Fprintln(w, rule)
}
