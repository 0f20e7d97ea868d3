package dataprep

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

const (
	// UnknownLabel stands in for any value an encoder did not see when fitted.
	UnknownLabel = "unknown"
	// NALabel is the label NA cells are encoded under.
	NALabel = "nan"
)

// LabelEncoder maps category labels to integer codes. Classes are sorted at
// fit time; UnknownLabel always has a code, so Encode is total.
type LabelEncoder struct {
	Classes []string
	Unknown int

	index map[string]int
}

// NewLabelEncoder fits an encoder on the given labels.
func NewLabelEncoder(labels []string) *LabelEncoder {
	le := &LabelEncoder{}
	le.Fit(labels)
	return le
}

func (le *LabelEncoder) Fit(labels []string) {
	uniq := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		uniq[l] = struct{}{}
	}
	classes := make([]string, 0, len(uniq)+1)
	for l := range uniq {
		classes = append(classes, l)
	}
	sort.Strings(classes)
	if _, ok := uniq[UnknownLabel]; !ok {
		classes = append(classes, UnknownLabel)
	}
	le.Classes = classes
	le.index = make(map[string]int, len(classes))
	for i, c := range classes {
		le.index[c] = i
	}
	le.Unknown = le.index[UnknownLabel]
}

// lookup rebuilds the label index after the encoder was decoded from disk.
func (le *LabelEncoder) lookup() map[string]int {
	if le.index == nil {
		le.index = make(map[string]int, len(le.Classes))
		for i, c := range le.Classes {
			le.index[c] = i
		}
	}
	return le.index
}

// Encode returns the code for label, or the unknown code if label was unseen.
func (le *LabelEncoder) Encode(label string) int {
	if code, ok := le.lookup()[label]; ok {
		return code
	}
	return le.Unknown
}

// Known reports whether label was seen at fit time.
func (le *LabelEncoder) Known(label string) bool {
	_, ok := le.lookup()[label]
	return ok
}

func (le *LabelEncoder) Decode(code int) (string, error) {
	if code < 0 || code >= len(le.Classes) {
		return "", fmt.Errorf("code %d out of range [0,%d)", code, len(le.Classes))
	}
	return le.Classes[code], nil
}

func labels(s series.Series) []string {
	recs := s.Records()
	na := s.IsNaN()
	for i := range recs {
		if na[i] {
			recs[i] = NALabel
		}
	}
	return recs
}

// CategoricalColumns lists the string columns of df other than target.
func CategoricalColumns(df dataframe.DataFrame, target string) []string {
	var cols []string
	for _, name := range df.Names() {
		if name == target {
			continue
		}
		if df.Col(name).Type() == series.String {
			cols = append(cols, name)
		}
	}
	return cols
}

// EncodeCategorical replaces every categorical column with integer codes.
// With fit set, a fresh encoder per column is fitted and stored in encoders;
// otherwise the stored encoders are reused and columns without one are left
// untouched. It returns the names of the encoded columns.
func EncodeCategorical(df dataframe.DataFrame, target string, encoders map[string]*LabelEncoder, fit bool) (dataframe.DataFrame, []string, error) {
	var encoded []string
	for _, name := range CategoricalColumns(df, target) {
		vals := labels(df.Col(name))
		le, ok := encoders[name]
		switch {
		case fit:
			le = NewLabelEncoder(vals)
			encoders[name] = le
		case !ok:
			continue
		}
		codes := make([]int, len(vals))
		for i, v := range vals {
			codes[i] = le.Encode(v)
		}
		df = df.Mutate(series.New(codes, series.Int, name))
		if df.Err != nil {
			return df, encoded, fmt.Errorf("encoding %s: %w", name, df.Err)
		}
		encoded = append(encoded, name)
	}
	return df, encoded, nil
}
