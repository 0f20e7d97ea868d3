package dataprep

import (
	"math"
	"sort"

	"github.com/go-gota/gota/series"

	"hotelprep/pkg/data"
)

// FillZero replaces NA cells with 0 and reports how many were filled.
// String columns receive the literal "0".
func FillZero(s series.Series) (series.Series, int) {
	na := s.IsNaN()
	filled := 0
	for _, v := range na {
		if v {
			filled++
		}
	}
	if filled == 0 {
		return s, 0
	}
	if s.Type() == series.String {
		recs := s.Records()
		for i := range recs {
			if na[i] {
				recs[i] = "0"
			}
		}
		return data.Retype(data.Strings(s.Name, recs, nil)), filled
	}
	vals := data.Floats(s)
	for i, v := range vals {
		if math.IsNaN(v) {
			vals[i] = 0
		}
	}
	return data.Numeric(s.Name, vals), filled
}

// Mode returns the most frequent non-NA value of s. Ties resolve to the
// smallest value in lexical order. ok is false when s has no values.
func Mode(s series.Series) (mode string, ok bool) {
	recs := s.Records()
	na := s.IsNaN()
	counts := make(map[string]int)
	for i, r := range recs {
		if !na[i] {
			counts[r]++
		}
	}
	if len(counts) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best, true
}

// FillMode replaces NA cells with the column mode.
func FillMode(s series.Series) (series.Series, int) {
	mode, ok := Mode(s)
	if !ok {
		return s, 0
	}
	na := s.IsNaN()
	recs := s.Records()
	filled := 0
	for i := range recs {
		if na[i] {
			recs[i] = mode
			filled++
		}
	}
	if filled == 0 {
		return s, 0
	}
	if data.IsNumeric(s) {
		return data.Retype(data.Strings(s.Name, recs, nil)), filled
	}
	return data.Strings(s.Name, recs, nil), filled
}
