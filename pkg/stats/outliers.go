package stats

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"

	"hotelprep/pkg/data"
)

// IQRFactor scales the interquartile range into the capping fences.
const IQRFactor = 1.5

// Bounds is a closed clipping interval.
type Bounds struct {
	Lower, Upper float64
}

// Clip limits v to b. NaN passes through.
func (b Bounds) Clip(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return v
	case v < b.Lower:
		return b.Lower
	case v > b.Upper:
		return b.Upper
	}
	return v
}

// IQRBounds returns [Q1 - 1.5*IQR, Q3 + 1.5*IQR] over the non-NaN values.
func IQRBounds(x []float64) Bounds {
	q1, q3 := Percentile(x, 25), Percentile(x, 75)
	iqr := q3 - q1
	return Bounds{Lower: q1 - IQRFactor*iqr, Upper: q3 + IQRFactor*iqr}
}

// FitBounds computes IQR bounds for each listed column present in df.
// Absent columns are skipped.
func FitBounds(df dataframe.DataFrame, cols []string) (map[string]Bounds, error) {
	out := make(map[string]Bounds, len(cols))
	for _, c := range cols {
		if !data.Has(df, c) {
			continue
		}
		vals, err := data.Column(df, c)
		if err != nil {
			return nil, err
		}
		out[c] = IQRBounds(vals)
	}
	return out, nil
}

// ApplyBounds clips each bounded column of df. It returns the number of
// cells that were moved.
func ApplyBounds(df dataframe.DataFrame, bounds map[string]Bounds) (dataframe.DataFrame, int, error) {
	clipped := 0
	for c, b := range bounds {
		if !data.Has(df, c) {
			continue
		}
		vals, err := data.Column(df, c)
		if err != nil {
			return df, clipped, err
		}
		for i, v := range vals {
			if cv := b.Clip(v); cv != v {
				vals[i] = cv
				clipped++
			}
		}
		df = df.Mutate(data.Numeric(c, vals))
		if df.Err != nil {
			return df, clipped, fmt.Errorf("capping %s: %w", c, df.Err)
		}
	}
	return df, clipped, nil
}

// CapOutliers recomputes bounds on df itself and clips, without keeping any
// state. Running it separately on two partitions yields different bounds.
func CapOutliers(df dataframe.DataFrame, cols []string) (dataframe.DataFrame, map[string]Bounds, error) {
	bounds, err := FitBounds(df, cols)
	if err != nil {
		return df, nil, err
	}
	out, _, err := ApplyBounds(df, bounds)
	return out, bounds, err
}
