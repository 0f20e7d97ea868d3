package data

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrMissingColumn = errors.New("column not found")
	ErrNonNumeric    = errors.New("column is not numeric")
)

// Has reports whether df carries a column called name.
func Has(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

func IsNumeric(s series.Series) bool {
	return s.Type() == series.Int || s.Type() == series.Float
}

// Floats returns the column as float64 with NA as NaN.
func Floats(s series.Series) []float64 {
	vals := s.Float()
	na := s.IsNaN()
	for i := range vals {
		if na[i] {
			vals[i] = math.NaN()
		}
	}
	return vals
}

// Column fetches a numeric column as floats.
func Column(df dataframe.DataFrame, name string) ([]float64, error) {
	if !Has(df, name) {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	s := df.Col(name)
	if !IsNumeric(s) {
		return nil, fmt.Errorf("%w: %s", ErrNonNumeric, name)
	}
	return Floats(s), nil
}

// Numeric builds an Int series when every value is a finite whole number,
// otherwise a Float series. NaN values become NA.
func Numeric(name string, vals []float64) series.Series {
	integral := true
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			integral = false
			break
		}
	}
	if integral {
		ints := make([]int, len(vals))
		for i, v := range vals {
			ints[i] = int(v)
		}
		return series.New(ints, series.Int, name)
	}
	recs := make([]string, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) {
			recs[i] = "NaN"
			continue
		}
		recs[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return series.New(recs, series.Float, name)
}

// Strings builds a String series; NA cells are passed as na=true.
func Strings(name string, vals []string, na []bool) series.Series {
	recs := make([]string, len(vals))
	for i, v := range vals {
		if na != nil && na[i] {
			recs[i] = "NaN"
			continue
		}
		recs[i] = v
	}
	return series.New(recs, series.String, name)
}

// Retype converts a String column whose non-NA values all parse as numbers
// into a numeric column. Other columns are returned unchanged.
func Retype(s series.Series) series.Series {
	if s.Type() != series.String {
		return s
	}
	recs := s.Records()
	na := s.IsNaN()
	vals := make([]float64, len(recs))
	seen := false
	for i, r := range recs {
		if na[i] {
			vals[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(r, 64)
		if err != nil {
			return s
		}
		vals[i] = v
		seen = true
	}
	if !seen {
		return s
	}
	return Numeric(s.Name, vals)
}

// Cells renders a column at full precision: floats use the shortest
// representation that round-trips, NA cells are empty.
func Cells(s series.Series) []string {
	recs := s.Records()
	na := s.IsNaN()
	var vals []float64
	if s.Type() == series.Float {
		vals = s.Float()
	}
	for i := range recs {
		switch {
		case na[i]:
			recs[i] = ""
		case vals != nil:
			recs[i] = strconv.FormatFloat(vals[i], 'g', -1, 64)
		}
	}
	return recs
}

// CountNA returns the number of NA cells across the whole frame.
func CountNA(df dataframe.DataFrame) int {
	n := 0
	for _, name := range df.Names() {
		for _, na := range df.Col(name).IsNaN() {
			if na {
				n++
			}
		}
	}
	return n
}

// ToMatrix copies the named numeric columns, in order, into a dense matrix.
func ToMatrix(df dataframe.DataFrame, names []string) (*mat.Dense, error) {
	r, c := df.Nrow(), len(names)
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("empty feature table (%d x %d)", r, c)
	}
	m := mat.NewDense(r, c, nil)
	for j, name := range names {
		col, err := Column(df, name)
		if err != nil {
			return nil, err
		}
		for i, v := range col {
			m.Set(i, j, v)
		}
	}
	return m, nil
}

// FromMatrix builds a frame with one Float column per matrix column.
func FromMatrix(m mat.Matrix, names []string) (dataframe.DataFrame, error) {
	r, c := m.Dims()
	if c != len(names) {
		return dataframe.DataFrame{}, fmt.Errorf("matrix has %d columns, got %d names", c, len(names))
	}
	cols := make([]series.Series, c)
	for j := range c {
		vals := make([]float64, r)
		for i := range r {
			vals[i] = m.At(i, j)
		}
		cols[j] = series.New(vals, series.Float, names[j])
	}
	df := dataframe.New(cols...)
	return df, df.Err
}
