package data

import (
	"errors"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/spf13/afero"
)

var ErrInputNotFound = errors.New("input file not found")

// MissingMarkers are read as NA when a file is loaded. The "NULL" sentinel is
// deliberately absent: it is resolved by the missing-value step.
var MissingMarkers = []string{"", "NA", "NaN", "nan", "N/A"}

// Exists reports whether path is present on fs.
func Exists(fs afero.Fs, path string) (bool, error) {
	return afero.Exists(fs, path)
}

// ReadCSV loads a delimited file with a header row into a DataFrame,
// detecting column types.
func ReadCSV(fs afero.Fs, path string) (dataframe.DataFrame, error) {
	ok, err := Exists(fs, path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if !ok {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	f, err := fs.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(MissingMarkers),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("reading %s: %w", path, df.Err)
	}
	return df, nil
}

// WriteCSV writes df with its header to path, creating or truncating it.
// Cells are rendered with Cells, so floats keep full precision and NA cells
// are written empty.
func WriteCSV(fs afero.Fs, path string, df dataframe.DataFrame) error {
	if df.Err != nil {
		return df.Err
	}
	cols := make([]series.Series, df.Ncol())
	for j, name := range df.Names() {
		cols[j] = series.New(Cells(df.Col(name)), series.String, name)
	}
	df = dataframe.New(cols...)
	if df.Err != nil {
		return df.Err
	}
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	if err := df.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
