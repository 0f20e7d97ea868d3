package dataprep

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"hotelprep/pkg/data"
)

// MissingMarker is the literal the raw bookings export uses for an absent value.
const MissingMarker = "NULL"

type FillPolicy int

const (
	FillWithZero FillPolicy = iota
	FillWithMode
)

// FillPolicies lists the only columns the missing-value step treats. Nulls in
// any other column are left in place.
var FillPolicies = []struct {
	Column string
	Policy FillPolicy
}{
	{"children", FillWithZero},
	{"agent", FillWithZero},
	{"company", FillWithZero},
	{"country", FillWithMode},
}

type MissingReport struct {
	Sentinels int
	Filled    map[string]int
	Remaining int
}

// HandleMissingValues turns MissingMarker cells into NA, re-types string
// columns that turn out to be numeric, then fills the columns in FillPolicies.
func HandleMissingValues(df dataframe.DataFrame) (dataframe.DataFrame, MissingReport, error) {
	report := MissingReport{Filled: make(map[string]int)}

	for _, name := range df.Names() {
		s := df.Col(name)
		if s.Type() != series.String {
			continue
		}
		recs := s.Records()
		na := s.IsNaN()
		hits := 0
		for i, r := range recs {
			if !na[i] && strings.TrimSpace(r) == MissingMarker {
				na[i] = true
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		report.Sentinels += hits
		df = df.Mutate(data.Retype(data.Strings(name, recs, na)))
		if df.Err != nil {
			return df, report, fmt.Errorf("replacing %s in %s: %w", MissingMarker, name, df.Err)
		}
	}

	for _, fp := range FillPolicies {
		if !data.Has(df, fp.Column) {
			continue
		}
		var (
			s = df.Col(fp.Column)
			n int
		)
		switch fp.Policy {
		case FillWithZero:
			s, n = FillZero(s)
		case FillWithMode:
			s, n = FillMode(s)
		}
		if n == 0 {
			continue
		}
		report.Filled[fp.Column] = n
		df = df.Mutate(s)
		if df.Err != nil {
			return df, report, fmt.Errorf("filling %s: %w", fp.Column, df.Err)
		}
	}

	report.Remaining = data.CountNA(df)
	return df, report, nil
}

// DropDuplicates removes exact full-row duplicates, keeping the first
// occurrence. It returns the positions in df of the rows that were kept.
func DropDuplicates(df dataframe.DataFrame) (dataframe.DataFrame, []int, error) {
	n := df.Nrow()
	cols := make([][]string, df.Ncol())
	for j, name := range df.Names() {
		cols[j] = data.Cells(df.Col(name))
	}
	seen := make(map[string]struct{}, n)
	keep := make([]int, 0, n)
	row := make([]string, len(cols))
	for i := range n {
		for j, c := range cols {
			row[j] = c[i]
		}
		key := strings.Join(row, "\x1f")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}
	if len(keep) == n {
		return df, keep, nil
	}
	out := df.Subset(keep)
	if out.Err != nil {
		return df, nil, fmt.Errorf("dropping duplicates: %w", out.Err)
	}
	return out, keep, nil
}
