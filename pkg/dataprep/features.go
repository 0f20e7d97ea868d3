package dataprep

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"

	"hotelprep/pkg/data"
)

// Derived column names.
const (
	TotalNights         = "total_nights"
	TotalGuests         = "total_guests"
	HasSpecialRequests  = "has_special_requests"
	LeadTimeCategoryCol = "lead_time_category"
	SeasonCol           = "season"
)

// Lead-time buckets, upper bounds inclusive.
var leadTimeBuckets = []struct {
	upTo  float64
	label string
}{
	{7, "very_short"},
	{30, "short"},
	{90, "medium"},
	{365, "long"},
	{math.Inf(1), "very_long"},
}

// LeadTimeCategory buckets a lead time in days. NaN and negative lead times
// have no bucket.
func LeadTimeCategory(days float64) (string, bool) {
	if math.IsNaN(days) || days < 0 {
		return "", false
	}
	for _, b := range leadTimeBuckets {
		if days <= b.upTo {
			return b.label, true
		}
	}
	return "", false
}

var seasons = map[string]string{
	"December": "Winter", "January": "Winter", "February": "Winter",
	"March": "Spring", "April": "Spring", "May": "Spring",
	"June": "Summer", "July": "Summer", "August": "Summer",
	"September": "Fall", "October": "Fall", "November": "Fall",
}

// Season maps an English month name to its northern-hemisphere season.
func Season(month string) (string, bool) {
	s, ok := seasons[month]
	return s, ok
}

func sumColumns(df dataframe.DataFrame, names ...string) ([]float64, error) {
	out := make([]float64, df.Nrow())
	for _, name := range names {
		col, err := data.Column(df, name)
		if err != nil {
			return nil, err
		}
		for i, v := range col {
			out[i] += v
		}
	}
	return out, nil
}

// DeriveFeatures appends the five engineered columns. It holds no state, so
// fit and transform runs derive identical columns.
func DeriveFeatures(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	nights, err := sumColumns(df, "stays_in_weekend_nights", "stays_in_week_nights")
	if err != nil {
		return df, fmt.Errorf("%s: %w", TotalNights, err)
	}
	guests, err := sumColumns(df, "adults", "children", "babies")
	if err != nil {
		return df, fmt.Errorf("%s: %w", TotalGuests, err)
	}
	requests, err := data.Column(df, "total_of_special_requests")
	if err != nil {
		return df, fmt.Errorf("%s: %w", HasSpecialRequests, err)
	}
	flags := make([]float64, len(requests))
	for i, v := range requests {
		if v > 0 {
			flags[i] = 1
		}
	}

	lead, err := data.Column(df, "lead_time")
	if err != nil {
		return df, fmt.Errorf("%s: %w", LeadTimeCategoryCol, err)
	}
	buckets := make([]string, len(lead))
	bucketNA := make([]bool, len(lead))
	for i, v := range lead {
		label, ok := LeadTimeCategory(v)
		buckets[i], bucketNA[i] = label, !ok
	}

	if !data.Has(df, "arrival_date_month") {
		return df, fmt.Errorf("%s: %w: arrival_date_month", SeasonCol, data.ErrMissingColumn)
	}
	months := df.Col("arrival_date_month")
	monthNA := months.IsNaN()
	labels := make([]string, months.Len())
	labelNA := make([]bool, months.Len())
	for i, m := range months.Records() {
		if monthNA[i] {
			labelNA[i] = true
			continue
		}
		var ok bool
		labels[i], ok = Season(m)
		labelNA[i] = !ok
	}

	out := df.
		Mutate(data.Numeric(TotalNights, nights)).
		Mutate(data.Numeric(TotalGuests, guests)).
		Mutate(data.Numeric(HasSpecialRequests, flags)).
		Mutate(data.Strings(LeadTimeCategoryCol, buckets, bucketNA)).
		Mutate(data.Strings(SeasonCol, labels, labelNA))
	if out.Err != nil {
		return df, fmt.Errorf("deriving features: %w", out.Err)
	}
	return out, nil
}
