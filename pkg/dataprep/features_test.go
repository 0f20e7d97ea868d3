package dataprep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelprep/pkg/data"
	"hotelprep/pkg/data/datatest"
)

func TestLeadTimeCategory(t *testing.T) {
	cases := []struct {
		days float64
		want string
	}{
		{0, "very_short"},
		{7, "very_short"},
		{8, "short"},
		{30, "short"},
		{31, "medium"},
		{90, "medium"},
		{91, "long"},
		{365, "long"},
		{366, "very_long"},
		{737, "very_long"},
	}
	for _, tc := range cases {
		got, ok := LeadTimeCategory(tc.days)
		require.True(t, ok, tc.days)
		assert.Equal(t, tc.want, got, "lead_time=%v", tc.days)
	}

	_, ok := LeadTimeCategory(math.NaN())
	assert.False(t, ok)
	_, ok = LeadTimeCategory(-1)
	assert.False(t, ok)
}

func TestSeason(t *testing.T) {
	for month, want := range map[string]string{
		"December": "Winter", "February": "Winter", "March": "Spring",
		"July": "Summer", "September": "Fall", "November": "Fall",
	} {
		got, ok := Season(month)
		require.True(t, ok)
		assert.Equal(t, want, got, month)
	}
	_, ok := Season("Smarch")
	assert.False(t, ok)
}

func TestDeriveFeatures(t *testing.T) {
	raw := datatest.Frame(datatest.Bookings(datatest.Options{Rows: 200, Seed: 11}))
	df, _, err := HandleMissingValues(raw)
	require.NoError(t, err)

	out, err := DeriveFeatures(df)
	require.NoError(t, err)
	assert.Equal(t, df.Ncol()+5, out.Ncol())

	col := func(name string) []float64 {
		v, err := data.Column(out, name)
		require.NoError(t, err, name)
		return v
	}

	t.Run("Should sum nights and guests row by row", func(t *testing.T) {
		we, wk, nights := col("stays_in_weekend_nights"), col("stays_in_week_nights"), col(TotalNights)
		ad, ch, ba, guests := col("adults"), col("children"), col("babies"), col(TotalGuests)
		for i := range nights {
			assert.Equal(t, we[i]+wk[i], nights[i])
			assert.Equal(t, ad[i]+ch[i]+ba[i], guests[i])
		}
	})

	t.Run("Should flag special requests", func(t *testing.T) {
		req, flag := col("total_of_special_requests"), col(HasSpecialRequests)
		for i := range req {
			assert.Equal(t, req[i] > 0, flag[i] == 1)
		}
	})

	t.Run("Should bucket lead time and map seasons", func(t *testing.T) {
		lead := col("lead_time")
		buckets := out.Col(LeadTimeCategoryCol).Records()
		months := out.Col("arrival_date_month").Records()
		seasons := out.Col(SeasonCol).Records()
		for i := range lead {
			want, _ := LeadTimeCategory(lead[i])
			assert.Equal(t, want, buckets[i])
			s, _ := Season(months[i])
			assert.Equal(t, s, seasons[i])
		}
	})

	t.Run("Should be deterministic", func(t *testing.T) {
		again, err := DeriveFeatures(df)
		require.NoError(t, err)
		assert.Equal(t, out.Records(), again.Records())
	})
}

func TestDeriveFeaturesMissingColumn(t *testing.T) {
	_, err := DeriveFeatures(datatest.Frame([][]string{{"adults"}, {"1"}}))
	assert.ErrorIs(t, err, data.ErrMissingColumn)
}
