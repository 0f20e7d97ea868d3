// Package datatest generates synthetic hotel-booking tables for tests.
package datatest

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/go-gota/gota/dataframe"

	"hotelprep/pkg/data"
)

// Header is the column set of the raw bookings export.
var Header = []string{
	"hotel", "is_canceled", "lead_time", "arrival_date_year", "arrival_date_month",
	"arrival_date_week_number", "arrival_date_day_of_month", "stays_in_weekend_nights",
	"stays_in_week_nights", "adults", "children", "babies", "meal", "country",
	"market_segment", "distribution_channel", "is_repeated_guest", "previous_cancellations",
	"previous_bookings_not_canceled", "reserved_room_type", "assigned_room_type",
	"booking_changes", "deposit_type", "agent", "company", "days_in_waiting_list",
	"customer_type", "adr", "required_car_parking_spaces", "total_of_special_requests",
	"reservation_status", "reservation_status_date",
}

var (
	months    = []string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
	countries = []string{"PRT", "GBR", "FRA", "ESP", "DEU", "ITA", "IRL"}
	meals     = []string{"BB", "HB", "FB", "SC"}
	segments  = []string{"Online TA", "Offline TA/TO", "Direct", "Groups", "Corporate"}
	channels  = []string{"TA/TO", "Direct", "Corporate"}
	rooms     = []string{"A", "B", "C", "D", "E"}
	deposits  = []string{"No Deposit", "Non Refund", "Refundable"}
	customers = []string{"Transient", "Contract", "Transient-Party", "Group"}
)

type Options struct {
	Rows int
	Seed int64
	// MissingCountry is the fraction of rows whose country is NA.
	MissingCountry float64
	// Duplicates is the fraction of rows that are exact copies of earlier rows.
	Duplicates float64
	// CancelRate is the probability a booking is canceled.
	CancelRate float64
}

// Bookings returns header plus rows. Base rows are unique (adr is a function
// of the row number); the duplicate rows copy distinct earlier rows.
func Bookings(opts Options) [][]string {
	if opts.CancelRate == 0 {
		opts.CancelRate = 0.37
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	dups := int(float64(opts.Rows) * opts.Duplicates)
	base := opts.Rows - dups
	missing := int(float64(opts.Rows) * opts.MissingCountry)

	itoa := strconv.Itoa
	pick := func(xs []string) string { return xs[rng.Intn(len(xs))] }

	recs := [][]string{Header}
	for i := range base {
		canceled := 0
		status := "Check-Out"
		if rng.Float64() < opts.CancelRate {
			canceled, status = 1, "Canceled"
		}
		children := itoa(rng.Intn(3))
		if rng.Float64() < 0.01 {
			children = "NA"
		}
		agent := itoa(1 + rng.Intn(300))
		if rng.Float64() < 0.1 {
			agent = "NULL"
		}
		company := "NULL"
		if rng.Float64() < 0.1 {
			company = itoa(1 + rng.Intn(500))
		}
		country := pick(countries)
		if i < missing {
			country = "NA"
		}
		lead := rng.Intn(400)
		if rng.Float64() < 0.03 {
			lead = 400 + rng.Intn(300)
		}
		month := rng.Intn(12)
		recs = append(recs, []string{
			pick([]string{"Resort Hotel", "City Hotel"}),
			itoa(canceled),
			itoa(lead),
			itoa(2015 + rng.Intn(3)),
			months[month],
			itoa(1 + rng.Intn(53)),
			itoa(1 + rng.Intn(28)),
			itoa(rng.Intn(3)),
			itoa(rng.Intn(6)),
			itoa(1 + rng.Intn(3)),
			children,
			itoa(rng.Intn(2)),
			pick(meals),
			country,
			pick(segments),
			pick(channels),
			itoa(rng.Intn(2)),
			itoa(rng.Intn(2)),
			itoa(rng.Intn(3)),
			pick(rooms),
			pick(rooms),
			itoa(rng.Intn(3)),
			pick(deposits),
			agent,
			company,
			itoa(rng.Intn(5)),
			pick(customers),
			fmt.Sprintf("%.2f", 40+float64(i)*0.25),
			itoa(rng.Intn(2)),
			itoa(rng.Intn(4)),
			status,
			fmt.Sprintf("2016-%02d-%02d", month+1, 1+rng.Intn(28)),
		})
	}
	for _, src := range rng.Perm(base)[:dups] {
		row := append([]string(nil), recs[1+src]...)
		recs = append(recs, row)
	}
	return recs
}

// Frame loads records the way data.ReadCSV loads a file.
func Frame(recs [][]string) dataframe.DataFrame {
	return dataframe.LoadRecords(recs,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(data.MissingMarkers),
	)
}
