// Package calendar implements monthly payment date projection. This is the
// one piece of deterministic arithmetic in the pipeline and is kept free of
// any model dependency so it stays exactly unit-testable.
package calendar

import (
	"time"

	"cloud.google.com/go/civil"
)

// AddMonths returns d advanced by n calendar months, preserving the
// day-of-month with end-of-month clamping: Jan 31 + 1 month is Feb 28 (or 29
// in a leap year), not Mar 2. n must be non-negative.
//
// Each step is taken from the original day-of-month, so Jan 31 projects to
// Feb 28 and then back to Mar 31, never drifting to the 28th permanently.
func AddMonths(d civil.Date, n int) civil.Date {
	months := int(d.Month) - 1 + n
	year := d.Year + months/12
	month := time.Month(months%12 + 1)

	day := d.Day
	if last := daysIn(year, month); day > last {
		day = last
	}
	return civil.Date{Year: year, Month: month, Day: day}
}

// NextPayment returns the expected payment date one calendar month after
// lastPaid.
func NextPayment(lastPaid civil.Date) civil.Date {
	return AddMonths(lastPaid, 1)
}

// ProjectToMonth returns the expected payment date in the given target
// month, stepping forward one calendar month at a time from lastPaid until
// the target month is reached. A target month at or before lastPaid's own
// month returns lastPaid unchanged.
func ProjectToMonth(lastPaid civil.Date, year int, month time.Month) civil.Date {
	n := (year-lastPaid.Year)*12 + int(month) - int(lastPaid.Month)
	if n <= 0 {
		return lastPaid
	}
	return AddMonths(lastPaid, n)
}

// daysIn returns the number of days in the given month. Day 0 of the next
// month normalizes to the last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
