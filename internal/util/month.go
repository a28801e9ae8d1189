package util

import "time"

// MonthKey formats a time as its YYYY-MM calendar month key
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// StartOfTrailingWindow returns the first day of the calendar month that
// starts a trailing window of the given number of months, counting the
// month containing now as the most recent one
func StartOfTrailingWindow(now time.Time, months int) time.Time {
	return time.Date(now.Year(), now.Month()-time.Month(months-1), 1, 0, 0, 0, 0, time.UTC)
}
