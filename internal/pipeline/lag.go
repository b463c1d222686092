package pipeline

import "time"

// LastPublished returns the latest month expected to be published at now,
// given a publication lag of months and days. Months are subtracted first
// with the day clamped to the end of the target month, then days.
func LastPublished(now time.Time, months, days int) time.Time {
	y, m, d := now.Date()

	first := time.Date(y, m-time.Month(months), 1, 0, 0, 0, 0, now.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}

	shifted := time.Date(first.Year(), first.Month(), d,
		now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), now.Location())
	return shifted.AddDate(0, 0, -days)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
