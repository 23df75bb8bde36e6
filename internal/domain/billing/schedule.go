package billing

import "time"

// DateOnly truncates a timestamp to midnight UTC so calendar comparisons are
// not skewed by time-of-day or zone.
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	year, month, day := u.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NextBillingDate computes the first charge date for a subscription: the next
// occurrence of the mandate's signing day-of-year on or after today. A
// signature on Feb 29 falls back to Mar 1 in non-leap years. The result is
// never in the past; a candidate equal to today is accepted as-is.
func NextBillingDate(signatureDate, today time.Time) time.Time {
	today = DateOnly(today)
	month, day := signatureDate.Month(), signatureDate.Day()

	candidate := occurrenceIn(today.Year(), month, day)
	if candidate.Before(today) {
		// Leap-year status can differ next year, so the fallback is
		// re-applied against the advanced year.
		candidate = occurrenceIn(today.Year()+1, month, day)
	}
	return candidate
}

func occurrenceIn(year int, month time.Month, day int) time.Time {
	if month == time.February && day == 29 && !isLeapYear(year) {
		month, day = time.March, 1
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
