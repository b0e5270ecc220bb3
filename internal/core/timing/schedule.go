package timing

import "time"

// ReportSecond is the seconds-past-the-minute at which summaries are logged.
const ReportSecond = 30

// NextReport returns the first instant strictly after now whose seconds
// field is ReportSecond, in now's location.
func NextReport(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), ReportSecond, 0, now.Location())
	if !next.After(now) {
		next = next.Add(time.Minute)
	}
	return next
}

// Delay is the time left until NextReport(now). It is always in (0, 1m].
func Delay(now time.Time) time.Duration {
	return NextReport(now).Sub(now)
}
