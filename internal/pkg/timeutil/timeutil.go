package timeutil

import "time"

// DayLayout is the wire format for diary dates.
const DayLayout = "2006-01-02"

func NowUnix() int64 {
	return time.Now().Unix()
}

// ParseDay parses a YYYY-MM-DD string into a UTC-midnight instant.
// time.Parse with a date-only layout already yields 00:00:00 UTC, so
// every caller compares whole days in the same frame and local-time
// boundary drift cannot occur.
func ParseDay(value string) (time.Time, error) {
	t, err := time.Parse(DayLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func FormatDay(t time.Time) string {
	return t.UTC().Format(DayLayout)
}
