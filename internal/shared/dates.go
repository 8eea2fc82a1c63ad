package shared

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD value.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate renders a date in wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
