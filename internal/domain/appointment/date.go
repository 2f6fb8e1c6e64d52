// internal/domain/appointment/date.go
package appointment

import "time"

// DateLayout is the canonical wire and comparison form of a candidate date.
// Lexicographic order on this layout equals chronological order.
const DateLayout = "2006-01-02"

// Date is a candidate appointment date at day granularity, in YYYY-MM-DD form.
// Time-of-day carried by the upstream timestamp is truncated away.
type Date string

// NewDate truncates t to day granularity.
func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

func (d Date) String() string {
	return string(d)
}
