// internal/domain/appointment/matcher.go
package appointment

import (
	"fmt"
	"sort"
	"time"

	"appointment_notifier_bot/internal/apperr"
)

// Matcher selects, from a set of candidate dates, the earliest one that
// falls inside the acceptance window [today, today+timespanDays], inclusive
// on both ends at day granularity.
type Matcher struct {
	// Now reports the current time. Defaults to time.Now; overridden in tests.
	Now func() time.Time
}

func NewMatcher() *Matcher {
	return &Matcher{Now: time.Now}
}

// Match returns the chronologically earliest candidate inside the window,
// or found == false if none qualifies. The window bounds are re-derived from
// the clock on every call. A negative timespanDays is rejected before any
// date logic runs.
func (m *Matcher) Match(dates []Date, timespanDays int) (match Date, found bool, err error) {
	if timespanDays < 0 {
		return "", false, fmt.Errorf("%w: TIMESPAN_DAYS must be a non-negative integer, got %d", apperr.ErrConfiguration, timespanDays)
	}

	now := m.Now()
	windowStart := NewDate(now)
	windowEnd := NewDate(now.AddDate(0, 0, timespanDays))

	sorted := make([]Date, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for _, d := range sorted {
		if d >= windowStart && d <= windowEnd {
			return d, true, nil
		}
	}
	return "", false, nil
}
