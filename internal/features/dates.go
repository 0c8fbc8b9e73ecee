package features

import (
	"time"

	"cloud.google.com/go/civil"
)

const day = 24 * time.Hour

// wallClock drops the location of t and keeps its wall clock reading, so a
// reference of 10:00+03:00 compares as 10:00 against record dates.
func wallClock(t time.Time) time.Time {
	return civil.DateTimeOf(t).In(time.UTC)
}

// elapsedDays returns the whole days from d (at midnight) to ref, rounded
// towards negative infinity.
func elapsedDays(ref time.Time, d civil.Date) int {
	delta := wallClock(ref).Sub(d.In(time.UTC))
	days := int(delta / day)
	if delta%day < 0 {
		days--
	}
	return days
}
