package domain

import (
	"fmt"
	"math"
	"time"
)

// FormatElapsed renders d as MM:SS.CC. Minutes grow past two digits
// instead of wrapping into hours; negative values render as zero.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int64(d / time.Minute)
	seconds := int64(d/time.Second) % 60
	centis := int64(d%time.Second) / int64(10*time.Millisecond)
	return fmt.Sprintf("%02d:%02d.%02d", minutes, seconds, centis)
}

// SecondsToDuration converts fractional seconds to a Duration,
// truncating below the nanosecond. Negative values map to zero; NaN,
// infinities and values past the Duration range are rejected.
func SecondsToDuration(seconds float64) (time.Duration, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("%v seconds: %w", seconds, ErrSecondsOutOfRange)
	}
	if seconds <= 0 {
		return 0, nil
	}
	nanos := seconds * float64(time.Second)
	if nanos >= float64(math.MaxInt64) {
		return 0, fmt.Errorf("%v seconds: %w", seconds, ErrSecondsOutOfRange)
	}
	return time.Duration(nanos), nil
}
