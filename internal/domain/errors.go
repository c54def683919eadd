package domain

import "errors"

// Common domain errors.
var (
	ErrTimerRunning  = errors.New("timer is running")
	ErrUnknownFormat = errors.New("unknown export format")
	ErrNoLaps        = errors.New("no laps recorded")

	ErrSecondsOutOfRange = errors.New("seconds out of range")
)
