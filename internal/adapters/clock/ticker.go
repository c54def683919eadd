// Package clock provides the wall-clock tick source for the task timer.
package clock

import (
	"sync"
	"time"

	"github.com/xvierd/reps/internal/ports"
)

// Ticker implements ports.TickSource with time.Ticker. Each tick reports
// the wall time measured since the previous one, so a slow consumer does
// not make the stopwatch drift behind the real clock.
type Ticker struct {
	now func() time.Time
}

// NewTicker creates a tick source backed by the system clock.
func NewTicker() *Ticker {
	return &Ticker{now: time.Now}
}

// Every starts a goroutine that calls fn once per interval until cancelled.
func (t *Ticker) Every(interval time.Duration, fn func(delta time.Duration)) func() {
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}

	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() { close(done) })
	}

	go func() {
		tk := time.NewTicker(interval)
		defer tk.Stop()

		last := t.now()
		for {
			select {
			case <-done:
				return
			case <-tk.C:
				select {
				case <-done:
					return
				default:
				}
				now := t.now()
				delta := now.Sub(last)
				last = now
				fn(delta)
			}
		}
	}()

	return cancel
}

// Ensure Ticker implements ports.TickSource.
var _ ports.TickSource = (*Ticker)(nil)
