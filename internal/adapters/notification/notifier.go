// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/reps/internal/config"
	"github.com/xvierd/reps/internal/domain"
)

// Notifier handles desktop notifications.
type Notifier struct {
	cfg  *config.NotificationConfig
	send func(title, message string, sound bool) error
}

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	return &Notifier{cfg: cfg, send: beeepSend}
}

func beeepSend(title, message string, sound bool) error {
	if sound {
		return beeep.Alert(title, message, "")
	}
	return beeep.Notify(title, message, "")
}

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, message string) error {
	if !n.IsEnabled() {
		return nil
	}
	return n.send(title, message, n.cfg.Sound)
}

// NotifyRunComplete announces that the last task has been lapped.
func (n *Notifier) NotifyRunComplete(snap domain.Snapshot) error {
	title := "✅ " + domain.CompletionLabel
	message := fmt.Sprintf("%d tasks in %s", len(snap.Laps), snap.Formatted)
	return n.Notify(title, message)
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}
