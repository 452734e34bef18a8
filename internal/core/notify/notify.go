// Package notify defines user-facing status notifications.
package notify

import "time"

// Level is the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Lifetime is how long a notification of this level stays on screen.
// Unknown levels are treated as info.
func (l Level) Lifetime() time.Duration {
	switch l {
	case LevelWarning:
		return 6 * time.Second
	case LevelError:
		return 8 * time.Second
	default:
		return 4 * time.Second
	}
}

// Notification is one message shown to the user.
type Notification struct {
	Level     Level
	Message   string
	CreatedAt time.Time
}

// ExpiresAt is CreatedAt plus the level's lifetime.
func (n Notification) ExpiresAt() time.Time {
	return n.CreatedAt.Add(n.Level.Lifetime())
}
