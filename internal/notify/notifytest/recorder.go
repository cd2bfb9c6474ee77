// Package notifytest records notifications for assertions.
package notifytest

import (
	"sync"

	"git-setup/internal/notify"
)

// Level of a recorded notification.
type Level string

const (
	Info  Level = "info"
	Warn  Level = "warn"
	Error Level = "error"
)

// Notification is one recorded message.
type Notification struct {
	Level   Level
	Message string
}

// Recorder is a notify.Notifier keeping every message.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

var _ notify.Notifier = (*Recorder)(nil)

func (r *Recorder) Info(message string)  { r.add(Info, message) }
func (r *Recorder) Warn(message string)  { r.add(Warn, message) }
func (r *Recorder) Error(message string) { r.add(Error, message) }

func (r *Recorder) add(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Notification{Level: level, Message: message})
}

// All returns the notifications in order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

// Messages returns the messages recorded at level.
func (r *Recorder) Messages(level Level) []string {
	var out []string
	for _, n := range r.All() {
		if n.Level == level {
			out = append(out, n.Message)
		}
	}
	return out
}
