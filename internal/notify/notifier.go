// Package notify is the notification port used by storefront flows. The app
// renders the collected notifications as toasts.
package notify

import (
	"log/slog"
	"sync"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier receives user-facing messages.
type Notifier interface {
	Show(level Level, message string)
	Success(message string)
	Error(message string)
}

// Notification is one message as sent to the app.
type Notification struct {
	Level   Level  `json:"type"`
	Message string `json:"text"`
}

// Recorder collects notifications for a single response.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Show(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: level, Message: message})
}

func (r *Recorder) Success(message string) { r.Show(LevelSuccess, message) }
func (r *Recorder) Error(message string)   { r.Show(LevelError, message) }

// Notifications returns what has been recorded so far.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// LogNotifier writes notifications to slog.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Show(level Level, message string) {
	switch level {
	case LevelError:
		n.logger.Warn("User notified", "level", string(level), "message", message)
	default:
		n.logger.Debug("User notified", "level", string(level), "message", message)
	}
}

func (n *LogNotifier) Success(message string) { n.Show(LevelSuccess, message) }
func (n *LogNotifier) Error(message string)   { n.Show(LevelError, message) }

// Multi fans out to several notifiers.
type Multi []Notifier

func (m Multi) Show(level Level, message string) {
	for _, n := range m {
		n.Show(level, message)
	}
}

func (m Multi) Success(message string) { m.Show(LevelSuccess, message) }
func (m Multi) Error(message string)   { m.Show(LevelError, message) }

// Discard drops everything.
type Discard struct{}

func (Discard) Show(Level, string) {}
func (Discard) Success(string)     {}
func (Discard) Error(string)       {}
