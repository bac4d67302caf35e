// Package notice carries transient user-facing messages from operations to
// whatever surface displays them.
package notice

import "log/slog"

// Level of a notice.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a short-lived message for the user.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
	Folder  string `json:"folder,omitempty"`
}

// Notifier displays notices.
type Notifier interface {
	Notify(n Notice)
}

// Func adapts a function to Notifier.
type Func func(Notice)

// Notify calls f(n).
func (f Func) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Notifier = Func(func(Notice) {})

// Multi fans a notice out to several notifiers.
func Multi(ns ...Notifier) Notifier {
	return Func(func(n Notice) {
		for _, x := range ns {
			if x != nil {
				x.Notify(n)
			}
		}
	})
}

// Logger writes notices to a structured logger.
func Logger(logger *slog.Logger) Notifier {
	return Func(func(n Notice) {
		logger.Info("notice",
			slog.String("level", string(n.Level)),
			slog.String("folder", n.Folder),
			slog.String("message", n.Message))
	})
}
