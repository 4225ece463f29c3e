// File: internal/notify/notifier.go
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Severity of a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Toast is a transient on-screen message conveying an operation outcome.
type Toast struct {
	Severity Severity
	Heading  string
	Message  string
}

// Notifier is a presentation-only sink for operation outcomes. The core emits
// toasts but does not depend on their rendering.
type Notifier interface {
	Show(severity Severity, heading, message string)
}

// ZapNotifier writes toasts to the application log. It stands in for the
// rendering surface when the core runs headless.
type ZapNotifier struct {
	logger *zap.Logger
}

func NewZapNotifier(logger *zap.Logger) *ZapNotifier {
	return &ZapNotifier{logger: logger.Named("Toast")}
}

func (n *ZapNotifier) Show(severity Severity, heading, message string) {
	fields := []zap.Field{
		zap.String("heading", heading),
		zap.String("message", message),
	}
	switch severity {
	case SeverityError:
		n.logger.Warn("toast", fields...)
	default:
		n.logger.Info("toast", fields...)
	}
}

// Recorder collects toasts for inspection in tests.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Show(severity Severity, heading, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, Toast{Severity: severity, Heading: heading, Message: message})
}

// Toasts returns a copy of everything shown so far.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Toast, len(r.toasts))
	copy(out, r.toasts)
	return out
}
