// Package notify delivers non-blocking user feedback (toasts).
package notify

import (
	"context"
	"sync"
)

// Kind indicates how a notification is presented.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notification is a single message shown to the user.
type Notification struct {
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

// Notifier is the single entry point for user feedback.
type Notifier interface {
	Notify(message string, kind Kind)
}

// Func adapts a function to Notifier.
type Func func(message string, kind Kind)

func (f Func) Notify(message string, kind Kind) { f(message, kind) }

// Discard drops every notification.
var Discard Notifier = Func(func(string, Kind) {})

// Recorder collects notifications until they are drained.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(message string, kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Message: message, Kind: kind})
}

// Drain returns the collected notifications and resets the recorder.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.items
	r.items = nil
	if items == nil {
		items = []Notification{}
	}
	return items
}

type ctxKey struct{}

// WithNotifier attaches n to ctx so lower layers can report to the user
// without knowing how feedback is shown.
func WithNotifier(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, ctxKey{}, n)
}

// FromContext returns the notifier attached to ctx, or Discard.
func FromContext(ctx context.Context) Notifier {
	if n, ok := ctx.Value(ctxKey{}).(Notifier); ok {
		return n
	}
	return Discard
}
