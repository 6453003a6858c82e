package mailer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"blogify/internal/middleware"
	"blogify/internal/observability"
)

// DefaultSendTimeout bounds a single background delivery.
const DefaultSendTimeout = 15 * time.Second

// Dispatcher sends mail in the background so request handlers never wait on
// the provider. Failures are logged and counted, never returned.
type Dispatcher struct {
	mailer  Mailer
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDispatcher wraps m. A nil m discards every message.
func NewDispatcher(m Mailer, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return &Dispatcher{mailer: m, timeout: timeout}
}

// Dispatch queues msg for delivery. The request context's values are kept
// for logging but its cancellation is not.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) {
	if d == nil || d.mailer == nil {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if err := d.mailer.Send(sendCtx, msg); err != nil {
			observability.MailDeliveries.WithLabelValues(msg.Template, "failure").Inc()
			middleware.Logger.ErrorContext(sendCtx, "email delivery failed",
				slog.String("template", msg.Template),
				slog.String("error", err.Error()))
			return
		}
		observability.MailDeliveries.WithLabelValues(msg.Template, "success").Inc()
	}()
}

// Wait blocks until every dispatched message has been attempted.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
