// Package mail implements the fire-and-forget notifier: a worker pool that
// delivers emails off the request path. Enqueueing never blocks the caller
// and delivery failures are logged and counted, never surfaced.
package mail

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/chatterbox/auth-service/internal/api/metrics"
	"github.com/chatterbox/auth-service/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Notification kinds, shared with the emails_* metric labels.
const (
	KindActivation      = "activation"
	KindPasswordReset   = "password_reset"
	KindUnusualActivity = "unusual_activity"
)

type job struct {
	kind  string
	email Email
}

// Dispatcher implements ports.Notifier over a buffered channel and a fixed
// worker pool. When the buffer is full the job is dropped and counted as a
// failure; the auth flow must never wait on email delivery.
type Dispatcher struct {
	jobs      chan job
	workers   int
	sender    Sender
	clientURL string
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers delivery workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender Sender, clientURL string, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &Dispatcher{
		jobs:      make(chan job, channelBuffer),
		workers:   numWorkers,
		sender:    sender,
		clientURL: clientURL,
		log:       log,
	}
}

// Start launches the worker goroutines. Workers stop when ctx is cancelled
// or the queue is closed by Stop.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.runWorker(ctx, i)
	}
}

// Stop closes the queue and waits for the workers to drain it.
func (d *Dispatcher) Stop() {
	close(d.jobs)
	d.wg.Wait()
}

// ActivationEmail enqueues the account-activation email.
func (d *Dispatcher) ActivationEmail(user *domain.User, token string) {
	email, err := activationEmail(d.clientURL, user.Username, user.Email, token)
	d.enqueue(KindActivation, user.Username, email, err)
}

// PasswordResetEmail enqueues the password-reset email.
func (d *Dispatcher) PasswordResetEmail(user *domain.User, token string) {
	email, err := passwordResetEmail(d.clientURL, user.Username, user.Email, token)
	d.enqueue(KindPasswordReset, user.Username, email, err)
}

// UnusualActivityEmail enqueues the stolen-token warning email.
func (d *Dispatcher) UnusualActivityEmail(user *domain.User, ip, userAgent string) {
	email, err := unusualActivityEmail(user.Username, user.Email, ip, userAgent)
	d.enqueue(KindUnusualActivity, user.Username, email, err)
}

func (d *Dispatcher) enqueue(kind, username string, email Email, err error) {
	if err != nil {
		metrics.EmailsFailedTotal.WithLabelValues(kind).Inc()
		d.log.Error().Err(err).Str("kind", kind).Str("username", username).Msg("email render failed")
		return
	}

	select {
	case d.jobs <- job{kind: kind, email: email}:
		metrics.EmailsEnqueuedTotal.WithLabelValues(kind).Inc()
	default:
		metrics.EmailsFailedTotal.WithLabelValues(kind).Inc()
		d.log.Error().Str("kind", kind).Str("username", username).Msg("email queue full, dropping")
	}
}

func (d *Dispatcher) runWorker(ctx context.Context, id int) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-d.jobs:
			if !ok {
				return
			}
			if err := d.sender.Send(j.email); err != nil {
				metrics.EmailsFailedTotal.WithLabelValues(j.kind).Inc()
				d.log.Error().Err(err).
					Str("kind", j.kind).
					Int("worker_id", id).
					Msg("email delivery failed")
			}
		}
	}
}
