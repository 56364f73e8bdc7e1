package mailer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/thecloudydeveloper/expense-tracker/internal/logging"
)

const (
	defaultQueueSize   = 64
	retryBaseDelay     = 500 * time.Millisecond
	maxDeliveryRetries = 3
)

type message struct {
	id      string
	toEmail string
	code    string
}

// Dispatcher decouples mail delivery from the request path. Enqueue never
// blocks; a single worker goroutine delivers messages with a per-send
// timeout and exponential backoff, and logs messages it ultimately fails to
// deliver. Nothing is persisted: delivery is at-most-once best effort and
// the caller may resend a code at any time.
type Dispatcher struct {
	sender      Sender
	logger      logging.Logger
	sendTimeout time.Duration
	queue       chan message
}

func NewDispatcher(sender Sender, logger logging.Logger, sendTimeout time.Duration) *Dispatcher {
	return &Dispatcher{
		sender:      sender,
		logger:      logger.With("module", "mailer"),
		sendTimeout: sendTimeout,
		queue:       make(chan message, defaultQueueSize),
	}
}

// Enqueue schedules a verification mail. If the queue is full the message is
// dropped and logged; the primary operation is never delayed or rolled back.
func (d *Dispatcher) Enqueue(ctx context.Context, toEmail, code string) {
	m := message{id: uuid.NewString(), toEmail: toEmail, code: code}
	select {
	case d.queue <- m:
		d.logger.Debug(ctx, "verification mail queued", "mail_id", m.id, "to", toEmail)
	default:
		d.logger.Error(ctx, "mail queue full, verification mail dropped", "mail_id", m.id, "to", toEmail)
	}
}

// Run delivers queued messages until ctx is cancelled, then drains whatever
// is already queued before returning.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return
		case m := <-d.queue:
			d.deliver(m)
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case m := <-d.queue:
			d.deliver(m)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(m message) {
	// Delivery keeps its own context: a cancelled server context must not
	// abort messages that are already queued.
	ctx := context.Background()

	backoff := retry.WithMaxRetries(maxDeliveryRetries, retry.NewExponential(retryBaseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
		defer cancel()

		if err := d.sender.Send(sendCtx, m.toEmail, m.code); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		d.logger.Error(ctx, "verification mail delivery failed", "mail_id", m.id, "to", m.toEmail, "error", err.Error())
		return
	}

	d.logger.Info(ctx, "verification mail delivered", "mail_id", m.id, "to", m.toEmail)
}
