package service

import (
	"context"
	"time"

	"github.com/portfolio/backend/internal/mailer"
	"github.com/portfolio/backend/internal/model"
)

// Notifier makes one best-effort delivery attempt per call. There are no retries.
type Notifier struct {
	sender  mailer.Sender
	timeout time.Duration
}

// NewNotifier creates a Notifier. A zero timeout leaves the caller's deadline in place.
func NewNotifier(sender mailer.Sender, timeout time.Duration) *Notifier {
	return &Notifier{sender: sender, timeout: timeout}
}

// Deliver sends email and reports the outcome. It never returns an error;
// failures are described in DeliveryOutcome.Error, truncated for storage.
func (n *Notifier) Deliver(ctx context.Context, email *mailer.Email) model.DeliveryOutcome {
	if n == nil || n.sender == nil {
		return model.DeliveryOutcome{Error: "Email service is not configured on the server."}
	}

	// A client hanging up must not abort a send that is already under way.
	ctx = context.WithoutCancel(ctx)
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	if err := n.sender.Send(ctx, email); err != nil {
		return model.DeliveryOutcome{Error: model.Truncate(err.Error(), model.MaxDeliveryErrorLength)}
	}
	return model.DeliveryOutcome{Delivered: true}
}
