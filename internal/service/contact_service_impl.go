package service

import (
	"context"
	"log/slog"

	"github.com/portfolio/backend/internal/model"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	notifier *Notifier
	recorder *LeadRecorder
}

// NewContactService creates a ContactService that delivers through notifier
// and persists through recorder.
func NewContactService(notifier *Notifier, recorder *LeadRecorder) ContactService {
	return &contactServiceImpl{notifier: notifier, recorder: recorder}
}

// Submit delivers first, then records. The two steps are independent.
func (s *contactServiceImpl) Submit(ctx context.Context, sub model.ContactSubmission) model.DeliveryOutcome {
	outcome := s.notifier.Deliver(ctx, ComposeContactMessage(sub))
	if !outcome.Delivered {
		slog.WarnContext(ctx, "contact notification not delivered", "error", outcome.Error)
	}

	res := s.recorder.Record(ctx, sub, outcome)
	if res.Err != nil {
		slog.WarnContext(ctx, "contact lead not saved", "error", res.Err)
	} else {
		slog.InfoContext(ctx, "contact lead saved", "lead_id", res.LeadID, "delivered", outcome.Delivered)
	}

	return outcome
}
