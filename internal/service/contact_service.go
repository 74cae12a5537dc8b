package service

import (
	"context"

	"github.com/portfolio/backend/internal/model"
)

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit notifies the site owner about sub and records a lead. The returned
	// outcome reflects email delivery only; persistence never changes it.
	Submit(ctx context.Context, sub model.ContactSubmission) model.DeliveryOutcome
}
