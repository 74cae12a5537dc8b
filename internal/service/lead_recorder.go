package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/repository"
)

// LeadCollection is the collection contact leads are written to.
const LeadCollection = "contactlead"

// DocumentWriter is the part of repository.DocumentStore the recorder needs.
type DocumentWriter interface {
	CreateDocument(ctx context.Context, collection string, doc any) (string, error)
}

// RecordResult is the outcome of a lead write. Callers inspect Err and decide
// what to do with it; the contact flow logs and discards it.
type RecordResult struct {
	LeadID string
	Err    error
}

// LeadRecorder persists one ContactLead per submission.
type LeadRecorder struct {
	store   DocumentWriter
	timeout time.Duration
	now     func() time.Time
}

// NewLeadRecorder creates a LeadRecorder. store may be nil when no database is
// configured; every Record then reports repository.ErrStoreUnavailable.
func NewLeadRecorder(store DocumentWriter, timeout time.Duration) *LeadRecorder {
	return &LeadRecorder{store: store, timeout: timeout, now: time.Now}
}

// Record builds a lead from sub and outcome and writes it once.
func (r *LeadRecorder) Record(ctx context.Context, sub model.ContactSubmission, outcome model.DeliveryOutcome) (res RecordResult) {
	if r == nil || r.store == nil {
		return RecordResult{Err: &repository.PersistenceError{Collection: LeadCollection, Err: repository.ErrStoreUnavailable}}
	}

	now := r.now().UTC()
	lead := &model.ContactLead{
		Name:      sub.Name,
		Email:     sub.Email,
		Message:   sub.Message,
		Delivered: outcome.Delivered,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if outcome.Error != "" {
		e := model.Truncate(outcome.Error, model.MaxDeliveryErrorLength)
		lead.Error = &e
	}

	ctx = context.WithoutCancel(ctx)
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	defer func() {
		if p := recover(); p != nil {
			res = RecordResult{Err: &repository.PersistenceError{Collection: LeadCollection, Err: fmt.Errorf("panic: %v", p)}}
		}
	}()

	id, err := r.store.CreateDocument(ctx, LeadCollection, lead)
	if err != nil {
		var perr *repository.PersistenceError
		if !errors.As(err, &perr) {
			err = &repository.PersistenceError{Collection: LeadCollection, Err: err}
		}
		return RecordResult{Err: err}
	}
	return RecordResult{LeadID: id}
}
