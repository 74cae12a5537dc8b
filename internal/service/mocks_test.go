package service

import (
	"context"

	"github.com/portfolio/backend/internal/mailer"
)

// ---------------------------------------------------------------------------
// Mock mailer.Sender
// ---------------------------------------------------------------------------

type mockSender struct {
	sendFunc func(ctx context.Context, email *mailer.Email) error
}

func (m *mockSender) Send(ctx context.Context, email *mailer.Email) error {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, email)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mock repository.DocumentStore
// ---------------------------------------------------------------------------

type mockDocumentStore struct {
	createDocumentFunc  func(ctx context.Context, collection string, doc any) (string, error)
	initialized         bool
	listCollectionsFunc func(ctx context.Context, limit int) ([]string, error)
	pingFunc            func(ctx context.Context) error
}

func (m *mockDocumentStore) CreateDocument(ctx context.Context, collection string, doc any) (string, error) {
	if m.createDocumentFunc != nil {
		return m.createDocumentFunc(ctx, collection, doc)
	}
	return "lead-1", nil
}

func (m *mockDocumentStore) Initialized() bool { return m.initialized }

func (m *mockDocumentStore) Name() string { return "portfolio" }

func (m *mockDocumentStore) ListCollections(ctx context.Context, limit int) ([]string, error) {
	if m.listCollectionsFunc != nil {
		return m.listCollectionsFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockDocumentStore) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}
