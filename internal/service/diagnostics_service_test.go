package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/model"
)

func TestDiagnosticsService_NoStore(t *testing.T) {
	svc := NewDiagnosticsService(nil, config.DatabaseConfig{})

	snap := svc.Diagnose(context.Background())

	assert.Equal(t, model.DiagnosticsSnapshot{
		Backend:          model.StatusBackendRunning,
		Database:         model.StatusDatabaseNotAvailable,
		DatabaseURL:      model.EnvNotSet,
		DatabaseName:     model.EnvNotSet,
		ConnectionStatus: model.ConnectionNotConnected,
		Collections:      []string{},
	}, snap)
}

func TestDiagnosticsService_NotInitialized(t *testing.T) {
	svc := NewDiagnosticsService(&mockDocumentStore{}, config.DatabaseConfig{URL: "postgres://x", Name: "portfolio"})

	snap := svc.Diagnose(context.Background())

	assert.Equal(t, model.StatusDatabaseNotInit, snap.Database)
	assert.Equal(t, model.ConnectionNotConnected, snap.ConnectionStatus)
	assert.Equal(t, model.EnvSet, snap.DatabaseURL)
	assert.Equal(t, model.EnvSet, snap.DatabaseName)
	assert.Empty(t, snap.Collections)
}

func TestDiagnosticsService_Working(t *testing.T) {
	many := make([]string, 15)
	for i := range many {
		many[i] = fmt.Sprintf("c%02d", i)
	}
	var gotLimit int
	store := &mockDocumentStore{
		initialized: true,
		listCollectionsFunc: func(ctx context.Context, limit int) ([]string, error) {
			gotLimit = limit
			return many, nil
		},
	}
	svc := NewDiagnosticsService(store, config.DatabaseConfig{URL: "postgres://x", Timeout: time.Second})

	snap := svc.Diagnose(context.Background())

	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, model.StatusDatabaseWorking, snap.Database)
	assert.Equal(t, model.ConnectionConnected, snap.ConnectionStatus)
	assert.Len(t, snap.Collections, 10)
	assert.Equal(t, model.EnvNotSet, snap.DatabaseName)
}

func TestDiagnosticsService_EmptyDatabase(t *testing.T) {
	store := &mockDocumentStore{initialized: true}

	snap := NewDiagnosticsService(store, config.DatabaseConfig{}).Diagnose(context.Background())

	assert.Equal(t, model.StatusDatabaseWorking, snap.Database)
	assert.NotNil(t, snap.Collections)
	assert.Empty(t, snap.Collections)
}

func TestDiagnosticsService_ListError(t *testing.T) {
	store := &mockDocumentStore{
		initialized: true,
		listCollectionsFunc: func(ctx context.Context, limit int) ([]string, error) {
			return nil, errors.New(strings.Repeat("e", 80))
		},
	}

	snap := NewDiagnosticsService(store, config.DatabaseConfig{}).Diagnose(context.Background())

	assert.Equal(t, "⚠️ Connected but Error: "+strings.Repeat("e", 50), snap.Database)
	assert.Equal(t, model.ConnectionConnected, snap.ConnectionStatus)
	assert.Empty(t, snap.Collections)
}

func TestDiagnosticsService_RecoversPanic(t *testing.T) {
	store := &mockDocumentStore{
		initialized: true,
		listCollectionsFunc: func(ctx context.Context, limit int) ([]string, error) {
			panic("driver exploded")
		},
	}

	var snap model.DiagnosticsSnapshot
	assert.NotPanics(t, func() {
		snap = NewDiagnosticsService(store, config.DatabaseConfig{}).Diagnose(context.Background())
	})
	assert.Equal(t, "❌ Error: driver exploded", snap.Database)
	assert.Equal(t, model.StatusBackendRunning, snap.Backend)
	assert.Equal(t, model.EnvNotSet, snap.DatabaseURL)
}
