package service

import (
	"context"
	"fmt"
	"time"

	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/repository"
)

const (
	maxListedCollections = 10
	maxStatusErrorLength = 50
)

// DiagnosticsService reports backend and database status. It never fails:
// every problem downgrades a field of the snapshot instead.
type DiagnosticsService struct {
	store           repository.DocumentStore
	databaseURLSet  bool
	databaseNameSet bool
	timeout         time.Duration
}

// NewDiagnosticsService creates a DiagnosticsService. store is nil when no
// database client could be obtained.
func NewDiagnosticsService(store repository.DocumentStore, cfg config.DatabaseConfig) *DiagnosticsService {
	return &DiagnosticsService{
		store:           store,
		databaseURLSet:  cfg.URL != "",
		databaseNameSet: cfg.Name != "",
		timeout:         cfg.Timeout,
	}
}

// Diagnose builds a fresh snapshot.
func (s *DiagnosticsService) Diagnose(ctx context.Context) model.DiagnosticsSnapshot {
	snap := model.DiagnosticsSnapshot{
		Backend:          model.StatusBackendRunning,
		Database:         model.StatusDatabaseNotAvailable,
		ConnectionStatus: model.ConnectionNotConnected,
		Collections:      []string{},
	}

	s.checkDatabase(ctx, &snap)

	snap.DatabaseURL = envFlag(s.databaseURLSet)
	snap.DatabaseName = envFlag(s.databaseNameSet)
	return snap
}

func (s *DiagnosticsService) checkDatabase(ctx context.Context, snap *model.DiagnosticsSnapshot) {
	defer func() {
		if p := recover(); p != nil {
			snap.Database = fmt.Sprintf(model.StatusDatabaseErrorFmt, model.Truncate(fmt.Sprint(p), maxStatusErrorLength))
		}
	}()

	if s.store == nil {
		return
	}
	if !s.store.Initialized() {
		snap.Database = model.StatusDatabaseNotInit
		return
	}
	snap.Database = model.StatusDatabaseAvailable
	snap.ConnectionStatus = model.ConnectionConnected

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	names, err := s.store.ListCollections(ctx, maxListedCollections)
	if err != nil {
		snap.Database = fmt.Sprintf(model.StatusDatabaseListErrorFmt, model.Truncate(err.Error(), maxStatusErrorLength))
		return
	}
	if len(names) > maxListedCollections {
		names = names[:maxListedCollections]
	}
	if names != nil {
		snap.Collections = names
	}
	snap.Database = model.StatusDatabaseWorking
}

func envFlag(set bool) string {
	if set {
		return model.EnvSet
	}
	return model.EnvNotSet
}
