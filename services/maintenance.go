package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/struffoli/facecard/pkg/logging"
	"github.com/struffoli/facecard/pkg/metrics"
	"github.com/struffoli/facecard/repository"
)

// Maintenance runs periodic housekeeping on a cron schedule. Today that is
// pruning expired password reset tokens.
type Maintenance interface {
	Start() error
	Stop(ctx context.Context)
	// PruneResetTokens runs the prune job once.
	PruneResetTokens(ctx context.Context) (int64, error)
}

type maintenance struct {
	resetRepo repository.PasswordResetRepository
	schedule  string
	now       func() time.Time

	cron *cron.Cron
	mu   sync.Mutex
}

func NewMaintenance(resetRepo repository.PasswordResetRepository, schedule string) Maintenance {
	return &maintenance{
		resetRepo: resetRepo,
		schedule:  schedule,
		now:       time.Now,
	}
}

func (m *maintenance) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cron != nil {
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(m.schedule, m.runPrune); err != nil {
		return fmt.Errorf("invalid maintenance schedule %q: %w", m.schedule, err)
	}
	c.Start()
	m.cron = c

	logging.Info().Str("schedule", m.schedule).Msg("[maintenance] scheduler started")
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (m *maintenance) Stop(ctx context.Context) {
	m.mu.Lock()
	c := m.cron
	m.cron = nil
	m.mu.Unlock()

	if c == nil {
		return
	}

	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
		logging.Warn().Msg("[maintenance] job still running at shutdown")
	}
}

func (m *maintenance) PruneResetTokens(ctx context.Context) (int64, error) {
	return m.resetRepo.DeleteExpired(ctx, m.now().UTC())
}

func (m *maintenance) runPrune() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := m.PruneResetTokens(ctx)
	if err != nil {
		metrics.MaintenanceRuns.WithLabelValues("prune_reset_tokens", "error").Inc()
		logging.Error().Err(err).Msg("[maintenance] failed to prune expired reset tokens")
		return
	}

	metrics.MaintenanceRuns.WithLabelValues("prune_reset_tokens", "ok").Inc()
	logging.Info().Int64("deleted", n).Msg("[maintenance] pruned expired reset tokens")
}
