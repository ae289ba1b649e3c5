package scheduler

import (
	"fmt"
	"time"

	"github.com/recordarr/recordarr/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Maintenance runs the fixed-period housekeeping jobs next to the recording
// loop
type Maintenance struct {
	cron      *cron.Cron
	db        *models.Database
	retention time.Duration
	logger    *logrus.Logger
}

// NewMaintenance creates the maintenance scheduler
func NewMaintenance(db *models.Database, retentionDays int, logger *logrus.Logger) *Maintenance {
	return &Maintenance{
		cron:      cron.New(),
		db:        db,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger,
	}
}

// Start starts the maintenance jobs
func (m *Maintenance) Start() error {
	m.logger.Info("Starting maintenance scheduler")

	// Every hour: prune recording history past the retention window
	_, err := m.cron.AddFunc("0 * * * *", func() {
		m.runPrune()
	})
	if err != nil {
		return fmt.Errorf("failed to add prune job: %w", err)
	}

	m.cron.Start()
	return nil
}

// Stop stops the maintenance jobs
func (m *Maintenance) Stop() {
	m.logger.Info("Stopping maintenance scheduler")
	m.cron.Stop()
}

// runPrune executes the history prune job
func (m *Maintenance) runPrune() {
	cutoff := time.Now().Add(-m.retention)

	pruned, err := m.db.PruneRecordingsBefore(cutoff)
	if err != nil {
		m.logger.WithError(err).Error("History prune failed")
		return
	}

	if pruned > 0 {
		m.logger.WithField("count", pruned).Info("Pruned recording history")
	}
}
