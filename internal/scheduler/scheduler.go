package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/oreka/backend/internal/config"
	"github.com/oreka/backend/internal/domain/models"
	"github.com/oreka/backend/internal/repository"
	"github.com/oreka/backend/internal/service/reporting"
)

// Scheduler runs the nightly summary snapshot job. Snapshots are a
// dated audit trail of the projection; the live dashboard never reads
// them.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc reporting.Projector
	snapshots    repository.SnapshotSink
	cfg          config.ReportingConfig
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.ReportingConfig, reportingSvc reporting.Projector, snapshots repository.SnapshotSink, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []cron.Option{}
	if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
		opts = append(opts, cron.WithLocation(loc))
	} else {
		logger.Warn("unknown timezone, scheduling in local time", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	return &Scheduler{
		cron:         cron.New(opts...),
		reportingSvc: reportingSvc,
		snapshots:    snapshots,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.saveSummarySnapshot); err != nil {
		s.logger.Error("failed to schedule summary snapshot", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) saveSummarySnapshot() {
	s.logger.Info("saving summary snapshot")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dashboard, err := s.reportingSvc.ProjectDashboard(ctx)
	if err != nil {
		s.logger.Error("failed to project dashboard for snapshot", zap.Error(err))
		return
	}

	now := time.Now()
	snapshot := models.SummarySnapshot{
		Date:      now.Truncate(24 * time.Hour),
		Summary:   dashboard.Summary,
		FileCount: len(dashboard.AllFiles),
		CreatedAt: now,
	}

	if err := s.snapshots.SaveSnapshot(ctx, snapshot); err != nil {
		s.logger.Error("failed to save summary snapshot", zap.Error(err))
		return
	}
	s.logger.Info("summary snapshot saved",
		zap.Int("receipt_count", snapshot.Summary.ReceiptCount),
		zap.Int("file_count", snapshot.FileCount))
}
