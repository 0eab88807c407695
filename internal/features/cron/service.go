package cron_feature

import (
	"context"
	"sync"
	"time"

	"space-comply/internal/features/incident"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type CronService interface {
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
}

type CronServiceImpl struct {
	incidentService incident.IncidentService
	logger          *zap.Logger

	scheduler *cron.Cron
	mu        sync.Mutex
}

func NewCronService(incidentService incident.IncidentService, logger *zap.Logger) CronService {
	return &CronServiceImpl{
		incidentService: incidentService,
		logger:          logger,
	}
}

// InitializeScheduler registers the periodic compliance sweeps and starts
// the scheduler
func (s *CronServiceImpl) InitializeScheduler(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scheduler = cron.New()

	// Incident report deadlines are measured in hours; an hourly sweep keeps
	// overdue flags close to real time without hammering the store.
	_, err := s.scheduler.AddFunc("@hourly", func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.incidentService.SweepOverdueReports(sweepCtx); err != nil {
			s.logger.Error("overdue report sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.Start()
	s.logger.Info("scheduler started")
	return nil
}

func (s *CronServiceImpl) StopScheduler() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler != nil {
		s.scheduler.Stop()
		s.logger.Info("scheduler stopped")
	}
	return nil
}
