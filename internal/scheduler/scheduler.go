// Package scheduler runs periodic background probes for the serving process.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/ThomasBury/AceBet/internal/artifact"
	"github.com/ThomasBury/AceBet/internal/metrics"
)

// Scheduler manages the cron-driven monitoring jobs
type Scheduler struct {
	cron      *cron.Cron
	logger    *logrus.Logger
	mu        sync.Mutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a scheduler running in UTC
func NewScheduler(logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		logger: logger,
	}
}

// ScheduleArtifactProbe registers a job that locates the current model
// artifact and publishes its age and mtime as gauges. The probe only stats
// the directory; it never decodes the artifact, so it is cheap to run often.
func (s *Scheduler) ScheduleArtifactProbe(cronExpression, modelDir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		_, modTime, err := artifact.StatCurrent(modelDir)
		if err != nil {
			s.logger.WithError(err).Warn("Artifact probe failed")
			return
		}
		metrics.ArtifactModTimeSeconds.Set(float64(modTime.Unix()))
		metrics.ArtifactAgeSeconds.Set(time.Since(modTime).Seconds())
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("schedule", cronExpression).Info("Scheduled artifact freshness probe")
	return nil
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.cron.Start()
	s.isRunning = true
}

// Stop halts scheduling and waits for running jobs to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
}
