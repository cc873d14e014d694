package usecase

import (
	"context"
	"fmt"
	"time"

	"HealthPull/internal/service/metrics"
	applogger "HealthPull/pkg/logger"
	"HealthPull/pkg/queue"
)

// SyncJobPayload is the queue payload for background sync requests.
type SyncJobPayload struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// RecordsSyncJob processes queued sync requests. Failed runs are returned
// to the queue for retry per queue policy.
type RecordsSyncJob struct {
	syncer *RecordSync
	l      *applogger.Logger
}

func NewRecordsSyncJob(syncer *RecordSync) *RecordsSyncJob {
	return &RecordsSyncJob{syncer: syncer}
}

// SetLogger injects a structured logger.
func (j *RecordsSyncJob) SetLogger(l *applogger.Logger) { j.l = l }

func (j *RecordsSyncJob) Name() string { return "records_sync" }
func (j *RecordsSyncJob) Type() string { return "records_sync" }

func (j *RecordsSyncJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[SyncJobPayload](payload)
	if err != nil {
		return fmt.Errorf("parse sync payload: %w", err)
	}
	start, err := time.Parse("2006-01-02", p.StartDate)
	if err != nil {
		return fmt.Errorf("parse start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", p.EndDate)
	if err != nil {
		return fmt.Errorf("parse end_date: %w", err)
	}

	if err := j.syncer.Sync(ctx, start, end); err != nil {
		metrics.SyncRuns.WithLabelValues("error").Inc()
		return err
	}
	metrics.SyncRuns.WithLabelValues("ok").Inc()
	if j.l != nil {
		j.l.Info("queued sync done",
			applogger.String("start", p.StartDate),
			applogger.String("end", p.EndDate))
	}
	return nil
}

var _ queue.Job = (*RecordsSyncJob)(nil)

// SyncScheduler runs a recurring window sync.
type SyncScheduler struct {
	syncer   *RecordSync
	interval time.Duration
	window   int // days per run
	l        *applogger.Logger
	stopCh   chan struct{}
}

func NewSyncScheduler(syncer *RecordSync, interval time.Duration, windowDays int) *SyncScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if windowDays <= 0 {
		windowDays = 7
	}
	return &SyncScheduler{
		syncer:   syncer,
		interval: interval,
		window:   windowDays,
		stopCh:   make(chan struct{}),
	}
}

// SetLogger injects a structured logger.
func (s *SyncScheduler) SetLogger(l *applogger.Logger) { s.l = l }

// Start syncs once immediately, then on every tick until Stop or ctx done.
func (s *SyncScheduler) Start(ctx context.Context) {
	go func() {
		s.run(ctx)
		t := time.NewTicker(s.interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-t.C:
				s.run(ctx)
			}
		}
	}()
}

func (s *SyncScheduler) Stop() { close(s.stopCh) }

func (s *SyncScheduler) run(ctx context.Context) {
	if err := s.syncer.SyncWindow(ctx, s.window); err != nil {
		metrics.SyncRuns.WithLabelValues("error").Inc()
		if s.l != nil {
			s.l.Warn("scheduled sync failed", applogger.Error(err))
		}
		return
	}
	metrics.SyncRuns.WithLabelValues("ok").Inc()
	if s.l != nil {
		s.l.Debug("scheduled sync done", applogger.Int("window_days", s.window))
	}
}
