package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"HealthPull/internal/domain/models"
	drepo "HealthPull/internal/domain/repository"
	mid "HealthPull/internal/middleware"
	applogger "HealthPull/pkg/logger"
)

// CacheInvalidator drops cached insight payloads after new records land.
type CacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// RecordSync pulls a date window from the source and pushes it through the
// ingest pipeline. It remembers the last sync outcome for readiness checks.
type RecordSync struct {
	source  drepo.HealthSource
	pipe    *mid.IngestPipeline
	metrics drepo.Metrics
	cache   CacheInvalidator
	l       *applogger.Logger

	mu       sync.Mutex
	lastSync time.Time
	lastErr  error
}

func NewRecordSync(source drepo.HealthSource, pipe *mid.IngestPipeline, metrics drepo.Metrics) *RecordSync {
	return &RecordSync{source: source, pipe: pipe, metrics: metrics}
}

// SetCache enables insight-cache invalidation after successful syncs.
func (s *RecordSync) SetCache(c CacheInvalidator) { s.cache = c }

// SetLogger injects a structured logger.
func (s *RecordSync) SetLogger(l *applogger.Logger) { s.l = l }

// Start launches the pipeline's background flushing.
func (s *RecordSync) Start(ctx context.Context) {
	if s.pipe != nil {
		s.pipe.Start(ctx)
	}
}

// Stop stops the pipeline.
func (s *RecordSync) Stop() {
	if s.pipe != nil {
		s.pipe.Stop()
	}
}

// Sync fetches the [start, end] window for every family and routes each
// family batch through the pipeline. Partial family failures abort the sync
// so the caller can retry the whole window.
func (s *RecordSync) Sync(ctx context.Context, start, end time.Time) error {
	began := time.Now()

	sleep, err := s.source.FetchSleep(ctx, start, end)
	if err != nil {
		return s.fail("fetch_sleep", err)
	}
	readiness, err := s.source.FetchReadiness(ctx, start, end)
	if err != nil {
		return s.fail("fetch_readiness", err)
	}
	activity, err := s.source.FetchActivity(ctx, start, end)
	if err != nil {
		return s.fail("fetch_activity", err)
	}

	batches := []*models.RecordBatch{
		{Sleep: sleep},
		{Readiness: readiness},
		{Activity: activity},
	}
	for _, b := range batches {
		if b.Size() == 0 {
			continue
		}
		if err := s.pipe.Process(ctx, b); err != nil {
			return s.fail("pipeline", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "insights:*"); err != nil && s.l != nil {
			s.l.Warn("insight cache invalidation failed", applogger.Error(err))
		}
	}

	s.mu.Lock()
	s.lastSync = time.Now()
	s.lastErr = nil
	s.mu.Unlock()

	s.metrics.RecordLatency("sync", time.Since(began).Seconds())
	if s.l != nil {
		s.l.Info("records synced",
			applogger.String("start", start.Format("2006-01-02")),
			applogger.String("end", end.Format("2006-01-02")),
			applogger.Int("sleep", len(sleep)),
			applogger.Int("readiness", len(readiness)),
			applogger.Int("activity", len(activity)),
		)
	}
	return nil
}

// SyncWindow syncs the last days ending today.
func (s *RecordSync) SyncWindow(ctx context.Context, days int) error {
	if days <= 0 {
		days = 7
	}
	end := time.Now()
	return s.Sync(ctx, end.AddDate(0, 0, -days), end)
}

func (s *RecordSync) fail(stage string, err error) error {
	s.metrics.RecordError("sync_" + stage)
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	return fmt.Errorf("sync %s: %w", stage, err)
}

// LastSync reports the most recent successful sync time and the last error.
func (s *RecordSync) LastSync() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync, s.lastErr
}
