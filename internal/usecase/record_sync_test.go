package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"HealthPull/internal/domain/models"
	mid "HealthPull/internal/middleware"
)

type fakeSource struct {
	sleep     []models.SleepRecord
	readiness []models.ReadinessRecord
	activity  []models.ActivityRecord
	sleepErr  error
}

func (f *fakeSource) FetchSleep(context.Context, time.Time, time.Time) ([]models.SleepRecord, error) {
	return f.sleep, f.sleepErr
}

func (f *fakeSource) FetchReadiness(context.Context, time.Time, time.Time) ([]models.ReadinessRecord, error) {
	return f.readiness, nil
}

func (f *fakeSource) FetchActivity(context.Context, time.Time, time.Time) ([]models.ActivityRecord, error) {
	return f.activity, nil
}

func (f *fakeSource) PersonalInfo(context.Context) (models.PersonalInfo, error) {
	return models.PersonalInfo{}, nil
}

type captureProc struct {
	mu      sync.Mutex
	batches []*models.RecordBatch
}

func (c *captureProc) Process(_ context.Context, b *models.RecordBatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, b)
	return nil
}

type patternSpy struct {
	patterns []string
	err      error
}

func (p *patternSpy) DeleteByPattern(_ context.Context, pattern string) error {
	p.patterns = append(p.patterns, pattern)
	return p.err
}

func syncWindowDates() (time.Time, time.Time) {
	end := time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC)
	return end.AddDate(0, 0, -7), end
}

func TestSyncRoutesFamilyBatches(t *testing.T) {
	src := &fakeSource{
		sleep:     []models.SleepRecord{{Day: "2024-05-01"}},
		readiness: []models.ReadinessRecord{{Day: "2024-05-01"}},
	}
	proc := &captureProc{}
	pipe := mid.NewIngestPipeline(proc, newMetricsSpy(), mid.WithMaxBatchesPerSecond(1000))
	s := NewRecordSync(src, pipe, newMetricsSpy())

	start, end := syncWindowDates()
	if err := s.Sync(context.Background(), start, end); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// empty activity batch is skipped
	if len(proc.batches) != 2 {
		t.Fatalf("expected 2 family batches, got %d", len(proc.batches))
	}

	last, lastErr := s.LastSync()
	if last.IsZero() || lastErr != nil {
		t.Fatalf("last sync not recorded: %v %v", last, lastErr)
	}
}

func TestSyncFetchErrorAborts(t *testing.T) {
	src := &fakeSource{sleepErr: errors.New("api down")}
	proc := &captureProc{}
	pipe := mid.NewIngestPipeline(proc, newMetricsSpy())
	m := newMetricsSpy()
	s := NewRecordSync(src, pipe, m)

	start, end := syncWindowDates()
	if err := s.Sync(context.Background(), start, end); err == nil {
		t.Fatalf("expected fetch error")
	}
	if len(proc.batches) != 0 {
		t.Fatalf("failed fetch must not reach pipeline")
	}
	if m.errs["sync_fetch_sleep"] != 1 {
		t.Fatalf("expected sync_fetch_sleep metric, got %v", m.errs)
	}
	if _, lastErr := s.LastSync(); lastErr == nil {
		t.Fatalf("last error not recorded")
	}
}

func TestSyncInvalidatesInsightCache(t *testing.T) {
	src := &fakeSource{sleep: []models.SleepRecord{{Day: "2024-05-01"}}}
	pipe := mid.NewIngestPipeline(&captureProc{}, newMetricsSpy())
	s := NewRecordSync(src, pipe, newMetricsSpy())
	spy := &patternSpy{}
	s.SetCache(spy)

	start, end := syncWindowDates()
	if err := s.Sync(context.Background(), start, end); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spy.patterns) != 1 || spy.patterns[0] != "insights:*" {
		t.Fatalf("cache invalidation patterns = %v", spy.patterns)
	}
}

func TestSyncCacheFailureIsNonFatal(t *testing.T) {
	src := &fakeSource{sleep: []models.SleepRecord{{Day: "2024-05-01"}}}
	pipe := mid.NewIngestPipeline(&captureProc{}, newMetricsSpy())
	s := NewRecordSync(src, pipe, newMetricsSpy())
	s.SetCache(&patternSpy{err: errors.New("redis gone")})

	start, end := syncWindowDates()
	if err := s.Sync(context.Background(), start, end); err != nil {
		t.Fatalf("cache failure should not fail sync: %v", err)
	}
}
