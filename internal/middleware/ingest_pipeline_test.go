package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"HealthPull/internal/domain/models"
)

type fakeProc struct {
	mu      sync.Mutex
	batches []*models.RecordBatch
	err     error
}

func (f *fakeProc) Process(_ context.Context, b *models.RecordBatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, b)
	return nil
}

func (f *fakeProc) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

type fakeMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{errors: make(map[string]int)}
}

func (f *fakeMetrics) RecordMessageSent(string, string) {}
func (f *fakeMetrics) RecordError(kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[kind]++
}
func (f *fakeMetrics) RecordLastScore(string, float64) {}
func (f *fakeMetrics) RecordLatency(string, float64)   {}

func (f *fakeMetrics) errCount(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[kind]
}

func sleepBatch(day string) *models.RecordBatch {
	return &models.RecordBatch{
		Sleep: []models.SleepRecord{{Day: day, TotalSleepSeconds: 7 * 3600}},
	}
}

func TestProcessForwardsValidBatch(t *testing.T) {
	proc := &fakeProc{}
	p := NewIngestPipeline(proc, newFakeMetrics())

	if err := p.Process(context.Background(), sleepBatch("2024-05-01")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proc.count() != 1 {
		t.Fatalf("expected 1 batch downstream, got %d", proc.count())
	}
}

func TestProcessRejectsInvalidBatches(t *testing.T) {
	cases := []struct {
		name  string
		batch *models.RecordBatch
	}{
		{"nil", nil},
		{"empty", &models.RecordBatch{}},
		{"sleep missing day", &models.RecordBatch{Sleep: []models.SleepRecord{{}}}},
		{"negative sleep", &models.RecordBatch{Sleep: []models.SleepRecord{{Day: "2024-05-01", TotalSleepSeconds: -1}}}},
		{"readiness missing day", &models.RecordBatch{Readiness: []models.ReadinessRecord{{}}}},
		{"negative steps", &models.RecordBatch{Activity: []models.ActivityRecord{{Day: "2024-05-01", Steps: -5}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			proc := &fakeProc{}
			m := newFakeMetrics()
			p := NewIngestPipeline(proc, m)
			if err := p.Process(context.Background(), tc.batch); err == nil {
				t.Fatalf("expected validation error")
			}
			if proc.count() != 0 {
				t.Fatalf("invalid batch reached downstream")
			}
			if m.errCount("pipeline_validate") != 1 {
				t.Fatalf("expected pipeline_validate error metric")
			}
		})
	}
}

func TestProcessThrottlesPerFamily(t *testing.T) {
	proc := &fakeProc{}
	m := newFakeMetrics()
	p := NewIngestPipeline(proc, m, WithMaxBatchesPerSecond(1))

	if err := p.Process(context.Background(), sleepBatch("2024-05-01")); err != nil {
		t.Fatalf("first batch: %v", err)
	}
	// immediate second batch for the same family is dropped silently
	if err := p.Process(context.Background(), sleepBatch("2024-05-02")); err != nil {
		t.Fatalf("throttled batch should not error: %v", err)
	}
	if proc.count() != 1 {
		t.Fatalf("expected throttle drop, downstream got %d", proc.count())
	}
	if m.errCount("pipeline_throttle") != 1 {
		t.Fatalf("expected throttle metric")
	}

	// different family is not throttled
	rb := &models.RecordBatch{Readiness: []models.ReadinessRecord{{Day: "2024-05-01"}}}
	if err := p.Process(context.Background(), rb); err != nil {
		t.Fatalf("readiness batch: %v", err)
	}
	if proc.count() != 2 {
		t.Fatalf("expected readiness batch through, got %d", proc.count())
	}
}

func TestProcessBuffersOnDownstreamError(t *testing.T) {
	proc := &fakeProc{err: errors.New("backend down")}
	m := newFakeMetrics()
	p := NewIngestPipeline(proc, m, WithBufferSize(2))

	if err := p.Process(context.Background(), sleepBatch("2024-05-01")); err == nil {
		t.Fatalf("expected downstream error")
	}
	if len(p.bufCh) != 1 {
		t.Fatalf("expected batch buffered, depth=%d", len(p.bufCh))
	}

	// recovery: flusher drains the buffer once downstream heals
	proc.mu.Lock()
	proc.err = nil
	proc.mu.Unlock()
	p.Start(context.Background())
	defer p.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for proc.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if proc.count() != 1 {
		t.Fatalf("buffered batch never flushed")
	}
}

func TestTransformAppliedBeforeRouting(t *testing.T) {
	proc := &fakeProc{}
	p := NewIngestPipeline(proc, newFakeMetrics(), WithTransform(func(b *models.RecordBatch) *models.RecordBatch {
		for i := range b.Sleep {
			if b.Sleep[i].BreathAverage == 0 {
				b.Sleep[i].BreathAverage = 14
			}
		}
		return b
	}))

	if err := p.Process(context.Background(), sleepBatch("2024-05-01")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := proc.batches[0].Sleep[0].BreathAverage; got != 14 {
		t.Fatalf("transform not applied, breath=%v", got)
	}
}
