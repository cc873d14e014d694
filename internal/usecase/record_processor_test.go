package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"HealthPull/internal/domain/models"
)

type fakePublisher struct {
	mu      sync.Mutex
	batches []*models.RecordBatch
	alerts  [][]models.HealthAlert
	err     error
	closed  bool
}

func (f *fakePublisher) PublishRecords(_ context.Context, b *models.RecordBatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, b)
	return nil
}

func (f *fakePublisher) PublishAlerts(_ context.Context, alerts []models.HealthAlert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.alerts = append(f.alerts, alerts)
	return nil
}

func (f *fakePublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

type fakeStore struct {
	mu        sync.Mutex
	sleep     []models.SleepRecord
	readiness []models.ReadinessRecord
	activity  []models.ActivityRecord
	err       error
	closed    bool
}

func (f *fakeStore) Init(context.Context) error   { return nil }
func (f *fakeStore) Health(context.Context) error { return f.err }
func (f *fakeStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeStore) StoreSleep(_ context.Context, records []models.SleepRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sleep = append(f.sleep, records...)
	return nil
}

func (f *fakeStore) StoreReadiness(_ context.Context, records []models.ReadinessRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.readiness = append(f.readiness, records...)
	return nil
}

func (f *fakeStore) StoreActivity(_ context.Context, records []models.ActivityRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.activity = append(f.activity, records...)
	return nil
}

func (f *fakeStore) QuerySleep(context.Context, time.Time, time.Time) ([]models.SleepRecord, error) {
	return f.sleep, f.err
}
func (f *fakeStore) QueryReadiness(context.Context, time.Time, time.Time) ([]models.ReadinessRecord, error) {
	return f.readiness, f.err
}
func (f *fakeStore) QueryActivity(context.Context, time.Time, time.Time) ([]models.ActivityRecord, error) {
	return f.activity, f.err
}

type metricsSpy struct {
	mu     sync.Mutex
	sent   map[string]int
	errs   map[string]int
	scores map[string]float64
}

func newMetricsSpy() *metricsSpy {
	return &metricsSpy{sent: map[string]int{}, errs: map[string]int{}, scores: map[string]float64{}}
}

func (m *metricsSpy) RecordMessageSent(backend, family string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent[backend+":"+family]++
}

func (m *metricsSpy) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[kind]++
}

func (m *metricsSpy) RecordLastScore(family string, score float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[family] = score
}

func (m *metricsSpy) RecordLatency(string, float64) {}

func intp(v int) *int { return &v }

func testBatch() *models.RecordBatch {
	return &models.RecordBatch{
		Sleep:     []models.SleepRecord{{Day: "2024-05-01", Score: intp(82)}},
		Readiness: []models.ReadinessRecord{{Day: "2024-05-01", Score: intp(75)}},
	}
}

func TestProcessRoutesToKafka(t *testing.T) {
	pub := &fakePublisher{}
	store := &fakeStore{}
	m := newMetricsSpy()
	p := NewRecordProcessor(pub, store, m, "kafka")

	if err := p.Process(context.Background(), testBatch()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.batches) != 1 {
		t.Fatalf("expected 1 published batch, got %d", len(pub.batches))
	}
	if len(store.sleep) != 0 {
		t.Fatalf("store should not receive records on kafka backend")
	}
	if m.sent["kafka:sleep"] != 1 || m.sent["kafka:readiness"] != 1 {
		t.Fatalf("per-family send metrics missing: %v", m.sent)
	}
	if m.scores["sleep"] != 82 {
		t.Fatalf("last sleep score = %v, want 82", m.scores["sleep"])
	}
}

func TestProcessRoutesToClickHouse(t *testing.T) {
	pub := &fakePublisher{}
	store := &fakeStore{}
	p := NewRecordProcessor(pub, store, newMetricsSpy(), "clickhouse")

	if err := p.Process(context.Background(), testBatch()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.sleep) != 1 || len(store.readiness) != 1 {
		t.Fatalf("store records: sleep=%d readiness=%d", len(store.sleep), len(store.readiness))
	}
	if len(pub.batches) != 0 {
		t.Fatalf("publisher should not receive records on clickhouse backend")
	}
}

func TestProcessUnknownBackend(t *testing.T) {
	m := newMetricsSpy()
	p := NewRecordProcessor(&fakePublisher{}, &fakeStore{}, m, "postgres")

	if err := p.Process(context.Background(), testBatch()); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
	if m.errs["process"] != 1 {
		t.Fatalf("expected process error metric")
	}
}

func TestProcessEmptyBatchIsNoop(t *testing.T) {
	pub := &fakePublisher{}
	p := NewRecordProcessor(pub, &fakeStore{}, newMetricsSpy(), "kafka")

	if err := p.Process(context.Background(), nil); err != nil {
		t.Fatalf("nil batch: %v", err)
	}
	if err := p.Process(context.Background(), &models.RecordBatch{}); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if len(pub.batches) != 0 {
		t.Fatalf("empty batches should not be published")
	}
}

func TestCloseReleasesResources(t *testing.T) {
	pub := &fakePublisher{}
	store := &fakeStore{}
	p := NewRecordProcessor(pub, store, newMetricsSpy(), "kafka")

	p.Close()
	if !pub.closed || !store.closed {
		t.Fatalf("expected publisher and store closed")
	}
}
