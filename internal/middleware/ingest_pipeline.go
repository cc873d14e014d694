package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"HealthPull/internal/domain/models"
	domrepo "HealthPull/internal/domain/repository"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, batch *models.RecordBatch) error
}

// IngestPipeline sits between the source client and the record processor.
// It validates batches, throttles per family, and buffers when downstream
// is unavailable.
type IngestPipeline struct {
	proc     Proc
	metrics  domrepo.Metrics
	maxBPS   int
	bufSize  int
	bufCh    chan *models.RecordBatch
	stopCh   chan struct{}
	started  bool
	mu       sync.Mutex
	lastSeen map[string]time.Time // per-family last accepted time
	// optional transform hook before validation re-check
	transform func(*models.RecordBatch) *models.RecordBatch
	// metrics
	bufDepthGauge func(int)
	throttleWarn  func(string)
}

type PipelineOption func(*IngestPipeline)

// WithMaxBatchesPerSecond sets the max accepted batches per second per family.
func WithMaxBatchesPerSecond(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.maxBPS = n
		}
	}
}

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithTransform sets a transformation hook to reshape batches before routing.
func WithTransform(fn func(*models.RecordBatch) *models.RecordBatch) PipelineOption {
	return func(p *IngestPipeline) { p.transform = fn }
}

// NewIngestPipeline creates a new pipeline.
func NewIngestPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *IngestPipeline {
	p := &IngestPipeline{
		proc:     proc,
		metrics:  metrics,
		maxBPS:   10,
		bufSize:  100,
		bufCh:    make(chan *models.RecordBatch, 100),
		stopCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.RecordBatch, p.bufSize)
	}
	p.bufDepthGauge = func(n int) { p.metrics.RecordLatency("pipeline_buffer_depth", float64(n)) }
	p.throttleWarn = func(family string) { p.metrics.RecordError("pipeline_throttle_" + family) }
	return p
}

// Start launches background flushing of buffered batches.
func (p *IngestPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case b := <-p.bufCh:
				if b == nil {
					continue
				}
				if err := p.proc.Process(ctx, b); err != nil {
					// exponential backoff with cap
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- b:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *IngestPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, throttles, and forwards a batch downstream, buffering
// on errors.
func (p *IngestPipeline) Process(ctx context.Context, b *models.RecordBatch) error {
	start := time.Now()
	if err := validateBatch(b); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if p.transform != nil {
		b = p.transform(b)
		if err := validateBatch(b); err != nil {
			p.metrics.RecordError("pipeline_transform_invalid")
			return err
		}
	}
	for _, family := range batchFamilies(b) {
		if !p.allow(family, start) {
			// throttled; record and drop silently
			p.metrics.RecordError("pipeline_throttle")
			if p.throttleWarn != nil {
				p.throttleWarn(family)
			}
			return nil
		}
	}

	if err := p.proc.Process(ctx, b); err != nil {
		p.metrics.RecordError("pipeline_process")
		// buffer non-blocking
		select {
		case p.bufCh <- b:
			if p.bufDepthGauge != nil {
				p.bufDepthGauge(len(p.bufCh))
			}
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateBatch(b *models.RecordBatch) error {
	if b == nil {
		return fmt.Errorf("batch nil")
	}
	if b.Size() == 0 {
		return fmt.Errorf("batch empty")
	}
	for _, r := range b.Sleep {
		if r.Day == "" {
			return fmt.Errorf("sleep record missing day")
		}
		if r.TotalSleepSeconds < 0 || r.TimeInBedSeconds < 0 || r.BreathAverage < 0 {
			return fmt.Errorf("sleep %s: negative raw value", r.Day)
		}
	}
	for _, r := range b.Readiness {
		if r.Day == "" {
			return fmt.Errorf("readiness record missing day")
		}
	}
	for _, r := range b.Activity {
		if r.Day == "" {
			return fmt.Errorf("activity record missing day")
		}
		if r.Steps < 0 || r.TotalCalories < 0 || r.ActiveCalories < 0 {
			return fmt.Errorf("activity %s: negative raw value", r.Day)
		}
	}
	return nil
}

func batchFamilies(b *models.RecordBatch) []string {
	families := make([]string, 0, 3)
	if len(b.Sleep) > 0 {
		families = append(families, "sleep")
	}
	if len(b.Readiness) > 0 {
		families = append(families, "readiness")
	}
	if len(b.Activity) > 0 {
		families = append(families, "activity")
	}
	return families
}

func (p *IngestPipeline) allow(family string, now time.Time) bool {
	if p.maxBPS <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.lastSeen[family]
	if last.IsZero() {
		p.lastSeen[family] = now
		return true
	}
	if now.Sub(last) < time.Second/time.Duration(p.maxBPS) {
		return false
	}
	p.lastSeen[family] = now
	return true
}
