package usecase

import (
	"context"
	"fmt"
	"time"

	"HealthPull/internal/domain/models"
	drepo "HealthPull/internal/domain/repository"
)

// RecordProcessor routes record batches to the configured backend.
type RecordProcessor struct {
	pub     drepo.Publisher
	store   drepo.RecordStore
	metrics drepo.Metrics
	backend string
}

// NewRecordProcessor creates a new RecordProcessor instance.
func NewRecordProcessor(
	pub drepo.Publisher,
	store drepo.RecordStore,
	metrics drepo.Metrics,
	backend string,
) *RecordProcessor {
	return &RecordProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
	}
}

// Process routes a single batch to the configured backend.
func (p *RecordProcessor) Process(ctx context.Context, b *models.RecordBatch) error {
	if b == nil || b.Size() == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishRecords(ctx, b)
	case "clickhouse":
		err = p.storeBatch(ctx, b)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process batch: %w", err)
	}

	p.recordSent(b)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())

	return nil
}

func (p *RecordProcessor) storeBatch(ctx context.Context, b *models.RecordBatch) error {
	if err := p.store.StoreSleep(ctx, b.Sleep); err != nil {
		return err
	}
	if err := p.store.StoreReadiness(ctx, b.Readiness); err != nil {
		return err
	}
	return p.store.StoreActivity(ctx, b.Activity)
}

func (p *RecordProcessor) recordSent(b *models.RecordBatch) {
	if len(b.Sleep) > 0 {
		p.metrics.RecordMessageSent(p.backend, "sleep")
		if last := b.Sleep[len(b.Sleep)-1]; last.Score != nil {
			p.metrics.RecordLastScore("sleep", float64(*last.Score))
		}
	}
	if len(b.Readiness) > 0 {
		p.metrics.RecordMessageSent(p.backend, "readiness")
		if last := b.Readiness[len(b.Readiness)-1]; last.Score != nil {
			p.metrics.RecordLastScore("readiness", float64(*last.Score))
		}
	}
	if len(b.Activity) > 0 {
		p.metrics.RecordMessageSent(p.backend, "activity")
		if last := b.Activity[len(b.Activity)-1]; last.Score != nil {
			p.metrics.RecordLastScore("activity", float64(*last.Score))
		}
	}
}

// Close closes underlying resources if available.
func (p *RecordProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
