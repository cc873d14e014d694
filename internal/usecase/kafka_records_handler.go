package usecase

import (
	"context"
	"encoding/json"
	"time"

	"HealthPull/internal/domain/models"
	domrepo "HealthPull/internal/domain/repository"
	pkgkafka "HealthPull/pkg/kafka"
)

// KafkaRecordsHandler consumes record batches from Kafka and writes them
// to the store.
type KafkaRecordsHandler struct {
	topic   string
	store   domrepo.RecordStore
	metrics domrepo.Metrics
}

func NewKafkaRecordsHandler(topic string, store domrepo.RecordStore, metrics domrepo.Metrics) *KafkaRecordsHandler {
	return &KafkaRecordsHandler{topic: topic, store: store, metrics: metrics}
}

func (h *KafkaRecordsHandler) Topic() string { return h.topic }

// Handle unmarshals a RecordBatch envelope and stores each family.
// A decode failure is returned to the consumer, which retries and then
// routes the message to the DLQ.
func (h *KafkaRecordsHandler) Handle(ctx context.Context, b []byte) error {
	var batch models.RecordBatch
	if err := json.Unmarshal(b, &batch); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if batch.Size() == 0 {
		return nil
	}

	start := time.Now()
	if err := h.store.StoreSleep(ctx, batch.Sleep); err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	if err := h.store.StoreReadiness(ctx, batch.Readiness); err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	if err := h.store.StoreActivity(ctx, batch.Activity); err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())

	if len(batch.Sleep) > 0 {
		h.metrics.RecordMessageSent("clickhouse", "sleep")
	}
	if len(batch.Readiness) > 0 {
		h.metrics.RecordMessageSent("clickhouse", "readiness")
	}
	if len(batch.Activity) > 0 {
		h.metrics.RecordMessageSent("clickhouse", "activity")
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaRecordsHandler)(nil)
