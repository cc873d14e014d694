package repository

import (
	"context"
	"time"

	"HealthPull/internal/domain/models"
)

// HealthSource pulls daily records from the upstream wearable API.
type HealthSource interface {
	FetchSleep(ctx context.Context, start, end time.Time) ([]models.SleepRecord, error)
	FetchReadiness(ctx context.Context, start, end time.Time) ([]models.ReadinessRecord, error)
	FetchActivity(ctx context.Context, start, end time.Time) ([]models.ActivityRecord, error)
	PersonalInfo(ctx context.Context) (models.PersonalInfo, error)
}

type Publisher interface {
	PublishRecords(ctx context.Context, batch *models.RecordBatch) error
	PublishAlerts(ctx context.Context, alerts []models.HealthAlert) error
	Close() error
}

type RecordStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	StoreSleep(ctx context.Context, records []models.SleepRecord) error
	StoreReadiness(ctx context.Context, records []models.ReadinessRecord) error
	StoreActivity(ctx context.Context, records []models.ActivityRecord) error
	QuerySleep(ctx context.Context, from, to time.Time) ([]models.SleepRecord, error)
	QueryReadiness(ctx context.Context, from, to time.Time) ([]models.ReadinessRecord, error)
	QueryActivity(ctx context.Context, from, to time.Time) ([]models.ActivityRecord, error)
	Health(ctx context.Context) error // ping
	Close() error
}

type Metrics interface {
	RecordMessageSent(backend, family string)
	RecordError(kind string)
	RecordLastScore(family string, score float64)
	RecordLatency(op string, seconds float64)
}
