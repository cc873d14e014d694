package repository

import (
	"context"

	"HealthPull/internal/domain/models"
)

// MetricFamily identifies a daily record family.
type MetricFamily string

const (
	FamilySleep     MetricFamily = "sleep"
	FamilyReadiness MetricFamily = "readiness"
	FamilyActivity  MetricFamily = "activity"
)

// RecordWindow provides read-only windowed access to archived records for
// the insight engines. Records come back ordered by day ascending; a window
// shorter than days is not an error.
type RecordWindow interface {
	SleepWindow(ctx context.Context, days int) ([]models.SleepRecord, error)
	ReadinessWindow(ctx context.Context, days int) ([]models.ReadinessRecord, error)
	ActivityWindow(ctx context.Context, days int) ([]models.ActivityRecord, error)
}
