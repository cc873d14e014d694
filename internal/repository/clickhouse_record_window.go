package repository

import (
	"context"
	"time"

	"HealthPull/internal/domain/models"
	domrepo "HealthPull/internal/domain/repository"
	applogger "HealthPull/pkg/logger"
)

// CHRecordWindow implements RecordWindow on top of the ClickHouse store,
// translating day counts into date ranges ending today.
type CHRecordWindow struct {
	store domrepo.RecordStore
	l     *applogger.Logger
	now   func() time.Time
}

func NewCHRecordWindow(store domrepo.RecordStore) *CHRecordWindow {
	return &CHRecordWindow{store: store, now: time.Now}
}

// SetLogger injects a structured logger.
func (w *CHRecordWindow) SetLogger(l *applogger.Logger) { w.l = l }

func (w *CHRecordWindow) bounds(days int) (time.Time, time.Time) {
	to := w.now()
	from := to.AddDate(0, 0, -days)
	return from, to
}

func (w *CHRecordWindow) logWindow(family string, days, rows int, start time.Time, err error) {
	if w.l == nil {
		return
	}
	if err != nil {
		w.l.Error("clickhouse window query error",
			applogger.String("family", family),
			applogger.Int("days", days),
			applogger.Error(err),
		)
		return
	}
	w.l.Debug("clickhouse window ok",
		applogger.String("family", family),
		applogger.Int("days", days),
		applogger.Int("rows", rows),
		applogger.Duration("duration_ms", time.Since(start)),
	)
}

func (w *CHRecordWindow) SleepWindow(ctx context.Context, days int) ([]models.SleepRecord, error) {
	start := time.Now()
	from, to := w.bounds(days)
	out, err := w.store.QuerySleep(ctx, from, to)
	w.logWindow("sleep", days, len(out), start, err)
	return out, err
}

func (w *CHRecordWindow) ReadinessWindow(ctx context.Context, days int) ([]models.ReadinessRecord, error) {
	start := time.Now()
	from, to := w.bounds(days)
	out, err := w.store.QueryReadiness(ctx, from, to)
	w.logWindow("readiness", days, len(out), start, err)
	return out, err
}

func (w *CHRecordWindow) ActivityWindow(ctx context.Context, days int) ([]models.ActivityRecord, error) {
	start := time.Now()
	from, to := w.bounds(days)
	out, err := w.store.QueryActivity(ctx, from, to)
	w.logWindow("activity", days, len(out), start, err)
	return out, err
}
