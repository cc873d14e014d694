package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	models "HealthPull/internal/domain/models"
	domrepo "HealthPull/internal/domain/repository"
	icache "HealthPull/internal/service/cache"
	"HealthPull/internal/service/metrics"
	"HealthPull/internal/service/ratelimit"
	"HealthPull/internal/usecase"
	xhttp "HealthPull/pkg/http"
	xlogger "HealthPull/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SyncEnqueuer schedules a background sync job. Satisfied by queue.RedisQueue.
type SyncEnqueuer interface {
	Enqueue(ctx context.Context, msgType string, payload interface{}) error
}

// InsightsEchoHandler exposes the insight, record and sync endpoints.
type InsightsEchoHandler struct {
	logger  *xlogger.Logger
	daily   *usecase.DailyInsightsUseCase
	agg     *usecase.InsightAggregator
	records *usecase.RecordsQueryUseCase
	syncer  *usecase.RecordSync
	store   domrepo.RecordStore
	hub     *AlertHub

	queue SyncEnqueuer
	cache icache.BytesCache
	rl    *ratelimit.Limiter
}

func NewInsightsEchoHandler(
	logger *xlogger.Logger,
	daily *usecase.DailyInsightsUseCase,
	agg *usecase.InsightAggregator,
	records *usecase.RecordsQueryUseCase,
	syncer *usecase.RecordSync,
	store domrepo.RecordStore,
	hub *AlertHub,
) *InsightsEchoHandler {
	metrics.Register()
	return &InsightsEchoHandler{
		logger:  logger,
		daily:   daily,
		agg:     agg,
		records: records,
		syncer:  syncer,
		store:   store,
		hub:     hub,
		rl:      ratelimit.New(),
	}
}

// SetCache enables response caching for the aggregate endpoints.
func (h *InsightsEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetSyncQueue enables asynchronous sync via the job queue.
func (h *InsightsEchoHandler) SetSyncQueue(q SyncEnqueuer) { h.queue = q }

func (h *InsightsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/ready", h.Ready)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	g := e.Group("/api")
	g.GET("/insights/daily", h.DailyInsights)
	g.GET("/baselines/:family", h.Baselines)
	g.GET("/deviations/:family", h.Deviations)
	g.GET("/anomalies", h.Anomalies)
	g.GET("/recovery", h.Recovery)
	g.GET("/readiness/training", h.TrainingReadiness)
	g.GET("/illness", h.Illness)
	g.GET("/alerts", h.Alerts)
	g.GET("/alerts/stream", h.hub.Serve)
	g.GET("/sleep/need", h.SleepNeed)
	g.GET("/sleep/debt", h.SleepDebt)
	g.GET("/correlate", h.Correlate)
	g.GET("/records/:family", h.Records)
	g.POST("/sync", h.Sync)
}

func (h *InsightsEchoHandler) observe(endpoint string, start time.Time) {
	metrics.InsightLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func (h *InsightsEchoHandler) allow(c echo.Context, endpoint string, capacity, refill float64) bool {
	if h.rl.Allow(c.RealIP()+":"+endpoint, capacity, refill) {
		return true
	}
	h.logger.Warn(endpoint+" rate_limited", xlogger.String("remote", c.RealIP()))
	return false
}

func rateLimited(c echo.Context) error {
	return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
}

func (h *InsightsEchoHandler) fail(c echo.Context, endpoint string, err error) error {
	metrics.InsightErrors.WithLabelValues(endpoint).Inc()
	h.logger.Error(endpoint+" usecase error", xlogger.Error(err))
	return xhttp.AppErrorResponse(c, err)
}

func (h *InsightsEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports store reachability and the last successful sync.
func (h *InsightsEchoHandler) Ready(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"store":  err.Error(),
		})
	}
	body := map[string]interface{}{"status": "ready"}
	if h.syncer != nil {
		last, lastErr := h.syncer.LastSync()
		if !last.IsZero() {
			body["last_sync"] = last.Format(time.RFC3339)
		}
		if lastErr != nil {
			body["last_sync_error"] = lastErr.Error()
		}
	}
	return c.JSON(http.StatusOK, body)
}

func (h *InsightsEchoHandler) DailyInsights(c echo.Context) error {
	start := time.Now()
	endpoint := "insights_daily"
	defer h.observe(endpoint, start)

	req := &models.InsightsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint, 5, 2) {
		return rateLimited(c)
	}

	cacheKey := fmt.Sprintf("insights:daily:%d", req.Days)
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			h.logger.Warn(endpoint+" cache_get_error", xlogger.Error(err))
		} else if ok {
			h.logger.Debug(endpoint+" cache_hit", xlogger.String("key", cacheKey))
			return c.JSONBlob(http.StatusOK, b)
		}
	}

	res, err := h.daily.GetDailyInsights(c.Request().Context(), usecase.GetDailyInsightsParams{Days: req.Days})
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	if h.cache != nil {
		if b, err := json.Marshal(res); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, 5*time.Minute); err != nil {
				h.logger.Warn(endpoint+" cache_set_error", xlogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *InsightsEchoHandler) Baselines(c echo.Context) error {
	start := time.Now()
	endpoint := "baselines"
	defer h.observe(endpoint, start)

	req := &models.BaselinesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	family := domrepo.NormalizeFamily(req.Family)

	res, err := h.agg.Baselines(c.Request().Context(), family, req.Days)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *InsightsEchoHandler) Deviations(c echo.Context) error {
	start := time.Now()
	endpoint := "deviations"
	defer h.observe(endpoint, start)

	req := &models.BaselinesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	family := domrepo.NormalizeFamily(req.Family)

	res, err := h.agg.Deviations(c.Request().Context(), family, req.Days)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *InsightsEchoHandler) Anomalies(c echo.Context) error {
	start := time.Now()
	endpoint := "anomalies"
	defer h.observe(endpoint, start)

	req := &models.AnomaliesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint, 3, 1) {
		return rateLimited(c)
	}

	res, err := h.agg.Anomalies(c.Request().Context(), req.Days)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *InsightsEchoHandler) Recovery(c echo.Context) error {
	start := time.Now()
	endpoint := "recovery"
	defer h.observe(endpoint, start)

	req := &models.RecoveryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.agg.Recovery(c.Request().Context(), req.Days)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *InsightsEchoHandler) TrainingReadiness(c echo.Context) error {
	start := time.Now()
	endpoint := "training_readiness"
	defer h.observe(endpoint, start)

	req := &models.TrainingReadinessRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.agg.TrainingReadiness(c.Request().Context(), req.Type, req.Days)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *InsightsEchoHandler) Illness(c echo.Context) error {
	start := time.Now()
	endpoint := "illness"
	defer h.observe(endpoint, start)

	req := &models.IllnessRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.agg.Illness(c.Request().Context(), req.Days)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *InsightsEchoHandler) Alerts(c echo.Context) error {
	start := time.Now()
	endpoint := "alerts"
	defer h.observe(endpoint, start)

	req := &models.AlertsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint, 3, 1) {
		return rateLimited(c)
	}

	res, err := h.agg.Alerts(c.Request().Context(), req.Days)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *InsightsEchoHandler) SleepNeed(c echo.Context) error {
	start := time.Now()
	endpoint := "sleep_need"
	defer h.observe(endpoint, start)

	req := &models.SleepNeedRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.agg.SleepNeed(c.Request().Context(), req.Days)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *InsightsEchoHandler) SleepDebt(c echo.Context) error {
	start := time.Now()
	endpoint := "sleep_debt"
	defer h.observe(endpoint, start)

	req := &models.SleepDebtRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.agg.SleepDebt(c.Request().Context(), req.Days)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *InsightsEchoHandler) Correlate(c echo.Context) error {
	start := time.Now()
	endpoint := "correlate"
	defer h.observe(endpoint, start)

	req := &models.CorrelateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint, 5, 2) {
		return rateLimited(c)
	}

	res, err := h.agg.Correlate(c.Request().Context(), req.Metric1, req.Metric2, req.Days)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *InsightsEchoHandler) Records(c echo.Context) error {
	start := time.Now()
	endpoint := "records"
	defer h.observe(endpoint, start)

	req := &models.RecordsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.records.GetRecords(c.Request().Context(), usecase.GetRecordsParams{
		Family: domrepo.NormalizeFamily(req.Family),
		Days:   req.Days,
	})
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Sync triggers a fetch from the source. With async true the request is
// queued and 202 returned immediately.
func (h *InsightsEchoHandler) Sync(c echo.Context) error {
	start := time.Now()
	endpoint := "sync"
	defer h.observe(endpoint, start)

	req := &models.SyncRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return xhttp.BadRequestResponse(c, "invalid start_date")
	}
	to, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return xhttp.BadRequestResponse(c, "invalid end_date")
	}
	if to.Before(from) {
		return xhttp.BadRequestResponse(c, "end_date before start_date")
	}
	if !h.allow(c, endpoint, 2, 0.2) {
		return rateLimited(c)
	}

	if req.Async && h.queue != nil {
		payload := usecase.SyncJobPayload{StartDate: req.StartDate, EndDate: req.EndDate}
		if err := h.queue.Enqueue(c.Request().Context(), "records_sync", payload); err != nil {
			return h.fail(c, endpoint, err)
		}
		return xhttp.DataResponse(c, http.StatusAccepted, map[string]string{"status": "queued"})
	}

	if err := h.syncer.Sync(c.Request().Context(), from, to); err != nil {
		metrics.SyncRuns.WithLabelValues("error").Inc()
		return h.fail(c, endpoint, err)
	}
	metrics.SyncRuns.WithLabelValues("ok").Inc()
	return xhttp.SuccessResponse(c, map[string]string{
		"status":     "synced",
		"start_date": req.StartDate,
		"end_date":   req.EndDate,
	})
}
