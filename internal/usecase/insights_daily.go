package usecase

import (
	"context"
	"sync"
	"time"

	"HealthPull/internal/domain/models"
)

// DailyInsightsUseCase fans out the daily analyses over InsightAggregator.
type DailyInsightsUseCase struct {
	agg     *InsightAggregator
	timeout time.Duration
}

func NewDailyInsightsUseCase(agg *InsightAggregator) *DailyInsightsUseCase {
	return &DailyInsightsUseCase{agg: agg, timeout: 10 * time.Second}
}

type GetDailyInsightsParams struct {
	Days int
}

func (uc *DailyInsightsUseCase) GetDailyInsights(ctx context.Context, p GetDailyInsightsParams) (*models.DailyInsights, error) {
	if p.Days <= 0 {
		p.Days = 30
	}

	// Overall timeout
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	now := time.Now()
	res := &models.DailyInsights{
		Day:       now.Format("2006-01-02"),
		Days:      p.Days,
		Timestamp: now,
		Errors:    map[string]string{},
	}

	type item struct {
		name string
		val  interface{}
		err  error
	}
	ch := make(chan item, 5)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.agg.Anomalies(ctx, p.Days)
		ch <- item{"anomalies", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.agg.Recovery(ctx, p.Days)
		ch <- item{"recovery", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.agg.Illness(ctx, p.Days)
		ch <- item{"illness", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.agg.Alerts(ctx, p.Days)
		ch <- item{"alerts", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.agg.SleepNeed(ctx, p.Days)
		ch <- item{"sleep_need", v, err}
	}()

	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		if it.err != nil {
			res.Errors[it.name] = it.err.Error()
			continue
		}
		switch it.name {
		case "anomalies":
			v := it.val.(AnomalyResult)
			res.Anomalies = v.Signals
		case "recovery":
			v := it.val.(models.RecoveryState)
			res.Recovery = &v
		case "illness":
			v := it.val.(IllnessResult)
			res.Illness = &v.Assessment
		case "alerts":
			v := it.val.(AlertsResult)
			res.Alerts = v.Alerts
		case "sleep_need":
			v := it.val.(models.SleepNeedEstimate)
			res.SleepNeed = &v
		}
	}

	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	return res, nil
}
