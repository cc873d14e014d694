package usecase

import (
	"context"
	"fmt"

	"HealthPull/internal/domain/models"
	domrepo "HealthPull/internal/domain/repository"
	domsvc "HealthPull/internal/domain/service"
	"HealthPull/internal/services/baseline"
	"HealthPull/internal/services/stats"
)

// AlertSink receives triggered alerts for live delivery (WebSocket hub).
type AlertSink interface {
	BroadcastAlerts(alerts []models.HealthAlert)
}

// InsightAggregator loads record windows from the store and runs the
// insight engines over them.
type InsightAggregator struct {
	window   domrepo.RecordWindow
	anomaly  domsvc.AnomalyDetector
	recovery domsvc.RecoveryScorer
	illness  domsvc.IllnessDetector
	alerts   domsvc.AlertEvaluatorFactory
	debt     domsvc.SleepDebtAnalyzer
	corr     domsvc.Correlator

	pub  domrepo.Publisher // optional alert-event topic
	sink AlertSink         // optional live broadcast

	// configured sleep need in hours; 0 means estimate per evaluation
	sleepNeedOverride float64
}

func NewInsightAggregator(
	window domrepo.RecordWindow,
	anomaly domsvc.AnomalyDetector,
	recovery domsvc.RecoveryScorer,
	illness domsvc.IllnessDetector,
	alerts domsvc.AlertEvaluatorFactory,
	debt domsvc.SleepDebtAnalyzer,
	corr domsvc.Correlator,
) *InsightAggregator {
	return &InsightAggregator{
		window:   window,
		anomaly:  anomaly,
		recovery: recovery,
		illness:  illness,
		alerts:   alerts,
		debt:     debt,
		corr:     corr,
	}
}

// SetAlertPublisher enables publishing triggered alerts to the events topic.
func (a *InsightAggregator) SetAlertPublisher(pub domrepo.Publisher) { a.pub = pub }

// SetAlertSink enables live alert broadcast.
func (a *InsightAggregator) SetAlertSink(sink AlertSink) { a.sink = sink }

// SetSleepNeedOverride pins the personal sleep need instead of estimating it.
func (a *InsightAggregator) SetSleepNeedOverride(hours float64) { a.sleepNeedOverride = hours }

// Baselines computes per-metric baselines over the family window.
func (a *InsightAggregator) Baselines(ctx context.Context, family domrepo.MetricFamily, days int) (models.FamilyBaselines, error) {
	switch family {
	case domrepo.FamilySleep:
		records, err := a.window.SleepWindow(ctx, days)
		if err != nil {
			return nil, err
		}
		return baseline.SleepBaselines(records), nil
	case domrepo.FamilyReadiness:
		records, err := a.window.ReadinessWindow(ctx, days)
		if err != nil {
			return nil, err
		}
		return baseline.ReadinessBaselines(records), nil
	case domrepo.FamilyActivity:
		records, err := a.window.ActivityWindow(ctx, days)
		if err != nil {
			return nil, err
		}
		return baseline.ActivityBaselines(records), nil
	default:
		return nil, fmt.Errorf("unknown family: %s", family)
	}
}

// Deviations interprets the latest record of a family against baselines
// built from the rest of the window. Metrics absent from the latest record
// are omitted.
func (a *InsightAggregator) Deviations(ctx context.Context, family domrepo.MetricFamily, days int) (map[string]models.Deviation, error) {
	var history, latest models.FamilyBaselines
	switch family {
	case domrepo.FamilySleep:
		records, err := a.window.SleepWindow(ctx, days)
		if err != nil {
			return nil, err
		}
		if len(records) < 2 {
			return map[string]models.Deviation{}, nil
		}
		history = baseline.SleepBaselines(records[:len(records)-1])
		latest = baseline.SleepBaselines(records[len(records)-1:])
	case domrepo.FamilyReadiness:
		records, err := a.window.ReadinessWindow(ctx, days)
		if err != nil {
			return nil, err
		}
		if len(records) < 2 {
			return map[string]models.Deviation{}, nil
		}
		history = baseline.ReadinessBaselines(records[:len(records)-1])
		latest = baseline.ReadinessBaselines(records[len(records)-1:])
	case domrepo.FamilyActivity:
		records, err := a.window.ActivityWindow(ctx, days)
		if err != nil {
			return nil, err
		}
		if len(records) < 2 {
			return map[string]models.Deviation{}, nil
		}
		history = baseline.ActivityBaselines(records[:len(records)-1])
		latest = baseline.ActivityBaselines(records[len(records)-1:])
	default:
		return nil, fmt.Errorf("unknown family: %s", family)
	}

	out := make(map[string]models.Deviation, len(latest))
	for metric, current := range latest {
		out[metric] = baseline.Interpret(current.Mean, history[metric])
	}
	return out, nil
}

// AnomalyResult bundles signals with their rendered report.
type AnomalyResult struct {
	Signals []models.AnomalySignal
	Report  string
}

// Anomalies runs sleep and readiness anomaly detection over the window,
// using the latest record of each family as "current".
func (a *InsightAggregator) Anomalies(ctx context.Context, days int) (AnomalyResult, error) {
	sleep, err := a.window.SleepWindow(ctx, days)
	if err != nil {
		return AnomalyResult{}, err
	}
	readiness, err := a.window.ReadinessWindow(ctx, days)
	if err != nil {
		return AnomalyResult{}, err
	}

	var signals []models.AnomalySignal
	if len(sleep) >= 2 {
		signals = append(signals, a.anomaly.SleepAnomalies(sleep[len(sleep)-1], sleep[:len(sleep)-1])...)
	}
	if len(readiness) >= 2 {
		signals = append(signals, a.anomaly.ReadinessAnomalies(readiness[len(readiness)-1], readiness[:len(readiness)-1])...)
	}
	return AnomalyResult{Signals: signals, Report: a.anomaly.Report(signals)}, nil
}

// Missing contributors fall back to neutral values so the composite score
// stays computable on sparse days.
const (
	defaultHRVBalance   = 50
	defaultRestingHR    = 50
	defaultTemperature  = 100
	defaultSleepScore   = 70
	defaultReadinessVal = 0
)

func orDefault(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// restingHRDeviation compares the recent-3 mean of the resting-HR
// contributor against the mean of everything before, 0 when the window is
// too short.
func restingHRDeviation(records []models.ReadinessRecord) float64 {
	var values []float64
	for _, r := range records {
		if r.Contributors.RestingHeartRate != nil {
			values = append(values, float64(*r.Contributors.RestingHeartRate))
		}
	}
	if len(values) < 4 {
		return 0
	}
	recent := values[len(values)-3:]
	rest := values[:len(values)-3]
	return stats.Mean(recent) - stats.Mean(rest)
}

func (a *InsightAggregator) recoveryInputs(ctx context.Context, days int) (readinessScore, hrv, sleepScore, temp int, rhrDev float64, err error) {
	readiness, err := a.window.ReadinessWindow(ctx, days)
	if err != nil {
		return 0, 0, 0, 0, 0, err
	}
	if len(readiness) == 0 {
		return 0, 0, 0, 0, 0, fmt.Errorf("no readiness records in window")
	}
	sleep, err := a.window.SleepWindow(ctx, days)
	if err != nil {
		return 0, 0, 0, 0, 0, err
	}

	latest := readiness[len(readiness)-1]
	readinessScore = orDefault(latest.Score, defaultReadinessVal)
	hrv = orDefault(latest.Contributors.HRVBalance, defaultHRVBalance)
	temp = orDefault(latest.Contributors.BodyTemperature, defaultTemperature)
	sleepScore = defaultSleepScore
	if len(sleep) > 0 {
		sleepScore = orDefault(sleep[len(sleep)-1].Score, defaultSleepScore)
	}
	rhrDev = restingHRDeviation(readiness)
	return readinessScore, hrv, sleepScore, temp, rhrDev, nil
}

// Recovery computes the composite recovery state from the latest records.
func (a *InsightAggregator) Recovery(ctx context.Context, days int) (models.RecoveryState, error) {
	readinessScore, hrv, sleepScore, temp, rhrDev, err := a.recoveryInputs(ctx, days)
	if err != nil {
		return models.RecoveryState{}, err
	}
	return a.recovery.State(readinessScore, hrv, rhrDev, sleepScore, temp), nil
}

// TrainingReadiness produces a go/no-go verdict for a training type.
func (a *InsightAggregator) TrainingReadiness(ctx context.Context, trainingType string, days int) (models.TrainingAssessment, error) {
	readinessScore, hrv, sleepScore, temp, rhrDev, err := a.recoveryInputs(ctx, days)
	if err != nil {
		return models.TrainingAssessment{}, err
	}
	state := a.recovery.State(readinessScore, hrv, rhrDev, sleepScore, temp)
	return a.recovery.TrainingReadiness(readinessScore, state, trainingType), nil
}

// IllnessResult bundles the assessment with its rendered report.
type IllnessResult struct {
	Assessment models.IllnessAssessment
	Report     string
}

func (a *InsightAggregator) Illness(ctx context.Context, days int) (IllnessResult, error) {
	readiness, err := a.window.ReadinessWindow(ctx, days)
	if err != nil {
		return IllnessResult{}, err
	}
	sleep, err := a.window.SleepWindow(ctx, days)
	if err != nil {
		return IllnessResult{}, err
	}
	assessment := a.illness.Detect(readiness, sleep)
	return IllnessResult{Assessment: assessment, Report: a.illness.Report(assessment)}, nil
}

// AlertsResult bundles triggered alerts with their rendered report.
type AlertsResult struct {
	Alerts []models.HealthAlert
	Report string
}

// Alerts evaluates the rule set over the lookback window. Triggered alerts
// also go to the events topic and the live sink when configured.
func (a *InsightAggregator) Alerts(ctx context.Context, days int) (AlertsResult, error) {
	sleep, err := a.window.SleepWindow(ctx, days)
	if err != nil {
		return AlertsResult{}, err
	}
	readiness, err := a.window.ReadinessWindow(ctx, days)
	if err != nil {
		return AlertsResult{}, err
	}
	activity, err := a.window.ActivityWindow(ctx, days)
	if err != nil {
		return AlertsResult{}, err
	}

	need := a.sleepNeedOverride
	if need <= 0 {
		// estimation wants more history than the alert lookback
		estSleep, estReadiness := sleep, readiness
		if days < 60 {
			if s, err := a.window.SleepWindow(ctx, 60); err == nil {
				estSleep = s
			}
			if r, err := a.window.ReadinessWindow(ctx, 60); err == nil {
				estReadiness = r
			}
		}
		need = a.debt.EstimateSleepNeed(estSleep, estReadiness).Hours
	}

	evaluator := a.alerts(need)
	triggered := evaluator.CheckAll(sleep, readiness, activity)

	if len(triggered) > 0 {
		if a.pub != nil {
			_ = a.pub.PublishAlerts(ctx, triggered)
		}
		if a.sink != nil {
			a.sink.BroadcastAlerts(triggered)
		}
	}
	return AlertsResult{Alerts: triggered, Report: evaluator.Report(triggered)}, nil
}

// SleepNeed estimates the personal sleep need from the window.
func (a *InsightAggregator) SleepNeed(ctx context.Context, days int) (models.SleepNeedEstimate, error) {
	sleep, err := a.window.SleepWindow(ctx, days)
	if err != nil {
		return models.SleepNeedEstimate{}, err
	}
	readiness, err := a.window.ReadinessWindow(ctx, days)
	if err != nil {
		return models.SleepNeedEstimate{}, err
	}
	return a.debt.EstimateSleepNeed(sleep, readiness), nil
}

// SleepDebtResult bundles debt analysis, efficiency debt and the report.
type SleepDebtResult struct {
	Analysis   models.SleepDebtAnalysis
	Efficiency models.EfficiencyDebt
	Report     string
}

func (a *InsightAggregator) SleepDebt(ctx context.Context, days int) (SleepDebtResult, error) {
	sleep, err := a.window.SleepWindow(ctx, days)
	if err != nil {
		return SleepDebtResult{}, err
	}
	readiness, err := a.window.ReadinessWindow(ctx, days)
	if err != nil {
		return SleepDebtResult{}, err
	}
	return SleepDebtResult{
		Analysis:   a.debt.AnalyzeDebt(sleep, readiness, days),
		Efficiency: a.debt.EfficiencyDebt(sleep),
		Report:     a.debt.Report(sleep, readiness, days),
	}, nil
}

// CorrelationReport bundles the correlation result with its report.
type CorrelationReport struct {
	Result models.CorrelationResult
	Report string
}

func (a *InsightAggregator) Correlate(ctx context.Context, metric1, metric2 string, days int) (CorrelationReport, error) {
	sleep, err := a.window.SleepWindow(ctx, days)
	if err != nil {
		return CorrelationReport{}, err
	}
	readiness, err := a.window.ReadinessWindow(ctx, days)
	if err != nil {
		return CorrelationReport{}, err
	}
	activity, err := a.window.ActivityWindow(ctx, days)
	if err != nil {
		return CorrelationReport{}, err
	}
	result := a.corr.Correlate(sleep, readiness, activity, metric1, metric2, days)
	return CorrelationReport{Result: result, Report: a.corr.Report(result)}, nil
}
