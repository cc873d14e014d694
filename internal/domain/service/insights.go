package service

import (
	"HealthPull/internal/domain/models"
)

// AnomalyDetector flags unusual values against a rolling window.
type AnomalyDetector interface {
	SleepAnomalies(current models.SleepRecord, window []models.SleepRecord) []models.AnomalySignal
	ReadinessAnomalies(current models.ReadinessRecord, window []models.ReadinessRecord) []models.AnomalySignal
	ConsecutiveDecline(values []float64, days int) *models.DeclineSignal
	Report(anomalies []models.AnomalySignal) string
}

// RecoveryScorer produces the composite recovery state and training verdicts.
type RecoveryScorer interface {
	State(readiness, hrvBalance int, restingHRDeviation float64, sleepScore, temperatureScore int) models.RecoveryState
	TrainingReadiness(readiness int, state models.RecoveryState, trainingType string) models.TrainingAssessment
}

// IllnessDetector scores early-illness risk from multi-channel deviations.
type IllnessDetector interface {
	Detect(readiness []models.ReadinessRecord, sleep []models.SleepRecord) models.IllnessAssessment
	Report(a models.IllnessAssessment) string
}

// AlertEvaluator runs the threshold rule set over lookback windows.
type AlertEvaluator interface {
	CheckAll(sleep []models.SleepRecord, readiness []models.ReadinessRecord, activity []models.ActivityRecord) []models.HealthAlert
	Report(alerts []models.HealthAlert) string
}

// AlertEvaluatorFactory builds an evaluator scaled to a personal sleep need.
// Thresholds are cached at construction, so one instance per evaluation.
type AlertEvaluatorFactory func(personalSleepNeed float64) AlertEvaluator

// SleepDebtAnalyzer estimates personal sleep need and tracks debt.
type SleepDebtAnalyzer interface {
	EstimateSleepNeed(sleep []models.SleepRecord, readiness []models.ReadinessRecord) models.SleepNeedEstimate
	AnalyzeDebt(sleep []models.SleepRecord, readiness []models.ReadinessRecord, lookbackDays int) models.SleepDebtAnalysis
	EfficiencyDebt(sleep []models.SleepRecord) models.EfficiencyDebt
	Report(sleep []models.SleepRecord, readiness []models.ReadinessRecord, lookbackDays int) string
}

// Correlator computes Pearson correlations between two named metrics.
type Correlator interface {
	Correlate(sleep []models.SleepRecord, readiness []models.ReadinessRecord, activity []models.ActivityRecord, metric1, metric2 string, days int) models.CorrelationResult
	Report(r models.CorrelationResult) string
}
