package models

import "time"

// DailyInsights is a consolidated view of the four daily analyses.
// Analyses that failed are nil with the cause in Errors; Errors is nil
// when every analysis succeeded.
// Note: no transport (json/http) concerns here.
type DailyInsights struct {
	Day       string
	Days      int // window length the analyses were computed over
	Timestamp time.Time
	Anomalies []AnomalySignal
	Recovery  *RecoveryState
	Illness   *IllnessAssessment
	Alerts    []HealthAlert
	SleepNeed *SleepNeedEstimate
	Errors    map[string]string
}
