package models

import "time"

type AlertSeverity string

const (
	AlertInfo     AlertSeverity = "info"
	AlertWarning  AlertSeverity = "warning"
	AlertCritical AlertSeverity = "critical"
)

type AlertCategory string

const (
	AlertSleepQuality  AlertCategory = "sleep_quality"
	AlertSleepDuration AlertCategory = "sleep_duration"
	AlertSleepDebt     AlertCategory = "sleep_debt"
	AlertRecovery      AlertCategory = "recovery"
	AlertOvertraining  AlertCategory = "overtraining"
	AlertHRV           AlertCategory = "hrv"
	AlertRestingHR     AlertCategory = "resting_hr"
	AlertConsistency   AlertCategory = "consistency"
	AlertActivity      AlertCategory = "activity"
	AlertTrend         AlertCategory = "trend"
)

// HealthAlert is a single triggered rule. MetricValue and Threshold are
// optional: trend alerts carry neither, overtraining carries only the metric.
type HealthAlert struct {
	ID             string
	Category       AlertCategory
	Severity       AlertSeverity
	Title          string
	Message        string
	MetricValue    *float64
	Threshold      *float64
	Recommendation string
	CreatedAt      time.Time
}
