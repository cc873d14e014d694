package models

// IllnessRiskLevel is the four-level illness risk tier.
type IllnessRiskLevel string

const (
	RiskNormal   IllnessRiskLevel = "normal"
	RiskElevated IllnessRiskLevel = "elevated"
	RiskHigh     IllnessRiskLevel = "high"
	RiskCritical IllnessRiskLevel = "critical"
)

// Illness channel identifiers. The catalogue is fixed.
const (
	ChannelTemperature     = "temperature"
	ChannelHRV             = "hrv"
	ChannelRestingHR       = "resting_hr"
	ChannelRespiratoryRate = "respiratory_rate"
	ChannelRecovery        = "recovery"
)

// IllnessSignal is one fired warning channel. Severity is 0.4, 0.7 or 1.0
// once fired; channels below the elevated band do not produce a signal.
type IllnessSignal struct {
	SignalType string
	Severity   float64
	Value      float64 // recent 3-day mean
	Baseline   float64
	Deviation  float64
	Message    string
}

// IllnessBaselines are the per-channel baseline means used for comparison.
// A nil field means the channel had no data and was skipped.
type IllnessBaselines struct {
	Temperature        *float64
	TemperatureStd     float64
	HRV                *float64
	HRVStd             float64
	RestingHR          *float64
	RestingHRStd       float64
	RespiratoryRate    *float64
	RespiratoryRateStd float64
	RecoveryScore      *float64
	RecoveryScoreStd   float64
}

// IllnessAssessment is the composite early-warning result.
// Pattern is empty when no signal fired; Err is set instead of an error
// value because insufficient data is a reportable outcome, not a failure.
type IllnessAssessment struct {
	RiskLevel      IllnessRiskLevel
	RiskScore      float64 // 0-100, weight-normalized over present channels
	Signals        []IllnessSignal
	Baselines      IllnessBaselines
	Pattern        string // classic_infection, respiratory_infection, stress_overtraining, early_infection, unknown_pattern
	Confidence     float64
	Recommendation string
	Err            string
}
