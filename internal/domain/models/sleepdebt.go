package models

// Sleep debt analysis statuses.
const (
	DebtStatusNoData           = "no_data"
	DebtStatusNoEfficiencyData = "no_efficiency_data"
	DebtStatusCalculated       = "calculated"
)

// Sleep need detection methods, ordered from most to least accurate.
const (
	NeedMethodReadiness  = "readiness_correlation"
	NeedMethodSleepScore = "sleep_score_correlation"
	NeedMethodPercentile = "duration_percentile"
	NeedMethodDefault    = "fallback_default"
	NeedMethodNightOwl   = "fallback_night_owl"
	NeedMethodUser       = "user_specified"
)

type SleepNeedEstimate struct {
	Hours  float64
	Method string
}

// DebtDay is one step of the accumulation walk. Deficit is signed:
// negative means the night added debt, positive means surplus.
type DebtDay struct {
	Day             string
	SleepHours      float64
	Deficit         float64
	AccumulatedDebt float64
}

type DebtSeverity struct {
	Level       string // "minimal", "mild", "moderate", "elevated", "severe", "critical"
	Emoji       string
	Description string
	Impact      string
}

type SleepDebtAnalysis struct {
	TotalDebtHours       float64
	AvgDailyDeficitHours float64
	DaysAnalyzed         int
	DaysInDebt           int
	DaysSurplus          int
	Severity             DebtSeverity
	RecoveryDaysEstimate int
	DebtOverTime         []DebtDay
	OptimalSleepHours    float64
	PersonalTargetUsed   bool
	DetectionMethod      string
	Status               string
}

type EfficiencyDebt struct {
	AvgEfficiency        float64
	QualityDebtHours     float64
	NightsPoorEfficiency int
	Status               string
}
