package models

// Severity ranks anomaly signals.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// AnomalySignal is one explained deviation from a personal baseline.
// BaselineMean and DeviationPct are nil for checks that do not produce
// them (the absolute temperature check, the HRV percentage).
type AnomalySignal struct {
	Metric         string
	Type           string // significant_deviation, significant_drop, increased_movement, low_hrv, temperature_deviation
	Severity       Severity
	Current        float64
	BaselineMean   *float64
	Deviation      float64
	DeviationPct   *float64
	Message        string
	PossibleCauses []string
}

// DeclineSignal reports a metric that fell strictly for N consecutive days.
// TotalDrop is newest minus oldest, so it is negative while declining.
type DeclineSignal struct {
	Type      string // consecutive_decline
	Severity  Severity
	Days      int
	TotalDrop float64
	Message   string
}
