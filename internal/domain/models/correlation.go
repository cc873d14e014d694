package models

// CorrelationResult relates two metrics over an aligned window.
// Insufficient is set with Reason when fewer than two aligned points exist.
type CorrelationResult struct {
	Metric1      string
	Metric2      string
	Days         int
	Coefficient  float64 // Pearson r
	Strength     string  // Strong, Moderate, Weak, Very Weak/None
	Emoji        string
	Direction    string // positive, negative
	DataPoints   int
	Stats1       MetricStats
	Stats2       MetricStats
	Insufficient bool
	Reason       string
}

// MetricStats summarize one side of a correlation.
type MetricStats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}
