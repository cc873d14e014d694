package models

// Baseline holds rolling summary statistics for one metric over a window.
// StdDev is the sample deviation and is 0 with fewer than two samples.
type Baseline struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Count  int
}

// DeviationStatus classifies how far a value sits from its baseline.
type DeviationStatus string

const (
	DeviationUnknown  DeviationStatus = "unknown"
	DeviationNormal   DeviationStatus = "normal"
	DeviationSlight   DeviationStatus = "slightly_abnormal"
	DeviationModerate DeviationStatus = "moderately_abnormal"
	DeviationHigh     DeviationStatus = "highly_abnormal"
)

// Deviation expresses a current value against its baseline in absolute,
// percentage and std-unit terms. Numeric fields are pre-rounded for display:
// Absolute/Percent/BaselineMean to 1 decimal, StdUnits to 2.
type Deviation struct {
	Absolute       float64
	Percent        float64
	StdUnits       float64
	Status         DeviationStatus
	Interpretation string
	BaselineMean   float64
	BaselineRange  string // "min-max", only set when a baseline exists
}

// FamilyBaselines maps metric name to its baseline for one metric family.
// Metrics with zero samples are absent, never zero-filled.
type FamilyBaselines map[string]Baseline
