package baseline

import (
	"fmt"

	"HealthPull/internal/domain/models"
	"HealthPull/internal/services/stats"
)

// Calculate computes rolling summary statistics for one metric.
// Empty input yields a zero-valued baseline, never an error.
func Calculate(values []float64) models.Baseline {
	if len(values) == 0 {
		return models.Baseline{}
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return models.Baseline{
		Mean:   stats.Mean(values),
		StdDev: stats.StdDev(values),
		Min:    min,
		Max:    max,
		Count:  len(values),
	}
}

// SleepBaselines extracts the overall sleep score plus every sleep
// contributor from the window and returns per-metric baselines.
// Metrics with zero samples are omitted.
func SleepBaselines(records []models.SleepRecord) models.FamilyBaselines {
	byMetric := map[string][]float64{}
	for _, r := range records {
		// a score of 0 means "not scored" upstream
		if r.Score != nil && *r.Score != 0 {
			byMetric["sleep_score"] = append(byMetric["sleep_score"], float64(*r.Score))
		}
		c := r.Contributors
		appendIfPresent(byMetric, "total_sleep", c.TotalSleep)
		appendIfPresent(byMetric, "deep_sleep", c.DeepSleep)
		appendIfPresent(byMetric, "rem_sleep", c.REMSleep)
		appendIfPresent(byMetric, "efficiency", c.Efficiency)
		appendIfPresent(byMetric, "restfulness", c.Restfulness)
		appendIfPresent(byMetric, "latency", c.Latency)
		appendIfPresent(byMetric, "timing", c.Timing)
	}
	return calculateAll(byMetric)
}

// ReadinessBaselines extracts the overall readiness score plus every
// readiness contributor. Contributors are skipped only when absent,
// an explicit 0 counts.
func ReadinessBaselines(records []models.ReadinessRecord) models.FamilyBaselines {
	byMetric := map[string][]float64{}
	for _, r := range records {
		if r.Score != nil && *r.Score != 0 {
			byMetric["readiness_score"] = append(byMetric["readiness_score"], float64(*r.Score))
		}
		c := r.Contributors
		appendIfPresent(byMetric, "activity_balance", c.ActivityBalance)
		appendIfPresent(byMetric, "body_temperature", c.BodyTemperature)
		appendIfPresent(byMetric, "hrv_balance", c.HRVBalance)
		appendIfPresent(byMetric, "previous_day_activity", c.PreviousDayActivity)
		appendIfPresent(byMetric, "previous_night", c.PreviousNight)
		appendIfPresent(byMetric, "recovery_index", c.RecoveryIndex)
		appendIfPresent(byMetric, "resting_heart_rate", c.RestingHeartRate)
		appendIfPresent(byMetric, "sleep_balance", c.SleepBalance)
		appendIfPresent(byMetric, "sleep_regularity", c.SleepRegularity)
	}
	return calculateAll(byMetric)
}

// ActivityBaselines extracts the overall activity score and the raw
// movement totals. Zero raw values mean "not reported" and are skipped.
func ActivityBaselines(records []models.ActivityRecord) models.FamilyBaselines {
	byMetric := map[string][]float64{}
	for _, r := range records {
		if r.Score != nil && *r.Score != 0 {
			byMetric["activity_score"] = append(byMetric["activity_score"], float64(*r.Score))
		}
		if r.Steps != 0 {
			byMetric["steps"] = append(byMetric["steps"], float64(r.Steps))
		}
		if r.TotalCalories != 0 {
			byMetric["total_calories"] = append(byMetric["total_calories"], float64(r.TotalCalories))
		}
		if r.ActiveCalories != 0 {
			byMetric["active_calories"] = append(byMetric["active_calories"], float64(r.ActiveCalories))
		}
	}
	return calculateAll(byMetric)
}

// Interpret expresses how far a current value sits from its baseline.
// A zero-sample baseline yields status "unknown" with all numerics 0.
func Interpret(current float64, b models.Baseline) models.Deviation {
	if b.Count == 0 {
		return models.Deviation{
			Status:         models.DeviationUnknown,
			Interpretation: "No baseline data available",
		}
	}

	abs := current - b.Mean
	pct := 0.0
	if b.Mean != 0 {
		pct = abs / b.Mean * 100
	}
	std := 0.0
	if b.StdDev != 0 {
		std = abs / b.StdDev
	}

	var status models.DeviationStatus
	var interp string
	switch {
	case absF(std) < 0.5:
		status = models.DeviationNormal
		interp = "within normal range"
	case absF(std) < 1.0:
		status = models.DeviationSlight
		interp = "slightly " + direction(abs, "above", "below") + " normal"
	case absF(std) < 1.5:
		status = models.DeviationModerate
		interp = "moderately " + direction(abs, "elevated", "decreased")
	default:
		status = models.DeviationHigh
		interp = "significantly " + direction(abs, "elevated", "decreased")
	}

	return models.Deviation{
		Absolute:       stats.Round(abs, 1),
		Percent:        stats.Round(pct, 1),
		StdUnits:       stats.Round(std, 2),
		Status:         status,
		Interpretation: interp,
		BaselineMean:   stats.Round(b.Mean, 1),
		BaselineRange:  fmt.Sprintf("%g-%g", stats.Round(b.Min, 1), stats.Round(b.Max, 1)),
	}
}

func calculateAll(byMetric map[string][]float64) models.FamilyBaselines {
	out := models.FamilyBaselines{}
	for metric, values := range byMetric {
		if len(values) > 0 {
			out[metric] = Calculate(values)
		}
	}
	return out
}

func appendIfPresent(byMetric map[string][]float64, metric string, v *int) {
	if v != nil {
		byMetric[metric] = append(byMetric[metric], float64(*v))
	}
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func direction(abs float64, pos, neg string) string {
	if abs > 0 {
		return pos
	}
	return neg
}
