package correlate

import (
	"fmt"
	"strings"

	"HealthPull/internal/domain/models"
	"HealthPull/internal/services/stats"
)

// Engine computes Pearson correlations between any two daily metrics,
// routing each metric name to its dataset and extracting score,
// contributor or direct fields.
type Engine struct{}

func New() *Engine { return &Engine{} }

var sleepContributorNames = map[string]bool{
	"deep_sleep": true, "rem_sleep": true, "total_sleep": true,
	"efficiency": true, "restfulness": true, "latency": true, "timing": true,
}

var readinessContributorNames = map[string]bool{
	"hrv_balance": true, "resting_heart_rate": true, "body_temperature": true,
	"activity_balance": true, "previous_day_activity": true, "previous_night": true,
	"recovery_index": true, "sleep_balance": true, "sleep_regularity": true,
}

var activityContributorNames = map[string]bool{
	"meet_daily_targets": true, "move_every_hour": true, "recovery_time": true,
	"stay_active": true, "training_frequency": true, "training_volume": true,
}

type family int

const (
	familySleep family = iota
	familyReadiness
	familyActivity
)

// familyFor routes a metric name to its dataset by name substring,
// defaulting to readiness.
func familyFor(metric string) family {
	switch {
	case strings.Contains(metric, "sleep"):
		return familySleep
	case strings.Contains(metric, "readiness"),
		strings.Contains(metric, "hrv"),
		strings.Contains(metric, "heart_rate"),
		strings.Contains(metric, "temperature"):
		return familyReadiness
	case strings.Contains(metric, "activity"), strings.Contains(metric, "steps"):
		return familyActivity
	default:
		return familyReadiness
	}
}

func appendVal(values []float64, v *int) []float64 {
	if v != nil {
		return append(values, float64(*v))
	}
	return values
}

func extractSleep(records []models.SleepRecord, metric string) []float64 {
	var values []float64
	for _, r := range records {
		switch {
		case metric == "sleep_score":
			values = appendVal(values, r.Score)
		case sleepContributorNames[metric]:
			c := r.Contributors
			switch metric {
			case "deep_sleep":
				values = appendVal(values, c.DeepSleep)
			case "rem_sleep":
				values = appendVal(values, c.REMSleep)
			case "total_sleep":
				values = appendVal(values, c.TotalSleep)
			case "efficiency":
				values = appendVal(values, c.Efficiency)
			case "restfulness":
				values = appendVal(values, c.Restfulness)
			case "latency":
				values = appendVal(values, c.Latency)
			case "timing":
				values = appendVal(values, c.Timing)
			}
		case metric == "total_sleep_duration":
			values = append(values, float64(r.TotalSleepSeconds))
		}
	}
	return values
}

func extractReadiness(records []models.ReadinessRecord, metric string) []float64 {
	var values []float64
	for _, r := range records {
		switch {
		case metric == "readiness_score":
			values = appendVal(values, r.Score)
		case readinessContributorNames[metric]:
			c := r.Contributors
			switch metric {
			case "hrv_balance":
				values = appendVal(values, c.HRVBalance)
			case "resting_heart_rate":
				values = appendVal(values, c.RestingHeartRate)
			case "body_temperature":
				values = appendVal(values, c.BodyTemperature)
			case "activity_balance":
				values = appendVal(values, c.ActivityBalance)
			case "previous_day_activity":
				values = appendVal(values, c.PreviousDayActivity)
			case "previous_night":
				values = appendVal(values, c.PreviousNight)
			case "recovery_index":
				values = appendVal(values, c.RecoveryIndex)
			case "sleep_balance":
				values = appendVal(values, c.SleepBalance)
			case "sleep_regularity":
				values = appendVal(values, c.SleepRegularity)
			}
		}
	}
	return values
}

func extractActivity(records []models.ActivityRecord, metric string) []float64 {
	var values []float64
	for _, r := range records {
		switch {
		case metric == "activity_score":
			values = appendVal(values, r.Score)
		case activityContributorNames[metric]:
			c := r.Contributors
			switch metric {
			case "meet_daily_targets":
				values = appendVal(values, c.MeetDailyTargets)
			case "move_every_hour":
				values = appendVal(values, c.MoveEveryHour)
			case "recovery_time":
				values = appendVal(values, c.RecoveryTime)
			case "stay_active":
				values = appendVal(values, c.StayActive)
			case "training_frequency":
				values = appendVal(values, c.TrainingFrequency)
			case "training_volume":
				values = appendVal(values, c.TrainingVolume)
			}
		case metric == "steps":
			values = append(values, float64(r.Steps))
		case metric == "total_calories":
			values = append(values, float64(r.TotalCalories))
		case metric == "active_calories":
			values = append(values, float64(r.ActiveCalories))
		}
	}
	return values
}

func (e *Engine) extract(sleep []models.SleepRecord, readiness []models.ReadinessRecord, activity []models.ActivityRecord, metric string) []float64 {
	switch familyFor(metric) {
	case familySleep:
		return extractSleep(sleep, metric)
	case familyActivity:
		return extractActivity(activity, metric)
	default:
		return extractReadiness(readiness, metric)
	}
}

// Correlate aligns the tails of the two extracted series and computes
// Pearson r. A degenerate series (zero spread) yields r = 0.
func (e *Engine) Correlate(sleep []models.SleepRecord, readiness []models.ReadinessRecord, activity []models.ActivityRecord, metric1, metric2 string, days int) models.CorrelationResult {
	values1 := e.extract(sleep, readiness, activity, metric1)
	values2 := e.extract(sleep, readiness, activity, metric2)

	result := models.CorrelationResult{Metric1: metric1, Metric2: metric2, Days: days}

	if len(values1) == 0 || len(values2) == 0 {
		result.Insufficient = true
		result.Reason = fmt.Sprintf("⚠️ Insufficient data for correlation analysis\n- %s: %d values\n- %s: %d values",
			metric1, len(values1), metric2, len(values2))
		return result
	}

	minLen := len(values1)
	if len(values2) < minLen {
		minLen = len(values2)
	}
	values1 = values1[len(values1)-minLen:]
	values2 = values2[len(values2)-minLen:]

	if minLen < 2 {
		result.Insufficient = true
		result.Reason = "⚠️ Not enough data points for correlation analysis (need at least 2)"
		return result
	}

	mean1 := stats.Mean(values1)
	mean2 := stats.Mean(values2)

	covariance := 0.0
	for i := range values1 {
		covariance += (values1[i] - mean1) * (values2[i] - mean2)
	}
	covariance /= float64(minLen)

	std1 := stats.StdDev(values1)
	std2 := stats.StdDev(values2)

	r := 0.0
	if std1 != 0 && std2 != 0 {
		r = covariance / (std1 * std2)
	}

	result.Coefficient = r
	result.DataPoints = minLen
	result.Stats1 = metricStats(values1, mean1, std1)
	result.Stats2 = metricStats(values2, mean2, std2)

	abs := r
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs > 0.7:
		result.Strength = "Strong"
		result.Emoji = "🔴"
	case abs > 0.5:
		result.Strength = "Moderate"
		result.Emoji = "🟡"
	case abs > 0.3:
		result.Strength = "Weak"
		result.Emoji = "🟢"
	default:
		result.Strength = "Very Weak/None"
		result.Emoji = "⚪"
	}

	if r > 0 {
		result.Direction = "positive"
	} else {
		result.Direction = "negative"
	}

	return result
}

func metricStats(values []float64, mean, std float64) models.MetricStats {
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return models.MetricStats{Mean: mean, StdDev: std, Min: min, Max: max}
}
