package anomaly

import (
	"fmt"

	"HealthPull/internal/domain/models"
	"HealthPull/internal/services/baseline"
)

// Detector flags concerning deviations from personal baselines using
// statistical context plus metric-specific rules.
type Detector struct{}

func New() *Detector { return &Detector{} }

var deepSleepCauses = []string{
	"Stress or anxiety",
	"Alcohol consumption",
	"Late meals or caffeine",
	"Environmental factors (noise, temperature)",
	"Sleep apnea or breathing issues",
	"Illness or inflammation",
}

var restfulnessCauses = []string{
	"Stress or worry",
	"Uncomfortable sleeping environment",
	"Sleep apnea events",
	"Pain or discomfort",
	"Caffeine or stimulants",
}

var lowHRVCauses = []string{
	"Accumulated fatigue",
	"Stress (physical or mental)",
	"Illness onset",
	"Overtraining",
	"Poor sleep quality",
	"Dehydration",
}

var temperatureCauses = []string{
	"Insufficient recovery",
	"Hormonal changes",
	"Possible illness",
	"Overtraining",
}

// SleepAnomalies checks the current night against baselines built from
// the recent window. The three checks are independent and can all fire
// for one day.
func (d *Detector) SleepAnomalies(current models.SleepRecord, window []models.SleepRecord) []models.AnomalySignal {
	var anomalies []models.AnomalySignal

	baselines := baseline.SleepBaselines(window)

	currentScore := 0.0
	if current.Score != nil {
		currentScore = float64(*current.Score)
	}
	if b, ok := baselines["sleep_score"]; ok {
		dev := baseline.Interpret(currentScore, b)
		if dev.Status == models.DeviationModerate || dev.Status == models.DeviationHigh {
			severity := models.SeverityMedium
			if dev.Status == models.DeviationHigh {
				severity = models.SeverityHigh
			}
			direction := "above"
			if dev.Percent < 0 {
				direction = "below"
			}
			pct := dev.Percent
			mean := dev.BaselineMean
			anomalies = append(anomalies, models.AnomalySignal{
				Metric:       "sleep_score",
				Type:         "significant_deviation",
				Severity:     severity,
				Current:      currentScore,
				BaselineMean: &mean,
				Deviation:    dev.Absolute,
				DeviationPct: &pct,
				Message:      fmt.Sprintf("Sleep score %g is %.0f%% %s your 30-day average", currentScore, absF(dev.Percent), direction),
			})
		}
	}

	if current.Contributors.DeepSleep != nil {
		if b, ok := baselines["deep_sleep"]; ok {
			deep := float64(*current.Contributors.DeepSleep)
			dev := baseline.Interpret(deep, b)
			if dev.Percent < -30 {
				pct := dev.Percent
				mean := dev.BaselineMean
				anomalies = append(anomalies, models.AnomalySignal{
					Metric:         "deep_sleep",
					Type:           "significant_drop",
					Severity:       models.SeverityHigh,
					Current:        deep,
					BaselineMean:   &mean,
					Deviation:      dev.Absolute,
					DeviationPct:   &pct,
					Message:        fmt.Sprintf("⚠️ Deep sleep score %g is %.0f%% below normal", deep, absF(dev.Percent)),
					PossibleCauses: deepSleepCauses,
				})
			}
		}
	}

	if current.Contributors.Restfulness != nil {
		if b, ok := baselines["restfulness"]; ok {
			rest := float64(*current.Contributors.Restfulness)
			dev := baseline.Interpret(rest, b)
			if dev.Percent < -20 {
				pct := dev.Percent
				mean := dev.BaselineMean
				anomalies = append(anomalies, models.AnomalySignal{
					Metric:         "restfulness",
					Type:           "increased_movement",
					Severity:       models.SeverityMedium,
					Current:        rest,
					BaselineMean:   &mean,
					Deviation:      dev.Absolute,
					DeviationPct:   &pct,
					Message:        fmt.Sprintf("Restfulness %g indicates more movement than usual", rest),
					PossibleCauses: restfulnessCauses,
				})
			}
		}
	}

	return anomalies
}

// ReadinessAnomalies checks the current day's readiness contributors.
// The HRV rule fires on an absolute score below 50; the temperature
// rule keeps its fixed absolute threshold of 85 rather than comparing
// against the personal baseline.
func (d *Detector) ReadinessAnomalies(current models.ReadinessRecord, window []models.ReadinessRecord) []models.AnomalySignal {
	var anomalies []models.AnomalySignal

	baselines := baseline.ReadinessBaselines(window)

	if current.Contributors.HRVBalance != nil {
		if b, ok := baselines["hrv_balance"]; ok {
			hrv := float64(*current.Contributors.HRVBalance)
			dev := baseline.Interpret(hrv, b)
			if hrv < 50 {
				severity := models.SeverityMedium
				if hrv < 30 {
					severity = models.SeverityHigh
				}
				mean := dev.BaselineMean
				anomalies = append(anomalies, models.AnomalySignal{
					Metric:         "hrv_balance",
					Type:           "low_hrv",
					Severity:       severity,
					Current:        hrv,
					BaselineMean:   &mean,
					Deviation:      dev.Absolute,
					Message:        fmt.Sprintf("⚠️ HRV Balance %g indicates incomplete recovery", hrv),
					PossibleCauses: lowHRVCauses,
				})
			}
		}
	}

	if current.Contributors.BodyTemperature != nil {
		temp := float64(*current.Contributors.BodyTemperature)
		if temp < 85 {
			anomalies = append(anomalies, models.AnomalySignal{
				Metric:         "body_temperature",
				Type:           "temperature_deviation",
				Severity:       models.SeverityMedium,
				Current:        temp,
				Message:        fmt.Sprintf("Body temperature score %g is lower than optimal", temp),
				PossibleCauses: temperatureCauses,
			})
		}
	}

	return anomalies
}

// ConsecutiveDecline reports a strict day-over-day decline streak.
// Values are ordered newest first; nil when fewer than days values or
// no streak. TotalDrop is newest minus oldest, negative while declining.
func (d *Detector) ConsecutiveDecline(values []float64, days int) *models.DeclineSignal {
	if len(values) < days {
		return nil
	}
	for i := 0; i < days-1; i++ {
		if values[i] >= values[i+1] {
			return nil
		}
	}
	totalDrop := values[0] - values[days-1]
	severity := models.SeverityMedium
	if days >= 4 {
		severity = models.SeverityHigh
	}
	return &models.DeclineSignal{
		Type:      "consecutive_decline",
		Severity:  severity,
		Days:      days,
		TotalDrop: totalDrop,
		Message:   fmt.Sprintf("⚠️ Metric has declined for %d consecutive days (total: %.1f)", days, totalDrop),
	}
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
