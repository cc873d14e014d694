package recovery

import (
	"HealthPull/internal/domain/models"
	"HealthPull/internal/services/stats"
	"HealthPull/pkg/util"
)

// State combines the day's signals into a weighted recovery score and
// qualitative state. HRV dominates at 35%, then readiness 30%, sleep 20%,
// resting HR deviation 10%, temperature 5%.
func (e *Engine) State(readiness, hrvBalance int, restingHRDeviation float64, sleepScore, temperatureScore int) models.RecoveryState {
	rhrComponent := 100 - absF(restingHRDeviation)*10
	if rhrComponent < 0 {
		rhrComponent = 0
	}

	score := float64(hrvBalance)*0.35 +
		float64(readiness)*0.30 +
		float64(sleepScore)*0.20 +
		rhrComponent*0.10 +
		float64(temperatureScore)*0.05

	out := models.RecoveryState{
		RecoveryScore: stats.Round(score, 1),
		Signals: []models.RecoverySignal{
			{Name: "hrv_balance", Value: floatPtr(float64(hrvBalance)), Weight: "35%", Impact: "High"},
			{Name: "readiness", Value: floatPtr(float64(readiness)), Weight: "30%", Impact: "High"},
			{Name: "sleep", Value: floatPtr(float64(sleepScore)), Weight: "20%", Impact: "Medium"},
			{Name: "resting_hr", Deviation: floatPtr(restingHRDeviation), Weight: "10%", Impact: "Medium"},
			{Name: "temperature", Value: floatPtr(float64(temperatureScore)), Weight: "5%", Impact: "Low"},
		},
	}

	switch {
	case score >= 80:
		out.State = "Fully Recovered"
		out.Emoji = "💪"
		out.Description = "All systems green - optimal state"
		out.TrainingRecommendation = "Ready for high-intensity or long-duration training"
		out.Confidence = 0.9
	case score >= 70:
		out.State = "Well Recovered"
		out.Emoji = "✅"
		out.Description = "Good recovery - ready for normal training"
		out.TrainingRecommendation = "Suitable for moderate to high intensity work"
		out.Confidence = 0.85
	case score >= 60:
		out.State = "Adequately Recovered"
		out.Emoji = "🟡"
		out.Description = "Moderate recovery - some fatigue present"
		out.TrainingRecommendation = "Light to moderate intensity recommended"
		out.Confidence = 0.75
	case score >= 50:
		out.State = "Partially Recovered"
		out.Emoji = "🟠"
		out.Description = "Incomplete recovery - significant fatigue"
		out.TrainingRecommendation = "Very light activity only; prioritize recovery"
		out.Confidence = 0.7
	default:
		out.State = "Not Recovered"
		out.Emoji = "🔴"
		out.Description = "Body under significant stress"
		out.TrainingRecommendation = "Rest day strongly recommended"
		out.Confidence = 0.85
	}

	return out
}

type trainingThreshold struct {
	optimal    float64
	acceptable float64
	minimum    float64
}

var trainingThresholds = map[string]trainingThreshold{
	"general":        {70, 55, 45},
	"endurance":      {70, 60, 50},
	"strength":       {75, 65, 55},
	"high_intensity": {80, 70, 60},
}

// TrainingReadiness issues a go/no-go verdict for a training type.
// Unknown types fall back to general thresholds.
func (e *Engine) TrainingReadiness(readiness int, state models.RecoveryState, trainingType string) models.TrainingAssessment {
	threshold, ok := trainingThresholds[trainingType]
	if !ok {
		threshold = trainingThresholds["general"]
	}
	score := state.RecoveryScore

	out := models.TrainingAssessment{
		TrainingType:   util.TitleMetric(trainingType),
		ReadinessScore: readiness,
		RecoveryScore:  stats.Round(score, 1),
		KeyFactors:     limitingFactors(state),
	}

	switch {
	case score >= threshold.optimal:
		out.GoNoGo = "GO"
		out.Emoji = "✅"
		out.Confidence = "High"
		out.Intensity = "Full intensity - no restrictions"
		out.Duration = "Normal to extended duration acceptable"
		out.Modifications = []string{}
	case score >= threshold.acceptable:
		out.GoNoGo = "GO (Modified)"
		out.Emoji = "🟡"
		out.Confidence = "Medium"
		out.Intensity = "Reduce to 70-85% of planned intensity"
		out.Duration = "Reduce duration by 20-30%"
		out.Modifications = []string{
			"Shorten work intervals",
			"Extend rest periods",
			"Focus on technique over load",
			"Monitor how you feel - stop if struggling",
		}
	case score >= threshold.minimum:
		out.GoNoGo = "CAUTION"
		out.Emoji = "⚠️"
		out.Confidence = "Medium-Low"
		out.Intensity = "Very light only (50-60%)"
		out.Duration = "Significantly shortened"
		out.Modifications = []string{
			"Consider active recovery instead",
			"Very light aerobic work only",
			"No high heart rates",
			"Listen to body carefully",
		}
	default:
		out.GoNoGo = "NO-GO"
		out.Emoji = "🔴"
		out.Confidence = "High"
		out.Intensity = "Rest day recommended"
		out.Duration = "N/A"
		out.Modifications = []string{
			"Complete rest or very gentle movement",
			"Focus on sleep and nutrition",
			"Re-assess tomorrow",
			"Training today may impair recovery",
		}
	}

	return out
}

func limitingFactors(state models.RecoveryState) []string {
	var factors []string
	for _, s := range state.Signals {
		switch s.Name {
		case "hrv_balance":
			if s.Value != nil && *s.Value < 60 {
				factors = append(factors, "Low HRV - autonomic stress")
			}
		case "sleep":
			if s.Value != nil && *s.Value < 70 {
				factors = append(factors, "Poor sleep quality")
			}
		case "resting_hr":
			if s.Deviation != nil && absF(*s.Deviation) > 4 {
				factors = append(factors, "Elevated resting heart rate")
			}
		case "temperature":
			if s.Value != nil && *s.Value < 85 {
				factors = append(factors, "Body temperature deviation")
			}
		}
	}
	if len(factors) == 0 {
		factors = append(factors, "All metrics within acceptable ranges")
	}
	return factors
}
