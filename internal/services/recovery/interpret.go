package recovery

import (
	"fmt"

	"HealthPull/internal/domain/models"
	"HealthPull/internal/services/stats"
)

// Engine converts raw daily scores into semantic readings. All thresholds
// operate on the provider's 0-100 score scale.
type Engine struct{}

func New() *Engine { return &Engine{} }

func (e *Engine) SleepScore(score int) models.ScoreInterpretation {
	switch {
	case score >= 85:
		return models.ScoreInterpretation{
			Quality:        "Excellent",
			Description:    "Optimal sleep - body fully recovered",
			Emoji:          "🌟",
			Recommendation: "Great foundation for high performance today",
		}
	case score >= 70:
		return models.ScoreInterpretation{
			Quality:        "Good",
			Description:    "Solid sleep - adequate recovery",
			Emoji:          "✅",
			Recommendation: "Ready for normal activities and moderate training",
		}
	case score >= 60:
		return models.ScoreInterpretation{
			Quality:        "Fair",
			Description:    "Acceptable but not optimal",
			Emoji:          "⚠️",
			Recommendation: "Consider lighter activities; focus on recovery tonight",
		}
	default:
		return models.ScoreInterpretation{
			Quality:        "Poor",
			Description:    "Insufficient sleep - recovery incomplete",
			Emoji:          "🔴",
			Recommendation: "Prioritize rest today; avoid intense activities",
		}
	}
}

func (e *Engine) ReadinessScore(score int) models.ScoreInterpretation {
	switch {
	case score >= 85:
		return models.ScoreInterpretation{
			Quality:        "Optimal",
			Description:    "Fully recovered and ready",
			Emoji:          "💪",
			Recommendation: "Good day for challenging workouts or high performance",
		}
	case score >= 70:
		return models.ScoreInterpretation{
			Quality:        "Good",
			Description:    "Ready for normal activities",
			Emoji:          "✅",
			Recommendation: "Suitable for moderate training and work",
		}
	case score >= 60:
		return models.ScoreInterpretation{
			Quality:        "Fair",
			Description:    "Adequate but not primed",
			Emoji:          "⚠️",
			Recommendation: "Light activities preferred; monitor energy levels",
		}
	default:
		return models.ScoreInterpretation{
			Quality:        "Low",
			Description:    "Body needs recovery",
			Emoji:          "🔴",
			Recommendation: "Rest day recommended; focus on recovery activities",
		}
	}
}

func (e *Engine) ActivityScore(score int) models.ScoreInterpretation {
	switch {
	case score >= 85:
		return models.ScoreInterpretation{
			Quality:        "Excellent",
			Description:    "Optimal activity level achieved",
			Emoji:          "🎯",
			Recommendation: "Great balance of movement and recovery",
		}
	case score >= 70:
		return models.ScoreInterpretation{
			Quality:        "Good",
			Description:    "Good activity level",
			Emoji:          "✅",
			Recommendation: "Maintaining healthy activity patterns",
		}
	case score >= 60:
		return models.ScoreInterpretation{
			Quality:        "Fair",
			Description:    "Below optimal activity",
			Emoji:          "⚠️",
			Recommendation: "Consider more movement or gentler recovery",
		}
	default:
		return models.ScoreInterpretation{
			Quality:        "Low",
			Description:    "Activity needs attention",
			Emoji:          "🔴",
			Recommendation: "Either too sedentary or overtraining",
		}
	}
}

// HRVBalance reads the HRV balance score, adding a baseline comparison
// when a positive baseline is supplied.
func (e *Engine) HRVBalance(score int, baseline *float64) models.HRVInterpretation {
	out := models.HRVInterpretation{Score: score, Baseline: baseline}

	switch {
	case score >= 75:
		out.Status = "Balanced"
		out.Emoji = "💚"
		out.Description = "HRV is balanced - good recovery"
		out.Meaning = "Autonomic nervous system is well-balanced"
		out.Implications = "Body is recovered and ready for stress"
	case score >= 50:
		out.Status = "Moderate"
		out.Emoji = "🟡"
		out.Description = "HRV is moderate - adequate recovery"
		out.Meaning = "Some stress response present"
		out.Implications = "Body is functioning but not optimally primed"
	case score >= 30:
		out.Status = "Low"
		out.Emoji = "🟠"
		out.Description = "HRV is low - incomplete recovery"
		out.Meaning = "Elevated sympathetic nervous system activity"
		out.Implications = "Body is under stress or recovering from load"
	default:
		out.Status = "Very Low"
		out.Emoji = "🔴"
		out.Description = "HRV is very low - significant stress detected"
		out.Meaning = "Autonomic nervous system is strained"
		out.Implications = "High stress, illness, or severe overtraining"
	}

	if baseline != nil && *baseline != 0 {
		pct := (float64(score) - *baseline) / *baseline * 100
		rounded := stats.Round(pct, 1)
		out.DeviationPct = &rounded

		switch {
		case absF(pct) < 10:
			out.BaselineStatus = "Normal variation"
		case pct < -20:
			out.BaselineStatus = fmt.Sprintf("Significantly below baseline (%.0f%%)", absF(pct))
		case pct < 0:
			out.BaselineStatus = fmt.Sprintf("Below baseline (%.0f%%)", absF(pct))
		case pct > 20:
			out.BaselineStatus = fmt.Sprintf("Significantly above baseline (%.0f%%)", pct)
		default:
			out.BaselineStatus = fmt.Sprintf("Above baseline (%.0f%%)", pct)
		}
	}

	return out
}

var elevatedRHRCauses = []string{
	"Incomplete recovery from training",
	"Stress or anxiety",
	"Dehydration",
	"Illness or infection onset",
	"Alcohol consumption",
	"Poor sleep quality",
}

// RestingHR reads a resting heart rate (bpm) against its personal baseline.
func (e *Engine) RestingHR(current float64, baseline *float64) models.RestingHRInterpretation {
	out := models.RestingHRInterpretation{Current: current, Baseline: baseline}

	if baseline == nil || *baseline == 0 {
		out.Status = "No Baseline"
		out.Description = fmt.Sprintf("Current resting HR: %.0f bpm", current)
		out.Implications = "Need more data to establish personal baseline"
		return out
	}

	deviation := current - *baseline
	pct := deviation / *baseline * 100
	dev := stats.Round(deviation, 1)
	devPct := stats.Round(pct, 1)
	out.Deviation = &dev
	out.DeviationPct = &devPct

	switch {
	case absF(deviation) <= 2:
		out.Status = "Normal"
		out.Emoji = "✅"
		out.Description = "Resting HR within normal variation"
		out.Implications = "Good cardiovascular recovery"
	case deviation > 5:
		out.Status = "Elevated"
		out.Emoji = "⚠️"
		out.Description = fmt.Sprintf("Resting HR elevated by %.0f bpm", deviation)
		out.Implications = "May indicate stress, fatigue, dehydration, or illness onset"
		out.Causes = elevatedRHRCauses
	case deviation < -5:
		out.Status = "Lower"
		out.Emoji = "💚"
		out.Description = fmt.Sprintf("Resting HR lower by %.0f bpm", absF(deviation))
		out.Implications = "Excellent recovery or improved fitness"
	default:
		sign := ""
		if deviation > 0 {
			sign = "+"
		}
		out.Status = "Slight Variation"
		out.Emoji = "✅"
		out.Description = fmt.Sprintf("Resting HR %s%.0f bpm from baseline", sign, deviation)
		out.Implications = "Minor variation - within acceptable range"
	}

	return out
}

var moderateTempCauses = []string{
	"Menstrual cycle (for females)",
	"Overtraining or high training load",
	"Early illness onset",
	"Insufficient recovery",
	"Environmental factors",
}

var significantTempCauses = []string{
	"Possible illness or infection",
	"Severe overtraining",
	"Hormonal imbalance",
	"Need medical evaluation if persistent",
}

// Temperature reads the body temperature score, optionally carrying the
// provider's deviation in degrees Celsius.
func (e *Engine) Temperature(score int, deviationCelsius *float64) models.TemperatureInterpretation {
	out := models.TemperatureInterpretation{Score: score, DeviationCelsius: deviationCelsius}

	switch {
	case score >= 95:
		out.Status = "Normal"
		out.Emoji = "✅"
		out.Description = "Body temperature within normal range"
		out.Implications = "No temperature-related stress detected"
	case score >= 85:
		out.Status = "Slight Variation"
		out.Emoji = "🟡"
		out.Description = "Minor temperature variation"
		out.Implications = "Normal fluctuation - monitor if persistent"
	case score >= 70:
		out.Status = "Moderate Deviation"
		out.Emoji = "⚠️"
		out.Description = "Temperature deviation detected"
		out.Implications = "May indicate hormonal changes, stress, or early illness"
		out.Causes = moderateTempCauses
	default:
		out.Status = "Significant Deviation"
		out.Emoji = "🔴"
		out.Description = "Significant temperature deviation"
		out.Implications = "Strong signal - investigate further"
		out.Causes = significantTempCauses
	}

	return out
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func floatPtr(v float64) *float64 { return &v }
