package sleepdebt

import (
	"fmt"
	"sort"

	"HealthPull/internal/domain/models"
	"HealthPull/internal/services/stats"
)

// Tracker accumulates sleep debt against a personal sleep need. With no
// explicit need set it estimates one from the data, preferring readiness
// correlation over sleep score correlation over the duration percentile.
type Tracker struct {
	optimalSeconds float64
	autoDetect     bool
}

// NewTracker builds a tracker. Pass 0 to auto-detect the personal need.
func NewTracker(optimalSleepHours float64) *Tracker {
	if optimalSleepHours <= 0 {
		return &Tracker{autoDetect: true}
	}
	return &Tracker{optimalSeconds: optimalSleepHours * 3600}
}

// EstimateSleepNeed derives the personal optimal sleep duration from the
// sleep durations on the best-scoring quarter of days.
func (t *Tracker) EstimateSleepNeed(sleep []models.SleepRecord, readiness []models.ReadinessRecord) models.SleepNeedEstimate {
	if len(sleep) == 0 {
		return models.SleepNeedEstimate{Hours: 7.0, Method: models.NeedMethodDefault}
	}

	type pair struct {
		duration float64
		score    float64
	}

	if len(readiness) >= 14 {
		readinessByDay := make(map[string]*int, len(readiness))
		for _, day := range readiness {
			readinessByDay[day.Day] = day.Score
		}

		var pairs []pair
		for _, night := range sleep[:len(sleep)-1] {
			duration := float64(night.TotalSleepSeconds) / 3600
			score, ok := readinessByDay[night.Day]
			if ok && score != nil && *score > 0 && duration > 0 {
				pairs = append(pairs, pair{duration, float64(*score)})
			}
		}

		if len(pairs) >= 14 {
			sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].score > pairs[j].score })
			top := len(pairs) / 4
			if top < 5 {
				top = 5
			}
			var durations []float64
			for _, p := range pairs[:top] {
				durations = append(durations, p.duration)
			}
			return models.SleepNeedEstimate{
				Hours:  stats.Round(stats.Mean(durations), 1),
				Method: models.NeedMethodReadiness,
			}
		}
	}

	var scored []pair
	for _, night := range sleep {
		if night.TotalSleepSeconds > 0 && night.Score != nil && *night.Score > 0 {
			scored = append(scored, pair{float64(night.TotalSleepSeconds) / 3600, float64(*night.Score)})
		}
	}
	if len(scored) >= 14 {
		sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
		top := len(scored) / 4
		if top < 5 {
			top = 5
		}
		var durations []float64
		for _, p := range scored[:top] {
			durations = append(durations, p.duration)
		}
		return models.SleepNeedEstimate{
			Hours:  stats.Round(stats.Mean(durations), 1),
			Method: models.NeedMethodSleepScore,
		}
	}

	var durations []float64
	for _, night := range sleep {
		if night.TotalSleepSeconds > 0 {
			durations = append(durations, float64(night.TotalSleepSeconds)/3600)
		}
	}
	if len(durations) >= 2 {
		return models.SleepNeedEstimate{
			Hours:  stats.Round(percentile75(durations), 1),
			Method: models.NeedMethodPercentile,
		}
	}

	return models.SleepNeedEstimate{Hours: 7.0, Method: models.NeedMethodNightOwl}
}

// percentile75 computes the exclusive-method 75th percentile, matching
// quartile interpolation over n+1 plotting positions.
func percentile75(values []float64) float64 {
	data := make([]float64, len(values))
	copy(data, values)
	sort.Float64s(data)

	ld := len(data)
	m := ld + 1
	j := 3 * m / 4
	if j < 1 {
		j = 1
	} else if j > ld-1 {
		j = ld - 1
	}
	delta := 3*m - j*4
	return (data[j-1]*float64(4-delta) + data[j]*float64(delta)) / 4
}

// AnalyzeDebt walks the window accumulating nightly deficit against the
// personal need, paying debt back at half rate on surplus nights without
// ever going into credit.
func (t *Tracker) AnalyzeDebt(sleep []models.SleepRecord, readiness []models.ReadinessRecord, lookbackDays int) models.SleepDebtAnalysis {
	if len(sleep) == 0 {
		return models.SleepDebtAnalysis{Status: models.DebtStatusNoData}
	}

	optimalSeconds := t.optimalSeconds
	personalTarget := false
	method := models.NeedMethodUser
	if t.autoDetect {
		need := t.EstimateSleepNeed(sleep, readiness)
		optimalSeconds = need.Hours * 3600
		personalTarget = true
		method = need.Method
	}

	window := sleep
	if lookbackDays > 0 && len(sleep) > lookbackDays {
		window = sleep[len(sleep)-lookbackDays:]
	}

	var deficits []float64
	var timeline []models.DebtDay
	accumulated := 0.0

	for _, night := range window {
		total := float64(night.TotalSleepSeconds)
		deficit := total - optimalSeconds
		deficits = append(deficits, deficit)

		if deficit < 0 {
			accumulated += -deficit
		} else {
			accumulated -= deficit * 0.5
			if accumulated < 0 {
				accumulated = 0
			}
		}

		timeline = append(timeline, models.DebtDay{
			Day:             night.Day,
			SleepHours:      total / 3600,
			Deficit:         deficit / 3600,
			AccumulatedDebt: accumulated / 3600,
		})
	}

	totalDebt := accumulated / 3600
	avgDeficit := stats.Mean(deficits) / 3600
	daysInDebt, daysSurplus := 0, 0
	for _, d := range deficits {
		if d < 0 {
			daysInDebt++
		} else {
			daysSurplus++
		}
	}

	optimalHours := optimalSeconds / 3600

	return models.SleepDebtAnalysis{
		TotalDebtHours:       stats.Round(totalDebt, 2),
		AvgDailyDeficitHours: stats.Round(avgDeficit, 2),
		DaysAnalyzed:         len(window),
		DaysInDebt:           daysInDebt,
		DaysSurplus:          daysSurplus,
		Severity:             assessSeverity(totalDebt, optimalHours),
		RecoveryDaysEstimate: estimateRecovery(totalDebt, avgDeficit),
		DebtOverTime:         timeline,
		OptimalSleepHours:    stats.Round(optimalHours, 1),
		PersonalTargetUsed:   personalTarget,
		DetectionMethod:      method,
		Status:               models.DebtStatusCalculated,
	}
}

// assessSeverity grades total debt on thresholds scaled by the personal
// need relative to 8 hours, expressed in nights-behind for context.
func assessSeverity(totalDebt, optimalHours float64) models.DebtSeverity {
	scale := optimalHours / 8.0
	nights := totalDebt / optimalHours

	switch {
	case totalDebt < 2*scale:
		return models.DebtSeverity{
			Level:       "minimal",
			Emoji:       "🟢",
			Description: "Minimal sleep debt - you're well rested",
			Impact:      "Little to no impact on performance",
		}
	case totalDebt < 8*scale:
		return models.DebtSeverity{
			Level:       "mild",
			Emoji:       "🟡",
			Description: fmt.Sprintf("Mild sleep debt (~%.1f nights behind)", nights),
			Impact:      "Minor impact on cognitive function and mood",
		}
	case totalDebt < 16*scale:
		return models.DebtSeverity{
			Level:       "moderate",
			Emoji:       "🟠",
			Description: fmt.Sprintf("Moderate sleep debt (~%.1f nights behind)", nights),
			Impact:      "Noticeable fatigue, reduced cognitive performance",
		}
	case totalDebt < 40*scale:
		return models.DebtSeverity{
			Level:       "elevated",
			Emoji:       "🔴",
			Description: fmt.Sprintf("Elevated sleep debt (~%.1f nights behind)", nights),
			Impact:      "Significant fatigue, impaired decision-making",
		}
	case totalDebt < 56*scale:
		return models.DebtSeverity{
			Level:       "severe",
			Emoji:       "🚨",
			Description: fmt.Sprintf("Severe sleep debt (~%.1f nights behind) - prioritize recovery", nights),
			Impact:      "Major cognitive deficits, health risks increasing",
		}
	default:
		return models.DebtSeverity{
			Level:       "critical",
			Emoji:       "💀",
			Description: fmt.Sprintf("Critical sleep debt (~%.1f nights behind) - immediate action needed", nights),
			Impact:      "Serious health risks, severely impaired function",
		}
	}
}

// estimateRecovery assumes one extra hour of sleep per night pays back
// debt, halved when the deficit pattern is still ongoing, capped at 30.
func estimateRecovery(totalDebt, avgDeficit float64) int {
	if totalDebt <= 0 {
		return 0
	}
	rate := 1.0
	if avgDeficit < -0.5 {
		rate = 0.5
	}
	days := int(totalDebt / rate)
	if days > 30 {
		days = 30
	}
	return days
}

// OptimalSleepForAge returns the age-bracket sleep target in hours.
func OptimalSleepForAge(age int) float64 {
	switch {
	case age < 18:
		return 9.0
	case age < 65:
		return 8.0
	default:
		return 7.5
	}
}

// EfficiencyDebt measures quality debt: nights with efficiency below 85
// accumulate an hours-equivalent shortfall.
func (t *Tracker) EfficiencyDebt(sleep []models.SleepRecord) models.EfficiencyDebt {
	if len(sleep) == 0 {
		return models.EfficiencyDebt{Status: models.DebtStatusNoData}
	}

	var scores []float64
	qualityDebt := 0.0
	poorNights := 0

	for _, night := range sleep {
		if night.Contributors.Efficiency == nil {
			continue
		}
		eff := float64(*night.Contributors.Efficiency)
		scores = append(scores, eff)
		if eff < 85 {
			qualityDebt += (85 - eff) / 10
			poorNights++
		}
	}

	if len(scores) == 0 {
		return models.EfficiencyDebt{Status: models.DebtStatusNoEfficiencyData}
	}

	return models.EfficiencyDebt{
		AvgEfficiency:        stats.Round(stats.Mean(scores), 1),
		QualityDebtHours:     stats.Round(qualityDebt, 1),
		NightsPoorEfficiency: poorNights,
		Status:               models.DebtStatusCalculated,
	}
}
