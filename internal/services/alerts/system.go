package alerts

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"HealthPull/internal/domain/models"
	"HealthPull/internal/services/stats"
)

// System evaluates threshold rules over recent sleep, readiness and
// activity windows. Sleep duration and debt thresholds scale with the
// personal sleep need relative to the 8 hour default.
type System struct {
	sleepNeed   float64
	scaleFactor float64

	sleepScoreCritical   float64
	sleepScoreWarning    float64
	durationCritical     float64
	durationWarning      float64
	debtCritical         float64
	debtWarning          float64
	readinessCritical    float64
	readinessWarning     float64
	hrvCritical          float64
	hrvWarning           float64
	rhrIncreaseCritical  float64
	rhrIncreaseWarning   float64
	badNightsCritical    int
	badNightsWarning     int
	inactiveDaysWarning  int
}

// NewSystem builds an alert system for a personal sleep need in hours.
// A non-positive need falls back to 8 hours.
func NewSystem(personalSleepNeed float64) *System {
	need := personalSleepNeed
	if need <= 0 {
		need = 8.0
	}
	scale := need / 8.0

	return &System{
		sleepNeed:   need,
		scaleFactor: scale,

		sleepScoreCritical:  60,
		sleepScoreWarning:   70,
		durationCritical:    6.0 * scale,
		durationWarning:     7.0 * scale,
		debtCritical:        15.0 * scale,
		debtWarning:         10.0 * scale,
		readinessCritical:   60,
		readinessWarning:    70,
		hrvCritical:         50,
		hrvWarning:          60,
		rhrIncreaseCritical: 10,
		rhrIncreaseWarning:  7,
		badNightsCritical:   5,
		badNightsWarning:    3,
		inactiveDaysWarning: 3,
	}
}

func newAlert(category models.AlertCategory, severity models.AlertSeverity, title, message, recommendation string) models.HealthAlert {
	return models.HealthAlert{
		ID:             uuid.NewString(),
		Category:       category,
		Severity:       severity,
		Title:          title,
		Message:        message,
		Recommendation: recommendation,
		CreatedAt:      time.Now(),
	}
}

func withMetric(a models.HealthAlert, value, threshold float64) models.HealthAlert {
	a.MetricValue = &value
	a.Threshold = &threshold
	return a
}

// CheckAll runs every rule and returns active alerts, critical first.
// Windows are ordered oldest first.
func (s *System) CheckAll(sleep []models.SleepRecord, readiness []models.ReadinessRecord, activity []models.ActivityRecord) []models.HealthAlert {
	var alerts []models.HealthAlert

	alerts = append(alerts, s.checkSleepQuality(sleep)...)
	alerts = append(alerts, s.checkSleepDuration(sleep)...)
	alerts = append(alerts, s.checkSleepDebt(sleep)...)
	alerts = append(alerts, s.checkSleepConsistency(sleep)...)
	alerts = append(alerts, s.checkConsecutiveBadNights(sleep)...)

	alerts = append(alerts, s.checkReadiness(readiness)...)
	alerts = append(alerts, s.checkHRV(readiness)...)
	alerts = append(alerts, s.checkRestingHR(readiness)...)

	alerts = append(alerts, s.checkOvertraining(readiness, activity)...)
	alerts = append(alerts, s.checkActivity(activity)...)
	alerts = append(alerts, s.checkDecliningTrends(sleep, readiness)...)

	sort.SliceStable(alerts, func(i, j int) bool {
		return severityRank(alerts[i].Severity) < severityRank(alerts[j].Severity)
	})

	return alerts
}

func severityRank(s models.AlertSeverity) int {
	switch s {
	case models.AlertCritical:
		return 0
	case models.AlertWarning:
		return 1
	default:
		return 2
	}
}

func lastSleep(sleep []models.SleepRecord, n int) []models.SleepRecord {
	if len(sleep) <= n {
		return sleep
	}
	return sleep[len(sleep)-n:]
}

func lastReadiness(readiness []models.ReadinessRecord, n int) []models.ReadinessRecord {
	if len(readiness) <= n {
		return readiness
	}
	return readiness[len(readiness)-n:]
}

func lastActivity(activity []models.ActivityRecord, n int) []models.ActivityRecord {
	if len(activity) <= n {
		return activity
	}
	return activity[len(activity)-n:]
}

func (s *System) checkSleepQuality(sleep []models.SleepRecord) []models.HealthAlert {
	if len(sleep) == 0 {
		return nil
	}

	var scores []float64
	for _, night := range lastSleep(sleep, 3) {
		if night.Score != nil {
			scores = append(scores, float64(*night.Score))
		}
	}
	if len(scores) == 0 {
		return nil
	}

	avg := stats.Mean(scores)
	latest := scores[len(scores)-1]

	if latest < s.sleepScoreCritical {
		a := newAlert(models.AlertSleepQuality, models.AlertCritical,
			"Critical Sleep Quality",
			fmt.Sprintf("Last night's sleep score was %g/100 - significantly below healthy range", latest),
			"Prioritize sleep tonight: go to bed early, optimize environment, avoid alcohol/caffeine")
		return []models.HealthAlert{withMetric(a, latest, s.sleepScoreCritical)}
	}
	if avg < s.sleepScoreWarning {
		a := newAlert(models.AlertSleepQuality, models.AlertWarning,
			"Declining Sleep Quality",
			fmt.Sprintf("Average sleep score over last 3 nights is %.0f/100", avg),
			"Review sleep hygiene: consistent schedule, cool/dark room, wind-down routine")
		return []models.HealthAlert{withMetric(a, avg, s.sleepScoreWarning)}
	}
	return nil
}

func (s *System) checkSleepDuration(sleep []models.SleepRecord) []models.HealthAlert {
	if len(sleep) == 0 {
		return nil
	}

	var durations []float64
	for _, night := range lastSleep(sleep, 3) {
		if night.TotalSleepSeconds > 0 {
			durations = append(durations, float64(night.TotalSleepSeconds)/3600)
		}
	}
	if len(durations) == 0 {
		return nil
	}

	avg := stats.Mean(durations)
	latest := durations[len(durations)-1]

	if latest < s.durationCritical {
		a := newAlert(models.AlertSleepDuration, models.AlertCritical,
			"Severe Sleep Deprivation",
			fmt.Sprintf("Only %.1fh sleep last night - dangerously low", latest),
			"Cancel non-essential activities. Aim for 9-10h sleep tonight to recover")
		return []models.HealthAlert{withMetric(a, latest, s.durationCritical)}
	}
	if avg < s.durationWarning {
		a := newAlert(models.AlertSleepDuration, models.AlertWarning,
			"Insufficient Sleep Duration",
			fmt.Sprintf("Averaging %.1fh/night over last 3 nights", avg),
			"Target 8+ hours of sleep. Adjust bedtime earlier by 30-60 minutes")
		return []models.HealthAlert{withMetric(a, avg, s.durationWarning)}
	}
	return nil
}

// checkSleepDebt walks the last week accumulating nightly deficit against
// 8 hours, paying the running debt back at half rate on surplus nights.
func (s *System) checkSleepDebt(sleep []models.SleepRecord) []models.HealthAlert {
	if len(sleep) < 3 {
		return nil
	}

	const optimalHours = 8.0
	debt := 0.0
	for _, night := range lastSleep(sleep, 7) {
		duration := float64(night.TotalSleepSeconds) / 3600
		deficit := optimalHours - duration
		if deficit > 0 {
			debt += deficit
		} else {
			debt += deficit * 0.5
			if debt < 0 {
				debt = 0
			}
		}
	}

	if debt >= s.debtCritical {
		a := newAlert(models.AlertSleepDebt, models.AlertCritical,
			"Critical Sleep Debt",
			fmt.Sprintf("Accumulated %.1fh sleep debt over the last week", debt),
			"Immediate recovery needed: add 1-2h extra sleep per night for next week")
		return []models.HealthAlert{withMetric(a, debt, s.debtCritical)}
	}
	if debt >= s.debtWarning {
		a := newAlert(models.AlertSleepDebt, models.AlertWarning,
			"Accumulating Sleep Debt",
			fmt.Sprintf("Accumulated %.1fh sleep debt", debt),
			"Prevent further debt: prioritize consistent 8h sleep schedule")
		return []models.HealthAlert{withMetric(a, debt, s.debtWarning)}
	}
	return nil
}

// checkSleepConsistency flags bedtimes varying by more than two hours.
// Bedtimes after midnight wrap forward so the spread is continuous.
func (s *System) checkSleepConsistency(sleep []models.SleepRecord) []models.HealthAlert {
	if len(sleep) < 5 {
		return nil
	}

	var bedtimes []float64
	for _, night := range lastSleep(sleep, 7) {
		if night.BedtimeStart == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, night.BedtimeStart)
		if err != nil {
			continue
		}
		minutes := float64(t.Hour()*60 + t.Minute())
		if minutes < 12*60 {
			minutes += 24 * 60
		}
		bedtimes = append(bedtimes, minutes)
	}
	if len(bedtimes) < 5 {
		return nil
	}

	stdHours := stats.StdDev(bedtimes) / 60
	if stdHours > 2.0 {
		a := newAlert(models.AlertConsistency, models.AlertWarning,
			"Inconsistent Sleep Schedule",
			fmt.Sprintf("Bedtime varies by %.1fh - affecting sleep quality", stdHours),
			"Set consistent bedtime (±30min). Use bedtime alarm/reminder")
		return []models.HealthAlert{withMetric(a, stdHours, 2.0)}
	}
	return nil
}

// checkConsecutiveBadNights counts the streak of bad nights from the most
// recent backwards. A missing score falls back to an efficiency proxy.
func (s *System) checkConsecutiveBadNights(sleep []models.SleepRecord) []models.HealthAlert {
	if len(sleep) < 3 {
		return nil
	}

	window := lastSleep(sleep, 7)
	consecutive := 0
	for i := len(window) - 1; i >= 0; i-- {
		night := window[i]
		durationHours := float64(night.TotalSleepSeconds) / 3600
		deficit := s.sleepNeed - durationHours

		score := 0.0
		if night.Score != nil {
			score = float64(*night.Score)
		}
		if score == 0 {
			if night.Contributors.Efficiency != nil && *night.Contributors.Efficiency > 0 {
				score = float64(*night.Contributors.Efficiency) * 1.2
				if score > 100 {
					score = 100
				}
			} else {
				score = 50
			}
		}

		isBad := score < 60 || (score < 70 && deficit > 1.0)
		if !isBad {
			break
		}
		consecutive++
	}

	if consecutive >= s.badNightsCritical {
		a := newAlert(models.AlertSleepQuality, models.AlertCritical,
			"Extended Sleep Crisis",
			fmt.Sprintf("%d consecutive nights with poor sleep", consecutive),
			"Consider consulting sleep specialist. May indicate underlying issue")
		return []models.HealthAlert{withMetric(a, float64(consecutive), float64(s.badNightsCritical))}
	}
	if consecutive >= s.badNightsWarning {
		a := newAlert(models.AlertSleepQuality, models.AlertWarning,
			"Consecutive Poor Sleep",
			fmt.Sprintf("%d nights in a row with suboptimal sleep", consecutive),
			"Break the pattern: review what changed, adjust environment/habits")
		return []models.HealthAlert{withMetric(a, float64(consecutive), float64(s.badNightsWarning))}
	}
	return nil
}

func (s *System) checkReadiness(readiness []models.ReadinessRecord) []models.HealthAlert {
	if len(readiness) == 0 {
		return nil
	}

	var scores []float64
	for _, day := range lastReadiness(readiness, 3) {
		if day.Score != nil {
			scores = append(scores, float64(*day.Score))
		}
	}
	if len(scores) == 0 {
		return nil
	}

	avg := stats.Mean(scores)
	latest := scores[len(scores)-1]

	if latest < s.readinessCritical {
		a := newAlert(models.AlertRecovery, models.AlertCritical,
			"Critical Recovery State",
			fmt.Sprintf("Readiness score is %g/100 - body needs rest", latest),
			"Take rest day. No intense training. Focus on sleep and recovery")
		return []models.HealthAlert{withMetric(a, latest, s.readinessCritical)}
	}
	if avg < s.readinessWarning {
		a := newAlert(models.AlertRecovery, models.AlertWarning,
			"Suboptimal Readiness",
			fmt.Sprintf("Average readiness %.0f/100 over last 3 days", avg),
			"Reduce training intensity. Prioritize recovery activities")
		return []models.HealthAlert{withMetric(a, avg, s.readinessWarning)}
	}
	return nil
}

func (s *System) checkHRV(readiness []models.ReadinessRecord) []models.HealthAlert {
	if len(readiness) < 3 {
		return nil
	}

	var hrvs []float64
	for _, day := range lastReadiness(readiness, 7) {
		if day.Contributors.HRVBalance != nil {
			hrvs = append(hrvs, float64(*day.Contributors.HRVBalance))
		}
	}
	if len(hrvs) < 3 {
		return nil
	}

	avg := stats.Mean(hrvs)
	latest := hrvs[len(hrvs)-1]

	if latest < s.hrvCritical {
		a := newAlert(models.AlertHRV, models.AlertCritical,
			"Critical HRV Drop",
			fmt.Sprintf("HRV balance at %g - indicates high stress or illness", latest),
			"Check for illness signs. Avoid intense exercise. Prioritize stress management")
		return []models.HealthAlert{withMetric(a, latest, s.hrvCritical)}
	}
	if avg < s.hrvWarning {
		a := newAlert(models.AlertHRV, models.AlertWarning,
			"Declining HRV",
			fmt.Sprintf("HRV balance averaging %.0f - below optimal", avg),
			"Monitor stress levels. Consider meditation, breathing exercises, lighter training")
		return []models.HealthAlert{withMetric(a, avg, s.hrvWarning)}
	}
	return nil
}

// checkRestingHR compares the last 3 days against the preceding window.
func (s *System) checkRestingHR(readiness []models.ReadinessRecord) []models.HealthAlert {
	if len(readiness) < 7 {
		return nil
	}

	var rhrs []float64
	for _, day := range readiness {
		if day.Contributors.RestingHeartRate != nil {
			rhrs = append(rhrs, float64(*day.Contributors.RestingHeartRate))
		}
	}
	if len(rhrs) < 7 {
		return nil
	}

	baseline := stats.Mean(rhrs[:len(rhrs)-3])
	recent := stats.Mean(rhrs[len(rhrs)-3:])
	increase := recent - baseline

	if increase >= s.rhrIncreaseCritical {
		a := newAlert(models.AlertRestingHR, models.AlertCritical,
			"Elevated Resting Heart Rate",
			fmt.Sprintf("Resting HR %.0fbpm above baseline - possible illness or overtraining", increase),
			"Check for illness. Rest from training. Monitor temperature. Consult doctor if persists")
		return []models.HealthAlert{withMetric(a, recent, baseline+s.rhrIncreaseCritical)}
	}
	if increase >= s.rhrIncreaseWarning {
		a := newAlert(models.AlertRestingHR, models.AlertWarning,
			"Rising Resting Heart Rate",
			fmt.Sprintf("Resting HR %.0fbpm above baseline", increase),
			"Reduce training load. Monitor for illness signs. Ensure adequate hydration")
		return []models.HealthAlert{withMetric(a, recent, baseline+s.rhrIncreaseWarning)}
	}
	return nil
}

func (s *System) checkOvertraining(readiness []models.ReadinessRecord, activity []models.ActivityRecord) []models.HealthAlert {
	if len(readiness) == 0 || len(activity) < 7 {
		return nil
	}

	var scores []float64
	for _, day := range lastReadiness(readiness, 7) {
		if day.Score != nil {
			scores = append(scores, float64(*day.Score))
		}
	}
	if len(scores) < 5 {
		return nil
	}

	highIntensityDays := 0
	for _, day := range lastActivity(activity, 7) {
		if day.HighActivitySeconds > 0 {
			highIntensityDays++
		}
	}

	avg := stats.Mean(scores)

	if avg < 70 && highIntensityDays >= 5 {
		a := newAlert(models.AlertOvertraining, models.AlertCritical,
			"Overtraining Risk",
			fmt.Sprintf("Low readiness (%.0f) with %d high-intensity days", avg, highIntensityDays),
			"Mandatory rest days. Reduce training frequency to 3-4 days/week until readiness improves")
		a.MetricValue = &avg
		return []models.HealthAlert{a}
	}
	if avg < 75 && highIntensityDays >= 4 {
		a := newAlert(models.AlertOvertraining, models.AlertWarning,
			"Recovery Imbalance",
			fmt.Sprintf("Training load (%d days) may exceed recovery capacity", highIntensityDays),
			"Add 1-2 rest days. Consider active recovery sessions instead of intense training")
		a.MetricValue = &avg
		return []models.HealthAlert{a}
	}
	return nil
}

func (s *System) checkActivity(activity []models.ActivityRecord) []models.HealthAlert {
	if len(activity) < 3 {
		return nil
	}

	window := lastActivity(activity, 7)
	inactiveDays := 0
	for i := len(window) - 1; i >= 0; i-- {
		if window[i].Steps < 3000 {
			inactiveDays++
		} else {
			break
		}
	}

	if inactiveDays >= s.inactiveDaysWarning {
		a := newAlert(models.AlertActivity, models.AlertWarning,
			"Prolonged Inactivity",
			fmt.Sprintf("%d consecutive days with minimal activity", inactiveDays),
			"Break inactivity: take a walk, do light exercise, or active recovery")
		return []models.HealthAlert{withMetric(a, float64(inactiveDays), float64(s.inactiveDaysWarning))}
	}
	return nil
}

func (s *System) checkDecliningTrends(sleep []models.SleepRecord, readiness []models.ReadinessRecord) []models.HealthAlert {
	var alerts []models.HealthAlert

	if len(sleep) >= 7 {
		var scores []float64
		for _, night := range lastSleep(sleep, 7) {
			v := 0.0
			if night.Score != nil {
				v = float64(*night.Score)
			}
			scores = append(scores, v)
		}
		if len(scores) >= 5 && stats.Slope(scores) < -3 {
			alerts = append(alerts, newAlert(models.AlertTrend, models.AlertWarning,
				"Declining Sleep Trend",
				"Sleep scores have been declining over the past week",
				"Identify and address factors affecting sleep quality"))
		}
	}

	if len(readiness) >= 7 {
		var scores []float64
		for _, day := range lastReadiness(readiness, 7) {
			v := 0.0
			if day.Score != nil {
				v = float64(*day.Score)
			}
			scores = append(scores, v)
		}
		if len(scores) >= 5 && stats.Slope(scores) < -3 {
			alerts = append(alerts, newAlert(models.AlertTrend, models.AlertWarning,
				"Declining Readiness Trend",
				"Readiness has been declining - recovery may be insufficient",
				"Evaluate training load, stress levels, and sleep quality"))
		}
	}

	return alerts
}
