package illness

import (
	"fmt"

	"HealthPull/internal/domain/models"
	"HealthPull/internal/services/stats"
)

// Detector is an early-warning system that combines five physiological
// channels to flag potential illness one to two days before symptoms.
// Baselines exclude the last three days so a developing change stands out
// against the preceding window.
type Detector struct {
	baselineDays int
}

type band struct {
	elevated float64
	high     float64
	critical float64
}

// Channel thresholds. Temperature and recovery are point drops, HRV is a
// percentage drop, resting HR and respiratory rate are absolute increases.
var (
	temperatureDrop   = band{-10, -20, -30}
	hrvDrop           = band{-15, -25, -35}
	restingHRIncrease = band{5, 8, 12}
	respiratoryRise   = band{2, 3, 5}
	recoveryDrop      = band{-15, -25, -35}
)

var signalWeights = map[string]float64{
	models.ChannelTemperature:     0.35,
	models.ChannelHRV:             0.25,
	models.ChannelRestingHR:       0.20,
	models.ChannelRespiratoryRate: 0.10,
	models.ChannelRecovery:        0.10,
}

func New() *Detector { return &Detector{baselineDays: 30} }

// Detect analyzes readiness and sleep windows ordered oldest first.
// Fewer than 7 readiness days yields a normal assessment with Err set.
func (d *Detector) Detect(readiness []models.ReadinessRecord, sleep []models.SleepRecord) models.IllnessAssessment {
	if len(readiness) < 7 {
		return models.IllnessAssessment{
			RiskLevel: models.RiskNormal,
			RiskScore: 0,
			Err:       "Insufficient data (need at least 7 days)",
		}
	}

	split := len(readiness) - 3
	baselines := d.calculateBaselines(readiness[:split], trimRecent(sleep))

	recentReadiness := readiness[split:]
	recentSleep := lastN(sleep, 3)

	var signals []models.IllnessSignal
	if s := checkTemperature(recentReadiness, baselines); s != nil {
		signals = append(signals, *s)
	}
	if s := checkHRV(recentReadiness, baselines); s != nil {
		signals = append(signals, *s)
	}
	if s := checkRestingHR(recentReadiness, baselines); s != nil {
		signals = append(signals, *s)
	}
	if s := checkRespiratoryRate(recentSleep, baselines); s != nil {
		signals = append(signals, *s)
	}
	if s := checkRecoveryScore(recentReadiness, baselines); s != nil {
		signals = append(signals, *s)
	}

	riskScore := compositeRisk(signals)
	riskLevel := riskLevelFor(riskScore)
	pattern := detectPattern(signals)

	return models.IllnessAssessment{
		RiskLevel:      riskLevel,
		RiskScore:      riskScore,
		Signals:        signals,
		Baselines:      baselines,
		Pattern:        pattern,
		Confidence:     confidence(signals),
		Recommendation: recommendation(riskLevel, pattern),
	}
}

func trimRecent(sleep []models.SleepRecord) []models.SleepRecord {
	if len(sleep) <= 3 {
		return nil
	}
	return sleep[:len(sleep)-3]
}

func lastN(sleep []models.SleepRecord, n int) []models.SleepRecord {
	if len(sleep) <= n {
		return sleep
	}
	return sleep[len(sleep)-n:]
}

func (d *Detector) calculateBaselines(readiness []models.ReadinessRecord, sleep []models.SleepRecord) models.IllnessBaselines {
	var b models.IllnessBaselines

	var temps, hrvs, rhrs, scores []float64
	for _, day := range readiness {
		if day.Contributors.BodyTemperature != nil {
			temps = append(temps, float64(*day.Contributors.BodyTemperature))
		}
		if day.Contributors.HRVBalance != nil {
			hrvs = append(hrvs, float64(*day.Contributors.HRVBalance))
		}
		if day.Contributors.RestingHeartRate != nil {
			rhrs = append(rhrs, float64(*day.Contributors.RestingHeartRate))
		}
		if day.Score != nil {
			scores = append(scores, float64(*day.Score))
		}
	}

	if len(temps) > 0 {
		m := stats.Mean(temps)
		b.Temperature = &m
		b.TemperatureStd = stats.StdDev(temps)
	}
	if len(hrvs) > 0 {
		m := stats.Mean(hrvs)
		b.HRV = &m
		b.HRVStd = stats.StdDev(hrvs)
	}
	if len(rhrs) > 0 {
		m := stats.Mean(rhrs)
		b.RestingHR = &m
		b.RestingHRStd = stats.StdDev(rhrs)
	}

	var resps []float64
	for _, night := range sleep {
		if night.BreathAverage > 0 {
			resps = append(resps, night.BreathAverage)
		}
	}
	if len(resps) > 0 {
		m := stats.Mean(resps)
		b.RespiratoryRate = &m
		b.RespiratoryRateStd = stats.StdDev(resps)
	}

	if len(scores) > 0 {
		m := stats.Mean(scores)
		b.RecoveryScore = &m
		b.RecoveryScoreStd = stats.StdDev(scores)
	}

	return b
}

// severityFor grades a deviation against a band. Drop bands fire on
// deviations at or below the threshold, rise bands at or above.
func severityFor(deviation float64, b band, drop bool) float64 {
	if drop {
		switch {
		case deviation <= b.critical:
			return 1.0
		case deviation <= b.high:
			return 0.7
		case deviation <= b.elevated:
			return 0.4
		}
		return 0
	}
	switch {
	case deviation >= b.critical:
		return 1.0
	case deviation >= b.high:
		return 0.7
	case deviation >= b.elevated:
		return 0.4
	}
	return 0
}

func checkTemperature(recent []models.ReadinessRecord, baselines models.IllnessBaselines) *models.IllnessSignal {
	if baselines.Temperature == nil {
		return nil
	}
	var vals []float64
	for _, day := range recent {
		if day.Contributors.BodyTemperature != nil {
			vals = append(vals, float64(*day.Contributors.BodyTemperature))
		}
	}
	if len(vals) == 0 {
		return nil
	}
	avg := stats.Mean(vals)
	deviation := avg - *baselines.Temperature
	severity := severityFor(deviation, temperatureDrop, true)
	if severity == 0 {
		return nil
	}
	return &models.IllnessSignal{
		SignalType: models.ChannelTemperature,
		Severity:   severity,
		Value:      avg,
		Baseline:   *baselines.Temperature,
		Deviation:  deviation,
		Message:    fmt.Sprintf("Body temp score %.0f points below baseline (elevated temperature detected)", deviation),
	}
}

func checkHRV(recent []models.ReadinessRecord, baselines models.IllnessBaselines) *models.IllnessSignal {
	if baselines.HRV == nil {
		return nil
	}
	var vals []float64
	for _, day := range recent {
		if day.Contributors.HRVBalance != nil {
			vals = append(vals, float64(*day.Contributors.HRVBalance))
		}
	}
	if len(vals) == 0 {
		return nil
	}
	avg := stats.Mean(vals)
	baseline := *baselines.HRV
	deviation := avg - baseline
	percent := 0.0
	if baseline > 0 {
		percent = deviation / baseline * 100
	}
	severity := severityFor(percent, hrvDrop, true)
	if severity == 0 {
		return nil
	}
	return &models.IllnessSignal{
		SignalType: models.ChannelHRV,
		Severity:   severity,
		Value:      avg,
		Baseline:   baseline,
		Deviation:  deviation,
		Message:    fmt.Sprintf("HRV %.0f%% below baseline", percent),
	}
}

func checkRestingHR(recent []models.ReadinessRecord, baselines models.IllnessBaselines) *models.IllnessSignal {
	if baselines.RestingHR == nil {
		return nil
	}
	var vals []float64
	for _, day := range recent {
		if day.Contributors.RestingHeartRate != nil {
			vals = append(vals, float64(*day.Contributors.RestingHeartRate))
		}
	}
	if len(vals) == 0 {
		return nil
	}
	avg := stats.Mean(vals)
	deviation := avg - *baselines.RestingHR
	severity := severityFor(deviation, restingHRIncrease, false)
	if severity == 0 {
		return nil
	}
	return &models.IllnessSignal{
		SignalType: models.ChannelRestingHR,
		Severity:   severity,
		Value:      avg,
		Baseline:   *baselines.RestingHR,
		Deviation:  deviation,
		Message:    fmt.Sprintf("Resting HR %+.0fbpm above baseline", deviation),
	}
}

func checkRespiratoryRate(recent []models.SleepRecord, baselines models.IllnessBaselines) *models.IllnessSignal {
	if baselines.RespiratoryRate == nil || len(recent) == 0 {
		return nil
	}
	var vals []float64
	for _, night := range recent {
		if night.BreathAverage > 0 {
			vals = append(vals, night.BreathAverage)
		}
	}
	if len(vals) == 0 {
		return nil
	}
	avg := stats.Mean(vals)
	deviation := avg - *baselines.RespiratoryRate
	severity := severityFor(deviation, respiratoryRise, false)
	if severity == 0 {
		return nil
	}
	return &models.IllnessSignal{
		SignalType: models.ChannelRespiratoryRate,
		Severity:   severity,
		Value:      avg,
		Baseline:   *baselines.RespiratoryRate,
		Deviation:  deviation,
		Message:    fmt.Sprintf("Resp rate %+.1fbr/min above baseline", deviation),
	}
}

func checkRecoveryScore(recent []models.ReadinessRecord, baselines models.IllnessBaselines) *models.IllnessSignal {
	if baselines.RecoveryScore == nil {
		return nil
	}
	var vals []float64
	for _, day := range recent {
		if day.Score != nil {
			vals = append(vals, float64(*day.Score))
		}
	}
	if len(vals) == 0 {
		return nil
	}
	avg := stats.Mean(vals)
	deviation := avg - *baselines.RecoveryScore
	severity := severityFor(deviation, recoveryDrop, true)
	if severity == 0 {
		return nil
	}
	return &models.IllnessSignal{
		SignalType: models.ChannelRecovery,
		Severity:   severity,
		Value:      avg,
		Baseline:   *baselines.RecoveryScore,
		Deviation:  deviation,
		Message:    fmt.Sprintf("Recovery score %.0f points below baseline", deviation),
	}
}

// compositeRisk normalizes the weighted severities over the weights of
// the channels that actually fired, scaled to 0-100.
func compositeRisk(signals []models.IllnessSignal) float64 {
	if len(signals) == 0 {
		return 0
	}
	var weighted, total float64
	for _, s := range signals {
		weight, ok := signalWeights[s.SignalType]
		if !ok {
			weight = 0.1
		}
		weighted += s.Severity * weight
		total += weight
	}
	if total == 0 {
		return 0
	}
	return weighted / total * 100
}

func riskLevelFor(score float64) models.IllnessRiskLevel {
	switch {
	case score >= 70:
		return models.RiskCritical
	case score >= 50:
		return models.RiskHigh
	case score >= 30:
		return models.RiskElevated
	default:
		return models.RiskNormal
	}
}

func detectPattern(signals []models.IllnessSignal) string {
	if len(signals) == 0 {
		return ""
	}
	types := make(map[string]bool, len(signals))
	for _, s := range signals {
		types[s.SignalType] = true
	}

	switch {
	case types[models.ChannelTemperature] && types[models.ChannelHRV] && types[models.ChannelRestingHR]:
		return "classic_infection"
	case types[models.ChannelTemperature] && types[models.ChannelRespiratoryRate]:
		return "respiratory_infection"
	case types[models.ChannelHRV] && types[models.ChannelRestingHR] && !types[models.ChannelTemperature]:
		return "stress_overtraining"
	case types[models.ChannelTemperature] && types[models.ChannelRecovery]:
		return "early_infection"
	}
	return "unknown_pattern"
}

// confidence grows with signal count (saturating at three) and mean severity.
func confidence(signals []models.IllnessSignal) float64 {
	if len(signals) == 0 {
		return 0
	}
	countFactor := float64(len(signals)) / 3
	if countFactor > 1 {
		countFactor = 1
	}
	var sum float64
	for _, s := range signals {
		sum += s.Severity
	}
	avgSeverity := sum / float64(len(signals))

	c := (countFactor*0.6 + avgSeverity*0.4) * 100
	if c > 100 {
		c = 100
	}
	return c
}

func recommendation(level models.IllnessRiskLevel, pattern string) string {
	switch level {
	case models.RiskCritical:
		return "🚨 CRITICAL: Strong illness indicators detected. " +
			"Take rest day immediately. Monitor symptoms closely. " +
			"Consider seeking medical attention if symptoms develop."
	case models.RiskHigh:
		return "⚠️ HIGH RISK: Multiple illness signals detected. " +
			"Cancel training. Prioritize rest and recovery. " +
			"Stay hydrated. Monitor temperature. Avoid contact with others."
	case models.RiskElevated:
		if pattern == "stress_overtraining" {
			return "⚡ ELEVATED: Stress/overtraining signals detected. " +
				"Reduce training intensity by 50%. Add extra rest day. " +
				"Focus on sleep quality and stress management."
		}
		return "⚠️ ELEVATED: Early warning signs detected. " +
			"Reduce activity intensity. Get extra sleep tonight. " +
			"Increase hydration. Consider vitamin C/zinc supplementation."
	default:
		return "✅ No illness signals detected. Continue normal routine."
	}
}
