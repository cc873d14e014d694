package illness

import (
	"math"
	"strings"
	"testing"

	"HealthPull/internal/domain/models"
)

func readinessDay(temp, hrv, rhr, score int) models.ReadinessRecord {
	return models.ReadinessRecord{
		Score: models.IntPtr(score),
		Contributors: models.ReadinessContributors{
			BodyTemperature:  models.IntPtr(temp),
			HRVBalance:       models.IntPtr(hrv),
			RestingHeartRate: models.IntPtr(rhr),
		},
	}
}

func sleepNight(breath float64) models.SleepRecord {
	return models.SleepRecord{BreathAverage: breath}
}

func healthyWindow(days int) ([]models.ReadinessRecord, []models.SleepRecord) {
	readiness := make([]models.ReadinessRecord, days)
	sleep := make([]models.SleepRecord, days)
	for i := range readiness {
		readiness[i] = readinessDay(95, 75, 55, 80)
		sleep[i] = sleepNight(14.0)
	}
	return readiness, sleep
}

func TestDetectInsufficientData(t *testing.T) {
	d := New()
	readiness, sleep := healthyWindow(5)

	got := d.Detect(readiness, sleep)
	if got.RiskLevel != models.RiskNormal || got.RiskScore != 0 {
		t.Fatalf("unexpected assessment %+v", got)
	}
	if got.Err != "Insufficient data (need at least 7 days)" {
		t.Fatalf("unexpected error %q", got.Err)
	}
}

func TestDetectHealthy(t *testing.T) {
	d := New()
	readiness, sleep := healthyWindow(14)

	got := d.Detect(readiness, sleep)
	if got.RiskLevel != models.RiskNormal {
		t.Fatalf("risk level = %s, want normal", got.RiskLevel)
	}
	if len(got.Signals) != 0 {
		t.Fatalf("expected no signals, got %+v", got.Signals)
	}
	if got.Pattern != "" {
		t.Fatalf("pattern = %q, want empty", got.Pattern)
	}
	if !strings.Contains(got.Recommendation, "No illness signals") {
		t.Fatalf("unexpected recommendation %q", got.Recommendation)
	}
}

func TestDetectClassicInfection(t *testing.T) {
	d := New()
	readiness, sleep := healthyWindow(14)

	// Last 3 days: temperature crashes, HRV drops, resting HR spikes.
	for i := 11; i < 14; i++ {
		readiness[i] = readinessDay(60, 45, 68, 50)
	}

	got := d.Detect(readiness, sleep)
	if got.Pattern != "classic_infection" {
		t.Fatalf("pattern = %q, want classic_infection", got.Pattern)
	}
	if got.RiskLevel != models.RiskCritical {
		t.Fatalf("risk level = %s (score %.1f), want critical", got.RiskLevel, got.RiskScore)
	}
	if len(got.Signals) != 4 {
		t.Fatalf("expected 4 signals (temp, hrv, rhr, recovery), got %d: %+v", len(got.Signals), got.Signals)
	}
	if !strings.Contains(got.Recommendation, "CRITICAL") {
		t.Fatalf("unexpected recommendation %q", got.Recommendation)
	}
}

func TestDetectStressOvertraining(t *testing.T) {
	d := New()
	readiness, sleep := healthyWindow(14)

	// HRV drop + elevated RHR without a temperature change.
	// Both at the elevated band keeps the composite at 40.
	for i := 11; i < 14; i++ {
		readiness[i] = readinessDay(95, 60, 60, 78)
	}

	got := d.Detect(readiness, sleep)
	if got.Pattern != "stress_overtraining" {
		t.Fatalf("pattern = %q, want stress_overtraining", got.Pattern)
	}
	if got.RiskLevel != models.RiskElevated {
		t.Fatalf("risk level = %s (score %.1f), want elevated", got.RiskLevel, got.RiskScore)
	}
	if !strings.Contains(got.Recommendation, "Stress/overtraining") {
		t.Fatalf("unexpected recommendation %q", got.Recommendation)
	}
}

func TestDetectRespiratorySignal(t *testing.T) {
	d := New()
	readiness, sleep := healthyWindow(14)

	for i := 11; i < 14; i++ {
		sleep[i] = sleepNight(17.5) // +3.5 br/min
	}

	got := d.Detect(readiness, sleep)
	if len(got.Signals) != 1 {
		t.Fatalf("expected 1 signal, got %+v", got.Signals)
	}
	s := got.Signals[0]
	if s.SignalType != models.ChannelRespiratoryRate {
		t.Fatalf("signal type = %s, want respiratory_rate", s.SignalType)
	}
	if s.Severity != 0.7 {
		t.Fatalf("severity = %v, want 0.7", s.Severity)
	}
}

func TestSeverityBands(t *testing.T) {
	tests := []struct {
		name      string
		deviation float64
		b         band
		drop      bool
		want      float64
	}{
		{"temp below elevated", -9, temperatureDrop, true, 0},
		{"temp elevated", -10, temperatureDrop, true, 0.4},
		{"temp high", -20, temperatureDrop, true, 0.7},
		{"temp critical", -30, temperatureDrop, true, 1.0},
		{"rhr below elevated", 4, restingHRIncrease, false, 0},
		{"rhr elevated", 5, restingHRIncrease, false, 0.4},
		{"rhr high", 9, restingHRIncrease, false, 0.7},
		{"rhr critical", 12, restingHRIncrease, false, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := severityFor(tt.deviation, tt.b, tt.drop); got != tt.want {
				t.Fatalf("severity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompositeRiskNormalizes(t *testing.T) {
	signals := []models.IllnessSignal{
		{SignalType: models.ChannelTemperature, Severity: 1.0},
		{SignalType: models.ChannelHRV, Severity: 0.4},
	}
	// (1.0*0.35 + 0.4*0.25) / 0.60 * 100 = 75
	got := compositeRisk(signals)
	if math.Abs(got-75) > 1e-9 {
		t.Fatalf("risk = %v, want 75", got)
	}
	if compositeRisk(nil) != 0 {
		t.Fatal("empty signals should score 0")
	}
}

func TestConfidence(t *testing.T) {
	one := []models.IllnessSignal{{Severity: 0.4}}
	// (1/3*0.6 + 0.4*0.4) * 100 = 36
	if got := confidence(one); math.Abs(got-36) > 1e-9 {
		t.Fatalf("confidence = %v, want 36", got)
	}

	three := []models.IllnessSignal{{Severity: 1.0}, {Severity: 1.0}, {Severity: 1.0}}
	if got := confidence(three); got != 100 {
		t.Fatalf("confidence = %v, want 100", got)
	}

	if confidence(nil) != 0 {
		t.Fatal("no signals should give 0 confidence")
	}
}

func TestReportContainsSections(t *testing.T) {
	d := New()
	readiness, sleep := healthyWindow(14)
	for i := 11; i < 14; i++ {
		readiness[i] = readinessDay(60, 45, 68, 50)
	}

	got := d.Report(d.Detect(readiness, sleep))
	for _, want := range []string{
		"# 🌡️ Illness Detection Report",
		"Risk Level: CRITICAL",
		"**Pattern:** Classic Infection Pattern",
		"## 📊 Warning Signals Detected",
		"## 💡 Recommendation",
		"## 📏 Your Baselines",
		"- Body Temperature Score:",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("report missing %q:\n%s", want, got)
		}
	}
}
