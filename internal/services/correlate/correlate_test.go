package correlate

import (
	"math"
	"strings"
	"testing"

	"HealthPull/internal/domain/models"
)

func sleepScores(scores ...int) []models.SleepRecord {
	out := make([]models.SleepRecord, 0, len(scores))
	for _, s := range scores {
		out = append(out, models.SleepRecord{Score: models.IntPtr(s)})
	}
	return out
}

func readinessScores(scores ...int) []models.ReadinessRecord {
	out := make([]models.ReadinessRecord, 0, len(scores))
	for _, s := range scores {
		out = append(out, models.ReadinessRecord{Score: models.IntPtr(s)})
	}
	return out
}

func TestCorrelatePerfectLinear(t *testing.T) {
	e := New()
	sleep := sleepScores(70, 75, 80, 85, 90)
	readiness := readinessScores(60, 65, 70, 75, 80)

	r := e.Correlate(sleep, readiness, nil, "sleep_score", "readiness_score", 30)
	if r.Insufficient {
		t.Fatalf("unexpected insufficient result: %s", r.Reason)
	}
	// population covariance over sample stds: (n-1)/n for a perfect line
	if math.Abs(r.Coefficient-0.8) > 1e-9 {
		t.Fatalf("coefficient = %v, want 0.8", r.Coefficient)
	}
	if r.Strength != "Strong" || r.Emoji != "🔴" {
		t.Fatalf("strength = %q %q, want Strong 🔴", r.Strength, r.Emoji)
	}
	if r.Direction != "positive" {
		t.Fatalf("direction = %q, want positive", r.Direction)
	}
	if r.DataPoints != 5 {
		t.Fatalf("data points = %d, want 5", r.DataPoints)
	}
	if r.Stats1.Mean != 80 || r.Stats1.Min != 70 || r.Stats1.Max != 90 {
		t.Fatalf("stats1 = %+v", r.Stats1)
	}
}

func TestCorrelateInverse(t *testing.T) {
	e := New()
	sleep := sleepScores(70, 75, 80, 85, 90)
	readiness := readinessScores(80, 75, 70, 65, 60)

	r := e.Correlate(sleep, readiness, nil, "sleep_score", "readiness_score", 30)
	if math.Abs(r.Coefficient+0.8) > 1e-9 {
		t.Fatalf("coefficient = %v, want -0.8", r.Coefficient)
	}
	if r.Direction != "negative" {
		t.Fatalf("direction = %q, want negative", r.Direction)
	}
}

func TestCorrelateModerate(t *testing.T) {
	e := New()
	sleep := sleepScores(1, 2, 3, 4, 5)
	readiness := readinessScores(1, 3, 2, 5, 4)

	r := e.Correlate(sleep, readiness, nil, "sleep_score", "readiness_score", 14)
	if math.Abs(r.Coefficient-0.64) > 1e-9 {
		t.Fatalf("coefficient = %v, want 0.64", r.Coefficient)
	}
	if r.Strength != "Moderate" || r.Emoji != "🟡" {
		t.Fatalf("strength = %q %q, want Moderate 🟡", r.Strength, r.Emoji)
	}
}

func TestCorrelateWeak(t *testing.T) {
	e := New()
	sleep := sleepScores(1, 2, 3, 4)
	readiness := readinessScores(2, 1, 4, 3)

	r := e.Correlate(sleep, readiness, nil, "sleep_score", "readiness_score", 14)
	if math.Abs(r.Coefficient-0.45) > 1e-9 {
		t.Fatalf("coefficient = %v, want 0.45", r.Coefficient)
	}
	if r.Strength != "Weak" || r.Emoji != "🟢" {
		t.Fatalf("strength = %q %q, want Weak 🟢", r.Strength, r.Emoji)
	}
}

func TestCorrelateZeroSpread(t *testing.T) {
	e := New()
	sleep := sleepScores(80, 80, 80, 80)
	readiness := readinessScores(60, 65, 70, 75)

	r := e.Correlate(sleep, readiness, nil, "sleep_score", "readiness_score", 14)
	if r.Coefficient != 0 {
		t.Fatalf("coefficient = %v, want 0 for degenerate series", r.Coefficient)
	}
	if r.Strength != "Very Weak/None" || r.Emoji != "⚪" {
		t.Fatalf("strength = %q %q", r.Strength, r.Emoji)
	}
}

func TestCorrelateAlignsTails(t *testing.T) {
	e := New()
	sleep := sleepScores(10, 20, 70, 75, 80)
	readiness := readinessScores(60, 65, 70)

	r := e.Correlate(sleep, readiness, nil, "sleep_score", "readiness_score", 30)
	if r.DataPoints != 3 {
		t.Fatalf("data points = %d, want 3", r.DataPoints)
	}
	// sleep tail is 70/75/80, not the earlier outliers
	if r.Stats1.Min != 70 || r.Stats1.Max != 80 {
		t.Fatalf("stats1 range = %v-%v, want 70-80", r.Stats1.Min, r.Stats1.Max)
	}
}

func TestCorrelateInsufficient(t *testing.T) {
	e := New()

	r := e.Correlate(nil, readinessScores(60, 65), nil, "sleep_score", "readiness_score", 7)
	if !r.Insufficient {
		t.Fatal("expected insufficient result for empty series")
	}
	if !strings.Contains(r.Reason, "sleep_score: 0 values") {
		t.Fatalf("reason = %q", r.Reason)
	}

	r = e.Correlate(sleepScores(80), readinessScores(60, 65), nil, "sleep_score", "readiness_score", 7)
	if !r.Insufficient || !strings.Contains(r.Reason, "need at least 2") {
		t.Fatalf("single-point result = %+v", r)
	}
}

func TestExtractContributorsAndDirectFields(t *testing.T) {
	e := New()
	sleep := []models.SleepRecord{
		{Contributors: models.SleepContributors{DeepSleep: models.IntPtr(70)}, TotalSleepSeconds: 25200},
		{Contributors: models.SleepContributors{DeepSleep: models.IntPtr(85)}, TotalSleepSeconds: 28800},
	}
	readiness := []models.ReadinessRecord{
		{Contributors: models.ReadinessContributors{HRVBalance: models.IntPtr(60)}},
		{Contributors: models.ReadinessContributors{HRVBalance: models.IntPtr(75)}},
	}
	activity := []models.ActivityRecord{
		{Steps: 4000, Contributors: models.ActivityContributors{TrainingVolume: models.IntPtr(55)}},
		{Steps: 9000, Contributors: models.ActivityContributors{TrainingVolume: models.IntPtr(80)}},
	}

	cases := []struct {
		metric string
		want   []float64
	}{
		{"deep_sleep", []float64{70, 85}},
		{"total_sleep_duration", []float64{25200, 28800}},
		{"hrv_balance", []float64{60, 75}},
		{"steps", []float64{4000, 9000}},
		{"training_volume", []float64{55, 80}},
	}
	for _, tc := range cases {
		got := e.extract(sleep, readiness, activity, tc.metric)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.metric, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: got %v, want %v", tc.metric, got, tc.want)
			}
		}
	}
}

func TestFamilyRouting(t *testing.T) {
	cases := []struct {
		metric string
		want   family
	}{
		{"sleep_score", familySleep},
		{"deep_sleep", familySleep},
		{"readiness_score", familyReadiness},
		{"hrv_balance", familyReadiness},
		{"resting_heart_rate", familyReadiness},
		{"body_temperature", familyReadiness},
		{"activity_score", familyActivity},
		{"steps", familyActivity},
		{"recovery_index", familyReadiness},
	}
	for _, tc := range cases {
		if got := familyFor(tc.metric); got != tc.want {
			t.Fatalf("familyFor(%q) = %v, want %v", tc.metric, got, tc.want)
		}
	}
}

func TestCorrelateReport(t *testing.T) {
	e := New()
	sleep := sleepScores(70, 75, 80, 85, 90)
	readiness := readinessScores(60, 65, 70, 75, 80)

	out := e.Report(e.Correlate(sleep, readiness, nil, "sleep_score", "readiness_score", 30))

	for _, want := range []string{
		"# 📊 Correlation Analysis (30 days)",
		"- Sleep Score\n",
		"🔴 **Correlation:** +0.800",
		"**Strength:** Strong",
		"**Direction:** positive",
		"**Data Points:** 5",
		"These metrics show a strong positive relationship.",
		"When sleep_score increases, readiness_score tends to increase as well.",
		"- Mean: 80.0",
		"- Range: 70.0 - 90.0",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestCorrelateReportWeakInterpretation(t *testing.T) {
	e := New()
	out := e.Report(e.Correlate(sleepScores(1, 2, 3, 4), readinessScores(2, 1, 4, 3), nil, "sleep_score", "readiness_score", 14))
	if !strings.Contains(out, "little to no clear relationship") {
		t.Fatalf("report missing weak interpretation:\n%s", out)
	}
}

func TestCorrelateReportInsufficient(t *testing.T) {
	e := New()
	out := e.Report(e.Correlate(nil, nil, nil, "sleep_score", "readiness_score", 7))
	if !strings.Contains(out, "⚠️ Insufficient data") {
		t.Fatalf("report = %q", out)
	}
}
