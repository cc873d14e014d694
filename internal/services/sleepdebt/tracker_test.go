package sleepdebt

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"HealthPull/internal/domain/models"
)

func night(day string, hours float64, score int) models.SleepRecord {
	r := models.SleepRecord{Day: day, TotalSleepSeconds: int(hours * 3600)}
	if score > 0 {
		r.Score = models.IntPtr(score)
	}
	return r
}

func TestEstimateSleepNeedNoData(t *testing.T) {
	tr := NewTracker(0)
	got := tr.EstimateSleepNeed(nil, nil)
	if got.Hours != 7.0 || got.Method != models.NeedMethodDefault {
		t.Fatalf("unexpected estimate %+v", got)
	}
}

func TestEstimateSleepNeedReadinessCorrelation(t *testing.T) {
	tr := NewTracker(0)

	var sleep []models.SleepRecord
	var readiness []models.ReadinessRecord
	for i := 0; i < 21; i++ {
		day := fmt.Sprintf("2026-01-%02d", i+1)
		// Best readiness follows the longer nights.
		hours := 7.0
		score := 70
		if i%3 == 0 {
			hours = 8.5
			score = 90
		}
		sleep = append(sleep, night(day, hours, 80))
		readiness = append(readiness, models.ReadinessRecord{Day: day, Score: models.IntPtr(score)})
	}

	got := tr.EstimateSleepNeed(sleep, readiness)
	if got.Method != models.NeedMethodReadiness {
		t.Fatalf("method = %s, want readiness_correlation", got.Method)
	}
	if got.Hours != 8.5 {
		t.Fatalf("hours = %v, want 8.5 (top quartile all long nights)", got.Hours)
	}
}

func TestEstimateSleepNeedSleepScoreFallback(t *testing.T) {
	tr := NewTracker(0)

	var sleep []models.SleepRecord
	for i := 0; i < 16; i++ {
		day := fmt.Sprintf("2026-01-%02d", i+1)
		hours := 6.5
		score := 65
		if i < 5 {
			hours = 8.0
			score = 90
		}
		sleep = append(sleep, night(day, hours, score))
	}

	// Only 3 readiness days, not enough for correlation.
	readiness := []models.ReadinessRecord{
		{Day: "2026-01-01", Score: models.IntPtr(80)},
		{Day: "2026-01-02", Score: models.IntPtr(80)},
		{Day: "2026-01-03", Score: models.IntPtr(80)},
	}

	got := tr.EstimateSleepNeed(sleep, readiness)
	if got.Method != models.NeedMethodSleepScore {
		t.Fatalf("method = %s, want sleep_score_correlation", got.Method)
	}
	if got.Hours != 8.0 {
		t.Fatalf("hours = %v, want 8.0", got.Hours)
	}
}

func TestEstimateSleepNeedPercentile(t *testing.T) {
	tr := NewTracker(0)

	// Unscored nights force the duration percentile method.
	sleep := []models.SleepRecord{
		night("2026-01-01", 6.0, 0),
		night("2026-01-02", 7.0, 0),
		night("2026-01-03", 8.0, 0),
	}

	got := tr.EstimateSleepNeed(sleep, nil)
	if got.Method != models.NeedMethodPercentile {
		t.Fatalf("method = %s, want duration_percentile", got.Method)
	}
	// Exclusive quantiles over [6,7,8]: 75th percentile returns 8.
	if got.Hours != 8.0 {
		t.Fatalf("hours = %v, want 8.0", got.Hours)
	}
}

func TestEstimateSleepNeedNightOwlFallback(t *testing.T) {
	tr := NewTracker(0)
	sleep := []models.SleepRecord{night("2026-01-01", 6.0, 0)}

	got := tr.EstimateSleepNeed(sleep, nil)
	if got.Method != models.NeedMethodNightOwl || got.Hours != 7.0 {
		t.Fatalf("unexpected estimate %+v", got)
	}
}

func TestAnalyzeDebtNoData(t *testing.T) {
	tr := NewTracker(8)
	got := tr.AnalyzeDebt(nil, nil, 30)
	if got.Status != models.DebtStatusNoData {
		t.Fatalf("status = %s, want no_data", got.Status)
	}
}

func TestAnalyzeDebtAccumulation(t *testing.T) {
	tr := NewTracker(8)
	sleep := []models.SleepRecord{
		night("2026-01-01", 6.0, 70), // +2h debt
		night("2026-01-02", 6.0, 70), // +2h debt (4 total)
		night("2026-01-03", 9.0, 85), // 1h surplus pays back 0.5h (3.5 total)
	}

	got := tr.AnalyzeDebt(sleep, nil, 0)
	if got.Status != models.DebtStatusCalculated {
		t.Fatalf("status = %s", got.Status)
	}
	if math.Abs(got.TotalDebtHours-3.5) > 1e-9 {
		t.Fatalf("total debt = %v, want 3.5", got.TotalDebtHours)
	}
	if got.DaysInDebt != 2 || got.DaysSurplus != 1 {
		t.Fatalf("days in debt/surplus = %d/%d, want 2/1", got.DaysInDebt, got.DaysSurplus)
	}
	if got.DetectionMethod != models.NeedMethodUser || got.PersonalTargetUsed {
		t.Fatalf("unexpected target fields %+v", got)
	}
	if len(got.DebtOverTime) != 3 {
		t.Fatalf("timeline length = %d, want 3", len(got.DebtOverTime))
	}
	last := got.DebtOverTime[2]
	if math.Abs(last.AccumulatedDebt-3.5) > 1e-9 || math.Abs(last.Deficit-1.0) > 1e-9 {
		t.Fatalf("unexpected last timeline entry %+v", last)
	}
}

func TestAnalyzeDebtNeverGoesNegative(t *testing.T) {
	tr := NewTracker(8)
	sleep := []models.SleepRecord{
		night("2026-01-01", 10.0, 85),
		night("2026-01-02", 10.0, 85),
	}

	got := tr.AnalyzeDebt(sleep, nil, 0)
	if got.TotalDebtHours != 0 {
		t.Fatalf("debt = %v, want 0 (no credit)", got.TotalDebtHours)
	}
	if got.RecoveryDaysEstimate != 0 {
		t.Fatalf("recovery = %d, want 0", got.RecoveryDaysEstimate)
	}
}

func TestAnalyzeDebtLookbackWindow(t *testing.T) {
	tr := NewTracker(8)
	var sleep []models.SleepRecord
	for i := 0; i < 20; i++ {
		sleep = append(sleep, night(fmt.Sprintf("2026-01-%02d", i+1), 7.0, 75))
	}

	got := tr.AnalyzeDebt(sleep, nil, 7)
	if got.DaysAnalyzed != 7 {
		t.Fatalf("days analyzed = %d, want 7", got.DaysAnalyzed)
	}
	if math.Abs(got.TotalDebtHours-7.0) > 1e-9 {
		t.Fatalf("debt = %v, want 7.0", got.TotalDebtHours)
	}
}

func TestSeverityLadder(t *testing.T) {
	tests := []struct {
		debt  float64
		level string
	}{
		{1, "minimal"},
		{5, "mild"},
		{12, "moderate"},
		{30, "elevated"},
		{50, "severe"},
		{60, "critical"},
	}

	for _, tt := range tests {
		got := assessSeverity(tt.debt, 8.0)
		if got.Level != tt.level {
			t.Fatalf("debt %v: level = %s, want %s", tt.debt, got.Level, tt.level)
		}
	}
}

func TestSeverityScalesWithNeed(t *testing.T) {
	// 7h of debt is mild for an 8h sleeper but moderate for a 6h sleeper
	// whose mild ceiling scales down to 6h.
	if got := assessSeverity(7, 8.0); got.Level != "mild" {
		t.Fatalf("8h need: level = %s, want mild", got.Level)
	}
	if got := assessSeverity(7, 6.0); got.Level != "moderate" {
		t.Fatalf("6h need: level = %s, want moderate", got.Level)
	}
}

func TestRecoveryEstimate(t *testing.T) {
	if got := estimateRecovery(0, 0); got != 0 {
		t.Fatalf("no debt recovery = %d, want 0", got)
	}
	if got := estimateRecovery(5, 0); got != 5 {
		t.Fatalf("recovery = %d, want 5", got)
	}
	// Ongoing deficits halve the payback rate.
	if got := estimateRecovery(5, -1.0); got != 10 {
		t.Fatalf("recovery = %d, want 10", got)
	}
	if got := estimateRecovery(100, 0); got != 30 {
		t.Fatalf("recovery = %d, want capped at 30", got)
	}
}

func TestOptimalSleepForAge(t *testing.T) {
	if got := OptimalSleepForAge(16); got != 9.0 {
		t.Fatalf("teenager = %v, want 9.0", got)
	}
	if got := OptimalSleepForAge(40); got != 8.0 {
		t.Fatalf("adult = %v, want 8.0", got)
	}
	if got := OptimalSleepForAge(70); got != 7.5 {
		t.Fatalf("senior = %v, want 7.5", got)
	}
}

func TestEfficiencyDebt(t *testing.T) {
	tr := NewTracker(8)

	sleep := []models.SleepRecord{
		{Contributors: models.SleepContributors{Efficiency: models.IntPtr(90)}},
		{Contributors: models.SleepContributors{Efficiency: models.IntPtr(75)}}, // 1.0h equivalent
		{Contributors: models.SleepContributors{Efficiency: models.IntPtr(80)}}, // 0.5h equivalent
	}

	got := tr.EfficiencyDebt(sleep)
	if got.Status != models.DebtStatusCalculated {
		t.Fatalf("status = %s", got.Status)
	}
	if got.QualityDebtHours != 1.5 {
		t.Fatalf("quality debt = %v, want 1.5", got.QualityDebtHours)
	}
	if got.NightsPoorEfficiency != 2 {
		t.Fatalf("poor nights = %d, want 2", got.NightsPoorEfficiency)
	}

	if tr.EfficiencyDebt(nil).Status != models.DebtStatusNoData {
		t.Fatal("nil input should report no_data")
	}
	noEff := []models.SleepRecord{{}}
	if tr.EfficiencyDebt(noEff).Status != models.DebtStatusNoEfficiencyData {
		t.Fatal("missing contributors should report no_efficiency_data")
	}
}

func TestReportSections(t *testing.T) {
	tr := NewTracker(0)
	var sleep []models.SleepRecord
	for i := 0; i < 20; i++ {
		sleep = append(sleep, night(fmt.Sprintf("2026-01-%02d", i+1), 6.0, 70))
	}

	got := tr.Report(sleep, nil, 14)
	for _, want := range []string{
		"# 💤 Sleep Debt Analysis (14 days)",
		"## 📊 Key Metrics",
		"- **Total Sleep Debt:**",
		"## 🎯 Impact on Performance",
		"## 🔄 Recovery Plan",
		"## 📈 Recent Debt Timeline (Last 14 Days)",
		"## 💡 Sleep Optimization Tips",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("report missing %q:\n%s", want, got)
		}
	}
}

func TestReportNoData(t *testing.T) {
	tr := NewTracker(8)
	if got := tr.Report(nil, nil, 30); got != "⚠️ No sleep data available for debt analysis" {
		t.Fatalf("unexpected report %q", got)
	}
}
