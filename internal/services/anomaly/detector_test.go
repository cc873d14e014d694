package anomaly

import (
	"strings"
	"testing"

	"HealthPull/internal/domain/models"
)

func sleepWindow(scores []int, deep []int, rest []int) []models.SleepRecord {
	records := make([]models.SleepRecord, len(scores))
	for i := range scores {
		records[i] = models.SleepRecord{
			Score: models.IntPtr(scores[i]),
			Contributors: models.SleepContributors{
				DeepSleep:   models.IntPtr(deep[i]),
				Restfulness: models.IntPtr(rest[i]),
			},
		}
	}
	return records
}

func TestSleepAnomaliesStableNight(t *testing.T) {
	d := New()
	window := sleepWindow(
		[]int{80, 82, 78, 81, 79, 80, 83},
		[]int{85, 88, 84, 86, 87, 85, 86},
		[]int{90, 88, 91, 89, 90, 92, 88},
	)
	current := models.SleepRecord{
		Score: models.IntPtr(81),
		Contributors: models.SleepContributors{
			DeepSleep:   models.IntPtr(86),
			Restfulness: models.IntPtr(90),
		},
	}

	got := d.SleepAnomalies(current, window)
	if len(got) != 0 {
		t.Fatalf("expected no anomalies, got %d: %+v", len(got), got)
	}
}

func TestSleepAnomaliesScoreDeviation(t *testing.T) {
	d := New()
	window := sleepWindow(
		[]int{80, 82, 78, 81, 79, 80, 83},
		[]int{85, 88, 84, 86, 87, 85, 86},
		[]int{90, 88, 91, 89, 90, 92, 88},
	)
	current := models.SleepRecord{
		Score: models.IntPtr(55),
		Contributors: models.SleepContributors{
			DeepSleep:   models.IntPtr(86),
			Restfulness: models.IntPtr(90),
		},
	}

	got := d.SleepAnomalies(current, window)
	if len(got) != 1 {
		t.Fatalf("expected 1 anomaly, got %d: %+v", len(got), got)
	}
	a := got[0]
	if a.Metric != "sleep_score" || a.Type != "significant_deviation" {
		t.Fatalf("unexpected anomaly %+v", a)
	}
	if a.Severity != models.SeverityHigh {
		t.Fatalf("severity = %s, want high", a.Severity)
	}
	if !strings.Contains(a.Message, "below your 30-day average") {
		t.Fatalf("unexpected message %q", a.Message)
	}
	if a.BaselineMean == nil || a.DeviationPct == nil {
		t.Fatalf("expected baseline context, got %+v", a)
	}
	if *a.DeviationPct >= 0 {
		t.Fatalf("deviation pct = %v, want negative", *a.DeviationPct)
	}
}

func TestSleepAnomaliesDeepSleepDrop(t *testing.T) {
	d := New()
	window := sleepWindow(
		[]int{80, 82, 78, 81, 79, 80, 83},
		[]int{85, 88, 84, 86, 87, 85, 86},
		[]int{90, 88, 91, 89, 90, 92, 88},
	)
	current := models.SleepRecord{
		Score: models.IntPtr(80),
		Contributors: models.SleepContributors{
			DeepSleep:   models.IntPtr(50), // ~42% below the mid-80s baseline
			Restfulness: models.IntPtr(90),
		},
	}

	got := d.SleepAnomalies(current, window)
	if len(got) != 1 {
		t.Fatalf("expected 1 anomaly, got %d: %+v", len(got), got)
	}
	a := got[0]
	if a.Metric != "deep_sleep" || a.Type != "significant_drop" || a.Severity != models.SeverityHigh {
		t.Fatalf("unexpected anomaly %+v", a)
	}
	if len(a.PossibleCauses) != 6 {
		t.Fatalf("expected 6 possible causes, got %d", len(a.PossibleCauses))
	}
	if !strings.Contains(a.Message, "below normal") {
		t.Fatalf("unexpected message %q", a.Message)
	}
}

func TestSleepAnomaliesRestfulness(t *testing.T) {
	d := New()
	window := sleepWindow(
		[]int{80, 82, 78, 81, 79, 80, 83},
		[]int{85, 88, 84, 86, 87, 85, 86},
		[]int{90, 88, 91, 89, 90, 92, 88},
	)
	current := models.SleepRecord{
		Score: models.IntPtr(80),
		Contributors: models.SleepContributors{
			DeepSleep:   models.IntPtr(86),
			Restfulness: models.IntPtr(65), // ~28% below baseline
		},
	}

	got := d.SleepAnomalies(current, window)
	if len(got) != 1 {
		t.Fatalf("expected 1 anomaly, got %d: %+v", len(got), got)
	}
	a := got[0]
	if a.Metric != "restfulness" || a.Type != "increased_movement" || a.Severity != models.SeverityMedium {
		t.Fatalf("unexpected anomaly %+v", a)
	}
	if len(a.PossibleCauses) != 5 {
		t.Fatalf("expected 5 possible causes, got %d", len(a.PossibleCauses))
	}
}

func TestSleepAnomaliesMissingContributors(t *testing.T) {
	d := New()
	window := sleepWindow(
		[]int{80, 82, 78, 81, 79, 80, 83},
		[]int{85, 88, 84, 86, 87, 85, 86},
		[]int{90, 88, 91, 89, 90, 92, 88},
	)
	current := models.SleepRecord{Score: models.IntPtr(80)}

	got := d.SleepAnomalies(current, window)
	if len(got) != 0 {
		t.Fatalf("expected no anomalies for missing contributors, got %+v", got)
	}
}

func readinessWindow(hrv []int, temp []int) []models.ReadinessRecord {
	records := make([]models.ReadinessRecord, len(hrv))
	for i := range hrv {
		records[i] = models.ReadinessRecord{
			Score: models.IntPtr(75),
			Contributors: models.ReadinessContributors{
				HRVBalance:      models.IntPtr(hrv[i]),
				BodyTemperature: models.IntPtr(temp[i]),
			},
		}
	}
	return records
}

func TestReadinessAnomaliesLowHRV(t *testing.T) {
	d := New()
	window := readinessWindow(
		[]int{70, 72, 68, 71, 69, 70, 73},
		[]int{95, 96, 94, 95, 97, 96, 95},
	)

	tests := []struct {
		name     string
		hrv      int
		want     int
		severity models.Severity
	}{
		{"healthy", 70, 0, ""},
		{"moderate", 45, 1, models.SeverityMedium},
		{"critical", 25, 1, models.SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := models.ReadinessRecord{
				Contributors: models.ReadinessContributors{
					HRVBalance:      models.IntPtr(tt.hrv),
					BodyTemperature: models.IntPtr(95),
				},
			}
			got := d.ReadinessAnomalies(current, window)
			if len(got) != tt.want {
				t.Fatalf("got %d anomalies, want %d: %+v", len(got), tt.want, got)
			}
			if tt.want == 1 {
				if got[0].Type != "low_hrv" || got[0].Severity != tt.severity {
					t.Fatalf("unexpected anomaly %+v", got[0])
				}
			}
		})
	}
}

func TestReadinessAnomaliesTemperature(t *testing.T) {
	d := New()
	window := readinessWindow(
		[]int{70, 72, 68, 71, 69, 70, 73},
		[]int{95, 96, 94, 95, 97, 96, 95},
	)
	current := models.ReadinessRecord{
		Contributors: models.ReadinessContributors{
			HRVBalance:      models.IntPtr(70),
			BodyTemperature: models.IntPtr(80),
		},
	}

	got := d.ReadinessAnomalies(current, window)
	if len(got) != 1 {
		t.Fatalf("expected 1 anomaly, got %d: %+v", len(got), got)
	}
	a := got[0]
	if a.Metric != "body_temperature" || a.Type != "temperature_deviation" || a.Severity != models.SeverityMedium {
		t.Fatalf("unexpected anomaly %+v", a)
	}
	if a.BaselineMean != nil {
		t.Fatalf("temperature check should not carry baseline context, got %+v", a)
	}
}

func TestConsecutiveDecline(t *testing.T) {
	d := New()

	tests := []struct {
		name     string
		values   []float64
		days     int
		want     bool
		severity models.Severity
		drop     float64
	}{
		{"declining 3 days", []float64{60, 65, 70}, 3, true, models.SeverityMedium, -10},
		{"declining 4 days", []float64{55, 60, 65, 70}, 4, true, models.SeverityHigh, -15},
		{"stable", []float64{70, 70, 70}, 3, false, "", 0},
		{"recovering", []float64{75, 65, 70}, 3, false, "", 0},
		{"too few values", []float64{60, 65}, 3, false, "", 0},
		{"equal day breaks streak", []float64{60, 60, 70}, 3, false, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.ConsecutiveDecline(tt.values, tt.days)
			if !tt.want {
				if got != nil {
					t.Fatalf("expected nil, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected decline signal, got nil")
			}
			if got.Severity != tt.severity {
				t.Fatalf("severity = %s, want %s", got.Severity, tt.severity)
			}
			if got.TotalDrop != tt.drop {
				t.Fatalf("total drop = %v, want %v", got.TotalDrop, tt.drop)
			}
			if got.Days != tt.days {
				t.Fatalf("days = %d, want %d", got.Days, tt.days)
			}
		})
	}
}

func TestReportEmpty(t *testing.T) {
	d := New()
	got := d.Report(nil)
	if got != "✅ No significant anomalies detected" {
		t.Fatalf("unexpected report %q", got)
	}
}

func TestReportOrdersBySeverity(t *testing.T) {
	d := New()
	mean := 85.0
	pct := -41.2
	anomalies := []models.AnomalySignal{
		{
			Metric:   "restfulness",
			Severity: models.SeverityMedium,
			Current:  65,
			Message:  "Restfulness 65 indicates more movement than usual",
		},
		{
			Metric:         "deep_sleep",
			Severity:       models.SeverityHigh,
			Current:        50,
			BaselineMean:   &mean,
			Deviation:      -35,
			DeviationPct:   &pct,
			Message:        "⚠️ Deep sleep score 50 is 41% below normal",
			PossibleCauses: []string{"Stress or anxiety", "Alcohol consumption"},
		},
	}

	got := d.Report(anomalies)
	if !strings.HasPrefix(got, "## ⚠️ Anomalies Detected (2)") {
		t.Fatalf("unexpected header in %q", got)
	}
	deepIdx := strings.Index(got, "Deep Sleep")
	restIdx := strings.Index(got, "Restfulness")
	if deepIdx == -1 || restIdx == -1 || deepIdx > restIdx {
		t.Fatalf("high severity should come first:\n%s", got)
	}
	if !strings.Contains(got, "- **Change:** -35.0 (-41.2%)") {
		t.Fatalf("missing change line:\n%s", got)
	}
	if !strings.Contains(got, "**Possible causes:**\n- Stress or anxiety") {
		t.Fatalf("missing causes block:\n%s", got)
	}
}
