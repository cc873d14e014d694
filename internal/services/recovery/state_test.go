package recovery

import (
	"math"
	"testing"

	"HealthPull/internal/domain/models"
)

func TestStateWeightedScore(t *testing.T) {
	e := New()

	// 90*.35 + 85*.30 + 80*.20 + 100*.10 + 95*.05 = 87.8
	got := e.State(85, 90, 0, 80, 95)
	if math.Abs(got.RecoveryScore-87.8) > 1e-9 {
		t.Fatalf("recovery score = %v, want 87.8", got.RecoveryScore)
	}
	if got.State != "Fully Recovered" || got.Confidence != 0.9 {
		t.Fatalf("unexpected state %+v", got)
	}
	if len(got.Signals) != 5 {
		t.Fatalf("expected 5 signals, got %d", len(got.Signals))
	}
}

func TestStateRHRPenalty(t *testing.T) {
	e := New()

	// A 12 bpm deviation floors the RHR component at 0.
	got := e.State(85, 90, 12, 80, 95)
	// 90*.35 + 85*.30 + 80*.20 + 0*.10 + 95*.05 = 77.8
	if math.Abs(got.RecoveryScore-77.8) > 1e-9 {
		t.Fatalf("recovery score = %v, want 77.8", got.RecoveryScore)
	}
	if got.State != "Well Recovered" {
		t.Fatalf("state = %s, want Well Recovered", got.State)
	}
}

func TestStateTiers(t *testing.T) {
	e := New()

	tests := []struct {
		name       string
		readiness  int
		state      string
		confidence float64
	}{
		{"not recovered", 20, "Not Recovered", 0.85},
		{"partially", 45, "Partially Recovered", 0.7},
		{"adequate", 57, "Adequately Recovered", 0.75},
		{"well", 70, "Well Recovered", 0.85},
		{"full", 90, "Fully Recovered", 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Uniform inputs keep the weighted score near the raw value.
			got := e.State(tt.readiness, tt.readiness, 0, tt.readiness, tt.readiness)
			if got.State != tt.state {
				t.Fatalf("state = %s (score %v), want %s", got.State, got.RecoveryScore, tt.state)
			}
			if got.Confidence != tt.confidence {
				t.Fatalf("confidence = %v, want %v", got.Confidence, tt.confidence)
			}
		})
	}
}

func TestTrainingReadinessThresholds(t *testing.T) {
	e := New()

	tests := []struct {
		name         string
		trainingType string
		score        float64
		verdict      string
	}{
		{"general optimal", "general", 72, "GO"},
		{"general modified", "general", 60, "GO (Modified)"},
		{"general caution", "general", 48, "CAUTION"},
		{"general nogo", "general", 40, "NO-GO"},
		{"high intensity needs more", "high_intensity", 72, "GO (Modified)"},
		{"strength nogo", "strength", 50, "NO-GO"},
		{"unknown falls back to general", "crossfit", 72, "GO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := models.RecoveryState{RecoveryScore: tt.score}
			got := e.TrainingReadiness(75, state, tt.trainingType)
			if got.GoNoGo != tt.verdict {
				t.Fatalf("verdict = %s, want %s", got.GoNoGo, tt.verdict)
			}
		})
	}
}

func TestTrainingReadinessKeyFactors(t *testing.T) {
	e := New()

	state := e.State(75, 45, 6, 60, 80)
	got := e.TrainingReadiness(75, state, "high_intensity")

	want := map[string]bool{
		"Low HRV - autonomic stress":   false,
		"Poor sleep quality":           false,
		"Elevated resting heart rate":  false,
		"Body temperature deviation":   false,
	}
	for _, f := range got.KeyFactors {
		if _, ok := want[f]; ok {
			want[f] = true
		}
	}
	for f, seen := range want {
		if !seen {
			t.Fatalf("missing key factor %q in %v", f, got.KeyFactors)
		}
	}
	if got.TrainingType != "High Intensity" {
		t.Fatalf("training type = %s, want High Intensity", got.TrainingType)
	}
}

func TestTrainingReadinessHealthyFactors(t *testing.T) {
	e := New()

	state := e.State(85, 90, 0, 85, 95)
	got := e.TrainingReadiness(85, state, "general")
	if len(got.KeyFactors) != 1 || got.KeyFactors[0] != "All metrics within acceptable ranges" {
		t.Fatalf("unexpected key factors %v", got.KeyFactors)
	}
}

func TestInterpretScores(t *testing.T) {
	e := New()

	if got := e.SleepScore(90); got.Quality != "Excellent" {
		t.Fatalf("sleep 90 = %s, want Excellent", got.Quality)
	}
	if got := e.SleepScore(59); got.Quality != "Poor" {
		t.Fatalf("sleep 59 = %s, want Poor", got.Quality)
	}
	if got := e.ReadinessScore(85); got.Quality != "Optimal" {
		t.Fatalf("readiness 85 = %s, want Optimal", got.Quality)
	}
	if got := e.ActivityScore(65); got.Quality != "Fair" {
		t.Fatalf("activity 65 = %s, want Fair", got.Quality)
	}
}

func TestHRVBalanceBaselineStatus(t *testing.T) {
	e := New()

	tests := []struct {
		name     string
		score    int
		baseline float64
		status   string
		want     string
	}{
		{"normal variation", 72, 70, "Moderate", "Normal variation"},
		{"significantly below", 50, 70, "Moderate", "Significantly below baseline (29%)"},
		{"below", 60, 70, "Moderate", "Below baseline (14%)"},
		{"significantly above", 90, 70, "Balanced", "Significantly above baseline (29%)"},
		{"above", 80, 70, "Balanced", "Above baseline (14%)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.HRVBalance(tt.score, &tt.baseline)
			if got.Status != tt.status {
				t.Fatalf("status = %s, want %s", got.Status, tt.status)
			}
			if got.BaselineStatus != tt.want {
				t.Fatalf("baseline status = %q, want %q", got.BaselineStatus, tt.want)
			}
		})
	}
}

func TestHRVBalanceNoBaseline(t *testing.T) {
	e := New()
	got := e.HRVBalance(25, nil)
	if got.Status != "Very Low" || got.BaselineStatus != "" || got.DeviationPct != nil {
		t.Fatalf("unexpected interpretation %+v", got)
	}
}

func TestRestingHR(t *testing.T) {
	e := New()
	baseline := 55.0

	tests := []struct {
		name    string
		current float64
		status  string
	}{
		{"normal", 56, "Normal"},
		{"elevated", 62, "Elevated"},
		{"lower", 48, "Lower"},
		{"slight", 59, "Slight Variation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.RestingHR(tt.current, &baseline)
			if got.Status != tt.status {
				t.Fatalf("status = %s, want %s", got.Status, tt.status)
			}
		})
	}

	noBase := e.RestingHR(60, nil)
	if noBase.Status != "No Baseline" || noBase.Deviation != nil {
		t.Fatalf("unexpected interpretation %+v", noBase)
	}
	elevated := e.RestingHR(62, &baseline)
	if len(elevated.Causes) != 6 {
		t.Fatalf("expected 6 causes for elevated RHR, got %d", len(elevated.Causes))
	}
}

func TestTemperature(t *testing.T) {
	e := New()

	tests := []struct {
		score  int
		status string
		causes int
	}{
		{98, "Normal", 0},
		{88, "Slight Variation", 0},
		{75, "Moderate Deviation", 5},
		{60, "Significant Deviation", 4},
	}

	for _, tt := range tests {
		got := e.Temperature(tt.score, nil)
		if got.Status != tt.status {
			t.Fatalf("score %d: status = %s, want %s", tt.score, got.Status, tt.status)
		}
		if len(got.Causes) != tt.causes {
			t.Fatalf("score %d: %d causes, want %d", tt.score, len(got.Causes), tt.causes)
		}
	}
}
