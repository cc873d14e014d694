package baseline

import (
	"math"
	"testing"

	"HealthPull/internal/domain/models"
)

func TestCalculateEmpty(t *testing.T) {
	b := Calculate(nil)
	if b.Count != 0 || b.Mean != 0 || b.StdDev != 0 || b.Min != 0 || b.Max != 0 {
		t.Fatalf("expected zero baseline, got %+v", b)
	}
}

func TestCalculateSingleSample(t *testing.T) {
	b := Calculate([]float64{72})
	if b.Count != 1 {
		t.Fatalf("count = %d", b.Count)
	}
	if b.StdDev != 0 {
		t.Fatalf("single-sample stdev must be 0, got %v", b.StdDev)
	}
	if b.Mean != 72 || b.Min != 72 || b.Max != 72 {
		t.Fatalf("unexpected baseline %+v", b)
	}
}

func TestCalculateReadinessWindow(t *testing.T) {
	b := Calculate([]float64{70, 72, 68, 75, 71, 69, 73})
	if math.Abs(b.Mean-71.142857) > 1e-4 {
		t.Fatalf("mean = %v", b.Mean)
	}
	if math.Abs(b.StdDev-2.4103) > 1e-3 {
		t.Fatalf("stdev = %v", b.StdDev)
	}
	if b.Min != 68 || b.Max != 75 || b.Count != 7 {
		t.Fatalf("unexpected baseline %+v", b)
	}
}

func TestInterpretHighlyAbnormal(t *testing.T) {
	b := Calculate([]float64{70, 72, 68, 75, 71, 69, 73})
	d := Interpret(60, b)
	if d.Status != models.DeviationHigh {
		t.Fatalf("status = %s", d.Status)
	}
	if d.StdUnits > -4.5 {
		t.Fatalf("std units = %v", d.StdUnits)
	}
	if d.Interpretation != "significantly decreased" {
		t.Fatalf("interpretation = %q", d.Interpretation)
	}
}

func TestInterpretStatusMonotonic(t *testing.T) {
	b := models.Baseline{Mean: 50, StdDev: 10, Min: 30, Max: 70, Count: 10}
	rank := map[models.DeviationStatus]int{
		models.DeviationNormal:   0,
		models.DeviationSlight:   1,
		models.DeviationModerate: 2,
		models.DeviationHigh:     3,
	}
	prev := -1
	for _, cur := range []float64{50, 54, 56, 59, 62, 64, 66, 70, 80, 120} {
		d := Interpret(cur, b)
		r, ok := rank[d.Status]
		if !ok {
			t.Fatalf("unexpected status %s for %v", d.Status, cur)
		}
		if r < prev {
			t.Fatalf("status rank decreased at %v: %d < %d", cur, r, prev)
		}
		prev = r
	}
}

func TestInterpretDegenerateBaseline(t *testing.T) {
	d := Interpret(55, models.Baseline{Mean: 55, Count: 1})
	if d.StdUnits != 0 || d.Percent != 0 {
		t.Fatalf("zero-stdev baseline must not divide: %+v", d)
	}
	if d.Status != models.DeviationNormal {
		t.Fatalf("status = %s", d.Status)
	}

	u := Interpret(55, models.Baseline{})
	if u.Status != models.DeviationUnknown {
		t.Fatalf("status = %s", u.Status)
	}
	if u.Interpretation != "No baseline data available" {
		t.Fatalf("interpretation = %q", u.Interpretation)
	}
}

func TestInterpretZeroMeanPercent(t *testing.T) {
	d := Interpret(5, models.Baseline{Mean: 0, StdDev: 2, Count: 4})
	if d.Percent != 0 {
		t.Fatalf("percent with zero mean = %v", d.Percent)
	}
	if d.StdUnits != 2.5 {
		t.Fatalf("std units = %v", d.StdUnits)
	}
}

func TestSleepBaselinesSkipsAbsent(t *testing.T) {
	records := []models.SleepRecord{
		{Day: "2025-06-01", Score: models.IntPtr(80), Contributors: models.SleepContributors{DeepSleep: models.IntPtr(70)}},
		{Day: "2025-06-02", Score: nil, Contributors: models.SleepContributors{DeepSleep: models.IntPtr(74)}},
		{Day: "2025-06-03", Score: models.IntPtr(0)},
	}
	bs := SleepBaselines(records)
	if got := bs["sleep_score"].Count; got != 1 {
		t.Fatalf("sleep_score count = %d", got)
	}
	if got := bs["deep_sleep"].Count; got != 2 {
		t.Fatalf("deep_sleep count = %d", got)
	}
	if _, ok := bs["restfulness"]; ok {
		t.Fatal("restfulness should be omitted with zero samples")
	}
}

func TestReadinessBaselinesZeroContributorCounts(t *testing.T) {
	records := []models.ReadinessRecord{
		{Day: "2025-06-01", Contributors: models.ReadinessContributors{HRVBalance: models.IntPtr(0)}},
		{Day: "2025-06-02", Contributors: models.ReadinessContributors{HRVBalance: models.IntPtr(60)}},
	}
	bs := ReadinessBaselines(records)
	if got := bs["hrv_balance"].Count; got != 2 {
		t.Fatalf("hrv_balance count = %d, explicit 0 must count", got)
	}
}

func TestActivityBaselinesSkipsZeroRaws(t *testing.T) {
	records := []models.ActivityRecord{
		{Day: "2025-06-01", Score: models.IntPtr(85), Steps: 9000, TotalCalories: 2600, ActiveCalories: 450},
		{Day: "2025-06-02", Steps: 0, TotalCalories: 0, ActiveCalories: 0},
	}
	bs := ActivityBaselines(records)
	if got := bs["steps"].Count; got != 1 {
		t.Fatalf("steps count = %d", got)
	}
	if _, ok := bs["activity_score"]; !ok {
		t.Fatal("activity_score baseline missing")
	}
}
