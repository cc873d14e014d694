package usecase

import (
	"context"
	"sync"
	"testing"

	"HealthPull/internal/domain/models"
	domrepo "HealthPull/internal/domain/repository"
)

type fakeWindow struct {
	mu        sync.Mutex
	sleep     []models.SleepRecord
	readiness []models.ReadinessRecord
	activity  []models.ActivityRecord
	err       error
	days      int
}

func (f *fakeWindow) SleepWindow(_ context.Context, days int) ([]models.SleepRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.days = days
	return f.sleep, f.err
}

func (f *fakeWindow) ReadinessWindow(_ context.Context, days int) ([]models.ReadinessRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.days = days
	return f.readiness, f.err
}

func (f *fakeWindow) ActivityWindow(_ context.Context, days int) ([]models.ActivityRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.days = days
	return f.activity, f.err
}

func (f *fakeWindow) gotDays() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.days
}

func TestGetRecordsSleep(t *testing.T) {
	w := &fakeWindow{sleep: []models.SleepRecord{
		{Day: "2024-05-01", Score: intp(80)},
		{Day: "2024-05-02", Score: intp(85)},
	}}
	uc := NewRecordsQueryUseCase(w)

	res, err := uc.GetRecords(context.Background(), GetRecordsParams{Family: domrepo.FamilySleep, Days: 14})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Family != "sleep" || res.Count != 2 || len(res.Sleep) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if w.gotDays() != 14 {
		t.Fatalf("window days = %d, want 14", w.gotDays())
	}
}

func TestGetRecordsUnknownFamily(t *testing.T) {
	uc := NewRecordsQueryUseCase(&fakeWindow{})
	if _, err := uc.GetRecords(context.Background(), GetRecordsParams{Family: "heartrate"}); err == nil {
		t.Fatalf("expected error for unknown family")
	}
}

func TestGetRecordsClampsDays(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, 30},
		{-5, 30},
		{400, 365},
		{90, 90},
	}
	for _, tc := range cases {
		w := &fakeWindow{}
		uc := NewRecordsQueryUseCase(w)
		res, err := uc.GetRecords(context.Background(), GetRecordsParams{Family: domrepo.FamilyActivity, Days: tc.in})
		if err != nil {
			t.Fatalf("days=%d: %v", tc.in, err)
		}
		if res.Days != tc.want || w.gotDays() != tc.want {
			t.Fatalf("days=%d: got %d, want %d", tc.in, res.Days, tc.want)
		}
	}
}
