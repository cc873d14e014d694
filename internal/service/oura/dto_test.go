package oura

import (
	"testing"
	"time"

	"HealthPull/internal/domain/models"
)

func TestMergeSleepPrefersLongSleep(t *testing.T) {
	daily := []dailySleepDTO{{Day: "2026-01-10", Score: models.IntPtr(82)}}
	sessions := []sleepSessionDTO{
		{Day: "2026-01-10", Type: "sleep", TotalSleepDuration: 1800, BedtimeStart: "2026-01-10T14:00:00+00:00"},
		{Day: "2026-01-10", Type: "long_sleep", TotalSleepDuration: 27000, BedtimeStart: "2026-01-09T23:10:00+00:00", AverageBreath: 14.2},
	}

	out := mergeSleep(daily, sessions)
	if len(out) != 1 {
		t.Fatalf("records = %d, want 1", len(out))
	}
	r := out[0]
	if r.Score == nil || *r.Score != 82 {
		t.Fatalf("score not carried from daily summary: %+v", r)
	}
	if r.TotalSleepSeconds != 27000 {
		t.Fatalf("duration = %d, want the long_sleep session", r.TotalSleepSeconds)
	}
	if r.BedtimeStart != "2026-01-09T23:10:00+00:00" {
		t.Fatalf("bedtime = %q", r.BedtimeStart)
	}
	if r.BreathAverage != 14.2 {
		t.Fatalf("breath = %v", r.BreathAverage)
	}
}

func TestMergeSleepLongestWhenUntyped(t *testing.T) {
	daily := []dailySleepDTO{{Day: "2026-01-10"}}
	sessions := []sleepSessionDTO{
		{Day: "2026-01-10", TotalSleepDuration: 1200},
		{Day: "2026-01-10", TotalSleepDuration: 25200},
	}

	out := mergeSleep(daily, sessions)
	if out[0].TotalSleepSeconds != 25200 {
		t.Fatalf("duration = %d, want longest session", out[0].TotalSleepSeconds)
	}
}

func TestMergeSleepNoSessionMatch(t *testing.T) {
	daily := []dailySleepDTO{{Day: "2026-01-10", Score: models.IntPtr(75)}}

	out := mergeSleep(daily, nil)
	r := out[0]
	if r.TotalSleepSeconds != 0 || r.BedtimeStart != "" {
		t.Fatalf("unmatched day should leave session fields zero: %+v", r)
	}
}

func TestMergeSleepSortsByDay(t *testing.T) {
	daily := []dailySleepDTO{{Day: "2026-01-12"}, {Day: "2026-01-10"}, {Day: "2026-01-11"}}

	out := mergeSleep(daily, nil)
	want := []string{"2026-01-10", "2026-01-11", "2026-01-12"}
	for i, d := range want {
		if out[i].Day != d {
			t.Fatalf("order = %v", out)
		}
	}
}

func TestDateParams(t *testing.T) {
	start := time.Date(2026, 1, 1, 13, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 2, 0, 0, 0, time.UTC)

	p := dateParams(start, end)
	if p["start_date"][0] != "2026-01-01" || p["end_date"][0] != "2026-01-31" {
		t.Fatalf("params = %v", p)
	}
}
