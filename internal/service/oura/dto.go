package oura

import (
	"sort"

	"HealthPull/internal/domain/models"
)

// Oura API v2 wire shapes. Collection endpoints wrap rows in {"data":[...]}.

type envelope[T any] struct {
	Data      []T     `json:"data"`
	NextToken *string `json:"next_token"`
}

type dailySleepDTO struct {
	ID           string `json:"id"`
	Day          string `json:"day"`
	Score        *int   `json:"score"`
	Contributors struct {
		DeepSleep   *int `json:"deep_sleep"`
		Efficiency  *int `json:"efficiency"`
		Latency     *int `json:"latency"`
		REMSleep    *int `json:"rem_sleep"`
		Restfulness *int `json:"restfulness"`
		Timing      *int `json:"timing"`
		TotalSleep  *int `json:"total_sleep"`
	} `json:"contributors"`
}

type sleepSessionDTO struct {
	Day                string  `json:"day"`
	Type               string  `json:"type"`
	TotalSleepDuration int     `json:"total_sleep_duration"`
	TimeInBed          int     `json:"time_in_bed"`
	DeepSleepDuration  int     `json:"deep_sleep_duration"`
	REMSleepDuration   int     `json:"rem_sleep_duration"`
	LightSleepDuration int     `json:"light_sleep_duration"`
	AwakeTime          int     `json:"awake_time"`
	BedtimeStart       string  `json:"bedtime_start"`
	BedtimeEnd         string  `json:"bedtime_end"`
	AverageBreath      float64 `json:"average_breath"`
}

type dailyReadinessDTO struct {
	Day          string `json:"day"`
	Score        *int   `json:"score"`
	Contributors struct {
		ActivityBalance     *int `json:"activity_balance"`
		BodyTemperature     *int `json:"body_temperature"`
		HRVBalance          *int `json:"hrv_balance"`
		PreviousDayActivity *int `json:"previous_day_activity"`
		PreviousNight       *int `json:"previous_night"`
		RecoveryIndex       *int `json:"recovery_index"`
		RestingHeartRate    *int `json:"resting_heart_rate"`
		SleepBalance        *int `json:"sleep_balance"`
		SleepRegularity     *int `json:"sleep_regularity"`
	} `json:"contributors"`
	TemperatureDeviation float64 `json:"temperature_deviation"`
}

type dailyActivityDTO struct {
	Day          string `json:"day"`
	Score        *int   `json:"score"`
	Contributors struct {
		MeetDailyTargets  *int `json:"meet_daily_targets"`
		MoveEveryHour     *int `json:"move_every_hour"`
		RecoveryTime      *int `json:"recovery_time"`
		StayActive        *int `json:"stay_active"`
		TrainingFrequency *int `json:"training_frequency"`
		TrainingVolume    *int `json:"training_volume"`
	} `json:"contributors"`
	Steps              int `json:"steps"`
	TotalCalories      int `json:"total_calories"`
	ActiveCalories     int `json:"active_calories"`
	HighActivityTime   int `json:"high_activity_time"`
	MediumActivityTime int `json:"medium_activity_time"`
	LowActivityTime    int `json:"low_activity_time"`
}

type personalInfoDTO struct {
	Age           int     `json:"age"`
	Weight        float64 `json:"weight"`
	Height        float64 `json:"height"`
	BiologicalSex string  `json:"biological_sex"`
	Email         string  `json:"email"`
}

// mergeSleep joins daily summaries with detailed sessions by day. The main
// nightly session ("long_sleep", or the longest when untyped) supplies the
// duration, bedtime and breath fields the daily endpoint lacks.
func mergeSleep(daily []dailySleepDTO, sessions []sleepSessionDTO) []models.SleepRecord {
	byDay := make(map[string]sleepSessionDTO, len(sessions))
	for _, s := range sessions {
		if s.Day == "" {
			continue
		}
		cur, ok := byDay[s.Day]
		switch {
		case !ok:
			byDay[s.Day] = s
		case s.Type == "long_sleep" && cur.Type != "long_sleep":
			byDay[s.Day] = s
		case (s.Type == "long_sleep") == (cur.Type == "long_sleep") && s.TotalSleepDuration > cur.TotalSleepDuration:
			byDay[s.Day] = s
		}
	}

	out := make([]models.SleepRecord, 0, len(daily))
	for _, d := range daily {
		r := models.SleepRecord{
			Day:   d.Day,
			Score: d.Score,
			Contributors: models.SleepContributors{
				TotalSleep:  d.Contributors.TotalSleep,
				DeepSleep:   d.Contributors.DeepSleep,
				REMSleep:    d.Contributors.REMSleep,
				Efficiency:  d.Contributors.Efficiency,
				Restfulness: d.Contributors.Restfulness,
				Latency:     d.Contributors.Latency,
				Timing:      d.Contributors.Timing,
			},
		}
		if s, ok := byDay[d.Day]; ok {
			r.TotalSleepSeconds = s.TotalSleepDuration
			r.TimeInBedSeconds = s.TimeInBed
			r.DeepSleepSeconds = s.DeepSleepDuration
			r.REMSleepSeconds = s.REMSleepDuration
			r.LightSleepSeconds = s.LightSleepDuration
			r.AwakeSeconds = s.AwakeTime
			r.BedtimeStart = s.BedtimeStart
			r.BedtimeEnd = s.BedtimeEnd
			r.BreathAverage = s.AverageBreath
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

func toReadiness(rows []dailyReadinessDTO) []models.ReadinessRecord {
	out := make([]models.ReadinessRecord, 0, len(rows))
	for _, d := range rows {
		out = append(out, models.ReadinessRecord{
			Day:   d.Day,
			Score: d.Score,
			Contributors: models.ReadinessContributors{
				ActivityBalance:     d.Contributors.ActivityBalance,
				BodyTemperature:     d.Contributors.BodyTemperature,
				HRVBalance:          d.Contributors.HRVBalance,
				PreviousDayActivity: d.Contributors.PreviousDayActivity,
				PreviousNight:       d.Contributors.PreviousNight,
				RecoveryIndex:       d.Contributors.RecoveryIndex,
				RestingHeartRate:    d.Contributors.RestingHeartRate,
				SleepBalance:        d.Contributors.SleepBalance,
				SleepRegularity:     d.Contributors.SleepRegularity,
			},
			TemperatureDeviation: d.TemperatureDeviation,
		})
	}
	return out
}

func toActivity(rows []dailyActivityDTO) []models.ActivityRecord {
	out := make([]models.ActivityRecord, 0, len(rows))
	for _, d := range rows {
		out = append(out, models.ActivityRecord{
			Day:   d.Day,
			Score: d.Score,
			Contributors: models.ActivityContributors{
				MeetDailyTargets:  d.Contributors.MeetDailyTargets,
				MoveEveryHour:     d.Contributors.MoveEveryHour,
				RecoveryTime:      d.Contributors.RecoveryTime,
				StayActive:        d.Contributors.StayActive,
				TrainingFrequency: d.Contributors.TrainingFrequency,
				TrainingVolume:    d.Contributors.TrainingVolume,
			},
			Steps:                 d.Steps,
			TotalCalories:         d.TotalCalories,
			ActiveCalories:        d.ActiveCalories,
			HighActivitySeconds:   d.HighActivityTime,
			MediumActivitySeconds: d.MediumActivityTime,
			LowActivitySeconds:    d.LowActivityTime,
		})
	}
	return out
}
