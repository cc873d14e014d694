package models

// SleepContributors are the per-night sub-scores (0-100) behind a daily
// sleep score. Nil means the provider omitted that contributor for the day.
type SleepContributors struct {
	TotalSleep  *int
	DeepSleep   *int
	REMSleep    *int
	Efficiency  *int
	Restfulness *int
	Latency     *int
	Timing      *int
}

// SleepRecord is one night of sleep, daily summary merged with the longest
// session of the night. A Score of nil means the night was not scored.
type SleepRecord struct {
	Day          string // ISO date YYYY-MM-DD
	Score        *int
	Contributors SleepContributors

	TotalSleepSeconds int
	TimeInBedSeconds  int
	DeepSleepSeconds  int
	REMSleepSeconds   int
	LightSleepSeconds int
	AwakeSeconds      int

	BedtimeStart  string  // RFC3339, empty when no session matched
	BedtimeEnd    string
	BreathAverage float64 // breaths/min, 0 when absent
}

// ReadinessContributors are the daily readiness sub-scores. All optional.
type ReadinessContributors struct {
	ActivityBalance     *int
	BodyTemperature     *int
	HRVBalance          *int
	PreviousDayActivity *int
	PreviousNight       *int
	RecoveryIndex       *int
	RestingHeartRate    *int
	SleepBalance        *int
	SleepRegularity     *int
}

// ReadinessRecord is one day of readiness.
type ReadinessRecord struct {
	Day                  string
	Score                *int
	Contributors         ReadinessContributors
	TemperatureDeviation float64 // degrees C vs personal baseline, provider-computed
}

// ActivityContributors are the daily activity sub-scores. All optional.
type ActivityContributors struct {
	MeetDailyTargets  *int
	MoveEveryHour     *int
	RecoveryTime      *int
	StayActive        *int
	TrainingFrequency *int
	TrainingVolume    *int
}

// ActivityRecord is one day of movement. Zero raw values mean "not reported"
// for baseline purposes.
type ActivityRecord struct {
	Day          string
	Score        *int
	Contributors ActivityContributors

	Steps          int
	TotalCalories  int
	ActiveCalories int

	HighActivitySeconds   int
	MediumActivitySeconds int
	LowActivitySeconds    int
}

// IntPtr is a convenience for building optional contributor values.
func IntPtr(v int) *int { return &v }
