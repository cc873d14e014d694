package models

// RecoverySignal echoes one input of the weighted recovery score.
// Every signal carries either Value or Deviation, never both.
type RecoverySignal struct {
	Name      string
	Value     *float64
	Deviation *float64 // resting HR only, bpm vs baseline
	Weight    string   // e.g. "35%"
	Impact    string   // High, Medium, Low
}

// RecoveryState is the holistic recovery assessment.
type RecoveryState struct {
	State                  string
	Emoji                  string
	RecoveryScore          float64 // 0-100, 1 decimal
	Description            string
	TrainingRecommendation string
	Confidence             float64 // tier constant, 0-1
	Signals                []RecoverySignal
}

// TrainingAssessment is a go/no-go verdict for one training type.
type TrainingAssessment struct {
	TrainingType   string // display form, e.g. "High Intensity"
	GoNoGo         string // GO, GO (Modified), CAUTION, NO-GO
	Emoji          string
	Confidence     string // High, Medium, Medium-Low
	Intensity      string
	Duration       string
	Modifications  []string
	ReadinessScore int
	RecoveryScore  float64
	KeyFactors     []string
}

// ScoreInterpretation is the qualitative reading of a 0-100 daily score.
type ScoreInterpretation struct {
	Quality        string
	Description    string
	Emoji          string
	Recommendation string
}

// HRVInterpretation reads an HRV balance score, optionally against baseline.
type HRVInterpretation struct {
	Score          int
	Baseline       *float64
	Status         string
	Emoji          string
	Description    string
	Meaning        string
	Implications   string
	DeviationPct   *float64
	BaselineStatus string // empty without a baseline
}

// RestingHRInterpretation reads a resting heart rate against its baseline.
type RestingHRInterpretation struct {
	Current      float64
	Baseline     *float64
	Deviation    *float64
	DeviationPct *float64
	Status       string
	Emoji        string
	Description  string
	Implications string
	Causes       []string
}

// TemperatureInterpretation reads a body temperature score.
type TemperatureInterpretation struct {
	Score            int
	DeviationCelsius *float64
	Status           string
	Emoji            string
	Description      string
	Implications     string
	Causes           []string
}
