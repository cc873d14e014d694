package models

// PersonalInfo is the static profile the source exposes.
type PersonalInfo struct {
	Age           int
	WeightKg      float64
	HeightM       float64
	BiologicalSex string
	Email         string
}

// RecordBatch is the unit the ingest pipeline and Kafka topic carry: one
// fetch window of daily records, grouped by family. Empty families are
// omitted from the wire encoding.
type RecordBatch struct {
	Sleep     []SleepRecord     `json:"sleep,omitempty"`
	Readiness []ReadinessRecord `json:"readiness,omitempty"`
	Activity  []ActivityRecord  `json:"activity,omitempty"`
}

// Size returns the total record count across families.
func (b *RecordBatch) Size() int {
	if b == nil {
		return 0
	}
	return len(b.Sleep) + len(b.Readiness) + len(b.Activity)
}
