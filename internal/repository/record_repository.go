package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"HealthPull/internal/domain/models"
	"HealthPull/internal/domain/repository"
	pkgkafka "HealthPull/pkg/kafka"
)

// ClickHouseRecordStore implements RecordStore over three per-family tables.
type ClickHouseRecordStore struct {
	db       *sql.DB
	database string
}

// NewClickHouseRecordStore creates ClickHouse record storage.
func NewClickHouseRecordStore(db *sql.DB, database string) repository.RecordStore {
	return &ClickHouseRecordStore{db: db, database: database}
}

func (s *ClickHouseRecordStore) table(name string) string {
	return s.database + "." + name
}

func (s *ClickHouseRecordStore) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func nullableInt(p *int) interface{} {
	if p == nil {
		return nil
	}
	return int32(*p)
}

func intPtrOf(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func (s *ClickHouseRecordStore) StoreSleep(ctx context.Context, records []models.SleepRecord) error {
	if len(records) == 0 {
		return nil
	}
	cols := "(day, score, c_total_sleep, c_deep_sleep, c_rem_sleep, c_efficiency, c_restfulness, c_latency, c_timing, total_sleep_s, time_in_bed_s, deep_sleep_s, rem_sleep_s, light_sleep_s, awake_s, bedtime_start, bedtime_end, breath_avg)"
	values := make([]string, 0, len(records))
	args := make([]interface{}, 0, len(records)*18)
	for _, r := range records {
		if r.Day == "" {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		c := r.Contributors
		args = append(args,
			r.Day,
			nullableInt(r.Score),
			nullableInt(c.TotalSleep), nullableInt(c.DeepSleep), nullableInt(c.REMSleep),
			nullableInt(c.Efficiency), nullableInt(c.Restfulness), nullableInt(c.Latency), nullableInt(c.Timing),
			int32(r.TotalSleepSeconds), int32(r.TimeInBedSeconds),
			int32(r.DeepSleepSeconds), int32(r.REMSleepSeconds), int32(r.LightSleepSeconds), int32(r.AwakeSeconds),
			r.BedtimeStart, r.BedtimeEnd, r.BreathAverage,
		)
	}
	if len(values) == 0 {
		return nil
	}
	q := fmt.Sprintf("INSERT INTO %s %s VALUES %s", s.table("daily_sleep"), cols, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("store sleep: %w", err)
	}
	return nil
}

func (s *ClickHouseRecordStore) StoreReadiness(ctx context.Context, records []models.ReadinessRecord) error {
	if len(records) == 0 {
		return nil
	}
	cols := "(day, score, c_activity_balance, c_body_temperature, c_hrv_balance, c_previous_day_activity, c_previous_night, c_recovery_index, c_resting_heart_rate, c_sleep_balance, c_sleep_regularity, temperature_deviation)"
	values := make([]string, 0, len(records))
	args := make([]interface{}, 0, len(records)*12)
	for _, r := range records {
		if r.Day == "" {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		c := r.Contributors
		args = append(args,
			r.Day,
			nullableInt(r.Score),
			nullableInt(c.ActivityBalance), nullableInt(c.BodyTemperature), nullableInt(c.HRVBalance),
			nullableInt(c.PreviousDayActivity), nullableInt(c.PreviousNight), nullableInt(c.RecoveryIndex),
			nullableInt(c.RestingHeartRate), nullableInt(c.SleepBalance), nullableInt(c.SleepRegularity),
			r.TemperatureDeviation,
		)
	}
	if len(values) == 0 {
		return nil
	}
	q := fmt.Sprintf("INSERT INTO %s %s VALUES %s", s.table("daily_readiness"), cols, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("store readiness: %w", err)
	}
	return nil
}

func (s *ClickHouseRecordStore) StoreActivity(ctx context.Context, records []models.ActivityRecord) error {
	if len(records) == 0 {
		return nil
	}
	cols := "(day, score, c_meet_daily_targets, c_move_every_hour, c_recovery_time, c_stay_active, c_training_frequency, c_training_volume, steps, total_calories, active_calories, high_activity_s, medium_activity_s, low_activity_s)"
	values := make([]string, 0, len(records))
	args := make([]interface{}, 0, len(records)*14)
	for _, r := range records {
		if r.Day == "" {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		c := r.Contributors
		args = append(args,
			r.Day,
			nullableInt(r.Score),
			nullableInt(c.MeetDailyTargets), nullableInt(c.MoveEveryHour), nullableInt(c.RecoveryTime),
			nullableInt(c.StayActive), nullableInt(c.TrainingFrequency), nullableInt(c.TrainingVolume),
			int32(r.Steps), int32(r.TotalCalories), int32(r.ActiveCalories),
			int32(r.HighActivitySeconds), int32(r.MediumActivitySeconds), int32(r.LowActivitySeconds),
		)
	}
	if len(values) == 0 {
		return nil
	}
	q := fmt.Sprintf("INSERT INTO %s %s VALUES %s", s.table("daily_activity"), cols, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("store activity: %w", err)
	}
	return nil
}

func (s *ClickHouseRecordStore) QuerySleep(ctx context.Context, from, to time.Time) ([]models.SleepRecord, error) {
	q := fmt.Sprintf(`
        SELECT day, score, c_total_sleep, c_deep_sleep, c_rem_sleep, c_efficiency, c_restfulness, c_latency, c_timing,
               total_sleep_s, time_in_bed_s, deep_sleep_s, rem_sleep_s, light_sleep_s, awake_s,
               bedtime_start, bedtime_end, breath_avg
        FROM %s FINAL
        WHERE day >= ? AND day <= ?
        ORDER BY day ASC`, s.table("daily_sleep"))
	rows, err := s.db.QueryContext(ctx, q, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("query sleep: %w", err)
	}
	defer rows.Close()

	var out []models.SleepRecord
	for rows.Next() {
		var r models.SleepRecord
		var score, cTotal, cDeep, cREM, cEff, cRest, cLat, cTim sql.NullInt64
		var totalS, inBedS, deepS, remS, lightS, awakeS int32
		if err := rows.Scan(&r.Day, &score, &cTotal, &cDeep, &cREM, &cEff, &cRest, &cLat, &cTim,
			&totalS, &inBedS, &deepS, &remS, &lightS, &awakeS,
			&r.BedtimeStart, &r.BedtimeEnd, &r.BreathAverage); err != nil {
			return nil, fmt.Errorf("scan sleep: %w", err)
		}
		r.Score = intPtrOf(score)
		r.Contributors = models.SleepContributors{
			TotalSleep:  intPtrOf(cTotal),
			DeepSleep:   intPtrOf(cDeep),
			REMSleep:    intPtrOf(cREM),
			Efficiency:  intPtrOf(cEff),
			Restfulness: intPtrOf(cRest),
			Latency:     intPtrOf(cLat),
			Timing:      intPtrOf(cTim),
		}
		r.TotalSleepSeconds = int(totalS)
		r.TimeInBedSeconds = int(inBedS)
		r.DeepSleepSeconds = int(deepS)
		r.REMSleepSeconds = int(remS)
		r.LightSleepSeconds = int(lightS)
		r.AwakeSeconds = int(awakeS)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *ClickHouseRecordStore) QueryReadiness(ctx context.Context, from, to time.Time) ([]models.ReadinessRecord, error) {
	q := fmt.Sprintf(`
        SELECT day, score, c_activity_balance, c_body_temperature, c_hrv_balance, c_previous_day_activity,
               c_previous_night, c_recovery_index, c_resting_heart_rate, c_sleep_balance, c_sleep_regularity,
               temperature_deviation
        FROM %s FINAL
        WHERE day >= ? AND day <= ?
        ORDER BY day ASC`, s.table("daily_readiness"))
	rows, err := s.db.QueryContext(ctx, q, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("query readiness: %w", err)
	}
	defer rows.Close()

	var out []models.ReadinessRecord
	for rows.Next() {
		var r models.ReadinessRecord
		var score, cAB, cBT, cHRV, cPDA, cPN, cRI, cRHR, cSB, cSR sql.NullInt64
		if err := rows.Scan(&r.Day, &score, &cAB, &cBT, &cHRV, &cPDA, &cPN, &cRI, &cRHR, &cSB, &cSR,
			&r.TemperatureDeviation); err != nil {
			return nil, fmt.Errorf("scan readiness: %w", err)
		}
		r.Score = intPtrOf(score)
		r.Contributors = models.ReadinessContributors{
			ActivityBalance:     intPtrOf(cAB),
			BodyTemperature:     intPtrOf(cBT),
			HRVBalance:          intPtrOf(cHRV),
			PreviousDayActivity: intPtrOf(cPDA),
			PreviousNight:       intPtrOf(cPN),
			RecoveryIndex:       intPtrOf(cRI),
			RestingHeartRate:    intPtrOf(cRHR),
			SleepBalance:        intPtrOf(cSB),
			SleepRegularity:     intPtrOf(cSR),
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *ClickHouseRecordStore) QueryActivity(ctx context.Context, from, to time.Time) ([]models.ActivityRecord, error) {
	q := fmt.Sprintf(`
        SELECT day, score, c_meet_daily_targets, c_move_every_hour, c_recovery_time, c_stay_active,
               c_training_frequency, c_training_volume, steps, total_calories, active_calories,
               high_activity_s, medium_activity_s, low_activity_s
        FROM %s FINAL
        WHERE day >= ? AND day <= ?
        ORDER BY day ASC`, s.table("daily_activity"))
	rows, err := s.db.QueryContext(ctx, q, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	var out []models.ActivityRecord
	for rows.Next() {
		var r models.ActivityRecord
		var score, cMDT, cMEH, cRT, cSA, cTF, cTV sql.NullInt64
		var steps, totalCal, activeCal, highS, medS, lowS int32
		if err := rows.Scan(&r.Day, &score, &cMDT, &cMEH, &cRT, &cSA, &cTF, &cTV,
			&steps, &totalCal, &activeCal, &highS, &medS, &lowS); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		r.Score = intPtrOf(score)
		r.Contributors = models.ActivityContributors{
			MeetDailyTargets:  intPtrOf(cMDT),
			MoveEveryHour:     intPtrOf(cMEH),
			RecoveryTime:      intPtrOf(cRT),
			StayActive:        intPtrOf(cSA),
			TrainingFrequency: intPtrOf(cTF),
			TrainingVolume:    intPtrOf(cTV),
		}
		r.Steps = int(steps)
		r.TotalCalories = int(totalCal)
		r.ActiveCalories = int(activeCal)
		r.HighActivitySeconds = int(highS)
		r.MediumActivitySeconds = int(medS)
		r.LowActivitySeconds = int(lowS)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *ClickHouseRecordStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseRecordStore) Close() error {
	return nil // Managed by pkg
}

// KafkaRecordPublisher implements Publisher for Kafka.
type KafkaRecordPublisher struct {
	producer    *pkgkafka.Producer
	recordTopic string
	alertTopic  string
}

// NewKafkaRecordPublisher creates a Kafka publisher for record batches and
// triggered alert events.
func NewKafkaRecordPublisher(producer *pkgkafka.Producer, recordTopic, alertTopic string) repository.Publisher {
	return &KafkaRecordPublisher{producer: producer, recordTopic: recordTopic, alertTopic: alertTopic}
}

func (p *KafkaRecordPublisher) PublishRecords(ctx context.Context, batch *models.RecordBatch) error {
	if batch == nil || batch.Size() == 0 {
		return nil
	}
	// key by the newest day so re-syncs of the same window land in one partition
	return p.producer.Publish(ctx, p.recordTopic, []byte(batchKey(batch)), batch)
}

func (p *KafkaRecordPublisher) PublishAlerts(ctx context.Context, alerts []models.HealthAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(alerts))
	for i, a := range alerts {
		msgs[i] = pkgkafka.Message{
			Key: []byte(string(a.Category)),
			Value: map[string]interface{}{
				"id":             a.ID,
				"category":       string(a.Category),
				"severity":       string(a.Severity),
				"title":          a.Title,
				"message":        a.Message,
				"recommendation": a.Recommendation,
				"created_at":     a.CreatedAt,
			},
		}
	}
	return p.producer.PublishBatch(ctx, p.alertTopic, msgs)
}

// PublishMessage sends an arbitrary payload to a topic. It satisfies the
// logger collector's sink so aggregated error logs can ride the same producer.
func (p *KafkaRecordPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

func (p *KafkaRecordPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

func batchKey(b *models.RecordBatch) string {
	day := ""
	for _, r := range b.Sleep {
		if r.Day > day {
			day = r.Day
		}
	}
	for _, r := range b.Readiness {
		if r.Day > day {
			day = r.Day
		}
	}
	for _, r := range b.Activity {
		if r.Day > day {
			day = r.Day
		}
	}
	if day == "" {
		return "records"
	}
	return day
}
