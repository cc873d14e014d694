package di

import (
	"context"
	"fmt"
	"time"

	"HealthPull/internal/domain/repository"
	domsvc "HealthPull/internal/domain/service"
	mid "HealthPull/internal/middleware"
	internalrepo "HealthPull/internal/repository"
	"HealthPull/internal/service/oura"
	"HealthPull/internal/services/alerts"
	"HealthPull/internal/services/anomaly"
	"HealthPull/internal/services/correlate"
	"HealthPull/internal/services/illness"
	"HealthPull/internal/services/recovery"
	"HealthPull/internal/services/sleepdebt"
	"HealthPull/internal/usecase"
	pkgch "HealthPull/pkg/clickhouse"
	"HealthPull/pkg/config"
	pkgkafka "HealthPull/pkg/kafka"
	"HealthPull/pkg/metrics"
	"HealthPull/pkg/server"
)

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema. ReplacingMergeTree keyed by day makes re-syncs
	// of the same window idempotent; queries read FINAL.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if db == "" {
		db = "healthpull"
	}
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.daily_sleep (
			day String,
			score Nullable(Int32),
			c_total_sleep Nullable(Int32), c_deep_sleep Nullable(Int32), c_rem_sleep Nullable(Int32),
			c_efficiency Nullable(Int32), c_restfulness Nullable(Int32), c_latency Nullable(Int32), c_timing Nullable(Int32),
			total_sleep_s Int32, time_in_bed_s Int32, deep_sleep_s Int32, rem_sleep_s Int32, light_sleep_s Int32, awake_s Int32,
			bedtime_start String, bedtime_end String, breath_avg Float64
		) ENGINE=ReplacingMergeTree ORDER BY day`, db),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.daily_readiness (
			day String,
			score Nullable(Int32),
			c_activity_balance Nullable(Int32), c_body_temperature Nullable(Int32), c_hrv_balance Nullable(Int32),
			c_previous_day_activity Nullable(Int32), c_previous_night Nullable(Int32), c_recovery_index Nullable(Int32),
			c_resting_heart_rate Nullable(Int32), c_sleep_balance Nullable(Int32), c_sleep_regularity Nullable(Int32),
			temperature_deviation Float64
		) ENGINE=ReplacingMergeTree ORDER BY day`, db),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.daily_activity (
			day String,
			score Nullable(Int32),
			c_meet_daily_targets Nullable(Int32), c_move_every_hour Nullable(Int32), c_recovery_time Nullable(Int32),
			c_stay_active Nullable(Int32), c_training_frequency Nullable(Int32), c_training_volume Nullable(Int32),
			steps Int32, total_calories Int32, active_calories Int32,
			high_activity_s Int32, medium_activity_s Int32, low_activity_s Int32
		) ENGINE=ReplacingMergeTree ORDER BY day`, db),
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRecordStore creates the ClickHouse record store.
func ProvideRecordStore(chClient *pkgch.Client, cfg *config.Config) repository.RecordStore {
	return internalrepo.NewClickHouseRecordStore(chClient.DB(), cfg.ClickHouse.Database)
}

// ProvideRecordPublisher creates the Kafka publisher for records and alerts.
func ProvideRecordPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaRecordPublisher(producer, cfg.Kafka.RecordsTopic, cfg.Kafka.AlertsTopic)
}

// ProvideRecordWindow creates the record window reader over the store.
func ProvideRecordWindow(store repository.RecordStore) repository.RecordWindow {
	return internalrepo.NewCHRecordWindow(store)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaRecordsHandler registers the handler for the records topic.
func ProvideKafkaRecordsHandler(store repository.RecordStore, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaRecordsHandler {
	return usecase.NewKafkaRecordsHandler(cfg.Kafka.RecordsTopic, store, metrics)
}

// ProvideHealthSource creates the Oura API client.
func ProvideHealthSource(cfg *config.Config) repository.HealthSource {
	opts := []oura.Option{}
	if cfg.Oura.BaseURL != "" {
		opts = append(opts, oura.WithBaseURL(cfg.Oura.BaseURL))
	}
	if cfg.Oura.Timeout > 0 {
		opts = append(opts, oura.WithTimeout(cfg.Oura.Timeout))
	}
	if cfg.Oura.RateLimitPerMinute > 0 {
		opts = append(opts, oura.WithRateLimit(int(cfg.Oura.RateLimitPerMinute)))
	}
	return oura.New(cfg.Oura.AccessToken, opts...)
}

// ProvideRecordProcessor creates the backend router use case.
func ProvideRecordProcessor(
	pub repository.Publisher,
	store repository.RecordStore,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.RecordProcessor {
	return usecase.NewRecordProcessor(pub, store, metrics, cfg.Backend.Type)
}

// ProvideRecordSync creates the sync use case with its ingest pipeline.
func ProvideRecordSync(
	processor *usecase.RecordProcessor,
	source repository.HealthSource,
	metrics repository.Metrics,
) *usecase.RecordSync {
	pipe := mid.NewIngestPipeline(processor, metrics,
		mid.WithMaxBatchesPerSecond(10),
		mid.WithBufferSize(100),
	)
	return usecase.NewRecordSync(source, pipe, metrics)
}

// ProvideInsightAggregator assembles the analysis engines over the store.
func ProvideInsightAggregator(window repository.RecordWindow, cfg *config.Config) *usecase.InsightAggregator {
	agg := usecase.NewInsightAggregator(
		window,
		anomaly.New(),
		recovery.New(),
		illness.New(),
		func(need float64) domsvc.AlertEvaluator { return alerts.NewSystem(need) },
		sleepdebt.NewTracker(cfg.Analysis.SleepNeedHours),
		correlate.New(),
	)
	if cfg.Analysis.SleepNeedHours > 0 {
		agg.SetSleepNeedOverride(cfg.Analysis.SleepNeedHours)
	}
	return agg
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	syncer *usecase.RecordSync,
	agg *usecase.InsightAggregator,
	window repository.RecordWindow,
	store repository.RecordStore,
	pub repository.Publisher,
	processor *usecase.RecordProcessor,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaRecordsHandler,
	chClient *pkgch.Client,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, syncer, agg, window, store, pub, consumer, kh, chClient)
	app.RecordProc = processor
	return app
}
