package server

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"HealthPull/internal/domain/repository"
	"HealthPull/internal/handler/api"
	internalrepo "HealthPull/internal/repository"
	icache "HealthPull/internal/service/cache"
	"HealthPull/internal/usecase"
	pkgcache "HealthPull/pkg/cache"
	pkgch "HealthPull/pkg/clickhouse"
	"HealthPull/pkg/config"
	xhttp "HealthPull/pkg/http"
	pkgkafka "HealthPull/pkg/kafka"
	applogger "HealthPull/pkg/logger"
	pkgqueue "HealthPull/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	syncer     *usecase.RecordSync
	agg        *usecase.InsightAggregator
	window     repository.RecordWindow
	store      repository.RecordStore
	pub        repository.Publisher
	consumer   *pkgkafka.Consumer
	kh         pkgkafka.MessageHandler
	chClient   *pkgch.Client
	httpServer *xhttp.Server
	RecordProc *usecase.RecordProcessor

	scheduler  *usecase.SyncScheduler
	jobQueue   *pkgqueue.RedisQueue
	redisCache *pkgcache.RedisCache
	hub        *api.AlertHub
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	syncer *usecase.RecordSync,
	agg *usecase.InsightAggregator,
	window repository.RecordWindow,
	store repository.RecordStore,
	pub repository.Publisher,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:      cfg,
		syncer:   syncer,
		agg:      agg,
		window:   window,
		store:    store,
		pub:      pub,
		consumer: consumer,
		kh:       kh,
		chClient: chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// init app logger (console info by default)
	l, _ := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})

	if w, ok := a.window.(*internalrepo.CHRecordWindow); ok {
		w.SetLogger(l)
	}
	a.syncer.SetLogger(l)

	// Aggregate error logs onto Kafka when a logs topic is configured
	if a.cfg.Backend.Type == "kafka" && a.cfg.Kafka.LogsTopic != "" {
		if sink, ok := a.pub.(applogger.Publisher); ok {
			l.AddCollector(&applogger.CollectionConfig{
				TimeInterval:   30 * time.Second,
				CountThreshold: 100,
				Topic:          a.cfg.Kafka.LogsTopic,
				Publisher:      sink,
			})
			defer l.RemoveCollector()
		}
	}

	// live alert fan-out
	a.hub = api.NewAlertHub()
	a.hub.SetLogger(l)
	a.agg.SetAlertSink(a.hub)
	if a.cfg.Backend.Type == "kafka" && a.cfg.Kafka.AlertsTopic != "" && a.pub != nil {
		a.agg.SetAlertPublisher(a.pub)
	}

	records := usecase.NewRecordsQueryUseCase(a.window)
	daily := usecase.NewDailyInsightsUseCase(a.agg)
	handler := api.NewInsightsEchoHandler(l, daily, a.agg, records, a.syncer, a.store, a.hub)

	if a.cfg.Redis.Enabled {
		rc, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(a.cfg.Redis.Host),
			pkgcache.WithRedisPort(a.cfg.Redis.Port),
			pkgcache.WithRedisPassword(a.cfg.Redis.Password),
			pkgcache.WithRedisDB(a.cfg.Redis.DB),
		)
		if err != nil {
			l.Warn("redis unavailable, falling back to memory cache", applogger.Error(err))
			handler.SetCache(icache.NewTTLCache())
		} else {
			a.redisCache = rc
			// Memory L1 over Redis; DeleteByPattern drops both layers
			layered := pkgcache.NewLayeredCache(rc)
			handler.SetCache(icache.NewSharedCache(layered))
			a.syncer.SetCache(layered)

			q := pkgqueue.NewRedisQueue(l, &pkgqueue.QueueConfig{
				Workers:    a.cfg.Queue.Workers,
				QueueSize:  a.cfg.Queue.QueueSize,
				RetryLimit: a.cfg.Queue.RetryLimit,
				RetryDelay: a.cfg.Queue.RetryDelay,
			}, rc.Client(), pkgqueue.ModeProducerConsumer)
			job := usecase.NewRecordsSyncJob(a.syncer)
			job.SetLogger(l)
			q.RegisterJob(job)
			if err := q.Start(); err != nil {
				l.Warn("job queue start error", applogger.Error(err))
			} else {
				q.StartRetryProcessor()
				handler.SetSyncQueue(q)
				a.jobQueue = q
			}
		}
	} else {
		handler.SetCache(icache.NewTTLCache())
	}

	a.httpServer = xhttp.NewServer(handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start ingest pipeline and recurring sync
	a.syncer.Start(ctx)
	a.scheduler = usecase.NewSyncScheduler(a.syncer, a.cfg.Analysis.SyncInterval, a.cfg.Analysis.SyncWindowDays)
	a.scheduler.SetLogger(l)
	a.scheduler.Start(ctx)
	l.Info("sync scheduler started",
		applogger.String("interval", a.cfg.Analysis.SyncInterval.String()),
		applogger.Int("window_days", a.cfg.Analysis.SyncWindowDays))

	// Start consumer when records flow through Kafka
	if a.cfg.Backend.Type == "kafka" && a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	// best-effort logging via stdout
	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		log.Printf("failed to create logger: %v", err)
		return err
	}
	l.Info("shutting down...")

	// Stop recurring sync and the ingest pipeline
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	a.syncer.Stop()

	// Disconnect alert stream clients
	if a.hub != nil {
		a.hub.Close()
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Stop job queue and Redis
	if a.jobQueue != nil {
		if err := a.jobQueue.Stop(shutdownCtx); err != nil {
			l.Warn("job queue stop error", applogger.Error(err))
		}
	}
	if a.redisCache != nil {
		if err := a.redisCache.Close(); err != nil {
			l.Warn("redis close error", applogger.Error(err))
		}
	}

	// Close processor resources (publisher/storage) and ClickHouse
	if a.RecordProc != nil {
		a.RecordProc.Close()
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
