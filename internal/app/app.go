package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/andreyxaxa/Photo-Importer/config"
	"github.com/andreyxaxa/Photo-Importer/internal/controller/dispatcher"
	"github.com/andreyxaxa/Photo-Importer/internal/controller/restapi"
	"github.com/andreyxaxa/Photo-Importer/internal/controller/worker/reaper"
	infrakafka "github.com/andreyxaxa/Photo-Importer/internal/infrastructure/kafka"
	"github.com/andreyxaxa/Photo-Importer/internal/infrastructure/processor"
	"github.com/andreyxaxa/Photo-Importer/internal/infrastructure/provider"
	"github.com/andreyxaxa/Photo-Importer/internal/repo/persistent"
	"github.com/andreyxaxa/Photo-Importer/internal/usecase/gallery"
	"github.com/andreyxaxa/Photo-Importer/internal/usecase/importer"
	"github.com/andreyxaxa/Photo-Importer/internal/usecase/jobs"
	"github.com/andreyxaxa/Photo-Importer/internal/usecase/progress"
	"github.com/andreyxaxa/Photo-Importer/pkg/httpserver"
	"github.com/andreyxaxa/Photo-Importer/pkg/kafka/consumer"
	"github.com/andreyxaxa/Photo-Importer/pkg/kafka/producer"
	"github.com/andreyxaxa/Photo-Importer/pkg/logger"
	"github.com/andreyxaxa/Photo-Importer/pkg/postgres"
	"github.com/andreyxaxa/Photo-Importer/pkg/s3client"
)

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Repository

	// s3
	s3Ctx, s3Cancel := context.WithTimeout(ctx, cfg.S3.CfgLoadTimeout)
	defer s3Cancel()
	s3c, err := s3client.New(s3Ctx, cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - s3client.New: %w", err))
	}

	// postgres
	pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - postgres.New: %w", err))
	}
	defer pg.Close()

	// migrations
	if err = Migrate(cfg.PG.URL); err != nil {
		l.Fatal(fmt.Errorf("app - Run - Migrate: %w", err))
	}

	jobRepo := persistent.NewJobRepo(pg)
	imageRepo := persistent.NewProcessedImageRepo(pg)
	storageRepo := persistent.NewStorageRepo(s3c, cfg.S3.PublicEndpoint, cfg.S3.ImagesBucket, cfg.S3.ThumbnailsBucket)

	// Kafka Producer
	kafkaProducer, err := producer.New(ctx, cfg.Kafka.Brokers)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - producer.New: %w", err))
	}
	announcer := infrakafka.NewJobAnnouncer(kafkaProducer, cfg.Kafka.Topic)

	// Use-Case

	jobsUseCase := jobs.New(jobRepo, announcer, l)

	photoProvider := provider.New(cfg.Provider.BaseURL, provider.Timeout(cfg.Provider.Timeout))

	importerUseCase := importer.New(
		jobsUseCase,
		photoProvider,
		processor.New(processor.ThumbnailBox(cfg.Importer.ThumbnailSide, cfg.Importer.ThumbnailSide)),
		storageRepo,
		imageRepo,
		l,
		importer.PageSize(cfg.Importer.PageSize),
		importer.MaxImageSide(cfg.Importer.MaxImageSide),
	)

	galleryUseCase := gallery.New(jobsUseCase, imageRepo, pg, photoProvider, l, gallery.DeleteBatchSize(cfg.Importer.DeleteBatchSize))

	progressUseCase := progress.New(jobRepo)

	// Kafka Consumer
	kafkaConsumer, err := consumer.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - consumer.New: %w", err))
	}

	// Job Dispatcher
	workers := cfg.Dispatcher.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	jobDispatcher := dispatcher.New(
		jobsUseCase,
		importerUseCase,
		infrakafka.NewJobEventConsumer(kafkaConsumer),
		l,
		cfg.Dispatcher.CommitTimeout,
		cfg.Dispatcher.ProcessTimeout,
		workers,
	)

	// Pending Reaper
	pendingReaper := reaper.New(jobsUseCase, l, cfg.Reaper.PollInterval, cfg.Reaper.PendingAge, cfg.Reaper.BatchSize)

	// HTTP Server
	httpServer := httpserver.New(l, httpserver.Port(cfg.HTTP.Port), httpserver.Prefork(cfg.HTTP.UsePreforkMode))
	restapi.NewRouter(httpServer.App, cfg, galleryUseCase, progressUseCase, l)

	// Start Components
	err = jobDispatcher.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - jobDispatcher.Start: %w", err))
	}
	err = pendingReaper.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - pendingReaper.Start: %w", err))
	}
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	err = httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}

	reaperShutdownCtx, reaperShutdownCancel := context.WithTimeout(ctx, cfg.Reaper.ShutdownTimeout)
	defer reaperShutdownCancel()
	err = pendingReaper.Shutdown(reaperShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - pendingReaper.Shutdown: %w", err))
	}

	dispatcherShutdownCtx, dispatcherShutdownCancel := context.WithTimeout(ctx, cfg.Dispatcher.ShutdownTimeout)
	defer dispatcherShutdownCancel()
	err = jobDispatcher.Shutdown(dispatcherShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - jobDispatcher.Shutdown: %w", err))
	}

	err = announcer.Close()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - announcer.Close: %w", err))
	}
}
