package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		HTTP       HTTP
		Log        Log
		PG         PG
		S3         S3
		Kafka      Kafka
		Provider   Provider
		Dispatcher Dispatcher
		Reaper     Reaper
		Importer   Importer
		Swagger    Swagger
	}

	HTTP struct {
		Port           string `env:"HTTP_PORT,required"`
		UsePreforkMode bool   `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL,required"`
	}

	PG struct {
		PoolMax int    `env:"PG_POOL_MAX,required"`
		URL     string `env:"PG_URL,required"`
	}

	S3 struct {
		Endpoint         string        `env:"S3_ENDPOINT,required"`
		PublicEndpoint   string        `env:"S3_PUBLIC_ENDPOINT,required"`
		AccessKey        string        `env:"S3_ACCESS_KEY,required"`
		SecretKey        string        `env:"S3_SECRET_KEY,required"`
		ImagesBucket     string        `env:"S3_IMAGES_BUCKET,required"`
		ThumbnailsBucket string        `env:"S3_THUMBNAILS_BUCKET,required"`
		CfgLoadTimeout   time.Duration `env:"S3_LOAD_CFG_TIMEOUT" envDefault:"10s"`
	}

	Kafka struct {
		Brokers []string `env:"KAFKA_BROKERS,required"`
		GroupID string   `env:"KAFKA_GROUP_ID,required"`
		Topic   string   `env:"KAFKA_TOPIC,required"`
	}

	Provider struct {
		BaseURL string        `env:"PROVIDER_BASE_URL,required"`
		Timeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"30s"`
	}

	Dispatcher struct {
		CommitTimeout   time.Duration `env:"DISPATCHER_COMMIT_TIMEOUT" envDefault:"2s"`
		ProcessTimeout  time.Duration `env:"DISPATCHER_PROCESS_TIMEOUT" envDefault:"60s"` // whole handler: provider fetch, thumbnail, two uploads, row insert
		ShutdownTimeout time.Duration `env:"DISPATCHER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
		Workers         int           `env:"DISPATCHER_WORKERS" envDefault:"0"` // 0 = NumCPU
	}

	Reaper struct {
		PollInterval    time.Duration `env:"REAPER_POLL_INTERVAL" envDefault:"30s"`
		PendingAge      time.Duration `env:"REAPER_PENDING_AGE" envDefault:"1m"`
		BatchSize       int           `env:"REAPER_BATCH_SIZE" envDefault:"100"`
		ShutdownTimeout time.Duration `env:"REAPER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	}

	Importer struct {
		PageSize        int `env:"IMPORTER_PAGE_SIZE" envDefault:"50"`
		MaxImageSide    int `env:"IMPORTER_MAX_IMAGE_SIDE" envDefault:"2048"`
		ThumbnailSide   int `env:"IMPORTER_THUMBNAIL_SIDE" envDefault:"500"`
		DeleteBatchSize int `env:"IMPORTER_DELETE_BATCH_SIZE" envDefault:"20"`
	}

	Swagger struct {
		Enabled bool `env:"SWAGGER_ENABLED" envDefault:"false"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}
