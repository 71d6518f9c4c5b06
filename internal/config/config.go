// Package config loads the shared configuration for the API server and
// the workers.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sehoon/invoice-pipeline/internal/auth"
	"github.com/sehoon/invoice-pipeline/internal/blobstore"
	"github.com/sehoon/invoice-pipeline/internal/logger"
	"github.com/sehoon/invoice-pipeline/internal/notifier"
	"github.com/sehoon/invoice-pipeline/internal/queue"
	"github.com/sehoon/invoice-pipeline/internal/storage"
)

// Config holds all application configuration.
type Config struct {
	API      APIConfig       `mapstructure:"api"`
	Database storage.Config  `mapstructure:"database"`
	Auth     auth.JWTConfig  `mapstructure:"auth"`
	Logging  logger.Config   `mapstructure:"logging"`
	Queue    queue.Config    `mapstructure:"queue"`
	Queues   QueueNames      `mapstructure:"queues"`
	Blobs    blobstore.Config `mapstructure:"blobs"`
	Mailer   notifier.Config `mapstructure:"mailer"`
}

// APIConfig holds REST API server configuration.
type APIConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// QueueNames holds the names of the two pipeline queues: Redis stream keys
// or SQS queue URLs depending on the configured backend.
type QueueNames struct {
	Conversion   string `mapstructure:"conversion"`
	Notification string `mapstructure:"notification"`
}

// Load reads configuration from the given config directory path. It looks
// for a file named "config.yaml" in that directory; a missing file is not
// an error so that env-only deployments work. Environment variables with
// prefix INVOICE_PIPELINE_ override file values, for example
// INVOICE_PIPELINE_DATABASE_URL overrides database.url.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	v.SetEnvPrefix("INVOICE_PIPELINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key with a default so that AutomaticEnv can
// override any of them, including the ones that default to empty.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.read_timeout", 30*time.Second)
	v.SetDefault("api.write_timeout", 30*time.Second)

	v.SetDefault("database.url", "")
	v.SetDefault("database.pool_min", 2)
	v.SetDefault("database.pool_max", 10)
	v.SetDefault("database.connect_timeout", 10*time.Second)

	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_expiry", time.Hour)
	v.SetDefault("auth.issuer", "invoice-pipeline")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.file_path", "")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_files", 5)

	v.SetDefault("queue.type", "redis")
	v.SetDefault("queue.redis_addr", "localhost:6379")
	v.SetDefault("queue.redis_password", "")
	v.SetDefault("queue.redis_db", 0)
	v.SetDefault("queue.sqs_region", "")
	v.SetDefault("queue.worker_count", 1)
	v.SetDefault("queue.block_timeout", 5*time.Second)
	v.SetDefault("queue.process_timeout", 30*time.Second)
	v.SetDefault("queue.shutdown_timeout", 30*time.Second)
	v.SetDefault("queue.nack_delay", 5*time.Second)
	v.SetDefault("queue.connect_attempts", 10)
	v.SetDefault("queue.connect_interval", 5*time.Second)

	v.SetDefault("queues.conversion", "invoice:conversion")
	v.SetDefault("queues.notification", "invoice:notification")

	v.SetDefault("blobs.type", "local")
	v.SetDefault("blobs.path", "data/blobs")
	v.SetDefault("blobs.s3_bucket", "")
	v.SetDefault("blobs.s3_endpoint", "")
	v.SetDefault("blobs.s3_region", "")

	v.SetDefault("mailer.type", "stdout")
	v.SetDefault("mailer.addr", "")
	v.SetDefault("mailer.from", "")
	v.SetDefault("mailer.username", "")
	v.SetDefault("mailer.password", "")
}
