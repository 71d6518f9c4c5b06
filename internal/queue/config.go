package queue

import "time"

// Config holds configuration for the queue clients. Queue identifiers are
// not part of this struct: the factory takes the conversion or notification
// queue name (Redis stream key, or SQS queue URL) per client.
type Config struct {
	// Type selects the broker backend: "redis" (default) or "sqs".
	Type          string `mapstructure:"type"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	SQSRegion     string `mapstructure:"sqs_region"`

	// Consumer behavior.
	WorkerCount     int           `mapstructure:"worker_count"`
	BlockTimeout    time.Duration `mapstructure:"block_timeout"`
	ProcessTimeout  time.Duration `mapstructure:"process_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// NackDelay is how long a nacked message stays invisible before the
	// broker redelivers it. There is no redelivery cap: a permanently
	// failing message loops until an externally configured dead-letter
	// policy intervenes.
	NackDelay time.Duration `mapstructure:"nack_delay"`

	// Startup connect retry. Exhausting the attempts is fatal.
	ConnectAttempts int           `mapstructure:"connect_attempts"`
	ConnectInterval time.Duration `mapstructure:"connect_interval"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Type:            "redis",
		RedisAddr:       "localhost:6379",
		WorkerCount:     1,
		BlockTimeout:    5 * time.Second,
		ProcessTimeout:  30 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		NackDelay:       5 * time.Second,
		ConnectAttempts: 10,
		ConnectInterval: 5 * time.Second,
	}
}

// withDefaults fills zero-valued fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.WorkerCount <= 0 {
		c.WorkerCount = def.WorkerCount
	}
	if c.BlockTimeout <= 0 {
		c.BlockTimeout = def.BlockTimeout
	}
	if c.ProcessTimeout <= 0 {
		c.ProcessTimeout = def.ProcessTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = def.ShutdownTimeout
	}
	if c.NackDelay <= 0 {
		c.NackDelay = def.NackDelay
	}
	if c.ConnectAttempts <= 0 {
		c.ConnectAttempts = def.ConnectAttempts
	}
	if c.ConnectInterval <= 0 {
		c.ConnectInterval = def.ConnectInterval
	}
	return c
}
