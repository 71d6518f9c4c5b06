package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.API.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.API.Port)
	}
	if cfg.Queue.Type != "redis" {
		t.Errorf("expected default queue type redis, got %q", cfg.Queue.Type)
	}
	if cfg.Queues.Conversion != "invoice:conversion" {
		t.Errorf("unexpected conversion queue name %q", cfg.Queues.Conversion)
	}
	if cfg.Queues.Notification != "invoice:notification" {
		t.Errorf("unexpected notification queue name %q", cfg.Queues.Notification)
	}
	if cfg.Blobs.Type != "local" {
		t.Errorf("expected default blob store local, got %q", cfg.Blobs.Type)
	}
	if cfg.Auth.TokenExpiry != time.Hour {
		t.Errorf("expected default token expiry 1h, got %s", cfg.Auth.TokenExpiry)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %q", cfg.Logging.Level)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := writeConfig(t, `
api:
  port: 9000
queue:
  type: sqs
  sqs_region: us-east-1
queues:
  conversion: https://sqs.us-east-1.amazonaws.com/123/conversion
blobs:
  type: s3
  s3_bucket: invoices
mailer:
  type: smtp
  addr: mail.example.com:587
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.API.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.API.Port)
	}
	if cfg.Queue.Type != "sqs" || cfg.Queue.SQSRegion != "us-east-1" {
		t.Errorf("unexpected queue config: %+v", cfg.Queue)
	}
	if cfg.Queues.Conversion != "https://sqs.us-east-1.amazonaws.com/123/conversion" {
		t.Errorf("unexpected conversion queue %q", cfg.Queues.Conversion)
	}
	if cfg.Blobs.Type != "s3" || cfg.Blobs.S3Bucket != "invoices" {
		t.Errorf("unexpected blob config: %+v", cfg.Blobs)
	}
	if cfg.Mailer.Addr != "mail.example.com:587" {
		t.Errorf("unexpected mailer addr %q", cfg.Mailer.Addr)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := writeConfig(t, "api:\n  port: 9000\n")

	t.Setenv("INVOICE_PIPELINE_API_PORT", "7000")
	t.Setenv("INVOICE_PIPELINE_DATABASE_URL", "postgres://env-host/db")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.API.Port != 7000 {
		t.Errorf("expected env override port 7000, got %d", cfg.API.Port)
	}
	if cfg.Database.URL != "postgres://env-host/db" {
		t.Errorf("expected env override database url, got %q", cfg.Database.URL)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := writeConfig(t, "api: [not a map\n")

	if _, err := Load(dir); err == nil {
		t.Error("expected error for malformed config file")
	}
}
