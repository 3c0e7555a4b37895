package app

import (
	"testing"
	"time"
)

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected HTTPAddr :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.GRPCAddr != ":50051" {
		t.Errorf("expected GRPCAddr :50051, got %s", cfg.GRPCAddr)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("expected MetricsAddr :9090, got %s", cfg.MetricsAddr)
	}
	if cfg.StorageDriver != StorageDriverMemory {
		t.Errorf("expected StorageDriver %s, got %s", StorageDriverMemory, cfg.StorageDriver)
	}
	if !cfg.PostgresAutoMigrate {
		t.Error("expected PostgresAutoMigrate to be true")
	}
	if !cfg.SeedDemoData {
		t.Error("expected SeedDemoData to be true")
	}
	if cfg.JWTSecret == "" {
		t.Error("expected non-empty JWT secret")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= cfg.AccessTokenTTL {
		t.Errorf("unexpected token TTLs: access=%s refresh=%s", cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Errorf("kafka must be disabled by default, got %v", cfg.KafkaBrokers)
	}
	if cfg.OutboxPollInterval <= 0 {
		t.Error("expected OutboxPollInterval to be > 0")
	}
	if cfg.OutboxBatchSize <= 0 {
		t.Error("expected OutboxBatchSize to be > 0")
	}
	if cfg.OutboxMaxAttempts <= 0 {
		t.Error("expected OutboxMaxAttempts to be > 0")
	}
	if cfg.OutboxRetryDelay < 0 {
		t.Error("expected OutboxRetryDelay to be >= 0")
	}
	if cfg.OutboxMaxAge < time.Minute {
		t.Errorf("expected OutboxMaxAge >= 1m, got %s", cfg.OutboxMaxAge)
	}
}

func TestDefaultConfig_ReturnsCopy(t *testing.T) {
	original := DefaultConfig()
	modified := DefaultConfig()
	modified.HTTPAddr = ":18080"
	modified.KafkaBrokers = append(modified.KafkaBrokers, "localhost:9092")

	if original.HTTPAddr != ":8080" {
		t.Error("original config was modified")
	}
	if len(DefaultConfig().KafkaBrokers) != 0 {
		t.Error("default brokers must not be shared between calls")
	}
}
