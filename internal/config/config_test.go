package config

import (
	"os"
	"testing"
)

func TestLoad_DefaultValues(t *testing.T) {
	// 清除环境变量
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// 检查默认值
	if cfg.Filter.BusinessHoursStart != 8*60 {
		t.Errorf("Expected BUSINESS_HOURS_START_MIN default 480, got %d", cfg.Filter.BusinessHoursStart)
	}

	if cfg.Filter.BusinessHoursEnd != 20*60 {
		t.Errorf("Expected BUSINESS_HOURS_END_MIN default 1200, got %d", cfg.Filter.BusinessHoursEnd)
	}

	if cfg.Aggregate.UsageThreshold != 0 {
		t.Errorf("Expected USAGE_THRESHOLD default 0, got %f", cfg.Aggregate.UsageThreshold)
	}

	if cfg.Aggregate.BucketHours != 1 {
		t.Errorf("Expected BUCKET_HOURS default 1, got %f", cfg.Aggregate.BucketHours)
	}

	if cfg.Aggregate.RankingSize != 3 {
		t.Errorf("Expected RANKING_SIZE default 3, got %d", cfg.Aggregate.RankingSize)
	}

	if cfg.Cluster.CorrelationThreshold != 0.8 {
		t.Errorf("Expected CORRELATION_THRESHOLD default 0.8, got %f", cfg.Cluster.CorrelationThreshold)
	}

	if cfg.Cache.Enabled {
		t.Error("Expected CACHE_ENABLED default false")
	}

	if cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("Expected REDIS_ADDR default 'localhost:6379', got '%s'", cfg.Cache.RedisAddr)
	}

	if cfg.Cache.TTL != 300 {
		t.Errorf("Expected CACHE_TTL default 300, got %d", cfg.Cache.TTL)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Expected LOG_LEVEL default 'info', got '%s'", cfg.Log.Level)
	}

	if cfg.Log.Format != "json" {
		t.Errorf("Expected LOG_FORMAT default 'json', got '%s'", cfg.Log.Format)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Clearenv()
	os.Setenv("BUSINESS_HOURS_START_MIN", "540")
	os.Setenv("CORRELATION_THRESHOLD", "0.9")
	os.Setenv("CACHE_ENABLED", "true")
	os.Setenv("BUCKET_HOURS", "2")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Filter.BusinessHoursStart != 540 {
		t.Errorf("Expected BUSINESS_HOURS_START_MIN 540, got %d", cfg.Filter.BusinessHoursStart)
	}

	if cfg.Cluster.CorrelationThreshold != 0.9 {
		t.Errorf("Expected CORRELATION_THRESHOLD 0.9, got %f", cfg.Cluster.CorrelationThreshold)
	}

	if !cfg.Cache.Enabled {
		t.Error("Expected CACHE_ENABLED true")
	}

	if cfg.Aggregate.BucketHours != 2 {
		t.Errorf("Expected BUCKET_HOURS 2, got %f", cfg.Aggregate.BucketHours)
	}
}

func TestLoad_InvalidNumbersFallBackToDefaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("BUSINESS_HOURS_START_MIN", "früh")
	os.Setenv("CORRELATION_THRESHOLD", "hoch")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Filter.BusinessHoursStart != 480 {
		t.Errorf("Expected fallback 480, got %d", cfg.Filter.BusinessHoursStart)
	}

	if cfg.Cluster.CorrelationThreshold != 0.8 {
		t.Errorf("Expected fallback 0.8, got %f", cfg.Cluster.CorrelationThreshold)
	}
}
