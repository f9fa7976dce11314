package config

import (
	"os"
	"strconv"
)

// Config 占用率分析流水线配置
type Config struct {
	// 筛选相关配置
	Filter struct {
		// 营业时间窗口（分钟，从 00:00 起算）
		// 默认 [08:00, 20:00)：起点含、终点不含
		BusinessHoursStart int
		BusinessHoursEnd   int
	}

	// 汇总相关配置
	Aggregate struct {
		// 判定"使用中"的占用率阈值（严格大于），默认 0
		UsageThreshold float64
		// 单个时间槽代表的小时数（数据源为 2 小时一条记录时设为 2）
		BucketHours float64
		// Top/Bottom 排行的条数
		RankingSize int
	}

	// 聚类相关配置
	Cluster struct {
		// 相关系数阈值：corr >= threshold 的房间倾向于同簇
		CorrelationThreshold float64
	}

	// 结果缓存（可选，对正确性无影响）
	Cache struct {
		Enabled   bool
		RedisAddr string
		Password  string
		DB        int
		TTL       int // 秒
		KeyPrefix string
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 从环境变量加载配置（带默认值）
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Filter.BusinessHoursStart = getEnvInt("BUSINESS_HOURS_START_MIN", 8*60)
	cfg.Filter.BusinessHoursEnd = getEnvInt("BUSINESS_HOURS_END_MIN", 20*60)

	cfg.Aggregate.UsageThreshold = getEnvFloat("USAGE_THRESHOLD", 0)
	cfg.Aggregate.BucketHours = getEnvFloat("BUCKET_HOURS", 1)
	cfg.Aggregate.RankingSize = getEnvInt("RANKING_SIZE", 3)

	cfg.Cluster.CorrelationThreshold = getEnvFloat("CORRELATION_THRESHOLD", 0.8)

	cfg.Cache.Enabled = getEnv("CACHE_ENABLED", "false") == "true"
	cfg.Cache.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Cache.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Cache.DB = getEnvInt("REDIS_DB", 0)
	cfg.Cache.TTL = getEnvInt("CACHE_TTL", 300)
	cfg.Cache.KeyPrefix = getEnv("CACHE_KEY_PREFIX", "raumboard:")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return defaultValue
}
