package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ResultCache 查询结果缓存（数据集 ID + 筛选配置 → 序列化结果）
// 纯粹的性能优化：未命中或出错时调用方重算，正确性不依赖缓存。
// 数据集换新后 ID 随之改变，旧键自然失效，TTL 负责清理
type ResultCache struct {
	kv        KVStore
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewResultCache 创建结果缓存
func NewResultCache(kv KVStore, keyPrefix string, ttl time.Duration, logger *zap.Logger) *ResultCache {
	return &ResultCache{
		kv:        kv,
		keyPrefix: keyPrefix,
		ttl:       ttl,
		logger:    logger,
	}
}

// key 形如 {prefix}dataset:{id}:query:{sha256(specKey) 前 16 位}
func (c *ResultCache) key(datasetID, specKey string) string {
	sum := sha256.Sum256([]byte(specKey))
	return fmt.Sprintf("%sdataset:%s:query:%s", c.keyPrefix, datasetID, hex.EncodeToString(sum[:8]))
}

// Get 读取缓存的查询结果，未命中返回 ErrCacheMiss
func (c *ResultCache) Get(ctx context.Context, datasetID, specKey string) ([]byte, error) {
	val, err := c.kv.Get(ctx, c.key(datasetID, specKey))
	if err != nil {
		return nil, err
	}
	return []byte(val), nil
}

// Set 写入查询结果，失败只记日志不上抛
func (c *ResultCache) Set(ctx context.Context, datasetID, specKey string, payload []byte) {
	key := c.key(datasetID, specKey)
	if err := c.kv.Set(ctx, key, string(payload), c.ttl); err != nil {
		c.logger.Debug("Failed to set result cache",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}
	c.logger.Debug("Updated result cache", zap.String("key", key))
}
