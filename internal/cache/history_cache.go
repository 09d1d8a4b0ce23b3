package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"chatdocs/internal/model"
)

// HistoryCache caches per-user, per-document history lists in redis. A short
// dirty marker suppresses cache refills around writes so a concurrent reader
// cannot repopulate the cache with stale rows.
type HistoryCache struct {
	client         *redisv9.Client
	historyTTL     time.Duration
	dirtyMarkerTTL time.Duration
}

func NewHistoryCache(client *redisv9.Client, historyTTL, dirtyMarkerTTL time.Duration) *HistoryCache {
	if historyTTL <= 0 {
		historyTTL = 60 * time.Second
	}
	if dirtyMarkerTTL <= 0 {
		dirtyMarkerTTL = 5 * time.Second
	}
	return &HistoryCache{
		client:         client,
		historyTTL:     historyTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

func (c *HistoryCache) GetHistory(ctx context.Context, userID uint, pdfName string) ([]model.ChatRecord, bool, error) {
	raw, err := c.client.Get(ctx, c.historyKey(userID, pdfName)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get history failed: %w", err)
	}

	var records []model.ChatRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached history failed: %w", err)
	}
	return records, true, nil
}

func (c *HistoryCache) SetHistory(ctx context.Context, userID uint, pdfName string, records []model.ChatRecord) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal history cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.historyKey(userID, pdfName), payload, c.historyTTL).Err(); err != nil {
		return fmt.Errorf("redis set history failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) DeleteHistory(ctx context.Context, userID uint, pdfName string) error {
	if err := c.client.Del(ctx, c.historyKey(userID, pdfName)).Err(); err != nil {
		return fmt.Errorf("redis delete history failed: %w", err)
	}
	return nil
}

// PurgeUser drops every cached history list for the user.
func (c *HistoryCache) PurgeUser(ctx context.Context, userID uint) error {
	pattern := fmt.Sprintf("chat:history:%d:*", userID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis purge history failed: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan history keys failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) MarkDirty(ctx context.Context, userID uint, pdfName string) error {
	if err := c.client.Set(ctx, c.dirtyKey(userID, pdfName), "1", c.dirtyMarkerTTL).Err(); err != nil {
		return fmt.Errorf("redis set dirty marker failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) IsDirty(ctx context.Context, userID uint, pdfName string) (bool, error) {
	exists, err := c.client.Exists(ctx, c.dirtyKey(userID, pdfName)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check dirty marker failed: %w", err)
	}
	return exists > 0, nil
}

func (c *HistoryCache) historyKey(userID uint, pdfName string) string {
	return fmt.Sprintf("chat:history:%d:%s", userID, pdfName)
}

func (c *HistoryCache) dirtyKey(userID uint, pdfName string) string {
	return fmt.Sprintf("chat:history:dirty:%d:%s", userID, pdfName)
}
