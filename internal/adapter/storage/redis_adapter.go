package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/warehouse-orders/internal/core/domain"
)

const (
	idempotencyKeyPrefix = "idempotency:"
	stockReportKeyPrefix = "stockreport:"

	idempotencyKeyTTL = 24 * time.Hour
	stockReportTTL    = 30 * time.Second
)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *RedisAdapter) ReleaseIdempotency(ctx context.Context, key string) error {
	return r.client.Del(ctx, idempotencyKeyPrefix+key).Err()
}

func (r *RedisAdapter) GetStockReport(ctx context.Context, warehouseID int64) ([]domain.WarehouseStockRow, bool, error) {
	payload, err := r.client.Get(ctx, stockReportKey(warehouseID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var rows []domain.WarehouseStockRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, false, fmt.Errorf("decode stock report: %w", err)
	}
	return rows, true, nil
}

func (r *RedisAdapter) SetStockReport(ctx context.Context, warehouseID int64, rows []domain.WarehouseStockRow) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode stock report: %w", err)
	}
	return r.client.Set(ctx, stockReportKey(warehouseID), payload, stockReportTTL).Err()
}

func (r *RedisAdapter) InvalidateStockReport(ctx context.Context, warehouseID int64) error {
	return r.client.Del(ctx, stockReportKey(warehouseID)).Err()
}

func stockReportKey(warehouseID int64) string {
	return fmt.Sprintf("%s%d", stockReportKeyPrefix, warehouseID)
}
