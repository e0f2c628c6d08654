// Package cache guarda en Redis el resumen de ventas del tablero.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/margiesol/mew-bad/internal/application/analytics"
	"github.com/margiesol/mew-bad/internal/application/billing"
	"github.com/margiesol/mew-bad/internal/application/dto"
)

var (
	_ analytics.SummaryCache     = (*SummaryCache)(nil)
	_ billing.SummaryInvalidator = (*SummaryCache)(nil)
)

const (
	versionKey = "dashboard:summary:version"
	keyPrefix  = "dashboard:summary"
)

// New crea el cliente Redis y verifica la conexión con un ping.
func New(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping: %w", err)
	}
	return client, nil
}

// SummaryCache resumen del tablero versionado: invalidar es incrementar la versión,
// las entradas viejas quedan huérfanas hasta que vence su TTL.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache construye la caché. ttl <= 0 deja las entradas sin vencimiento.
func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

func (c *SummaryCache) version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return ver, err
}

// Key devuelve la clave del período bajo la versión vigente. Se toma antes de
// consultar la base: un resumen calculado antes de una invalidación se guarda
// bajo la versión vieja y nunca se vuelve a leer.
func (c *SummaryCache) Key(ctx context.Context, period string) (string, error) {
	if c == nil || c.client == nil {
		return "", nil
	}
	ver, err := c.version(ctx)
	if err != nil {
		return "", fmt.Errorf("cache: version: %w", err)
	}
	return strings.Join([]string{keyPrefix, fmt.Sprint(ver), period}, ":"), nil
}

// GetSummary devuelve (nil, nil) si no hay entrada para key.
func (c *SummaryCache) GetSummary(ctx context.Context, key string) (*dto.DashboardSummaryDTO, error) {
	if c == nil || c.client == nil || key == "" {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: get: %w", err)
	}
	var out dto.DashboardSummaryDTO
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("cache: decode: %w", err)
	}
	return &out, nil
}

// SetSummary guarda el resumen bajo key (obtenida con Key).
func (c *SummaryCache) SetSummary(ctx context.Context, key string, summary *dto.DashboardSummaryDTO) error {
	if c == nil || c.client == nil || key == "" {
		return nil
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set: %w", err)
	}
	return nil
}

// InvalidateSummary descarta todos los resúmenes guardados.
func (c *SummaryCache) InvalidateSummary(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		return fmt.Errorf("cache: bump: %w", err)
	}
	return nil
}
