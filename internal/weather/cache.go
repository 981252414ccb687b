package weather

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// ReportCache кэширует отрендеренный текст прогноза по городу и формату.
type ReportCache interface {
	GetReport(ctx context.Context, format, city string) (string, error)
	SetReport(ctx context.Context, format, city, text string) error
}

type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisReportCache(redisURL, password string, db int, ttl time.Duration, logger *slog.Logger) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ошибка при подключении к Redis: %w", err)
	}

	logger.Info("Соединение с Redis успешно установлено")

	return &RedisReportCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (c *RedisReportCache) GetReport(ctx context.Context, format, city string) (string, error) {
	key := reportKey(format, city)

	text, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}

		c.logger.Error("Ошибка при получении прогноза из Redis",
			"error", err,
			"key", key,
		)

		return "", fmt.Errorf("ошибка при получении данных из Redis: %w", err)
	}

	return text, nil
}

func (c *RedisReportCache) SetReport(ctx context.Context, format, city, text string) error {
	key := reportKey(format, city)

	if err := c.client.Set(ctx, key, text, c.ttl).Err(); err != nil {
		c.logger.Error("Ошибка при сохранении прогноза в Redis",
			"error", err,
			"key", key,
		)

		return fmt.Errorf("ошибка при сохранении данных в Redis: %w", err)
	}

	return nil
}

func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

func reportKey(format, city string) string {
	return fmt.Sprintf("weather:%s:%s", format, city)
}

// CachedClient добавляет кэширование поверх обычного клиента. Тексты ошибок
// ("❌ ...") в кэш не попадают, чтобы сбой провайдера не залипал на весь TTL.
type CachedClient struct {
	*Client
	cache ReportCache
}

func (c *Client) WithCache(cache ReportCache) *CachedClient {
	return &CachedClient{
		Client: c,
		cache:  cache,
	}
}

func (c *CachedClient) Brief(ctx context.Context, city string) string {
	return c.cached(ctx, formatBrief, city, c.Client.Brief)
}

func (c *CachedClient) Current(ctx context.Context, city string) string {
	return c.cached(ctx, "current", city, c.Client.Current)
}

func (c *CachedClient) Detailed(ctx context.Context, city string) string {
	return c.cached(ctx, "detailed", city, c.Client.Detailed)
}

func (c *CachedClient) cached(ctx context.Context, format, city string, fetch func(context.Context, string) string) string {
	if text, err := c.cache.GetReport(ctx, format, city); err == nil && text != "" {
		return text
	}

	text := fetch(ctx, city)

	if !isErrorText(text) {
		if err := c.cache.SetReport(ctx, format, city, text); err != nil {
			c.logger.Warn("Не удалось закэшировать прогноз",
				"error", err,
				"city", city,
			)
		}
	}

	return text
}

func isErrorText(text string) bool {
	return strings.HasPrefix(text, "❌")
}
