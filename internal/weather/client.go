package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/central-university-dev/go-weather-bot/internal/common/httputil"
	"github.com/central-university-dev/go-weather-bot/internal/common/metrics"
	"github.com/central-university-dev/go-weather-bot/internal/config"
	"github.com/go-resty/resty/v2"
)

const (
	formatBrief = "brief"
	formatJSON  = "json"
)

// Provider возвращает готовый к отправке пользователю текст прогноза.
// Сетевые и HTTP ошибки конвертируются в текст сообщения на этой границе,
// поэтому вызывающий код никогда не обрабатывает ошибки погоды сам.
type Provider interface {
	Brief(ctx context.Context, city string) string
	Current(ctx context.Context, city string) string
	Detailed(ctx context.Context, city string) string
}

type Client struct {
	client  *resty.Client
	baseURL string
	lang    string
	logger  *slog.Logger
}

func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	baseURL := cfg.WeatherBaseURL
	if baseURL == "" {
		baseURL = "https://wttr.in"
	}

	lang := cfg.WeatherLang
	if lang == "" {
		lang = "ru"
	}

	client := httputil.CreateResilientHTTPClient(cfg, logger, "wttr")

	return &Client{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		lang:    lang,
		logger:  logger,
	}
}

// Brief запрашивает однострочную текстовую сводку (format=3).
func (c *Client) Brief(ctx context.Context, city string) string {
	start := time.Now()

	requestURL := fmt.Sprintf("%s/%s?lang=%s&format=3&T", c.baseURL, url.PathEscape(city), c.lang)

	resp, err := c.client.R().
		SetContext(ctx).
		Get(requestURL)

	success := err == nil && resp.IsSuccess()
	metrics.RecordWeatherRequest(formatBrief, success, time.Since(start).Seconds())

	if err != nil {
		c.logger.Error("Ошибка при запросе краткого прогноза",
			"error", err,
			"city", city,
		)

		return fmt.Sprintf("❌ Ошибка при получении данных о погоде: %v", err)
	}

	if !resp.IsSuccess() {
		return fmt.Sprintf("❌ Не удалось получить данные о погоде для города %s", city)
	}

	return fmt.Sprintf("🌤️ Погода в %s:\n%s", city, strings.TrimSpace(resp.String()))
}

// Current запрашивает структурированный прогноз (format=j1) и рендерит
// только блок текущих условий. Надёжная замена Brief: текстовый эндпоинт
// wttr.in менее стабилен, чем JSON.
func (c *Client) Current(ctx context.Context, city string) string {
	report, err := c.fetchJSON(ctx, city)
	if err != nil {
		return c.upstreamErrorText(city, err)
	}

	text, err := renderCurrent(city, report)
	if err != nil {
		return c.upstreamErrorText(city, err)
	}

	return text
}

// Detailed рендерит текущие условия плюс прогноз на 3 дня.
func (c *Client) Detailed(ctx context.Context, city string) string {
	report, err := c.fetchJSON(ctx, city)
	if err != nil {
		return c.upstreamErrorText(city, err)
	}

	text, err := renderDetailed(city, report)
	if err != nil {
		return c.upstreamErrorText(city, err)
	}

	return text
}

func (c *Client) fetchJSON(ctx context.Context, city string) (*jsonReport, error) {
	start := time.Now()

	requestURL := fmt.Sprintf("%s/%s?lang=%s&format=j1", c.baseURL, url.PathEscape(city), c.lang)

	var report jsonReport

	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&report).
		ForceContentType("application/json").
		Get(requestURL)

	success := err == nil && resp.IsSuccess()
	metrics.RecordWeatherRequest(formatJSON, success, time.Since(start).Seconds())

	if err != nil {
		c.logger.Error("Ошибка при запросе прогноза погоды",
			"error", err,
			"city", city,
		)

		return nil, err
	}

	if !resp.IsSuccess() {
		return nil, &statusError{code: resp.StatusCode()}
	}

	return &report, nil
}

func (c *Client) upstreamErrorText(city string, err error) string {
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("❌ Не удалось получить данные о погоде для города %s", city)
	}

	if errors.Is(err, errEmptyReport) {
		return fmt.Sprintf("❌ Не удалось получить данные о погоде для города %s", city)
	}

	return fmt.Sprintf("❌ Ошибка при получении данных о погоде: %v", err)
}
