package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/central-university-dev/go-weather-bot/internal/bot/clients"
	"github.com/central-university-dev/go-weather-bot/internal/bot/domain"
	"github.com/central-university-dev/go-weather-bot/internal/bot/repository"
	botservice "github.com/central-university-dev/go-weather-bot/internal/bot/service"
	"github.com/central-university-dev/go-weather-bot/internal/bot/telegram"
	"github.com/central-university-dev/go-weather-bot/internal/common/metrics"
	"github.com/central-university-dev/go-weather-bot/internal/config"
	"github.com/central-university-dev/go-weather-bot/internal/database"
	"github.com/central-university-dev/go-weather-bot/internal/infrastructure/repositories/memory"
	"github.com/central-university-dev/go-weather-bot/internal/scheduler"
	"github.com/central-university-dev/go-weather-bot/internal/weather"
	"github.com/central-university-dev/go-weather-bot/pkg"
	"github.com/central-university-dev/go-weather-bot/pkg/txs"
)

func setupTelegramCommands(telegramClient domain.TelegramClientAPI, appLogger *slog.Logger) {
	botCommands := []domain.BotCommand{
		{Command: "start", Description: "Начать работу с ботом"},
		{Command: "help", Description: "Показать справку"},
		{Command: "weather", Description: "Краткий прогноз погоды"},
		{Command: "forecast", Description: "Подробный прогноз погоды"},
		{Command: "subscribe", Description: "Настроить автоматическую отправку погоды"},
		{Command: "unsubscribe", Description: "Отключить автоматические уведомления"},
		{Command: "settings", Description: "Посмотреть текущие настройки"},
		{Command: "my_weather", Description: "Погода для вашего города"},
		{Command: "test_notification", Description: "Отправить тестовое уведомление"},
	}

	ctx := context.Background()
	if err := telegramClient.SetMyCommands(ctx, botCommands); err != nil {
		appLogger.Error("Ошибка при регистрации команд бота",
			"error", err,
		)
	} else {
		appLogger.Info("Команды бота успешно зарегистрированы")
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка запуска сервиса: %v\n", err)
		os.Exit(1)
	}
}

//nolint:funlen // Длина функции обусловлена необходимостью последовательной инициализации всех компонентов.
func run() error {
	appLogger := pkg.NewLogger(os.Stdout)

	cfg := config.LoadConfig()

	ctx := context.Background()

	db, err := database.NewPostgresDB(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Ошибка при подключении к базе данных",
			"error", err,
		)

		return fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	defer db.Close()

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, appLogger); err != nil {
		appLogger.Error("Ошибка при применении миграций",
			"error", err,
		)

		return fmt.Errorf("ошибка применения миграций: %w", err)
	}

	txManager := txs.NewTxManager(db.Pool, appLogger)

	repoFactory := repository.NewFactory(db, cfg, appLogger)

	subscriberRepo, err := repoFactory.CreateSubscriberRepository()
	if err != nil {
		appLogger.Error("Ошибка при создании репозитория подписчиков",
			"error", err,
		)

		return fmt.Errorf("ошибка создания репозитория подписчиков: %w", err)
	}

	dialogRepo := memory.NewDialogStateRepository()

	weatherClient := weather.NewClient(cfg, appLogger)

	var weatherProvider weather.Provider = weatherClient

	var reportCache *weather.RedisReportCache

	if cfg.RedisURL != "" {
		reportCache, err = weather.NewRedisReportCache(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB, cfg.RedisCacheTTL, appLogger)
		if err != nil {
			appLogger.Error("Ошибка при подключении к Redis",
				"error", err,
			)
		} else {
			appLogger.Info("Кэш прогнозов Redis успешно инициализирован")

			weatherProvider = weatherClient.WithCache(reportCache)
		}
	}

	telegramClient := clients.NewTelegramClient(cfg.TelegramBotToken, cfg.SendRateLimit, appLogger)
	setupTelegramCommands(telegramClient, appLogger)

	notificationScheduler := scheduler.NewNotificationScheduler(
		subscriberRepo,
		weatherProvider,
		telegramClient,
		cfg.SchedulerCheckInterval,
		appLogger,
	)

	botService := botservice.NewBotService(
		subscriberRepo,
		dialogRepo,
		weatherProvider,
		notificationScheduler,
		txManager,
	)

	poller := telegram.NewPoller(telegramClient, botService, appLogger)
	poller.Start()

	notificationScheduler.Start()

	metricsServer := metrics.NewServer(cfg.ServerPort, appLogger)

	stopCh := make(chan struct{})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLogger.Info("Получен системный сигнал",
			"signal", sig.String(),
		)
		close(stopCh)
	}()

	go func() {
		if err := metricsServer.Start(); err != nil {
			appLogger.Error("Ошибка при запуске HTTP сервера",
				"error", err,
			)
		}
	}()

	<-stopCh
	appLogger.Info("Получен сигнал завершения")

	poller.Stop()
	notificationScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := metricsServer.Stop(shutdownCtx); err != nil {
		appLogger.Error("Ошибка при остановке HTTP сервера",
			"error", err,
		)
	}

	if reportCache != nil {
		if err := reportCache.Close(); err != nil {
			appLogger.Error("Ошибка при закрытии соединения с Redis",
				"error", err,
			)
		}
	}

	appLogger.Info("Сервис успешно остановлен")

	return nil
}
