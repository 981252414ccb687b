package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/central-university-dev/go-weather-bot/internal/common/metrics"
	domainerrors "github.com/central-university-dev/go-weather-bot/internal/domain/errors"
	"github.com/central-university-dev/go-weather-bot/internal/domain/models"
)

type SubscriberRepository interface {
	Find(ctx context.Context, userID int64) (*models.Subscriber, error)

	FindDue(ctx context.Context, clock string) ([]models.DueSubscriber, error)
}

type WeatherProvider interface {
	Current(ctx context.Context, city string) string

	Detailed(ctx context.Context, city string) string
}

type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

const clockLayout = "15:04"

// NotificationScheduler раз в interval сверяет текущее время со слотами
// подписчиков и рассылает прогнозы. Подписчик с совпадающими утренним и
// вечерним временем получает два сообщения, по одному на слот.
type NotificationScheduler struct {
	scheduler      *gocron.Scheduler
	subscriberRepo SubscriberRepository
	weather        WeatherProvider
	sender         MessageSender
	logger         *slog.Logger
	interval       time.Duration
	mu             sync.Mutex
	running        bool
}

func NewNotificationScheduler(
	subscriberRepo SubscriberRepository,
	weather WeatherProvider,
	sender MessageSender,
	interval time.Duration,
	logger *slog.Logger,
) *NotificationScheduler {
	return &NotificationScheduler{
		scheduler:      gocron.NewScheduler(time.Local),
		subscriberRepo: subscriberRepo,
		weather:        weather,
		sender:         sender,
		logger:         logger,
		interval:       interval,
	}
}

func (s *NotificationScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.logger.Info("Запуск планировщика уведомлений",
		"interval", s.interval.String(),
	)

	_, err := s.scheduler.Every(s.interval).Do(func() {
		metrics.RecordSchedulerTick()

		ctx := context.Background()
		s.CheckAndNotify(ctx, time.Now().Format(clockLayout))
	})
	if err != nil {
		s.logger.Error("Ошибка при настройке планировщика",
			"error", err,
		)

		return
	}

	s.scheduler.StartAsync()
	s.running = true
}

func (s *NotificationScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.logger.Info("Остановка планировщика уведомлений")
	s.scheduler.Stop()
	s.running = false
}

// CheckAndNotify рассылает уведомления всем подписчикам, чей слот совпадает
// с clock (формат ЧЧ:ММ). Ошибка отправки одному подписчику не прерывает
// рассылку остальным.
func (s *NotificationScheduler) CheckAndNotify(ctx context.Context, clock string) {
	due, err := s.subscriberRepo.FindDue(ctx, clock)
	if err != nil {
		s.logger.Error("Ошибка при поиске подписчиков для уведомления",
			"error", err,
			"clock", clock,
		)

		return
	}

	if len(due) == 0 {
		return
	}

	s.logger.Info("Отправка уведомлений",
		"count", len(due),
		"clock", clock,
	)

	for _, d := range due {
		greeting := "🌅 Доброе утро!"
		if d.Slot == models.SlotEvening {
			greeting = "🌙 Добрый вечер!"
		}

		err := s.sendTo(ctx, &d.Subscriber, greeting)

		metrics.RecordNotification(string(d.Slot), err)

		if err != nil {
			s.logger.Error("Ошибка при отправке уведомления",
				"error", err,
				"user_id", d.Subscriber.UserID,
				"city", d.Subscriber.City,
				"slot", d.Slot,
			)

			continue
		}

		s.logger.Info("Уведомление отправлено",
			"user_id", d.Subscriber.UserID,
			"city", d.Subscriber.City,
			"slot", d.Slot,
		)
	}
}

// SendTestNotification отправляет подписчику уведомление вне расписания,
// в том же формате, что и плановая рассылка.
func (s *NotificationScheduler) SendTestNotification(ctx context.Context, userID int64) error {
	sub, err := s.subscriberRepo.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, &domainerrors.ErrSubscriberNotFound{}) {
			return s.sender.SendMessage(ctx, userID, "❌ Город не настроен. Используйте /subscribe для настройки.")
		}

		return err
	}

	if sub.City == "" {
		return s.sender.SendMessage(ctx, userID, "❌ Город не настроен. Используйте /subscribe для настройки.")
	}

	return s.sendTo(ctx, sub, "🔔 Тестовое уведомление")
}

func (s *NotificationScheduler) sendTo(ctx context.Context, sub *models.Subscriber, greeting string) error {
	var report string

	if sub.Settings.ForecastType == models.ForecastDetailed {
		report = s.weather.Detailed(ctx, sub.City)
	} else {
		report = s.weather.Current(ctx, sub.City)
	}

	return s.sender.SendMessage(ctx, sub.UserID, greeting+"\n\n"+report)
}
