package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/central-university-dev/go-weather-bot/internal/bot/domain"
	domainerrors "github.com/central-university-dev/go-weather-bot/internal/domain/errors"
	"github.com/central-university-dev/go-weather-bot/internal/domain/models"
)

type SubscriberRepository interface {
	Upsert(ctx context.Context, userID int64, username, firstName, lastName string) error

	SetCity(ctx context.Context, userID int64, city string) error

	UpdateSettings(ctx context.Context, userID int64, update models.SettingsUpdate) error

	Find(ctx context.Context, userID int64) (*models.Subscriber, error)

	FindDue(ctx context.Context, clock string) ([]models.DueSubscriber, error)

	FindAllActive(ctx context.Context) ([]models.Subscriber, error)

	Deactivate(ctx context.Context, userID int64) (bool, error)
}

type DialogStateRepository interface {
	GetState(ctx context.Context, userID int64) (models.DialogState, error)

	SetState(ctx context.Context, userID int64, state models.DialogState) error

	Clear(ctx context.Context, userID int64) error
}

type WeatherProvider interface {
	Current(ctx context.Context, city string) string

	Detailed(ctx context.Context, city string) string
}

type Notifier interface {
	SendTestNotification(ctx context.Context, userID int64) error
}

type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type BotService struct {
	subscriberRepo SubscriberRepository
	dialogRepo     DialogStateRepository
	weather        WeatherProvider
	notifier       Notifier
	txManager      TxManager
}

func NewBotService(
	subscriberRepo SubscriberRepository,
	dialogRepo DialogStateRepository,
	weather WeatherProvider,
	notifier Notifier,
	txManager TxManager,
) *BotService {
	return &BotService{
		subscriberRepo: subscriberRepo,
		dialogRepo:     dialogRepo,
		weather:        weather,
		notifier:       notifier,
		txManager:      txManager,
	}
}

func (s *BotService) ProcessCommand(ctx context.Context, command *models.Command) (*domain.Reply, error) {
	//nolint:exhaustive // CommandUnknown обрабатывается в блоке default
	switch command.Type {
	case models.CommandStart:
		return s.handleStartCommand(ctx, command)
	case models.CommandHelp:
		return &domain.Reply{Text: helpText}, nil
	case models.CommandWeather:
		return s.handleWeatherCommand(ctx, command)
	case models.CommandForecast:
		return s.handleForecastCommand(ctx, command)
	case models.CommandSubscribe:
		return s.handleSubscribeCommand(ctx, command)
	case models.CommandUnsubscribe:
		return s.handleUnsubscribeCommand(ctx, command)
	case models.CommandSettings:
		return s.handleSettingsCommand(ctx, command)
	case models.CommandMyWeather:
		return s.handleMyWeatherCommand(ctx, command)
	case models.CommandTestNotification:
		return s.handleTestNotificationCommand(ctx, command)
	default:
		return &domain.Reply{Text: "Неизвестная команда. Введите /help для просмотра доступных команд."},
			&domainerrors.ErrUnknownCommand{Command: string(command.Type)}
	}
}

// ProcessMessage обрабатывает текст вне команд: либо шаг диалога настройки,
// либо название города для разового запроса погоды.
func (s *BotService) ProcessMessage(ctx context.Context, userID int64, text string) (*domain.Reply, error) {
	state, err := s.dialogRepo.GetState(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch state {
	case models.DialogNone:
		return &domain.Reply{Text: s.weather.Current(ctx, strings.TrimSpace(text))}, nil
	case models.DialogAwaitingCity:
		return s.handleCityInput(ctx, userID, text)
	case models.DialogAwaitingMorningTime:
		return s.handleTimeInput(ctx, userID, text, models.SlotMorning)
	case models.DialogAwaitingEveningTime:
		return s.handleTimeInput(ctx, userID, text, models.SlotEvening)
	default:
		return nil, fmt.Errorf("неизвестное состояние диалога: %d", state)
	}
}

func (s *BotService) ProcessCallback(ctx context.Context, userID int64, data string) (*domain.CallbackResult, error) {
	switch data {
	case "change_city":
		if err := s.dialogRepo.SetState(ctx, userID, models.DialogAwaitingCity); err != nil {
			return nil, err
		}

		return &domain.CallbackResult{Reply: &domain.Reply{Text: askCityText}}, nil
	case "change_time":
		sub, err := s.subscriberRepo.Find(ctx, userID)
		if err != nil {
			return nil, err
		}

		return &domain.CallbackResult{Reply: timeMenu(sub)}, nil
	case "change_type":
		sub, err := s.subscriberRepo.Find(ctx, userID)
		if err != nil {
			return nil, err
		}

		return &domain.CallbackResult{Reply: typeMenu(sub)}, nil
	case "type_brief":
		return s.handleTypeChange(ctx, userID, models.ForecastBrief)
	case "type_detailed":
		return s.handleTypeChange(ctx, userID, models.ForecastDetailed)
	case "set_morning":
		if err := s.dialogRepo.SetState(ctx, userID, models.DialogAwaitingMorningTime); err != nil {
			return nil, err
		}

		return &domain.CallbackResult{Reply: &domain.Reply{Text: askMorningTimeText}}, nil
	case "set_evening":
		if err := s.dialogRepo.SetState(ctx, userID, models.DialogAwaitingEveningTime); err != nil {
			return nil, err
		}

		return &domain.CallbackResult{Reply: &domain.Reply{Text: askEveningTimeText}}, nil
	case "back_to_settings":
		sub, err := s.subscriberRepo.Find(ctx, userID)
		if err != nil {
			return nil, err
		}

		return &domain.CallbackResult{Reply: settingsMenu(sub)}, nil
	case "done":
		return &domain.CallbackResult{Reply: &domain.Reply{Text: settingsSavedText}}, nil
	default:
		return nil, fmt.Errorf("неизвестный callback: %s", data)
	}
}

func (s *BotService) handleStartCommand(ctx context.Context, command *models.Command) (*domain.Reply, error) {
	if err := s.dialogRepo.Clear(ctx, command.UserID); err != nil {
		return nil, err
	}

	return &domain.Reply{Text: welcomeText}, nil
}

func (s *BotService) handleWeatherCommand(ctx context.Context, command *models.Command) (*domain.Reply, error) {
	city := strings.TrimSpace(command.Args)
	if city == "" {
		return &domain.Reply{Text: "❌ Пожалуйста, укажите название города.\nПример: /weather Москва"}, nil
	}

	return &domain.Reply{Text: s.weather.Current(ctx, city)}, nil
}

func (s *BotService) handleForecastCommand(ctx context.Context, command *models.Command) (*domain.Reply, error) {
	city := strings.TrimSpace(command.Args)
	if city == "" {
		return &domain.Reply{Text: "❌ Пожалуйста, укажите название города.\nПример: /forecast Москва"}, nil
	}

	return &domain.Reply{Text: s.weather.Detailed(ctx, city)}, nil
}

// handleSubscribeCommand регистрирует подписчика и либо показывает меню
// настроек, либо, если город ещё не задан, запускает диалог его ввода.
func (s *BotService) handleSubscribeCommand(ctx context.Context, command *models.Command) (*domain.Reply, error) {
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		return s.subscriberRepo.Upsert(ctx, command.UserID, command.Username, command.FirstName, command.LastName)
	})
	if err != nil {
		return nil, err
	}

	sub, err := s.subscriberRepo.Find(ctx, command.UserID)
	if err != nil {
		return nil, err
	}

	if sub.City == "" {
		if err := s.dialogRepo.SetState(ctx, command.UserID, models.DialogAwaitingCity); err != nil {
			return nil, err
		}

		return &domain.Reply{Text: askCitySubscribe}, nil
	}

	return settingsMenu(sub), nil
}

func (s *BotService) handleUnsubscribeCommand(ctx context.Context, command *models.Command) (*domain.Reply, error) {
	deactivated, err := s.subscriberRepo.Deactivate(ctx, command.UserID)
	if err != nil {
		return nil, err
	}

	if !deactivated {
		return &domain.Reply{Text: unsubscribeFailed}, nil
	}

	return &domain.Reply{Text: unsubscribedText}, nil
}

func (s *BotService) handleSettingsCommand(ctx context.Context, command *models.Command) (*domain.Reply, error) {
	sub, err := s.subscriberRepo.Find(ctx, command.UserID)
	if err != nil {
		if errors.Is(err, &domainerrors.ErrSubscriberNotFound{}) {
			return &domain.Reply{Text: notSubscribedText}, nil
		}

		return nil, err
	}

	if sub.City == "" {
		return &domain.Reply{Text: cityNotSetText}, nil
	}

	return &domain.Reply{Text: settingsView(sub)}, nil
}

func (s *BotService) handleMyWeatherCommand(ctx context.Context, command *models.Command) (*domain.Reply, error) {
	sub, err := s.subscriberRepo.Find(ctx, command.UserID)
	if err != nil {
		if errors.Is(err, &domainerrors.ErrSubscriberNotFound{}) {
			return &domain.Reply{Text: cityNotSetText}, nil
		}

		return nil, err
	}

	if sub.City == "" {
		return &domain.Reply{Text: cityNotSetText}, nil
	}

	if sub.Settings.ForecastType == models.ForecastDetailed {
		return &domain.Reply{Text: s.weather.Detailed(ctx, sub.City)}, nil
	}

	return &domain.Reply{Text: s.weather.Current(ctx, sub.City)}, nil
}

func (s *BotService) handleTestNotificationCommand(ctx context.Context, command *models.Command) (*domain.Reply, error) {
	sub, err := s.subscriberRepo.Find(ctx, command.UserID)
	if err != nil {
		if errors.Is(err, &domainerrors.ErrSubscriberNotFound{}) {
			return &domain.Reply{Text: "❌ Город не настроен. Используйте /subscribe для настройки."}, nil
		}

		return nil, err
	}

	if sub.City == "" {
		return &domain.Reply{Text: "❌ Город не настроен. Используйте /subscribe для настройки."}, nil
	}

	if err := s.notifier.SendTestNotification(ctx, command.UserID); err != nil {
		return nil, err
	}

	return &domain.Reply{Text: "📤 Отправляю тестовое уведомление..."}, nil
}

func (s *BotService) handleCityInput(ctx context.Context, userID int64, text string) (*domain.Reply, error) {
	city := strings.TrimSpace(text)
	if city == "" {
		return &domain.Reply{Text: askCityRetry}, nil
	}

	if err := s.subscriberRepo.SetCity(ctx, userID, city); err != nil {
		return nil, err
	}

	if err := s.dialogRepo.Clear(ctx, userID); err != nil {
		return nil, err
	}

	sub, err := s.subscriberRepo.Find(ctx, userID)
	if err != nil {
		return nil, err
	}

	return settingsMenu(sub), nil
}

// handleTimeInput проверяет формат ЧЧ:ММ и сохраняет время слота.
// При ошибке формата состояние диалога сохраняется и ввод запрашивается снова.
func (s *BotService) handleTimeInput(ctx context.Context, userID int64, text string, slot models.Slot) (*domain.Reply, error) {
	value := strings.TrimSpace(text)

	if err := models.ValidateTimeOfDay(value); err != nil {
		if slot == models.SlotMorning {
			return &domain.Reply{Text: invalidTimeMorning}, nil
		}

		return &domain.Reply{Text: invalidTimeEvening}, nil
	}

	field := "evening_time"
	if slot == models.SlotMorning {
		field = "morning_time"
	}

	update := models.SettingsUpdateFromMap(map[string]any{field: value})

	if err := s.subscriberRepo.UpdateSettings(ctx, userID, update); err != nil {
		return nil, err
	}

	if err := s.dialogRepo.Clear(ctx, userID); err != nil {
		return nil, err
	}

	sub, err := s.subscriberRepo.Find(ctx, userID)
	if err != nil {
		return nil, err
	}

	return settingsMenu(sub), nil
}

func (s *BotService) handleTypeChange(ctx context.Context, userID int64, forecastType models.ForecastType) (*domain.CallbackResult, error) {
	update := models.SettingsUpdateFromMap(map[string]any{"forecast_type": forecastType})

	if err := s.subscriberRepo.UpdateSettings(ctx, userID, update); err != nil {
		return nil, err
	}

	name := "краткий"
	if forecastType == models.ForecastDetailed {
		name = "подробный"
	}

	return &domain.CallbackResult{Toast: "✅ Тип прогноза изменен на " + name}, nil
}
