package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/central-university-dev/go-weather-bot/internal/bot/service"
	"github.com/central-university-dev/go-weather-bot/internal/bot/service/mocks"
	"github.com/central-university-dev/go-weather-bot/internal/domain/errors"
	"github.com/central-university-dev/go-weather-bot/internal/domain/models"
)

const (
	testUserID = int64(654321)
	testChatID = int64(123456)
)

type serviceMocks struct {
	subscriberRepo *mocks.SubscriberRepository
	dialogRepo     *mocks.DialogStateRepository
	weather        *mocks.WeatherProvider
	notifier       *mocks.Notifier
	txManager      *mocks.TxManager
}

func newBotService() (*service.BotService, *serviceMocks) {
	m := &serviceMocks{
		subscriberRepo: new(mocks.SubscriberRepository),
		dialogRepo:     new(mocks.DialogStateRepository),
		weather:        new(mocks.WeatherProvider),
		notifier:       new(mocks.Notifier),
		txManager:      new(mocks.TxManager),
	}

	return service.NewBotService(m.subscriberRepo, m.dialogRepo, m.weather, m.notifier, m.txManager), m
}

func subscribedUser(city string) *models.Subscriber {
	return &models.Subscriber{
		UserID:   testUserID,
		Username: "testuser",
		City:     city,
		IsActive: true,
		Settings: models.DefaultNotificationSettings(),
	}
}

func TestBotService_ProcessCommand_UnknownCommand(t *testing.T) {
	botService, _ := newBotService()

	command := &models.Command{
		Type:   models.CommandUnknown,
		ChatID: testChatID,
		UserID: testUserID,
		Text:   "/unknown",
	}

	reply, err := botService.ProcessCommand(context.Background(), command)

	assert.Error(t, err)
	assert.IsType(t, &errors.ErrUnknownCommand{}, err)
	require.NotNil(t, reply)
	assert.Contains(t, reply.Text, "Неизвестная команда")
}

func TestBotService_ProcessCommand_Start(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.dialogRepo.On("Clear", ctx, testUserID).Return(nil)

	reply, err := botService.ProcessCommand(ctx, &models.Command{
		Type:   models.CommandStart,
		ChatID: testChatID,
		UserID: testUserID,
	})

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Добро пожаловать")
	m.dialogRepo.AssertExpectations(t)
}

func TestBotService_ProcessCommand_Help(t *testing.T) {
	botService, _ := newBotService()

	reply, err := botService.ProcessCommand(context.Background(), &models.Command{
		Type:   models.CommandHelp,
		UserID: testUserID,
	})

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "/weather")
	assert.Contains(t, reply.Text, "/subscribe")
	assert.Contains(t, reply.Text, "/test_notification")
}

func TestBotService_ProcessCommand_WeatherWithCity(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.weather.On("Current", ctx, "Москва").Return("🌤️ *Погода в Москва*")

	reply, err := botService.ProcessCommand(ctx, &models.Command{
		Type:   models.CommandWeather,
		UserID: testUserID,
		Args:   "Москва",
	})

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Погода в Москва")
	m.weather.AssertExpectations(t)
}

func TestBotService_ProcessCommand_WeatherWithoutCity(t *testing.T) {
	botService, m := newBotService()

	reply, err := botService.ProcessCommand(context.Background(), &models.Command{
		Type:   models.CommandWeather,
		UserID: testUserID,
		Args:   "   ",
	})

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "укажите название города")
	m.weather.AssertNotCalled(t, "Current", mock.Anything, mock.Anything)
}

func TestBotService_ProcessCommand_ForecastWithCity(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.weather.On("Detailed", ctx, "Казань").Return("🌤️ *Подробный прогноз погоды для Казань*")

	reply, err := botService.ProcessCommand(ctx, &models.Command{
		Type:   models.CommandForecast,
		UserID: testUserID,
		Args:   "Казань",
	})

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Подробный прогноз")
	m.weather.AssertExpectations(t)
}

func TestBotService_ProcessCommand_SubscribeNewUser(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.txManager.On("WithTransaction", mock.Anything, mock.AnythingOfType("func(context.Context) error")).Return(nil).
		Run(func(args mock.Arguments) {
			txFunc := args.Get(1).(func(context.Context) error)
			_ = txFunc(ctx)
		})
	m.subscriberRepo.On("Upsert", ctx, testUserID, "testuser", "Тест", "").Return(nil)
	m.subscriberRepo.On("Find", ctx, testUserID).Return(subscribedUser(""), nil)
	m.dialogRepo.On("SetState", ctx, testUserID, models.DialogAwaitingCity).Return(nil)

	reply, err := botService.ProcessCommand(ctx, &models.Command{
		Type:      models.CommandSubscribe,
		UserID:    testUserID,
		Username:  "testuser",
		FirstName: "Тест",
	})

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Введите название города")
	assert.Nil(t, reply.Keyboard)
	m.subscriberRepo.AssertExpectations(t)
	m.dialogRepo.AssertExpectations(t)
	m.txManager.AssertExpectations(t)
}

func TestBotService_ProcessCommand_SubscribeWithCity(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.txManager.On("WithTransaction", mock.Anything, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	m.subscriberRepo.On("Find", ctx, testUserID).Return(subscribedUser("Москва"), nil)

	reply, err := botService.ProcessCommand(ctx, &models.Command{
		Type:   models.CommandSubscribe,
		UserID: testUserID,
	})

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Настройки автоматической отправки погоды")
	assert.Contains(t, reply.Text, "Москва")
	require.Len(t, reply.Keyboard, 4)
	assert.Equal(t, "change_city", reply.Keyboard[0][0].Data)
	m.dialogRepo.AssertNotCalled(t, "SetState", mock.Anything, mock.Anything, mock.Anything)
}

func TestBotService_ProcessCommand_Unsubscribe(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.subscriberRepo.On("Deactivate", ctx, testUserID).Return(true, nil)

	reply, err := botService.ProcessCommand(ctx, &models.Command{
		Type:   models.CommandUnsubscribe,
		UserID: testUserID,
	})

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "уведомления о погоде отключены")
}

func TestBotService_ProcessCommand_UnsubscribeUnknownUser(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.subscriberRepo.On("Deactivate", ctx, testUserID).Return(false, nil)

	reply, err := botService.ProcessCommand(ctx, &models.Command{
		Type:   models.CommandUnsubscribe,
		UserID: testUserID,
	})

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Ошибка при отключении уведомлений")
}

func TestBotService_ProcessCommand_SettingsNotSubscribed(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.subscriberRepo.On("Find", ctx, testUserID).Return(nil, &errors.ErrSubscriberNotFound{UserID: testUserID})

	reply, err := botService.ProcessCommand(ctx, &models.Command{
		Type:   models.CommandSettings,
		UserID: testUserID,
	})

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Вы не подписаны")
}

func TestBotService_ProcessCommand_Settings(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.subscriberRepo.On("Find", ctx, testUserID).Return(subscribedUser("Москва"), nil)

	reply, err := botService.ProcessCommand(ctx, &models.Command{
		Type:   models.CommandSettings,
		UserID: testUserID,
	})

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Ваши настройки погоды")
	assert.Contains(t, reply.Text, "08:00")
	assert.Contains(t, reply.Text, "Статус: Активен")
	assert.Nil(t, reply.Keyboard)
}

func TestBotService_ProcessCommand_MyWeatherBrief(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.subscriberRepo.On("Find", ctx, testUserID).Return(subscribedUser("Москва"), nil)
	m.weather.On("Current", ctx, "Москва").Return("🌤️ *Погода в Москва*")

	reply, err := botService.ProcessCommand(ctx, &models.Command{
		Type:   models.CommandMyWeather,
		UserID: testUserID,
	})

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Погода в Москва")
	m.weather.AssertNotCalled(t, "Detailed", mock.Anything, mock.Anything)
}

func TestBotService_ProcessCommand_MyWeatherDetailed(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	sub := subscribedUser("Москва")
	sub.Settings.ForecastType = models.ForecastDetailed

	m.subscriberRepo.On("Find", ctx, testUserID).Return(sub, nil)
	m.weather.On("Detailed", ctx, "Москва").Return("🌤️ *Подробный прогноз погоды для Москва*")

	reply, err := botService.ProcessCommand(ctx, &models.Command{
		Type:   models.CommandMyWeather,
		UserID: testUserID,
	})

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Подробный прогноз")
	m.weather.AssertNotCalled(t, "Current", mock.Anything, mock.Anything)
}

func TestBotService_ProcessCommand_MyWeatherNoCity(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.subscriberRepo.On("Find", ctx, testUserID).Return(subscribedUser(""), nil)

	reply, err := botService.ProcessCommand(ctx, &models.Command{
		Type:   models.CommandMyWeather,
		UserID: testUserID,
	})

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Город не установлен")
}

func TestBotService_ProcessCommand_TestNotification(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.subscriberRepo.On("Find", ctx, testUserID).Return(subscribedUser("Москва"), nil)
	m.notifier.On("SendTestNotification", ctx, testUserID).Return(nil)

	reply, err := botService.ProcessCommand(ctx, &models.Command{
		Type:   models.CommandTestNotification,
		UserID: testUserID,
	})

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "тестовое уведомление")
	m.notifier.AssertExpectations(t)
}

func TestBotService_ProcessCommand_TestNotificationNoCity(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.subscriberRepo.On("Find", ctx, testUserID).Return(subscribedUser(""), nil)

	reply, err := botService.ProcessCommand(ctx, &models.Command{
		Type:   models.CommandTestNotification,
		UserID: testUserID,
	})

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Город не настроен")
	m.notifier.AssertNotCalled(t, "SendTestNotification", mock.Anything, mock.Anything)
}

func TestBotService_ProcessMessage_PlainTextIsWeatherRequest(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.dialogRepo.On("GetState", ctx, testUserID).Return(models.DialogNone, nil)
	m.weather.On("Current", ctx, "Санкт-Петербург").Return("🌤️ *Погода в Санкт-Петербург*")

	reply, err := botService.ProcessMessage(ctx, testUserID, " Санкт-Петербург ")

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Погода в Санкт-Петербург")
}

func TestBotService_ProcessMessage_CityInput(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.dialogRepo.On("GetState", ctx, testUserID).Return(models.DialogAwaitingCity, nil)
	m.subscriberRepo.On("SetCity", ctx, testUserID, "Москва").Return(nil)
	m.dialogRepo.On("Clear", ctx, testUserID).Return(nil)
	m.subscriberRepo.On("Find", ctx, testUserID).Return(subscribedUser("Москва"), nil)

	reply, err := botService.ProcessMessage(ctx, testUserID, "Москва")

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Настройки автоматической отправки погоды")
	m.subscriberRepo.AssertExpectations(t)
	m.dialogRepo.AssertExpectations(t)
}

func TestBotService_ProcessMessage_EmptyCityReprompts(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.dialogRepo.On("GetState", ctx, testUserID).Return(models.DialogAwaitingCity, nil)

	reply, err := botService.ProcessMessage(ctx, testUserID, "   ")

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "введите название города")
	m.subscriberRepo.AssertNotCalled(t, "SetCity", mock.Anything, mock.Anything, mock.Anything)
	m.dialogRepo.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestBotService_ProcessMessage_MorningTimeInput(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.dialogRepo.On("GetState", ctx, testUserID).Return(models.DialogAwaitingMorningTime, nil)
	m.subscriberRepo.On("UpdateSettings", ctx, testUserID, mock.MatchedBy(func(u models.SettingsUpdate) bool {
		return u.MorningTime != nil && *u.MorningTime == "07:30" && u.EveningTime == nil
	})).Return(nil)
	m.dialogRepo.On("Clear", ctx, testUserID).Return(nil)
	m.subscriberRepo.On("Find", ctx, testUserID).Return(subscribedUser("Москва"), nil)

	reply, err := botService.ProcessMessage(ctx, testUserID, "07:30")

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Настройки автоматической отправки погоды")
	m.subscriberRepo.AssertExpectations(t)
}

func TestBotService_ProcessMessage_InvalidTimeReprompts(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.dialogRepo.On("GetState", ctx, testUserID).Return(models.DialogAwaitingMorningTime, nil)

	reply, err := botService.ProcessMessage(ctx, testUserID, "8:00")

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Неверный формат времени")
	m.subscriberRepo.AssertNotCalled(t, "UpdateSettings", mock.Anything, mock.Anything, mock.Anything)
	m.dialogRepo.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestBotService_ProcessMessage_EveningTimeInput(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.dialogRepo.On("GetState", ctx, testUserID).Return(models.DialogAwaitingEveningTime, nil)
	m.subscriberRepo.On("UpdateSettings", ctx, testUserID, mock.MatchedBy(func(u models.SettingsUpdate) bool {
		return u.EveningTime != nil && *u.EveningTime == "21:15" && u.MorningTime == nil
	})).Return(nil)
	m.dialogRepo.On("Clear", ctx, testUserID).Return(nil)
	m.subscriberRepo.On("Find", ctx, testUserID).Return(subscribedUser("Москва"), nil)

	reply, err := botService.ProcessMessage(ctx, testUserID, "21:15")

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Настройки автоматической отправки погоды")
}

func TestBotService_ProcessCallback_ChangeCity(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.dialogRepo.On("SetState", ctx, testUserID, models.DialogAwaitingCity).Return(nil)

	result, err := botService.ProcessCallback(ctx, testUserID, "change_city")

	require.NoError(t, err)
	require.NotNil(t, result.Reply)
	assert.Contains(t, result.Reply.Text, "Введите название города")
}

func TestBotService_ProcessCallback_ChangeTime(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.subscriberRepo.On("Find", ctx, testUserID).Return(subscribedUser("Москва"), nil)

	result, err := botService.ProcessCallback(ctx, testUserID, "change_time")

	require.NoError(t, err)
	require.NotNil(t, result.Reply)
	assert.Contains(t, result.Reply.Text, "Настройка времени уведомлений")
	require.Len(t, result.Reply.Keyboard, 3)
	assert.Equal(t, "set_morning", result.Reply.Keyboard[0][0].Data)
	assert.Equal(t, "set_evening", result.Reply.Keyboard[1][0].Data)
}

func TestBotService_ProcessCallback_ChangeType(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.subscriberRepo.On("Find", ctx, testUserID).Return(subscribedUser("Москва"), nil)

	result, err := botService.ProcessCallback(ctx, testUserID, "change_type")

	require.NoError(t, err)
	require.NotNil(t, result.Reply)
	assert.Contains(t, result.Reply.Keyboard[0][0].Text, "✅ Краткий прогноз")
	assert.Contains(t, result.Reply.Keyboard[1][0].Text, "❌ Подробный прогноз")
}

func TestBotService_ProcessCallback_SetType(t *testing.T) {
	botService, m := newBotService()
	ctx := context.Background()

	m.subscriberRepo.On("UpdateSettings", ctx, testUserID, mock.MatchedBy(func(u models.SettingsUpdate) bool {
		return u.ForecastType != nil && *u.ForecastType == models.ForecastDetailed
	})).Return(nil)

	result, err := botService.ProcessCallback(ctx, testUserID, "type_detailed")

	require.NoError(t, err)
	assert.Nil(t, result.Reply)
	assert.Contains(t, result.Toast, "изменен на подробный")
}

func TestBotService_ProcessCallback_Done(t *testing.T) {
	botService, _ := newBotService()

	result, err := botService.ProcessCallback(context.Background(), testUserID, "done")

	require.NoError(t, err)
	require.NotNil(t, result.Reply)
	assert.Contains(t, result.Reply.Text, "Настройки сохранены")
}

func TestBotService_ProcessCallback_Unknown(t *testing.T) {
	botService, _ := newBotService()

	_, err := botService.ProcessCallback(context.Background(), testUserID, "bogus")

	assert.Error(t, err)
}
