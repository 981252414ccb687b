package telegram

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/central-university-dev/go-weather-bot/internal/bot/domain"
	"github.com/central-university-dev/go-weather-bot/internal/common/metrics"
	"github.com/central-university-dev/go-weather-bot/internal/domain/models"
)

type BotService interface {
	ProcessCommand(ctx context.Context, command *models.Command) (*domain.Reply, error)

	ProcessMessage(ctx context.Context, userID int64, text string) (*domain.Reply, error)

	ProcessCallback(ctx context.Context, userID int64, data string) (*domain.CallbackResult, error)
}

const processTimeout = 10 * time.Second

type Poller struct {
	telegramClient domain.TelegramClientAPI
	botService     BotService
	logger         *slog.Logger
	mu             sync.Mutex
	stopped        bool
	updatesChan    tgbotapi.UpdatesChannel
	stopChan       chan struct{}
}

func NewPoller(telegramClient domain.TelegramClientAPI, botService BotService, logger *slog.Logger) *Poller {
	return &Poller{
		telegramClient: telegramClient,
		botService:     botService,
		logger:         logger,
		stopped:        true,
	}
}

// Start запускает цикл обработки обновлений. Повторный вызов на уже
// запущенном поллере ничего не делает.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.stopped {
		return
	}

	p.logger.Info("Запуск Telegram поллера")

	bot := p.telegramClient.GetBot()
	if bot == nil {
		p.logger.Error("Не удалось получить доступ к API бота")
		return
	}

	p.stopped = false
	p.stopChan = make(chan struct{})

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	p.updatesChan = bot.GetUpdatesChan(u)

	stopChan := p.stopChan

	go func() {
		for {
			select {
			case <-stopChan:
				p.logger.Info("Получен сигнал остановки поллера")
				return
			case update := <-p.updatesChan:
				p.processUpdate(&update)
			}
		}
	}()
}

// Stop останавливает поллер; повторные вызовы безопасны.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}

	p.logger.Info("Остановка Telegram поллера")
	p.stopped = true
	close(p.stopChan)
}

func (p *Poller) processUpdate(update *tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		p.processCallback(update.CallbackQuery)
	case update.Message != nil:
		p.processMessage(update.Message)
	}
}

func (p *Poller) processMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	userID := message.From.ID
	text := message.Text

	p.logger.Info("Получено сообщение",
		"chat_id", chatID,
		"user_id", userID,
		"text", text,
		"username", message.From.UserName,
	)

	messageType := "message"
	if message.IsCommand() {
		messageType = "command"
	}

	metrics.RecordUserMessage(chatID, messageType)

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	var reply *domain.Reply

	var err error

	if message.IsCommand() {
		command := &models.Command{
			Type:      getCommandType("/" + message.Command()),
			ChatID:    chatID,
			UserID:    userID,
			Text:      text,
			Args:      message.CommandArguments(),
			Username:  message.From.UserName,
			FirstName: message.From.FirstName,
			LastName:  message.From.LastName,
		}

		if isWeatherCommand(command.Type) {
			if err := p.telegramClient.SendTyping(ctx, chatID); err != nil {
				p.logger.Warn("Не удалось отправить индикатор набора", "error", err, "chat_id", chatID)
			}
		}

		reply, err = p.botService.ProcessCommand(ctx, command)
	} else {
		if err := p.telegramClient.SendTyping(ctx, chatID); err != nil {
			p.logger.Warn("Не удалось отправить индикатор набора", "error", err, "chat_id", chatID)
		}

		reply, err = p.botService.ProcessMessage(ctx, userID, text)
	}

	if err != nil {
		p.logger.Error("Ошибка при обработке сообщения",
			"error", err,
			"chat_id", chatID,
			"text", text,
		)

		if reply == nil {
			reply = &domain.Reply{Text: "Произошла ошибка при обработке вашего сообщения. Пожалуйста, попробуйте позже."}
		}
	}

	if reply != nil && reply.Text != "" {
		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()

		if err := p.telegramClient.SendReply(ctx, chatID, reply); err != nil {
			p.logger.Error("Ошибка при отправке ответа",
				"error", err,
				"chat_id", chatID,
				"text", reply.Text,
			)
		}
	}
}

func (p *Poller) processCallback(callback *tgbotapi.CallbackQuery) {
	userID := callback.From.ID

	p.logger.Info("Получен callback",
		"user_id", userID,
		"data", callback.Data,
	)

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	result, err := p.botService.ProcessCallback(ctx, userID, callback.Data)
	if err != nil {
		p.logger.Error("Ошибка при обработке callback",
			"error", err,
			"user_id", userID,
			"data", callback.Data,
		)

		if err := p.telegramClient.AnswerCallback(ctx, callback.ID, "Произошла ошибка. Попробуйте позже."); err != nil {
			p.logger.Error("Ошибка при ответе на callback", "error", err)
		}

		return
	}

	if result.Reply != nil && callback.Message != nil {
		chatID := callback.Message.Chat.ID

		if err := p.telegramClient.EditMessage(ctx, chatID, callback.Message.MessageID, result.Reply); err != nil {
			p.logger.Error("Ошибка при редактировании сообщения",
				"error", err,
				"chat_id", chatID,
			)
		}
	}

	if err := p.telegramClient.AnswerCallback(ctx, callback.ID, result.Toast); err != nil {
		p.logger.Error("Ошибка при ответе на callback", "error", err)
	}
}

func isWeatherCommand(commandType models.CommandType) bool {
	switch commandType {
	case models.CommandWeather, models.CommandForecast, models.CommandMyWeather:
		return true
	default:
		return false
	}
}

func getCommandType(commandName string) models.CommandType {
	switch commandName {
	case "/start":
		return models.CommandStart
	case "/help":
		return models.CommandHelp
	case "/weather":
		return models.CommandWeather
	case "/forecast":
		return models.CommandForecast
	case "/subscribe":
		return models.CommandSubscribe
	case "/unsubscribe":
		return models.CommandUnsubscribe
	case "/settings":
		return models.CommandSettings
	case "/my_weather":
		return models.CommandMyWeather
	case "/test_notification":
		return models.CommandTestNotification
	default:
		return models.CommandUnknown
	}
}
