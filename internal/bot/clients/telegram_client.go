package clients

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/central-university-dev/go-weather-bot/internal/bot/domain"
	"github.com/central-university-dev/go-weather-bot/internal/common/metrics"
)

type TelegramClient struct {
	bot     *tgbotapi.BotAPI
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewTelegramClient создаёт клиента Telegram Bot API. Исходящие сообщения
// проходят через общий rate limiter: Telegram ограничивает ботов примерно
// 30 сообщениями в секунду суммарно по всем чатам.
func NewTelegramClient(token string, sendRateLimit int, logger *slog.Logger) domain.TelegramClientAPI {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Ошибка при создании Telegram клиента", "error", err)
	}

	if sendRateLimit <= 0 {
		sendRateLimit = 25
	}

	return &TelegramClient{
		bot:     bot,
		limiter: rate.NewLimiter(rate.Limit(sendRateLimit), sendRateLimit),
		logger:  logger,
	}
}

// SetBaseURL устанавливает базовый URL для API Telegram (используется в тестах).
func (c *TelegramClient) SetBaseURL(url string) {
	if c.bot != nil {
		c.bot.SetAPIEndpoint(url)
	}
}

func (c *TelegramClient) SendMessage(ctx context.Context, chatID int64, text string) error {
	return c.SendReply(ctx, chatID, &domain.Reply{Text: text})
}

func (c *TelegramClient) SendReply(ctx context.Context, chatID int64, reply *domain.Reply) error {
	if c.bot == nil {
		return fmt.Errorf("telegram клиент не инициализирован")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("ошибка при ожидании rate limiter: %w", err)
	}

	msg := tgbotapi.NewMessage(chatID, reply.Text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if reply.Keyboard != nil {
		msg.ReplyMarkup = buildKeyboard(reply.Keyboard)
	}

	_, err := c.bot.Send(msg)
	metrics.RecordOutgoingMessage(err)

	if err != nil {
		return fmt.Errorf("ошибка при отправке сообщения: %w", err)
	}

	return nil
}

func (c *TelegramClient) EditMessage(ctx context.Context, chatID int64, messageID int, reply *domain.Reply) error {
	if c.bot == nil {
		return fmt.Errorf("telegram клиент не инициализирован")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("ошибка при ожидании rate limiter: %w", err)
	}

	msg := tgbotapi.NewEditMessageText(chatID, messageID, reply.Text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if reply.Keyboard != nil {
		markup := buildKeyboard(reply.Keyboard)
		msg.ReplyMarkup = &markup
	}

	_, err := c.bot.Send(msg)
	metrics.RecordOutgoingMessage(err)

	if err != nil {
		return fmt.Errorf("ошибка при редактировании сообщения: %w", err)
	}

	return nil
}

func (c *TelegramClient) AnswerCallback(_ context.Context, callbackID, text string) error {
	if c.bot == nil {
		return fmt.Errorf("telegram клиент не инициализирован")
	}

	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := c.bot.Request(callback); err != nil {
		return fmt.Errorf("ошибка при ответе на callback: %w", err)
	}

	return nil
}

func (c *TelegramClient) SendTyping(_ context.Context, chatID int64) error {
	if c.bot == nil {
		return fmt.Errorf("telegram клиент не инициализирован")
	}

	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := c.bot.Request(action); err != nil {
		return fmt.Errorf("ошибка при отправке chat action: %w", err)
	}

	return nil
}

func (c *TelegramClient) SetMyCommands(_ context.Context, commands []domain.BotCommand) error {
	if c.bot == nil {
		return fmt.Errorf("telegram клиент не инициализирован")
	}

	botCommands := make([]tgbotapi.BotCommand, 0, len(commands))
	for _, cmd := range commands {
		botCommands = append(botCommands, tgbotapi.BotCommand{
			Command:     cmd.Command,
			Description: cmd.Description,
		})
	}

	setCommands := tgbotapi.NewSetMyCommands(botCommands...)
	if _, err := c.bot.Request(setCommands); err != nil {
		return fmt.Errorf("ошибка при регистрации команд: %w", err)
	}

	return nil
}

func (c *TelegramClient) GetBot() *tgbotapi.BotAPI {
	return c.bot
}

func buildKeyboard(keyboard domain.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(keyboard))

	for _, row := range keyboard {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.Data))
		}

		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
