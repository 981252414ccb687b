package domain

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type BotCommand struct {
	Command     string
	Description string
}

type InlineButton struct {
	Text string
	Data string
}

type Keyboard [][]InlineButton

// Reply — ответ обработчика: текст и, опционально, inline-клавиатура.
type Reply struct {
	Text     string
	Keyboard Keyboard
}

// CallbackResult — результат обработки нажатия inline-кнопки.
// Reply == nil означает, что исходное сообщение не меняется,
// Toast показывается через answerCallbackQuery.
type CallbackResult struct {
	Reply *Reply
	Toast string
}

type TelegramClientAPI interface {
	SendMessage(ctx context.Context, chatID int64, text string) error

	SendReply(ctx context.Context, chatID int64, reply *Reply) error

	EditMessage(ctx context.Context, chatID int64, messageID int, reply *Reply) error

	AnswerCallback(ctx context.Context, callbackID, text string) error

	SendTyping(ctx context.Context, chatID int64) error

	SetMyCommands(ctx context.Context, commands []BotCommand) error

	GetBot() *tgbotapi.BotAPI
}
