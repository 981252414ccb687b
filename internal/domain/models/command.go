package models

type CommandType string

const (
	CommandStart            CommandType = "/start"
	CommandHelp             CommandType = "/help"
	CommandWeather          CommandType = "/weather"
	CommandForecast         CommandType = "/forecast"
	CommandSubscribe        CommandType = "/subscribe"
	CommandUnsubscribe      CommandType = "/unsubscribe"
	CommandSettings         CommandType = "/settings"
	CommandMyWeather        CommandType = "/my_weather"
	CommandTestNotification CommandType = "/test_notification"
	CommandUnknown          CommandType = "unknown"
)

type Command struct {
	Type      CommandType
	ChatID    int64
	UserID    int64
	Text      string
	Args      string
	Username  string
	FirstName string
	LastName  string
}
