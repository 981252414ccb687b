package service

import (
	"fmt"

	"github.com/central-university-dev/go-weather-bot/internal/bot/domain"
	"github.com/central-university-dev/go-weather-bot/internal/domain/models"
)

const welcomeText = `🌤️ Добро пожаловать в бота прогноза погоды!

Доступные команды:
/weather <город> - краткий прогноз погоды
/forecast <город> - подробный прогноз погоды
/help - помощь

Примеры:
/weather Москва
/forecast Санкт-Петербург
/weather London`

const helpText = `🌤️ Помощь по использованию бота

Основные команды:
/weather <город> - получить краткий прогноз погоды
/forecast <город> - получить подробный прогноз погоды

Команды подписки:
/subscribe - настроить автоматическую отправку погоды
/unsubscribe - отключить автоматические уведомления
/settings - посмотреть текущие настройки
/my_weather - получить погоду для вашего города
/test_notification - отправить тестовое уведомление

Управление:
/start - начать работу с ботом
/help - показать эту справку

Примеры использования:
/weather Москва
/forecast Санкт-Петербург
/subscribe

Бот поддерживает города на разных языках!`

const (
	askCityText        = "🏙️ Введите название города:"
	askCitySubscribe   = "🏙️ Введите название города для автоматической отправки погоды:"
	askCityRetry       = "❌ Пожалуйста, введите название города:"
	askMorningTimeText = "🌅 Введите время для утренних уведомлений (формат: ЧЧ:ММ)\nНапример: 08:00"
	askEveningTimeText = "🌙 Введите время для вечерних уведомлений (формат: ЧЧ:ММ)\nНапример: 20:00"
	invalidTimeMorning = "❌ Неверный формат времени. Используйте формат ЧЧ:ММ (например: 08:00)"
	invalidTimeEvening = "❌ Неверный формат времени. Используйте формат ЧЧ:ММ (например: 20:00)"
	settingsSavedText  = "✅ Настройки сохранены! Теперь вы будете получать автоматические уведомления о погоде."
	cityNotSetText     = "❌ Город не установлен. Используйте /subscribe для настройки."
	notSubscribedText  = "❌ Вы не подписаны на уведомления. Используйте /subscribe для настройки."
	unsubscribedText   = "❌ Автоматические уведомления о погоде отключены."
	unsubscribeFailed  = "❌ Ошибка при отключении уведомлений."
)

func forecastTypeName(forecastType models.ForecastType) string {
	if forecastType == models.ForecastDetailed {
		return "Подробный"
	}

	return "Краткий"
}

func settingsKeyboard() domain.Keyboard {
	return domain.Keyboard{
		{{Text: "🏙️ Изменить город", Data: "change_city"}},
		{{Text: "⏰ Настроить время", Data: "change_time"}},
		{{Text: "📊 Тип прогноза", Data: "change_type"}},
		{{Text: "✅ Готово", Data: "done"}},
	}
}

func settingsMenu(sub *models.Subscriber) *domain.Reply {
	text := fmt.Sprintf(`🌤️ Настройки автоматической отправки погоды

🏙️ Город: %s
⏰ Утреннее время: %s
🌙 Вечернее время: %s
📊 Тип прогноза: %s

Выберите, что хотите изменить:`,
		sub.City, sub.Settings.MorningTime, sub.Settings.EveningTime, forecastTypeName(sub.Settings.ForecastType))

	return &domain.Reply{Text: text, Keyboard: settingsKeyboard()}
}

func settingsView(sub *models.Subscriber) string {
	status := "Неактивен"
	if sub.IsActive {
		status = "Активен"
	}

	return fmt.Sprintf(`🌤️ Ваши настройки погоды

🏙️ Город: %s
⏰ Утреннее время: %s
🌙 Вечернее время: %s
📊 Тип прогноза: %s
📅 Статус: %s

Используйте /subscribe для изменения настроек.`,
		sub.City, sub.Settings.MorningTime, sub.Settings.EveningTime,
		forecastTypeName(sub.Settings.ForecastType), status)
}

func timeMenu(sub *models.Subscriber) *domain.Reply {
	text := fmt.Sprintf(`⏰ Настройка времени уведомлений

🌅 Утреннее время: %s
🌙 Вечернее время: %s

Выберите, что хотите изменить:`,
		sub.Settings.MorningTime, sub.Settings.EveningTime)

	return &domain.Reply{Text: text, Keyboard: domain.Keyboard{
		{{Text: "⏰ Утреннее время", Data: "set_morning"}},
		{{Text: "🌙 Вечернее время", Data: "set_evening"}},
		{{Text: "🔙 Назад", Data: "back_to_settings"}},
	}}
}

func typeMenu(sub *models.Subscriber) *domain.Reply {
	marker := func(forecastType models.ForecastType) string {
		if sub.Settings.ForecastType == forecastType {
			return "✅"
		}

		return "❌"
	}

	return &domain.Reply{Text: "📊 Выберите тип прогноза:", Keyboard: domain.Keyboard{
		{{Text: marker(models.ForecastBrief) + " Краткий прогноз", Data: "type_brief"}},
		{{Text: marker(models.ForecastDetailed) + " Подробный прогноз", Data: "type_detailed"}},
		{{Text: "🔙 Назад", Data: "back_to_settings"}},
	}}
}
