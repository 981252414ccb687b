package weather

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type jsonReport struct {
	CurrentCondition []currentCondition `json:"current_condition"`
	Weather          []dayForecast      `json:"weather"`
}

type currentCondition struct {
	TempC          string      `json:"temp_C"`
	FeelsLikeC     string      `json:"FeelsLikeC"`
	Humidity       string      `json:"humidity"`
	WindspeedKmph  string      `json:"windspeedKmph"`
	Winddir16Point string      `json:"winddir16Point"`
	Pressure       string      `json:"pressure"`
	Visibility     string      `json:"visibility"`
	WeatherDesc    []textValue `json:"weatherDesc"`
}

type dayForecast struct {
	Date     string       `json:"date"`
	MaxTempC string       `json:"maxtempC"`
	MinTempC string       `json:"mintempC"`
	Hourly   []hourlySlot `json:"hourly"`
}

type hourlySlot struct {
	WeatherDesc []textValue `json:"weatherDesc"`
	PrecipMM    string      `json:"precipMM"`
}

type textValue struct {
	Value string `json:"value"`
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("погодный сервис вернул статус: %d", e.code)
}

var errEmptyReport = errors.New("пустой ответ погодного сервиса")

var weekdaysRu = map[time.Weekday]string{
	time.Monday:    "Понедельник",
	time.Tuesday:   "Вторник",
	time.Wednesday: "Среда",
	time.Thursday:  "Четверг",
	time.Friday:    "Пятница",
	time.Saturday:  "Суббота",
	time.Sunday:    "Воскресенье",
}

func (c currentCondition) description() string {
	if len(c.WeatherDesc) == 0 {
		return ""
	}

	return strings.TrimSpace(c.WeatherDesc[0].Value)
}

func renderCurrent(city string, report *jsonReport) (string, error) {
	if report == nil || len(report.CurrentCondition) == 0 {
		return "", errEmptyReport
	}

	current := report.CurrentCondition[0]

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("🌤️ *Погода в %s*\n\n", city))
	sb.WriteString(fmt.Sprintf("🌡️ Температура: *%s°C* (ощущается как %s°C)\n", current.TempC, current.FeelsLikeC))
	sb.WriteString(fmt.Sprintf("☁️ Погода: *%s*\n", current.description()))
	sb.WriteString(fmt.Sprintf("💧 Влажность: *%s%%*\n", current.Humidity))
	sb.WriteString(fmt.Sprintf("💨 Ветер: *%s км/ч %s*\n", current.WindspeedKmph, current.Winddir16Point))
	sb.WriteString(fmt.Sprintf("📊 Давление: *%s гПа*", current.Pressure))

	return sb.String(), nil
}

func renderDetailed(city string, report *jsonReport) (string, error) {
	if report == nil || len(report.CurrentCondition) == 0 {
		return "", errEmptyReport
	}

	current := report.CurrentCondition[0]

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("🌤️ *Подробный прогноз погоды для %s*\n", city))
	sb.WriteString(strings.Repeat("=", 40) + "\n\n")

	sb.WriteString("🌡️ *СЕЙЧАС:*\n")
	sb.WriteString(fmt.Sprintf("🌡️ Температура: *%s°C* (ощущается как %s°C)\n", current.TempC, current.FeelsLikeC))
	sb.WriteString(fmt.Sprintf("☁️ Погода: *%s*\n", current.description()))
	sb.WriteString(fmt.Sprintf("💧 Влажность: *%s%%*\n", current.Humidity))
	sb.WriteString(fmt.Sprintf("💨 Ветер: *%s км/ч %s*\n", current.WindspeedKmph, current.Winddir16Point))
	sb.WriteString(fmt.Sprintf("📊 Давление: *%s гПа*\n", current.Pressure))
	sb.WriteString(fmt.Sprintf("👁️ Видимость: *%s км*\n\n", current.Visibility))

	sb.WriteString("📅 *ПРОГНОЗ НА 3 ДНЯ:*\n")
	sb.WriteString("💡 *Температура указана как минимум/максимум за день*\n")
	sb.WriteString(strings.Repeat("─", 30) + "\n")

	days := report.Weather
	if len(days) > 3 {
		days = days[:3]
	}

	for i, day := range days {
		desc := ""
		precip := ""

		if len(day.Hourly) > 0 {
			precip = day.Hourly[0].PrecipMM

			if len(day.Hourly[0].WeatherDesc) > 0 {
				desc = strings.TrimSpace(day.Hourly[0].WeatherDesc[0].Value)
			}
		}

		sb.WriteString(fmt.Sprintf("\n📆 *%s:*\n", formatForecastDate(day.Date)))
		sb.WriteString(fmt.Sprintf("🌡️ Температура: *%s°C* - *%s°C* (мин/макс)\n", day.MinTempC, day.MaxTempC))
		sb.WriteString(fmt.Sprintf("☁️ Погода: *%s*\n", desc))
		sb.WriteString(fmt.Sprintf("🌧️ Осадки: *%s мм*\n", precip))

		if i < len(days)-1 {
			sb.WriteString(strings.Repeat("─", 20) + "\n")
		}
	}

	return sb.String(), nil
}

// formatForecastDate переводит дату "2006-01-02" в "02.01.2006 (Понедельник)".
// Нераспознанная дата возвращается как есть.
func formatForecastDate(date string) string {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}

	return fmt.Sprintf("%s (%s)", parsed.Format("02.01.2006"), weekdaysRu[parsed.Weekday()])
}
