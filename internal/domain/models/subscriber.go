package models

import (
	"time"
)

type ForecastType string

const (
	ForecastBrief    ForecastType = "brief"
	ForecastDetailed ForecastType = "detailed"
)

type Slot string

const (
	SlotMorning Slot = "morning"
	SlotEvening Slot = "evening"
)

const (
	DefaultMorningTime = "08:00"
	DefaultEveningTime = "20:00"
	DefaultTimezone    = "Europe/Moscow"
)

type Subscriber struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string
	City      string
	Timezone  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
	Settings  NotificationSettings
}

type NotificationSettings struct {
	MorningTime  string
	EveningTime  string
	SendMorning  bool
	SendEvening  bool
	ForecastType ForecastType
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		MorningTime:  DefaultMorningTime,
		EveningTime:  DefaultEveningTime,
		SendMorning:  true,
		SendEvening:  false,
		ForecastType: ForecastBrief,
	}
}

// DueSubscriber — подписчик, которому пора отправить уведомление.
// Slot фиксирует, какой из слотов совпал с текущим временем: при совпадении
// утреннего и вечернего времени подписчик возвращается дважды, по разу на слот.
type DueSubscriber struct {
	Subscriber Subscriber
	Slot       Slot
}

// SettingsUpdate описывает частичное обновление настроек:
// nil-поле означает «не менять».
type SettingsUpdate struct {
	City         *string
	MorningTime  *string
	EveningTime  *string
	SendMorning  *bool
	SendEvening  *bool
	ForecastType *ForecastType
}

func (u SettingsUpdate) IsEmpty() bool {
	return u.City == nil && u.MorningTime == nil && u.EveningTime == nil &&
		u.SendMorning == nil && u.SendEvening == nil && u.ForecastType == nil
}

// SettingsUpdateFromMap собирает частичное обновление из набора полей.
// Нераспознанные ключи игнорируются, это не ошибка.
func SettingsUpdateFromMap(fields map[string]any) SettingsUpdate {
	var update SettingsUpdate

	for key, value := range fields {
		switch key {
		case "city":
			if v, ok := value.(string); ok {
				update.City = &v
			}
		case "morning_time":
			if v, ok := value.(string); ok {
				update.MorningTime = &v
			}
		case "evening_time":
			if v, ok := value.(string); ok {
				update.EveningTime = &v
			}
		case "send_morning":
			if v, ok := value.(bool); ok {
				update.SendMorning = &v
			}
		case "send_evening":
			if v, ok := value.(bool); ok {
				update.SendEvening = &v
			}
		case "forecast_type":
			switch v := value.(type) {
			case ForecastType:
				update.ForecastType = &v
			case string:
				ft := ForecastType(v)
				update.ForecastType = &ft
			}
		}
	}

	return update
}
