package models

import (
	"github.com/central-university-dev/go-weather-bot/internal/domain/errors"
)

// ValidateTimeOfDay проверяет строку времени в 24-часовом формате ЧЧ:ММ.
// Требуются ровно две цифры часа и две цифры минут: "8:00" и "08:0" отклоняются.
func ValidateTimeOfDay(value string) error {
	if len(value) != 5 || value[2] != ':' {
		return &errors.ErrInvalidTimeFormat{Value: value}
	}

	for _, i := range []int{0, 1, 3, 4} {
		if value[i] < '0' || value[i] > '9' {
			return &errors.ErrInvalidTimeFormat{Value: value}
		}
	}

	hour := int(value[0]-'0')*10 + int(value[1]-'0')
	minute := int(value[3]-'0')*10 + int(value[4]-'0')

	if hour > 23 || minute > 59 {
		return &errors.ErrInvalidTimeFormat{Value: value}
	}

	return nil
}
