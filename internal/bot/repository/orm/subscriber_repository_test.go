package orm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/central-university-dev/go-weather-bot/internal/domain/models"
)

func TestBuildFindDue_SequentialPlaceholders(t *testing.T) {
	// Arrange
	repo := NewSubscriberRepository(nil)

	// Act
	query, args, err := repo.buildFindDue("08:00")

	// Assert
	require.NoError(t, err)

	assert.Contains(t, query, "UNION ALL")
	assert.Contains(t, query, "'morning' AS slot")
	assert.Contains(t, query, "'evening' AS slot")

	// Обе половины должны ссылаться на сквозные плейсхолдеры: если вечерняя
	// часть отрендерена в формате Dollar до объединения, в запросе остаётся
	// один $1 при двух аргументах и PostgreSQL отклоняет bind.
	assert.Contains(t, query, "ns.morning_time = $1")
	assert.Contains(t, query, "ns.evening_time = $2")
	assert.NotContains(t, query, "$3")

	assert.Equal(t, []any{"08:00", "08:00"}, args)
}

func TestBuildFindDue_PlaceholderCountMatchesArgs(t *testing.T) {
	// Arrange
	repo := NewSubscriberRepository(nil)

	// Act
	query, args, err := repo.buildFindDue("20:30")

	// Assert
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(query, "$1"))
	assert.Equal(t, 1, strings.Count(query, "$2"))
	assert.Len(t, args, 2)
}

func TestBuildUpdateSettings_PartialFields(t *testing.T) {
	// Arrange
	repo := NewSubscriberRepository(nil)

	morning := "07:30"
	sendEvening := true

	// Act
	query, args, changed, err := repo.buildUpdateSettings(42, models.SettingsUpdate{
		MorningTime: &morning,
		SendEvening: &sendEvening,
	})

	// Assert
	require.NoError(t, err)
	require.True(t, changed)

	assert.Contains(t, query, "morning_time = $1")
	assert.Contains(t, query, "send_evening = $2")
	assert.Contains(t, query, "user_id = $3")
	assert.NotContains(t, query, "evening_time")
	assert.NotContains(t, query, "forecast_type")

	assert.Equal(t, []any{"07:30", true, int64(42)}, args)
}

func TestBuildUpdateSettings_ForecastType(t *testing.T) {
	// Arrange
	repo := NewSubscriberRepository(nil)

	forecastType := models.ForecastDetailed

	// Act
	query, args, changed, err := repo.buildUpdateSettings(42, models.SettingsUpdate{
		ForecastType: &forecastType,
	})

	// Assert
	require.NoError(t, err)
	require.True(t, changed)

	assert.Contains(t, query, "forecast_type = $1")
	assert.Equal(t, []any{"detailed", int64(42)}, args)
}

func TestBuildUpdateSettings_NothingToChange(t *testing.T) {
	// Arrange
	repo := NewSubscriberRepository(nil)

	// Act
	_, _, changed, err := repo.buildUpdateSettings(42, models.SettingsUpdate{})

	// Assert
	require.NoError(t, err)
	assert.False(t, changed)
}
