package sql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// highestPlaceholder возвращает номер старшего плейсхолдера $n в запросе.
func highestPlaceholder(query string) int {
	for n := 9; n >= 1; n-- {
		if strings.Contains(query, "$"+string(rune('0'+n))) {
			return n
		}
	}

	return 0
}

func TestFindDueQuery_SingleParameterForBothSlots(t *testing.T) {
	assert.Contains(t, findDueQuery, "UNION ALL")
	assert.Contains(t, findDueQuery, "'morning' AS slot")
	assert.Contains(t, findDueQuery, "'evening' AS slot")
	assert.Contains(t, findDueQuery, "ns.morning_time = $1")
	assert.Contains(t, findDueQuery, "ns.evening_time = $1")

	// FindDue передаёт ровно один аргумент (clock).
	assert.Equal(t, 1, highestPlaceholder(findDueQuery))
}

func TestUpdateSettingsQuery_PlaceholdersMatchArguments(t *testing.T) {
	assert.Contains(t, updateSettingsQuery, "morning_time = COALESCE($2, morning_time)")
	assert.Contains(t, updateSettingsQuery, "evening_time = COALESCE($3, evening_time)")
	assert.Contains(t, updateSettingsQuery, "send_morning = COALESCE($4, send_morning)")
	assert.Contains(t, updateSettingsQuery, "send_evening = COALESCE($5, send_evening)")
	assert.Contains(t, updateSettingsQuery, "forecast_type = COALESCE($6, forecast_type)")
	assert.Contains(t, updateSettingsQuery, "WHERE user_id = $1")

	// UpdateSettings передаёт шесть аргументов.
	assert.Equal(t, 6, highestPlaceholder(updateSettingsQuery))
}
