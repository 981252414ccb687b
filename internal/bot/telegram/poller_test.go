package telegram_test

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/central-university-dev/go-weather-bot/internal/bot/telegram"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestPoller_StopIdempotent(t *testing.T) {
	p := telegram.NewPoller(nil, nil, testLogger())

	assert.NotPanics(t, func() {
		p.Stop()
		p.Stop()
	}, "повторная остановка не должна приводить к панике")
}
