package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "weather_bot"

	BotSubsystem       = "bot"
	SchedulerSubsystem = "scheduler"
	WeatherSubsystem   = "weather"
)

// Бот метрики.
var (
	UserMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "user_messages_total",
			Help:      "Total number of user messages processed",
		},
		[]string{"chat_id", "message_type"},
	)

	OutgoingMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "outgoing_messages_total",
			Help:      "Total number of messages sent to Telegram",
		},
		[]string{"status"},
	)
)

// Метрики планировщика уведомлений.
var (
	NotificationsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: SchedulerSubsystem,
			Name:      "notifications_sent_total",
			Help:      "Total number of scheduled weather notifications",
		},
		[]string{"slot", "status"},
	)

	SchedulerTicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: SchedulerSubsystem,
			Name:      "ticks_total",
			Help:      "Total number of scheduler poll iterations",
		},
	)
)

// Метрики погодного клиента.
var (
	WeatherRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: WeatherSubsystem,
			Name:      "requests_total",
			Help:      "Total number of weather provider requests",
		},
		[]string{"format", "status"},
	)

	WeatherRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: WeatherSubsystem,
			Name:      "request_duration_seconds",
			Help:      "Weather provider request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"format"},
	)
)

// Метрики базы данных.
var (
	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "database_queries_total",
			Help:      "Total number of database queries",
		},
		[]string{"operation", "status"},
	)
)

func RecordUserMessage(chatID int64, messageType string) {
	UserMessagesTotal.WithLabelValues(strconv.FormatInt(chatID, 10), messageType).Inc()
}

func RecordOutgoingMessage(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	OutgoingMessagesTotal.WithLabelValues(status).Inc()
}

func RecordNotification(slot string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	NotificationsSentTotal.WithLabelValues(slot, status).Inc()
}

func RecordWeatherRequest(format string, success bool, seconds float64) {
	status := "success"
	if !success {
		status = "error"
	}

	WeatherRequestsTotal.WithLabelValues(format, status).Inc()
	WeatherRequestDuration.WithLabelValues(format).Observe(seconds)
}

func RecordSchedulerTick() {
	SchedulerTicksTotal.Inc()
}

func RecordDatabaseQuery(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	DatabaseQueriesTotal.WithLabelValues(operation, status).Inc()
}
