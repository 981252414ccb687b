package sql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/central-university-dev/go-weather-bot/internal/common/metrics"
	"github.com/central-university-dev/go-weather-bot/internal/database"
	customerrors "github.com/central-university-dev/go-weather-bot/internal/domain/errors"
	"github.com/central-university-dev/go-weather-bot/internal/domain/models"
	"github.com/central-university-dev/go-weather-bot/pkg/txs"
)

const subscriberColumns = `s.user_id, COALESCE(s.username, ''), COALESCE(s.first_name, ''), COALESCE(s.last_name, ''),
	COALESCE(s.city, ''), s.timezone, s.is_active, s.created_at, s.updated_at,
	ns.morning_time, ns.evening_time, ns.send_morning, ns.send_evening, ns.forecast_type`

// Один параметр $1 (clock) используется в обеих половинах объединения.
const findDueQuery = `
	SELECT ` + subscriberColumns + `, 'morning' AS slot
	FROM subscribers s
	JOIN notification_settings ns ON ns.user_id = s.user_id
	WHERE s.is_active AND COALESCE(s.city, '') <> '' AND ns.send_morning AND ns.morning_time = $1
	UNION ALL
	SELECT ` + subscriberColumns + `, 'evening' AS slot
	FROM subscribers s
	JOIN notification_settings ns ON ns.user_id = s.user_id
	WHERE s.is_active AND COALESCE(s.city, '') <> '' AND ns.send_evening AND ns.evening_time = $1
	ORDER BY 1
`

// NULL-аргумент оставляет поле без изменений.
const updateSettingsQuery = `
	UPDATE notification_settings SET
		morning_time = COALESCE($2, morning_time),
		evening_time = COALESCE($3, evening_time),
		send_morning = COALESCE($4, send_morning),
		send_evening = COALESCE($5, send_evening),
		forecast_type = COALESCE($6, forecast_type)
	WHERE user_id = $1
`

type SubscriberRepository struct {
	db *database.PostgresDB
}

func NewSubscriberRepository(db *database.PostgresDB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// Upsert создаёт подписчика вместе с настройками по умолчанию. Повторный
// вызов обновляет имя, возвращает подписку в активное состояние и касается
// updated_at; существующие настройки не трогаются.
func (r *SubscriberRepository) Upsert(ctx context.Context, userID int64, username, firstName, lastName string) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	now := time.Now()

	_, err := querier.Exec(ctx, `
		INSERT INTO subscribers (user_id, username, first_name, last_name, is_active, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), TRUE, $5, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			is_active = TRUE,
			updated_at = EXCLUDED.updated_at
	`, userID, username, firstName, lastName, now)

	metrics.RecordDatabaseQuery("upsert_subscriber", err)

	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "сохранение подписчика", Cause: err}
	}

	_, err = querier.Exec(ctx, `
		INSERT INTO notification_settings (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)

	metrics.RecordDatabaseQuery("upsert_settings", err)

	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "создание настроек уведомлений", Cause: err}
	}

	return nil
}

func (r *SubscriberRepository) SetCity(ctx context.Context, userID int64, city string) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	result, err := querier.Exec(ctx,
		"UPDATE subscribers SET city = $1, updated_at = $2 WHERE user_id = $3",
		city, time.Now(), userID)

	metrics.RecordDatabaseQuery("set_city", err)

	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "обновление города", Cause: err}
	}

	if result.RowsAffected() == 0 {
		return &customerrors.ErrSubscriberNotFound{UserID: userID}
	}

	return nil
}

func (r *SubscriberRepository) UpdateSettings(ctx context.Context, userID int64, update models.SettingsUpdate) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	if update.City != nil {
		if err := r.SetCity(ctx, userID, *update.City); err != nil {
			return err
		}
	}

	result, err := querier.Exec(ctx, updateSettingsQuery,
		userID, update.MorningTime, update.EveningTime, update.SendMorning, update.SendEvening, (*string)(update.ForecastType))

	metrics.RecordDatabaseQuery("update_settings", err)

	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "обновление настроек уведомлений", Cause: err}
	}

	if result.RowsAffected() == 0 {
		return &customerrors.ErrSubscriberNotFound{UserID: userID}
	}

	_, err = querier.Exec(ctx,
		"UPDATE subscribers SET updated_at = $1 WHERE user_id = $2",
		time.Now(), userID)
	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "обновление подписчика", Cause: err}
	}

	return nil
}

func (r *SubscriberRepository) Find(ctx context.Context, userID int64) (*models.Subscriber, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	row := querier.QueryRow(ctx, `
		SELECT `+subscriberColumns+`
		FROM subscribers s
		JOIN notification_settings ns ON ns.user_id = s.user_id
		WHERE s.user_id = $1
	`, userID)

	sub, err := scanSubscriber(row)

	metrics.RecordDatabaseQuery("find_subscriber", err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &customerrors.ErrSubscriberNotFound{UserID: userID}
		}

		return nil, &customerrors.ErrSQLScan{Entity: "подписчик", Cause: err}
	}

	return sub, nil
}

// FindDue возвращает всех подписчиков, чей включённый слот совпадает с clock.
// Подписчик с совпадающими утренним и вечерним временем возвращается дважды,
// по одному разу на слот — это осознанное поведение, не дедуплицируется.
func (r *SubscriberRepository) FindDue(ctx context.Context, clock string) ([]models.DueSubscriber, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	rows, err := querier.Query(ctx, findDueQuery, clock)

	metrics.RecordDatabaseQuery("find_due", err)

	if err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: "поиск подписчиков для уведомления", Cause: err}
	}
	defer rows.Close()

	var due []models.DueSubscriber

	for rows.Next() {
		var (
			sub          models.Subscriber
			forecastType string
			slot         string
		)

		err := rows.Scan(
			&sub.UserID, &sub.Username, &sub.FirstName, &sub.LastName,
			&sub.City, &sub.Timezone, &sub.IsActive, &sub.CreatedAt, &sub.UpdatedAt,
			&sub.Settings.MorningTime, &sub.Settings.EveningTime,
			&sub.Settings.SendMorning, &sub.Settings.SendEvening,
			&forecastType,
			&slot,
		)
		if err != nil {
			return nil, &customerrors.ErrSQLScan{Entity: "подписчик", Cause: err}
		}

		sub.Settings.ForecastType = models.ForecastType(forecastType)
		due = append(due, models.DueSubscriber{Subscriber: sub, Slot: models.Slot(slot)})
	}

	if err := rows.Err(); err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: "обработка результатов поиска", Cause: err}
	}

	return due, nil
}

func (r *SubscriberRepository) FindAllActive(ctx context.Context) ([]models.Subscriber, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	rows, err := querier.Query(ctx, `
		SELECT `+subscriberColumns+`
		FROM subscribers s
		JOIN notification_settings ns ON ns.user_id = s.user_id
		WHERE s.is_active AND COALESCE(s.city, '') <> ''
		ORDER BY s.user_id
	`)

	metrics.RecordDatabaseQuery("find_all_active", err)

	if err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: "поиск активных подписчиков", Cause: err}
	}
	defer rows.Close()

	var subscribers []models.Subscriber

	for rows.Next() {
		sub, err := scanSubscriber(rows)
		if err != nil {
			return nil, &customerrors.ErrSQLScan{Entity: "подписчик", Cause: err}
		}

		subscribers = append(subscribers, *sub)
	}

	if err := rows.Err(); err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: "обработка результатов поиска", Cause: err}
	}

	return subscribers, nil
}

func (r *SubscriberRepository) Deactivate(ctx context.Context, userID int64) (bool, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	result, err := querier.Exec(ctx,
		"UPDATE subscribers SET is_active = FALSE, updated_at = $1 WHERE user_id = $2",
		time.Now(), userID)

	metrics.RecordDatabaseQuery("deactivate", err)

	if err != nil {
		return false, &customerrors.ErrSQLExecution{Operation: "деактивация подписчика", Cause: err}
	}

	return result.RowsAffected() > 0, nil
}

func scanSubscriber(row pgx.Row) (*models.Subscriber, error) {
	var (
		sub          models.Subscriber
		forecastType string
	)

	err := row.Scan(
		&sub.UserID, &sub.Username, &sub.FirstName, &sub.LastName,
		&sub.City, &sub.Timezone, &sub.IsActive, &sub.CreatedAt, &sub.UpdatedAt,
		&sub.Settings.MorningTime, &sub.Settings.EveningTime,
		&sub.Settings.SendMorning, &sub.Settings.SendEvening,
		&forecastType,
	)
	if err != nil {
		return nil, err
	}

	sub.Settings.ForecastType = models.ForecastType(forecastType)

	return &sub, nil
}
