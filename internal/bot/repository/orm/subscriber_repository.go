package orm

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/central-university-dev/go-weather-bot/internal/common/metrics"
	"github.com/central-university-dev/go-weather-bot/internal/database"
	customerrors "github.com/central-university-dev/go-weather-bot/internal/domain/errors"
	"github.com/central-university-dev/go-weather-bot/internal/domain/models"
	"github.com/central-university-dev/go-weather-bot/pkg/txs"
)

var subscriberColumns = []string{
	"s.user_id", "COALESCE(s.username, '')", "COALESCE(s.first_name, '')", "COALESCE(s.last_name, '')",
	"COALESCE(s.city, '')", "s.timezone", "s.is_active", "s.created_at", "s.updated_at",
	"ns.morning_time", "ns.evening_time", "ns.send_morning", "ns.send_evening", "ns.forecast_type",
}

type SubscriberRepository struct {
	db *database.PostgresDB
	sq sq.StatementBuilderType
}

func NewSubscriberRepository(db *database.PostgresDB) *SubscriberRepository {
	return &SubscriberRepository{
		db: db,
		sq: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *SubscriberRepository) Upsert(ctx context.Context, userID int64, username, firstName, lastName string) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	now := time.Now()

	insertQuery := r.sq.Insert("subscribers").
		Columns("user_id", "username", "first_name", "last_name", "is_active", "created_at", "updated_at").
		Values(userID, nullIfEmpty(username), nullIfEmpty(firstName), nullIfEmpty(lastName), true, now, now).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			is_active = TRUE,
			updated_at = EXCLUDED.updated_at`)

	query, args, err := insertQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "сохранение подписчика", Cause: err}
	}

	_, err = querier.Exec(ctx, query, args...)

	metrics.RecordDatabaseQuery("upsert_subscriber", err)

	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "сохранение подписчика", Cause: err}
	}

	settingsQuery := r.sq.Insert("notification_settings").
		Columns("user_id").
		Values(userID).
		Suffix("ON CONFLICT (user_id) DO NOTHING")

	query, args, err = settingsQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "создание настроек уведомлений", Cause: err}
	}

	_, err = querier.Exec(ctx, query, args...)

	metrics.RecordDatabaseQuery("upsert_settings", err)

	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "создание настроек уведомлений", Cause: err}
	}

	return nil
}

func (r *SubscriberRepository) SetCity(ctx context.Context, userID int64, city string) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	updateQuery := r.sq.Update("subscribers").
		Set("city", city).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"user_id": userID})

	query, args, err := updateQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "обновление города", Cause: err}
	}

	result, err := querier.Exec(ctx, query, args...)

	metrics.RecordDatabaseQuery("set_city", err)

	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "обновление города", Cause: err}
	}

	if result.RowsAffected() == 0 {
		return &customerrors.ErrSubscriberNotFound{UserID: userID}
	}

	return nil
}

// buildUpdateSettings собирает частичный UPDATE настроек; changed == false
// означает, что ни одно поле настроек не задано и запрос не нужен.
func (r *SubscriberRepository) buildUpdateSettings(userID int64, update models.SettingsUpdate) (query string, args []any, changed bool, err error) {
	updateQuery := r.sq.Update("notification_settings").Where(sq.Eq{"user_id": userID})

	if update.MorningTime != nil {
		updateQuery = updateQuery.Set("morning_time", *update.MorningTime)
		changed = true
	}

	if update.EveningTime != nil {
		updateQuery = updateQuery.Set("evening_time", *update.EveningTime)
		changed = true
	}

	if update.SendMorning != nil {
		updateQuery = updateQuery.Set("send_morning", *update.SendMorning)
		changed = true
	}

	if update.SendEvening != nil {
		updateQuery = updateQuery.Set("send_evening", *update.SendEvening)
		changed = true
	}

	if update.ForecastType != nil {
		updateQuery = updateQuery.Set("forecast_type", string(*update.ForecastType))
		changed = true
	}

	if !changed {
		return "", nil, false, nil
	}

	query, args, err = updateQuery.ToSql()

	return query, args, true, err
}

func (r *SubscriberRepository) UpdateSettings(ctx context.Context, userID int64, update models.SettingsUpdate) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	if update.City != nil {
		if err := r.SetCity(ctx, userID, *update.City); err != nil {
			return err
		}
	}

	query, args, changed, err := r.buildUpdateSettings(userID, update)
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "обновление настроек уведомлений", Cause: err}
	}

	if !changed {
		if update.City != nil {
			return nil
		}

		// Пустое обновление: проверяем только существование подписчика.
		_, err := r.Find(ctx, userID)

		return err
	}

	result, err := querier.Exec(ctx, query, args...)

	metrics.RecordDatabaseQuery("update_settings", err)

	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "обновление настроек уведомлений", Cause: err}
	}

	if result.RowsAffected() == 0 {
		return &customerrors.ErrSubscriberNotFound{UserID: userID}
	}

	touchQuery := r.sq.Update("subscribers").
		Set("updated_at", time.Now()).
		Where(sq.Eq{"user_id": userID})

	query, args, err = touchQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "обновление подписчика", Cause: err}
	}

	if _, err := querier.Exec(ctx, query, args...); err != nil {
		return &customerrors.ErrSQLExecution{Operation: "обновление подписчика", Cause: err}
	}

	return nil
}

func (r *SubscriberRepository) Find(ctx context.Context, userID int64) (*models.Subscriber, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	selectQuery := r.sq.Select(subscriberColumns...).
		From("subscribers s").
		Join("notification_settings ns ON ns.user_id = s.user_id").
		Where(sq.Eq{"s.user_id": userID})

	query, args, err := selectQuery.ToSql()
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: "поиск подписчика", Cause: err}
	}

	sub, err := scanSubscriber(querier.QueryRow(ctx, query, args...))

	metrics.RecordDatabaseQuery("find_subscriber", err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &customerrors.ErrSubscriberNotFound{UserID: userID}
		}

		return nil, &customerrors.ErrSQLScan{Entity: "подписчик", Cause: err}
	}

	return sub, nil
}

// buildFindDue собирает объединённый запрос по двум слотам. Вечерняя часть
// рендерится с плейсхолдерами "?", чтобы итоговый ToSql перенумеровал обе
// половины в сквозные $1, $2; рендер сразу в формате Dollar зафиксировал бы
// в суффиксе уже подставленный $1, и аргументов оказалось бы больше, чем
// плейсхолдеров.
func (r *SubscriberRepository) buildFindDue(clock string) (string, []any, error) {
	morningQuery := r.sq.Select(append(subscriberColumns, "'morning' AS slot")...).
		From("subscribers s").
		Join("notification_settings ns ON ns.user_id = s.user_id").
		Where("s.is_active AND COALESCE(s.city, '') <> '' AND ns.send_morning").
		Where(sq.Eq{"ns.morning_time": clock})

	eveningQuery := r.sq.Select(append(subscriberColumns, "'evening' AS slot")...).
		From("subscribers s").
		Join("notification_settings ns ON ns.user_id = s.user_id").
		Where("s.is_active AND COALESCE(s.city, '') <> '' AND ns.send_evening").
		Where(sq.Eq{"ns.evening_time": clock})

	eveningSQL, eveningArgs, err := eveningQuery.PlaceholderFormat(sq.Question).ToSql()
	if err != nil {
		return "", nil, err
	}

	return morningQuery.Suffix("UNION ALL "+eveningSQL, eveningArgs...).ToSql()
}

func (r *SubscriberRepository) FindDue(ctx context.Context, clock string) ([]models.DueSubscriber, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	query, args, err := r.buildFindDue(clock)
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: "поиск подписчиков для уведомления", Cause: err}
	}

	rows, err := querier.Query(ctx, query, args...)

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

	selectQuery := r.sq.Select(subscriberColumns...).
		From("subscribers s").
		Join("notification_settings ns ON ns.user_id = s.user_id").
		Where("s.is_active AND COALESCE(s.city, '') <> ''").
		OrderBy("s.user_id")

	query, args, err := selectQuery.ToSql()
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: "поиск активных подписчиков", Cause: err}
	}

	rows, err := querier.Query(ctx, query, args...)

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

	updateQuery := r.sq.Update("subscribers").
		Set("is_active", false).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"user_id": userID})

	query, args, err := updateQuery.ToSql()
	if err != nil {
		return false, &customerrors.ErrBuildSQLQuery{Operation: "деактивация подписчика", Cause: err}
	}

	result, err := querier.Exec(ctx, query, args...)

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

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}

	return value
}
