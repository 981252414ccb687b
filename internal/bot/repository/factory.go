package repository

import (
	"log/slog"

	"github.com/central-university-dev/go-weather-bot/internal/bot/repository/orm"
	sqlrepo "github.com/central-university-dev/go-weather-bot/internal/bot/repository/sql"
	"github.com/central-university-dev/go-weather-bot/internal/bot/service"
	"github.com/central-university-dev/go-weather-bot/internal/config"
	"github.com/central-university-dev/go-weather-bot/internal/database"
	"github.com/central-university-dev/go-weather-bot/internal/domain/errors"
)

type Factory struct {
	db     *database.PostgresDB
	config *config.Config
	logger *slog.Logger
}

func NewFactory(db *database.PostgresDB, config *config.Config, logger *slog.Logger) *Factory {
	return &Factory{
		db:     db,
		config: config,
		logger: logger,
	}
}

func (f *Factory) CreateSubscriberRepository() (service.SubscriberRepository, error) {
	switch f.config.DatabaseAccessType {
	case config.SquirrelAccess:
		f.logger.Info("Создание ORM (Squirrel) репозитория подписчиков")
		return orm.NewSubscriberRepository(f.db), nil
	case config.SQLAccess:
		f.logger.Info("Создание SQL репозитория подписчиков")
		return sqlrepo.NewSubscriberRepository(f.db), nil
	default:
		return nil, &errors.ErrUnknownDBAccessType{AccessType: string(f.config.DatabaseAccessType)}
	}
}
