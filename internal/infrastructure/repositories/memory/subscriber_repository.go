package memory

import (
	"context"
	"sync"
	"time"

	customerrors "github.com/central-university-dev/go-weather-bot/internal/domain/errors"
	"github.com/central-university-dev/go-weather-bot/internal/domain/models"
)

// SubscriberRepository — потокобезопасное in-memory хранилище подписчиков.
// Используется в тестах и как запасной вариант без базы данных.
type SubscriberRepository struct {
	subscribers map[int64]*models.Subscriber
	mu          sync.RWMutex
}

func NewSubscriberRepository() *SubscriberRepository {
	return &SubscriberRepository{
		subscribers: make(map[int64]*models.Subscriber),
	}
}

func (r *SubscriberRepository) Upsert(_ context.Context, userID int64, username, firstName, lastName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()

	existing, ok := r.subscribers[userID]
	if ok {
		existing.Username = username
		existing.FirstName = firstName
		existing.LastName = lastName
		existing.IsActive = true
		existing.UpdatedAt = now

		return nil
	}

	r.subscribers[userID] = &models.Subscriber{
		UserID:    userID,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Timezone:  models.DefaultTimezone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
		Settings:  models.DefaultNotificationSettings(),
	}

	return nil
}

func (r *SubscriberRepository) SetCity(_ context.Context, userID int64, city string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subscribers[userID]
	if !ok {
		return &customerrors.ErrSubscriberNotFound{UserID: userID}
	}

	sub.City = city
	sub.UpdatedAt = time.Now()

	return nil
}

func (r *SubscriberRepository) UpdateSettings(_ context.Context, userID int64, update models.SettingsUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subscribers[userID]
	if !ok {
		return &customerrors.ErrSubscriberNotFound{UserID: userID}
	}

	if update.City != nil {
		sub.City = *update.City
	}

	if update.MorningTime != nil {
		sub.Settings.MorningTime = *update.MorningTime
	}

	if update.EveningTime != nil {
		sub.Settings.EveningTime = *update.EveningTime
	}

	if update.SendMorning != nil {
		sub.Settings.SendMorning = *update.SendMorning
	}

	if update.SendEvening != nil {
		sub.Settings.SendEvening = *update.SendEvening
	}

	if update.ForecastType != nil {
		sub.Settings.ForecastType = *update.ForecastType
	}

	sub.UpdatedAt = time.Now()

	return nil
}

func (r *SubscriberRepository) Find(_ context.Context, userID int64) (*models.Subscriber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.subscribers[userID]
	if !ok {
		return nil, &customerrors.ErrSubscriberNotFound{UserID: userID}
	}

	copied := *sub

	return &copied, nil
}

func (r *SubscriberRepository) FindDue(_ context.Context, clock string) ([]models.DueSubscriber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var due []models.DueSubscriber

	for _, sub := range r.subscribers {
		if !sub.IsActive || sub.City == "" {
			continue
		}

		if sub.Settings.SendMorning && sub.Settings.MorningTime == clock {
			due = append(due, models.DueSubscriber{Subscriber: *sub, Slot: models.SlotMorning})
		}

		if sub.Settings.SendEvening && sub.Settings.EveningTime == clock {
			due = append(due, models.DueSubscriber{Subscriber: *sub, Slot: models.SlotEvening})
		}
	}

	return due, nil
}

func (r *SubscriberRepository) FindAllActive(_ context.Context) ([]models.Subscriber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []models.Subscriber

	for _, sub := range r.subscribers {
		if sub.IsActive && sub.City != "" {
			active = append(active, *sub)
		}
	}

	return active, nil
}

func (r *SubscriberRepository) Deactivate(_ context.Context, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subscribers[userID]
	if !ok {
		return false, nil
	}

	sub.IsActive = false
	sub.UpdatedAt = time.Now()

	return true, nil
}
