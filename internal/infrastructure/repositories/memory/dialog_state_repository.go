package memory

import (
	"context"
	"sync"

	"github.com/central-university-dev/go-weather-bot/internal/domain/models"
)

// DialogStateRepository хранит шаг диалога настройки по id пользователя.
// Состояние живёт только в памяти процесса и теряется при перезапуске —
// пользователь в этом случае просто начинает настройку заново.
type DialogStateRepository struct {
	states map[int64]models.DialogState
	mu     sync.RWMutex
}

func NewDialogStateRepository() *DialogStateRepository {
	return &DialogStateRepository{
		states: make(map[int64]models.DialogState),
	}
}

func (r *DialogStateRepository) GetState(_ context.Context, userID int64) (models.DialogState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.states[userID]
	if !ok {
		return models.DialogNone, nil
	}

	return state, nil
}

func (r *DialogStateRepository) SetState(_ context.Context, userID int64, state models.DialogState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[userID] = state

	return nil
}

func (r *DialogStateRepository) Clear(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.states, userID)

	return nil
}
