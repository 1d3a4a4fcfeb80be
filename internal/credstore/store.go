// credstore — долговременное key-value хранилище клиента: пара токенов
// и пользовательские настройки (язык, тема).
//
// Хранилище процесс-глобальное и переживает перезапуски. Потребители получают
// его как зависимость (интерфейс Store), а не обращаются к нему напрямую,
// что позволяет подменять реализацию в тестах.
package credstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/pribylovaa/jobfeed/internal/models"
)

// Ключи хранилища.
const (
	KeyAccess  = "access"
	KeyRefresh = "refresh"
	KeyLocale  = "locale"
	KeyTheme   = "theme"
)

var (
	// ErrUnknownDriver — в конфиге указан неподдерживаемый драйвер.
	ErrUnknownDriver = errors.New("unknown store driver")
	// ErrEmptyKey — попытка записи по пустому ключу.
	ErrEmptyKey = errors.New("empty key")
)

//go:generate mockgen -destination=../../mocks/store.go -package=mocks github.com/pribylovaa/jobfeed/internal/credstore Store

// Store — минимальный контракт хранилища.
type Store interface {
	// Get возвращает значение и признак его наличия.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set атомарно записывает все переданные пары: либо все, либо ни одной.
	Set(ctx context.Context, values map[string]string) error
	// Delete удаляет ключи; отсутствующие ключи не считаются ошибкой.
	Delete(ctx context.Context, keys ...string) error
	// Close освобождает ресурсы реализации.
	Close() error
}

// LoadCredentials читает пару токенов. Частичная пара возвращается как есть,
// решение о полноте принимает вызывающий (models.Credentials.Complete).
func LoadCredentials(ctx context.Context, s Store) (models.Credentials, error) {
	const op = "credstore.LoadCredentials"

	access, _, err := s.Get(ctx, KeyAccess)
	if err != nil {
		return models.Credentials{}, fmt.Errorf("%s: access: %w", op, err)
	}

	refresh, _, err := s.Get(ctx, KeyRefresh)
	if err != nil {
		return models.Credentials{}, fmt.Errorf("%s: refresh: %w", op, err)
	}

	return models.Credentials{Access: access, Refresh: refresh}, nil
}

// SaveCredentials записывает оба токена одной операцией.
func SaveCredentials(ctx context.Context, s Store, c models.Credentials) error {
	const op = "credstore.SaveCredentials"

	if err := s.Set(ctx, map[string]string{
		KeyAccess:  c.Access,
		KeyRefresh: c.Refresh,
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ClearCredentials удаляет оба токена, не трогая настройки.
func ClearCredentials(ctx context.Context, s Store) error {
	const op = "credstore.ClearCredentials"

	if err := s.Delete(ctx, KeyAccess, KeyRefresh); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func validate(values map[string]string) error {
	for k := range values {
		if k == "" {
			return ErrEmptyKey
		}
	}

	return nil
}
