// backend — клиент REST-бэкенда вакансий.
//
// Контракт бэкенда фиксирован (токены, лента, агрегаты, отклики); пакет
// переводит HTTP-статусы в ошибки-сентинелы и JSON в доменные модели.
// Client безопасен для конкурентного использования.
package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pribylovaa/jobfeed/internal/models"
)

var (
	// ErrUnauthenticated — 401: токен/учётные данные отвергнуты.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrBadRequest — 400/422: бэкенд отверг входные данные.
	ErrBadRequest = errors.New("bad request")
	// ErrForbidden — 403.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound — 404.
	ErrNotFound = errors.New("not found")
	// ErrConflict — 409 (например, повторный отклик).
	ErrConflict = errors.New("conflict")
	// ErrUnavailable — 5xx или сбой сети.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrBadResponse — ответ не соответствует контракту.
	ErrBadResponse = errors.New("bad response")
	// ErrForeignCursor — курсор пагинации указывает на чужой хост.
	ErrForeignCursor = errors.New("foreign cursor")
)

// StatusError несёт HTTP-статус и короткое сообщение бэкенда.
// Unwrap отдаёт соответствующий сентинел.
type StatusError struct {
	Code    int
	Message string
	kind    error
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend status %d: %v", e.Code, e.kind)
	}

	return fmt.Sprintf("backend status %d: %v: %s", e.Code, e.kind, e.Message)
}

func (e *StatusError) Unwrap() error { return e.kind }

//go:generate mockgen -destination=../../mocks/backend.go -package=mocks github.com/pribylovaa/jobfeed/internal/backend AuthAPI,JobsAPI

// AuthAPI — операции выпуска токенов.
type AuthAPI interface {
	// ObtainPair — POST /api/token/pair.
	ObtainPair(ctx context.Context, username, password string) (models.Credentials, error)
	// Refresh — POST /api/token/refresh; возвращает новый access-токен.
	Refresh(ctx context.Context, refresh string) (string, error)
	// Register — POST /api/auth/register.
	Register(ctx context.Context, username, password string) error
}

// JobsAPI — лента, агрегаты и отклики.
type JobsAPI interface {
	// ListJobs — GET /api/jobs/filter?<query>; query уже закодирован.
	ListJobs(ctx context.Context, query string) (*models.FeedPage, error)
	// FetchPage — GET по курсору, полученному из next/previous.
	FetchPage(ctx context.Context, cursor string) (*models.FeedPage, error)
	// Stats — GET /api/jobs/stats[?skills=<skill>]; пустой skill означает обзор рынка.
	Stats(ctx context.Context, skill string) (*models.Stats, error)
	// Dates — GET /api/jobs/dates.
	Dates(ctx context.Context) ([]time.Time, error)
	// Applications — GET /api/applications.
	Applications(ctx context.Context) ([]models.Application, error)
	// CreateApplication — POST /api/applications.
	CreateApplication(ctx context.Context, jobID int64) (*models.Application, error)
	// DeleteApplication — DELETE /api/applications/{id}.
	DeleteApplication(ctx context.Context, id int64) error
}
