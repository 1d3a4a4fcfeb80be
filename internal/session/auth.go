package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pribylovaa/jobfeed/internal/backend"
	"github.com/pribylovaa/jobfeed/internal/credstore"
	"github.com/pribylovaa/jobfeed/internal/pkg/redact"
)

// Login получает пару токенов и атомарно сохраняет её.
// При любой ошибке хранилище не трогается, сигнал не меняется.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	const op = "session.Login"

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyCredentials)
	}

	lg := m.logger(ctx).With(
		slog.String("op", op),
		slog.String("user", redact.Username(username)),
	)

	creds, err := m.auth.ObtainPair(ctx, username, password)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthenticated) || errors.Is(err, backend.ErrBadRequest) {
			lg.Info("login_rejected")
			return fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		lg.Warn("login_failed", slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	if err := credstore.SaveCredentials(ctx, m.store, creds); err != nil {
		lg.Error("login_store_failed", slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	m.epoch++
	m.resolve(Authorized)
	lg.Info("login_ok")

	return nil
}

// Register создаёт аккаунт и сразу выполняет вход.
func (m *Manager) Register(ctx context.Context, username, password string) error {
	const op = "session.Register"

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyCredentials)
	}

	if err := m.auth.Register(ctx, username, password); err != nil {
		if errors.Is(err, backend.ErrBadRequest) || errors.Is(err, backend.ErrConflict) {
			return fmt.Errorf("%s: %w: %w", op, ErrRegistrationRejected, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	m.logger(ctx).Info("register_ok",
		slog.String("op", op),
		slog.String("user", redact.Username(username)),
	)

	if err := m.Login(ctx, username, password); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Logout удаляет оба токена и переводит сигнал в Unauthorized.
// Настройки (язык, тема) остаются.
func (m *Manager) Logout(ctx context.Context) error {
	const op = "session.Logout"

	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	if err := credstore.ClearCredentials(ctx, m.store); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m.epoch++
	m.resolve(Unauthorized)
	m.logger(ctx).Info("logout_ok", slog.String("op", op))

	return nil
}
