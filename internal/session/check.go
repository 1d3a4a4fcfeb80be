package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/jobfeed/internal/backend"
	"github.com/pribylovaa/jobfeed/internal/credstore"
	"github.com/pribylovaa/jobfeed/internal/pkg/log"
	"github.com/pribylovaa/jobfeed/internal/pkg/redact"
	"github.com/pribylovaa/jobfeed/internal/token"
)

// refreshKey — ключ singleflight: в полёте не больше одного обновления.
const refreshKey = "refresh"

// errSessionChanged — пока шла проверка, сессию сменил вход или выход.
var errSessionChanged = errors.New("session changed during check")

// Check определяет состояние сессии.
//
// Порядок:
//  1. нет пары токенов: Unauthorized без обращения к сети;
//  2. до истечения access >= renewBefore: Authorized;
//  3. иначе (в том числе нечитаемый access): обновление по refresh.
//
// Если за время проверки прошёл вход или выход, проверка повторяется один раз,
// а затем остаётся сигнал, выставленный входом или выходом.
//
// Ошибки не возвращаются: любой сбой сводится к сигналу и пишется в лог.
func (m *Manager) Check(ctx context.Context) Signal {
	const op = "session.Check"

	lg := m.logger(ctx).With(slog.String("op", op))

	for attempt := 0; attempt < 2; attempt++ {
		s, err := m.check(ctx, lg)
		if !errors.Is(err, errSessionChanged) {
			return s
		}
		lg.Debug("session_changed", slog.Int("attempt", attempt))
	}

	return m.Signal()
}

// check выполняет одну проверку в рамках эпохи, снятой в начале.
func (m *Manager) check(ctx context.Context, lg *slog.Logger) (Signal, error) {
	epoch := m.currentEpoch()

	creds, err := credstore.LoadCredentials(ctx, m.store)
	if err != nil {
		lg.Warn("session_store_failed", slog.String("err", err.Error()))
		return m.commit(epoch, Unauthorized)
	}

	if !creds.Complete() {
		lg.Debug("session_no_tokens")
		return m.commit(epoch, Unauthorized)
	}

	remaining, err := token.Remaining(creds.Access, m.now())
	switch {
	case err != nil:
		lg.Warn("access_token_malformed", slog.String("err", err.Error()))
	case remaining >= m.renewBefore:
		return m.commit(epoch, Authorized)
	default:
		lg.Debug("access_token_expiring", slog.Duration("remaining", remaining))
	}

	if err := m.refresh(ctx, epoch, creds.Refresh); err != nil {
		if errors.Is(err, errSessionChanged) {
			return Unknown, err
		}
		lg.Warn("refresh_failed", slog.String("err", err.Error()))
		return m.commit(epoch, Unauthorized)
	}

	return m.commit(epoch, Authorized)
}

// commit публикует результат проверки, только если эпоха не сменилась.
func (m *Manager) commit(epoch uint64, s Signal) (Signal, error) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	if m.epoch != epoch {
		return Unknown, errSessionChanged
	}

	return m.observeCheck(s), nil
}

// refresh выпускает новый access-токен и пишет только его.
// Параллельные вызовы присоединяются к уже идущему обновлению.
//
// Новый токен сохраняется, только если эпоха прежняя и в хранилище лежит
// тот же refresh-токен, по которому шёл запрос. Иначе errSessionChanged.
func (m *Manager) refresh(ctx context.Context, epoch uint64, refresh string) error {
	const op = "session.refresh"

	// Отмена ctx одного из ожидающих не должна обрывать общий запрос.
	shared := context.WithoutCancel(ctx)

	_, err, joined := m.refreshes.Do(refreshKey, func() (any, error) {
		lg := m.logger(ctx).With(slog.String("op", op))

		// Обновление могло завершиться между чтением пары и входом сюда.
		if m.fresh(shared) {
			return nil, nil
		}

		start := time.Now()
		access, err := m.auth.Refresh(shared, refresh)
		if err != nil {
			if errors.Is(err, backend.ErrUnauthenticated) {
				m.metrics.ObserveRefresh("rejected")
			} else {
				m.metrics.ObserveRefresh("failed")
			}
			return nil, err
		}

		m.stateMu.Lock()
		defer m.stateMu.Unlock()

		stored, _, err := m.store.Get(shared, credstore.KeyRefresh)
		if err != nil {
			m.metrics.ObserveRefresh("failed")
			return nil, fmt.Errorf("read refresh: %w", err)
		}

		if m.epoch != epoch || stored != refresh {
			m.metrics.ObserveRefresh("discarded")
			lg.Info("refresh_discarded", slog.Duration("dur", time.Since(start)))
			return nil, errSessionChanged
		}

		if err := m.store.Set(shared, map[string]string{credstore.KeyAccess: access}); err != nil {
			m.metrics.ObserveRefresh("failed")
			return nil, fmt.Errorf("save access: %w", err)
		}

		m.metrics.ObserveRefresh("ok")
		lg.Info("refresh_ok",
			slog.String("access", redact.Tail(access)),
			slog.Duration("dur", time.Since(start)),
		)

		return nil, nil
	})

	if joined {
		m.logger(ctx).Debug("refresh_joined", slog.String("op", op))
	}

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// fresh сообщает, что в хранилище уже лежит access-токен с достаточным запасом.
func (m *Manager) fresh(ctx context.Context) bool {
	access, _, err := m.store.Get(ctx, credstore.KeyAccess)
	if err != nil {
		return false
	}

	remaining, err := token.Remaining(access, m.now())
	return err == nil && remaining >= m.renewBefore
}

func (m *Manager) observeCheck(s Signal) Signal {
	m.metrics.ObserveCheck(s.String())
	return m.resolve(s)
}

// logger — логгер запроса, если он есть в ctx, иначе логгер менеджера.
func (m *Manager) logger(ctx context.Context) *slog.Logger {
	if l := log.From(ctx); l != slog.Default() {
		return l
	}
	return m.log
}
