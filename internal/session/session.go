// session управляет жизненным циклом сессии клиента: трёхзначный сигнал
// авторизации, проверка срока access-токена, тихое обновление по refresh,
// вход, регистрация и выход.
//
// Manager — единственный компонент, который пишет токены в credstore.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pribylovaa/jobfeed/internal/backend"
	"github.com/pribylovaa/jobfeed/internal/credstore"
	"github.com/pribylovaa/jobfeed/internal/metrics"
	"golang.org/x/sync/singleflight"
)

// Signal — состояние авторизации, которое видят потребители.
type Signal int32

const (
	// Unknown — первая проверка ещё не завершилась. Редиректить в этом состоянии нельзя.
	Unknown Signal = iota
	Authorized
	Unauthorized
)

func (s Signal) String() string {
	switch s {
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

const (
	// DefaultRenewBefore — за сколько до истечения access-токен обновляется.
	DefaultRenewBefore = 300 * time.Second
	// DefaultCheckInterval — период фоновой проверки.
	DefaultCheckInterval = 60 * time.Second
)

var (
	// ErrInvalidCredentials — бэкенд отверг логин/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmptyCredentials — логин или пароль не заполнены.
	ErrEmptyCredentials = errors.New("username and password are required")
	// ErrRegistrationRejected — бэкенд отказал в регистрации (например, имя занято).
	ErrRegistrationRejected = errors.New("registration rejected")
)

// Options — зависимости и параметры Manager.
type Options struct {
	Auth  backend.AuthAPI
	Store credstore.Store

	RenewBefore   time.Duration
	CheckInterval time.Duration

	// Now — источник времени (по умолчанию time.Now).
	Now func() time.Time

	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Manager — менеджер сессии. Безопасен для конкурентного использования.
type Manager struct {
	auth  backend.AuthAPI
	store credstore.Store

	renewBefore time.Duration
	interval    time.Duration
	now         func() time.Time

	metrics *metrics.Metrics
	log     *slog.Logger

	signal    atomic.Int32
	refreshes singleflight.Group
	ready     chan struct{}
	readyOnce sync.Once

	// stateMu упорядочивает записи токенов и публикацию сигнала.
	// epoch растёт при каждом входе и выходе.
	stateMu sync.Mutex
	epoch   uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New создаёт Manager с сигналом Unknown.
func New(opts Options) *Manager {
	m := &Manager{
		auth:        opts.Auth,
		store:       opts.Store,
		renewBefore: opts.RenewBefore,
		interval:    opts.CheckInterval,
		now:         opts.Now,
		metrics:     opts.Metrics,
		log:         opts.Logger,
		ready:       make(chan struct{}),
	}

	if m.renewBefore < 0 {
		m.renewBefore = DefaultRenewBefore
	}
	if m.interval <= 0 {
		m.interval = DefaultCheckInterval
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.log == nil {
		m.log = slog.Default()
	}

	return m
}

// Signal — текущее состояние.
func (m *Manager) Signal() Signal {
	return Signal(m.signal.Load())
}

// Ready закрывается, когда первая проверка (или вход/выход) определила состояние.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

// Await ждёт первого определённого состояния или отмены ctx.
// При отмене возвращает текущее значение (возможно, Unknown).
func (m *Manager) Await(ctx context.Context) Signal {
	select {
	case <-m.ready:
	case <-ctx.Done():
	}

	return m.Signal()
}

// resolve публикует новое состояние. Unknown сюда не попадает никогда.
func (m *Manager) resolve(s Signal) Signal {
	m.signal.Store(int32(s))
	m.readyOnce.Do(func() { close(m.ready) })
	return s
}

// currentEpoch — номер текущей сессии.
func (m *Manager) currentEpoch() uint64 {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	return m.epoch
}

// AccessToken — текущий access-токен из хранилища ("" если его нет).
// Используется транспортом для заголовка Authorization.
func (m *Manager) AccessToken(ctx context.Context) string {
	v, _, err := m.store.Get(ctx, credstore.KeyAccess)
	if err != nil {
		m.log.Warn("access_token_read_failed",
			slog.String("op", "session.AccessToken"),
			slog.String("err", err.Error()),
		)
		return ""
	}

	return v
}
