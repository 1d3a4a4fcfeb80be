// feed — контроллер ленты вакансий: состояние фильтров, курсоры страниц,
// разметка откликами и оптимистичные отклики/отзывы.
//
// Контроллер процесс-глобальный (один пользователь). Ответы, пришедшие
// после более нового запроса, отбрасываются: фиксируется только результат
// с последним номером поколения.
package feed

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/pribylovaa/jobfeed/internal/backend"
	"github.com/pribylovaa/jobfeed/internal/metrics"
	"github.com/pribylovaa/jobfeed/internal/models"
	"github.com/pribylovaa/jobfeed/internal/query"
	"github.com/pribylovaa/jobfeed/internal/session"
)

var (
	// ErrSuperseded — ответ устарел: после него был выпущен более новый запрос.
	ErrSuperseded = errors.New("superseded by a newer request")
	// ErrNotApplied — отзыв отклика на вакансию, на которую отклика нет.
	ErrNotApplied = errors.New("no application for job")
	// ErrAlreadyApplied — повторный отклик.
	ErrAlreadyApplied = errors.New("already applied")
)

// AuthSource сообщает текущее состояние сессии.
type AuthSource interface {
	Signal() session.Signal
}

// State — снимок ленты для отображения.
type State struct {
	Filters query.FilterState
	// Cursor — курсор текущей страницы ("" — первая страница).
	Cursor  string
	Result  *models.FeedPage
	Loading bool
	// Err — сообщение для пользователя; задаётся только при сбое основного запроса.
	Err string
}

// Options — зависимости контроллера.
type Options struct {
	Jobs    backend.JobsAPI
	Auth    AuthSource
	Metrics *metrics.Metrics
	Logger  *slog.Logger
	// Now — источник времени для оптимистичных откликов.
	Now func() time.Time
}

// Controller — контроллер ленты. Безопасен для конкурентного использования.
type Controller struct {
	jobs    backend.JobsAPI
	auth    AuthSource
	metrics *metrics.Metrics
	log     *slog.Logger
	now     func() time.Time

	mu    sync.Mutex
	gen   uint64
	state State
}

// New создаёт контроллер с пустыми фильтрами и без результата.
func New(opts Options) *Controller {
	c := &Controller{
		jobs:    opts.Jobs,
		auth:    opts.Auth,
		metrics: opts.Metrics,
		log:     opts.Logger,
		now:     opts.Now,
	}

	if c.log == nil {
		c.log = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}

	return c
}

// Snapshot — копия текущего состояния, не разделяющая память с контроллером.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	s.Filters = s.Filters.Clone()
	s.Result = clonePage(s.Result)
	return s
}

func clonePage(p *models.FeedPage) *models.FeedPage {
	if p == nil {
		return nil
	}

	out := *p
	out.Items = slices.Clone(p.Items)
	for i := range out.Items {
		if a := out.Items[i].Application; a != nil {
			cp := *a
			out.Items[i].Application = &cp
		}
	}

	return &out
}

func (c *Controller) authorized() bool {
	return c.auth != nil && c.auth.Signal() == session.Authorized
}

// userMessage — короткое сообщение об ошибке для отображения.
func userMessage(err error) string {
	switch {
	case errors.Is(err, backend.ErrUnauthenticated):
		return "Your session has expired. Please sign in again."
	case errors.Is(err, backend.ErrForeignCursor), errors.Is(err, backend.ErrBadRequest):
		return "This page link is no longer valid."
	case errors.Is(err, backend.ErrUnavailable):
		return "The job service is unavailable. Please try again."
	default:
		return "Failed to load job offers."
	}
}
