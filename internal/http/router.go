package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/jobfeed/internal/http/handlers"
	"github.com/pribylovaa/jobfeed/internal/http/middleware"
	"github.com/pribylovaa/jobfeed/internal/metrics"
)

// LoginPath — куда Gate отправляет неавторизованного пользователя.
const LoginPath = "/login"

// feedPath — возврат после входа, если исходное действие нельзя повторить GET-ом.
const feedPath = "/jobs"

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	Metrics  *metrics.Metrics
	GateWait time.Duration
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(h *handlers.Handlers, auth middleware.Authorizer, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(opts.Metrics),
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	registerRoutes(root, h, middleware.Gate(auth, opts.GateWait, LoginPath, feedPath))
	return root
}

// registerRoutes — единая точка регистрации маршрутов.
func registerRoutes(r chi.Router, h *handlers.Handlers, gate middleware.Middleware) {
	// auth
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)
	r.Post("/register", h.Register)
	r.Post("/logout", h.Logout)

	// публичная лента и панель фильтров
	r.Get("/jobs", h.Jobs)
	r.Post("/jobs/retry", h.Retry)
	r.Post("/filters/toggle", h.ToggleFilter)
	r.Post("/filters/title", h.SetTitle)
	r.Post("/filters/clear", h.ClearFilters)
	r.Post("/filters/confirm", h.ConfirmFilters)
	r.Post("/filters/discard", h.DiscardFilters)

	r.Post("/preferences", h.SavePreferences)

	// защищённые представления
	r.Group(func(r chi.Router) {
		r.Use(gate)

		r.Get("/", h.Dashboard)
		r.Get("/applications", h.Applications)
		r.Post("/jobs/{id}/apply", h.Apply)
		r.Post("/jobs/{id}/unapply", h.Unapply)
	})
}
