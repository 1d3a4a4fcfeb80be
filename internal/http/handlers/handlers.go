package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/pribylovaa/jobfeed/internal/backend/transport"
	"github.com/pribylovaa/jobfeed/internal/credstore"
	apierrors "github.com/pribylovaa/jobfeed/internal/errors"
	"github.com/pribylovaa/jobfeed/internal/feed"
	"github.com/pribylovaa/jobfeed/internal/http/views"
	logctx "github.com/pribylovaa/jobfeed/internal/pkg/log"
	"github.com/pribylovaa/jobfeed/internal/preferences"
	"github.com/pribylovaa/jobfeed/internal/session"
)

// Sessions — то, что нужно хендлерам от менеджера сессии.
type Sessions interface {
	Signal() session.Signal
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
}

// Deps — зависимости хендлеров.
type Deps struct {
	Sessions Sessions
	Feed     *feed.Controller
	Panel    *feed.Panel
	Store    credstore.Store
	Views    *views.Renderer
}

// Handlers агрегирует зависимости веб-слоя.
type Handlers struct {
	sessions Sessions
	feed     *feed.Controller
	panel    *feed.Panel
	store    credstore.Store
	views    *views.Renderer
}

func New(d Deps) *Handlers {
	return &Handlers{
		sessions: d.Sessions,
		feed:     d.Feed,
		panel:    d.Panel,
		store:    d.Store,
		views:    d.Views,
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// wantsJSON — клиент явно просит JSON (CLI, скрипты, fetch из браузера).
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// safeReturn допускает только локальный путь: "/x", но не "//host" и не "http://...".
func safeReturn(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return fallback
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}

	return raw
}

// base собирает общие данные страницы: настройки и состояние сессии.
func (h *Handlers) base(r *http.Request, title string) views.Base {
	prefs, found, err := preferences.Load(r.Context(), h.store)
	if err != nil {
		logctx.From(r.Context()).Warn("preferences_load_failed", slog.String("err", err.Error()))
	}
	if !found {
		prefs.Locale = preferences.Negotiate(r.Header.Get("Accept-Language"))
	}

	return views.NewBase(title, prefs, h.sessions.Signal() == session.Authorized, r.URL.RequestURI())
}

// render пишет страницу; ошибка шаблона превращается в 500.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	if err := h.views.Render(w, status, page, data); err != nil {
		logctx.From(r.Context()).Error("render_failed",
			slog.String("page", page),
			slog.String("err", err.Error()),
		)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// renderError отвечает ошибкой: JSON для API-клиентов, иначе страница ошибки.
func (h *Handlers) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if wantsJSON(r) {
		apierrors.WriteError(w, r, err)
		return
	}

	status, resp := apierrors.ToHTTP(err)
	if status >= http.StatusInternalServerError {
		logctx.From(r.Context()).Error("request_failed", slog.String("err", err.Error()))
	}

	h.render(w, r, status, views.PageError, views.ErrorPage{
		Base:      h.base(r, "Error"),
		Status:    status,
		Code:      resp.Error.Code,
		Message:   apierrors.Message(err),
		RequestID: transport.RequestID(r.Context()),
	})
}
