package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pribylovaa/jobfeed/internal/feed"
	"github.com/pribylovaa/jobfeed/internal/http/views"
	logctx "github.com/pribylovaa/jobfeed/internal/pkg/log"
	"github.com/pribylovaa/jobfeed/internal/query"
)

// Jobs — GET /jobs (и защищённая главная GET /). Фильтры берутся из строки
// запроса, курсор страницы берётся из параметра cursor.
func (h *Handlers) Jobs(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	filters := query.FromValues(values)

	st, err := h.feed.Navigate(r.Context(), filters, values.Get("cursor"))
	h.renderJobs(w, r, st, err)
}

// Retry — POST /jobs/retry: повтор последнего запроса ленты.
func (h *Handlers) Retry(w http.ResponseWriter, r *http.Request) {
	st, err := h.feed.Retry(r.Context())
	h.renderJobs(w, r, st, err)
}

// renderJobs показывает ленту. Сбой основного запроса не делает страницу
// ошибочной: сообщение уже лежит в State.Err и выводится рядом с кнопкой повтора.
func (h *Handlers) renderJobs(w http.ResponseWriter, r *http.Request, st feed.State, err error) {
	if err != nil {
		lg := logctx.From(r.Context())
		if errors.Is(err, feed.ErrSuperseded) {
			lg.Debug("feed_render_superseded")
		} else {
			lg.Warn("feed_render_with_error", slog.String("err", err.Error()))
		}
	}

	if wantsJSON(r) {
		if err != nil && !errors.Is(err, feed.ErrSuperseded) {
			h.renderError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toFeedResponse(st))
		return
	}

	opts, optErr := h.feed.FilterOptions(r.Context())
	if optErr != nil {
		logctx.From(r.Context()).Debug("filter_options_static", slog.String("err", optErr.Error()))
	}

	filters := st.Filters
	dirty := false
	deferred := false
	if h.panel != nil {
		filters = h.panel.Pending()
		dirty = h.panel.Dirty()
		deferred = h.panel.Mode() == feed.ModeDeferred
	}

	h.render(w, r, http.StatusOK, views.PageJobs, views.JobsPage{
		Base:     h.base(r, "Job offers"),
		State:    st,
		Filters:  filters,
		Sections: opts.Sections,
		Deferred: deferred,
		Dirty:    dirty,
	})
}
