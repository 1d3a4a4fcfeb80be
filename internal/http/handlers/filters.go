package handlers

import (
	"errors"
	"net/http"

	"github.com/pribylovaa/jobfeed/internal/query"
)

// Хендлеры панели фильтров. В immediate-режиме каждое изменение сразу
// перезагружает ленту, в deferred-режиме копится до /filters/confirm.

// ToggleFilter — POST /filters/toggle (field, value).
func (h *Handlers) ToggleFilter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, query.ErrInvalidQuery)
		return
	}

	field := query.Field(r.PostForm.Get("field"))
	st, err := h.panel.Toggle(r.Context(), field, r.PostForm.Get("value"))
	if err != nil && !isFeedErr(err) {
		h.renderError(w, r, err)
		return
	}

	h.renderJobs(w, r, st, err)
}

// SetTitle — POST /filters/title.
func (h *Handlers) SetTitle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, query.ErrInvalidQuery)
		return
	}

	st, err := h.panel.SetTitle(r.Context(), r.PostForm.Get("title"))
	h.renderJobs(w, r, st, err)
}

// ClearFilters — POST /filters/clear.
func (h *Handlers) ClearFilters(w http.ResponseWriter, r *http.Request) {
	st, err := h.panel.Clear(r.Context())
	h.renderJobs(w, r, st, err)
}

// ConfirmFilters — POST /filters/confirm.
func (h *Handlers) ConfirmFilters(w http.ResponseWriter, r *http.Request) {
	st, err := h.panel.Confirm(r.Context())
	h.renderJobs(w, r, st, err)
}

// DiscardFilters — POST /filters/discard: без запроса к бэкенду.
func (h *Handlers) DiscardFilters(w http.ResponseWriter, r *http.Request) {
	h.panel.Discard()
	h.renderJobs(w, r, h.feed.Snapshot(), nil)
}

// isFeedErr — ошибка загрузки ленты (уже отражена в State.Err) или устаревший
// ответ, а не ошибка ввода.
func isFeedErr(err error) bool {
	return !errors.Is(err, query.ErrUnknownField)
}
