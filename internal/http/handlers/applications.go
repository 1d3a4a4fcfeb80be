package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pribylovaa/jobfeed/internal/backend"
	"github.com/pribylovaa/jobfeed/internal/feed"
	"github.com/pribylovaa/jobfeed/internal/http/views"
)

// jobID разбирает {id} из пути.
func jobID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, backend.ErrBadRequest
	}
	return id, nil
}

// Applications — GET /applications.
func (h *Handlers) Applications(w http.ResponseWriter, r *http.Request) {
	items, err := h.feed.Applications(r.Context())

	if wantsJSON(r) {
		if err != nil {
			h.renderError(w, r, err)
			return
		}
		out := make([]applicationResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toApplicationResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
		return
	}

	page := views.ApplicationsPage{Base: h.base(r, "My applications"), Items: items}
	if err != nil {
		page.Error = "Failed to load applications."
	}

	h.render(w, r, http.StatusOK, views.PageApplications, page)
}

// Apply — POST /jobs/{id}/apply.
func (h *Handlers) Apply(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	app, err := h.feed.Apply(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusCreated, toApplicationResponse(*app))
		return
	}

	h.back(w, r)
}

// Unapply — POST /jobs/{id}/unapply. Вакансия остаётся в ленте.
func (h *Handlers) Unapply(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if err := h.feed.Unapply(r.Context(), id); err != nil {
		if errors.Is(err, feed.ErrNotApplied) && !wantsJSON(r) {
			h.back(w, r)
			return
		}
		h.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.back(w, r)
}

// back — 303 на безопасный локальный return из формы.
func (h *Handlers) back(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	http.Redirect(w, r, safeReturn(r.PostForm.Get("return"), "/jobs"), http.StatusSeeOther)
}
