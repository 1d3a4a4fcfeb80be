package handlers

import (
	"net/http"

	"github.com/pribylovaa/jobfeed/internal/http/views"
)

// Dashboard — GET /. Обзор рынка; ?skill= сужает агрегаты до одного навыка.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.feed.Dashboard(r.Context(), r.URL.Query().Get("skill"))

	if wantsJSON(r) {
		if err != nil {
			h.renderError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toDashboardResponse(data))
		return
	}

	page := views.DashboardPage{
		Base:  h.base(r, "Job market"),
		Data:  data,
		Views: views.DashboardViews,
	}
	if err != nil {
		page.Error = page.T("Failed to load dashboard data.")
	}

	h.render(w, r, http.StatusOK, views.PageDashboard, page)
}
