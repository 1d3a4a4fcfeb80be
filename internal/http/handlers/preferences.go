package handlers

import (
	"net/http"

	"github.com/pribylovaa/jobfeed/internal/preferences"
)

// SavePreferences — POST /preferences (locale, theme, return).
func (h *Handlers) SavePreferences(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, preferences.ErrInvalidLocale)
		return
	}

	saved, err := preferences.Save(r.Context(), h.store, preferences.Preferences{
		Locale: r.PostForm.Get("locale"),
		Theme:  r.PostForm.Get("theme"),
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]string{"locale": saved.Locale, "theme": saved.Theme})
		return
	}

	http.Redirect(w, r, safeReturn(r.PostForm.Get("return"), "/jobs"), http.StatusSeeOther)
}
