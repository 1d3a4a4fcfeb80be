package handlers

import (
	"net/http"
	"strings"

	apierrors "github.com/pribylovaa/jobfeed/internal/errors"
	"github.com/pribylovaa/jobfeed/internal/http/views"
	"github.com/pribylovaa/jobfeed/internal/session"
)

const homePath = "/"

// LoginForm — GET /login. Уже авторизованного пользователя сразу возвращает в from.
func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	from := safeReturn(r.URL.Query().Get("from"), homePath)

	if h.sessions.Signal() == session.Authorized {
		http.Redirect(w, r, from, http.StatusSeeOther)
		return
	}

	h.render(w, r, http.StatusOK, views.PageLogin, views.LoginPage{
		Base:     h.base(r, "Sign in"),
		From:     from,
		Register: r.URL.Query().Get("register") != "",
	})
}

// Login — POST /login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, false)
}

// Register — POST /register: регистрация и сразу вход.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, true)
}

func (h *Handlers) authenticate(w http.ResponseWriter, r *http.Request, register bool) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, session.ErrEmptyCredentials)
		return
	}

	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	from := safeReturn(r.PostForm.Get("from"), homePath)

	var err error
	if register {
		err = h.sessions.Register(r.Context(), username, password)
	} else {
		err = h.sessions.Login(r.Context(), username, password)
	}

	if err != nil {
		if wantsJSON(r) {
			apierrors.WriteError(w, r, err)
			return
		}

		status, _ := apierrors.ToHTTP(err)
		h.render(w, r, status, views.PageLogin, views.LoginPage{
			Base:     h.base(r, "Sign in"),
			From:     from,
			Username: username,
			Error:    apierrors.Message(err),
			Register: register,
		})
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]string{"status": session.Authorized.String()})
		return
	}

	http.Redirect(w, r, from, http.StatusSeeOther)
}

// Logout — POST /logout.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		h.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
