// views — HTML-представления локального клиента (html/template + embed).
package views

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/pribylovaa/jobfeed/internal/feed"
	"github.com/pribylovaa/jobfeed/internal/models"
	"github.com/pribylovaa/jobfeed/internal/preferences"
	"github.com/pribylovaa/jobfeed/internal/query"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var files embed.FS

// Имена страниц.
const (
	PageLogin        = "login"
	PageJobs         = "jobs"
	PageApplications = "applications"
	PageDashboard    = "dashboard"
	PageError        = "error"
)

// ErrUnknownPage — запрошен шаблон, которого нет.
var ErrUnknownPage = errors.New("unknown page")

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02.01.2006")
	},
	// dict собирает аргументы вложенного шаблона из пар ключ-значение.
	"dict": func(kv ...any) (map[string]any, error) {
		if len(kv)%2 != 0 {
			return nil, errors.New("dict: odd number of arguments")
		}
		out := make(map[string]any, len(kv)/2)
		for i := 0; i < len(kv); i += 2 {
			k, ok := kv[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
			}
			out[k] = kv[i+1]
		}
		return out, nil
	},
}

// Renderer хранит разобранные шаблоны: layout + страница.
type Renderer struct {
	pages map[string]*template.Template
}

// New разбирает встроенные шаблоны.
func New() (*Renderer, error) {
	const op = "views.New"

	names := []string{PageLogin, PageJobs, PageApplications, PageDashboard, PageError}
	r := &Renderer{pages: make(map[string]*template.Template, len(names))}

	for _, name := range names {
		t, err := template.New(name).Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, name, err)
		}
		r.pages[name] = t
	}

	return r, nil
}

// Render исполняет шаблон в буфер и только затем пишет ответ,
// чтобы ошибка шаблона не оставила полуотправленную страницу.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	const op = "views.Render"

	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("%s: %w: %q", op, ErrUnknownPage, name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("%s: %s: %w", op, name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Base — общие данные layout.
type Base struct {
	Title      string
	Prefs      preferences.Preferences
	Authorized bool
	// Path — текущий путь с запросом (возврат после смены настроек).
	Path string

	printer *message.Printer
}

// NewBase собирает данные layout с переводчиком под язык пользователя.
func NewBase(title string, prefs preferences.Preferences, authorized bool, path string) Base {
	return Base{
		Title:      title,
		Prefs:      prefs,
		Authorized: authorized,
		Path:       path,
		printer:    newPrinter(prefs.Tag()),
	}
}

// T переводит интерфейсную строку.
func (b Base) T(key string, args ...any) string {
	if b.printer == nil {
		b.printer = newPrinter(b.Prefs.Tag())
	}
	return b.printer.Sprintf(key, args...)
}

// LoginPage — форма входа/регистрации.
type LoginPage struct {
	Base
	From     string
	Username string
	Error    string
	Register bool
}

// JobsPage — лента с панелью фильтров.
type JobsPage struct {
	Base
	State feed.State
	// Filters — то, что показывает панель (в deferred-режиме это черновик).
	Filters  query.FilterState
	Sections []query.Section
	Deferred bool
	Dirty    bool
}

// Chips — активные фильтры панели.
func (p JobsPage) Chips() []query.Chip { return p.Filters.Active() }

// Selected — выбрано ли значение в панели.
func (p JobsPage) Selected(field query.Field, value string) bool {
	if field == query.FieldSkills {
		return p.Filters.HasSkill(value)
	}
	return p.Filters.Get(field) == value
}

// PageURL — ссылка на соседнюю страницу. Фильтры остаются в адресе,
// курсор передаётся как есть; nil даёт "".
func (p JobsPage) PageURL(cursor *string) string {
	if cursor == nil {
		return ""
	}

	q := query.Encode(p.State.Filters)
	if q != "" {
		q += "&"
	}
	return "/jobs?" + q + "cursor=" + url.QueryEscape(*cursor)
}

// ApplicationsPage — список откликов пользователя.
type ApplicationsPage struct {
	Base
	Items []models.Application
	Error string
}

// DashboardViews — срезы обзора рынка: "" (весь рынок) и отдельные навыки.
var DashboardViews = []string{"", "Python", "JavaScript"}

// DashboardPage — обзор рынка вакансий.
type DashboardPage struct {
	Base
	Data  feed.Dashboard
	Views []string
	Error string
}

// ViewURL — ссылка на срез обзора.
func (p DashboardPage) ViewURL(skill string) string {
	if skill == "" {
		return "/"
	}
	return "/?skill=" + url.QueryEscape(skill)
}

// ErrorPage — страница ошибки.
type ErrorPage struct {
	Base
	Status    int
	Code      string
	Message   string
	RequestID string
}
