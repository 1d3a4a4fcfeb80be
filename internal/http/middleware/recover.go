package middleware

import (
	"fmt"
	"html"
	"log/slog"
	"net/http"

	"github.com/pribylovaa/jobfeed/internal/backend/transport"
	apierrors "github.com/pribylovaa/jobfeed/internal/errors"
	logctx "github.com/pribylovaa/jobfeed/internal/pkg/log"
)

// panicPage — ответ браузеру вместо страницы, которую не удалось собрать.
const panicPage = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>jobfeed</title></head>
<body>
<h1>Something went wrong</h1>
<p><a href="/jobs">Back to job offers</a></p>
<p class="request-id">Request ID: %s</p>
</body>
</html>
`

// Recover превращает panic обработчика в 500: браузер получает короткую
// страницу с id запроса, API-клиент получает конверт {"error":{...}}.
// Детали паники остаются только в журнале.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				rid := transport.RequestID(r.Context())
				logctx.From(r.Context()).LogAttrs(r.Context(), slog.LevelError, "handler_panic",
					slog.String("method", r.Method),
					slog.String("route", routeOf(r)),
					slog.String("path", r.URL.Path),
					slog.Any("reason", rec),
				)

				if wantsHTML(r) {
					w.Header().Set("Content-Type", "text/html; charset=utf-8")
					w.Header().Set("Cache-Control", "no-store")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = fmt.Fprintf(w, panicPage, html.EscapeString(rid))
					return
				}

				apierrors.WriteError(w, r, fmt.Errorf("internal"))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
