package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/jobfeed/internal/backend/transport"
	logctx "github.com/pribylovaa/jobfeed/internal/pkg/log"
)

// Logging кладёт в контекст логгер с request_id и по завершении пишет одну
// запись "web_request": маршрут chi, статус, размер, длительность, формат
// ответа (html/json) и цель редиректа для 3xx (так видно, куда Gate и формы
// отправили браузер).
//
// Строка запроса не логируется: в ней фильтры и курсоры ленты.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := transport.RequestID(r.Context())
			if rid == "" {
				rid = r.Header.Get("X-Request-Id")
			}

			reqLogger := l
			if rid != "" {
				reqLogger = reqLogger.With(slog.String("request_id", rid))
			}
			r = r.WithContext(logctx.Into(r.Context(), reqLogger))

			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			status := sw.code()
			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("route", routeOf(r)),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", sw.count),
				slog.Duration("dur", time.Since(start)),
				slog.String("format", responseKind(r)),
			}
			if status >= 300 && status < 400 {
				attrs = append(attrs, slog.String("location", sw.Header().Get("Location")))
			}

			lvl := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				lvl = slog.LevelWarn
			}

			reqLogger.LogAttrs(r.Context(), lvl, "web_request", attrs...)
		})
	}
}

// responseKind — что ожидает клиент: страницу или JSON.
func responseKind(r *http.Request) string {
	if wantsHTML(r) {
		return "html"
	}
	if r.Header.Get("Accept") == "" {
		return "any"
	}
	return "json"
}
