package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	logctx "github.com/pribylovaa/jobfeed/internal/pkg/log"
	"github.com/pribylovaa/jobfeed/internal/session"
)

// Authorizer — источник сигнала авторизации для Gate.
type Authorizer interface {
	Signal() session.Signal
	Await(ctx context.Context) session.Signal
}

// loadingPage — нейтральная страница на время первой проверки сессии.
const loadingPage = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="1">
<title>jobfeed</title>
</head>
<body><p class="loading">Loading…</p></body>
</html>
`

// Gate пускает к защищённым страницам только при Authorized.
//
// Поведение:
//   - Unknown: до wait ждёт первой проверки; если она так и не завершилась,
//     отдаёт страницу загрузки (200, no-store, автообновление), без редиректа;
//   - Unauthorized: 303 на loginPath?from=<куда вернуться после входа>;
//   - Authorized: передаёт запрос дальше.
//
// После входа браузер делает GET на from, поэтому для GET/HEAD это исходный
// путь с запросом, а для остальных методов локальный Referer или fallback.
func Gate(auth Authorizer, wait time.Duration, loginPath, fallback string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sig := auth.Signal()
			if sig == session.Unknown && wait > 0 {
				ctx, cancel := context.WithTimeout(r.Context(), wait)
				sig = auth.Await(ctx)
				cancel()
			}

			switch sig {
			case session.Authorized:
				next.ServeHTTP(w, r)
			case session.Unauthorized:
				target := loginPath + "?from=" + url.QueryEscape(returnPath(r, fallback))
				http.Redirect(w, r, target, http.StatusSeeOther)
			default:
				logctx.From(r.Context()).Debug("gate_pending", slog.String("path", r.URL.Path))
				w.Header().Set("Cache-Control", "no-store")
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(loadingPage))
			}
		})
	}
}

// returnPath — куда вернуть пользователя после входа.
func returnPath(r *http.Request, fallback string) string {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return r.URL.RequestURI()
	}

	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") {
		return fallback
	}
	if ref.Host != "" && ref.Host != r.Host {
		return fallback
	}

	return ref.RequestURI()
}
