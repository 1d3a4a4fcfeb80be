package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/jobfeed/internal/pkg/log"
)

// WithLogging — логирование исходящих вызовов.
// Поведение:
//   - добавляет поля request_id/method/path, прокладывает обогащённый логгер в контекст;
//   - пишет одну финальную запись уровня Info: msg="http_out", status, dur
//     (или уровня Warn с err, если ответа нет).
//
// Безопасность: не логирует тело и заголовок Authorization.
// Мидлвар должен стоять после WithMetadata, чтобы видеть X-Request-Id.
func WithLogging(base *slog.Logger) Middleware {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()

			l := base.With(
				slog.String("request_id", r.Header.Get("X-Request-Id")),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			r = r.WithContext(log.Into(r.Context(), l))

			resp, err := next.RoundTrip(r)
			if err != nil {
				l.Warn("http_out",
					slog.String("err", err.Error()),
					slog.Duration("dur", time.Since(start)),
				)
				return nil, err
			}

			l.Info("http_out",
				slog.Int("status", resp.StatusCode),
				slog.Duration("dur", time.Since(start)),
			)

			return resp, nil
		})
	}
}
