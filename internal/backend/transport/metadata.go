package transport

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// TokenSource отдаёт текущий access-токен. Пустая строка означает, что токена нет.
type TokenSource interface {
	AccessToken(ctx context.Context) string
}

// TokenSourceFunc — адаптер функции к TokenSource.
type TokenSourceFunc func(ctx context.Context) string

func (f TokenSourceFunc) AccessToken(ctx context.Context) string { return f(ctx) }

// WithMetadata добавляет к исходящему запросу:
//   - X-Request-Id: из контекста (CtxRequestID) или новый UUID;
//   - Authorization: Bearer <token>, если токен есть и вызов не помечен WithoutAuth;
//   - User-Agent, если задан.
//
// Уже выставленные вызывающим заголовки не перезаписываются.
func WithMetadata(userAgent string, tokens TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			// RoundTripper не должен модифицировать входящий запрос.
			r = r.Clone(r.Context())
			ctx := r.Context()

			if r.Header.Get("X-Request-Id") == "" {
				rid := RequestID(ctx)
				if rid == "" {
					rid = uuid.NewString()
				}
				r.Header.Set("X-Request-Id", rid)
			}

			if tokens != nil && !noAuth(ctx) && r.Header.Get("Authorization") == "" {
				if tok := tokens.AccessToken(ctx); tok != "" {
					r.Header.Set("Authorization", "Bearer "+tok)
				}
			}

			if userAgent != "" && r.Header.Get("User-Agent") == "" {
				r.Header.Set("User-Agent", userAgent)
			}

			return next.RoundTrip(r)
		})
	}
}
