// transport предоставляет цепочку http.RoundTripper для исходящих вызовов
// к бэкенду: метаданные (Bearer, X-Request-Id, User-Agent), таймаут и логирование.
package transport

import (
	"context"
	"net/http"
)

type ctxKey int

const (
	// CtxRequestID — request id входящего запроса; пробрасывается в X-Request-Id.
	CtxRequestID ctxKey = iota
	// ctxNoAuth — вызов не должен нести Authorization (выпуск/обновление токенов).
	ctxNoAuth
)

// RoundTripperFunc — адаптер функции к http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Middleware оборачивает RoundTripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain применяет мидлвары к base в порядке перечисления: первый снаружи.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}

	return base
}

// WithoutAuth помечает контекст: Authorization к запросу не добавляется.
func WithoutAuth(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxNoAuth, true)
}

func noAuth(ctx context.Context) bool {
	v, _ := ctx.Value(ctxNoAuth).(bool)
	return v
}

// WithRequestID кладёт request id в контекст.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CtxRequestID, id)
}

// RequestID достаёт request id из контекста.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(CtxRequestID).(string)
	return v
}
