package transport

import (
	"context"
	"io"
	"net/http"
	"time"
)

// WithTimeout навешивает дедлайн d на запрос, если его ещё нет.
//
// Контракт:
//  1. d <= 0 — запрос уходит без изменений;
//  2. дедлайн уже задан во входящем ctx — не модифицирует его;
//  3. иначе — cancel() вызывается при закрытии тела ответа (или сразу при ошибке),
//     чтобы дедлайн покрывал и чтение тела.
func WithTimeout(d time.Duration) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if d <= 0 {
			return next
		}

		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if _, ok := r.Context().Deadline(); ok {
				return next.RoundTrip(r)
			}

			ctx, cancel := context.WithTimeout(r.Context(), d)
			resp, err := next.RoundTrip(r.WithContext(ctx))
			if err != nil {
				cancel()
				return nil, err
			}

			resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
			return resp, nil
		})
	}
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
