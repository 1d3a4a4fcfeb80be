package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/pribylovaa/jobfeed/internal/metrics"
)

// Metrics считает запросы по шаблону маршрута chi (а не по сырому пути,
// чтобы id вакансий не раздували кардинальность).
func Metrics(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			m.ObserveHTTP(routeOf(r), strconv.Itoa(sw.code()), time.Since(start))
		})
	}
}
