package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// RequestLogger пишет в лог метод, маршрут, статус и длительность каждого запроса
func RequestLogger(logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			dur := time.Since(start)
			if rec.status >= http.StatusInternalServerError {
				logger.Error("%s %s - %d in %s", r.Method, r.URL.Path, rec.status, dur)
				return
			}
			logger.Info("%s %s - %d in %s", r.Method, r.URL.Path, rec.status, dur)
		})
	}
}
