package middleware

import (
	"net/http"
	"time"

	"github.com/frontandrew/parking/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// LoggingMiddleware логирует запросы с шаблоном маршрута chi и номером автомобиля из пути.
// 5xx пишутся как Error, 4xx как Warn. Успешные запросы к quiet путям (health, metrics) не логируются.
func LoggingMiddleware(log logger.Logger, quiet ...string) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(quiet))
	for _, path := range quiet {
		skip[path] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if _, ok := skip[r.URL.Path]; ok && status < http.StatusBadRequest {
				return
			}

			fields := map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"duration_ms": time.Since(start).Milliseconds(),
				"bytes":       ww.BytesWritten(),
				"remote_addr": r.RemoteAddr,
				"request_id":  chiMiddleware.GetReqID(r.Context()),
			}
			// Параметры маршрута заполняются при роутинге, поэтому читаются после next
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					fields["route"] = pattern
				}
				if plate := rctx.URLParam("plate"); plate != "" {
					fields["plate"] = plate
				}
			}

			switch {
			case status >= http.StatusInternalServerError:
				log.Error("HTTP request", fields)
			case status >= http.StatusBadRequest:
				log.Warn("HTTP request", fields)
			default:
				log.Info("HTTP request", fields)
			}
		})
	}
}
