package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/candlecake/pkg/buildinfo"
)

// versionHeader stamps every response with the build version.
func versionHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(buildinfo.VersionHeader, buildinfo.Version)
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request. Server errors log at error
// level, everything else at debug.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				kv := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"elapsed", time.Since(start).Round(time.Microsecond),
					"request_id", middleware.GetReqID(r.Context()),
				}
				if status >= http.StatusInternalServerError {
					logger.Error("Request failed", kv...)
				} else {
					logger.Debug("Request", kv...)
				}
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
