// Provides the HTTP middleware chain shared by all routes.

package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/maruel/discdb/internal/server/dto"
	"github.com/maruel/discdb/internal/server/metrics"
	"github.com/maruel/discdb/internal/server/reqctx"
)

// logRequests assigns a request id and writes one access log line per
// request.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := reqctx.GetRequestID(r)
		w.Header().Set(reqctx.RequestIDHeader, id)
		ctx := reqctx.WithRequestID(r.Context(), id)
		rw := &responseRecorder{ResponseWriter: w}
		next.ServeHTTP(rw, r.WithContext(ctx))
		slog.InfoContext(ctx, "http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.Status(),
			"size", rw.size,
			"dur", time.Since(start).Round(time.Microsecond),
			"rid", id,
			"ip", reqctx.GetClientIP(r),
		)
	})
}

// recoverPanics converts a handler panic into a 500 response.
func recoverPanics(next http.Handler, cfg *Config, m *metrics.Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			if m != nil {
				m.Panics.Inc()
			}
			ctx := r.Context()
			slog.ErrorContext(ctx, "Handler panic", "err", v, "rid", reqctx.RequestID(ctx), "stack", string(debug.Stack()))
			writeErrorResponse(ctx, w, dto.InternalWithError(fmt.Errorf("panic: %v", v)), !cfg.HideErrorDetail)
		}()
		next.ServeHTTP(w, r)
	})
}

// allowCORS permits any origin and answers preflight requests.
func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		if r.Method != http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h.Set("Access-Control-Allow-Methods", "GET,HEAD,PUT,PATCH,POST,DELETE")
		if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
			h.Set("Access-Control-Allow-Headers", reqHeaders)
			h.Add("Vary", "Access-Control-Request-Headers")
		}
		h.Set("Content-Length", "0")
		w.WriteHeader(http.StatusNoContent)
	})
}

// trimTrailingSlash makes "/Id/" route like "/Id". Only one slash is removed.
func trimTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if len(p) <= 1 || !strings.HasSuffix(p, "/") {
			next.ServeHTTP(w, r)
			return
		}
		r2 := new(http.Request)
		*r2 = *r
		u := *r.URL
		u.Path = p[:len(p)-1]
		u.RawPath = ""
		r2.URL = &u
		next.ServeHTTP(w, r2)
	})
}

// responseRecorder remembers the status code and body size written.
type responseRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseRecorder) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseRecorder) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func (rw *responseRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Status returns the status code, 200 if nothing was written.
func (rw *responseRecorder) Status() int {
	if rw.status == 0 {
		return http.StatusOK
	}
	return rw.status
}
