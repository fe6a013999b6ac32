package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// normalizePath converts paths with dynamic segments to route patterns
// to prevent cardinality explosion in metrics. Maps paths like
// /locations/123 to /locations/{id}.
func normalizePath(path string) string {
	// Static routes pass through untouched.
	staticRoutes := map[string]bool{
		"/":          true,
		"/locations": true,
		"/health":    true,
		"/metrics":   true,
	}
	if staticRoutes[path] {
		return path
	}

	if strings.HasPrefix(path, "/locations/") {
		parts := strings.Split(path, "/")
		// /locations/{id}/evaluation, /locations/{id}/financials,
		// /locations/{id}/ratings/general, /locations/{id}/ratings/module
		if len(parts) >= 4 {
			switch parts[3] {
			case "evaluation", "financials":
				return "/locations/{id}/" + parts[3]
			case "ratings":
				if len(parts) == 5 {
					return "/locations/{id}/ratings/" + parts[4]
				}
				return "/locations/{id}/ratings"
			}
		}
		// /locations/{id}
		if len(parts) == 3 && parts[2] != "" {
			return "/locations/{id}"
		}
	}

	// Fallback: return as-is so new routes are not silently merged.
	return path
}

// metricsResponseWriter wraps http.ResponseWriter to capture status
// code and response size.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	size        int64
	wroteHeader bool
}

func (mrw *metricsResponseWriter) WriteHeader(code int) {
	if mrw.wroteHeader {
		return
	}
	mrw.statusCode = code
	mrw.wroteHeader = true
	mrw.ResponseWriter.WriteHeader(code)
}

func (mrw *metricsResponseWriter) Write(b []byte) (int, error) {
	n, err := mrw.ResponseWriter.Write(b)
	mrw.size += int64(n)
	return n, err
}

// HTTPMetrics is a middleware that records HTTP request metrics:
// duration, response size, and request counts. Health and metrics
// endpoints are excluded to avoid noise.
func HTTPMetrics(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			mrw := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(mrw, r)

			metrics.ObserveHTTPRequest(
				r.Method,
				normalizePath(r.URL.Path),
				strconv.Itoa(mrw.statusCode),
				time.Since(start).Seconds(),
				mrw.size,
			)
		})
	}
}
