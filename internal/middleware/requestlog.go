package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ThomasBury/AceBet/internal/metrics"
)

// RequestIDHeader carries the correlation id on every response
const RequestIDHeader = "X-API-Request-ID"

// maxCapturedBody bounds how much of a body is retained for logging
const maxCapturedBody = 1 << 20

// captureWriter duplicates the response stream: bytes go to the real client
// unmodified while a bounded copy accumulates for the log entry.
type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *captureWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	if w.body.Len() < maxCapturedBody {
		w.body.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// RequestLogger wraps every request with observability capture: it assigns a
// correlation id, records method/path/query/client address, snapshots the
// request and response bodies (tolerating non-JSON payloads) and emits one
// structured log entry once the downstream handler returns.
func RequestLogger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			start := time.Now()

			// Drain the body and hand the handler a replayable copy
			var reqBody []byte
			if r.Body != nil {
				reqBody, _ = io.ReadAll(io.LimitReader(r.Body, maxCapturedBody))
				r.Body.Close()
				r.Body = io.NopCloser(bytes.NewReader(reqBody))
			}

			cw := &captureWriter{ResponseWriter: w}
			cw.Header().Set(RequestIDHeader, requestID)

			next.ServeHTTP(cw, r)

			elapsed := time.Since(start)
			status := cw.status
			if status == 0 {
				status = http.StatusOK
			}

			path := r.URL.Path
			fields := logrus.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       path,
				"ip":         clientAddr(r),
				"status":     status,
				"elapsed":    elapsed.String(),
			}
			if r.URL.RawQuery != "" {
				fields["query"] = r.URL.RawQuery
			}

			addBodyField(fields, "request_body", "request_body_error", reqBody)
			addBodyField(fields, "response_body", "response_body_error", cw.body.Bytes())

			entry := logger.WithFields(fields)
			if status >= http.StatusInternalServerError {
				entry.Error("Request failed")
			} else {
				entry.Info("Request handled")
			}

			metrics.RequestsTotal.WithLabelValues(path, r.Method, httpStatusClass(status)).Inc()
			metrics.RequestDuration.WithLabelValues(path).Observe(elapsed.Seconds())
		})
	}
}

// addBodyField records the structured form of a body when it parses as JSON,
// or a parse note when it does not. Parse failure never aborts the request.
func addBodyField(fields logrus.Fields, key, errKey string, body []byte) {
	if len(body) == 0 {
		return
	}
	var parsed interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		fields[errKey] = "invalid JSON: " + err.Error()
		return
	}
	fields[key] = parsed
}

// clientAddr returns the request origin without the ephemeral port
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func httpStatusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
