// Package httpapi hooks the healing engine into an HTTP request
// pipeline. The middleware watches responses for failure and hands a
// classified ErrorEvent to the engine before the response is released.
package httpapi

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/mender/internal/core/domain"
	"github.com/vietddude/mender/internal/healing"
)

// Header set on responses when a recovery action engaged fallback mode.
const FallbackHeader = "X-Mender-Fallback"

// Middleware wraps next so that any response with status >= 500, or a
// panicking handler, triggers a healing attempt. The response body is
// buffered until healing completes so fallback annotations can still
// become headers.
func Middleware(engine *healing.Engine, log *slog.Logger, next http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &recorder{status: http.StatusOK}

		panicked := false
		func() {
			defer func() {
				if p := recover(); p != nil {
					panicked = true
					rec.status = http.StatusInternalServerError
					rec.body.Reset()
					log.Error("handler panicked", "panic", p, "url", r.URL.Path)
				}
			}()
			next.ServeHTTP(rec, r)
		}()

		if rec.status >= http.StatusInternalServerError {
			event := classify(r, rec.status, panicked)
			state := domain.NewRequestState()

			result := engine.Heal(r.Context(), event, state)
			log.Debug("healing attempt finished",
				"strategy", result.StrategyID,
				"success", result.Success,
				"status", rec.status,
			)

			if state.FallbackEngaged() {
				w.Header().Set(FallbackHeader, "1")
			}
		}

		rec.flush(w)
	})
}

// classify maps an HTTP failure onto the engine's error taxonomy. The
// upstream application can feed richer events directly; this is the
// boundary classifier for plain HTTP status failures.
func classify(r *http.Request, status int, panicked bool) *domain.ErrorEvent {
	kind := "InternalServerError"
	category := domain.CategorySystem
	severity := domain.SeverityHigh

	switch {
	case panicked:
		kind = "PanicError"
		severity = domain.SeverityCritical
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable:
		kind = "ExternalServiceError"
		category = domain.CategoryExternalService
	case status == http.StatusGatewayTimeout:
		kind = "TimeoutError"
		category = domain.CategoryPerformance
	}

	return &domain.ErrorEvent{
		Kind:     kind,
		Code:     http.StatusText(status),
		Category: category,
		Severity: severity,
		Message:  http.StatusText(status),
		Context: domain.EventContext{
			RequestID: requestID(r),
			ClientIP:  r.RemoteAddr,
			UserAgent: r.UserAgent(),
			Method:    r.Method,
			URL:       r.URL.String(),
			Timestamp: time.Now().UTC(),
		},
	}
}

func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return uuid.New().String()
}

// recorder buffers the handler's response so healing can run before
// anything is written to the wire.
type recorder struct {
	status int
	header http.Header
	body   bytes.Buffer
}

func (r *recorder) Header() http.Header {
	if r.header == nil {
		r.header = make(http.Header)
	}
	return r.header
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
}

func (r *recorder) Write(b []byte) (int, error) {
	return r.body.Write(b)
}

func (r *recorder) flush(w http.ResponseWriter) {
	for k, vals := range r.header {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(r.status)
	_, _ = w.Write(r.body.Bytes())
}
