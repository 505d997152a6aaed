// Package middleware provides http.RoundTripper wrappers for the client's
// outbound requests.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls f(req).
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// WithRequestID stores a correlation id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the correlation id stored in ctx,
// or an empty string if there is none.
func RequestIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(requestIDKey).(string); ok {
		return s
	}
	return ""
}

// WithRequestLogging wraps next so every request is logged at debug level
// when it starts and when it finishes, with a correlation id, the method,
// path, status and duration. Transport failures are logged at warn.
// The id is taken from the request context or generated.
func WithRequestLogging(next http.RoundTripper, log *zap.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		id := RequestIDFromContext(req.Context())
		if id == "" {
			id = uuid.NewString()
		}
		fields := []zap.Field{
			zap.String("request_id", id),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
		}
		log.Debug("request started", fields...)

		start := time.Now()
		resp, err := next.RoundTrip(req)
		fields = append(fields, zap.Duration("duration", time.Since(start)))
		if err != nil {
			log.Warn("request failed", append(fields, zap.Error(err))...)
			return nil, err
		}
		log.Debug("request finished", append(fields, zap.Int("status", resp.StatusCode))...)
		return resp, nil
	})
}
