package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func bufferLogger(buf *bytes.Buffer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(buf),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

func TestRequestIDContext(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty id, got %q", got)
	}
	ctx := WithRequestID(context.Background(), "abc")
	if got := RequestIDFromContext(ctx); got != "abc" {
		t.Errorf("RequestIDFromContext = %q; want abc", got)
	}
}

func TestWithRequestLogging_Success(t *testing.T) {
	var buf bytes.Buffer
	next := RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusCreated,
			Body:       io.NopCloser(strings.NewReader("{}")),
		}, nil
	})

	rt := WithRequestLogging(next, bufferLogger(&buf))
	req := httptest.NewRequest(http.MethodPost, "http://example.com/posts", nil)
	req = req.WithContext(WithRequestID(req.Context(), "rid-1"))

	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	out := buf.String()
	for _, want := range []string{"request started", "request finished", "rid-1", "/posts", "201"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestWithRequestLogging_Failure(t *testing.T) {
	var buf bytes.Buffer
	next := RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	rt := WithRequestLogging(next, bufferLogger(&buf))
	_, err := rt.RoundTrip(httptest.NewRequest(http.MethodGet, "http://example.com/posts/1", nil))
	if err == nil {
		t.Fatal("expected error")
	}
	out := buf.String()
	if !strings.Contains(out, "request failed") || !strings.Contains(out, "connection refused") {
		t.Errorf("expected failure log, got:\n%s", out)
	}
	if !strings.Contains(out, "request_id") {
		t.Errorf("expected generated request id, got:\n%s", out)
	}
}
