package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey struct{}

func TestOpenTelemetryConfig(t *testing.T) {
	config := defaultOTelConfig()

	if config.TracerName != defaultTracerName {
		t.Errorf("default TracerName = %q, want %q", config.TracerName, defaultTracerName)
	}
	if !config.IncludeRoute {
		t.Error("default IncludeRoute should be true")
	}

	for _, opt := range []OTelOption{
		WithTracerName("playground"),
		WithIncludeRoute(false),
		WithRequestFilter(func(*http.Request) bool { return false }),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue { return nil }),
	} {
		opt(&config)
	}

	if config.TracerName != "playground" {
		t.Errorf("TracerName = %q", config.TracerName)
	}
	if config.IncludeRoute {
		t.Error("IncludeRoute should be false")
	}
	if config.Filter == nil || config.AttributeExtractor == nil {
		t.Error("Filter and AttributeExtractor should be set")
	}
}

func TestFormatSpanName(t *testing.T) {
	tests := []struct {
		method, path, want string
	}{
		{"GET", "/api/expand", "GET /api/expand"},
		{"POST", "", "POST /"},
		{"DELETE", "/api/snippets/{id}", "DELETE /api/snippets/{id}"},
	}
	for _, tt := range tests {
		if got := formatSpanName(tt.method, tt.path); got != tt.want {
			t.Errorf("formatSpanName(%q, %q) = %q, want %q", tt.method, tt.path, got, tt.want)
		}
	}
}

func TestOpenTelemetryMiddleware_PassesSpanContext(t *testing.T) {
	extracted := false
	var handlerCtx context.Context

	r := chi.NewRouter()
	r.Use(OpenTelemetry(WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
		extracted = true
		return []attribute.KeyValue{attribute.String("test.attr", "ok")}
	})))
	r.Get("/api/lorem/{n}", func(w http.ResponseWriter, r *http.Request) {
		handlerCtx = r.Context()
		if trace.SpanFromContext(r.Context()) == nil {
			t.Error("expected a span in the request context")
		}
		w.WriteHeader(http.StatusTeapot)
	})

	parent := context.WithValue(context.Background(), ctxKey{}, "parent")
	req := httptest.NewRequest(http.MethodGet, "/api/lorem/5", nil).WithContext(parent)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	if !extracted {
		t.Error("attribute extractor was not called")
	}
	if handlerCtx == nil || handlerCtx.Value(ctxKey{}) != "parent" {
		t.Error("handler context should derive from the request context")
	}
}

func TestOpenTelemetryMiddleware_FilterSkipsTracing(t *testing.T) {
	var got *http.Request
	mw := OpenTelemetry(WithRequestFilter(func(r *http.Request) bool {
		return r.URL.Path != "/healthz"
	}))
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got != req {
		t.Fatal("filtered requests should reach the handler untouched")
	}
}

func TestOpenTelemetryMiddleware_WrapsTracedRequests(t *testing.T) {
	var got *http.Request
	h := OpenTelemetry()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/expand", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got == nil || got == req {
		t.Fatal("traced requests should carry a new context")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestExpandSpan(t *testing.T) {
	ctx, span := StartExpandSpan(context.Background(), strings.Repeat("div>", 100))
	if ctx == nil || span == nil {
		t.Fatal("StartExpandSpan returned nil")
	}
	if !trace.SpanFromContext(ctx).SpanContext().Equal(span.SpanContext()) {
		t.Error("context should carry the expand span")
	}

	// Should not panic for either outcome
	FinishExpandSpan(span, 42, nil)

	_, span = StartExpandSpan(context.Background(), "div")
	FinishExpandSpan(span, 0, errors.New("too deep"))
}
