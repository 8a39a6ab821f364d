package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config holds configuration for the playground server.
type Config struct {
	// Network

	// Address is the TCP address to listen on.
	// Default: "localhost:8080".
	Address string

	// Timeouts

	// ReadHeaderTimeout bounds reading request headers.
	// Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// ReadTimeout bounds reading the whole request.
	// Default: 30 seconds.
	ReadTimeout time.Duration

	// WriteTimeout bounds writing a response. It does not apply to
	// hijacked live connections.
	// Default: 30 seconds.
	WriteTimeout time.Duration

	// IdleTimeout bounds keep-alive connections.
	// Default: 120 seconds.
	IdleTimeout time.Duration

	// ShutdownTimeout is the grace period for in-flight requests.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// Limits

	// MaxBodyBytes caps JSON request bodies.
	// Default: 1MB.
	MaxBodyBytes int64

	// MaxMessageSize caps a single live frame.
	// Default: 64KB.
	MaxMessageSize int64

	// Observability

	// MetricsPath serves Prometheus metrics when non-empty.
	MetricsPath string

	// Registry receives the request metrics and backs the metrics
	// endpoint. Default: prometheus.DefaultRegisterer/DefaultGatherer.
	Registry *prometheus.Registry

	// Tracing wraps every request in an OpenTelemetry span.
	Tracing bool

	// Security

	// AllowedOrigins lists extra origins accepted for live connections.
	// Same-origin requests are always accepted.
	AllowedOrigins []string

	// CheckOrigin overrides the live connection origin check.
	// Default: AllowOrigins(AllowedOrigins).
	CheckOrigin func(r *http.Request) bool

	// Logger is the structured logger for the server.
	// Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           "localhost:8080",
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		MaxBodyBytes:      1 << 20, // 1MB
		MaxMessageSize:    64 * 1024,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	out := DefaultConfig()
	if c == nil {
		out.CheckOrigin = AllowOrigins(nil)
		out.Logger = slog.Default()
		return out
	}

	merged := *c
	if merged.Address == "" {
		merged.Address = out.Address
	}
	if merged.ReadHeaderTimeout == 0 {
		merged.ReadHeaderTimeout = out.ReadHeaderTimeout
	}
	if merged.ReadTimeout == 0 {
		merged.ReadTimeout = out.ReadTimeout
	}
	if merged.WriteTimeout == 0 {
		merged.WriteTimeout = out.WriteTimeout
	}
	if merged.IdleTimeout == 0 {
		merged.IdleTimeout = out.IdleTimeout
	}
	if merged.ShutdownTimeout == 0 {
		merged.ShutdownTimeout = out.ShutdownTimeout
	}
	if merged.MaxBodyBytes == 0 {
		merged.MaxBodyBytes = out.MaxBodyBytes
	}
	if merged.MaxMessageSize == 0 {
		merged.MaxMessageSize = out.MaxMessageSize
	}
	if merged.CheckOrigin == nil {
		merged.CheckOrigin = AllowOrigins(merged.AllowedOrigins)
	}
	if merged.Logger == nil {
		merged.Logger = slog.Default()
	}
	return &merged
}

// SameOriginCheck accepts requests without an Origin header and requests
// whose Origin host matches the Host header.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// curl, CLI clients and same-origin navigations
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := r.Host
	if host == "" {
		return false
	}

	// Host includes the port when present
	return originURL.Host == host
}

// AllowOrigins returns an origin check that accepts same-origin requests
// and any origin in allowed. An entry of "*" accepts every origin.
func AllowOrigins(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[strings.TrimSuffix(strings.ToLower(o), "/")] = true
	}

	return func(r *http.Request) bool {
		if SameOriginCheck(r) {
			return true
		}
		if set["*"] {
			return true
		}
		return set[strings.ToLower(r.Header.Get("Origin"))]
	}
}
