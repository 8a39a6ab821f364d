// Package middleware provides observability middleware for the playground
// server.
//
// This package includes:
//   - Prometheus metrics middleware and expansion recorders
//   - OpenTelemetry tracing middleware and expansion spans
//
// Both middlewares are plain func(http.Handler) http.Handler values and
// plug into a chi router with Use. Route labels come from the chi route
// pattern, so they must run inside the router.
//
// # Prometheus Metrics
//
//	r := chi.NewRouter()
//	r.Use(middleware.Prometheus())
//	r.Handle("/metrics", promhttp.Handler())
//
// Expansion outcomes and live client counts are reported by the server
// through RecordExpansion and RecordLiveClient.
//
// # OpenTelemetry
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("playground"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// Handlers inherit the request span through r.Context(); expansions add a
// child span with StartExpandSpan.
package middleware
