// Package server implements the live abbreviation playground.
//
// The server exposes a small JSON API over a chi router and a WebSocket
// channel for as-you-type expansion:
//
//	GET    /healthz               liveness probe
//	POST   /api/expand            {"abbreviation": "..."} -> {"markup": "..."}
//	GET    /api/expand?abbr=...   same, for quick links
//	GET    /api/lorem/{n}         n words of placeholder text
//	POST   /api/snippets          expand and store a snippet
//	GET    /api/snippets          list snippets, newest first
//	GET    /api/snippets/{id}     fetch one snippet
//	DELETE /api/snippets/{id}     delete one snippet
//	GET    /ws                    live channel
//
// Every text frame sent on the live channel is an abbreviation. The reply
// is a LiveMessage whose type is "markup", "empty" for blank input, or
// "error" with emmet.UnrecognizedHint as markup. Errors never end the
// session.
//
// Failures on the JSON API are reported as
//
//	{"error": {"code": "E004", "category": "limit", "message": "..."}, "hint": "..."}
//
// # Usage
//
//	srv := server.New(&server.Config{Address: ":8080"}, emmet.New(), store)
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	if err := srv.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// Request metrics are collected when Config.MetricsPath is set and each
// request is traced when Config.Tracing is enabled. See package middleware.
package server
