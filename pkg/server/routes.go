package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Jboschlagos/Emmet-Cloude/pkg/middleware"
)

// routes builds the playground router.
//
//	GET    /healthz
//	GET    /api/expand?abbr=
//	POST   /api/expand
//	GET    /api/lorem/{n}
//	GET    /api/snippets
//	POST   /api/snippets
//	GET    /api/snippets/{id}
//	DELETE /api/snippets/{id}
//	GET    /ws
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	if s.config.MetricsPath != "" {
		r.Use(middleware.Prometheus(middleware.WithRegistry(s.registerer())))
	}
	if s.config.Tracing {
		r.Use(middleware.OpenTelemetry(
			middleware.WithRequestFilter(func(r *http.Request) bool {
				return r.URL.Path != s.config.MetricsPath
			}),
		))
	}

	if s.config.MetricsPath != "" {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.gatherer(), promhttp.HandlerOpts{}))
	}
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/expand", s.handleExpandQuery)
		r.Post("/expand", s.handleExpandBody)
		r.Get("/lorem/{n}", s.handleLorem)

		r.Route("/snippets", func(r chi.Router) {
			r.Get("/", s.handleListSnippets)
			r.Post("/", s.handleCreateSnippet)
			r.Get("/{id}", s.handleGetSnippet)
			r.Delete("/{id}", s.handleDeleteSnippet)
		})
	})

	r.Get("/ws", s.live.HandleWebSocket)

	return r
}

func (s *Server) registerer() prometheus.Registerer {
	if s.config.Registry != nil {
		return s.config.Registry
	}
	return prometheus.DefaultRegisterer
}

func (s *Server) gatherer() prometheus.Gatherer {
	if s.config.Registry != nil {
		return s.config.Registry
	}
	return prometheus.DefaultGatherer
}
