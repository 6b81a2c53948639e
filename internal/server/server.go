package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"levelup/internal/app"
)

// Server exposes the document and progression operations to browser
// clients.
type Server struct {
	app    *app.App
	router *chi.Mux
	log    *slog.Logger
}

func New(a *app.App, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{app: a, log: log}
	s.setupRouter()
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/data", s.handleData)
		r.Post("/import", s.handleImport)
		r.Get("/export", s.handleExport)
		r.Get("/events", s.handleEvents)

		r.Route("/heroes/{heroID}", func(r chi.Router) {
			r.Post("/challenges/{challengeID}/toggle", s.handleToggle)
			r.Post("/rewards/auto-stat", s.handleAutoStat)
			r.Post("/rewards/claim", s.handleClaim)
			r.Post("/week-xp", s.handleWeekXP)
			r.Post("/events/{eventID}/defeat", s.handleDefeat)
			r.Post("/store/{itemID}/claim", s.handleStoreClaim)
		})
	})

	s.router = r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
