package rest

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/fortuna/retroload/internal/config"
	"github.com/fortuna/retroload/internal/store"
)

// Server represents the REST API server
type Server struct {
	bind    string
	server  *http.Server
	handler *Handler
	logger  *slog.Logger
}

// NewServer creates a read-only REST API server over db. cache may be nil.
func NewServer(cfg config.API, db *store.Database, cache DocumentCache, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	handler := NewHandler(db, cache, logger)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(recoveryMiddleware(logger))
	router.Use(loggingMiddleware(logger))

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Games
	api.HandleFunc("/games", handler.GetGames).Methods("GET")
	api.HandleFunc("/games/{gameID}", handler.GetGame).Methods("GET")

	// Teams and rosters
	api.HandleFunc("/teams", handler.GetTeams).Methods("GET")
	api.HandleFunc("/rosters/{team}/{year}", handler.GetRoster).Methods("GET")

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	return &Server{
		bind:    cfg.Bind,
		handler: handler,
		logger:  logger,
		server: &http.Server{
			Addr:         cfg.Bind,
			Handler:      c.Handler(router),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Handler returns the routed HTTP handler, CORS included.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.bind)
	if err != nil {
		return err
	}
	s.logger.Info("api listening", "addr", ln.Addr().String())
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
