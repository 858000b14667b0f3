package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"troffee-auctioneer/internal/config"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server hosts the JSON API
type Server struct {
	httpServer *http.Server
	logger     zerolog.Logger
}

type ServerParams struct {
	Config  *config.Config
	Handler *Handler
	Logger  zerolog.Logger
}

// NewServer creates a new API server
func NewServer(params ServerParams) *Server {
	logger := params.Logger.With().Str("component", "http_server").Logger()

	router := chi.NewRouter()
	router.Use(RequestLogger(logger))
	router.Use(Metrics)
	router.Use(RateLimiter(params.Config.RateLimit.RPS, params.Config.RateLimit.Burst))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Group(params.Handler.Routes)

	return &Server{
		httpServer: &http.Server{
			Addr:              net.JoinHostPort(params.Config.Server.Host, params.Config.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start runs the server until it is stopped
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
