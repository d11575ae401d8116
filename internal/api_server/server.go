package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/gemforge/cad-converter/internal/config"
	"github.com/gemforge/cad-converter/internal/handlers"
	"github.com/gemforge/cad-converter/pkg/log"
	"github.com/gemforge/cad-converter/pkg/metrics"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

var (
	metricMiddleware    = metrics.NewMiddleware("api_server")
	registerMetricsOnce sync.Once
)

type Server struct {
	cfg       *config.Config
	converter handlers.Converter
	listener  net.Listener
}

// New returns a new instance of the cad-converter API server.
func New(
	cfg *config.Config,
	converter handlers.Converter,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:       cfg,
		converter: converter,
		listener:  listener,
	}
}

// NewRouter wires the conversion handler with the middleware chain. The cors
// middleware runs in passthrough mode so the explicit Options route can
// answer preflight requests with 204.
func NewRouter(converter handlers.Converter) http.Handler {
	router := chi.NewRouter()

	registerMetricsOnce.Do(metricMiddleware.MustRegisterDefault)

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:     []string{"*"},
			AllowedMethods:     []string{"POST", "OPTIONS"},
			AllowedHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
			MaxAge:             300,
			OptionsPassthrough: true,
		}),
		chiMiddleware.RequestID,
		log.Logger(zap.L(), "router"),
		chiMiddleware.Recoverer,
	)

	h := handlers.NewConversionHandler(converter)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Route("/api/v1/conversions", func(r chi.Router) {
		r.Post("/generate", h.Convert)
		r.Options("/generate", h.Preflight)
	})

	return router
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: NewRouter(s.converter)}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
