package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/elimu-ai/elimu/config"
	"github.com/elimu-ai/elimu/pkg/auth"
	"github.com/elimu-ai/elimu/pkg/store"
	"github.com/elimu-ai/elimu/server/api"
	"github.com/elimu-ai/elimu/server/mcp"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	*config.Config
	http.Handler

	api *api.Handler
	mcp *mcp.Handler
}

func New(cfg *config.Config, store *store.Store, version string) (*Server, error) {
	apiHandler, err := api.New(cfg, store)

	if err != nil {
		return nil, err
	}

	mcpHandler, err := mcp.New(cfg, version)

	if err != nil {
		return nil, err
	}

	mux := chi.NewRouter()

	s := &Server{
		Config:  cfg,
		Handler: mux,

		api: apiHandler,
		mcp: mcpHandler,
	}

	mux.Use(middleware.Recoverer)

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.Route("/v1", func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Authorizers...))

		s.api.Attach(r)
		s.mcp.Attach(r)
	})

	return s, nil
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.Address,
		Handler: otelhttp.NewHandler(s.Handler, "elimu"),

		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)

	go func() {
		slog.Info("server listening", "address", s.Address)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	}
}
