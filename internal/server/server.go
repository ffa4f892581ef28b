// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer. It connects handlers, middleware, and
// routes, and it owns the lifecycle of the HTTP listener.
//
// DEPENDENCY INJECTION FLOW:
// main.go opens the store and hands it to New:
//
//	repository.Store → UserService / OrderService / ExportService / Importer
//	                 → UserHandler / OrderHandler / TransferHandler
//
// This is the "composition root" pattern: all dependencies are wired in one
// place (NewRouter) instead of being scattered across the codebase.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/order-desk/internal/apperror"
	"github.com/sakif/order-desk/internal/config"
	"github.com/sakif/order-desk/internal/handler"
	"github.com/sakif/order-desk/internal/middleware"
	"github.com/sakif/order-desk/internal/repository"
	"github.com/sakif/order-desk/internal/service"
)

// Options configures the router.
type Options struct {
	CORSOrigins  []string
	MaxBodyBytes int64
}

// Server represents the HTTP server and its dependencies.
type Server struct {
	router http.Handler
	config config.ServerConfig
	logger *slog.Logger
}

// New creates a Server around store. The caller keeps ownership of store
// and closes it after Start returns.
func New(cfg *config.Config, store repository.Store, logger *slog.Logger) *Server {
	return &Server{
		router: NewRouter(store, logger, Options{
			CORSOrigins:  cfg.HTTP.CORSOrigins,
			MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		}),
		config: cfg.Server,
		logger: logger,
	}
}

// NewRouter builds the full HTTP handler for store.
//
// ROUTE STRUCTURE:
// GET    /health               → store ping
// POST   /users                → create user
// GET    /users                → paginated users (?page, ?limit, ?q)
// GET    /users/{id}/orders    → all orders of one user
// DELETE /users/{id}           → delete user and their orders
// POST   /orders               → create order
// GET    /orders               → paginated orders with user summary
// GET    /export/{users|orders|all}
// POST   /import/{users|orders}
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID: assigns an ID every later log line carries
// 2. RealIP: extracts the client IP from proxy headers
// 3. Logger: one line per request, including recovered panics
// 4. Recoverer: turns panics into a JSON 500
// 5. CORS: answers preflights before routing
// 6. RequestSize: caps request bodies
func NewRouter(store repository.Store, logger *slog.Logger, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.CORS(opts.CORSOrigins))
	if opts.MaxBodyBytes > 0 {
		r.Use(chimiddleware.RequestSize(opts.MaxBodyBytes))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handler.WriteErrorCode(w, http.StatusNotFound, apperror.CodeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handler.WriteErrorCode(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	// The handler never touches the store directly and the services never
	// touch HTTP.
	users := handler.NewUserHandler(service.NewUserService(store, logger), logger)
	orders := handler.NewOrderHandler(service.NewOrderService(store, logger), logger)
	transfer := handler.NewTransferHandler(
		service.NewExportService(store, logger),
		service.NewImporter(store, logger),
		logger,
	)
	health := handler.NewHealthHandler(store, logger)

	r.Get("/health", health.HandleHealth)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", users.HandleCreate)
		r.Get("/", users.HandleList)
		r.Delete("/{id:[0-9]+}", users.HandleDelete)
		r.Get("/{id:[0-9]+}/orders", users.HandleOrders)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orders.HandleCreate)
		r.Get("/", orders.HandleList)
	})

	r.Route("/export", func(r chi.Router) {
		r.Get("/users", transfer.HandleExportUsers)
		r.Get("/orders", transfer.HandleExportOrders)
		r.Get("/all", transfer.HandleExportAll)
	})

	r.Route("/import", func(r chi.Router) {
		r.Post("/users", transfer.HandleImportUsers)
		r.Post("/orders", transfer.HandleImportOrders)
	})

	return r
}

// Start runs the HTTP server until it fails or the process receives SIGINT
// or SIGTERM.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new connections
// 2. Wait up to ShutdownTimeout for in-flight requests
// 3. Return, so the caller can close the store
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting", slog.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
