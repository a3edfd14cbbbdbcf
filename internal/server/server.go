// Package server wires the stores, services, and handlers together and
// owns the HTTP server lifecycle. This is the composition root: every
// dependency is assembled here and nowhere else.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/codespark/internal/clipboard"
	"github.com/sakif/codespark/internal/handler"
	"github.com/sakif/codespark/internal/middleware"
	"github.com/sakif/codespark/internal/repository"
	"github.com/sakif/codespark/internal/repository/memory"
	sqliteRepo "github.com/sakif/codespark/internal/repository/sqlite"
	"github.com/sakif/codespark/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port             int
	DBPath           string
	InMemory         bool   // use the in-memory store instead of sqlite
	DefaultLibraryID string // library used when Create gets no explicit one
}

// stores is the set of ports the services need, regardless of backend.
type stores interface {
	repository.SnippetRepository
	repository.LibraryRepository
	repository.PreferencesRepository
}

// Server owns the router and the store it was built on.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB // nil in in-memory mode
}

// New creates a Server with the full dependency chain assembled:
// store → services → handlers → routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}

	var store stores
	if cfg.InMemory {
		store = memory.New()
	} else {
		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		s.db = db
		store = db
	}

	s.setupRoutes(store)
	return s, nil
}

// setupRoutes builds the services against the chosen store and mounts
// every route. The handlers only ever see service types, the services
// only ever see the repository interfaces.
func (s *Server) setupRoutes(store stores) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	topService := service.NewTopSnippetsService(store, nil)
	searchService := service.NewSearchService(store, s.logger,
		service.WithEmptyQueryStrategy(topService.Strategy()))
	snippetService := service.NewSnippetService(store, store, clipboard.System{}, s.logger,
		service.WithDefaultLibrary(s.config.DefaultLibraryID))
	libraryService := service.NewLibraryService(store, store, s.logger)
	prefsService := service.NewPreferencesService(store)

	snippetHandler := handler.NewSnippetHandler(searchService, topService, snippetService, s.logger)
	libraryHandler := handler.NewLibraryHandler(libraryService, s.logger)
	prefsHandler := handler.NewPreferencesHandler(prefsService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/snippets", snippetHandler.HandleSearch)
		r.Get("/snippets/suggestions", snippetHandler.HandleSuggestions)
		r.Post("/snippets", snippetHandler.HandleCreate)
		r.Get("/snippets/{id}", snippetHandler.HandleGetByID)
		r.Put("/snippets/{id}", snippetHandler.HandleUpdate)
		r.Delete("/snippets/{id}", snippetHandler.HandleDelete)
		r.Post("/snippets/{id}/copy", snippetHandler.HandleCopy)

		r.Get("/libraries", libraryHandler.HandleList)
		r.Get("/libraries/active", libraryHandler.HandleGetActive)
		r.Put("/libraries/active", libraryHandler.HandleSwitchActive)

		r.Get("/preferences", prefsHandler.HandleGet)
		r.Put("/preferences", prefsHandler.HandleSave)
	})
}

// Router exposes the mux, mainly so tests can drive it with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests, and
// finally close the database so the WAL is flushed.
func (s *Server) Start() error {
	if s.db != nil {
		defer s.db.Close()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.Bool("inMemory", s.config.InMemory),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
