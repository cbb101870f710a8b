// Package router wires handlers and middleware into the HTTP mux.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/securo/securo-server/internal/api/http/handler"
	"github.com/securo/securo-server/internal/api/http/middleware"
	"github.com/securo/securo-server/internal/logger"
	"github.com/securo/securo-server/internal/model"
	"github.com/securo/securo-server/internal/service"
)

// Router assembles the HTTP route table for vault operations.
type Router struct {
	guardService   *service.Guard
	vaultService   *service.Vault
	sessionService *service.Session
	contextManager model.ContextManager
	version        string
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	guardService *service.Guard,
	vaultService *service.Vault,
	sessionService *service.Session,
	contextManager model.ContextManager,
	version string,
	logger *logger.Logger,
) *Router {
	return &Router{
		guardService:   guardService,
		vaultService:   vaultService,
		sessionService: sessionService,
		contextManager: contextManager,
		version:        version,
		logger:         logger,
	}
}

// Register builds the mux with logging and session middleware applied
// to every route. Authorization itself happens in the service layer,
// so gated and open routes share one chain.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	session := middleware.NewSession(r.sessionService, r.contextManager, r.logger)

	masterHandler := handler.NewMaster(r.guardService, r.sessionService, r.logger)
	vaultHandler := handler.NewVault(r.vaultService, r.version, r.logger)

	mux := chi.NewRouter()
	mux.Use(logging.Handle)
	mux.Use(session.Handle)

	mux.Post("/set-master", masterHandler.SetMaster)
	mux.Post("/unlock", masterHandler.Unlock)

	mux.Post("/add", vaultHandler.Add)
	mux.Get("/retrieve", vaultHandler.Retrieve)
	mux.Put("/rotate", vaultHandler.Rotate)
	mux.Delete("/delete", vaultHandler.Delete)
	mux.Get("/list", vaultHandler.List)
	mux.Get("/search", vaultHandler.Search)
	mux.Get("/export", vaultHandler.Export)
	mux.Post("/backup", vaultHandler.Backup)

	mux.Get("/health", vaultHandler.Health)

	return mux
}
