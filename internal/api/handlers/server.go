// Package handlers implements the HTTP and websocket surface of the lint
// service. Route registration lives in the app router; handlers do not
// register their own routes.
package handlers

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/seola0114/ux-writing-plugin/internal/aibridge"
	"github.com/seola0114/ux-writing-plugin/internal/domain"
	"github.com/seola0114/ux-writing-plugin/internal/pkg/worker"
	"github.com/seola0114/ux-writing-plugin/internal/service"
)

// Server holds the handler dependencies.
type Server struct {
	svc        *service.Service
	dispatcher *domain.Dispatcher
	lintAI     aibridge.Backend
	pools      *worker.Pools
	upgrader   websocket.Upgrader
	pingPeriod time.Duration
}

// ServerDeps holds all dependencies for creating a Server.
type ServerDeps struct {
	Service    *service.Service
	Dispatcher *domain.Dispatcher
	// LintAI answers /lint-ai. Nil means the local rule backend.
	LintAI aibridge.Backend
	// Pools runs websocket tasks. Nil runs them on their own goroutines.
	Pools *worker.Pools
	// CheckOrigin decides websocket origins. Nil accepts every origin.
	CheckOrigin func(origin string) bool
}

// NewServer creates a new Server with all dependencies.
func NewServer(deps ServerDeps) *Server {
	svc := deps.Service
	if svc == nil {
		svc = service.New(nil, nil, nil, nil)
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = domain.NewDispatcher()
		svc.Register(dispatcher)
	}
	lintAI := deps.LintAI
	if lintAI == nil {
		lintAI = aibridge.NewLocalBackend(svc.Engine)
	}
	return &Server{
		svc:        svc,
		dispatcher: dispatcher,
		lintAI:     lintAI,
		pools:      deps.Pools,
		upgrader:   newUpgrader(deps.CheckOrigin),
		pingPeriod: defaultPingPeriod,
	}
}
