// Package modules contains the dependency modules of the composition root.
package modules

import (
	"context"

	"github.com/seola0114/ux-writing-plugin/internal/api/handlers"
	"github.com/seola0114/ux-writing-plugin/internal/domain"
)

// Module represents a dependency unit in the composition root.
type Module interface {
	// Name returns a stable module identifier for logging.
	Name() string

	// Shutdown performs module-local graceful cleanup.
	Shutdown(context.Context) error
}

// ServerDepsContributor injects module-owned dependencies into the HTTP server deps.
type ServerDepsContributor interface {
	ContributeServerDeps(*handlers.ServerDeps)
}

// MessageHandlerRegistrar installs operator-panel message handlers.
type MessageHandlerRegistrar interface {
	RegisterHandlers(*domain.Dispatcher)
}
