package modules

import (
	"github.com/seola0114/ux-writing-plugin/internal/api/handlers"
	"github.com/seola0114/ux-writing-plugin/internal/domain"
)

// NewServerDeps builds base server deps then lets each module contribute
// explicit wiring. Message handlers are registered on one shared dispatcher.
func NewServerDeps(infra *Infrastructure, mods []Module, checkOrigin func(string) bool) handlers.ServerDeps {
	dispatcher := domain.NewDispatcher()
	deps := handlers.ServerDeps{
		Dispatcher:  dispatcher,
		Pools:       infra.Pools,
		CheckOrigin: checkOrigin,
	}
	for _, mod := range mods {
		if mod == nil {
			continue
		}
		if contributor, ok := mod.(ServerDepsContributor); ok {
			contributor.ContributeServerDeps(&deps)
		}
		if registrar, ok := mod.(MessageHandlerRegistrar); ok {
			registrar.RegisterHandlers(dispatcher)
		}
	}
	return deps
}
