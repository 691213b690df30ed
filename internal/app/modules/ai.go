package modules

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/seola0114/ux-writing-plugin/internal/aibridge"
	"github.com/seola0114/ux-writing-plugin/internal/api/handlers"
	"github.com/seola0114/ux-writing-plugin/internal/pkg/logger"
)

// AIModule wires the AI suggestion backend and bridge.
type AIModule struct {
	backend aibridge.Backend
	local   *aibridge.LocalBackend
	bridge  *aibridge.Bridge
}

// NewAIModule builds the configured provider and its local fallback.
func NewAIModule(ctx context.Context, infra *Infrastructure) (*AIModule, error) {
	cfg := infra.Config.AI
	local := aibridge.NewLocalBackend(infra.Engine)
	backend, err := aibridge.NewBackend(ctx, aibridge.Options{
		Provider: cfg.Provider,
		Endpoint: cfg.Endpoint,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		Timeout:  cfg.Timeout,
	}, local)
	if err != nil {
		return nil, fmt.Errorf("init ai backend: %w", err)
	}
	logger.Info("AI backend ready", zap.String("provider", backend.Name()))

	return &AIModule{
		backend: backend,
		local:   local,
		bridge:  aibridge.NewBridge(backend, local, cfg.Timeout),
	}, nil
}

func (m *AIModule) Name() string { return "ai" }

// Bridge returns the suggestion bridge.
func (m *AIModule) Bridge() *aibridge.Bridge { return m.bridge }

// ContributeServerDeps serves /lint-ai from a model provider. An http
// provider may point back at this service, so it is answered locally.
func (m *AIModule) ContributeServerDeps(deps *handlers.ServerDeps) {
	if deps == nil {
		return
	}
	if _, ok := m.backend.(*aibridge.ModelBackend); ok {
		deps.LintAI = m.backend
		return
	}
	deps.LintAI = m.local
}

func (m *AIModule) Shutdown(context.Context) error { return nil }
