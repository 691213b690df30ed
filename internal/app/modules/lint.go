package modules

import (
	"context"
	"fmt"

	"github.com/seola0114/ux-writing-plugin/internal/aibridge"
	"github.com/seola0114/ux-writing-plugin/internal/api/handlers"
	"github.com/seola0114/ux-writing-plugin/internal/classify"
	"github.com/seola0114/ux-writing-plugin/internal/domain"
	"github.com/seola0114/ux-writing-plugin/internal/service"
	"github.com/seola0114/ux-writing-plugin/internal/spellcheck"
)

// LintModule wires the scan/apply/spellcheck service.
type LintModule struct {
	svc *service.Service
}

// NewLintModule creates the lint service. The spell checker fans out on the
// backend pool.
func NewLintModule(infra *Infrastructure, bridge *aibridge.Bridge) (*LintModule, error) {
	cfg := infra.Config
	classifier := classify.New(classify.Options{DangerRedNibbleMin: cfg.Classify.DangerRedNibbleMin})

	checker, err := spellcheck.New(spellcheck.Options{
		Endpoint:  cfg.Spellcheck.Endpoint,
		Timeout:   cfg.Spellcheck.Timeout,
		Cooldown:  cfg.Spellcheck.Cooldown,
		CacheSize: cfg.Spellcheck.CacheSize,
	}, infra.Pools.Backend, infra.Engine)
	if err != nil {
		return nil, fmt.Errorf("init spell checker: %w", err)
	}

	return &LintModule{svc: service.New(infra.Rules, classifier, bridge, checker)}, nil
}

func (m *LintModule) Name() string { return "lint" }

// Service returns the lint service.
func (m *LintModule) Service() *service.Service { return m.svc }

func (m *LintModule) ContributeServerDeps(deps *handlers.ServerDeps) {
	if deps == nil {
		return
	}
	deps.Service = m.svc
}

func (m *LintModule) RegisterHandlers(d *domain.Dispatcher) {
	m.svc.Register(d)
}

func (m *LintModule) Shutdown(context.Context) error { return nil }
