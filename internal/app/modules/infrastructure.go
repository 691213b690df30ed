package modules

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/seola0114/ux-writing-plugin/internal/config"
	"github.com/seola0114/ux-writing-plugin/internal/lint"
	"github.com/seola0114/ux-writing-plugin/internal/pkg/logger"
	"github.com/seola0114/ux-writing-plugin/internal/pkg/worker"
	"github.com/seola0114/ux-writing-plugin/internal/rules"
)

// Infrastructure holds shared cross-cutting dependencies for all modules.
// It is a provider, not a Module.
type Infrastructure struct {
	Config *config.Config
	Pools  *worker.Pools
	Rules  *rules.Store
}

// NewInfrastructure initializes the worker pools and the rule store. The
// rule table is loaded eagerly; a failed load is retried on first use.
func NewInfrastructure(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	pools, err := worker.NewPools(ctx, worker.PoolConfig{
		GeneralPoolSize: cfg.Worker.GeneralPoolSize,
		BackendPoolSize: cfg.Worker.BackendPoolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("init worker pools: %w", err)
	}

	store := rules.NewStore(cfg.Rules.Source())
	if _, err := store.EnsureLoaded(); err != nil {
		logger.Warn("Starting with the empty rule table", zap.Error(err))
	}

	return &Infrastructure{
		Config: cfg,
		Pools:  pools,
		Rules:  store,
	}, nil
}

// Engine returns a lint engine over the current rule table.
func (i *Infrastructure) Engine() *lint.Engine {
	return lint.New(i.Rules.Table())
}

// Close releases infra resources.
func (i *Infrastructure) Close() {
	if i == nil {
		return
	}
	if i.Pools != nil {
		i.Pools.Shutdown()
	}
}
