package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/seola0114/ux-writing-plugin/internal/pkg/logger"
)

// Start checks that the rule table is usable. A failed load is logged and
// retried on first use, so it never stops the server.
func (a *Application) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if a.Rules == nil {
		return nil
	}
	if t, err := a.Rules.EnsureLoaded(); err != nil {
		logger.Warn("Rule table unavailable at startup", zap.Error(err))
	} else {
		stats := t.Stats()
		logger.Info("Rule table ready",
			zap.Int("terms", stats["terms"]),
			zap.Int("words", stats["words"]),
		)
	}
	return nil
}

// Shutdown gracefully shuts down all application components.
func (a *Application) Shutdown() {
	shutdownCtx := context.Background()

	for _, mod := range a.Modules {
		if mod == nil {
			continue
		}
		if err := mod.Shutdown(shutdownCtx); err != nil {
			logger.Warn("module shutdown returned error",
				zap.String("module", mod.Name()),
				zap.Error(err),
			)
		}
	}

	if a.Pools != nil {
		a.Pools.Shutdown()
	}
}
