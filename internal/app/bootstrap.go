// Package app is the composition root. Bootstrap wires modules and returns a
// ready router; it holds no request logic.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seola0114/ux-writing-plugin/internal/api/handlers"
	"github.com/seola0114/ux-writing-plugin/internal/api/middleware"
	"github.com/seola0114/ux-writing-plugin/internal/app/modules"
	"github.com/seola0114/ux-writing-plugin/internal/config"
	"github.com/seola0114/ux-writing-plugin/internal/pkg/worker"
	"github.com/seola0114/ux-writing-plugin/internal/rules"
)

// Application holds composed application dependencies.
type Application struct {
	Config  *config.Config
	Router  *gin.Engine
	Rules   *rules.Store
	Pools   *worker.Pools
	Modules []modules.Module
}

// Bootstrap initializes all dependencies using module-oriented manual DI.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Application, error) {
	infra, err := modules.NewInfrastructure(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init infrastructure: %w", err)
	}

	aiModule, err := modules.NewAIModule(ctx, infra)
	if err != nil {
		infra.Close()
		return nil, fmt.Errorf("init ai module: %w", err)
	}
	lintModule, err := modules.NewLintModule(infra, aiModule.Bridge())
	if err != nil {
		infra.Close()
		return nil, fmt.Errorf("init lint module: %w", err)
	}

	allModules := []modules.Module{aiModule, lintModule}
	serverDeps := modules.NewServerDeps(infra, allModules, originChecker(cfg))
	server := handlers.NewServer(serverDeps)

	jwtCfg := middleware.JWTConfig{
		SigningKey: []byte(cfg.Security.JWTSigningKey),
		Issuer:     cfg.Security.JWTIssuer,
		ExpiresIn:  24 * time.Hour,
	}

	return &Application{
		Config:  cfg,
		Router:  newRouter(cfg, server, jwtCfg),
		Rules:   infra.Rules,
		Pools:   infra.Pools,
		Modules: allModules,
	}, nil
}
