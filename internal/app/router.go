package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/seola0114/ux-writing-plugin/internal/api/handlers"
	"github.com/seola0114/ux-writing-plugin/internal/api/middleware"
	"github.com/seola0114/ux-writing-plugin/internal/config"
	"github.com/seola0114/ux-writing-plugin/internal/pkg/logger"
)

// Public routes that do NOT require JWT authentication.
var publicPrefixes = []string{
	"/api/v1/health/",
}

// defaultOrigins is used when no origin is configured. Plugin iframes are
// served from an opaque origin and send "null".
var defaultOrigins = []string{"null", "https://www.figma.com"}

func newRouter(cfg *config.Config, server *handlers.Server, jwtCfg middleware.JWTConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.ErrorHandler())
	router.Use(cors.New(buildCORSConfig(cfg)))

	// Runtime log level: GET reports it, PUT {"level":"debug"} changes it.
	router.GET("/log/level", gin.WrapH(logger.LevelHandler()))
	router.PUT("/log/level", gin.WrapH(logger.LevelHandler()))

	v1 := router.Group("/api/v1")
	v1.Use(jwtSkipPublic(jwtCfg))
	v1.Use(middleware.MustOpenAPIValidator("/api/v1"))

	v1.GET("/health/live", server.GetLiveness)
	v1.GET("/health/ready", server.GetReadiness)
	v1.POST("/scan", server.PostScan)
	v1.POST("/apply", server.PostApply)
	v1.POST("/ai-suggest", server.PostAISuggest)
	v1.POST("/spellcheck", server.PostSpellcheck)
	v1.POST("/lint-ai", server.PostLintAI)
	v1.POST("/messages", server.PostMessage)
	v1.POST("/rules/reload", server.PostRulesReload)
	v1.GET("/ws", server.GetWebsocket)
	return router
}

// jwtSkipPublic returns middleware that applies JWT auth only on non-public routes.
func jwtSkipPublic(jwtCfg middleware.JWTConfig) gin.HandlerFunc {
	jwtMw := middleware.JWTAuth(jwtCfg)
	return func(c *gin.Context) {
		for _, prefix := range publicPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Next()
				return
			}
		}
		jwtMw(c)
	}
}

// buildCORSConfig translates server.cors_origins. "*" allows every origin
// and disables credentials. "null" cannot be listed in AllowOrigins, so it
// is matched by AllowOriginFunc.
func buildCORSConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	origins := corsOrigins(cfg)
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			c.AllowCredentials = false
			return c
		}
	}

	allowNull := false
	for _, o := range origins {
		if o == "null" {
			allowNull = true
			continue
		}
		c.AllowOrigins = append(c.AllowOrigins, o)
	}
	if allowNull {
		c.AllowOriginFunc = func(origin string) bool { return origin == "null" }
	}
	return c
}

// originChecker decides websocket upgrade origins with the same list as CORS.
// Requests without an Origin header come from non-browser clients.
func originChecker(cfg *config.Config) func(string) bool {
	allowed := make(map[string]struct{})
	for _, o := range corsOrigins(cfg) {
		if o == "*" {
			return func(string) bool { return true }
		}
		allowed[o] = struct{}{}
	}
	return func(origin string) bool {
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}

func corsOrigins(cfg *config.Config) []string {
	var out []string
	if cfg != nil {
		for _, o := range cfg.Server.CORSOrigins {
			o = strings.TrimRight(strings.TrimSpace(o), "/")
			if o != "" {
				out = append(out, o)
			}
		}
	}
	if len(out) == 0 {
		return defaultOrigins
	}
	return out
}
