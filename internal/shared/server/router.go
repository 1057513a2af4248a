package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"screener-backend/internal/analyses"
	"screener-backend/internal/services/health"
	"screener-backend/internal/shared/config"
	"screener-backend/internal/shared/metrics"
	"screener-backend/internal/shared/server/middleware"
	"screener-backend/internal/shared/server/respond"
)

// Rate limit groups. Analyses call the LLM provider, so they get a tighter
// limit than plain reads.
const (
	rateGroupDefault = "DEFAULT"
	rateGroupAnalyze = "ANALYZE"
)

// RouterDeps carries the wired handlers the router registers.
type RouterDeps struct {
	Config          config.Config
	Health          *health.Service
	AnalysisHandler *analyses.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(rateLimitConfig()),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Status())
	})
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}

	internal := r.Group("/internal")
	internal.GET("/metrics", metrics.Handler())

	return r
}

func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			rateGroupDefault: {Rate: 10, Burst: 20},
			rateGroupAnalyze: {Rate: 0.5, Burst: 3},
		},
		DefaultGroup: rateGroupDefault,
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && strings.HasSuffix(c.Request.URL.Path, "/analyses") {
				return rateGroupAnalyze
			}
			return rateGroupDefault
		},
	}
}

// Addr returns a normalized listen address for the given port.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
