package bootstrap

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"screener-backend/internal/analyses"
	"screener-backend/internal/llm"
	"screener-backend/internal/llm/gemini"
	"screener-backend/internal/llm/openrouter"
	"screener-backend/internal/services/health"
	"screener-backend/internal/shared/config"
	"screener-backend/internal/shared/server"
	"screener-backend/internal/shared/telemetry"
)

// App holds shared dependencies. Fields stay exported so tests can swap
// implementations before serving.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	LLM             llm.Client
	Sessions        *analyses.SessionStore
	Health          *health.Service
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	llmClient, err := buildLLM(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	sessions := analyses.NewSessionStore()
	analysisSvc := &analyses.Service{
		Sessions:        sessions,
		LLM:             llmClient,
		Provider:        cfg.LLMProvider,
		Model:           cfg.LLMModel,
		MaxExcerptChars: cfg.MaxExcerptChars,
	}

	app := &App{
		Config:          cfg,
		LLM:             llmClient,
		Sessions:        sessions,
		Health:          health.NewService(cfg.LLMProvider, cfg.LLMModel),
		AnalysesService: analysisSvc,
		AnalysisHandler: analyses.NewHandler(analysisSvc),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		Health:          app.Health,
		AnalysisHandler: app.AnalysisHandler,
	})

	return app, nil
}

// buildLLM selects the provider client. A missing API key is not a boot
// failure: the placeholder client reports it per request instead.
func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	timeout := time.Duration(cfg.LLMTimeoutSeconds) * time.Second
	switch cfg.LLMProvider {
	case "gemini":
		apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		if apiKey == "" {
			warnNotConfigured(cfg.LLMProvider)
			return llm.PlaceholderClient{}, nil
		}
		return gemini.NewClient(ctx, apiKey, cfg.LLMModel, timeout)
	default:
		apiKey := strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY"))
		if apiKey == "" {
			warnNotConfigured(cfg.LLMProvider)
			return llm.PlaceholderClient{}, nil
		}
		return openrouter.NewClient(apiKey, cfg.LLMModel, timeout)
	}
}

func warnNotConfigured(provider string) {
	telemetry.Warn("bootstrap.llm", map[string]any{
		"provider": provider,
		"status":   "not_configured",
	})
}
