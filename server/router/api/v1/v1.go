package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/semaphore"

	"github.com/hmztgr/smartdocs/internal/profile"
	"github.com/hmztgr/smartdocs/plugin/ai"
	"github.com/hmztgr/smartdocs/plugin/markdown"
	"github.com/hmztgr/smartdocs/server/internal/observability"
	"github.com/hmztgr/smartdocs/server/middleware"
	"github.com/hmztgr/smartdocs/server/planner"
	"github.com/hmztgr/smartdocs/store"
)

// APIV1Service wires the REST surface: auth, the advanced-conversation
// flow, document generation, listings and operator metrics.
type APIV1Service struct {
	Secret  string
	Profile *profile.Profile
	Store   *store.Store

	LLMService ai.LLMService
	Renderer   *markdown.Renderer

	extractor     planner.Extractor
	scorer        *planner.Scorer
	promptBuilder *planner.PromptBuilder

	chatLimiter *middleware.RateLimiter
	// llmSemaphore bounds in-flight model calls across all requests.
	llmSemaphore *semaphore.Weighted

	logger *slog.Logger
}

// NewAPIV1Service assembles the API service. The LLM client is only
// constructed when the profile carries AI configuration; without it the chat
// endpoint degrades to the localized fallback path.
func NewAPIV1Service(secret string, prof *profile.Profile, st *store.Store, logger *slog.Logger) *APIV1Service {
	if logger == nil {
		logger = slog.Default()
	}

	service := &APIV1Service{
		Secret:        secret,
		Profile:       prof,
		Store:         st,
		Renderer:      markdown.NewRenderer(),
		extractor:     planner.NewKeywordExtractor(),
		scorer:        planner.NewScorer(),
		promptBuilder: planner.NewPromptBuilder(),
		chatLimiter:   middleware.NewChatRateLimiter(),
		llmSemaphore:  semaphore.NewWeighted(maxConcurrent(prof)),
		logger:        logger,
	}

	if prof.IsAIEnabled() {
		cfg := ai.NewConfigFromProfile(prof)
		if err := cfg.Validate(); err != nil {
			logger.Warn("model config invalid, chat will use fallback responses", "error", err)
		} else if llm, err := ai.NewLLMService(cfg); err != nil {
			logger.Warn("failed to create model client", "error", err)
		} else {
			service.LLMService = llm
		}
	}

	return service
}

func maxConcurrent(prof *profile.Profile) int64 {
	if prof.AIMaxConcurrent > 0 {
		return prof.AIMaxConcurrent
	}
	return 8
}

// RegisterRoutes attaches all HTTP routes to the echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.POST("/api/v1/auth/signup", s.Signup)
	e.POST("/api/v1/auth/login", s.Login)

	authed := e.Group("", s.authMiddleware)
	authed.POST("/api/chat/advanced-conversation", s.AdvancedConversation)
	authed.GET("/api/v1/conversations", s.ListConversations)
	authed.GET("/api/v1/conversations/:uid/messages", s.ListConversationMessages)
	authed.POST("/api/v1/documents/generate", s.GenerateDocument)
	authed.GET("/api/v1/metrics", s.GetMetrics)
}

// GetMetrics returns the in-process counters for operators.
func (s *APIV1Service) GetMetrics(c echo.Context) error {
	return c.JSON(http.StatusOK, observability.GlobalMetrics().Snapshot())
}
