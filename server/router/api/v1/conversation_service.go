package v1

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/hmztgr/smartdocs/plugin/ai"
	pipeerrors "github.com/hmztgr/smartdocs/server/internal/errors"
	"github.com/hmztgr/smartdocs/server/internal/observability"
	"github.com/hmztgr/smartdocs/server/planner"
	"github.com/hmztgr/smartdocs/store"
)

const operationAdvancedConversation = "advanced-conversation"

// isGenuineResponse thresholds. Diagnostic only: a response that came back
// suspiciously fast is flagged, never rejected.
const (
	genuineTotalTimeMs = 500
	genuineModelTimeMs = 300
)

type historyTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type advancedConversationRequest struct {
	Message           string        `json:"message"`
	ConversationID    string        `json:"conversationId,omitempty"`
	PlanningSessionID string        `json:"planningSessionId,omitempty"`
	ProjectID         string        `json:"projectId,omitempty"`
	Country           string        `json:"country,omitempty"`
	Mode              string        `json:"mode,omitempty"`
	MessageHistory    []historyTurn `json:"messageHistory,omitempty"`
}

type processingMetrics struct {
	TotalTimeMs        int64  `json:"totalTimeMs"`
	AIProcessingTimeMs int64  `json:"aiProcessingTimeMs"`
	GeminiAPITimeMs    int64  `json:"geminiApiTimeMs"`
	ResponseLength     int    `json:"responseLength"`
	ResponseHash       string `json:"responseHash"`
	GeneratedAt        string `json:"generatedAt"`
	IsGenuineResponse  bool   `json:"isGenuineResponse"`
}

type advancedConversationResponse struct {
	Message             string            `json:"message"`
	ConversationID      string            `json:"conversationId"`
	CanGenerateDocument bool              `json:"canGenerateDocument"`
	PlanningSession     *planner.Session  `json:"planningSession"`
	DocumentTypes       []string          `json:"documentTypes"`
	CountryContext      string            `json:"countryContext"`
	ResearchFindings    []string          `json:"researchFindings"`
	PlanningStep        string            `json:"planningStep"`
	Confidence          int               `json:"confidence"`
	ProcessingMetrics   processingMetrics `json:"processingMetrics"`
}

// AdvancedConversation runs one planning turn: persist the user message,
// extract coverage, score confidence, call the model, decide readiness and
// write everything back. Model failures are absorbed into a localized
// fallback answer; only storage failures fail the request.
func (s *APIV1Service) AdvancedConversation(c echo.Context) error {
	start := time.Now()
	ctx := c.Request().Context()

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	if !s.chatLimiter.AllowUser(userID) {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "Too many requests"})
	}

	var req advancedConversationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Message is required"})
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Message is required"})
	}

	reqCtx := observability.NewRequestContext(s.logger, operationAdvancedConversation, userID)
	metrics := observability.GlobalMetrics()
	metrics.RecordRequest(operationAdvancedConversation)

	conversation, err := s.findOrCreateConversation(ctx, userID, &req)
	if err != nil {
		reqCtx.Error("failed to resolve conversation", pipeerrors.StorageFailed("resolve conversation", err))
		metrics.RecordFailure(operationAdvancedConversation)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to process advanced conversation"})
	}

	history, err := s.loadHistory(ctx, conversation, req.MessageHistory)
	if err != nil {
		reqCtx.Error("failed to load conversation history", pipeerrors.StorageFailed("load history", err))
		metrics.RecordFailure(operationAdvancedConversation)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to process advanced conversation"})
	}

	now := time.Now().Unix()
	if _, err := s.Store.CreateMessage(ctx, &store.Message{
		UID:            shortuuid.New(),
		ConversationID: conversation.ID,
		Role:           store.MessageRoleUser,
		Content:        req.Message,
		CreatedTs:      now,
	}); err != nil {
		reqCtx.Error("failed to persist user message", err)
		metrics.RecordFailure(operationAdvancedConversation)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to process advanced conversation"})
	}

	language := planner.DetectLanguage(req.Message)
	info := s.extractor.Analyze(history, req.Message)
	confidence := s.scorer.Score(info, history, req.Message)

	metadata := store.DecodeConversationMetadata(conversation.Metadata)
	country := req.Country
	if country == "" {
		country = metadata.Country
	}
	sessionID := req.PlanningSessionID
	if sessionID == "" {
		sessionID = metadata.PlanningSessionID
	}
	if sessionID == "" {
		sessionID = "ps-" + shortuuid.New()
	}

	// Best-effort context read: a failed project lookup degrades to no
	// context, never to a failed request.
	var projectContext *planner.ProjectContext
	var project *store.Project
	if req.ProjectID != "" {
		project, projectContext, err = s.loadProjectContext(ctx, userID, req.ProjectID)
		if err != nil {
			reqCtx.Warn("project context unavailable, continuing without it",
				slog.String("project_id", req.ProjectID), slog.String("error", err.Error()))
			project, projectContext = nil, nil
		}
	}

	prompt := s.promptBuilder.Build(history, req.Message, country, projectContext, language)

	aiStart := time.Now()
	responseText, modelDuration, modelErr := s.generate(ctx, prompt)
	aiProcessingMs := time.Since(aiStart).Milliseconds()
	metrics.RecordLLMCall(modelErr != nil)

	canGenerate := false
	if modelErr != nil {
		wrapped := pipeerrors.LLMUnavailable("model call failed", modelErr)
		if ai.IsAuthError(modelErr) {
			reqCtx.Error("model rejected credentials, check SMARTDOCS_AI_API_KEY", wrapped,
				slog.String(observability.LogFieldErrorCode, string(pipeerrors.ErrCodeUnauthorized)))
		} else {
			reqCtx.Error("model call failed, returning fallback", wrapped,
				slog.String(observability.LogFieldErrorCode, string(pipeerrors.ErrCodeLLMUnavailable)))
		}
		responseText = planner.FallbackMessage(language)
		confidence = 0
	} else {
		canGenerate = (confidence >= 65 && planner.SignalsReadiness(responseText)) || confidence >= 80
	}

	session := planner.DeriveSession(sessionID, info, country, confidence)
	session.BusinessIdea = firstCoveredIdea(history, req.Message, info)

	assistantMeta, _ := json.Marshal(map[string]any{"confidence": confidence})
	if _, err := s.Store.CreateMessage(ctx, &store.Message{
		UID:            shortuuid.New(),
		ConversationID: conversation.ID,
		Role:           store.MessageRoleAssistant,
		Content:        responseText,
		Metadata:       string(assistantMeta),
		CreatedTs:      time.Now().Unix(),
	}); err != nil {
		reqCtx.Error("failed to persist assistant message", err)
		metrics.RecordFailure(operationAdvancedConversation)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to process advanced conversation"})
	}

	status := store.ConversationStatusActive
	if canGenerate {
		status = store.ConversationStatusReadyForGeneration
	}
	sessionJSON, _ := json.Marshal(session)
	metadata.Mode = "advanced"
	metadata.Country = country
	metadata.PlanningSessionID = sessionID
	metadata.LastActivity = time.Now().Unix()
	metadata.MessageCount = len(history) + 2
	metadata.PlanningSession = sessionJSON
	encoded := metadata.Encode()
	updatedTs := time.Now().Unix()
	if _, err := s.Store.UpdateConversation(ctx, &store.UpdateConversation{
		ID:        conversation.ID,
		Status:    &status,
		Metadata:  &encoded,
		UpdatedTs: &updatedTs,
	}); err != nil {
		reqCtx.Error("failed to update conversation", err)
		metrics.RecordFailure(operationAdvancedConversation)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to process advanced conversation"})
	}

	if project != nil {
		if result := s.autoSaveProject(ctx, project, session, confidence, req.Message, prompt, responseText); result.Err != nil {
			reqCtx.Warn("project auto-save failed, response unaffected",
				slog.String("project_id", project.UID), slog.String("error", result.Err.Error()))
		}
	}

	totalMs := time.Since(start).Milliseconds()
	modelMs := modelDuration.Milliseconds()
	hash := sha256.Sum256([]byte(responseText))

	reqCtx.Info("advanced conversation turn completed",
		slog.String(observability.LogFieldConversationID, conversation.UID),
		slog.Int(observability.LogFieldConfidence, confidence),
		slog.Int(observability.LogFieldMessageLen, len(req.Message)),
		slog.Int64(observability.LogFieldDuration, totalMs),
		slog.Bool("can_generate_document", canGenerate),
	)
	metrics.RecordDuration(operationAdvancedConversation, time.Since(start))

	countryContext := country
	if countryContext == "" {
		countryContext = "global"
	}

	return c.JSON(http.StatusOK, &advancedConversationResponse{
		Message:             responseText,
		ConversationID:      conversation.UID,
		CanGenerateDocument: canGenerate,
		PlanningSession:     session,
		DocumentTypes:       planner.DocumentTypes,
		CountryContext:      countryContext,
		ResearchFindings:    session.ResearchFindings,
		PlanningStep:        session.CurrentStep,
		Confidence:          confidence,
		ProcessingMetrics: processingMetrics{
			TotalTimeMs:        totalMs,
			AIProcessingTimeMs: aiProcessingMs,
			GeminiAPITimeMs:    modelMs,
			ResponseLength:     len(responseText),
			ResponseHash:       hex.EncodeToString(hash[:])[:16],
			GeneratedAt:        time.Now().UTC().Format(time.RFC3339),
			IsGenuineResponse:  totalMs > genuineTotalTimeMs && modelMs > genuineModelTimeMs,
		},
	})
}

// generate calls the model behind the concurrency semaphore. A nil
// LLMService reports an error so the caller takes the fallback path.
func (s *APIV1Service) generate(ctx context.Context, prompt string) (string, time.Duration, error) {
	if s.LLMService == nil {
		return "", 0, errNoModel
	}
	if err := s.llmSemaphore.Acquire(ctx, 1); err != nil {
		return "", 0, err
	}
	defer s.llmSemaphore.Release(1)

	result, err := s.LLMService.Generate(ctx, prompt)
	if err != nil {
		return "", 0, err
	}
	return result.Text, result.Duration, nil
}

var errNoModel = &noModelError{}

type noModelError struct{}

func (*noModelError) Error() string { return "no model configured" }

func (s *APIV1Service) findOrCreateConversation(ctx context.Context, userID int32, req *advancedConversationRequest) (*store.Conversation, error) {
	if req.ConversationID != "" {
		conversation, err := s.Store.GetConversation(ctx, &store.FindConversation{UID: &req.ConversationID})
		if err != nil {
			return nil, err
		}
		if conversation != nil && conversation.CreatorID == userID {
			return conversation, nil
		}
		// Unknown or foreign UID: fall through and start fresh.
	}

	now := time.Now().Unix()
	metadata := &store.ConversationMetadata{
		Mode:              "advanced",
		Country:           req.Country,
		PlanningSessionID: req.PlanningSessionID,
		LastActivity:      now,
	}
	return s.Store.CreateConversation(ctx, &store.Conversation{
		UID:       shortuuid.New(),
		CreatorID: userID,
		Status:    store.ConversationStatusActive,
		Metadata:  metadata.Encode(),
		CreatedTs: now,
		UpdatedTs: now,
	})
}

// loadHistory prefers the stored transcript; a brand-new conversation falls
// back to the client-supplied history so the first persisted turn still
// scores with context.
func (s *APIV1Service) loadHistory(ctx context.Context, conversation *store.Conversation, clientHistory []historyTurn) ([]planner.Turn, error) {
	messages, err := s.Store.ListMessages(ctx, &store.FindMessage{ConversationID: &conversation.ID})
	if err != nil {
		return nil, err
	}

	if len(messages) == 0 {
		turns := make([]planner.Turn, 0, len(clientHistory))
		for _, turn := range clientHistory {
			turns = append(turns, planner.Turn{Role: turn.Role, Content: turn.Content})
		}
		return turns, nil
	}

	turns := make([]planner.Turn, 0, len(messages))
	for _, message := range messages {
		turns = append(turns, planner.Turn{Role: string(message.Role), Content: message.Content})
	}
	return turns, nil
}

func (s *APIV1Service) loadProjectContext(ctx context.Context, userID int32, projectUID string) (*store.Project, *planner.ProjectContext, error) {
	project, err := s.Store.GetProject(ctx, &store.FindProject{UID: &projectUID})
	if err != nil {
		return nil, nil, err
	}
	if project == nil || project.CreatorID != userID {
		return nil, nil, errProjectNotFound
	}

	meta := store.DecodeProjectMetadata(project.Metadata)
	summaries := meta.Summaries
	if len(summaries) > 3 {
		summaries = summaries[len(summaries)-3:]
	}

	return project, &planner.ProjectContext{
		Name:          project.Name,
		Description:   project.Description,
		Industry:      project.Industry,
		Stage:         project.Stage,
		Confidence:    int(project.Confidence),
		Summaries:     summaries,
		LatestSession: string(meta.LatestSession),
	}, nil
}

var errProjectNotFound = &projectNotFoundError{}

type projectNotFoundError struct{}

func (*projectNotFoundError) Error() string { return "project not found" }

// projectSaveResult makes the auto-save outcome explicit so callers and
// tests can inspect the failure path directly.
type projectSaveResult struct {
	Saved bool
	Err   error
}

// autoSaveProject writes the turn's stage, confidence and token estimate
// back to the project. Failures are reported, never raised.
func (s *APIV1Service) autoSaveProject(ctx context.Context, project *store.Project, session *planner.Session, confidence int, userMessage, prompt, responseText string) projectSaveResult {
	meta := store.DecodeProjectMetadata(project.Metadata)
	meta.Summaries = append(meta.Summaries, summarizeTurn(userMessage))
	if len(meta.Summaries) > 10 {
		meta.Summaries = meta.Summaries[len(meta.Summaries)-10:]
	}
	sessionJSON, _ := json.Marshal(session)
	meta.LatestSession = sessionJSON

	stage := session.CurrentStep
	conf := int32(confidence)
	// Rough 4-chars-per-token estimate, good enough for quota display.
	tokens := project.TotalTokens + int64((len(prompt)+len(responseText))/4)
	encoded := meta.Encode()
	updatedTs := time.Now().Unix()

	if _, err := s.Store.UpdateProject(ctx, &store.UpdateProject{
		ID:          project.ID,
		Stage:       &stage,
		Confidence:  &conf,
		TotalTokens: &tokens,
		Metadata:    &encoded,
		UpdatedTs:   &updatedTs,
	}); err != nil {
		return projectSaveResult{Err: err}
	}
	return projectSaveResult{Saved: true}
}

func summarizeTurn(userMessage string) string {
	runes := []rune(userMessage)
	if len(runes) > 140 {
		return string(runes[:140]) + "…"
	}
	return userMessage
}

// firstCoveredIdea records a short business-idea line on the session when
// the idea category is covered.
func firstCoveredIdea(history []planner.Turn, currentMessage string, info planner.BusinessInformation) string {
	if !info.BusinessIdea {
		return ""
	}
	for _, turn := range history {
		if strings.EqualFold(turn.Role, string(store.MessageRoleUser)) && turn.Content != "" {
			return summarizeTurn(turn.Content)
		}
	}
	return summarizeTurn(currentMessage)
}
