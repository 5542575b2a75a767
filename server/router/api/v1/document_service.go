package v1

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hmztgr/smartdocs/server/internal/observability"
	"github.com/hmztgr/smartdocs/server/planner"
	"github.com/hmztgr/smartdocs/store"
)

const operationGenerateDocument = "generate-document"

type generateDocumentRequest struct {
	ConversationID string `json:"conversationId"`
	DocumentType   string `json:"documentType"`
}

type generateDocumentResponse struct {
	DocumentType string `json:"documentType"`
	Markdown     string `json:"markdown"`
	HTML         string `json:"html"`
	GeneratedAt  string `json:"generatedAt"`
}

// GenerateDocument produces one of the target documents from a conversation
// that has reached the readiness gate. It never flips the conversation
// status; a failed generation leaves the planning flow untouched.
func (s *APIV1Service) GenerateDocument(c echo.Context) error {
	start := time.Now()
	ctx := c.Request().Context()

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req generateDocumentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Malformed request"})
	}
	if !planner.IsValidDocumentType(req.DocumentType) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unsupported document type"})
	}

	reqCtx := observability.NewRequestContext(s.logger, operationGenerateDocument, userID)
	metrics := observability.GlobalMetrics()
	metrics.RecordRequest(operationGenerateDocument)

	conversation, err := s.Store.GetConversation(ctx, &store.FindConversation{UID: &req.ConversationID})
	if err != nil {
		metrics.RecordFailure(operationGenerateDocument)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate document"})
	}
	if conversation == nil || conversation.CreatorID != userID {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Conversation not found"})
	}
	if conversation.Status != store.ConversationStatusReadyForGeneration {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Conversation is not ready for document generation"})
	}

	messages, err := s.Store.ListMessages(ctx, &store.FindMessage{ConversationID: &conversation.ID})
	if err != nil {
		metrics.RecordFailure(operationGenerateDocument)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate document"})
	}

	meta := store.DecodeConversationMetadata(conversation.Metadata)
	prompt := buildDocumentPrompt(req.DocumentType, meta, messages)

	text, _, err := s.generate(ctx, prompt)
	if err != nil {
		reqCtx.Error("document generation model call failed", err)
		metrics.RecordFailure(operationGenerateDocument)
		metrics.RecordLLMCall(true)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Document generation failed, try again"})
	}
	metrics.RecordLLMCall(false)

	html, err := s.Renderer.Render(text)
	if err != nil {
		reqCtx.Error("failed to render document", err)
		metrics.RecordFailure(operationGenerateDocument)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate document"})
	}

	reqCtx.Info("document generated",
		slog.String(observability.LogFieldConversationID, conversation.UID),
		slog.Int64(observability.LogFieldDuration, time.Since(start).Milliseconds()))
	metrics.RecordDuration(operationGenerateDocument, time.Since(start))

	return c.JSON(http.StatusOK, &generateDocumentResponse{
		DocumentType: req.DocumentType,
		Markdown:     text,
		HTML:         html,
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
	})
}

// buildDocumentPrompt turns the transcript plus the stored planning session
// into a single generation prompt for the requested document type.
func buildDocumentPrompt(documentType string, meta *store.ConversationMetadata, messages []*store.Message) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are a business consultant. Produce a complete %s in markdown, based on the planning conversation below.\n", documentType))
	if meta.Country != "" {
		sb.WriteString(fmt.Sprintf("Target market: %s.\n", meta.Country))
	}
	if len(meta.PlanningSession) > 0 {
		sb.WriteString(fmt.Sprintf("Planning session data: %s\n", string(meta.PlanningSession)))
	}
	sb.WriteString("\nConversation:\n")
	for _, message := range messages {
		sb.WriteString(fmt.Sprintf("%s: %s\n", message.Role, message.Content))
	}
	sb.WriteString("\nUse clear section headings. Write the document in the dominant language of the conversation.\n")
	return sb.String()
}
