package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hmztgr/smartdocs/store"
)

func createReadyConversation(t *testing.T, env *testEnv) *store.Conversation {
	t.Helper()
	ctx := context.Background()
	now := time.Now().Unix()

	conversation, err := env.store.CreateConversation(ctx, &store.Conversation{
		UID:       "conv-ready",
		CreatorID: env.user.ID,
		Status:    store.ConversationStatusReadyForGeneration,
		Metadata:  (&store.ConversationMetadata{Country: "SA"}).Encode(),
		CreatedTs: now,
		UpdatedTs: now,
	})
	require.NoError(t, err)

	for i, turn := range []struct {
		role    store.MessageRole
		content string
	}{
		{store.MessageRoleUser, "I want to start a coffee shop in Riyadh"},
		{store.MessageRoleAssistant, "Great, tell me about your budget"},
		{store.MessageRoleUser, "500k SAR, subscription boxes for professionals"},
	} {
		_, err := env.store.CreateMessage(ctx, &store.Message{
			UID:            "msg-" + string(rune('a'+i)),
			ConversationID: conversation.ID,
			Role:           turn.role,
			Content:        turn.content,
			CreatedTs:      now + int64(i),
		})
		require.NoError(t, err)
	}
	return conversation
}

func TestGenerateDocument(t *testing.T) {
	env := newTestEnv(t)
	conversation := createReadyConversation(t, env)

	llm := &fakeLLM{response: "# Business Plan\n\n## Summary\n\nA subscription coffee shop in Riyadh."}
	env.service.LLMService = llm

	rec := env.do(t, http.MethodPost, "/api/v1/documents/generate", map[string]any{
		"conversationId": conversation.UID,
		"documentType":   "Business Plan",
	}, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp generateDocumentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Business Plan", resp.DocumentType)
	require.Equal(t, llm.response, resp.Markdown)
	require.Contains(t, resp.HTML, "<h1")
	require.Contains(t, resp.HTML, "Riyadh")

	// The prompt embeds the transcript.
	require.Len(t, llm.prompts, 1)
	require.Contains(t, llm.prompts[0], "subscription boxes for professionals")

	// Generation does not consume the conversation.
	stored, err := env.store.GetConversation(context.Background(), &store.FindConversation{UID: &conversation.UID})
	require.NoError(t, err)
	require.Equal(t, store.ConversationStatusReadyForGeneration, stored.Status)
}

func TestGenerateDocumentNotReady(t *testing.T) {
	env := newTestEnv(t)
	env.service.LLMService = &fakeLLM{response: "Noted."}

	_, chat := env.chat(t, map[string]any{"message": "hi"})
	require.NotNil(t, chat)

	rec := env.do(t, http.MethodPost, "/api/v1/documents/generate", map[string]any{
		"conversationId": chat.ConversationID,
		"documentType":   "BRD",
	}, true)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestGenerateDocumentInvalidType(t *testing.T) {
	env := newTestEnv(t)
	conversation := createReadyConversation(t, env)

	rec := env.do(t, http.MethodPost, "/api/v1/documents/generate", map[string]any{
		"conversationId": conversation.UID,
		"documentType":   "Resume",
	}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateDocumentModelFailure(t *testing.T) {
	env := newTestEnv(t)
	conversation := createReadyConversation(t, env)
	env.service.LLMService = &fakeLLM{err: context.DeadlineExceeded}

	rec := env.do(t, http.MethodPost, "/api/v1/documents/generate", map[string]any{
		"conversationId": conversation.UID,
		"documentType":   "PRD",
	}, true)
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/signup", map[string]any{
		"username": "sara",
		"password": "s3cret",
	}, false)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"username": "sara",
		"password": "s3cret",
	}, false)
	require.Equal(t, http.StatusOK, rec.Code)
	var login loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.AccessToken)

	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"username": "sara",
		"password": "wrong",
	}, false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
