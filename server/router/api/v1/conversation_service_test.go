package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/hmztgr/smartdocs/internal/profile"
	"github.com/hmztgr/smartdocs/plugin/ai"
	"github.com/hmztgr/smartdocs/server/auth"
	"github.com/hmztgr/smartdocs/server/planner"
	"github.com/hmztgr/smartdocs/store"
	teststore "github.com/hmztgr/smartdocs/store/test"
)

type fakeLLM struct {
	response string
	duration time.Duration
	err      error
	prompts  []string
}

func (f *fakeLLM) Generate(_ context.Context, prompt string) (*ai.GenerateResult, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return &ai.GenerateResult{Text: f.response, Duration: f.duration}, nil
}

type testEnv struct {
	echo    *echo.Echo
	service *APIV1Service
	store   *store.Store
	user    *store.User
	token   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	st := teststore.NewTestingStore(ctx, t)
	prof := &profile.Profile{Mode: "dev", Driver: "sqlite"}
	service := NewAPIV1Service("test-secret", prof, st, nil)

	e := echo.New()
	service.RegisterRoutes(e)

	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)
	user, err := st.CreateUser(ctx, &store.User{
		Username:     "hamza",
		PasswordHash: hash,
		CreatedTs:    time.Now().Unix(),
	})
	require.NoError(t, err)

	token, err := auth.GenerateAccessToken(user.Username, user.ID, time.Now().Add(time.Hour), []byte("test-secret"))
	require.NoError(t, err)

	return &testEnv{echo: e, service: service, store: st, user: user, token: token}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if authed {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+env.token)
	}
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) chat(t *testing.T, body map[string]any) (*httptest.ResponseRecorder, *advancedConversationResponse) {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/chat/advanced-conversation", body, true)
	if rec.Code != http.StatusOK {
		return rec, nil
	}
	var resp advancedConversationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, &resp
}

const detailedMessage = "I want to start a coffee shop in Riyadh targeting young professionals, with a budget of 500k SAR and a subscription model"

func TestAdvancedConversationRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/chat/advanced-conversation", map[string]any{"message": "hi"}, false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdvancedConversationEmptyMessage(t *testing.T) {
	env := newTestEnv(t)
	env.service.LLMService = &fakeLLM{response: "unused"}

	for _, body := range []map[string]any{
		{},
		{"message": ""},
		{"message": "   \t "},
	} {
		rec := env.do(t, http.MethodPost, "/api/chat/advanced-conversation", body, true)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t, `{"error":"Message is required"}`, rec.Body.String())
	}

	// Validation failures leave no rows behind.
	conversations, err := env.store.ListConversations(context.Background(), &store.FindConversation{CreatorID: &env.user.ID})
	require.NoError(t, err)
	require.Empty(t, conversations)
}

func TestAdvancedConversationGreeting(t *testing.T) {
	env := newTestEnv(t)
	env.service.LLMService = &fakeLLM{response: "Hello! What business would you like to plan?"}

	rec, resp := env.chat(t, map[string]any{"message": "hi", "mode": "advanced"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 0, resp.Confidence)
	require.False(t, resp.CanGenerateDocument)
	require.NotEmpty(t, resp.ConversationID)
	require.Equal(t, planner.StepBusinessIdea, resp.PlanningStep)
}

func TestAdvancedConversationDetailedMessage(t *testing.T) {
	env := newTestEnv(t)
	llm := &fakeLLM{response: "Excellent plan. Let's look at your operations next.", duration: 10 * time.Millisecond}
	env.service.LLMService = llm

	rec, resp := env.chat(t, map[string]any{
		"message": detailedMessage,
		"country": "SA",
		"mode":    "advanced",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, 90, resp.Confidence)
	require.True(t, resp.CanGenerateDocument)
	require.Equal(t, llm.response, resp.Message)
	require.Len(t, resp.DocumentTypes, 5)
	require.Equal(t, "SA", resp.CountryContext)
	require.NotNil(t, resp.PlanningSession)
	require.Equal(t, len(llm.response), resp.ProcessingMetrics.ResponseLength)
	require.Len(t, resp.ProcessingMetrics.ResponseHash, 16)

	// Stored status reflects the readiness decision.
	conversation, err := env.store.GetConversation(context.Background(), &store.FindConversation{UID: &resp.ConversationID})
	require.NoError(t, err)
	require.Equal(t, store.ConversationStatusReadyForGeneration, conversation.Status)

	// Prompt carries the Saudi framing and the user message.
	require.Len(t, llm.prompts, 1)
	require.Contains(t, llm.prompts[0], "Saudi Arabian market")
	require.Contains(t, llm.prompts[0], detailedMessage)
}

func TestAdvancedConversationReadinessSignal(t *testing.T) {
	env := newTestEnv(t)
	// Scores 68: above the signal threshold, below the outright one.
	message := "coffee startup in Riyadh for students, budget 50k"

	llm := &fakeLLM{response: "Tell me more about your marketing plans."}
	env.service.LLMService = llm
	_, resp := env.chat(t, map[string]any{"message": message})
	require.Equal(t, 68, resp.Confidence)
	require.False(t, resp.CanGenerateDocument)

	env2 := newTestEnv(t)
	env2.service.LLMService = &fakeLLM{response: "We now have enough information to create your documents."}
	_, resp2 := env2.chat(t, map[string]any{"message": message})
	require.Equal(t, 68, resp2.Confidence)
	require.True(t, resp2.CanGenerateDocument)
}

func TestAdvancedConversationLLMFailure(t *testing.T) {
	env := newTestEnv(t)
	env.service.LLMService = &fakeLLM{err: context.DeadlineExceeded}

	rec, resp := env.chat(t, map[string]any{"message": detailedMessage})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, planner.FallbackMessage(planner.LanguageEnglish), resp.Message)
	require.Equal(t, 0, resp.Confidence)
	require.False(t, resp.CanGenerateDocument)
}

func TestAdvancedConversationArabicFallback(t *testing.T) {
	env := newTestEnv(t)
	env.service.LLMService = &fakeLLM{err: context.DeadlineExceeded}

	rec, resp := env.chat(t, map[string]any{"message": "أريد فتح مطعم في الرياض"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, planner.FallbackMessage(planner.LanguageArabic), resp.Message)
}

func TestAdvancedConversationMultiTurn(t *testing.T) {
	env := newTestEnv(t)
	env.service.LLMService = &fakeLLM{response: "Noted, tell me more."}

	_, first := env.chat(t, map[string]any{"message": "I want to open a bakery"})
	require.NotEmpty(t, first.ConversationID)

	_, second := env.chat(t, map[string]any{
		"message":        "Targeting families in Jeddah with a budget of 200k SAR",
		"conversationId": first.ConversationID,
	})
	require.Equal(t, first.ConversationID, second.ConversationID)
	// The second turn sees the first turn's flags plus its own.
	require.Greater(t, second.Confidence, first.Confidence)

	// Round-trip: the transcript contains both turns in order with intact
	// roles and content.
	rec := env.do(t, http.MethodGet, "/api/v1/conversations/"+first.ConversationID+"/messages", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Messages []*messagePayload `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Messages, 4)
	require.Equal(t, "USER", listing.Messages[0].Role)
	require.Equal(t, "I want to open a bakery", listing.Messages[0].Content)
	require.Equal(t, "ASSISTANT", listing.Messages[1].Role)
	require.Equal(t, "USER", listing.Messages[2].Role)
	require.Equal(t, "Targeting families in Jeddah with a budget of 200k SAR", listing.Messages[2].Content)
}

func TestAdvancedConversationProjectContext(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	meta := &store.ProjectMetadata{Summaries: []string{"first pass", "second pass", "third pass", "fourth pass"}}
	project, err := env.store.CreateProject(ctx, &store.Project{
		UID:       "proj-1",
		CreatorID: env.user.ID,
		Name:      "BrewCo",
		Industry:  "food",
		Stage:     planner.StepBusinessIdea,
		Metadata:  meta.Encode(),
		CreatedTs: time.Now().Unix(),
		UpdatedTs: time.Now().Unix(),
	})
	require.NoError(t, err)

	llm := &fakeLLM{response: "Good progress."}
	env.service.LLMService = llm

	_, resp := env.chat(t, map[string]any{
		"message":   detailedMessage,
		"projectId": project.UID,
	})
	require.NotNil(t, resp)

	// Only the latest three summaries make it into the prompt.
	require.Len(t, llm.prompts, 1)
	require.Contains(t, llm.prompts[0], "Name: BrewCo")
	require.Contains(t, llm.prompts[0], "fourth pass")
	require.NotContains(t, llm.prompts[0], "first pass")

	// Auto-save wrote the new stage and confidence back.
	saved, err := env.store.GetProject(ctx, &store.FindProject{UID: &project.UID})
	require.NoError(t, err)
	require.Equal(t, int32(resp.Confidence), saved.Confidence)
	require.Equal(t, resp.PlanningStep, saved.Stage)
	require.Greater(t, saved.TotalTokens, int64(0))
	savedMeta := store.DecodeProjectMetadata(saved.Metadata)
	require.NotEmpty(t, savedMeta.LatestSession)
	require.Contains(t, strings.Join(savedMeta.Summaries, "\n"), detailedMessage)
}

func TestAdvancedConversationUnknownProject(t *testing.T) {
	env := newTestEnv(t)
	env.service.LLMService = &fakeLLM{response: "Let's continue."}

	// A missing project degrades to no context, not to a failed request.
	rec, resp := env.chat(t, map[string]any{
		"message":   "I want to open a bakery",
		"projectId": "no-such-project",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, resp.ConversationID)
}

func TestListConversations(t *testing.T) {
	env := newTestEnv(t)
	env.service.LLMService = &fakeLLM{response: "Noted."}

	_, resp := env.chat(t, map[string]any{"message": "I want to open a bakery", "country": "SA"})
	require.NotNil(t, resp)

	rec := env.do(t, http.MethodGet, "/api/v1/conversations", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Conversations []*conversationPayload `json:"conversations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Conversations, 1)
	require.Equal(t, resp.ConversationID, listing.Conversations[0].ID)
	require.Equal(t, "SA", listing.Conversations[0].Country)
	require.Equal(t, 2, listing.Conversations[0].MessageCount)
}
