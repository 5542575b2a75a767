package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hmztgr/smartdocs/store"
)

type conversationPayload struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Mode         string `json:"mode,omitempty"`
	Country      string `json:"country,omitempty"`
	MessageCount int    `json:"messageCount"`
	CreatedTs    int64  `json:"createdTs"`
	UpdatedTs    int64  `json:"updatedTs"`
}

type messagePayload struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedTs int64  `json:"createdTs"`
}

// ListConversations returns the authenticated user's conversations.
func (s *APIV1Service) ListConversations(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	conversations, err := s.Store.ListConversations(ctx, &store.FindConversation{CreatorID: &userID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list conversations"})
	}

	payload := make([]*conversationPayload, 0, len(conversations))
	for _, conversation := range conversations {
		meta := store.DecodeConversationMetadata(conversation.Metadata)
		payload = append(payload, &conversationPayload{
			ID:           conversation.UID,
			Status:       string(conversation.Status),
			Mode:         meta.Mode,
			Country:      meta.Country,
			MessageCount: meta.MessageCount,
			CreatedTs:    conversation.CreatedTs,
			UpdatedTs:    conversation.UpdatedTs,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"conversations": payload})
}

// ListConversationMessages returns the ordered transcript of one
// conversation owned by the authenticated user.
func (s *APIV1Service) ListConversationMessages(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	uid := c.Param("uid")
	conversation, err := s.Store.GetConversation(ctx, &store.FindConversation{UID: &uid})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load conversation"})
	}
	if conversation == nil || conversation.CreatorID != userID {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Conversation not found"})
	}

	messages, err := s.Store.ListMessages(ctx, &store.FindMessage{ConversationID: &conversation.ID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load messages"})
	}

	payload := make([]*messagePayload, 0, len(messages))
	for _, message := range messages {
		payload = append(payload, &messagePayload{
			ID:        message.UID,
			Role:      string(message.Role),
			Content:   message.Content,
			CreatedTs: message.CreatedTs,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"messages": payload})
}
