package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hmztgr/smartdocs/store"
	teststore "github.com/hmztgr/smartdocs/store/test"
)

func TestConversationStatusEnum(t *testing.T) {
	require.True(t, store.ConversationStatusActive.IsValid())
	require.True(t, store.ConversationStatusReadyForGeneration.IsValid())
	require.False(t, store.ConversationStatus("DONE").IsValid())
	require.False(t, store.ConversationStatus("").IsValid())
}

func TestConversationMetadataRoundTrip(t *testing.T) {
	meta := &store.ConversationMetadata{
		Mode:              "advanced",
		Country:           "SA",
		PlanningSessionID: "ps-1",
		LastActivity:      1700000000,
		MessageCount:      4,
	}
	decoded := store.DecodeConversationMetadata(meta.Encode())
	require.Equal(t, meta, decoded)

	require.Equal(t, &store.ConversationMetadata{}, store.DecodeConversationMetadata(""))
	require.Equal(t, &store.ConversationMetadata{}, store.DecodeConversationMetadata("not json"))
}

func TestMessageRoundTrip(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	now := time.Now().Unix()

	conversation, err := ts.CreateConversation(ctx, &store.Conversation{
		UID:       "conv-rt",
		CreatorID: 1,
		Status:    store.ConversationStatusActive,
		Metadata:  "{}",
		CreatedTs: now,
		UpdatedTs: now,
	})
	require.NoError(t, err)

	created, err := ts.CreateMessage(ctx, &store.Message{
		UID:            "msg-rt",
		ConversationID: conversation.ID,
		Role:           store.MessageRoleUser,
		Content:        "I want to start a coffee shop",
		CreatedTs:      now,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	messages, err := ts.ListMessages(ctx, &store.FindMessage{ConversationID: &conversation.ID})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, store.MessageRoleUser, messages[0].Role)
	require.Equal(t, "I want to start a coffee shop", messages[0].Content)
}

func TestConversationUpdateStatus(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	now := time.Now().Unix()

	conversation, err := ts.CreateConversation(ctx, &store.Conversation{
		UID:       "conv-upd",
		CreatorID: 1,
		Status:    store.ConversationStatusActive,
		Metadata:  "{}",
		CreatedTs: now,
		UpdatedTs: now,
	})
	require.NoError(t, err)

	ready := store.ConversationStatusReadyForGeneration
	updated, err := ts.UpdateConversation(ctx, &store.UpdateConversation{
		ID:     conversation.ID,
		Status: &ready,
	})
	require.NoError(t, err)
	require.Equal(t, ready, updated.Status)

	// Status can move back: the latest computed value always wins.
	active := store.ConversationStatusActive
	updated, err = ts.UpdateConversation(ctx, &store.UpdateConversation{
		ID:     conversation.ID,
		Status: &active,
	})
	require.NoError(t, err)
	require.Equal(t, active, updated.Status)

	fetched, err := ts.GetConversation(ctx, &store.FindConversation{UID: &conversation.UID})
	require.NoError(t, err)
	require.Equal(t, active, fetched.Status)
}

func TestGetAbsentReturnsNil(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)

	uid := "no-such"
	conversation, err := ts.GetConversation(ctx, &store.FindConversation{UID: &uid})
	require.NoError(t, err)
	require.Nil(t, conversation)

	project, err := ts.GetProject(ctx, &store.FindProject{UID: &uid})
	require.NoError(t, err)
	require.Nil(t, project)
}
