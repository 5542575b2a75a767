package store

import "encoding/json"

// ConversationStatus tracks whether enough business information has been
// gathered for document generation. The orchestrator always writes the value
// computed on the latest turn, so a conversation can move back to active.
type ConversationStatus string

const (
	ConversationStatusActive             ConversationStatus = "ACTIVE"
	ConversationStatusReadyForGeneration ConversationStatus = "READY_FOR_GENERATION"
)

func (s ConversationStatus) IsValid() bool {
	switch s {
	case ConversationStatusActive, ConversationStatusReadyForGeneration:
		return true
	}
	return false
}

// ConversationMetadata is stored as a JSON column on the conversation row.
// The planning session snapshot inside it is derived fresh each turn and is
// not an authoritative source of truth.
type ConversationMetadata struct {
	Mode              string          `json:"mode,omitempty"`
	Country           string          `json:"country,omitempty"`
	PlanningSessionID string          `json:"planningSessionId,omitempty"`
	LastActivity      int64           `json:"lastActivity,omitempty"`
	MessageCount      int             `json:"messageCount,omitempty"`
	PlanningSession   json.RawMessage `json:"planningSession,omitempty"`
}

func (m *ConversationMetadata) Encode() string {
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func DecodeConversationMetadata(raw string) *ConversationMetadata {
	m := &ConversationMetadata{}
	if raw == "" {
		return m
	}
	_ = json.Unmarshal([]byte(raw), m)
	return m
}

type Conversation struct {
	ID        int32
	UID       string
	CreatorID int32
	Status    ConversationStatus
	Metadata  string // JSON string, see ConversationMetadata
	CreatedTs int64
	UpdatedTs int64
}

type FindConversation struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	Status    *ConversationStatus
}

type UpdateConversation struct {
	ID        int32
	Status    *ConversationStatus
	Metadata  *string
	UpdatedTs *int64
}

type DeleteConversation struct {
	ID int32
}

type MessageRole string

const (
	MessageRoleUser      MessageRole = "USER"
	MessageRoleAssistant MessageRole = "ASSISTANT"
	MessageRoleSystem    MessageRole = "SYSTEM"
)

// Message is an append-only turn of a conversation. Rows are immutable once
// created; there is no update operation.
type Message struct {
	ID             int32
	UID            string
	ConversationID int32
	Role           MessageRole
	Content        string
	Metadata       string // JSON string
	CreatedTs      int64
}

type FindMessage struct {
	ID             *int32
	UID            *string
	ConversationID *int32
}

type DeleteMessage struct {
	ID             *int32
	ConversationID *int32
}
