package store

import "encoding/json"

// ProjectMetadata is stored as a JSON column on the project row. Summaries
// accumulate one line per auto-save; the orchestrator reads at most the
// latest three when building prompt context.
type ProjectMetadata struct {
	Summaries     []string        `json:"summaries,omitempty"`
	LatestSession json.RawMessage `json:"latestSession,omitempty"`
}

func (m *ProjectMetadata) Encode() string {
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func DecodeProjectMetadata(raw string) *ProjectMetadata {
	m := &ProjectMetadata{}
	if raw == "" {
		return m
	}
	_ = json.Unmarshal([]byte(raw), m)
	return m
}

type Project struct {
	ID          int32
	UID         string
	CreatorID   int32
	Name        string
	Description string
	Industry    string
	Stage       string
	Confidence  int32
	TotalTokens int64
	Metadata    string // JSON string, see ProjectMetadata
	CreatedTs   int64
	UpdatedTs   int64
}

type FindProject struct {
	ID        *int32
	UID       *string
	CreatorID *int32
}

type UpdateProject struct {
	ID          int32
	Name        *string
	Description *string
	Industry    *string
	Stage       *string
	Confidence  *int32
	TotalTokens *int64
	Metadata    *string
	UpdatedTs   *int64
}

type DeleteProject struct {
	ID int32
}
