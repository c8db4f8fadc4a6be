package dto

import (
	"encoding/json"
	"time"
)

type SendChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type PendingLogDTO struct {
	Kind       string          `json:"kind"`
	Summary    string          `json:"summary"`
	Arguments  json.RawMessage `json:"arguments"`
	ProposedAt time.Time       `json:"proposed_at"`
}

type SendChatResponse struct {
	Reply      string         `json:"reply"`
	Intent     string         `json:"intent"`
	Transition string         `json:"transition,omitempty"` // "proposed" | "revised" | "committed"
	PendingLog *PendingLogDTO `json:"pending_log"`
	RecordId   string         `json:"record_id,omitempty"`
}

type ResetConversationResponse struct {
	Cleared bool `json:"cleared"`
}
