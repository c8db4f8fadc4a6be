package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type UserProfile struct {
	Id       uuid.UUID
	Username string
	Name     string
	Gender   string
	// Demographics are free text, as entered by the user.
	Age    string
	Weight string
	Height string
	Goal   string

	// ContinuationToken is nil until the first completed exchange.
	ContinuationToken *string
	PendingLog        *PendingLogProposal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasToken reports whether a non-empty continuation token is stored.
func (p *UserProfile) HasToken() bool {
	return p.ContinuationToken != nil && *p.ContinuationToken != ""
}

func (p *UserProfile) Token() string {
	if p.ContinuationToken == nil {
		return ""
	}
	return *p.ContinuationToken
}

// PendingLogProposal is an extracted log that the user has not confirmed yet.
// Payload holds the normalized tool-call arguments.
type PendingLogProposal struct {
	Kind       LogKind
	Payload    json.RawMessage
	ProposedAt time.Time
}
