package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role distinguishes who authored a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one message in a session. The retrieval core only
// reads the trailing portion of a session's turns; it never mutates history.
type ConversationTurn struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Role      Role
	Content   string
	CreatedAt time.Time
}

// SessionRepository persists ordered conversation turns per session.
type SessionRepository interface {
	AppendTurn(ctx context.Context, turn ConversationTurn) error

	// RecentTurns returns the most recent turns in chronological order,
	// bounded by limit.
	RecentTurns(ctx context.Context, sessionID uuid.UUID, limit int) ([]ConversationTurn, error)
}
