package repository

import (
	"context"
	"fmt"

	"newschat/internal/domain"

	"github.com/google/uuid"
)

type sessionRepository struct {
	db Executor
}

// NewSessionRepository creates a SessionRepository backed by Postgres.
func NewSessionRepository(db Executor) domain.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) AppendTurn(ctx context.Context, turn domain.ConversationTurn) error {
	query := `
		INSERT INTO conversation_turns (id, session_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		turn.ID,
		turn.SessionID,
		string(turn.Role),
		turn.Content,
		turn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append conversation turn: %w", err)
	}
	return nil
}

func (r *sessionRepository) RecentTurns(ctx context.Context, sessionID uuid.UUID, limit int) ([]domain.ConversationTurn, error) {
	query := `
		SELECT id, session_id, role, content, created_at
		FROM conversation_turns
		WHERE session_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation turns: %w", err)
	}
	defer rows.Close()

	var turns []domain.ConversationTurn
	for rows.Next() {
		var t domain.ConversationTurn
		var role string
		if err := rows.Scan(&t.ID, &t.SessionID, &role, &t.Content, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation turn: %w", err)
		}
		t.Role = domain.Role(role)
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	// The query walks newest-first for the LIMIT; callers expect
	// chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}
