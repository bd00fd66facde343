package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"newschat/internal/domain"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// noContextAnswer is returned when generation itself fails and there are no
// supporting articles to fall back on.
const noContextAnswer = "I could not find any relevant articles for that question."

// ChatInput defines the input parameters for Chat.
type ChatInput struct {
	// SessionID may be uuid.Nil for the first message; a fresh session is
	// created and returned in the output.
	SessionID uuid.UUID
	Message   string
}

// ChatOutput defines the output for Chat.
type ChatOutput struct {
	SessionID uuid.UUID
	Answer    string
	Sources   []domain.SearchResult
	Degraded  bool
	Cached    bool
}

// ChatUsecase answers a chat message with retrieval-augmented generation
// and persists both turns to the session.
type ChatUsecase interface {
	Execute(ctx context.Context, input ChatInput) (*ChatOutput, error)
}

type chatUsecase struct {
	retrieve     RetrieveArticlesUsecase
	sessions     domain.SessionRepository
	generator    domain.Generator
	prompts      PromptBuilder
	cache        *expirable.LRU[string, string]
	maxTokens    int
	historyLimit int
	logger       *slog.Logger
}

// ChatOption configures optional chat usecase components.
type ChatOption func(*chatUsecase)

// WithAnswerCache enables an in-memory LRU for generated answers, keyed by
// session and effective query.
func WithAnswerCache(size int, ttl time.Duration) ChatOption {
	return func(u *chatUsecase) {
		u.cache = expirable.NewLRU[string, string](size, nil, ttl)
	}
}

// NewChatUsecase creates a new ChatUsecase.
func NewChatUsecase(
	retrieve RetrieveArticlesUsecase,
	sessions domain.SessionRepository,
	generator domain.Generator,
	prompts PromptBuilder,
	maxTokens int,
	historyLimit int,
	logger *slog.Logger,
	opts ...ChatOption,
) ChatUsecase {
	u := &chatUsecase{
		retrieve:     retrieve,
		sessions:     sessions,
		generator:    generator,
		prompts:      prompts,
		maxTokens:    maxTokens,
		historyLimit: historyLimit,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *chatUsecase) Execute(ctx context.Context, input ChatInput) (*ChatOutput, error) {
	if input.Message == "" {
		return nil, fmt.Errorf("message is empty")
	}

	sessionID := input.SessionID
	if sessionID == uuid.Nil {
		sessionID = uuid.New()
	}

	// History read failures degrade to first-turn behavior; the session
	// collaborator must never take chat down with it.
	history, err := u.sessions.RecentTurns(ctx, sessionID, u.historyLimit)
	if err != nil {
		u.logger.Warn("history_read_failed",
			slog.String("session_id", sessionID.String()),
			slog.String("error", err.Error()))
		history = nil
	}

	retrieved, err := u.retrieve.Execute(ctx, RetrieveArticlesInput{
		Query:   input.Message,
		History: history,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve articles: %w", err)
	}

	cacheKey := sessionID.String() + "|" + retrieved.EffectiveQuery
	if u.cache != nil {
		if answer, ok := u.cache.Get(cacheKey); ok {
			u.logger.Info("answer_cache_hit", slog.String("session_id", sessionID.String()))
			// A cached answer is still part of the conversation: both turns
			// go into the transcript so history reads and follow-up
			// rewriting see the exchange.
			u.appendTurn(ctx, sessionID, domain.RoleUser, input.Message)
			u.appendTurn(ctx, sessionID, domain.RoleAssistant, answer)
			return &ChatOutput{
				SessionID: sessionID,
				Answer:    answer,
				Sources:   retrieved.Results,
				Degraded:  retrieved.Degraded,
				Cached:    true,
			}, nil
		}
	}

	answer := u.generate(ctx, input.Message, retrieved)

	u.appendTurn(ctx, sessionID, domain.RoleUser, input.Message)
	u.appendTurn(ctx, sessionID, domain.RoleAssistant, answer)

	if u.cache != nil {
		u.cache.Add(cacheKey, answer)
	}

	return &ChatOutput{
		SessionID: sessionID,
		Answer:    answer,
		Sources:   retrieved.Results,
		Degraded:  retrieved.Degraded,
	}, nil
}

func (u *chatUsecase) generate(ctx context.Context, message string, retrieved *RetrieveArticlesOutput) string {
	prompt := u.prompts.Build(message, retrieved.Results)

	start := time.Now()
	resp, err := u.generator.Generate(ctx, prompt, u.maxTokens)
	if err != nil {
		u.logger.Error("generation_failed",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		return noContextAnswer
	}

	u.logger.Info("generation_completed",
		slog.String("model", u.generator.Version()),
		slog.Int("source_count", len(retrieved.Results)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return resp.Text
}

func (u *chatUsecase) appendTurn(ctx context.Context, sessionID uuid.UUID, role domain.Role, content string) {
	turn := domain.ConversationTurn{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := u.sessions.AppendTurn(ctx, turn); err != nil {
		u.logger.Warn("turn_append_failed",
			slog.String("session_id", sessionID.String()),
			slog.String("role", string(role)),
			slog.String("error", err.Error()))
	}
}
