package chathttp

import (
	"net/http"
	"time"

	"newschat/internal/domain"
	"newschat/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	chatUsecase   usecase.ChatUsecase
	ingestUsecase usecase.IngestArticlesUsecase
	sessions      domain.SessionRepository
	historyLimit  int
}

func NewHandler(
	chatUsecase usecase.ChatUsecase,
	ingestUsecase usecase.IngestArticlesUsecase,
	sessions domain.SessionRepository,
	historyLimit int,
) *Handler {
	return &Handler{
		chatUsecase:   chatUsecase,
		ingestUsecase: ingestUsecase,
		sessions:      sessions,
		historyLimit:  historyLimit,
	}
}

// RegisterRoutes attaches all handler routes to the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/chat", h.Chat)
	e.GET("/v1/sessions/:id/messages", h.SessionMessages)
	e.POST("/internal/ingest/refresh", h.RefreshIndex)
	e.POST("/internal/index/rebuild", h.RebuildIndex)
}

type chatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

type sourceResponse struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Summary     string    `json:"summary,omitempty"`
	Score       float64   `json:"score"`
	Origin      string    `json:"origin"`
	PublishedAt time.Time `json:"published_at"`
}

type chatResponse struct {
	SessionID string           `json:"session_id"`
	Answer    string           `json:"answer"`
	Sources   []sourceResponse `json:"sources"`
	Degraded  bool             `json:"degraded"`
	Cached    bool             `json:"cached"`
}

// Chat answers one user message within a session.
// (POST /v1/chat)
func (h *Handler) Chat(ctx echo.Context) error {
	var req chatRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Message == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	sessionID := uuid.Nil
	if req.SessionID != "" {
		parsed, err := uuid.Parse(req.SessionID)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid session_id"})
		}
		sessionID = parsed
	}

	output, err := h.chatUsecase.Execute(ctx.Request().Context(), usecase.ChatInput{
		SessionID: sessionID,
		Message:   req.Message,
	})
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	sources := make([]sourceResponse, 0, len(output.Sources))
	for _, s := range output.Sources {
		sources = append(sources, sourceResponse{
			Title:       s.Article.Title,
			URL:         s.Article.URL,
			Source:      s.Article.Source,
			Summary:     s.Article.Summary,
			Score:       s.Score,
			Origin:      string(s.Origin),
			PublishedAt: s.Article.PublishedAt,
		})
	}

	return ctx.JSON(http.StatusOK, chatResponse{
		SessionID: output.SessionID.String(),
		Answer:    output.Answer,
		Sources:   sources,
		Degraded:  output.Degraded,
		Cached:    output.Cached,
	})
}

type messageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionMessages returns the recent turns of a session in chronological order.
// (GET /v1/sessions/:id/messages)
func (h *Handler) SessionMessages(ctx echo.Context) error {
	sessionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid session id"})
	}

	turns, err := h.sessions.RecentTurns(ctx.Request().Context(), sessionID, h.historyLimit)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	messages := make([]messageResponse, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, messageResponse{
			ID:        t.ID.String(),
			Role:      string(t.Role),
			Content:   t.Content,
			CreatedAt: t.CreatedAt,
		})
	}
	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"session_id": sessionID.String(),
		"messages":   messages,
	})
}

// RefreshIndex collects the configured feeds and ingests new articles.
// (POST /internal/ingest/refresh)
func (h *Handler) RefreshIndex(ctx echo.Context) error {
	stored, err := h.ingestUsecase.Refresh(ctx.Request().Context())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return ctx.JSON(http.StatusOK, map[string]interface{}{"status": "ok", "stored": stored})
}

// RebuildIndex clears the index and re-ingests from scratch.
// (POST /internal/index/rebuild)
func (h *Handler) RebuildIndex(ctx echo.Context) error {
	stored, err := h.ingestUsecase.Rebuild(ctx.Request().Context())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return ctx.JSON(http.StatusOK, map[string]interface{}{"status": "ok", "stored": stored})
}
