package handlers

import (
	"errors"
	"net/http"
	"time"

	apperrors "inkchat/errors"
	"inkchat/session"
	"inkchat/web/format"
	"inkchat/web/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chat     *services.ChatService
	renderer *format.Renderer
	logger   *zap.Logger
}

type askRequest struct {
	Question string `json:"question" form:"question"`
}

func NewChatHandler(chat *services.ChatService, renderer *format.Renderer, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chat:     chat,
		renderer: renderer,
		logger:   logger,
	}
}

// Ask runs one question round trip and returns the assistant entry as
// JSON. The chat view has already appended the user message optimistically;
// on failure nothing is returned for the transcript and the question stays
// visible so the user can retry.
func (h *ChatHandler) Ask(c *gin.Context) {
	sess := c.MustGet("session").(*session.State)

	var req askRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Invalid request")
		return
	}

	result, err := h.chat.Ask(c.Request.Context(), sess, req.Question)
	if err != nil {
		h.askFailure(c, sess, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"content":   result.Assistant.Content,
		"html":      h.renderer.Render(result.Assistant.Content),
		"timestamp": result.Assistant.Timestamp.Format(time.RFC3339),
	})
}

func (h *ChatHandler) askFailure(c *gin.Context, sess *session.State, err error) {
	switch {
	case errors.Is(err, apperrors.ErrEmptyQuestion):
		respondWithClientError(c, http.StatusBadRequest, "Please enter a question")
	case errors.Is(err, apperrors.ErrNoDocument):
		respondWithClientError(c, http.StatusConflict, "No active document")
	case errors.Is(err, apperrors.ErrRequestPending):
		respondWithClientError(c, http.StatusConflict, "A question is already being answered")
	case errors.Is(err, apperrors.ErrRateLimited):
		respondWithClientError(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later")
	default:
		respondWithError(c, http.StatusBadGateway, err, "Something went wrong. Please try again.", h.logger,
			zap.String("session_id", sess.ID.String()))
	}
}
