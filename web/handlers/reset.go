package handlers

import (
	"context"
	"net/http"
	"time"

	"inkchat/backend"
	"inkchat/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ResetHandler struct {
	sessions *session.Store
	client   *backend.Client
	logger   *zap.Logger
}

func NewResetHandler(sessions *session.Store, client *backend.Client, logger *zap.Logger) *ResetHandler {
	return &ResetHandler{
		sessions: sessions,
		client:   client,
		logger:   logger,
	}
}

// Reset discards the active document and returns the browser to the upload
// flow. The local clear happens synchronously before navigation; deleting
// the document on the backend is fired off best-effort, and its failure is
// logged but never blocks or reverses the reset. The chat view gates this
// behind an explicit confirmation dialog.
func (h *ResetHandler) Reset(c *gin.Context) {
	sess := h.sessions.Get(c.MustGet("sessionID").(uuid.UUID))

	documentID := sess.ClearDocument()
	if documentID != "" {
		go h.deleteDocument(documentID, sess.ID)
	}

	c.Redirect(http.StatusSeeOther, "/upload")
}

func (h *ResetHandler) deleteDocument(documentID string, sessionID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.client.DeleteDocument(ctx, documentID); err != nil {
		h.logger.Warn("Background document delete failed",
			zap.Error(err),
			zap.String("document", documentID),
			zap.String("session_id", sessionID.String()))
		return
	}
	h.logger.Info("Document deleted",
		zap.String("document", documentID),
		zap.String("session_id", sessionID.String()))
}
