package handlers

import (
	"errors"
	"net/http"

	apperrors "inkchat/errors"
	"inkchat/session"
	"inkchat/web/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UploadHandler struct {
	uploads *services.UploadService
	logger  *zap.Logger
}

func NewUploadHandler(uploads *services.UploadService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		uploads: uploads,
		logger:  logger,
	}
}

// Submit handles the upload form post. Validation failures never reach the
// backend and re-render the form with an inline notice; a successful
// transfer activates the document and sends the browser to the chat view.
func (h *UploadHandler) Submit(c *gin.Context) {
	sess := c.MustGet("session").(*session.State)

	file, err := c.FormFile("file")
	if err != nil {
		file = nil // treated as a missing-file validation failure
	}

	attempt := h.uploads.Submit(c.Request.Context(), sess, file)
	if attempt.Status == services.StatusSucceeded {
		c.Redirect(http.StatusSeeOther, "/chat")
		return
	}

	status, message := uploadFailure(attempt.Err)
	c.HTML(status, "upload.tmpl", gin.H{"Error": message})
}

// uploadFailure maps an attempt error to an HTTP status and the notice
// shown next to the form.
func uploadFailure(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrMissingFile):
		return http.StatusBadRequest, "PDF file is required"
	case errors.Is(err, apperrors.ErrInvalidFileType):
		return http.StatusBadRequest, "Please upload a PDF file"
	case errors.Is(err, apperrors.ErrFileTooLarge):
		return http.StatusBadRequest, "File size should be less than 10MB"
	case errors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests, "Too many requests. Please try again later."
	default:
		return http.StatusBadGateway, "Failed to upload file. Please try again."
	}
}
