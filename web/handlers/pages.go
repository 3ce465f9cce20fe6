package handlers

import (
	"html/template"
	"net/http"

	"inkchat/session"
	"inkchat/web/format"
	"inkchat/web/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PageHandler renders the three views. The guard middleware has already
// decided which view the browser may see; these handlers only present
// state.
type PageHandler struct {
	renderer *format.Renderer
	logger   *zap.Logger
}

func NewPageHandler(renderer *format.Renderer, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		renderer: renderer,
		logger:   logger,
	}
}

// viewMessage is a transcript entry prepared for the template. Assistant
// content is rendered as markdown; user content stays escaped plain text.
type viewMessage struct {
	IsUser bool
	Text   string
	HTML   template.HTML
	Time   string
}

func (h *PageHandler) Landing(c *gin.Context) {
	c.HTML(http.StatusOK, "landing.tmpl", nil)
}

func (h *PageHandler) UploadPage(c *gin.Context) {
	c.HTML(http.StatusOK, "upload.tmpl", gin.H{})
}

func (h *PageHandler) ChatPage(c *gin.Context) {
	sess := c.MustGet("session").(*session.State)

	messages := sess.Messages()
	view := make([]viewMessage, 0, len(messages))
	for _, msg := range messages {
		vm := viewMessage{
			IsUser: msg.Sender == types.SenderUser,
			Time:   msg.Timestamp.Format("15:04"),
		}
		if vm.IsUser {
			vm.Text = msg.Content
		} else {
			vm.HTML = h.renderer.Render(msg.Content)
		}
		view = append(view, vm)
	}

	c.HTML(http.StatusOK, "chat.tmpl", gin.H{
		"Document": sess.Document(),
		"Messages": view,
	})
}

func (h *PageHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
