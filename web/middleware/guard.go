package middleware

import (
	"net/http"

	"inkchat/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// The guard decides which mode the browser should see based solely on
// whether the session holds an active document. The check runs once per
// request; the guard itself never creates or deletes the identifier.

// RequireDocument redirects to the upload view when the session has no
// active document (nothing to chat about).
func RequireDocument(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Get(c.MustGet("sessionID").(uuid.UUID))
		if sess.Document() == "" {
			c.Redirect(http.StatusSeeOther, "/upload")
			c.Abort()
			return
		}
		c.Set("session", sess)
		c.Next()
	}
}

// RequireNoDocument redirects to the chat view when a document is already
// active: uploading a second one is disallowed without an explicit reset.
func RequireNoDocument(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Get(c.MustGet("sessionID").(uuid.UUID))
		if sess.Document() != "" {
			c.Redirect(http.StatusSeeOther, "/chat")
			c.Abort()
			return
		}
		c.Set("session", sess)
		c.Next()
	}
}
