package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const SessionCookieName = "inkchat_session"
const CookieMaxAge = 30 * 24 * 60 * 60 // 30 days

// SessionID identifies the browser; a missing or unparseable cookie gets a
// fresh id. The id keys the session store where the active document
// identifier and the transcript live.
func SessionID() gin.HandlerFunc {
	return func(c *gin.Context) {
		var sessionID uuid.UUID

		cookie, err := c.Cookie(SessionCookieName)
		if err == nil {
			sessionID, err = uuid.Parse(cookie)
		}
		if err != nil {
			if err != http.ErrNoCookie {
				// Malformed cookie; replace it rather than failing the request
				c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
			}
			sessionID = uuid.New()
			c.SetCookie(SessionCookieName, sessionID.String(), CookieMaxAge, "/", "", false, true)
		}

		c.Set("sessionID", sessionID)
		c.Next()
	}
}
