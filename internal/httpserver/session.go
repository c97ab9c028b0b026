package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "storefront_session"

// sessionMiddleware gives every visitor a stable anonymous identity. The
// cart and checkout drafts hang off this cookie, not off an account.
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessionCookie)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, sid, 30*24*3600, "/", "", false, true)
		}
		c.Set("sessionID", sid)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString("sessionID")
}
