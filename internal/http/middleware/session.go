// README: Session middleware: keys the per-session board and location cache.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionKey    = "session"
	SessionHeader = "X-Session-ID"
	SessionCookie = "frete_session"
	sessionMaxAge = 24 * 60 * 60
)

// Session picks the session key: the signed-in user, else the client's session id,
// else a new one returned in both the header and a cookie. Must run after Auth.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := CallerIdentity(c)
		var session string
		switch {
		case !id.Demo && id.UID != "":
			session = "user:" + id.UID
		case validSessionID(c.GetHeader(SessionHeader)):
			session = "anon:" + c.GetHeader(SessionHeader)
		default:
			if v, err := c.Cookie(SessionCookie); err == nil && validSessionID(v) {
				session = "anon:" + v
				break
			}
			fresh := uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, fresh, sessionMaxAge, "/", "", false, true)
			c.Header(SessionHeader, fresh)
			session = "anon:" + fresh
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

func validSessionID(v string) bool {
	if v == "" {
		return false
	}
	_, err := uuid.Parse(v)
	return err == nil
}

// CallerSession returns the key set by Session.
func CallerSession(c *gin.Context) string {
	return c.GetString(sessionKey)
}
