// README: Auth middleware: attaches the caller identity (Firebase or demo) to the request.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"freightquote/internal/auth"
)

const identityKey = "identity"

const (
	msgUnauthenticated = "Faça login para continuar"
	msgInvalidToken    = "Sessão inválida ou expirada. Faça login novamente."
)

// Auth resolves the caller through the capability. Only Firebase mode can reject a request:
// an invalid token always, a missing token only when required is set.
func Auth(capability auth.Capability, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err == nil {
			var id auth.Identity
			id, err = auth.Authenticate(c.Request.Context(), capability, token, required)
			if err == nil {
				c.Set(identityKey, id)
				c.Next()
				return
			}
		}
		if _, demo := capability.(auth.Demo); demo {
			c.Set(identityKey, auth.DemoIdentity())
			c.Next()
			return
		}
		msg := msgInvalidToken
		if errors.Is(err, auth.ErrUnauthenticated) {
			msg = msgUnauthenticated
		}
		abortJSON(c, http.StatusUnauthorized, "unauthenticated", msg)
	}
}

var errMalformedHeader = errors.New("malformed authorization header")

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", nil
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", errMalformedHeader
	}
	return strings.TrimSpace(token), nil
}

// CallerIdentity returns the identity set by Auth; demo when Auth did not run.
func CallerIdentity(c *gin.Context) auth.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(auth.Identity); ok {
			return id
		}
	}
	return auth.DemoIdentity()
}

func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":        msg,
		"code":         code,
		"notification": gin.H{"type": "error", "message": msg},
	})
}
