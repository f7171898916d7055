// README: Session handlers: who is calling, and sign-out.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freightquote/internal/auth"
	"freightquote/internal/http/middleware"
)

type SessionHandler struct {
	capability auth.Capability
}

func NewSessionHandler(capability auth.Capability) *SessionHandler {
	return &SessionHandler{capability: capability}
}

type sessionDTO struct {
	Mode     string        `json:"mode"`
	Identity auth.Identity `json:"identity"`
}

func (h *SessionHandler) Get(c *gin.Context) {
	writeData(c, http.StatusOK, sessionDTO{
		Mode:     auth.Name(h.capability),
		Identity: middleware.CallerIdentity(c),
	})
}

func (h *SessionHandler) Logout(c *gin.Context) {
	msg, err := auth.SignOut(c.Request.Context(), h.capability, middleware.CallerIdentity(c))
	if err != nil {
		writeInternal(c, err)
		return
	}
	writeSuccess(c, http.StatusOK, sessionDTO{Mode: auth.Name(h.capability), Identity: auth.DemoIdentity()}, msg)
}
