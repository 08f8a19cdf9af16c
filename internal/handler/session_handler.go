package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mirefly/paperdiary/internal/pkg/errcode"
	"github.com/mirefly/paperdiary/internal/pkg/jwt"
	"github.com/mirefly/paperdiary/internal/pkg/response"
)

// SessionHandler opens the book: the caller picks author or reader
// mode and gets a role token back. No credentials are involved.
type SessionHandler struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionHandler(secret []byte, ttl time.Duration) *SessionHandler {
	return &SessionHandler{secret: secret, ttl: ttl}
}

type sessionRequest struct {
	Role string `json:"role"`
}

func (h *SessionHandler) Open(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if !jwt.ValidRole(req.Role) {
		response.Error(c, errcode.ErrInvalid, "role must be author or reader")
		return
	}
	token, err := jwt.GenerateToken(req.Role, h.secret, h.ttl)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"token": token, "role": req.Role})
}
