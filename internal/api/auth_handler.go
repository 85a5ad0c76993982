package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"maintenanceManagement/internal/auth"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Login checks the password and issues a token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "username and password are required")
		return
	}
	u, err := h.Users.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		h.storageError(c, "get user", err)
		return
	}
	if u == nil || auth.CheckPassword(u.PasswordHash, req.Password) != nil {
		h.Logger.Info("login rejected", zap.String("username", req.Username))
		abortError(c, http.StatusUnauthorized, auth.ErrBadCredentials.Error())
		return
	}
	tok, err := auth.IssueToken(h.Secret, u.Username, u.Role, h.TokenTTL)
	if err != nil {
		h.Logger.Error("issue token", zap.Error(err))
		abortError(c, http.StatusInternalServerError, "issue token failed")
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: tok, Username: u.Username, Role: string(u.Role)})
}

// Me returns the principal of the token.
func (h *Handler) Me(c *gin.Context) {
	p, ok := auth.FromContext(c.Request.Context())
	if !ok {
		abortError(c, http.StatusUnauthorized, errors.New("missing principal").Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": p.Name, "role": p.Role})
}
