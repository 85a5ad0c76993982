package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"maintenanceManagement/internal/auth"
	"maintenanceManagement/models"
)

type roleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin operario"`
}

type createUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=admin operario"`
}

// ListUsers pages through the accounts with ?limit= and ?offset=.
func (h *Handler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	users, err := h.Users.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.storageError(c, "list users", err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser registers an account. The role defaults to operario.
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid user: "+err.Error())
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		abortError(c, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.Users.Create(c.Request.Context(), req.Username, models.Role(req.Role), hash)
	if err != nil {
		h.storageError(c, "create user", err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Users.Delete(c.Request.Context(), id); err != nil {
		h.storageError(c, "delete user", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateUserRole sets the role of :username and returns the stored account.
func (h *Handler) UpdateUserRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid role: "+err.Error())
		return
	}
	ctx := c.Request.Context()
	username := c.Param("username")
	if err := h.Users.UpdateRoleByUsername(ctx, username, models.Role(req.Role)); err != nil {
		h.storageError(c, "update user role", err)
		return
	}
	u, err := h.Users.GetByUsername(ctx, username)
	if err != nil {
		h.storageError(c, "get user", err)
		return
	}
	h.Logger.Info("role changed", zap.String("user", username), zap.String("role", req.Role))
	c.JSON(http.StatusOK, u)
}
