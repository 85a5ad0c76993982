// Package api serves the REST interface of the work-order service.
package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"maintenanceManagement/repository"
)

// Handler bundles the dependencies of the REST endpoints.
type Handler struct {
	Users    *repository.UserRepository
	Orders   *repository.WorkOrderRepository
	Catalog  *repository.CatalogRepository
	Secret   string
	TokenTTL time.Duration
	Logger   *zap.Logger
}

// Register mounts every /api route on r.
func (h *Handler) Register(r gin.IRouter) {
	if h.Logger == nil {
		h.Logger = zap.NewNop()
	}
	g := r.Group("/api")
	g.POST("/auth/login", h.Login)

	authed := g.Group("", Authenticate(h.Secret))
	admin := RequireAdmin(h.Users)

	authed.GET("/auth/me", h.Me)

	authed.GET("/ots", h.ListOrders)
	authed.GET("/ots/:id", h.GetOrder)
	authed.POST("/ots", h.CreateOrder)
	authed.PATCH("/ots/:id", h.UpdateOrder)
	authed.PUT("/ots/:id", h.UpdateOrder)
	authed.DELETE("/ots/:id", admin, h.DeleteOrder)

	authed.GET("/users", admin, h.ListUsers)
	authed.POST("/users", admin, h.CreateUser)
	authed.DELETE("/users/:id", admin, h.DeleteUser)
	authed.PATCH("/users/:username/role", admin, h.UpdateUserRole)

	authed.GET("/catalog/:kind", h.ListCatalog)
	authed.POST("/catalog/:kind", admin, h.CreateCatalogItem)
	authed.PATCH("/catalog/:kind/:id", admin, h.RenameCatalogItem)
	authed.DELETE("/catalog/:kind/:id", admin, h.DeleteCatalogItem)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// storageError answers a repository failure: 404 for a missing row, 409 for
// a constraint violation, 500 otherwise.
func (h *Handler) storageError(c *gin.Context, op string, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		abortError(c, http.StatusNotFound, "not found")
		return
	}
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		abortError(c, http.StatusConflict, constraintMessage(se))
		return
	}
	h.Logger.Error(op, zap.Error(err), zap.String("request_id", c.GetString(ctxRequestID)))
	abortError(c, http.StatusInternalServerError, op+" failed")
}

func constraintMessage(se sqlite3.Error) string {
	switch se.ExtendedCode {
	case sqlite3.ErrConstraintUnique:
		return "already exists"
	case sqlite3.ErrConstraintForeignKey:
		return "still referenced or references a missing row"
	default:
		return "constraint violation"
	}
}
