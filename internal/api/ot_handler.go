package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/status"

	"maintenanceManagement/internal/auth"
	"maintenanceManagement/models"
)

// ListOrders returns every order to an admin and only their own to an operario.
func (h *Handler) ListOrders(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		orders []models.WorkOrder
		err    error
	)
	if p, ok := auth.FromContext(ctx); ok && p.Role == models.RoleOperario {
		orders, err = h.Orders.ListByUsername(ctx, p.Name)
	} else {
		orders, err = h.Orders.GetAll(ctx)
	}
	if err != nil {
		h.storageError(c, "list work orders", err)
		return
	}
	if orders == nil {
		orders = []models.WorkOrder{}
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	o, err := h.Orders.GetByID(c.Request.Context(), id)
	if err != nil {
		h.storageError(c, "get work order", err)
		return
	}
	if o == nil {
		abortError(c, http.StatusNotFound, "work order not found")
		return
	}
	p, _ := auth.FromContext(c.Request.Context())
	if err := auth.RequireOwner(p, *o); err != nil {
		abortError(c, httpStatus(err), status.Convert(err).Message())
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var o models.WorkOrder
	if err := c.ShouldBindJSON(&o); err != nil {
		abortError(c, http.StatusBadRequest, "invalid work order: "+err.Error())
		return
	}
	if err := o.Validate(); err != nil {
		abortError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !h.userExists(c, o.IDUser) {
		return
	}
	created, err := h.Orders.Create(c.Request.Context(), o)
	if err != nil {
		h.storageError(c, "create work order", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateOrder applies a partial update; PUT and PATCH behave the same.
// An operario may only update their own orders and cannot reassign them.
func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var p models.WorkOrderPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		abortError(c, http.StatusBadRequest, "invalid patch: "+err.Error())
		return
	}
	if p.Empty() {
		abortError(c, http.StatusBadRequest, "empty patch")
		return
	}
	if p.CompletionTime != nil && *p.CompletionTime < 0 {
		abortError(c, http.StatusBadRequest, "completion_time must not be negative")
		return
	}
	ctx := c.Request.Context()
	current, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		h.storageError(c, "get work order", err)
		return
	}
	if current == nil {
		abortError(c, http.StatusNotFound, "work order not found")
		return
	}
	principal, _ := auth.FromContext(ctx)
	if err := auth.AuthorizeOrderUpdate(principal, *current, p); err != nil {
		abortError(c, httpStatus(err), status.Convert(err).Message())
		return
	}
	if p.IDUser != nil && !h.userExists(c, *p.IDUser) {
		return
	}
	updated, err := h.Orders.Update(ctx, id, p)
	if err != nil {
		h.storageError(c, "update work order", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Orders.Delete(c.Request.Context(), id); err != nil {
		h.storageError(c, "delete work order", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) userExists(c *gin.Context, id int64) bool {
	u, err := h.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.storageError(c, "get user", err)
		return false
	}
	if u == nil {
		abortError(c, http.StatusBadRequest, "unknown id_user")
		return false
	}
	return true
}
