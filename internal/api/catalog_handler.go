package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maintenanceManagement/models"
)

type catalogRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID *int64 `json:"parent_id"`
}

func catalogKind(c *gin.Context) (models.CatalogKind, bool) {
	k := models.CatalogKind(c.Param("kind"))
	if !k.Valid() {
		abortError(c, http.StatusBadRequest, "unknown catalog "+string(k))
		return "", false
	}
	return k, true
}

func (h *Handler) ListCatalog(c *gin.Context) {
	kind, ok := catalogKind(c)
	if !ok {
		return
	}
	items, err := h.Catalog.List(c.Request.Context(), kind)
	if err != nil {
		h.storageError(c, "list catalog", err)
		return
	}
	if items == nil {
		items = []models.CatalogItem{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateCatalogItem(c *gin.Context) {
	kind, ok := catalogKind(c)
	if !ok {
		return
	}
	var req catalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "name is required")
		return
	}
	item, err := h.Catalog.Create(c.Request.Context(), models.CatalogItem{Kind: kind, Name: req.Name, ParentID: req.ParentID})
	if err != nil {
		h.storageError(c, "create catalog item", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) RenameCatalogItem(c *gin.Context) {
	kind, ok := catalogKind(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req catalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "name is required")
		return
	}
	if err := h.Catalog.Rename(c.Request.Context(), kind, id, req.Name); err != nil {
		h.storageError(c, "rename catalog item", err)
		return
	}
	c.JSON(http.StatusOK, models.CatalogItem{ID: id, Kind: kind, Name: req.Name})
}

func (h *Handler) DeleteCatalogItem(c *gin.Context) {
	kind, ok := catalogKind(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Catalog.Delete(c.Request.Context(), kind, id); err != nil {
		h.storageError(c, "delete catalog item", err)
		return
	}
	c.Status(http.StatusNoContent)
}
