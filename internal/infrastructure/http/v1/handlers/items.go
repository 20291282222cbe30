package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"homestock/internal/core/apperror"
	"homestock/internal/core/id"
	"homestock/internal/domain/item"
	"homestock/internal/infrastructure/http/v1/dto"
)

// ItemHandler serves the /api/items routes.
type ItemHandler struct {
	base *BaseHandler
	svc  *item.Service
}

// NewItemHandler creates an item handler.
func NewItemHandler(base *BaseHandler, svc *item.Service) *ItemHandler {
	return &ItemHandler{base: base, svc: svc}
}

// List handles GET /api/items?sort=field1,-field2.
func (h *ItemHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Query("sort"))
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.FromItems(items, time.Now()))
}

// Search handles GET /api/items/search/:term.
func (h *ItemHandler) Search(c *gin.Context) {
	items, err := h.svc.Search(c.Request.Context(), c.Param("term"), c.Query("sort"))
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.FromItems(items, time.Now()))
}

// Get handles GET /api/items/:id. The single-item response is the only
// one that includes enrichment data.
func (h *ItemHandler) Get(c *gin.Context) {
	itemID, ok := h.base.ParseID(c, "id")
	if !ok {
		return
	}

	found, err := h.svc.Get(c.Request.Context(), itemID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.FromItem(found, time.Now(), true))
}

// Create handles POST /api/items.
func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	shelfID, err := id.Parse(req.Location)
	if err != nil {
		h.base.Error(c, apperror.NewValidation("invalid location id").
			WithDetail("value", req.Location))
		return
	}

	created, err := h.svc.Create(c.Request.Context(), req.ToCreateInput(shelfID))
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Created(c, dto.FromItem(created, time.Now(), true))
}

// Update handles PUT /api/items/:id (field update, no location change).
func (h *ItemHandler) Update(c *gin.Context) {
	itemID, ok := h.base.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateItemRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), itemID, req.ToUpdateInput())
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.FromItem(updated, time.Now(), false))
}

// Move handles PATCH /api/items/:id. A partial amount splits the item
// onto the destination shelf.
func (h *ItemHandler) Move(c *gin.Context) {
	itemID, ok := h.base.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.MoveItemRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	destID, err := id.Parse(req.Location)
	if err != nil {
		h.base.Error(c, apperror.NewValidation("invalid location id").
			WithDetail("value", req.Location))
		return
	}

	moved, err := h.svc.Move(c.Request.Context(), itemID, destID, req.Amount)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.FromItem(moved, time.Now(), false))
}

// Delete handles DELETE /api/items/:id.
func (h *ItemHandler) Delete(c *gin.Context) {
	itemID, ok := h.base.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), itemID); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Success(c, "item deleted")
}
