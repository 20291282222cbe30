package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"homestock/internal/domain/location"
	"homestock/internal/infrastructure/http/v1/dto"
)

// LocationHandler serves the /api/locations routes.
type LocationHandler struct {
	base *BaseHandler
	svc  *location.Service
}

// NewLocationHandler creates a location handler.
func NewLocationHandler(base *BaseHandler, svc *location.Service) *LocationHandler {
	return &LocationHandler{base: base, svc: svc}
}

// List handles GET /api/locations.
func (h *LocationHandler) List(c *gin.Context) {
	locations, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.FromLocations(locations))
}

// Create handles POST /api/locations.
func (h *LocationHandler) Create(c *gin.Context) {
	var req dto.CreateLocationRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	created, err := h.svc.Create(c.Request.Context(), req.Name, req.Count)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Created(c, dto.FromLocation(created, true))
}

// Get handles GET /api/locations/:id.
func (h *LocationHandler) Get(c *gin.Context) {
	locationID, ok := h.base.ParseID(c, "id")
	if !ok {
		return
	}

	loc, err := h.svc.Get(c.Request.Context(), locationID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.FromLocation(loc, true))
}

// GetShelfDetail handles GET /api/locations/:id/shelf/:shelf.
func (h *LocationHandler) GetShelfDetail(c *gin.Context) {
	locationID, ok := h.base.ParseID(c, "id")
	if !ok {
		return
	}
	shelfID, ok := h.base.ParseID(c, "shelf")
	if !ok {
		return
	}

	detail, err := h.svc.GetShelfDetail(c.Request.Context(), locationID, shelfID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.FromShelfDetail(detail, time.Now()))
}
