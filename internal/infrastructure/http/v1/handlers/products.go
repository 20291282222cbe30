package handlers

import (
	"github.com/gin-gonic/gin"

	"homestock/internal/core/apperror"
	"homestock/internal/domain/product"
)

// ProductHandler proxies free-text product searches to the external
// catalog. Unlike item enrichment, the catalog is essential here, so its
// failures surface to the caller.
type ProductHandler struct {
	base   *BaseHandler
	lookup product.Lookup
}

// NewProductHandler creates a product search handler.
func NewProductHandler(base *BaseHandler, lookup product.Lookup) *ProductHandler {
	return &ProductHandler{base: base, lookup: lookup}
}

// Search handles GET /api/off/search/:term.
func (h *ProductHandler) Search(c *gin.Context) {
	term := c.Param("term")

	products, err := h.lookup.Search(c.Request.Context(), term)
	if err != nil {
		h.base.Error(c, apperror.NewUpstream("product catalog", err))
		return
	}
	if len(products) == 0 {
		h.base.Error(c, apperror.NewNotFound("products", term))
		return
	}
	h.base.OK(c, products)
}
