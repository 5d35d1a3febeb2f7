package handler

import (
	"github.com/gin-gonic/gin"

	"pharmarx/src/app/http/response"
	"pharmarx/src/app/middleware"
	"pharmarx/src/core/usecase"
)

// CatalogHandler handles medicine catalog endpoints.
type CatalogHandler struct {
	catalogService *usecase.CatalogService
}

func NewCatalogHandler(catalogService *usecase.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// List returns all catalog entries sorted by name.
// GET /api/pharmacy/medicines
func (h *CatalogHandler) List(c *gin.Context) {
	meds, err := h.catalogService.List(c.Request.Context())
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, meds)
}
