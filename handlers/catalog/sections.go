package catalog

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/nicebott/docencia-api/model"
	"github.com/nicebott/docencia-api/services"
	"github.com/nicebott/docencia-api/utils/response"
)

// CatalogHandler serves the course-section search surface
type CatalogHandler struct {
	catalog *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListSections handles GET /api/v1/sections
//
// Query parameters: q (free text), campus (exact, from the fixed list),
// modality (virtual|semipresencial|empty), page, limit. The returned page is
// clamped against the filtered count, so a shrinking filter never strands the
// client past the last page.
func (h *CatalogHandler) ListSections(c *fiber.Ctx) error {
	if !h.catalog.Ready() {
		if err := h.catalog.LoadError(); err != nil {
			return response.ServiceUnavailable(c, "Course data could not be loaded")
		}
		return response.ServiceUnavailable(c, "Course data is still loading")
	}

	modality := model.Modality(c.Query("modality"))
	if !modality.Valid() {
		return response.BadRequest(c, "modality must be virtual, semipresencial or empty")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(services.DefaultPageSize)))
	if limit < 1 || limit > 100 {
		limit = services.DefaultPageSize
	}

	result := h.catalog.Search(c.Query("q"), c.Query("campus"), modality, page, limit)
	return response.Success(c, result)
}

// ListCampuses handles GET /api/v1/campuses
func (h *CatalogHandler) ListCampuses(c *fiber.Ctx) error {
	return response.Success(c, h.catalog.Campuses())
}
