package analytics

import (
	"fleetops-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles fleet analytics endpoints with the service.
type Handlers struct {
	Service *Service
}

// Summary GET /api/v1/fleet/summary.
func (h *Handlers) Summary(c *fiber.Ctx) error {
	summary, err := h.Service.FleetSummary(c.Context())
	if err != nil {
		return err
	}
	return response.Success(c, "Fleet summary retrieved", summary, nil)
}

// Filters GET /api/v1/fleet/filters.
func (h *Handlers) Filters(c *fiber.Ctx) error {
	filters, err := h.Service.Filters(c.Context())
	if err != nil {
		return err
	}
	return response.Success(c, "Filter options retrieved", filters, nil)
}
