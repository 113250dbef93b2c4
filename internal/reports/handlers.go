package reports

import (
	"fleetops-backend/internal/middleware"
	"fleetops-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers bundles script endpoints with the service.
type Handlers struct {
	Service *Service
}

// List GET /api/v1/scripts — the available analysis scripts.
func (h *Handlers) List(c *fiber.Ctx) error {
	return response.Success(c, "Scripts retrieved", fiber.Map{"scripts": Scripts()}, nil)
}

// Run POST /api/v1/scripts/:script/run — execute a script with optional
// parameter overrides in the body.
func (h *Handlers) Run(c *fiber.Ctx) error {
	var params RunParams
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&params); err != nil {
			return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
		}
	}
	result, err := h.Service.RunScript(c.Context(), c.Params("script"), params, sessionUserID(c))
	if err != nil {
		return err
	}
	return response.Success(c, result.Message, result, nil)
}

// Runs GET /api/v1/scripts/runs — recent script run audit records.
func (h *Handlers) Runs(c *fiber.Ctx) error {
	runs, err := h.Service.ListRuns(c.Context(), c.QueryInt("limit", 50))
	if err != nil {
		return err
	}
	return response.Success(c, "Script runs retrieved", fiber.Map{"runs": runs}, nil)
}

func sessionUserID(c *fiber.Ctx) *uuid.UUID {
	m, ok := middleware.GetUser(c).(map[string]interface{})
	if !ok {
		return nil
	}
	s, _ := m["user_id"].(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
