package user

import (
	"fleetops-backend/internal/middleware"
	"fleetops-backend/internal/pkg/response"
	"fleetops-backend/internal/user/policies"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles user management endpoints with the service.
type Handlers struct {
	Service *Service
}

// List GET /api/v1/users.
func (h *Handlers) List(c *fiber.Ctx) error {
	users, err := h.Service.List(c.Context())
	if err != nil {
		return err
	}
	return response.Success(c, "Users retrieved", fiber.Map{"users": users}, nil)
}

// View GET /api/v1/users/:user_id.
func (h *Handlers) View(c *fiber.Ctx) error {
	u, err := h.Service.Get(c.Context(), c.Params("user_id"))
	if err != nil {
		return policyError(c, err)
	}
	return response.Success(c, "User retrieved", fiber.Map{"user": u}, nil)
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateRole PATCH /api/v1/users/:user_id/role.
func (h *Handlers) UpdateRole(c *fiber.Ctx) error {
	var req updateRoleRequest
	if err := c.BodyParser(&req); err != nil || req.Role == "" {
		return response.Error(c, "role is required", fiber.StatusBadRequest, nil)
	}
	actorID, actorRole := sessionActor(c)
	u, err := h.Service.UpdateRole(c.Context(), actorID, actorRole, c.Params("user_id"), req.Role)
	if err != nil {
		return policyError(c, err)
	}
	return response.Success(c, "Role updated", fiber.Map{"user": u}, nil)
}

// Deactivate DELETE /api/v1/users/:user_id.
func (h *Handlers) Deactivate(c *fiber.Ctx) error {
	actorID, _ := sessionActor(c)
	if err := h.Service.Deactivate(c.Context(), actorID, c.Params("user_id")); err != nil {
		return policyError(c, err)
	}
	return response.Success(c, "User deactivated", nil, nil)
}

func sessionActor(c *fiber.Ctx) (userID, role string) {
	m, ok := middleware.GetUser(c).(map[string]interface{})
	if !ok {
		return "", ""
	}
	userID, _ = m["user_id"].(string)
	role, _ = m["role"].(string)
	return userID, role
}

func policyError(c *fiber.Ctx, err error) error {
	switch err {
	case policies.ErrTargetUserNotFound:
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case policies.ErrOnlyAdminsCanAssignRoles:
		return response.Error(c, err.Error(), fiber.StatusForbidden, nil)
	case policies.ErrUsersCannotModifyOwnRole,
		policies.ErrMustHaveAtLeastOneAdmin,
		policies.ErrUnknownRole,
		policies.ErrCannotDeactivateYourself:
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	default:
		return err
	}
}
