package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/directory"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// DirectoryHandler serves cache-backed name resolution.
type DirectoryHandler struct {
	cache *directory.Cache
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(cache *directory.Cache) *DirectoryHandler {
	return &DirectoryHandler{cache: cache}
}

// GetDepartment GET /directory/departments/:id.
func (h *DirectoryHandler) GetDepartment(c *fiber.Ctx) error {
	id := c.Params("id")
	name := h.cache.DepartmentName(c.Context(), id)
	return c.JSON(fiber.Map{"data": fiber.Map{
		"id":           id,
		"display_name": name,
	}})
}

// Resolve POST /directory/resolve, batch resolution of department and
// employee identifiers. Unresolved identifiers come back as themselves.
func (h *DirectoryHandler) Resolve(c *fiber.Ctx) error {
	var req dto.ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.DepartmentIDs) == 0 && len(req.EmployeeIDs) == 0 {
		return apperrors.NewValidationError("department_ids or employee_ids required", nil)
	}

	resp := dto.ResolveResponse{}
	if len(req.DepartmentIDs) > 0 {
		resp.Departments = h.cache.ResolveDepartments(c.Context(), req.DepartmentIDs)
	}
	if len(req.EmployeeIDs) > 0 {
		employees := h.cache.ResolveEmployees(c.Context(), req.EmployeeIDs)
		resp.Employees = make(map[string]string, len(employees))
		for id, emp := range employees {
			resp.Employees[id] = emp.DisplayName
		}
	}
	return c.JSON(fiber.Map{"data": resp})
}
