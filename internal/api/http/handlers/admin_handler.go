package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/package-tracking/internal/api/dto"
	"github.com/spec-kit/package-tracking/internal/auth"
	"github.com/spec-kit/package-tracking/internal/domain"
	"github.com/spec-kit/package-tracking/internal/repository"
	"github.com/spec-kit/package-tracking/internal/service"
	apperrors "github.com/spec-kit/package-tracking/pkg/util/errorutil"
)

// AdminHandler manages accounts and logist profiles. All mutating routes
// require a staff principal.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: adminService}
}

// CreateUser POST /admin/users.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.admin.CreateUser(c.Context(), principal.User, req.Name, req.Email, req.Password, domain.Role(strings.ToUpper(req.Role)))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	filter := repository.UserFilter{}
	if roleStr := strings.ToUpper(c.Query("role")); roleStr != "" {
		role := domain.Role(roleStr)
		filter.Role = &role
	}
	if activeStr := c.Query("active"); activeStr != "" {
		active := activeStr == "true"
		filter.Active = &active
	}
	users, err := h.admin.ListUsers(c.Context(), principal.User, filter)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// SetRole PUT /admin/users/:id/role.
func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role := domain.Role(strings.ToUpper(req.Role))
	switch role {
	case domain.RoleAdmin, domain.RoleManager, domain.RoleLogist, domain.RoleClient:
	default:
		return apperrors.NewValidationError("unknown role", map[string]any{"role": req.Role})
	}
	user, err := h.admin.SetUserRole(c.Context(), principal.User, c.Params("id"), role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// SetActive PUT /admin/users/:id/active.
func (h *AdminHandler) SetActive(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.admin.SetUserActive(c.Context(), principal.User, c.Params("id"), req.Active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// UpsertLogistProfile PUT /admin/logists/:id/profile.
func (h *AdminHandler) UpsertLogistProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.LogistProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	profile, err := h.admin.UpsertLogistProfile(c.Context(), principal.User, c.Params("id"), service.LogistProfileInput{
		ServiceLocation: req.ServiceLocation,
		Address:         req.Address,
		SupportsLockers: req.SupportsLockers,
		SupportsOffices: req.SupportsOffices,
		Active:          req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": logistProfileResponse(profile)})
}

// ListLogists GET /logists. Any authenticated caller may browse active
// logists when choosing a drop-off point.
func (h *AdminHandler) ListLogists(c *fiber.Ctx) error {
	activeOnly := c.Query("active", "true") != "false"
	profiles, err := h.admin.ListLogists(c.Context(), activeOnly)
	if err != nil {
		return err
	}
	items := make([]dto.LogistProfileResponse, 0, len(profiles))
	for i := range profiles {
		items = append(items, logistProfileResponse(&profiles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func logistProfileResponse(profile *domain.LogistProfile) dto.LogistProfileResponse {
	return dto.LogistProfileResponse{
		UserID:          profile.UserID,
		ServiceLocation: profile.ServiceLocation,
		Address:         profile.Address,
		SupportsLockers: profile.SupportsLockers,
		SupportsOffices: profile.SupportsOffices,
		Active:          profile.Active,
		UpdatedAt:       profile.UpdatedAt,
	}
}
