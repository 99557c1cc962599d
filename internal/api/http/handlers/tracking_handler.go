package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/package-tracking/internal/api/dto"
	"github.com/spec-kit/package-tracking/internal/service"
	apperrors "github.com/spec-kit/package-tracking/pkg/util/errorutil"
)

// TrackingHandler serves the unauthenticated tracking lookup.
type TrackingHandler struct {
	service *service.PackageService
}

// NewTrackingHandler constructs handler.
func NewTrackingHandler(packageService *service.PackageService) *TrackingHandler {
	return &TrackingHandler{service: packageService}
}

// Track GET /tracking/:code.
func (h *TrackingHandler) Track(c *fiber.Ctx) error {
	code := strings.TrimSpace(c.Params("code"))
	if code == "" {
		return apperrors.NewValidationError("tracking code required", nil)
	}
	view, err := h.service.TrackByCode(c.Context(), strings.ToUpper(code))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TrackingResponse{
		TrackingCode: view.TrackingCode,
		Status:       view.Status,
		StatusLabel:  view.StatusLabel,
		UpdatedAt:    view.UpdatedAt,
	}})
}
