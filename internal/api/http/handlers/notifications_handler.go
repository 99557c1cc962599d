package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/package-tracking/internal/api/dto"
	"github.com/spec-kit/package-tracking/internal/auth"
	"github.com/spec-kit/package-tracking/internal/domain"
	"github.com/spec-kit/package-tracking/internal/service"
	apperrors "github.com/spec-kit/package-tracking/pkg/util/errorutil"
)

// NotificationsHandler serves the per-user notification feed.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notificationService}
}

// List GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	unreadOnly := c.Query("unread") == "true"
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)

	entries, err := h.notifications.List(c.Context(), principal.User.ID, unreadOnly, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.NotificationResponse, 0, len(entries))
	for i := range entries {
		items = append(items, notificationResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UnreadCount GET /notifications/unread-count.
func (h *NotificationsHandler) UnreadCount(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	count, err := h.notifications.CountUnread(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"unread": count}})
}

// MarkRead POST /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.notifications.MarkRead(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "read"}})
}

func notificationResponse(entry *domain.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        entry.ID,
		Kind:      string(entry.Kind),
		PackageID: entry.PackageID,
		Body:      entry.Body,
		Read:      entry.Read,
		CreatedAt: entry.CreatedAt,
	}
}
