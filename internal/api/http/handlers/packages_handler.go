package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/package-tracking/internal/api/dto"
	"github.com/spec-kit/package-tracking/internal/auth"
	"github.com/spec-kit/package-tracking/internal/domain"
	"github.com/spec-kit/package-tracking/internal/repository"
	"github.com/spec-kit/package-tracking/internal/service"
	"github.com/spec-kit/package-tracking/internal/workflow"
	apperrors "github.com/spec-kit/package-tracking/pkg/util/errorutil"
)

// PackagesHandler manages package endpoints for every authenticated role.
// Which packages are visible and which actions are allowed is decided in the
// service layer from the caller's role.
type PackagesHandler struct {
	service *service.PackageService
}

// NewPackagesHandler constructs handler.
func NewPackagesHandler(packageService *service.PackageService) *PackagesHandler {
	return &PackagesHandler{service: packageService}
}

// Create POST /packages.
func (h *PackagesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreatePackageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.PackageCreateInput{
		LogistID:          req.LogistID,
		RecipientName:     req.RecipientName,
		DeliveryType:      domain.DeliveryType(strings.ToUpper(req.DeliveryType)),
		LockerAddress:     req.LockerAddress,
		LockerCode:        req.LockerCode,
		ItemName:          req.ItemName,
		ShopName:          req.ShopName,
		Comment:           req.Comment,
		TrackingNumber:    req.TrackingNumber,
		EstimatedDelivery: req.EstimatedDelivery,
	}
	pkg, err := h.service.CreatePackage(c.Context(), principal.User.ID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": h.summary(pkg, principal.Role)})
}

// List GET /packages.
func (h *PackagesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	filter := parsePackageQuery(c)
	pkgs, err := h.service.ListPackages(c.Context(), principal.User, filter)
	if err != nil {
		return err
	}
	items := make([]dto.PackageSummary, 0, len(pkgs))
	for i := range pkgs {
		items = append(items, h.summary(&pkgs[i], principal.Role))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /packages/:id.
func (h *PackagesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	pkg, msgs, files, err := h.service.GetPackage(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.detail(pkg, principal.Role, msgs, files, nil)})
}

// ApplyAction POST /packages/:id/actions.
func (h *PackagesHandler) ApplyAction(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ApplyActionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Action) == "" {
		return apperrors.NewValidationError("action required", nil)
	}

	pkg, err := h.service.ApplyAction(c.Context(), principal.User, c.Params("id"), domain.Action(req.Action), req.Version)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.summary(pkg, principal.Role)})
}

// UpdateDetails PATCH /packages/:id.
func (h *PackagesHandler) UpdateDetails(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	pkg, err := h.service.UpdateDetails(c.Context(), principal.User, c.Params("id"), service.PackageDetailsInput{
		CourierName:       req.CourierName,
		TrackingNumber:    req.TrackingNumber,
		EstimatedDelivery: req.EstimatedDelivery,
		ManagerComment:    req.ManagerComment,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.summary(pkg, principal.Role)})
}

// SetPayment PUT /packages/:id/payment.
func (h *PackagesHandler) SetPayment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.SetPaymentInfoRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	pkg, err := h.service.SetPaymentInfo(c.Context(), principal.User, c.Params("id"), req.Amount, req.Details)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.summary(pkg, principal.Role)})
}

// AttachFile POST /packages/:id/files.
func (h *PackagesHandler) AttachFile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AttachFileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	file, err := h.service.AttachFile(c.Context(), principal.User, c.Params("id"), service.FileInput{
		Kind:       domain.FileKind(strings.ToUpper(req.Kind)),
		StorageKey: req.StorageKey,
		FileName:   req.FileName,
		MimeType:   req.MimeType,
		SizeBytes:  req.SizeBytes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fileResponse(file)})
}

// AddMessage POST /packages/:id/messages.
func (h *PackagesHandler) AddMessage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	msg, err := h.service.AddMessage(c.Context(), principal.User, c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": messageResponse(msg)})
}

// ListHistory GET /packages/:id/history.
func (h *PackagesHandler) ListHistory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	entries, err := h.service.ListHistory(c.Context(), principal.User, c.Params("id"), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.StatusHistoryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, historyResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parsePackageQuery(c *fiber.Ctx) repository.PackageFilter {
	filter := repository.PackageFilter{}
	if statusStr := c.Query("client_status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.ClientStatuses = append(filter.ClientStatuses, domain.ClientStatus(strings.TrimSpace(part)))
		}
	}
	if statusStr := c.Query("logist_status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.LogistStatuses = append(filter.LogistStatuses, domain.LogistStatus(strings.TrimSpace(part)))
		}
	}
	if statusStr := c.Query("manager_status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.ManagerStatuses = append(filter.ManagerStatuses, domain.ManagerStatus(strings.TrimSpace(part)))
		}
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.SearchTerm = &search
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func (h *PackagesHandler) summary(pkg *domain.Package, role domain.Role) dto.PackageSummary {
	status := h.service.VisibleStatus(pkg, role)
	return dto.PackageSummary{
		ID:               pkg.ID,
		TrackingCode:     pkg.TrackingCode,
		ItemName:         pkg.ItemName,
		RecipientName:    pkg.RecipientName,
		DeliveryType:     string(pkg.DeliveryType),
		Status:           status,
		StatusLabel:      workflow.Label(role, status),
		AvailableActions: actionStrings(h.service.AvailableActions(pkg, role)),
		Version:          pkg.Version,
		CreatedAt:        pkg.CreatedAt,
		UpdatedAt:        pkg.UpdatedAt,
	}
}

func (h *PackagesHandler) detail(pkg *domain.Package, role domain.Role, messages []domain.Message, files []domain.PackageFile, history []domain.StatusHistory) dto.PackageDetailResponse {
	status := h.service.VisibleStatus(pkg, role)
	msgs := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		msgs = append(msgs, messageResponse(&messages[i]))
	}
	fileItems := make([]dto.PackageFileResponse, 0, len(files))
	for i := range files {
		fileItems = append(fileItems, fileResponse(&files[i]))
	}
	historyItems := make([]dto.StatusHistoryResponse, 0, len(history))
	for i := range history {
		historyItems = append(historyItems, historyResponse(&history[i]))
	}
	return dto.PackageDetailResponse{
		ID:                pkg.ID,
		TrackingCode:      pkg.TrackingCode,
		ClientID:          pkg.ClientID,
		LogistID:          pkg.LogistID,
		Status:            status,
		StatusLabel:       workflow.Label(role, status),
		StatusDescription: workflow.Describe(role, status),
		AvailableActions:  actionStrings(h.service.AvailableActions(pkg, role)),
		RecipientName:     pkg.RecipientName,
		DeliveryType:      string(pkg.DeliveryType),
		LockerAddress:     pkg.LockerAddress,
		LockerCode:        pkg.LockerCode,
		CourierName:       pkg.CourierName,
		TrackingNumber:    pkg.TrackingNumber,
		EstimatedDelivery: pkg.EstimatedDelivery,
		ItemName:          pkg.ItemName,
		ShopName:          pkg.ShopName,
		Comment:           pkg.Comment,
		ManagerComment:    pkg.ManagerComment,
		PaymentAmount:     pkg.PaymentAmount,
		PaymentDetails:    pkg.PaymentDetails,
		Version:           pkg.Version,
		CreatedAt:         pkg.CreatedAt,
		UpdatedAt:         pkg.UpdatedAt,
		Messages:          msgs,
		Files:             fileItems,
		History:           historyItems,
	}
}

func actionStrings(actions []domain.Action) []string {
	out := make([]string, 0, len(actions))
	for _, action := range actions {
		out = append(out, string(action))
	}
	return out
}

func messageResponse(msg *domain.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:         msg.ID,
		AuthorID:   msg.AuthorID,
		AuthorRole: msg.AuthorRole,
		Body:       msg.Body,
		CreatedAt:  msg.CreatedAt,
	}
}

func fileResponse(file *domain.PackageFile) dto.PackageFileResponse {
	return dto.PackageFileResponse{
		ID:        file.ID,
		Kind:      string(file.Kind),
		FileName:  file.FileName,
		MimeType:  file.MimeType,
		SizeBytes: file.SizeBytes,
		CreatedAt: file.CreatedAt,
	}
}

func historyResponse(entry *domain.StatusHistory) dto.StatusHistoryResponse {
	return dto.StatusHistoryResponse{
		ID:        entry.ID,
		ActorID:   entry.ActorID,
		ActorRole: entry.ActorRole,
		Action:    string(entry.Action),
		Before:    entry.Before,
		After:     entry.After,
		CreatedAt: entry.CreatedAt,
	}
}
