package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/package-tracking/internal/config"
	"github.com/spec-kit/package-tracking/internal/domain"
	"github.com/spec-kit/package-tracking/internal/events"
	"github.com/spec-kit/package-tracking/internal/repository"
	"github.com/spec-kit/package-tracking/internal/workflow"
	apperrors "github.com/spec-kit/package-tracking/pkg/util/errorutil"
)

// NotificationService persists notifications for domain events and serves
// the per-user notification feed. Delivery transports stay stubbed; rows in
// the notifications table are the source of truth.
type NotificationService struct {
	dispatcher    events.Dispatcher
	notifications repository.NotificationRepository
	users         repository.UserRepository
	logger        *zap.Logger
	cfg           config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, notifications repository.NotificationRepository, users repository.UserRepository, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher:    dispatcher,
		notifications: notifications,
		users:         users,
		logger:        logger,
		cfg:           cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPackageCreated, n.handlePackageCreated)
	n.dispatcher.Subscribe(events.EventPackageStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventPaymentInfoSet, n.handlePaymentInfoSet)
	n.dispatcher.Subscribe(events.EventMessageAdded, n.handleMessageAdded)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordReset)
}

// List returns the actor's notification feed.
func (n *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	return n.notifications.ListByUser(ctx, userID, unreadOnly, limit, offset)
}

// CountUnread returns the unread badge count.
func (n *NotificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	return n.notifications.CountUnread(ctx, userID)
}

// MarkRead flips a notification to read. Only the targeted user may do so.
func (n *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := n.notifications.MarkRead(ctx, notificationID, userID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("notification", map[string]any{"notification_id": notificationID})
		}
		return err
	}
	return nil
}

func (n *NotificationService) handlePackageCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PackageCreatedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("PackageCreated", zap.String("package_id", event.PackageID), zap.String("tracking_code", payload.TrackingCode))

	body := fmt.Sprintf("New package %s awaiting dispatch to logist", payload.TrackingCode)
	n.notifyStaff(ctx, event.PackageID, body)
	n.sendEmailStub(event)
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StatusChangedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("PackageStatusChanged",
		zap.String("package_id", event.PackageID),
		zap.String("action", string(payload.Action)))

	if payload.Before.Client != payload.After.Client && event.Actor.UserID != payload.ClientID {
		n.create(ctx, payload.ClientID, domain.NotificationStatusChange, event.PackageID,
			"Package status: "+workflow.Label(domain.RoleClient, string(payload.After.Client)))
	}
	if payload.Before.Logist != payload.After.Logist && event.Actor.UserID != payload.LogistID {
		n.create(ctx, payload.LogistID, domain.NotificationStatusChange, event.PackageID,
			"Package status: "+workflow.Label(domain.RoleLogist, string(payload.After.Logist)))
	}
	if payload.Before.Manager != payload.After.Manager && !event.Actor.Role.IsStaff() {
		n.notifyStaff(ctx, event.PackageID,
			"Package status: "+workflow.Label(domain.RoleManager, string(payload.After.Manager)))
	}
	n.sendWebhookStub(event)
	return nil
}

func (n *NotificationService) handlePaymentInfoSet(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PaymentInfoSetPayload)
	if !ok {
		return nil
	}
	n.create(ctx, payload.ClientID, domain.NotificationSystem, event.PackageID,
		"Payment details are available for your package")
	n.sendEmailStub(event)
	return nil
}

func (n *NotificationService) handleMessageAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MessageAddedPayload)
	if !ok {
		return nil
	}
	body := "New message: " + payload.BodyPreview
	if event.Actor.UserID != payload.ClientID {
		n.create(ctx, payload.ClientID, domain.NotificationSystem, event.PackageID, body)
	}
	if event.Actor.UserID != payload.LogistID {
		n.create(ctx, payload.LogistID, domain.NotificationSystem, event.PackageID, body)
	}
	return nil
}

func (n *NotificationService) handlePasswordReset(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return nil
	}
	n.create(ctx, payload.UserID, domain.NotificationPasswordReset, "",
		"A password reset was requested for your account")
	n.sendEmailStub(event)
	return nil
}

func (n *NotificationService) create(ctx context.Context, userID string, kind domain.NotificationKind, packageID, body string) {
	if n.notifications == nil || userID == "" {
		return
	}
	notification := &domain.Notification{
		UserID: userID,
		Kind:   kind,
		Body:   body,
	}
	if packageID != "" {
		notification.PackageID = &packageID
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		n.logger.Error("create notification", zap.Error(err), zap.String("user_id", userID))
	}
}

// notifyStaff fans a system notification out to every active manager and
// admin.
func (n *NotificationService) notifyStaff(ctx context.Context, packageID, body string) {
	if n.users == nil {
		return
	}
	active := true
	for _, role := range []domain.Role{domain.RoleManager, domain.RoleAdmin} {
		roleCopy := role
		staff, err := n.users.List(ctx, repository.UserFilter{Role: &roleCopy, Active: &active})
		if err != nil {
			n.logger.Error("list staff for notification", zap.Error(err))
			continue
		}
		for _, member := range staff {
			n.create(ctx, member.ID, domain.NotificationSystem, packageID, body)
		}
	}
}

func (n *NotificationService) sendEmailStub(event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("package_id", event.PackageID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookStub(event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("package_id", event.PackageID),
		zap.String("event_type", string(event.Type)))
}
