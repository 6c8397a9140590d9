package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/service"
)

// StartNotificationWorker attaches the notification handlers to the
// dispatcher. With a nil service it is a no-op, which lets callers run
// with notifications disabled.
func StartNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) {
	if notifications == nil {
		return
	}
	count := notifications.RegisterHandlers()
	if logger != nil {
		logger.Info("notification worker started", zap.Int("handlers", count))
	}
}
