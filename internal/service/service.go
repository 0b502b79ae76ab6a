package service

import (
	"go.uber.org/zap"

	"feedback-system/backend/config"
	"feedback-system/backend/internal/repository"
	"feedback-system/backend/pkg/jwt"
	"feedback-system/backend/pkg/mail"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Feedback     FeedbackService
	Report       ReportService
	Notification NotificationService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	sender mail.Sender,
	logger *zap.Logger,
) *Service {
	notification := NewNotificationService(&cfg.Notification, logger)
	feedback := NewFeedbackService(repo, notification, logger)

	return &Service{
		Auth:         NewAuthService(repo, jwtMgr, blacklist, logger),
		Feedback:     feedback,
		Report:       NewReportService(feedback, sender, cfg.Report.Mail, logger),
		Notification: notification,
	}
}
