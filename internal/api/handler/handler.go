package handler

import "feedback-system/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	Feedback *FeedbackHandler
	Admin    *AdminHandler
	Health   *HealthHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, db Pinger, rdb Pinger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		Feedback: NewFeedbackHandler(svc.Feedback),
		Admin:    NewAdminHandler(svc.Auth, svc.Feedback, svc.Report),
		Health:   NewHealthHandler(db, rdb),
	}
}
