package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feedback-system/backend/config"
	"feedback-system/backend/internal/api/handler"
	"feedback-system/backend/internal/api/middleware"
	"feedback-system/backend/internal/model"
	"feedback-system/backend/pkg/jwt"
	"feedback-system/backend/pkg/redis"
	"feedback-system/backend/pkg/validator"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时黑名单与登录限流均降级为放行
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) (*gin.Engine, error) {
	if err := validator.Register(); err != nil {
		return nil, err
	}

	// 避免 typed nil 落入接口
	var (
		blacklist middleware.TokenChecker
		limiter   middleware.RateLimiter
	)
	if rdb != nil {
		blacklist = rdb
		limiter = rdb
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", h.Health.Check)

	student := middleware.RoleAuth(model.RoleStudent)
	admin := middleware.RoleAuth(model.RoleAdmin)
	anyRole := middleware.RoleAuth(model.RoleStudent, model.RoleAdmin)

	api := r.Group("/api")
	{
		// 认证模块（无需认证）
		auth := api.Group("/auth")
		{
			auth.POST("/login",
				middleware.LoginRateLimit(limiter, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow, logger),
				h.Auth.Login,
			)
			auth.GET("/health", h.Auth.Health)
		}

		// 需要认证的路由
		authorized := api.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 反馈模块
			feedbacks := authorized.Group("/feedbacks")
			{
				feedbacks.POST("", anyRole, h.Feedback.Create)
				feedbacks.GET("/me", student, h.Feedback.Mine)
				feedbacks.GET("/:id", anyRole, h.Feedback.GetByID)
			}

			// 管理模块
			adm := authorized.Group("/admin", admin)
			{
				adm.POST("/users", h.Admin.RegisterUser)

				adm.GET("/feedbacks", h.Admin.ListFeedbacks)
				adm.GET("/feedbacks/urgent", h.Admin.ListUrgent)
				adm.GET("/feedbacks/recent", h.Admin.ListRecent)
				adm.PATCH("/feedbacks/:id/urgent", h.Admin.UpdateUrgency)

				adm.GET("/courses/:course/feedbacks", h.Admin.ListByCourse)
				adm.GET("/courses/:course/average", h.Admin.CourseAverage)

				adm.POST("/report/weekly", h.Admin.WeeklyReport)
				adm.GET("/report/weekly/text", h.Admin.WeeklyReportText)
				adm.GET("/report/weekly/export", h.Admin.ExportWeeklyReport)
				adm.POST("/report/weekly/send", h.Admin.SendWeeklyReport)
				adm.POST("/report/full", h.Admin.FullReport)

				adm.GET("/stats", h.Admin.Stats)
			}
		}
	}

	return r, nil
}
