package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"feedback-system/backend/internal/dto"
)

// Pinger 可探活的依赖（*sql.DB、Redis 客户端）
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc 将普通函数适配为 Pinger
type PingFunc func(ctx context.Context) error

// PingContext 实现 Pinger
func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// HealthHandler 服务健康检查
type HealthHandler struct {
	db  Pinger
	rdb Pinger // 可为 nil
}

// NewHealthHandler 创建 HealthHandler
func NewHealthHandler(db, rdb Pinger) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Check 数据库不可用时返回 503；Redis 仅报告状态
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Database: "up"}
	status := http.StatusOK

	if h.db == nil || h.db.PingContext(ctx) != nil {
		resp.Status = "degraded"
		resp.Database = "down"
		status = http.StatusServiceUnavailable
	}
	if h.rdb != nil {
		resp.Redis = "up"
		if h.rdb.PingContext(ctx) != nil {
			resp.Redis = "down"
		}
	}

	c.JSON(status, resp)
}
