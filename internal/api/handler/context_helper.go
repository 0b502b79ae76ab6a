package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"feedback-system/backend/internal/api/middleware"
	"feedback-system/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, middleware.CtxUserID)
}

// MustGetEmail 从 Gin 上下文中安全提取当前用户 email。
func MustGetEmail(c *gin.Context) (string, bool) {
	return mustGetString(c, middleware.CtxEmail)
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, middleware.CtxRole)
}

// GetTokenInfo 读取当前 Token 的 jti 与过期时间（可能为空）
func GetTokenInfo(c *gin.Context) (string, time.Time) {
	return c.GetString(middleware.CtxTokenJTI), c.GetTime(middleware.CtxTokenExp)
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// bindError 请求绑定失败：超限返回 413，其余返回 400
func bindError(c *gin.Context, err error) {
	if middleware.IsBodyTooLarge(err) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", err.Error())
}
