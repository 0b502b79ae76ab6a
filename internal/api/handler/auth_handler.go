package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"feedback-system/backend/internal/dto"
	"feedback-system/backend/internal/service"
	pkgerrors "feedback-system/backend/pkg/errors"
	"feedback-system/backend/pkg/response"
)

// AuthHealthMessage GET /api/auth/health 的固定响应
const AuthHealthMessage = "课程反馈系统 - 运行中"

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 用户登录
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Health 认证服务可用性
// GET /api/auth/health
func (h *AuthHandler) Health(c *gin.Context) {
	response.Text(c, AuthHealthMessage)
}

// Logout 用户登出（Token 加入黑名单）
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp := GetTokenInfo(c)
	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		response.ServiceUnavailable(c)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me 当前登录用户信息
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	response.OK(c, dto.NewUserResponse(user))
}

func handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, 11001, "邮箱或密码错误")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 11002, "邮箱已被注册")
	case errors.Is(err, service.ErrInvalidRole):
		response.BadRequest(c, 10001, "无效的角色")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11003, "用户不存在")
	case errors.Is(err, pkgerrors.ErrStoreUnavailable):
		response.ServiceUnavailable(c)
	default:
		response.InternalError(c)
	}
}
