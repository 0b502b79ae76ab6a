package dto

import (
	"time"

	"feedback-system/backend/internal/model"
)

// TimeFormat 对外输出的时间格式
const TimeFormat = time.RFC3339

// ── 认证模块响应 ──

// LoginResponse 登录成功响应
type LoginResponse struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	ExpiresIn int    `json:"expiresIn"` // Token 有效期（秒）
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"createdAt"`
}

// NewUserResponse 由模型构造用户响应
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.UserID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt.Format(TimeFormat),
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis,omitempty"`
}
