package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"feedback-system/backend/config"
	"feedback-system/backend/internal/dto"
	"feedback-system/backend/internal/model"
	"feedback-system/backend/internal/repository"
	"feedback-system/backend/pkg/jwt"
)

var (
	// ErrInvalidCredentials 邮箱不存在、密码错误、账号停用统一返回该错误，避免枚举用户
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrInvalidRole        = errors.New("无效的角色")
)

// bcryptCost 密码哈希强度（测试中可调低）
var bcryptCost = bcrypt.DefaultCost

// TokenBlacklist Token 黑名单（由 Redis 实现）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	RegisterUser(ctx context.Context, req *dto.RegisterUserRequest) (*model.User, error)
	GetCurrentUser(ctx context.Context, userID string) (*model.User, error)
	// Logout 将 Token 加入黑名单直至过期；未启用黑名单时为空操作
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	// EnsureBootstrapAdmin 启动时创建初始管理员，已存在则跳过
	EnsureBootstrapAdmin(ctx context.Context, cfg config.BootstrapAdminConfig) error
}

type authService struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
	now       func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService 创建 AuthService 实例；blacklist 可为 nil
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
		now:       time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// dummyCompare 对不存在的邮箱执行一次等价的 bcrypt 比较，使两条失败路径耗时一致
func (s *authService) dummyCompare(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("feedback-system-dummy"), bcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(req.Email)

	// 1. 查询用户
	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.dummyCompare(req.Password)
			s.logger.Warn("登录失败", zap.String("email", email))
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, storeErr(err)
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("登录失败", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		s.logger.Warn("停用账号尝试登录", zap.String("user_id", user.UserID))
		return nil, ErrInvalidCredentials
	}

	// 3. 生成 Token
	token, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Email, string(user.Role))
	if err != nil {
		s.logger.Error("生成 Token 失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户登录成功",
		zap.String("user_id", user.UserID),
		zap.String("role", string(user.Role)),
	)

	return &dto.LoginResponse{
		Token:     token,
		Type:      "Bearer",
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		ExpiresIn: int(s.jwtMgr.AccessTokenTTL().Seconds()),
	}, nil
}

func (s *authService) RegisterUser(ctx context.Context, req *dto.RegisterUserRequest) (*model.User, error) {
	email := normalizeEmail(req.Email)
	role := model.Role(req.Role)
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	exists, err := s.repo.User.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("检查邮箱失败", zap.Error(err))
		return nil, storeErr(err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		Active:       true,
	}
	user.Stamp(s.now().UTC())

	if err := s.repo.User.Create(ctx, user); err != nil {
		// 并发注册由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, storeErr(err)
	}

	s.logger.Info("用户注册成功",
		zap.String("user_id", user.UserID),
		zap.String("role", string(user.Role)),
	)
	return user, nil
}

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, storeErr(err)
	}
	return user, nil
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil || jti == "" {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, expiresAt.Sub(s.now())); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.Error(err))
		return err
	}
	s.logger.Info("用户已登出", zap.String("jti", jti))
	return nil
}

func (s *authService) EnsureBootstrapAdmin(ctx context.Context, cfg config.BootstrapAdminConfig) error {
	if cfg.Email == "" {
		return nil
	}

	name := cfg.Name
	if name == "" {
		name = "Administrator"
	}
	_, err := s.RegisterUser(ctx, &dto.RegisterUserRequest{
		Email:    cfg.Email,
		Password: cfg.Password,
		Name:     name,
		Role:     string(model.RoleAdmin),
	})
	if errors.Is(err, ErrEmailExists) {
		s.logger.Debug("初始管理员已存在", zap.String("email", normalizeEmail(cfg.Email)))
		return nil
	}
	return err
}
