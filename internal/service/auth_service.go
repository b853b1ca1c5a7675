package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/RNikdata/RAB/config"
	"github.com/RNikdata/RAB/internal/dto"
	"github.com/RNikdata/RAB/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
)

// 角色
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleViewer  = "viewer"
)

// AuthService 认证业务接口（静态账号）
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(claims *jwt.Claims) *dto.UserResponse
}

type authService struct {
	cfg       *config.AuthConfig
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例；blacklist 为 nil 时注销仅清除 Cookie
func NewAuthService(
	cfg *config.AuthConfig,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(_ context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查找账号
	user := s.findUser(req.Username)
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 签发 Token
	token, claims, err := s.jwtMgr.GenerateSessionToken(user.Username, user.DisplayName, user.Role)
	if err != nil {
		s.logger.Error("生成 Token 失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户登录", zap.String("username", user.Username), zap.String("role", user.Role))
	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.SessionTTL().Seconds()),
		User:        *s.Me(claims),
	}, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.blacklist == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := claims.RemainingTTL(time.Now())
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) Me(claims *jwt.Claims) *dto.UserResponse {
	return &dto.UserResponse{
		Username:    claims.Username,
		DisplayName: claims.DisplayName,
		Role:        claims.Role,
	}
}

func (s *authService) findUser(username string) *config.UserConfig {
	for i := range s.cfg.Users {
		if strings.EqualFold(s.cfg.Users[i].Username, strings.TrimSpace(username)) {
			return &s.cfg.Users[i]
		}
	}
	return nil
}
