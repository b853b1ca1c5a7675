package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/RNikdata/RAB/config"
)

var (
	ErrTokenExpired = errors.New("token 已过期")
	ErrTokenInvalid = errors.New("token 无效")
)

const issuer = "rab"

// Claims 会话 JWT 声明
type Claims struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	jwtv5.RegisteredClaims
}

// Manager JWT 管理器
type Manager struct {
	secret     []byte
	sessionTTL time.Duration
}

// NewManager 创建 JWT 管理器
func NewManager(cfg *config.AuthConfig) *Manager {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Manager{
		secret:     []byte(cfg.JWTSecret),
		sessionTTL: ttl,
	}
}

// SessionTTL 会话有效期
func (m *Manager) SessionTTL() time.Duration { return m.sessionTTL }

// GenerateSessionToken 为静态账号签发会话 Token
func (m *Manager) GenerateSessionToken(username, displayName, role string) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		Username:    username,
		DisplayName: displayName,
		Role:        role,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   username,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.sessionTTL)),
			Issuer:    issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// ParseToken 解析并验证 Token
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwtv5.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// RemainingTTL Token 剩余有效期（用于黑名单 TTL）
func (c *Claims) RemainingTTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}
