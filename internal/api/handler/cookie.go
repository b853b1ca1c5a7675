package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RNikdata/RAB/config"
)

// SessionCookie 会话 Cookie 的写入与清除
type SessionCookie struct {
	name     string
	domain   string
	secure   bool
	sameSite http.SameSite
}

func NewSessionCookie(cfg *config.CookieConfig) *SessionCookie {
	name := cfg.Name
	if name == "" {
		name = "rab_session"
	}
	sc := &SessionCookie{name: name, domain: cfg.Domain, secure: cfg.Secure}
	switch strings.ToLower(cfg.SameSite) {
	case "strict":
		sc.sameSite = http.SameSiteStrictMode
	case "none":
		sc.sameSite = http.SameSiteNoneMode
	default:
		sc.sameSite = http.SameSiteLaxMode
	}
	return sc
}

// Name Cookie 名称
func (s *SessionCookie) Name() string { return s.name }

func (s *SessionCookie) set(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(s.sameSite)
	c.SetCookie(s.name, token, maxAge, "/", s.domain, s.secure, true)
}

func (s *SessionCookie) clear(c *gin.Context) {
	c.SetSameSite(s.sameSite)
	c.SetCookie(s.name, "", -1, "/", s.domain, s.secure, true)
}
