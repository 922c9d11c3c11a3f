package http

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-system/internal/infra/config"
)

const (
	flashCookieSuffix = "_flash"
	flashMaxAge       = 60
)

type flashLevel string

const (
	flashSuccess flashLevel = "success"
	flashError   flashLevel = "error"
	flashInfo    flashLevel = "info"
)

type flash struct {
	Level   flashLevel
	Message string
}

// sessionManager stores the access token and one-shot flash messages in cookies.
type sessionManager struct {
	name   string
	ttl    time.Duration
	secure bool
}

func newSessionManager(cfg config.AuthConfig) *sessionManager {
	name := cfg.CookieName
	if name == "" {
		name = "faq_session"
	}
	return &sessionManager{name: name, ttl: cfg.TokenTTL, secure: cfg.SecureCookie}
}

// start writes the session cookie. Without remember the cookie ends with the browser session.
func (s *sessionManager) start(c *gin.Context, token string, remember bool) {
	maxAge := 0
	if remember {
		maxAge = int(s.ttl.Seconds())
	}
	s.set(c, s.name, token, maxAge)
}

func (s *sessionManager) token(c *gin.Context) (string, bool) {
	value, err := c.Cookie(s.name)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

func (s *sessionManager) clear(c *gin.Context) {
	s.set(c, s.name, "", -1)
}

func (s *sessionManager) addFlash(c *gin.Context, level flashLevel, message string) {
	s.set(c, s.name+flashCookieSuffix, url.QueryEscape(string(level)+"|"+message), flashMaxAge)
}

// popFlash returns the pending flash message and clears it.
func (s *sessionManager) popFlash(c *gin.Context) *flash {
	// gin unescapes cookie values on read.
	decoded, err := c.Cookie(s.name + flashCookieSuffix)
	if err != nil || decoded == "" {
		return nil
	}
	s.set(c, s.name+flashCookieSuffix, "", -1)
	level, message, ok := strings.Cut(decoded, "|")
	if !ok || message == "" {
		return nil
	}
	return &flash{Level: flashLevel(level), Message: message}
}

func (s *sessionManager) set(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   s.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
