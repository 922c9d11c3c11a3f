package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-system/internal/domain/auth"
	apperrors "github.com/yanqian/faq-system/pkg/errors"
)

// identify resolves the caller from a Bearer header or the session cookie without requiring one.
// A bad Bearer token is rejected outright; a stale session cookie is simply dropped.
func identify(svc auth.Service, sessions *sessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid authorization header", nil))
				return
			}
			claims, err := svc.ValidateToken(c.Request.Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				status := http.StatusForbidden
				code := "invalid_token"
				if !apperrors.IsCode(err, "invalid_token") {
					status = http.StatusInternalServerError
					code = "auth_failed"
				}
				abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
				return
			}
			setClaims(c, claims)
			c.Next()
			return
		}

		if token, ok := sessions.token(c); ok {
			claims, err := svc.ValidateToken(c.Request.Context(), token)
			switch {
			case err == nil:
				setClaims(c, claims)
			case apperrors.IsCode(err, "invalid_token"):
				sessions.clear(c)
			default:
				abortWithDomainError(c, err)
				return
			}
		}
		c.Next()
	}
}

// requireAuth rejects anonymous API callers.
func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := getClaims(c); !ok {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "authentication credentials were not provided", nil))
			return
		}
		c.Next()
	}
}

// requireAuthForWrites lets anyone read and only signed-in users write.
func requireAuthForWrites() gin.HandlerFunc {
	check := requireAuth()
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
		default:
			check(c)
		}
	}
}

// requireLogin sends guests to the login page and remembers where they were going.
func requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := getClaims(c); !ok {
			target := loginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// guestOnly bounces signed-in users away from the login and signup pages.
func guestOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := getClaims(c); ok {
			c.Redirect(http.StatusFound, homePath)
			c.Abort()
			return
		}
		c.Next()
	}
}
