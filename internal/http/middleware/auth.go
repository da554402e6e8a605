// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file gates the moderation endpoints on an active admin session. The
// review flows have no role or permission distinctions beyond
// authenticated-or-not, so the middleware only resolves the bearer token to
// a session and stashes the admin identity for logging and rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/https-aaryannn/anonbox/internal/domain"
)

// Context keys set by RequireSession for downstream middleware and handlers.
const (
	ctxKeyAdminID      = "adminID"
	ctxKeyAdminEmail   = "adminEmail"
	ctxKeySessionToken = "sessionToken"
)

// SessionValidator resolves a bearer token to an active session. It returns
// an error for unknown, expired, or revoked tokens.
type SessionValidator func(ctx context.Context, token string) (*domain.Session, error)

// RequireSession returns middleware that rejects requests without a valid
// `Authorization: Bearer <token>` session with 401. On success it stores the
// admin id, email, and token in the Gin context.
func RequireSession(validate SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			unauthorized(c, "missing session token")
			return
		}

		sess, err := validate(c.Request.Context(), token)
		if err != nil || sess == nil {
			unauthorized(c, "session invalid or expired")
			return
		}

		c.Set(ctxKeyAdminID, sess.AdminID)
		c.Set(ctxKeyAdminEmail, sess.Email)
		c.Set(ctxKeySessionToken, sess.Token)
		c.Next()
	}
}

// SessionToken returns the bearer token attached by RequireSession, or the
// raw Authorization header token when the route is not session-gated.
func SessionToken(c *gin.Context) string {
	if v, ok := c.Get(ctxKeySessionToken); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return bearerToken(c)
}

// AdminID returns the authenticated admin id, or "" on public routes.
func AdminID(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyAdminID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if h == "" {
		return ""
	}
	const prefix = "bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

// unauthorized writes the standard 401 envelope without importing the
// handlers package (which depends on this one).
func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get("X-Request-ID"),
		"code":       "unauthorized",
		"message":    msg,
	})
}
