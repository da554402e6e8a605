package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/https-aaryannn/anonbox/internal/http/middleware"
	"github.com/https-aaryannn/anonbox/internal/services"
)

// LoginRequest carries admin credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"admin@example.com"`
	Password string `json:"password" binding:"required" example:"hunter2"`
}

// LoginResponse returns the issued bearer token.
type LoginResponse struct {
	Token     string    `json:"token" example:"8f7c1e2a-52f1-4b0e-9f52-9a1d1c2e3f40"`
	Email     string    `json:"email" example:"admin@example.com"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login godoc
// @ID          adminLogin
// @Summary     Admin login
// @Description Verifies credentials and issues an opaque session token. Failed attempts are throttled per email.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
//
// @Success     200  {object} handlers.LoginResponse
// @Failure     400  {object} handlers.ErrorResponse "Malformed body"
// @Failure     401  {object} handlers.ErrorResponse "Unknown email or wrong password"
// @Failure     429  {object} handlers.ErrorResponse "Too many failed attempts"
// @Failure     500  {object} handlers.ErrorResponse "Internal error (detail preserved)"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password are required")
		return
	}

	sess, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch err {
		case services.ErrInvalidCredential:
			// Unknown email and wrong password collapse into one message.
			fail(c, http.StatusUnauthorized, ErrCodeInvalidCredential, "Invalid email or password.")
		case services.ErrTooManyAttempts:
			fail(c, http.StatusTooManyRequests, ErrCodeRateLimited, "Too many failed attempts. Try again later.")
		default:
			// Infrastructure failures keep their technical detail so the
			// operator can tell a dead database from a typo.
			failDetail(c, http.StatusInternalServerError, ErrCodeInternal, "login failed", err.Error())
		}
		return
	}

	ok(c, http.StatusOK, LoginResponse{
		Token:     sess.Token,
		Email:     sess.Email,
		ExpiresAt: sess.ExpiresAt,
	})
}

// Logout godoc
// @ID          adminLogout
// @Summary     Admin logout
// @Description Revokes the presented session token. Revoking an already-revoked token is not an error.
// @Tags        Auth
// @Produce     json
//
// @Param       Authorization  header  string  true "Bearer session token"
//
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid session"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /auth/logout [post]
func (h *Handlers) Logout(c *gin.Context) {
	token := middleware.SessionToken(c)
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}
