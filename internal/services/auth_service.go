// Package services – AuthService
//
// This file implements admin authentication: credential verification against
// bcrypt hashes, server-side session issuance and revocation, and per-email
// login throttling. Predictable failures surface as the service-level
// sentinels ErrInvalidCredential, ErrTooManyAttempts, and ErrNoSession;
// anything else is an infrastructure error and propagates raw.
package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/https-aaryannn/anonbox/internal/domain"
	"github.com/https-aaryannn/anonbox/internal/repo"
)

// AuthService verifies admin credentials and manages login sessions.
type AuthService struct {
	// DB is the database handle used for account and session rows.
	DB *gorm.DB

	// SessionTTL is how long an issued session stays valid.
	SessionTTL time.Duration

	// State broadcasts session changes to in-process subscribers.
	State *SessionState

	// AttemptRPS and AttemptBurst bound login attempts per email. Zero values
	// fall back to 1 attempt per 12s with a burst of 5.
	AttemptRPS   float64
	AttemptBurst int

	mu       sync.Mutex
	attempts map[string]*loginBucket
}

// loginBucket tracks the throttle for one email along with its last use, so
// idle entries can be evicted.
type loginBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewAuthService constructs an AuthService with sane session and throttle
// defaults.
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{
		DB:           db,
		SessionTTL:   12 * time.Hour,
		State:        NewSessionState(),
		AttemptRPS:   1.0 / 12.0,
		AttemptBurst: 5,
		attempts:     make(map[string]*loginBucket),
	}
}

// EnsureAdmin creates the bootstrap reviewer account when no accounts exist
// yet. It is a no-op otherwise, so restarts never clobber a rotated password.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	count, err := repo.CountAdmins(ctx, s.DB)
	if err != nil || count > 0 {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = repo.CreateAdmin(ctx, s.DB, email, string(hash))
	return err
}

// Login verifies the credential pair and issues a session.
//
// Semantics:
//   - Throttled identities fail fast with ErrTooManyAttempts before any
//     database work.
//   - Unknown email and wrong password both yield ErrInvalidCredential.
//   - A successful login consumes no throttle token refund; the bucket
//     refills on its own schedule.
//
// On success the new session becomes the current one in State and all
// subscribers are notified.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = normalizeEmail(email)

	if !s.allowAttempt(email) {
		return nil, ErrTooManyAttempts
	}

	admin, err := repo.GetAdminByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredential
	}

	sess, err := repo.CreateSession(ctx, s.DB, admin, s.SessionTTL)
	if err != nil {
		return nil, err
	}
	s.State.set(sess)
	return sess, nil
}

// Logout revokes the session token. Revoking an unknown token is not an
// error. If the revoked session was the current one in State, subscribers
// are notified with nil.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := repo.DeleteSession(ctx, s.DB, token); err != nil {
		return err
	}
	s.State.clear(token)
	return nil
}

// Validate resolves a bearer token to its session, or ErrNoSession when the
// token is unknown, expired, or revoked.
func (s *AuthService) Validate(ctx context.Context, token string) (*domain.Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrNoSession
	}
	sess, err := repo.GetSession(ctx, s.DB, token, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	return sess, nil
}

// allowAttempt consumes a throttle token for email, creating the bucket on
// first use and evicting buckets idle for over an hour.
func (s *AuthService) allowAttempt(email string) bool {
	rps := s.AttemptRPS
	if rps <= 0 {
		rps = 1.0 / 12.0
	}
	burst := s.AttemptBurst
	if burst <= 0 {
		burst = 5
	}

	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempts == nil {
		s.attempts = make(map[string]*loginBucket)
	}
	for k, b := range s.attempts {
		if now.Sub(b.lastSeen) >= time.Hour {
			delete(s.attempts, k)
		}
	}

	b, ok := s.attempts[email]
	if !ok {
		b = &loginBucket{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
		s.attempts[email] = b
	}
	b.lastSeen = now
	return b.limiter.Allow()
}

// normalizeEmail lowercases and trims an email for use as a lookup and
// throttle key.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
