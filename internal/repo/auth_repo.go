// Package repo implements the data persistence layer, backed by GORM. This
// file provides repository functions for admin accounts and login sessions.
//
// Sessions are opaque server-side rows: the token is the primary key, expiry
// is checked on every lookup, and logout simply deletes the row. Expired rows
// are purged opportunistically by PurgeExpiredSessions.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/https-aaryannn/anonbox/internal/domain"
)

// CreateAdmin inserts a reviewer account with the given email and bcrypt
// password hash.
func CreateAdmin(ctx context.Context, db *gorm.DB, email, passwordHash string) (*domain.AdminUser, error) {
	a := &domain.AdminUser{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, storeErr("create_admin", err)
	}
	return a, nil
}

// GetAdminByEmail fetches an account by email, or ErrNotFound.
func GetAdminByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.AdminUser, error) {
	var a domain.AdminUser
	err := db.WithContext(ctx).Where("email = ?", email).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get_admin", err)
	}
	return &a, nil
}

// CountAdmins returns the number of reviewer accounts.
func CountAdmins(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.AdminUser{}).Count(&total).Error
	if err != nil {
		return 0, storeErr("count_admins", err)
	}
	return total, nil
}

// CreateSession inserts a session for the admin with a fresh opaque token
// and the given time-to-live.
func CreateSession(ctx context.Context, db *gorm.DB, admin *domain.AdminUser, ttl time.Duration) (*domain.Session, error) {
	now := time.Now().UTC()
	s := &domain.Session{
		Token:     uuid.NewString(),
		AdminID:   admin.ID,
		Email:     admin.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, storeErr("create_session", err)
	}
	return s, nil
}

// GetSession returns the session for token if it exists and has not expired
// at `now`; otherwise ErrNotFound. An expired row is deleted on the way out.
func GetSession(ctx context.Context, db *gorm.DB, token string, now time.Time) (*domain.Session, error) {
	var s domain.Session
	err := db.WithContext(ctx).Where("token = ?", token).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get_session", err)
	}
	if s.Expired(now) {
		_ = db.WithContext(ctx).Delete(&domain.Session{}, "token = ?", token).Error
		return nil, ErrNotFound
	}
	return &s, nil
}

// DeleteSession removes the session row. Deleting a token that does not
// exist is not an error, so logout is idempotent.
func DeleteSession(ctx context.Context, db *gorm.DB, token string) error {
	err := db.WithContext(ctx).Delete(&domain.Session{}, "token = ?", token).Error
	return storeErr("delete_session", err)
}

// PurgeExpiredSessions removes all sessions whose expiry is at or before now.
func PurgeExpiredSessions(ctx context.Context, db *gorm.DB, now time.Time) error {
	err := db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&domain.Session{}).Error
	return storeErr("purge_sessions", err)
}
