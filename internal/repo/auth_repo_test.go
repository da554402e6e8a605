package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/https-aaryannn/anonbox/internal/domain"
)

func TestCreateAdmin_And_GetAdminByEmail(t *testing.T) {
	db := newConfessionRepoDB(t, &domain.AdminUser{})
	ctx := context.Background()

	admin, err := CreateAdmin(ctx, db, "reviewer@example.com", "$2a$10$hash")
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	if admin.ID == "" || admin.Email != "reviewer@example.com" {
		t.Fatalf("unexpected admin: %+v", admin)
	}

	got, err := GetAdminByEmail(ctx, db, "reviewer@example.com")
	if err != nil {
		t.Fatalf("GetAdminByEmail: %v", err)
	}
	if got.ID != admin.ID || got.PasswordHash != "$2a$10$hash" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}

	if _, err := GetAdminByEmail(ctx, db, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for unknown email, got %v", err)
	}

	count, err := CountAdmins(ctx, db)
	if err != nil || count != 1 {
		t.Fatalf("CountAdmins: want 1, got %d (%v)", count, err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := newConfessionRepoDB(t, &domain.AdminUser{}, &domain.Session{})
	ctx := context.Background()

	admin, err := CreateAdmin(ctx, db, "reviewer@example.com", "h")
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	sess, err := CreateSession(ctx, db, admin, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sess.Token == "" || sess.AdminID != admin.ID || sess.Email != admin.Email {
		t.Fatalf("unexpected session: %+v", sess)
	}

	now := time.Now().UTC()
	got, err := GetSession(ctx, db, sess.Token, now)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Token != sess.Token {
		t.Fatalf("token mismatch: %q vs %q", got.Token, sess.Token)
	}

	// Revocation is by row delete; a revoked token is gone.
	if err := DeleteSession(ctx, db, sess.Token); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := GetSession(ctx, db, sess.Token, now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after revoke, got %v", err)
	}

	// Revoking an unknown token is not an error.
	if err := DeleteSession(ctx, db, "no-such-token"); err != nil {
		t.Fatalf("repeated revoke must succeed, got %v", err)
	}
}

func TestGetSession_ExpiredIsEvicted(t *testing.T) {
	db := newConfessionRepoDB(t, &domain.AdminUser{}, &domain.Session{})
	ctx := context.Background()

	admin, _ := CreateAdmin(ctx, db, "reviewer@example.com", "h")
	sess, err := CreateSession(ctx, db, admin, time.Minute)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	// Look up "after" expiry.
	later := time.Now().UTC().Add(2 * time.Minute)
	if _, err := GetSession(ctx, db, sess.Token, later); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for expired session, got %v", err)
	}

	// The expired row is removed on lookup, not just hidden.
	var count int64
	if err := db.Model(&domain.Session{}).Where("token = ?", sess.Token).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expired session row should be deleted, found %d", count)
	}
}

func TestPurgeExpiredSessions(t *testing.T) {
	db := newConfessionRepoDB(t, &domain.AdminUser{}, &domain.Session{})
	ctx := context.Background()

	admin, _ := CreateAdmin(ctx, db, "reviewer@example.com", "h")
	live, _ := CreateSession(ctx, db, admin, time.Hour)
	dead, _ := CreateSession(ctx, db, admin, time.Millisecond)

	time.Sleep(5 * time.Millisecond)
	if err := PurgeExpiredSessions(ctx, db, time.Now().UTC()); err != nil {
		t.Fatalf("PurgeExpiredSessions: %v", err)
	}

	if _, err := GetSession(ctx, db, live.Token, time.Now().UTC()); err != nil {
		t.Fatalf("live session should survive purge: %v", err)
	}
	var count int64
	db.Model(&domain.Session{}).Where("token = ?", dead.Token).Count(&count)
	if count != 0 {
		t.Fatalf("expired session should be purged")
	}
}

func TestIdempotencyRecords(t *testing.T) {
	db := newConfessionRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()
	now := time.Now().UTC()

	rec, err := CreateIdempotency(ctx, db, "key-1", "conf-1", 201, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.Key != "key-1" || rec.ConfessionID != "conf-1" || rec.Status != 201 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "key-1", now)
	if err != nil || got == nil {
		t.Fatalf("GetIdempotency: %+v, %v", got, err)
	}

	// Same key again is a duplicate.
	if _, err := CreateIdempotency(ctx, db, "key-1", "conf-2", 201, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}

	// Unknown, expired, and blank keys read back as absent.
	if _, err := GetIdempotency(ctx, db, "missing", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown key: want ErrNotFound, got %v", err)
	}
	if _, err := GetIdempotency(ctx, db, "key-1", now.Add(2*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired key: want ErrNotFound, got %v", err)
	}
	if _, err := GetIdempotency(ctx, db, "  ", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("blank key: want ErrNotFound, got %v", err)
	}
}

func TestGetIdempotency_QueryError_NilRecord(t *testing.T) {
	// No migration: the query fails with a real database error.
	db := newConfessionRepoDB(t)
	ctx := context.Background()

	rec, err := GetIdempotency(ctx, db, "key-1", time.Now().UTC())
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("want a query error, got %v", err)
	}
	if rec != nil {
		t.Fatalf("record must be nil on error, got %+v", rec)
	}
}
