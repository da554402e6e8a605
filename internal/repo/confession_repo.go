// Package repo implements the data persistence layer, backed by GORM. This
// file is the moderation store adapter: the single place that knows the
// durable confession row shape and translates it to and from the canonical
// domain.Confession.
//
// The durable row intentionally differs from the canonical record: the read
// flag is stored in a column named "read" (canonical name is isRead), the
// creation time is a native DATETIME (canonical is epoch milliseconds), and
// the optional AI annotation is a JSON text column. Nothing outside this file
// may depend on those details.
//
// Error semantics:
//   - Any underlying I/O failure is wrapped in *StoreError carrying the
//     failed operation name and the cause. Nothing retries automatically.
//   - SetConfessionRead / SetConfessionArchived / DeleteConfession do not
//     verify that the target id exists; a missing id is a silent no-op,
//     matching the store's last-write-wins contract.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/https-aaryannn/anonbox/internal/domain"
)

const (
	// MaxContentChars caps confession content length, counted in runes.
	MaxContentChars = 1000

	// MaxListConfessions is the fetch cap applied by ListConfessions.
	MaxListConfessions = 100
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across layers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrContentOverflow is returned by CreateConfession when content exceeds
// MaxContentChars. The submission service validates first; this is the
// adapter-boundary backstop.
var ErrContentOverflow = errors.New("content exceeds maximum length")

// StoreError wraps any persistence failure with the operation that produced
// it. Callers unwrap with errors.As / errors.Is to reach the cause.
type StoreError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string { return "store: " + e.Op + ": " + e.Err.Error() }

// Unwrap returns the underlying cause.
func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// confessionRow is the durable shape. Column names are part of the external
// storage contract ("read", not "is_read") and must not drift.
type confessionRow struct {
	ID         string    `gorm:"type:char(36);primaryKey"`
	Content    string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time // bookkeeping for conditional responses, never exposed
	Read       bool      `gorm:"column:read;not null;default:false"`
	Archived   bool      `gorm:"not null;default:false"`
	AIAnalysis *string   `gorm:"column:ai_analysis;type:text"`
}

// TableName returns the database table name for confession rows.
func (confessionRow) TableName() string { return "confessions" }

// toDomain maps a durable row into the canonical shape. A zero timestamp
// becomes "now", and a malformed annotation blob is dropped rather than
// failing the whole read.
func (r confessionRow) toDomain(now time.Time) domain.Confession {
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	c := domain.Confession{
		ID:        r.ID,
		Content:   r.Content,
		CreatedAt: createdAt.UnixMilli(),
		IsRead:    r.Read,
		Archived:  r.Archived,
	}
	if r.AIAnalysis != nil && *r.AIAnalysis != "" {
		var a domain.AIAnalysis
		if err := json.Unmarshal([]byte(*r.AIAnalysis), &a); err == nil {
			c.AIAnalysis = &a
		}
	}
	return c
}

// CreateConfession persists a new confession with both flags false and the
// creation time set to the current clock. Empty (after trimming) content is
// a silent no-op returning (nil, nil); over-length content is rejected with
// ErrContentOverflow before any write is issued.
func CreateConfession(ctx context.Context, db *gorm.DB, content string) (*domain.Confession, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(content) > MaxContentChars {
		return nil, ErrContentOverflow
	}

	row := &confessionRow{
		ID:        uuid.NewString(),
		Content:   content,
		CreatedAt: time.Now().UTC(),
		Read:      false,
		Archived:  false,
	}
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, storeErr("create", err)
	}
	c := row.toDomain(row.CreatedAt)
	return &c, nil
}

// ListConfessions returns confessions newest first, capped at
// MaxListConfessions. A limit <= 0 or above the cap is clamped to the cap.
// The read is all-or-nothing: any row failure fails the whole call.
func ListConfessions(ctx context.Context, db *gorm.DB, limit int) ([]domain.Confession, error) {
	if limit <= 0 || limit > MaxListConfessions {
		limit = MaxListConfessions
	}

	var rows []confessionRow
	err := db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, storeErr("list", err)
	}

	now := time.Now().UTC()
	out := make([]domain.Confession, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain(now))
	}
	return out, nil
}

// GetConfession fetches a single confession by id, or ErrNotFound.
func GetConfession(ctx context.Context, db *gorm.DB, id string) (*domain.Confession, error) {
	var row confessionRow
	err := db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get", err)
	}
	c := row.toDomain(time.Now().UTC())
	return &c, nil
}

// SetConfessionRead updates only the read flag of the target row. It never
// touches content, created_at, or archived, so interleaved single-field
// updates from concurrent reviewers cannot clobber each other's fields.
func SetConfessionRead(ctx context.Context, db *gorm.DB, id string, value bool) error {
	err := db.WithContext(ctx).
		Model(&confessionRow{}).
		Where("id = ?", id).
		Update("read", value).Error
	return storeErr("set_read", err)
}

// SetConfessionArchived updates only the archived flag, symmetric to
// SetConfessionRead.
func SetConfessionArchived(ctx context.Context, db *gorm.DB, id string, value bool) error {
	err := db.WithContext(ctx).
		Model(&confessionRow{}).
		Where("id = ?", id).
		Update("archived", value).Error
	return storeErr("set_archived", err)
}

// DeleteConfession permanently removes the row. There is no soft delete and
// no tombstone; deleting an id that does not exist is not an error.
func DeleteConfession(ctx context.Context, db *gorm.DB, id string) error {
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&confessionRow{}).Error
	return storeErr("delete", err)
}
