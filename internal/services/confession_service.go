// Package services – ConfessionService
//
// This file implements the ConfessionService, the application-level front of
// the moderation store adapter. It validates submissions before any store
// call is issued and forwards moderation mutations (read/archive toggles,
// deletes) unchanged. Validation failures are reported with service-level
// sentinel errors so handlers can map them to HTTP results consistently;
// store failures propagate as *repo.StoreError.
//
// Observability: public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/https-aaryannn/anonbox/internal/domain"
	"github.com/https-aaryannn/anonbox/internal/repo"
)

// ConfessionRepo defines the store adapter contract required by
// ConfessionService. Implementations own the durable row shape and its
// mapping to domain.Confession.
type ConfessionRepo interface {
	// CreateConfession persists a new confession with both flags false.
	CreateConfession(ctx context.Context, db *gorm.DB, content string) (*domain.Confession, error)

	// ListConfessions returns confessions newest first, capped by the store.
	ListConfessions(ctx context.Context, db *gorm.DB, limit int) ([]domain.Confession, error)

	// SetConfessionRead updates only the read flag of the target record.
	SetConfessionRead(ctx context.Context, db *gorm.DB, id string, value bool) error

	// SetConfessionArchived updates only the archived flag.
	SetConfessionArchived(ctx context.Context, db *gorm.DB, id string, value bool) error

	// DeleteConfession permanently removes the record.
	DeleteConfession(ctx context.Context, db *gorm.DB, id string) error
}

// ConfessionService validates submissions and coordinates store operations.
type ConfessionService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the store adapter used by this service.
	Repo ConfessionRepo

	// MaxContentRunes caps submissions by rune length.
	MaxContentRunes int
	// ListLimit caps how many records List fetches (bounded by the store cap).
	ListLimit int
}

// NewConfessionService constructs a ConfessionService with the store's
// defaults for content length and fetch cap.
func NewConfessionService(db *gorm.DB, r ConfessionRepo) *ConfessionService {
	return &ConfessionService{
		DB:              db,
		Repo:            r,
		MaxContentRunes: repo.MaxContentChars,
		ListLimit:       repo.MaxListConfessions,
	}
}

// Submit validates content and persists a new confession. Empty (after
// trimming) content yields ErrEmptyContent and over-length content yields
// ErrContentTooLong; neither reaches the store.
func (s *ConfessionService) Submit(ctx context.Context, content string) (*domain.Confession, error) {
	tr := otel.Tracer("services/ConfessionService")
	ctx, span := tr.Start(ctx, "Submit",
		trace.WithAttributes(attribute.Int("content.bytes", len(content))),
	)
	defer span.End()

	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if s.MaxContentRunes > 0 && utf8.RuneCountInString(content) > s.MaxContentRunes {
		return nil, ErrContentTooLong
	}
	return s.Repo.CreateConfession(ctx, s.DB, content)
}

// List fetches the working set, newest first, capped at ListLimit.
func (s *ConfessionService) List(ctx context.Context) ([]domain.Confession, error) {
	tr := otel.Tracer("services/ConfessionService")
	ctx, span := tr.Start(ctx, "List")
	defer span.End()

	return s.Repo.ListConfessions(ctx, s.DB, s.ListLimit)
}

// SetRead flips the read flag of the target record. A missing id is a silent
// no-op at the store layer.
func (s *ConfessionService) SetRead(ctx context.Context, id string, value bool) error {
	tr := otel.Tracer("services/ConfessionService")
	ctx, span := tr.Start(ctx, "SetRead",
		trace.WithAttributes(attribute.String("confession.id", id), attribute.Bool("value", value)),
	)
	defer span.End()

	return s.Repo.SetConfessionRead(ctx, s.DB, id, value)
}

// SetArchived flips the archived flag, symmetric to SetRead.
func (s *ConfessionService) SetArchived(ctx context.Context, id string, value bool) error {
	tr := otel.Tracer("services/ConfessionService")
	ctx, span := tr.Start(ctx, "SetArchived",
		trace.WithAttributes(attribute.String("confession.id", id), attribute.Bool("value", value)),
	)
	defer span.End()

	return s.Repo.SetConfessionArchived(ctx, s.DB, id, value)
}

// Delete permanently removes the record. Repeating a delete is not an error.
func (s *ConfessionService) Delete(ctx context.Context, id string) error {
	tr := otel.Tracer("services/ConfessionService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("confession.id", id)),
	)
	defer span.End()

	return s.Repo.DeleteConfession(ctx, s.DB, id)
}
