// Confession HTTP handlers.
//
// This file exposes the public submission endpoint and the session-gated
// moderation endpoints:
//   - POST   /api/confess                      (anonymous submission)
//   - GET    /confessions                      (filtered snapshot, ETag support)
//   - POST   /confessions/refresh              (re-sync snapshot from store)
//   - PATCH  /confessions/{id}/read            (toggle read flag)
//   - PATCH  /confessions/{id}/archive         (toggle archived flag)
//   - DELETE /confessions/{id}                 (permanent delete, confirmed)
//
// Handlers are transport-thin: they validate input, call the submission
// service or the review controller, and translate results into HTTP
// responses. The moderation endpoints serve from the controller's in-memory
// snapshot; only refresh round-trips to the store for the full set.
package handlers

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/https-aaryannn/anonbox/internal/domain"
	"github.com/https-aaryannn/anonbox/internal/http/middleware"
	"github.com/https-aaryannn/anonbox/internal/repo"
	"github.com/https-aaryannn/anonbox/internal/services"
	"github.com/https-aaryannn/anonbox/internal/sysutil"
	"github.com/https-aaryannn/anonbox/internal/utils"
)

//
// Service contracts (context-aware)
//

// SubmissionService accepts anonymous confessions.
type SubmissionService interface {
	// Submit validates content and persists a new confession.
	Submit(ctx context.Context, content string) (*domain.Confession, error)
}

// ReviewController is the admin-facing working set consumed by the
// moderation handlers. Implementations must be safe for concurrent use.
type ReviewController interface {
	// Load replaces the snapshot with a fresh fetch from the store.
	Load(ctx context.Context) error
	// Len returns the size of the current snapshot.
	Len() int
	// Filter returns records matching query, order preserved.
	Filter(query string) []domain.Confession
	// ApplyReadToggle flips the read flag and patches the snapshot on success.
	ApplyReadToggle(ctx context.Context, id string) error
	// ApplyArchiveToggle flips the archived flag likewise.
	ApplyArchiveToggle(ctx context.Context, id string) error
	// ApplyDelete removes the record permanently.
	ApplyDelete(ctx context.Context, id string) error
	// ExportCSV renders the filtered snapshot as CSV text.
	ExportCSV(query string) (string, error)
}

// AuthService handles admin login and logout (see auth_handler.go).
type AuthService interface {
	// Login verifies credentials and issues a session.
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	// Logout revokes the session token.
	Logout(ctx context.Context, token string) error
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for submission, moderation, and auth.
type Handlers struct {
	sub  SubmissionService
	ctrl ReviewController
	auth AuthService

	// db backs ETag stats and idempotency records directly; both are
	// transport concerns that have no business being in the services.
	db      *gorm.DB
	idemTTL time.Duration
}

// New constructs a Handlers instance bound to the given collaborators.
func New(sub SubmissionService, ctrl ReviewController, auth AuthService, db *gorm.DB, idemTTL time.Duration) *Handlers {
	return &Handlers{sub: sub, ctrl: ctrl, auth: auth, db: db, idemTTL: idemTTL}
}

//
// DTOs
//

// SubmitRequest is the JSON payload of an anonymous submission.
type SubmitRequest struct {
	// Content is the confession text (1–1000 chars after trimming).
	Content string `json:"content" binding:"required" example:"I ate the last piece of cake."`
}

// SubmitResponse acknowledges an accepted submission.
type SubmitResponse struct {
	Success bool   `json:"success" example:"true"`
	ID      string `json:"id" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
}

// ListConfessionsResponse wraps the filtered snapshot.
type ListConfessionsResponse struct {
	Confessions []domain.Confession `json:"confessions"`
	// Total is the size of the unfiltered working set.
	Total int `json:"total"`
}

//
// Handlers
//

// SubmitConfession godoc
// @ID          submitConfession
// @Summary     Submit an anonymous confession
// @Description Accepts free-text content up to 1000 characters. Supports Idempotency-Key replay.
// @Tags        Submission
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Client-chosen retry key"
// @Param       body             body    handlers.SubmitRequest  true  "Submission payload"
//
// @Success     201  {object}  handlers.SubmitResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Empty or over-length content"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Failure     500  {object}  handlers.ErrorResponse  "Store failure"
// @Router      /api/confess [post]
func (h *Handlers) SubmitConfession(c *gin.Context) {
	ctx := c.Request.Context()

	// Serve a replay without a second durable write.
	if middleware.IsReplay(c) {
		if key, hasKey := middleware.GetIdempotencyKey(c); hasKey {
			if rec, err := repo.GetIdempotency(ctx, h.db, key, time.Now().UTC()); err == nil && rec != nil {
				status := rec.Status
				if status == 0 {
					status = http.StatusCreated
				}
				ok(c, status, SubmitResponse{Success: true, ID: rec.ConfessionID})
				return
			}
		}
		// Lookup raced with expiry; fall through to normal processing.
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	conf, err := h.sub.Submit(ctx, req.Content)
	if err != nil {
		switch err {
		case services.ErrEmptyContent:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content must not be empty")
		case services.ErrContentTooLong:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content exceeds 1000 characters")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeSubmitFailed, err.Error())
		}
		return
	}

	middleware.CountSubmissionAccepted()

	if key, hasKey := middleware.GetIdempotencyKey(c); hasKey {
		// Best effort: a failed record write only costs replay protection.
		_, _ = repo.CreateIdempotency(ctx, h.db, key, conf.ID, http.StatusCreated, h.idemTTL)
	}

	ok(c, http.StatusCreated, SubmitResponse{Success: true, ID: conf.ID})
}

// ListConfessions godoc
// @ID          listConfessions
// @Summary     List confessions (filtered snapshot)
// @Description Returns the in-memory working set filtered by the q parameter. Supports weak ETag via If-None-Match.
// @Tags        Moderation
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer session token"
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       q              query   string  false "Case-insensitive substring over content"
// @Param       limit          query   int     false "Truncate the filtered result"
//
// @Success     200  {object} handlers.ListConfessionsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid session"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /confessions [get]
func (h *Handlers) ListConfessions(c *gin.Context) {
	ctx := c.Request.Context()
	query := c.Query("q")

	// ETag pre-check (best effort): the validator covers the store contents
	// and the query, not the snapshot, so a stale snapshot still revalidates.
	if count, maxTS, err := repo.ConfessionStats(ctx, h.db); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.Unix()
		}
		etag := fmt.Sprintf(`W/"confessions:%d:%d:%d"`, count, ts, hashQuery(query))
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items := h.ctrl.Filter(query)
	if limit := utils.ClampLimit(utils.AtoiDefault(c.Query("limit"), 0), len(items)); limit < len(items) {
		items = items[:limit]
	}
	ok(c, http.StatusOK, ListConfessionsResponse{
		Confessions: items,
		Total:       h.ctrl.Len(),
	})
}

// RefreshConfessions godoc
// @ID          refreshConfessions
// @Summary     Reload the working set from the store
// @Tags        Moderation
// @Produce     json
//
// @Param       Authorization  header  string  true "Bearer session token"
//
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid session"
// @Failure     500  {object} handlers.ErrorResponse "Store failure"
// @Router      /confessions/refresh [post]
func (h *Handlers) RefreshConfessions(c *gin.Context) {
	if err := h.ctrl.Load(c.Request.Context()); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	noContent(c)
}

// ToggleRead godoc
// @ID          toggleRead
// @Summary     Toggle the read flag of a confession
// @Description Flips isRead; never touches any other field. A missing id is a silent no-op.
// @Tags        Moderation
// @Produce     json
//
// @Param       Authorization  header  string  true "Bearer session token"
// @Param       id             path    string  true "Confession ID (UUID)" format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Malformed id"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid session"
// @Failure     500  {object} handlers.ErrorResponse "Store failure"
// @Router      /confessions/{id}/read [patch]
func (h *Handlers) ToggleRead(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "confession id must be a UUID")
		return
	}
	if err := h.ctrl.ApplyReadToggle(c.Request.Context(), id); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// ToggleArchive godoc
// @ID          toggleArchive
// @Summary     Toggle the archived flag of a confession
// @Description Flips archived; never touches any other field. A missing id is a silent no-op.
// @Tags        Moderation
// @Produce     json
//
// @Param       Authorization  header  string  true "Bearer session token"
// @Param       id             path    string  true "Confession ID (UUID)" format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Malformed id"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid session"
// @Failure     500  {object} handlers.ErrorResponse "Store failure"
// @Router      /confessions/{id}/archive [patch]
func (h *Handlers) ToggleArchive(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "confession id must be a UUID")
		return
	}
	if err := h.ctrl.ApplyArchiveToggle(c.Request.Context(), id); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// HeaderConfirmDelete is the header that carries the explicit human
// confirmation required before a permanent delete is issued.
const HeaderConfirmDelete = "X-Confirm-Delete"

// DeleteConfession godoc
// @ID          deleteConfession
// @Summary     Permanently delete a confession
// @Description Irreversible. Requires the X-Confirm-Delete: true header; repeating a delete is not an error.
// @Tags        Moderation
// @Produce     json
//
// @Param       Authorization     header  string  true "Bearer session token"
// @Param       X-Confirm-Delete  header  string  true "Explicit confirmation, e.g. \"true\""
// @Param       id                path    string  true "Confession ID (UUID)" format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Malformed id"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid session"
// @Failure     428  {object} handlers.ErrorResponse "Confirmation header missing"
// @Failure     500  {object} handlers.ErrorResponse "Store failure"
// @Router      /confessions/{id} [delete]
func (h *Handlers) DeleteConfession(c *gin.Context) {
	if !sysutil.IsTruthy(c.GetHeader(HeaderConfirmDelete)) {
		fail(c, http.StatusPreconditionRequired, ErrCodeConfirmationNeeded,
			"permanent delete requires X-Confirm-Delete: true")
		return
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "confession id must be a UUID")
		return
	}
	if err := h.ctrl.ApplyDelete(c.Request.Context(), id); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// hashQuery folds the search query into the ETag without leaking it into
// the header value.
func hashQuery(q string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(q))
	return h.Sum32()
}
