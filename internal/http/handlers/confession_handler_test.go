package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/https-aaryannn/anonbox/internal/domain"
	"github.com/https-aaryannn/anonbox/internal/http/middleware"
	"github.com/https-aaryannn/anonbox/internal/repo"
	"github.com/https-aaryannn/anonbox/internal/services"
)

//
// Fakes
//

type fakeSub struct {
	err  error
	last string
}

func (f *fakeSub) Submit(ctx context.Context, content string) (*domain.Confession, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.last = content
	return &domain.Confession{ID: "ffffffff-0000-0000-0000-000000000001", Content: content}, nil
}

type fakeCtrl struct {
	items     []domain.Confession
	loadErr   error
	loads     int
	toggled   []string
	deleted   []string
	toggleErr error
	csv       string
}

func (f *fakeCtrl) Load(ctx context.Context) error {
	f.loads++
	return f.loadErr
}
func (f *fakeCtrl) Len() int { return len(f.items) }
func (f *fakeCtrl) Filter(query string) []domain.Confession {
	if query == "" {
		return f.items
	}
	out := []domain.Confession{}
	for _, it := range f.items {
		if strings.Contains(strings.ToLower(it.Content), strings.ToLower(query)) {
			out = append(out, it)
		}
	}
	return out
}
func (f *fakeCtrl) ApplyReadToggle(ctx context.Context, id string) error {
	f.toggled = append(f.toggled, "read:"+id)
	return f.toggleErr
}
func (f *fakeCtrl) ApplyArchiveToggle(ctx context.Context, id string) error {
	f.toggled = append(f.toggled, "archive:"+id)
	return f.toggleErr
}
func (f *fakeCtrl) ApplyDelete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.toggleErr
}
func (f *fakeCtrl) ExportCSV(query string) (string, error) {
	if f.csv == "" {
		return "ID,Content,Date,Sentiment Score,Tags\n", nil
	}
	return f.csv, nil
}

type fakeAuth struct {
	loginErr  error
	logoutErr error
	session   *domain.Session
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.session, nil
}
func (f *fakeAuth) Logout(ctx context.Context, token string) error { return f.logoutErr }

//
// Harness
//

func newHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("handlers_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newHandlerTestRouter(t *testing.T, h *Handlers, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{},
		func(ctx context.Context, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))
	r.POST("/api/confess", h.SubmitConfession)
	r.GET("/confessions", h.ListConfessions)
	r.POST("/confessions/refresh", h.RefreshConfessions)
	r.GET("/confessions/export", h.ExportConfessions)
	r.PATCH("/confessions/:id/read", h.ToggleRead)
	r.PATCH("/confessions/:id/archive", h.ToggleArchive)
	r.DELETE("/confessions/:id", h.DeleteConfession)
	return r
}

const testUUID = "141add05-4415-4938-b5a1-17e0d3171aff"

//
// Submission
//

func TestSubmitConfession_Created(t *testing.T) {
	db := newHandlerTestDB(t)
	sub := &fakeSub{}
	h := New(sub, &fakeCtrl{}, &fakeAuth{}, db, time.Hour)
	r := newHandlerTestRouter(t, h, db)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/confess", strings.NewReader(`{"content":"my secret"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d (%s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"success":true`) {
		t.Fatalf("missing success ack: %s", w.Body.String())
	}
	if sub.last != "my secret" {
		t.Fatalf("service got %q", sub.last)
	}
}

func TestSubmitConfession_ValidationErrors(t *testing.T) {
	db := newHandlerTestDB(t)

	cases := []struct {
		name string
		err  error
		body string
	}{
		{"missing content field", nil, `{}`},
		{"empty content", services.ErrEmptyContent, `{"content":"   "}`},
		{"too long", services.ErrContentTooLong, `{"content":"x"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := New(&fakeSub{err: tc.err}, &fakeCtrl{}, &fakeAuth{}, db, time.Hour)
			r := newHandlerTestRouter(t, h, db)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/confess", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("want 400, got %d (%s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestSubmitConfession_StoreFailure_500(t *testing.T) {
	db := newHandlerTestDB(t)
	h := New(&fakeSub{err: errors.New("disk full")}, &fakeCtrl{}, &fakeAuth{}, db, time.Hour)
	r := newHandlerTestRouter(t, h, db)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/confess", strings.NewReader(`{"content":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), ErrCodeSubmitFailed) {
		t.Fatalf("want 500 submit_failed, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestSubmitConfession_IdempotentReplay(t *testing.T) {
	db := newHandlerTestDB(t)
	sub := &fakeSub{}
	h := New(sub, &fakeCtrl{}, &fakeAuth{}, db, time.Hour)
	r := newHandlerTestRouter(t, h, db)

	send := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/confess", strings.NewReader(`{"content":"once only"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.HeaderIdempotencyKey, "retry-abc")
		r.ServeHTTP(w, req)
		return w
	}

	first := send()
	if first.Code != http.StatusCreated {
		t.Fatalf("first attempt: want 201, got %d (%s)", first.Code, first.Body.String())
	}

	sub.last = ""
	second := send()
	if second.Code != http.StatusCreated {
		t.Fatalf("replay: want 201, got %d (%s)", second.Code, second.Body.String())
	}
	if sub.last != "" {
		t.Fatalf("replay must not reach the submission service")
	}
	if !strings.Contains(second.Body.String(), `"id":"ffffffff-0000-0000-0000-000000000001"`) {
		t.Fatalf("replay must return the original id: %s", second.Body.String())
	}
}

//
// Moderation
//

func TestListConfessions_FilterAndTotal(t *testing.T) {
	db := newHandlerTestDB(t)
	ctrl := &fakeCtrl{items: []domain.Confession{
		{ID: "a", Content: "alpha secret"},
		{ID: "b", Content: "beta"},
	}}
	h := New(&fakeSub{}, ctrl, &fakeAuth{}, db, time.Hour)
	r := newHandlerTestRouter(t, h, db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/confessions?q=secret", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, `"beta"`) || !strings.Contains(body, "alpha secret") {
		t.Fatalf("filter not applied: %s", body)
	}
	// Total reflects the unfiltered set.
	if !strings.Contains(body, `"total":2`) {
		t.Fatalf("total must count the full set: %s", body)
	}
	if w.Header().Get("ETag") == "" {
		t.Fatalf("list responses carry an ETag")
	}
}

func TestListConfessions_ETagNotModified(t *testing.T) {
	db := newHandlerTestDB(t)
	h := New(&fakeSub{}, &fakeCtrl{}, &fakeAuth{}, db, time.Hour)
	r := newHandlerTestRouter(t, h, db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/confessions", nil))
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag on first response")
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/confessions", nil)
	req.Header.Set("If-None-Match", etag)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotModified {
		t.Fatalf("want 304 with matching ETag, got %d", w.Code)
	}

	// A different query invalidates the validator.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/confessions?q=x", nil)
	req.Header.Set("If-None-Match", etag)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("query change must miss the ETag, got %d", w.Code)
	}
}

func TestRefreshConfessions(t *testing.T) {
	db := newHandlerTestDB(t)
	ctrl := &fakeCtrl{}
	h := New(&fakeSub{}, ctrl, &fakeAuth{}, db, time.Hour)
	r := newHandlerTestRouter(t, h, db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/confessions/refresh", nil))
	if w.Code != http.StatusNoContent || ctrl.loads != 1 {
		t.Fatalf("want 204 and one Load, got %d (loads=%d)", w.Code, ctrl.loads)
	}

	ctrl.loadErr = errors.New("store down")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/confessions/refresh", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("failed refresh: want 500, got %d", w.Code)
	}
}

func TestToggles_ValidateUUID(t *testing.T) {
	db := newHandlerTestDB(t)
	ctrl := &fakeCtrl{}
	h := New(&fakeSub{}, ctrl, &fakeAuth{}, db, time.Hour)
	r := newHandlerTestRouter(t, h, db)

	for _, path := range []string{"/confessions/not-a-uuid/read", "/confessions/not-a-uuid/archive"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, path, nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: want 400, got %d", path, w.Code)
		}
	}
	if len(ctrl.toggled) != 0 {
		t.Fatalf("malformed ids must not reach the controller: %v", ctrl.toggled)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/confessions/"+testUUID+"/read", nil))
	if w.Code != http.StatusNoContent || len(ctrl.toggled) != 1 {
		t.Fatalf("valid toggle: want 204, got %d (%v)", w.Code, ctrl.toggled)
	}
}

func TestDeleteConfession_RequiresConfirmation(t *testing.T) {
	db := newHandlerTestDB(t)
	ctrl := &fakeCtrl{}
	h := New(&fakeSub{}, ctrl, &fakeAuth{}, db, time.Hour)
	r := newHandlerTestRouter(t, h, db)

	// No confirmation header: refused before any work.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/confessions/"+testUUID, nil))
	if w.Code != http.StatusPreconditionRequired || !strings.Contains(w.Body.String(), ErrCodeConfirmationNeeded) {
		t.Fatalf("want 428 confirmation_required, got %d (%s)", w.Code, w.Body.String())
	}
	if len(ctrl.deleted) != 0 {
		t.Fatalf("unconfirmed delete must not reach the controller")
	}

	// Confirmed delete goes through.
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/confessions/"+testUUID, nil)
	req.Header.Set(HeaderConfirmDelete, "true")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || len(ctrl.deleted) != 1 {
		t.Fatalf("confirmed delete: want 204, got %d (%v)", w.Code, ctrl.deleted)
	}
}

//
// Export
//

func TestExportConfessions_Headers(t *testing.T) {
	db := newHandlerTestDB(t)
	ctrl := &fakeCtrl{csv: "ID,Content,Date,Sentiment Score,Tags\nid-1,hello,2025-01-01T00:00:00.000Z,,\n"}
	h := New(&fakeSub{}, ctrl, &fakeAuth{}, db, time.Hour)
	r := newHandlerTestRouter(t, h, db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/confessions/export", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type: %q", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, `attachment; filename="confessions-`) || !strings.HasSuffix(cd, `.csv"`) {
		t.Fatalf("content disposition: %q", cd)
	}
	if !strings.Contains(w.Body.String(), "id-1,hello") {
		t.Fatalf("body: %s", w.Body.String())
	}
}
