package admin

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"stage-entry-api/internal/entry"
	"stage-entry-api/internal/logs"
)

func newTestRouter(t *testing.T, as *AdminService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := &AdminController{Service: as, LS: &logs.LogService{DB: as.DB}}

	r := gin.New()
	r.GET("/api/admin/entries", ctrl.ListEntries)
	r.PUT("/api/admin/entries/status", ctrl.BulkUpdateStatus)
	r.DELETE("/api/admin/entries", ctrl.BulkDelete)
	r.POST("/api/admin/entries/email", ctrl.BulkEmail)
	r.GET("/api/admin/entries/export", ctrl.ExportEntries)
	return r
}

func refString(id uint) string {
	return TargetRef{Kind: TargetEntry, ID: id}.String()
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var b []byte
	if body != nil {
		b, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBulkStatusEmptySelectionRejected(t *testing.T) {
	as := newService(t)
	if err := as.DB.AutoMigrate(&logs.SystemLog{}); err != nil {
		t.Fatalf("migrate logs: %v", err)
	}
	r := newTestRouter(t, as)

	w := doJSON(r, http.MethodPut, "/api/admin/entries/status", gin.H{
		"entryIds": []string{},
		"status":   entry.StatusSubmitted,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "no entries selected") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestBulkStatusInvalidStatusRejected(t *testing.T) {
	as := newService(t)
	if err := as.DB.AutoMigrate(&logs.SystemLog{}); err != nil {
		t.Fatalf("migrate logs: %v", err)
	}
	e := seedUserWithEntry(t, as, "a@example.com", "", false)
	r := newTestRouter(t, as)

	w := doJSON(r, http.MethodPut, "/api/admin/entries/status", gin.H{
		"entryIds": []string{refString(e.ID)},
		"status":   "launched",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid status") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	// Persistence untouched.
	got, _ := as.Entries.GetEntry(e.ID)
	if got.Status != entry.StatusPending {
		t.Fatalf("status mutated on invalid request: %q", got.Status)
	}
}

func TestBulkStatusSuccess(t *testing.T) {
	as := newService(t)
	if err := as.DB.AutoMigrate(&logs.SystemLog{}); err != nil {
		t.Fatalf("migrate logs: %v", err)
	}
	e := seedUserWithEntry(t, as, "a@example.com", "", false)
	r := newTestRouter(t, as)

	body := gin.H{"entryIds": []string{refString(e.ID)}, "status": entry.StatusSelected}

	w := doJSON(r, http.MethodPut, "/api/admin/entries/status", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"success":true`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	// Re-applying the same status reports success again.
	w = doJSON(r, http.MethodPut, "/api/admin/entries/status", body)
	if w.Code != http.StatusOK {
		t.Fatalf("second call expected 200, got %d", w.Code)
	}
}

func TestBulkDeleteStorageFailureStillSucceeds(t *testing.T) {
	as := newService(t)
	if err := as.DB.AutoMigrate(&logs.SystemLog{}); err != nil {
		t.Fatalf("migrate logs: %v", err)
	}
	e := seedUserWithEntry(t, as, "a@example.com", "hiphop", false)
	r := newTestRouter(t, as)

	orig := removePrefix
	removePrefix = func(bucket, prefix string) error { return errors.New("gcs unreachable") }
	defer func() { removePrefix = orig }()

	w := doJSON(r, http.MethodDelete, "/api/admin/entries", gin.H{
		"entryIds": []string{refString(e.ID)},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("storage failure must not downgrade success, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"success":true`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if got, _ := as.Entries.GetEntry(e.ID); got != nil {
		t.Fatalf("entry survived delete")
	}
}

func TestBulkDeleteEmptySelectionRejected(t *testing.T) {
	as := newService(t)
	if err := as.DB.AutoMigrate(&logs.SystemLog{}); err != nil {
		t.Fatalf("migrate logs: %v", err)
	}
	r := newTestRouter(t, as)

	w := doJSON(r, http.MethodDelete, "/api/admin/entries", gin.H{"entryIds": []string{}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "no entries selected") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestListEntriesEndpoint(t *testing.T) {
	as := newService(t)
	if err := as.DB.AutoMigrate(&logs.SystemLog{}); err != nil {
		t.Fatalf("migrate logs: %v", err)
	}
	seedUserWithEntry(t, as, "a@example.com", "hiphop", false)
	r := newTestRouter(t, as)

	w := doJSON(r, http.MethodGet, "/api/admin/entries?genre=hiphop", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Entries []EntryRow `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Entries) != 1 || resp.Entries[0].Genre != "hiphop" {
		t.Fatalf("unexpected listing: %+v", resp.Entries)
	}
}

func TestExportEndpointUnsupportedFormat(t *testing.T) {
	as := newService(t)
	if err := as.DB.AutoMigrate(&logs.SystemLog{}); err != nil {
		t.Fatalf("migrate logs: %v", err)
	}
	r := newTestRouter(t, as)

	w := doJSON(r, http.MethodGet, "/api/admin/entries/export?format=pdf", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
