package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"cv-editor/internal/cloud"
	"cv-editor/internal/cv"
	"cv-editor/internal/localstate"
	"cv-editor/internal/printfit"
	"cv-editor/internal/shared/server/middleware"
	"cv-editor/internal/shared/storage/object/local"
)

type stubPrinter struct {
	err  error
	html string
}

func (p *stubPrinter) PrintPDF(_ context.Context, html string) ([]byte, printfit.Result, error) {
	p.html = html
	if p.err != nil {
		return nil, printfit.Result{}, p.err
	}
	return []byte("%PDF-1.4 test"), printfit.Result{Scale: 0.9123, Applied: true}, nil
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupRouter(t *testing.T, remote *cloud.Service, printer Printer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	registry := NewRegistry(localstate.NewMemoryState(), remote)
	t.Cleanup(registry.Close)

	h := NewHandler(registry, nil, printer, "/api/v1")
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.Auth("dev"))
	h.RegisterRoutes(api)
	return r
}

func do(r http.Handler, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("X-Guest-Id", "handler-test")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func doJSON(t *testing.T, r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return do(r, method, path, raw, "application/json")
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Error.Code
}

func multipartFile(t *testing.T, name string, data []byte) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return buf.Bytes(), w.FormDataContentType()
}

func TestPageReadAndEditMode(t *testing.T) {
	r := setupRouter(t, nil, nil)

	rec := do(r, http.MethodGet, "/api/v1/cv", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if strings.Contains(rec.Body.String(), `contenteditable="true" data-cell`) {
		t.Fatalf("read mode page has editable cells")
	}

	rec = do(r, http.MethodGet, "/api/v1/cv?edit=1&fragment=1", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `data-cell="personal.firstName"`) {
		t.Fatalf("edit fragment missing editable cells")
	}
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Fatalf("fragment must not be a full document")
	}
}

func TestDataAndExports(t *testing.T) {
	r := setupRouter(t, nil, nil)

	rec := do(r, http.MethodGet, "/api/v1/cv/data", nil, "")
	if rec.Code != http.StatusOK || rec.Header().Get("X-CV-Version") != "0" {
		t.Fatalf("status %d version %q", rec.Code, rec.Header().Get("X-CV-Version"))
	}
	var doc cv.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Personal.LastName != cv.Default().Personal.LastName {
		t.Fatalf("unexpected document")
	}

	rec = do(r, http.MethodGet, "/api/v1/cv/export", nil, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Header().Get("Content-Disposition"), "resume.json") {
		t.Fatalf("json export: status %d disposition %q", rec.Code, rec.Header().Get("Content-Disposition"))
	}
	if _, err := cv.Decode(rec.Body.Bytes()); err != nil {
		t.Fatalf("export does not decode: %v", err)
	}

	rec = do(r, http.MethodGet, "/api/v1/cv/export.md", nil, "")
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Body.String(), "# ") {
		t.Fatalf("markdown export: status %d body %q", rec.Code, rec.Body.String())
	}
}

func TestEventsCommitOnBlur(t *testing.T) {
	r := setupRouter(t, nil, nil)
	if rec := doJSON(t, r, http.MethodPost, "/api/v1/cv/commands", Command{Op: OpEditMode, On: true}); rec.Code != http.StatusOK {
		t.Fatalf("edit mode: %d %s", rec.Code, rec.Body.String())
	}

	p := cv.PersonalPath("subtitle")
	rec := doJSON(t, r, http.MethodPost, "/api/v1/cv/events", eventsRequest{Events: []Event{
		{Type: EventFocus, Cell: p},
		{Type: EventInput, Cell: p, HTML: strp("Tech lead")},
		{Type: EventBlur, Cell: p},
	}})
	if rec.Code != http.StatusOK {
		t.Fatalf("events: %d %s", rec.Code, rec.Body.String())
	}
	var view ViewState
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Version != 1 || !view.EditMode {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestEventsValidation(t *testing.T) {
	r := setupRouter(t, nil, nil)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/cv/events", eventsRequest{})
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "validation_error" {
		t.Fatalf("empty batch: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodPost, "/api/v1/cv/events", eventsRequest{Events: []Event{{Type: EventFocus, Cell: cv.PersonalPath("title")}}})
	if rec.Code != http.StatusConflict || errorCode(t, rec) != "read_only" {
		t.Fatalf("focus in read mode: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodPost, "/api/v1/cv/events", []byte("{"), "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: %d", rec.Code)
	}
}

func TestCommandErrors(t *testing.T) {
	r := setupRouter(t, nil, nil)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/cv/commands", Command{Op: OpAdd, Scope: "summary"})
	if rec.Code != http.StatusConflict || errorCode(t, rec) != "read_only" {
		t.Fatalf("add in read mode: %d %s", rec.Code, rec.Body.String())
	}

	doJSON(t, r, http.MethodPost, "/api/v1/cv/commands", Command{Op: OpEditMode, On: true})

	rec = doJSON(t, r, http.MethodPost, "/api/v1/cv/commands", Command{Op: "explode"})
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "invalid_command" {
		t.Fatalf("unknown op: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodPost, "/api/v1/cv/commands", Command{Op: OpAdd, Scope: "summary"})
	if rec.Code != http.StatusOK {
		t.Fatalf("add: %d %s", rec.Code, rec.Body.String())
	}
	var view ViewState
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Version != 1 || !view.Refresh {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestImportJSON(t *testing.T) {
	r := setupRouter(t, nil, nil)
	doc := cv.Default()
	doc.Personal.FirstName = "Alex"
	raw, err := cv.Encode(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	body, ct := multipartFile(t, "resume.json", raw)
	rec := do(r, http.MethodPost, "/api/v1/cv/import/json", body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("import: %d %s", rec.Code, rec.Body.String())
	}
	var resp importResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Version != 1 {
		t.Fatalf("version = %d, want 1", resp.Version)
	}

	rec = do(r, http.MethodGet, "/api/v1/cv/data", nil, "")
	if !strings.Contains(rec.Body.String(), `"firstName":"Alex"`) {
		t.Fatalf("import not applied: %s", rec.Body.String())
	}
}

func TestImportInvalidJSON(t *testing.T) {
	r := setupRouter(t, nil, nil)
	rec := do(r, http.MethodPost, "/api/v1/cv/import/json", []byte(`{"personal": 3}`), "application/json")
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "validation_error" {
		t.Fatalf("invalid import: %d %s", rec.Code, rec.Body.String())
	}
	rec = do(r, http.MethodPost, "/api/v1/cv/import/json", nil, "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty import: %d", rec.Code)
	}
}

func TestImportPDFExtractionError(t *testing.T) {
	r := setupRouter(t, nil, nil)
	body, ct := multipartFile(t, "resume.pdf", []byte("this is not a pdf"))
	rec := do(r, http.MethodPost, "/api/v1/cv/import/pdf", body, ct)
	if rec.Code != http.StatusUnprocessableEntity || errorCode(t, rec) != "extraction_error" {
		t.Fatalf("pdf import: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodPost, "/api/v1/cv/import/pdf", []byte("raw"), "application/pdf")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("pdf import without multipart: %d", rec.Code)
	}
}

func TestResetNeedsConfirmation(t *testing.T) {
	r := setupRouter(t, nil, nil)
	rec := do(r, http.MethodPost, "/api/v1/cv/reset", nil, "")
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "confirmation_required" {
		t.Fatalf("reset: %d %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, r, http.MethodPost, "/api/v1/cv/reset", resetRequest{Confirm: true})
	if rec.Code != http.StatusOK {
		t.Fatalf("confirmed reset: %d %s", rec.Code, rec.Body.String())
	}
}

func TestPrintScale(t *testing.T) {
	r := setupRouter(t, nil, nil)
	rec := do(r, http.MethodGet, "/api/v1/cv/print-scale?width=794&height=2000", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("print-scale: %d %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Scale    float64 `json:"scale"`
		Visible  bool    `json:"visible"`
		Severity string  `json:"severity"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Visible || body.Severity != "alert" || body.Scale >= 1 {
		t.Fatalf("unexpected scale %+v", body)
	}

	rec = do(r, http.MethodGet, "/api/v1/cv/print-scale?width=abc&height=1", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad width: %d", rec.Code)
	}
}

func TestPDF(t *testing.T) {
	printer := &stubPrinter{}
	r := setupRouter(t, nil, printer)
	rec := do(r, http.MethodGet, "/api/v1/cv/pdf", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("pdf: %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "application/pdf" || rec.Header().Get("X-Print-Scale") != "0.9123" {
		t.Fatalf("unexpected headers %v", rec.Header())
	}
	if strings.Contains(printer.html, "window.CV") {
		t.Fatalf("print html carries the editor")
	}

	printer.err = errors.New("chrome crashed")
	rec = do(r, http.MethodGet, "/api/v1/cv/pdf", nil, "")
	if rec.Code != http.StatusBadGateway || errorCode(t, rec) != "print_failed" {
		t.Fatalf("failed print: %d %s", rec.Code, rec.Body.String())
	}
}

func TestPDFWithoutPrinter(t *testing.T) {
	r := setupRouter(t, nil, nil)
	rec := do(r, http.MethodGet, "/api/v1/cv/pdf", nil, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("pdf without printer: %d", rec.Code)
	}
}

func TestSaveAndLoadRemote(t *testing.T) {
	r := setupRouter(t, cloud.NewService(local.New(t.TempDir())), nil)

	rec := do(r, http.MethodPost, "/api/v1/cv/load", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("load before save: %d %s", rec.Code, rec.Body.String())
	}
	rec = do(r, http.MethodPost, "/api/v1/cv/save", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("save: %d %s", rec.Code, rec.Body.String())
	}
	rec = do(r, http.MethodPost, "/api/v1/cv/load", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("load: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRemoteUnavailable(t *testing.T) {
	r := setupRouter(t, nil, nil)
	rec := do(r, http.MethodPost, "/api/v1/cv/save", nil, "")
	if rec.Code != http.StatusBadGateway || errorCode(t, rec) != "remote_unavailable" {
		t.Fatalf("save without store: %d %s", rec.Code, rec.Body.String())
	}
}
