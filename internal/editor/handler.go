package editor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cv-editor/internal/cv"
	"cv-editor/internal/importer"
	"cv-editor/internal/printfit"
	"cv-editor/internal/render"
	"cv-editor/internal/shared/metrics"
	"cv-editor/internal/shared/server/middleware"
	"cv-editor/internal/shared/server/respond"
	"cv-editor/internal/shared/telemetry"
	"cv-editor/internal/shared/util"
)

const (
	maxUploadSize = 10 << 20 // 10MB
	maxEventBatch = 64
	// readyTimeout bounds how long a request waits for the initial remote
	// load of its session.
	readyTimeout = 10 * time.Second
)

// Printer renders page HTML to a one-page PDF.
type Printer interface {
	PrintPDF(ctx context.Context, html string) ([]byte, printfit.Result, error)
}

// Handler wires HTTP handlers to editing sessions.
type Handler struct {
	Sessions *Registry
	Importer *importer.Pipeline
	Printer  Printer
	APIBase  string
}

// NewHandler constructs a Handler.
func NewHandler(sessions *Registry, imp *importer.Pipeline, printer Printer, apiBase string) *Handler {
	if imp == nil {
		imp = importer.NewPipeline(nil)
	}
	return &Handler{Sessions: sessions, Importer: imp, Printer: printer, APIBase: apiBase}
}

// RegisterRoutes attaches editor routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cv", h.page)
	rg.GET("/cv/data", h.data)
	rg.GET("/cv/export", h.exportJSON)
	rg.GET("/cv/export.md", h.exportMarkdown)
	rg.POST("/cv/events", h.events)
	rg.POST("/cv/commands", h.commands)
	rg.POST("/cv/import/json", h.importJSON)
	rg.POST("/cv/import/pdf", h.importFile)
	rg.POST("/cv/save", h.save)
	rg.POST("/cv/load", h.load)
	rg.POST("/cv/reset", h.reset)
	rg.GET("/cv/print-scale", h.printScale)
	rg.GET("/cv/pdf", h.pdf)
}

// session resolves the caller's session and waits for its initial load.
func (h *Handler) session(c *gin.Context) (*Session, bool) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
		return nil, false
	}
	s, err := h.Sessions.Session(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()
	if err := s.Wait(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		h.fail(c, err)
		return nil, false
	}
	return s, true
}

// fail maps an editor error to its HTTP response.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrConfirmationRequired):
		respond.Error(c, http.StatusBadRequest, "confirmation_required", err.Error(), nil)
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrInvalidCommand):
		respond.Error(c, http.StatusBadRequest, "invalid_command", err.Error(), nil)
	case errors.Is(err, ErrUnknownCell):
		respond.Error(c, http.StatusNotFound, "unknown_cell", err.Error(), nil)
	case errors.Is(err, ErrReadOnly):
		respond.Error(c, http.StatusConflict, "read_only", err.Error(), nil)
	case errors.Is(err, ErrSaveInProgress):
		respond.Error(c, http.StatusConflict, "save_in_progress", err.Error(), nil)
	case errors.Is(err, ErrDragActive):
		respond.Error(c, http.StatusConflict, "drag_active", err.Error(), nil)
	case errors.Is(err, ErrExtraction):
		respond.Error(c, http.StatusUnprocessableEntity, "extraction_error", err.Error(), nil)
	case errors.Is(err, ErrRemoteUnavailable):
		respond.Error(c, http.StatusBadGateway, "remote_unavailable", err.Error(), nil)
	case errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusGatewayTimeout, "timeout", "request timed out", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", err.Error(), nil)
	}
}

func (h *Handler) page(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if v, present := c.GetQuery("edit"); present {
		if _, err := s.Apply(c.Request.Context(), Command{Op: OpEditMode, On: v == "1" || v == "true"}); err != nil {
			h.fail(c, err)
			return
		}
	}

	doc, opts := s.Snapshot(h.APIBase)
	var buf bytes.Buffer
	write := render.WritePage
	if c.Query("fragment") == "1" {
		write = render.WriteFragment
	}
	if err := write(&buf, doc, opts); err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) data(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.Header("X-CV-Version", strconv.FormatUint(s.Store().Version(), 10))
	respond.OK(c, s.Store().Data())
}

func (h *Handler) exportJSON(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	raw, err := cv.Encode(s.Store().Data())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="resume.json"`)
	c.Data(http.StatusOK, "application/json", raw)
}

func (h *Handler) exportMarkdown(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	md, err := render.Markdown(s.Store().Data())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="resume.md"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}

type eventsRequest struct {
	Events []Event `json:"events"`
}

func (h *Handler) events(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req eventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if len(req.Events) == 0 || len(req.Events) > maxEventBatch {
		respond.Error(c, http.StatusBadRequest, "validation_error", "events must hold 1 to 64 items", nil)
		return
	}
	c.Set(middleware.OpKey, "events:"+req.Events[0].Type)
	view, err := s.HandleEvents(c.Request.Context(), req.Events)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, view)
}

func (h *Handler) commands(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var cmd Command
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	c.Set(middleware.OpKey, "commands:"+cmd.Op)
	view, err := s.Apply(c.Request.Context(), cmd)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, view)
}

type importResponse struct {
	Version  uint64   `json:"version"`
	Warnings []string `json:"warnings,omitempty"`
}

// upload reads the multipart file field, or the raw body when allowRaw is
// set and the request is not multipart.
func upload(c *gin.Context, allowRaw bool) (data []byte, name, mime string, err error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	if allowRaw && !strings.HasPrefix(c.ContentType(), "multipart/") {
		data, err = io.ReadAll(c.Request.Body)
		return data, "", c.ContentType(), err
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, "", "", err
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", "", err
	}
	defer file.Close()
	data, err = io.ReadAll(file)
	return data, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), err
}

func (h *Handler) importJSON(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	data, _, _, err := upload(c, true)
	if err != nil || len(data) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	c.Set(middleware.OpKey, "import:json")
	res, err := h.Importer.FromJSON(data)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.finishImport(c, s, res)
}

func (h *Handler) importFile(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	data, name, mime, err := upload(c, false)
	if err != nil || len(data) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	name, err = util.SanitizeFileName(name)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}
	c.Set(middleware.OpKey, "import:file")
	res, err := h.Importer.FromFile(c.Request.Context(), data, mime, name)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.finishImport(c, s, res)
}

func (h *Handler) finishImport(c *gin.Context, s *Session, res importer.Result) {
	if err := s.LoadDocument(c.Request.Context(), res.Document); err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, importResponse{Version: s.Store().Version(), Warnings: res.Warnings})
}

func (h *Handler) save(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.Set(middleware.OpKey, "save")
	if err := s.SaveRemote(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, gin.H{"saved": true})
}

func (h *Handler) load(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.Set(middleware.OpKey, "load")
	found, err := s.LoadRemote(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if !found {
		respond.Error(c, http.StatusNotFound, "not_found", "no saved document", nil)
		return
	}
	respond.OK(c, gin.H{"loaded": true, "version": s.Store().Version()})
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

func (h *Handler) reset(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req resetRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}
	c.Set(middleware.OpKey, "reset")
	if err := s.Reset(c.Request.Context(), req.Confirm); err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, gin.H{"reset": true, "version": s.Store().Version()})
}

func (h *Handler) printScale(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	width, errW := strconv.ParseFloat(c.Query("width"), 64)
	height, errH := strconv.ParseFloat(c.Query("height"), 64)
	if errW != nil || errH != nil || width < 0 || height < 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "width and height must be non-negative numbers", nil)
		return
	}
	ind := s.MeasureScale(width, height)
	respond.OK(c, gin.H{
		"scale":    printfit.Scale(width, height),
		"visible":  ind.Visible,
		"label":    ind.Label,
		"percent":  ind.Percent,
		"severity": ind.Severity,
	})
}

func (h *Handler) pdf(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if h.Printer == nil {
		respond.Error(c, http.StatusServiceUnavailable, "print_unavailable", "printing is not configured", nil)
		return
	}
	html, err := render.PrintHTML(s.Store().Data())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Set(middleware.OpKey, "pdf")
	start := time.Now()
	pdf, res, err := h.Printer.PrintPDF(c.Request.Context(), html)
	metrics.ObservePrint(time.Since(start), res.Scale, err)
	if err != nil {
		telemetry.Error("print.failed", map[string]any{"err": err, "identity": s.Identity()})
		respond.Error(c, http.StatusBadGateway, "print_failed", "failed to print document", nil)
		return
	}
	c.Header("Content-Disposition", `inline; filename="resume.pdf"`)
	c.Header("X-Print-Scale", strconv.FormatFloat(res.Scale, 'f', 4, 64))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
