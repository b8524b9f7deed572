package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/artur-t-96/MINDY/internal/importer"
	"github.com/artur-t-96/MINDY/internal/parser"
)

// UploadResponse is the JSON answer of a finished upload.
type UploadResponse struct {
	Success  bool           `json:"success"`
	BatchID  string         `json:"batchId"`
	Imported int            `json:"imported"`
	Message  string         `json:"message"`
	Summary  string         `json:"summary"`
	ByType   map[string]int `json:"byType"`
	Periods  []string       `json:"periods"`
	Warnings []string       `json:"warnings"`
	Dropped  int            `json:"dropped"`
}

func newUploadResponse(r *importer.Report) UploadResponse {
	byType := make(map[string]int, len(r.ByType))
	for k, v := range r.ByType {
		byType[string(k)] = v
	}
	periods := r.Periods
	if periods == nil {
		periods = []string{}
	}
	warnings := r.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return UploadResponse{
		Success:  true,
		BatchID:  r.BatchID,
		Imported: r.Imported,
		Message:  fmt.Sprintf("Imported %d records", r.Imported),
		Summary:  r.Summary,
		ByType:   byType,
		Periods:  periods,
		Warnings: warnings,
		Dropped:  r.Dropped,
	}
}

// Upload imports spreadsheets.
// POST /api/admin/upload/:panel  multipart: files, password, strategy
//
// With ?stream=1 progress events are sent as server-sent events and the
// last event carries the result.
func (h *Handler) Upload(c *gin.Context) {
	panel, ok := parser.ParsePanel(c.Param("panel"))
	if !ok {
		h.writeError(c, fmt.Errorf("%w: unknown panel %q", errBadRequest, c.Param("panel")))
		return
	}

	// a header or query password is checked before the body is touched
	authorized := h.checkPassword(headerPassword(c))
	if !authorized && headerPassword(c) != "" {
		h.writeError(c, ErrUnauthorized)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	form, err := c.MultipartForm()
	if err != nil {
		if statusFor(err) == http.StatusRequestEntityTooLarge {
			h.writeError(c, err)
			return
		}
		if !authorized {
			h.writeError(c, ErrUnauthorized)
			return
		}
		h.writeError(c, fmt.Errorf("%w: invalid multipart form", errBadRequest))
		return
	}
	defer func() { _ = form.RemoveAll() }()

	if !authorized && !h.checkPassword(firstValue(form, "password")) {
		h.writeError(c, ErrUnauthorized)
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		h.writeError(c, importer.ErrNoFiles)
		return
	}

	sources := make([]parser.Source, 0, len(files))
	defer func() {
		for _, s := range sources {
			if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
				h.logger.Warn("failed to remove upload", "path", s.Path, "err", err)
			}
		}
	}()
	for _, fh := range files {
		path := filepath.Join(h.uploadDir, uuid.NewString()+strings.ToLower(filepath.Ext(fh.Filename)))
		// registered first: a failed copy may leave a partial file
		sources = append(sources, parser.Source{Path: path, Name: filepath.Base(fh.Filename)})
		if err := h.saveUpload(c, fh, path); err != nil {
			h.writeError(c, fmt.Errorf("failed to save upload %s: %w", fh.Filename, err))
			return
		}
	}

	strategy := firstValue(form, "strategy")
	if strategy == "" {
		strategy = h.strategy
	}
	opts := importer.ImportOptions{Sources: sources, Panel: panel, Strategy: strategy}

	if c.Query("stream") == "1" {
		h.streamImport(c, opts)
		return
	}

	report, err := h.coordinator.Import(c.Request.Context(), opts)
	if err != nil {
		if errors.Is(err, importer.ErrNoRecords) && report != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "warnings": newUploadResponse(report).Warnings})
			return
		}
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUploadResponse(report))
}

// streamImport runs the import and forwards its progress as SSE.
func (h *Handler) streamImport(c *gin.Context, opts importer.ImportOptions) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.writeError(c, errors.New("streaming is not supported"))
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	send := func(v any) {
		data, err := json.Marshal(v)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", data)
		flusher.Flush()
	}

	sawError := false
	opts.Progress = func(evt importer.ProgressEvent) {
		if evt.Type == "error" {
			sawError = true
		}
		if r, ok := evt.Data.(*importer.Report); ok && evt.Type == "done" {
			evt.Data = newUploadResponse(r)
		}
		send(evt)
	}

	if _, err := h.coordinator.Import(c.Request.Context(), opts); err != nil && !sawError {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("streamed import failed", "err", err)
		}
		send(importer.ProgressEvent{Type: "error", Message: publicMessage(status, err), Data: status})
	}
}

func firstValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}
