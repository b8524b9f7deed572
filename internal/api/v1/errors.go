package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artur-t-96/MINDY/internal/advisor"
	"github.com/artur-t-96/MINDY/internal/exporter"
	"github.com/artur-t-96/MINDY/internal/importer"
	"github.com/artur-t-96/MINDY/internal/store"
)

var (
	// ErrUnauthorized is returned for a missing or wrong admin password.
	ErrUnauthorized = errors.New("invalid password")
	// errBadRequest marks malformed query, path or body values.
	errBadRequest = errors.New("bad request")
)

// statusFor maps an error onto its HTTP status.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest),
		errors.Is(err, importer.ErrNoFiles),
		errors.Is(err, importer.ErrNoRecords),
		errors.Is(err, importer.ErrUnknownStrategy),
		errors.Is(err, advisor.ErrUnknownSubject),
		errors.Is(err, exporter.ErrUnknownDashboard):
		return http.StatusBadRequest
	case errors.Is(err, importer.ErrInterpretation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// publicMessage hides internal failures from clients.
func publicMessage(status int, err error) string {
	if status == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}

// writeError sends {"error": message}. Internal errors are logged and
// replaced by a generic message.
func (h *Handler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": publicMessage(status, err)})
}
