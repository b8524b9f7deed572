package v1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListHistory returns recent import log entries.
// GET /api/admin/history?limit=
func (h *Handler) ListHistory(c *gin.Context) {
	limit, err := intQuery(c, "limit", 50)
	if err != nil {
		h.writeError(c, err)
		return
	}
	entries, err := h.store.ListImportLogs(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// DeleteHistory removes one import log entry. Imported facts stay.
// DELETE /api/admin/history/:id
func (h *Handler) DeleteHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(c, fmt.Errorf("%w: invalid id", errBadRequest))
		return
	}
	if err := h.store.DeleteImportLog(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeletePeriod removes every weekly fact of a week.
// DELETE /api/admin/periods/:year/:week
func (h *Handler) DeletePeriod(c *gin.Context) {
	year, err1 := strconv.Atoi(c.Param("year"))
	week, err2 := strconv.Atoi(c.Param("week"))
	if err1 != nil || err2 != nil || year <= 0 || week <= 0 {
		h.writeError(c, fmt.Errorf("%w: invalid period", errBadRequest))
		return
	}
	removed, err := h.store.DeleteWeek(c.Request.Context(), year, week)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.logger.Info("period deleted", "year", year, "week", week, "removed", removed)
	c.JSON(http.StatusOK, gin.H{"success": true, "removed": removed})
}
