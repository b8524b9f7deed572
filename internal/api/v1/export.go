package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/artur-t-96/MINDY/internal/exporter"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export downloads a dashboard as a workbook.
// GET /api/export/:dashboard?year=&week= (board: ?year=&month=)
func (h *Handler) Export(c *gin.Context) {
	opts := exporter.ExportOptions{Dashboard: c.Param("dashboard")}
	var err error
	switch opts.Dashboard {
	case exporter.DashboardBoard:
		opts.Year, opts.Month, err = h.monthQuery(c)
	case exporter.DashboardRecruitment, exporter.DashboardSales:
		opts.Year, opts.Week, err = h.weekQuery(c)
	default:
		err = fmt.Errorf("%w: %q", exporter.ErrUnknownDashboard, opts.Dashboard)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	file, err := h.exporter.Export(c.Request.Context(), opts)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exporter.FileName(opts)))
	c.Header("Content-Type", xlsxContentType)
	if err := file.Write(c.Writer); err != nil {
		h.logger.Error("failed to write export", "dashboard", opts.Dashboard, "err", err)
	}
}
