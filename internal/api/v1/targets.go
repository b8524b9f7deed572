package v1

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/artur-t-96/MINDY/internal/model"
)

// TargetRequest appends a target row.
type TargetRequest struct {
	Role       string  `json:"role"`
	KPI        string  `json:"kpi"`
	Value      float64 `json:"value"`
	PeriodUnit string  `json:"periodUnit"`
}

// ListTargets returns every target row, newest first.
// GET /api/targets
func (h *Handler) ListTargets(c *gin.Context) {
	targets, err := h.store.ListTargets(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, targets)
}

// AddTarget appends a target. Older rows stay; the newest one wins.
// POST /api/admin/targets
func (h *Handler) AddTarget(c *gin.Context) {
	var req TargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	req.KPI = strings.TrimSpace(req.KPI)
	req.Role = strings.TrimSpace(req.Role)
	if req.Role == "" {
		req.Role = model.TargetRoleAll
	}
	if req.PeriodUnit == "" {
		req.PeriodUnit = "week"
	}
	if req.KPI == "" || req.Value < 0 || (req.PeriodUnit != "week" && req.PeriodUnit != "month") {
		h.writeError(c, fmt.Errorf("%w: kpi, a non-negative value and periodUnit week|month are required", errBadRequest))
		return
	}

	t := model.Target{Role: req.Role, KPI: req.KPI, Value: req.Value, PeriodUnit: req.PeriodUnit}
	id, err := h.store.AddTarget(c.Request.Context(), t)
	if err != nil {
		h.writeError(c, err)
		return
	}
	t.ID = id
	h.logger.Info("target added", "kpi", t.KPI, "role", t.Role, "value", t.Value, "unit", t.PeriodUnit)
	c.JSON(http.StatusCreated, t)
}
