package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artur-t-96/MINDY/internal/advisor"
)

// NarrativeRequest is the body of a narrative request. Zero values select
// the current period.
type NarrativeRequest struct {
	Year  int `json:"year"`
	Week  int `json:"week"`
	Month int `json:"month"`
}

// Narrate generates commentary for a department week or a board month.
// POST /api/narrative/:department
func (h *Handler) Narrate(c *gin.Context) {
	var req NarrativeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
	}
	if req.Year < 0 || req.Week < 0 || req.Month < 0 || req.Month > 12 {
		h.writeError(c, fmt.Errorf("%w: invalid period", errBadRequest))
		return
	}

	cur := h.calc.DefaultWeek()
	if req.Year == 0 {
		req.Year = cur.Year
	}
	if req.Week == 0 {
		req.Week = cur.Week
	}
	if req.Month == 0 {
		req.Month = int(h.now().Month())
	}

	res, err := h.advisor.Narrate(c.Request.Context(), advisor.Request{
		Subject: c.Param("department"),
		Year:    req.Year,
		Week:    req.Week,
		Month:   req.Month,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
