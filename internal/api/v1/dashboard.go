package v1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/artur-t-96/MINDY/internal/calculator"
)

// intQuery parses an optional positive integer query value.
func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", errBadRequest, key)
	}
	return v, nil
}

// weekQuery reads year and week, defaulting to the current ISO week.
func (h *Handler) weekQuery(c *gin.Context) (year, week int, err error) {
	cur := h.calc.DefaultWeek()
	if year, err = intQuery(c, "year", cur.Year); err != nil {
		return 0, 0, err
	}
	if week, err = intQuery(c, "week", cur.Week); err != nil {
		return 0, 0, err
	}
	return year, week, nil
}

// monthQuery reads year and month, defaulting to the current month.
func (h *Handler) monthQuery(c *gin.Context) (year, month int, err error) {
	now := h.now()
	if year, err = intQuery(c, "year", now.Year()); err != nil {
		return 0, 0, err
	}
	if month, err = intQuery(c, "month", int(now.Month())); err != nil {
		return 0, 0, err
	}
	if month > 12 {
		return 0, 0, fmt.Errorf("%w: month must be 1-12", errBadRequest)
	}
	return year, month, nil
}

// GetRecruitment returns the recruitment dashboard.
// GET /api/dashboard/recruitment?year=&week=
func (h *Handler) GetRecruitment(c *gin.Context) {
	year, week, err := h.weekQuery(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	v, err := h.calc.RecruitmentView(c.Request.Context(), year, week)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// GetSales returns the sales dashboard.
// GET /api/dashboard/sales?year=&week=
func (h *Handler) GetSales(c *gin.Context) {
	year, week, err := h.weekQuery(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	v, err := h.calc.SalesView(c.Request.Context(), year, week)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// GetBoard returns the board dashboard.
// GET /api/dashboard/board?year=&month=
func (h *Handler) GetBoard(c *gin.Context) {
	year, month, err := h.monthQuery(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	v, err := h.calc.BoardView(c.Request.Context(), year, month)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// GetBoardDefinitions returns the board KPI catalogue.
// GET /api/board/definitions
func (h *Handler) GetBoardDefinitions(c *gin.Context) {
	c.JSON(http.StatusOK, calculator.BoardDefinitions)
}
