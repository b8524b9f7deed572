package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artur-t-96/MINDY/internal/identity"
)

// ListPeople returns the known people.
// GET /api/people?department=
func (h *Handler) ListPeople(c *gin.Context) {
	var dept identity.Department
	if raw := c.Query("department"); raw != "" {
		d, ok := identity.ParseDepartment(raw)
		if !ok {
			h.writeError(c, fmt.Errorf("%w: unknown department %q", errBadRequest, raw))
			return
		}
		dept = d
	}
	people, err := h.store.ListPeople(c.Request.Context(), dept)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"people": people})
}
