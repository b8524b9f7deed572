package v1

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/artur-t-96/MINDY/internal/period"
	"github.com/artur-t-96/MINDY/internal/store"
)

// StatusResponse reports service health.
type StatusResponse struct {
	Status              string      `json:"status"`
	SchemaVersion       int         `json:"schemaVersion"`
	LatestSchemaVersion int         `json:"latestSchemaVersion"`
	CurrentWeek         period.Week `json:"currentWeek"`
	NarrativeAvailable  bool        `json:"narrativeAvailable"`
	Strategies          []string    `json:"strategies"`
}

// GetStatus reports health and schema version.
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	version, err := h.store.SchemaVersion(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	strategies := h.coordinator.Strategies()
	sort.Strings(strategies)

	c.JSON(http.StatusOK, StatusResponse{
		Status:              "ok",
		SchemaVersion:       version,
		LatestSchemaVersion: store.LatestSchemaVersion(),
		CurrentWeek:         h.calc.DefaultWeek(),
		NarrativeAvailable:  h.advisor.Available(),
		Strategies:          strategies,
	})
}
