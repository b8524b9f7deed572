package v1

import (
	"mime/multipart"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/artur-t-96/MINDY/internal/advisor"
	"github.com/artur-t-96/MINDY/internal/calculator"
	"github.com/artur-t-96/MINDY/internal/exporter"
	"github.com/artur-t-96/MINDY/internal/importer"
	"github.com/artur-t-96/MINDY/internal/store"
)

// Options wires the handler to its collaborators.
type Options struct {
	Store         *store.Store
	Calculator    *calculator.Calculator
	Coordinator   *importer.Coordinator
	Advisor       *advisor.Advisor
	Logger        *log.Logger
	AdminPassword string
	UploadDir     string
	MaxUpload     int64
	// Strategy is used when an upload names none.
	Strategy string
}

// Handler serves the dashboard API.
type Handler struct {
	store       *store.Store
	calc        *calculator.Calculator
	coordinator *importer.Coordinator
	advisor     *advisor.Advisor
	exporter    *exporter.Exporter
	logger      *log.Logger
	password    string
	uploadDir   string
	maxUpload   int64
	strategy    string
	now         func() time.Time
	saveUpload  func(c *gin.Context, fh *multipart.FileHeader, dst string) error
}

// NewHandler creates the API handler.
func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxUpload <= 0 {
		opts.MaxUpload = 50 << 20
	}
	return &Handler{
		store:       opts.Store,
		calc:        opts.Calculator,
		coordinator: opts.Coordinator,
		advisor:     opts.Advisor,
		exporter:    exporter.NewExporter(opts.Calculator),
		logger:      logger.WithPrefix("api"),
		password:    opts.AdminPassword,
		uploadDir:   opts.UploadDir,
		maxUpload:   opts.MaxUpload,
		strategy:    opts.Strategy,
		now:         time.Now,
		saveUpload: func(c *gin.Context, fh *multipart.FileHeader, dst string) error {
			return c.SaveUploadedFile(fh, dst)
		},
	}
}

// RegisterRoutes registers the API routes under router.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)

	// dashboards
	router.GET("/dashboard/recruitment", h.GetRecruitment)
	router.GET("/dashboard/sales", h.GetSales)
	router.GET("/dashboard/board", h.GetBoard)
	router.GET("/board/definitions", h.GetBoardDefinitions)
	router.GET("/export/:dashboard", h.Export)

	router.POST("/narrative/:department", h.Narrate)
	router.GET("/targets", h.ListTargets)
	router.GET("/people", h.ListPeople)

	// upload checks its own password: it may arrive as a form field
	router.POST("/admin/upload/:panel", h.Upload)

	admin := router.Group("/admin", h.requireAdmin)
	admin.POST("/targets", h.AddTarget)
	admin.GET("/history", h.ListHistory)
	admin.DELETE("/history/:id", h.DeleteHistory)
	admin.DELETE("/periods/:year/:week", h.DeletePeriod)
}
