package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mcc-sewer-dashboard/charts"
	"mcc-sewer-dashboard/export"
	"mcc-sewer-dashboard/metrics"
	"mcc-sewer-dashboard/models"
	"mcc-sewer-dashboard/services"
)

type DashboardHandler struct {
	service *services.DashboardService
	metrics *metrics.Registry
	log     *zap.Logger
	now     func() time.Time
}

func NewDashboardHandler(service *services.DashboardService, reg *metrics.Registry, log *zap.Logger) *DashboardHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardHandler{service: service, metrics: reg, log: log, now: time.Now}
}

func (h *DashboardHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.GET("/dashboard", h.Dashboard)

	api := r.Group("/api")
	api.GET("/status", h.Status)
	api.GET("/views/summary", h.Summary)
	api.GET("/views/condition", h.Condition)
	api.GET("/views/materials", h.Materials)
	api.GET("/views/pipes", h.Pipes)
	api.GET("/views/geospatial", h.Geospatial)
	api.GET("/export/:kind", h.Export)
}

func (h *DashboardHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// session binds the global zone and ward filter and opens a session on it.
func (h *DashboardHandler) session(c *gin.Context) (*services.Session, bool) {
	var filter models.GlobalFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_PARAMETERS", "Invalid filter parameters", err)
		return nil, false
	}
	s, err := h.service.Session(c.Request.Context(), filter)
	if err != nil {
		failFor(c, err)
		return nil, false
	}
	return s, true
}

// bindView binds and validates a view-level filter from the query string.
func bindView(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_PARAMETERS", "Invalid filter parameters", err)
		return false
	}
	if err := services.ValidateRequest(req); err != nil {
		failFor(c, err)
		return false
	}
	return true
}

func (h *DashboardHandler) Status(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	respond(c, s.Dataset(), services.BuildStatus(s), nil)
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	view := services.BuildSummary(s)
	respond(c, s.Dataset(), view, intPtr(view.TotalManholes))
}

func (h *DashboardHandler) Condition(c *gin.Context) {
	var f models.ConditionFilter
	if !bindView(c, &f) {
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	view := services.BuildCondition(s, f)
	respond(c, s.Dataset(), view, intPtr(view.FilteredCount))
}

func (h *DashboardHandler) Materials(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	respond(c, s.Dataset(), services.BuildMaterials(s), nil)
}

func (h *DashboardHandler) Pipes(c *gin.Context) {
	var f models.PipeFilter
	if !bindView(c, &f) {
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	view := services.BuildPipes(s, f)
	respond(c, s.Dataset(), view, intPtr(view.FilteredCount))
}

func (h *DashboardHandler) Geospatial(c *gin.Context) {
	var req models.MapRequest
	if !bindView(c, &req) {
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	view := services.BuildGeospatial(s, req)
	if len(view.Notices) > 0 {
		h.log.Warn("map built with notices", zap.Strings("notices", view.Notices), zap.String("request_id", requestID(c)))
	}
	respond(c, s.Dataset(), view, intPtr(view.ManholeCount))
}

func knownExport(kind models.ExportKind) bool {
	for _, k := range models.ExportKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Export streams one CSV export as a download. The manhole export honours
// the condition view filters and the pipe export the pipe view filters.
func (h *DashboardHandler) Export(c *gin.Context) {
	kind := models.ExportKind(c.Param("kind"))
	if !knownExport(kind) {
		fail(c, http.StatusNotFound, "UNKNOWN_EXPORT", fmt.Sprintf("No export named %q", kind), nil)
		return
	}

	var f export.Filters
	switch kind {
	case models.ExportManholes:
		if !bindView(c, &f.Condition) {
			return
		}
	case models.ExportPipes:
		if !bindView(c, &f.Pipe) {
			return
		}
	}
	s, ok := h.session(c)
	if !ok {
		return
	}

	data, err := export.Render(kind, s, f)
	if err != nil {
		failFor(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordExport(string(kind))
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(kind, h.now())))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// Dashboard renders the chart page for the current global filter.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	err := charts.Dashboard(&buf, services.BuildSummary(s), services.BuildMaterials(s), services.BuildPipes(s, models.PipeFilter{}))
	if err != nil {
		failFor(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
