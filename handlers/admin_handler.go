package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"mcc-sewer-dashboard/metrics"
	"mcc-sewer-dashboard/services"
)

// AdminHandler serves the operator endpoints on the admin listener.
type AdminHandler struct {
	service *services.DashboardService
	metrics *metrics.Registry
	log     *zap.Logger
}

func NewAdminHandler(service *services.DashboardService, reg *metrics.Registry, log *zap.Logger) *AdminHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminHandler{service: service, metrics: reg, log: log}
}

func (h *AdminHandler) RegisterRoutes(router *mux.Router) {
	router.Handle("/metrics", h.metrics.Handler()).Methods("GET")
	router.HandleFunc("/healthz", h.Health).Methods("GET")
	router.HandleFunc("/cache/invalidate", h.InvalidateCache).Methods("POST")
}

func (h *AdminHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// InvalidateCache drops the dataset so the next request reloads the source
// tables.
func (h *AdminHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.service.Refresh()
	h.log.Info("cache invalidated by operator", zap.String("remote", r.RemoteAddr))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "invalidated"})
}

func NewAdminRouter(service *services.DashboardService, reg *metrics.Registry, log *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	NewAdminHandler(service, reg, log).RegisterRoutes(router)
	return router
}
