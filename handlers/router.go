package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mcc-sewer-dashboard/config"
	"mcc-sewer-dashboard/metrics"
	"mcc-sewer-dashboard/services"
)

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", requestIDHeader}
	cfg.ExposeHeaders = []string{requestIDHeader, "Content-Disposition"}

	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

// NewRouter builds the public dashboard API.
func NewRouter(service *services.DashboardService, reg *metrics.Registry, log *zap.Logger, cfg config.ServerConfig) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logger(log))
	if reg != nil {
		r.Use(Metrics(reg))
	}
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	}

	NewDashboardHandler(service, reg, log).RegisterRoutes(r)
	return r
}
