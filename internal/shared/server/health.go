package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/respond"
)

// registerOpsRoutes attaches the health and metrics endpoints.
func registerOpsRoutes(rg *gin.RouterGroup, svc *health.Service) {
	rg.GET("/health", func(c *gin.Context) {
		ok, checks := svc.Status(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, gin.H{"ok": ok, "checks": checks})
	})
	rg.GET("/metrics", metrics.Handler())
}
