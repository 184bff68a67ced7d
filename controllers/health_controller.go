package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServiceName is reported by the health endpoint and used as the metrics
// dimension.
const ServiceName = "query-hub"

// Root handles GET /.
func Root(c *gin.Context) {
	c.String(http.StatusOK, "query hub is running!")
}

// Health handles GET /health.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "service": ServiceName})
}
