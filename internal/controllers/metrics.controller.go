package controllers

import (
	"killprocess/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GetMetrics exposes pipeline metrics in the Prometheus text format.
func GetMetrics(m *services.Metrics) gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))
}
