package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"p2p-lending.backend/internal/interfaces/http/middleware"
	"p2p-lending.backend/pkg/metrics"
)

const (
	serviceName    = "p2p-lending-backend"
	serviceVersion = "1.0.0"
)

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept-Language, "+middleware.IdempotencyHeader+", "+middleware.RequestIDHeader)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Expose-Headers", middleware.RequestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerMetricsRoute(r *gin.Engine, registry *prometheus.Registry) {
	r.GET("/metrics", gin.WrapH(metrics.Handler(registry)))
}

// registerUploadsRoute serves stored files read-only
func registerUploadsRoute(r *gin.Engine, publicURL, dir string) {
	r.Static(publicURL, dir)
}
