// Package server exposes label generation over HTTP.
package server

import (
	"github.com/gin-gonic/gin"
)

// NewRouter 组装中间件与路由。
func NewRouter(h *Handler, mode string) *gin.Engine {
	if mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())
	r.Use(ErrorMiddleware())

	api := r.Group("/v1/api")
	{
		api.GET("/health", HealthCheck)
		api.GET("/label", h.GetLabel)
		api.GET("/plan", h.GetPlan)
		api.GET("/cache", h.GetCacheStats)
		api.DELETE("/cache", h.ClearCache)
	}
	return r
}
