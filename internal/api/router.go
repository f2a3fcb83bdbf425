// Package api exposes the engine over a JSON HTTP API.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"glucoguard/internal/app"
)

type handler struct {
	app    *app.App
	logger hclog.Logger
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(a *app.App, logger hclog.Logger) *gin.Engine {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	h := &handler{app: a, logger: logger}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	router.MaxMultipartMemory = maxImageBytes

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/state", h.getState)
		api.DELETE("/state", h.resetState)
		api.PATCH("/profile", h.patchProfile)
		api.PATCH("/habits", h.patchHabits)
		api.POST("/log", h.logHabits)
		api.GET("/challenges", h.listChallenges)
		api.POST("/challenges/:id/complete", h.completeChallenge)
		api.GET("/badges", h.listBadges)
		api.POST("/food", h.addFood)
		api.POST("/food/scan", h.scanFood)
		api.GET("/weekly", h.getWeekly)
	}

	return router
}

func requestLogger(logger hclog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
