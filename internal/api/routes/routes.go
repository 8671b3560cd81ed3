package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/trident-ems/trident/internal/api/handlers"
	"github.com/trident-ems/trident/internal/api/middleware"
)

type Deps struct {
	Calls   *handlers.CallHandler
	Analyze *handlers.AnalyzeHandler
	Live    *handlers.LiveHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": "trident-triage"})
	})

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	api := auth.Group("/api")
	api.Use(middleware.RequireRole("dispatcher", "supervisor", "admin"))

	api.GET("/calls", d.Calls.List)
	api.GET("/calls/:call_id", d.Calls.Get)
	api.GET("/calls/:call_id/audio", d.Calls.AudioURL)
	api.POST("/analyze", d.Analyze.Analyze)

	// WebSocket
	auth.GET("/ws/call/:call_id", d.Live.CallWS)
}
