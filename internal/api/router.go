package api

import (
	"github.com/gin-gonic/gin"
)

// NewRouter wires every endpoint. demoUserID points at the seeded user so
// /api/reset can replace it; pass nil when seeding is disabled.
func NewRouter(app App, demoUserID *int64) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	u := r.Group("/api/user/:id")
	u.GET("", GetUser(app))
	u.GET("/heatmap", GetHeatmap(app))
	u.GET("/sessions", GetSessions(app))
	u.POST("/log_session", LogSession(app))
	u.GET("/goal_suggestion", GetGoalSuggestion(app))
	u.POST("/accept_goal", AcceptGoal(app))
	u.POST("/dismiss_goal", DismissGoal(app))
	u.POST("/update_settings", UpdateSettings(app))
	u.GET("/stats", GetStats(app))
	u.GET("/nudge", GetNudge(app))

	if demoUserID != nil {
		r.POST("/api/reset", ResetDemo(app, demoUserID))
	}

	return r
}
