package api

import (
	"math"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal"
	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal/seed"
	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal/service"
)

// UserView is the dashboard payload: the user row with the streak freshly
// recomputed and today's minutes attached.
type UserView struct {
	internal.User
	TodayMinutes  float64 `json:"today_minutes"`
	ShieldMessage string  `json:"shield_message,omitempty"`
}

func GetUser(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := UserID(c)
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid user id")
			return
		}
		ctx := c.Request.Context()
		store := app.Store()
		now := time.Now()

		// Read path recomputes and persists the streak on every fetch.
		res, err := service.ComputeStreak(ctx, store, store, store, userID, now)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to compute streak")
			return
		}
		user, err := store.GetUser(ctx, userID)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to fetch user")
			return
		}
		todayTotal, err := store.DayTotal(ctx, userID, now.Format(internal.DateLayout))
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to fetch today's total")
			return
		}

		HandleSuccess(c, app.Logger(), UserView{
			User:          *user,
			TodayMinutes:  math.Round(todayTotal*10) / 10,
			ShieldMessage: res.ShieldMessage,
		}, nil)
	}
}

func GetHeatmap(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := UserID(c)
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid user id")
			return
		}
		days, err := service.Heatmap(c.Request.Context(), app.Store(), app.Store(), userID, time.Now())
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to build heatmap")
			return
		}
		HandleSuccess(c, app.Logger(), days, nil)
	}
}

func GetSessions(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := UserID(c)
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid user id")
			return
		}
		sessions, err := app.Store().ListSessions(c.Request.Context(), userID, 50)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to fetch sessions")
			return
		}
		HandleSuccess(c, app.Logger(), sessions, nil)
	}
}

func LogSession(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := UserID(c)
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid user id")
			return
		}
		var req service.LogSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		result, err := service.LogSession(c.Request.Context(), app.Store(), userID, &req, time.Now())
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to log session")
			return
		}
		HandleSuccess(c, app.Logger(), result, nil)
	}
}

func GetGoalSuggestion(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := UserID(c)
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid user id")
			return
		}
		store := app.Store()
		adj, err := service.SuggestGoal(c.Request.Context(), store, store, store, userID, time.Now())
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to evaluate goal suggestion")
			return
		}
		if adj == nil {
			// Insufficient data or no trigger: null payload, not an error.
			HandleSuccess(c, app.Logger(), nil, nil)
			return
		}
		HandleSuccess(c, app.Logger(), adj, nil)
	}
}

type adjustmentRequest struct {
	AdjustmentID int64 `json:"adjustment_id"`
}

func AcceptGoal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := UserID(c)
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid user id")
			return
		}
		var req adjustmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid request: adjustment_id required")
			return
		}
		store := app.Store()
		newGoal, err := service.AcceptGoal(c.Request.Context(), store, store, req.AdjustmentID, userID)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to accept goal adjustment")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"success": true, "new_goal": newGoal}, nil)
	}
}

func DismissGoal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := UserID(c); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid user id")
			return
		}
		var req adjustmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid request: adjustment_id required")
			return
		}
		if err := service.DismissGoal(c.Request.Context(), app.Store(), req.AdjustmentID); err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to dismiss goal adjustment")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"success": true}, nil)
	}
}

func UpdateSettings(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := UserID(c)
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid user id")
			return
		}
		var req service.UpdateSettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.UpdateSettings(c.Request.Context(), app.Store(), userID, &req); err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to update settings")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"success": true}, nil)
	}
}

func GetStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := UserID(c)
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid user id")
			return
		}
		stats, err := service.ComputeStats(c.Request.Context(), app.Store(), userID, time.Now())
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to compute stats")
			return
		}
		HandleSuccess(c, app.Logger(), stats, nil)
	}
}

func GetNudge(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := UserID(c)
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid user id")
			return
		}
		ctx := c.Request.Context()
		store := app.Store()
		now := time.Now()

		user, err := store.GetUser(ctx, userID)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to fetch user")
			return
		}
		todayTotal, err := store.DayTotal(ctx, userID, now.Format(internal.DateLayout))
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to fetch today's total")
			return
		}

		nudge := service.BuildNudge(now, todayTotal, user.DailyGoalMinutes, user.PreferredTime, user.CurrentStreak)
		if nudge == nil {
			HandleSuccess(c, app.Logger(), nil, nil)
			return
		}
		HandleSuccess(c, app.Logger(), nudge, nil)
	}
}

// ResetDemo wipes and re-seeds the demo user. Registered only when demo
// seeding is enabled.
func ResetDemo(app App, demoUserID *int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !app.SeedEnabled() {
			HandleError(c, app.Logger(), internal.ErrNotFound, 404, "Demo seeding disabled")
			return
		}
		id, err := seed.Reseed(c.Request.Context(), app.Store(), *demoUserID, time.Now())
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to reset demo data")
			return
		}
		*demoUserID = id
		HandleSuccess(c, app.Logger(), gin.H{"success": true, "user_id": id}, nil)
	}
}
