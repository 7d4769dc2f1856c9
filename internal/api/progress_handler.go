package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pulsefit/fitness-tracker/internal/gamification"
	"pulsefit/fitness-tracker/internal/planner"
	"pulsefit/fitness-tracker/internal/service"
)

// ProgressHandler serves the stats screen: level, XP, streaks, achievements
// and the AI insight blurb.
type ProgressHandler struct {
	progressionService service.ProgressionService
	planService        service.PlanService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressionService service.ProgressionService, planService service.PlanService) *ProgressHandler {
	return &ProgressHandler{progressionService: progressionService, planService: planService}
}

type StatsResponse struct {
	XP            int `json:"xp"`
	Level         int `json:"level"`
	TotalWorkouts int `json:"totalWorkouts"`
	TotalMinutes  int `json:"totalMinutes"`
	CurrentStreak int `json:"currentStreak"`
	StreakBest    int `json:"streakBest"`
	XPToNextLevel int `json:"xpToNextLevel"` // 0 at the level cap
}

// GetStats returns the user's progression aggregate plus the live streak.
func (h *ProgressHandler) GetStats(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	agg, streak, err := h.progressionService.Stats(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		XP:            agg.XP,
		Level:         agg.Level,
		TotalWorkouts: agg.TotalWorkouts,
		TotalMinutes:  agg.TotalMinutes,
		CurrentStreak: streak,
		StreakBest:    agg.StreakBest,
		XPToNextLevel: xpToNext(agg.XP),
	})
}

// xpToNext is the XP still missing for the next level, 0 at the cap.
func xpToNext(xp int) int {
	next := gamification.XPForNextLevel(xp)
	if next < 0 {
		return 0
	}
	return next - xp
}

// GetAchievements lists the achievement catalog with unlock state.
func (h *ProgressHandler) GetAchievements(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	statuses, err := h.progressionService.Achievements(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch achievements")
		return
	}
	c.JSON(http.StatusOK, statuses)
}

// GetInsight returns a short AI-generated text about recent training.
func (h *ProgressHandler) GetInsight(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	text, err := h.planService.Insight(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrPlannerNotConfigured) {
			abortWithError(c, http.StatusServiceUnavailable, err.Error())
		} else if errors.Is(err, planner.ErrUnavailable) {
			abortWithError(c, http.StatusBadGateway, "Insight generation is temporarily unavailable")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate insight")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"insight": text})
}
