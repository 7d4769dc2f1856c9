package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/guided"
	"pulsefit/fitness-tracker/internal/service"
)

// WorkoutHandler drives guided sessions and the workout history.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- Request Structs ---

type StartSessionRequest struct {
	PlanID string `json:"planId" binding:"required_without=Exercises"`
	DayID  string `json:"dayId" binding:"required_with=PlanID"`

	// Ad-hoc sessions pass exercises directly instead of a plan day.
	Exercises []domain.ExerciseRef `json:"exercises" binding:"required_without=PlanID,dive"`
}

type LogWorkoutRequest struct {
	Minutes     int        `json:"minutes" binding:"required,gt=0"`
	CompletedAt *time.Time `json:"completedAt"`
}

// --- Handler Methods ---

// StartSession starts a guided session, either from a plan day or from an
// explicit exercise list.
func (h *WorkoutHandler) StartSession(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	var snap guided.Snapshot
	var err error
	if req.PlanID != "" {
		planID, perr := primitive.ObjectIDFromHex(req.PlanID)
		if perr != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid planId format")
			return
		}
		snap, err = h.workoutService.StartGuided(c.Request.Context(), userID, planID, req.DayID)
	} else {
		snap, err = h.workoutService.StartGuidedAdHoc(c.Request.Context(), userID, req.Exercises)
	}
	if err != nil {
		h.writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, snap)
}

// GetSession returns the live session state.
func (h *WorkoutHandler) GetSession(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// CompleteExercise marks the current exercise done and moves the session on.
func (h *WorkoutHandler) CompleteExercise(c *gin.Context) {
	h.sessionAction(c, func(sess *guided.Session) error { return sess.CompleteCurrent() })
}

// SkipRest ends the rest phase early.
func (h *WorkoutHandler) SkipRest(c *gin.Context) {
	h.sessionAction(c, func(sess *guided.Session) error { return sess.SkipRest() })
}

// PreviousExercise steps back one exercise.
func (h *WorkoutHandler) PreviousExercise(c *gin.Context) {
	h.sessionAction(c, func(sess *guided.Session) error { return sess.Previous() })
}

// NextExercise skips forward without marking the current exercise done.
func (h *WorkoutHandler) NextExercise(c *gin.Context) {
	h.sessionAction(c, func(sess *guided.Session) error { return sess.Next() })
}

// TogglePause pauses or resumes the session.
func (h *WorkoutHandler) TogglePause(c *gin.Context) {
	h.sessionAction(c, func(sess *guided.Session) error {
		_, err := sess.TogglePause()
		return err
	})
}

// ExitSession abandons the session without recording anything.
func (h *WorkoutHandler) ExitSession(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	if err := sess.Exit(); err != nil {
		h.writeSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// FinishSession completes the session, logs the workout and runs
// progression. The response carries the celebration payload.
func (h *WorkoutHandler) FinishSession(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	summary, err := h.workoutService.FinishGuided(c.Request.Context(), userID)
	if err != nil {
		h.writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// LogWorkout records a workout done off-app.
func (h *WorkoutHandler) LogWorkout(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	completedAt := time.Now()
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}

	summary, err := h.workoutService.LogManual(c.Request.Context(), userID, req.Minutes, completedAt)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDuration) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to log workout")
		}
		return
	}
	c.JSON(http.StatusCreated, summary)
}

// GetHistory lists completed workouts, most recent first.
func (h *WorkoutHandler) GetHistory(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	limit := int64(50)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 || parsed > 500 {
			abortWithError(c, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	logs, err := h.workoutService.History(c.Request.Context(), userID, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch history")
		return
	}
	if logs == nil {
		logs = []domain.SessionLog{}
	}
	c.JSON(http.StatusOK, logs)
}

// --- helpers ---

func (h *WorkoutHandler) session(c *gin.Context) (*guided.Session, bool) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return nil, false
	}
	sess, err := h.workoutService.Session(userID)
	if err != nil {
		h.writeSessionError(c, err)
		return nil, false
	}
	return sess, true
}

// sessionAction runs an action against the live session and returns the
// fresh snapshot so clients never need a follow-up read.
func (h *WorkoutHandler) sessionAction(c *gin.Context, action func(*guided.Session) error) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	if err := action(sess); err != nil {
		h.writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

func (h *WorkoutHandler) writeSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, guided.ErrNoActiveSession):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, guided.ErrSessionActive):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, guided.ErrWrongPhase),
		errors.Is(err, guided.ErrAtLastExercise),
		errors.Is(err, guided.ErrSessionOver),
		errors.Is(err, guided.ErrNoExercises),
		errors.Is(err, service.ErrNothingToStart):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrPlanNotFound), errors.Is(err, service.ErrDayNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotPlanOwner):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Session operation failed")
	}
}
