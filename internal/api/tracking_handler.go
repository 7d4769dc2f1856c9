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
	"pulsefit/fitness-tracker/internal/service"
)

// TrackingHandler covers measurements, goals and supplements.
type TrackingHandler struct {
	trackingService service.TrackingService
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(trackingService service.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

// --- Request Structs ---

type AddMeasurementRequest struct {
	MeasuredAt *time.Time `json:"measuredAt"`
	WeightKg   float64    `json:"weightKg" binding:"required,gt=0"`
	BodyFatPct float64    `json:"bodyFatPct" binding:"omitempty,gt=0,lt=100"`
	ChestCm    float64    `json:"chestCm" binding:"omitempty,gt=0"`
	WaistCm    float64    `json:"waistCm" binding:"omitempty,gt=0"`
	HipsCm     float64    `json:"hipsCm" binding:"omitempty,gt=0"`
	ArmsCm     float64    `json:"armsCm" binding:"omitempty,gt=0"`
	ThighsCm   float64    `json:"thighsCm" binding:"omitempty,gt=0"`
	Notes      string     `json:"notes"`
}

type GoalRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	TargetDate  *time.Time `json:"targetDate"`
}

type SupplementRequest struct {
	Name      string `json:"name" binding:"required"`
	Dosage    string `json:"dosage"`
	Schedule  string `json:"schedule"`
	TimeOfDay string `json:"timeOfDay"`
}

type IntakeRequest struct {
	Taken bool `json:"taken"`
}

// --- Measurements ---

func (h *TrackingHandler) AddMeasurement(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	var req AddMeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	measuredAt := time.Now()
	if req.MeasuredAt != nil {
		measuredAt = *req.MeasuredAt
	}

	m, err := h.trackingService.AddMeasurement(c.Request.Context(), &domain.Measurement{
		UserID:     userID,
		MeasuredAt: measuredAt,
		WeightKg:   req.WeightKg,
		BodyFatPct: req.BodyFatPct,
		ChestCm:    req.ChestCm,
		WaistCm:    req.WaistCm,
		HipsCm:     req.HipsCm,
		ArmsCm:     req.ArmsCm,
		ThighsCm:   req.ThighsCm,
		Notes:      req.Notes,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to save measurement")
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *TrackingHandler) GetMeasurements(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	limit := int64(100)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 || parsed > 1000 {
			abortWithError(c, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	list, err := h.trackingService.Measurements(c.Request.Context(), userID, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch measurements")
		return
	}
	if list == nil {
		list = []domain.Measurement{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *TrackingHandler) GetLatestMeasurement(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	m, err := h.trackingService.LatestMeasurement(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrMeasurementNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch measurement")
		}
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *TrackingHandler) DeleteMeasurement(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "measurementId")
	if !ok {
		return
	}

	if err := h.trackingService.DeleteMeasurement(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrMeasurementNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete measurement")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Goals ---

func (h *TrackingHandler) AddGoal(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	goal, err := h.trackingService.AddGoal(c.Request.Context(), &domain.Goal{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  req.TargetDate,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to save goal")
		return
	}
	c.JSON(http.StatusCreated, goal)
}

func (h *TrackingHandler) GetGoals(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	goals, err := h.trackingService.Goals(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch goals")
		return
	}
	if goals == nil {
		goals = []domain.Goal{}
	}
	c.JSON(http.StatusOK, goals)
}

func (h *TrackingHandler) UpdateGoal(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "goalId")
	if !ok {
		return
	}

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	goal := &domain.Goal{
		ID:          id,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  req.TargetDate,
	}
	if err := h.trackingService.UpdateGoal(c.Request.Context(), goal); err != nil {
		h.writeGoalError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// AchieveGoal marks a goal achieved. This feeds the goal_achieved
// achievement on the next workout.
func (h *TrackingHandler) AchieveGoal(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "goalId")
	if !ok {
		return
	}

	if err := h.trackingService.AchieveGoal(c.Request.Context(), userID, id); err != nil {
		h.writeGoalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TrackingHandler) DeleteGoal(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "goalId")
	if !ok {
		return
	}

	if err := h.trackingService.DeleteGoal(c.Request.Context(), userID, id); err != nil {
		h.writeGoalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TrackingHandler) writeGoalError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrGoalNotFound) {
		abortWithError(c, http.StatusNotFound, err.Error())
		return
	}
	abortWithError(c, http.StatusInternalServerError, "Goal operation failed")
}

// --- Supplements ---

func (h *TrackingHandler) AddSupplement(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	var req SupplementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	sup, err := h.trackingService.AddSupplement(c.Request.Context(), &domain.Supplement{
		UserID:    userID,
		Name:      req.Name,
		Dosage:    req.Dosage,
		Schedule:  req.Schedule,
		TimeOfDay: req.TimeOfDay,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to save supplement")
		return
	}
	c.JSON(http.StatusCreated, sup)
}

func (h *TrackingHandler) GetSupplements(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	list, err := h.trackingService.Supplements(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch supplements")
		return
	}
	if list == nil {
		list = []domain.Supplement{}
	}

	taken, err := h.trackingService.TodaysIntake(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch intake")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"supplements": list,
		"takenToday":  hexIDs(taken),
	})
}

func (h *TrackingHandler) UpdateSupplement(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "supplementId")
	if !ok {
		return
	}

	var req SupplementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	sup := &domain.Supplement{
		ID:        id,
		UserID:    userID,
		Name:      req.Name,
		Dosage:    req.Dosage,
		Schedule:  req.Schedule,
		TimeOfDay: req.TimeOfDay,
	}
	if err := h.trackingService.UpdateSupplement(c.Request.Context(), sup); err != nil {
		h.writeSupplementError(c, err)
		return
	}
	c.JSON(http.StatusOK, sup)
}

func (h *TrackingHandler) DeleteSupplement(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "supplementId")
	if !ok {
		return
	}

	if err := h.trackingService.DeleteSupplement(c.Request.Context(), userID, id); err != nil {
		h.writeSupplementError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetIntake toggles "taken today" for a supplement.
func (h *TrackingHandler) SetIntake(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "supplementId")
	if !ok {
		return
	}

	var req IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.trackingService.SetIntake(c.Request.Context(), userID, id, req.Taken); err != nil {
		h.writeSupplementError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TrackingHandler) writeSupplementError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrSupplementNotFound) {
		abortWithError(c, http.StatusNotFound, err.Error())
		return
	}
	abortWithError(c, http.StatusInternalServerError, "Supplement operation failed")
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}
