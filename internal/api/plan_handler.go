package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/planner"
	"pulsefit/fitness-tracker/internal/service"
)

// PlanHandler holds the plan service dependencies. The auth service is
// needed for AI generation, which reads the user's profile.
type PlanHandler struct {
	planService service.PlanService
	authService service.AuthService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService, authService service.AuthService) *PlanHandler {
	return &PlanHandler{planService: planService, authService: authService}
}

// --- Request Structs ---

type CreatePlanRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Days        []domain.WorkoutDay `json:"days"`
}

type GeneratePlanRequest struct {
	FitnessGoal   string  `json:"fitnessGoal"`
	DaysPerWeek   int     `json:"daysPerWeek" binding:"required,gte=1,lte=7"`
	Experience    string  `json:"experience" binding:"required,oneof=beginner intermediate advanced"`
	WeightKg      float64 `json:"weightKg" binding:"omitempty,gt=0"`
	EquipmentNote string  `json:"equipmentNote"`
}

// --- Handler Methods ---

// CreatePlan stores a new workout plan for the user.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), &domain.WorkoutPlan{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Days:        req.Days,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create plan")
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// GetPlans lists the user's plans.
func (h *PlanHandler) GetPlans(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	plans, err := h.planService.List(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch plans")
		return
	}
	if plans == nil {
		plans = []domain.WorkoutPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

// GetPlan returns one plan by ID.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	planID, ok := parsePathID(c, "planId")
	if !ok {
		return
	}

	plan, err := h.planService.Get(c.Request.Context(), userID, planID)
	if err != nil {
		h.writePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GetActivePlan returns the user's active plan.
func (h *PlanHandler) GetActivePlan(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	plan, err := h.planService.Active(c.Request.Context(), userID)
	if err != nil {
		h.writePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// UpdatePlan replaces a plan's name, description and days.
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	planID, ok := parsePathID(c, "planId")
	if !ok {
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	// Ownership check before writing.
	existing, err := h.planService.Get(c.Request.Context(), userID, planID)
	if err != nil {
		h.writePlanError(c, err)
		return
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Days = req.Days
	if err := h.planService.Update(c.Request.Context(), existing); err != nil {
		h.writePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, existing)
}

// ActivatePlan makes the plan the user's single active plan.
func (h *PlanHandler) ActivatePlan(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	planID, ok := parsePathID(c, "planId")
	if !ok {
		return
	}

	if err := h.planService.SetActive(c.Request.Context(), userID, planID); err != nil {
		h.writePlanError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeletePlan removes a plan.
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	planID, ok := parsePathID(c, "planId")
	if !ok {
		return
	}

	if err := h.planService.Delete(c.Request.Context(), userID, planID); err != nil {
		h.writePlanError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GeneratePlan asks the AI planner for a plan based on the user's profile.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID.Hex())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch user profile")
		return
	}

	plan, err := h.planService.Generate(c.Request.Context(), user, planner.PlanRequest{
		FitnessGoal:   req.FitnessGoal,
		DaysPerWeek:   req.DaysPerWeek,
		Experience:    req.Experience,
		WeightKg:      req.WeightKg,
		EquipmentNote: req.EquipmentNote,
	})
	if err != nil {
		if errors.Is(err, service.ErrPlannerNotConfigured) {
			abortWithError(c, http.StatusServiceUnavailable, err.Error())
		} else if errors.Is(err, planner.ErrUnavailable) {
			abortWithError(c, http.StatusBadGateway, "Plan generation is temporarily unavailable")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate plan")
		}
		return
	}

	c.JSON(http.StatusCreated, plan)
}

func (h *PlanHandler) writePlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotPlanOwner):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Plan operation failed")
	}
}
