package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pulsefit/pulsefit-backend/internal/logger"
	"github.com/pulsefit/pulsefit-backend/internal/requestdata"
	"github.com/pulsefit/pulsefit-backend/internal/services"
	"github.com/pulsefit/pulsefit-backend/internal/svcerr"
)

type WorkoutHandler struct {
	generation services.WorkoutGenerationService
	queries    services.WorkoutQueryService
	log        *logger.Logger
}

func NewWorkoutHandler(generation services.WorkoutGenerationService, queries services.WorkoutQueryService, baseLog *logger.Logger) *WorkoutHandler {
	return &WorkoutHandler{
		generation: generation,
		queries:    queries,
		log:        baseLog.With("handler", "WorkoutHandler"),
	}
}

type generateRequest struct {
	ScheduledDate string `json:"scheduled_date" binding:"required"`
}

func (h *WorkoutHandler) Generate(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		respondError(c, svcerr.ErrUnauthorized)
		return
	}
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, svcerr.ErrInvalidInput.WithCause(err))
		return
	}
	view, err := h.generation.Generate(c.Request.Context(), rd.UserID, req.ScheduledDate)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "workout plan generated", view)
}

type regenerateRequest struct {
	WorkoutPlanID string `json:"workout_plan_id" binding:"required"`
	ScheduledDate string `json:"scheduled_date" binding:"required"`
}

func (h *WorkoutHandler) Regenerate(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		respondError(c, svcerr.ErrUnauthorized)
		return
	}
	var req regenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, svcerr.ErrInvalidInput.WithCause(err))
		return
	}
	planID, err := uuid.Parse(req.WorkoutPlanID)
	if err != nil {
		respondError(c, svcerr.ErrInvalidInput.WithMessage("workout_plan_id must be a UUID"))
		return
	}
	view, err := h.generation.Regenerate(c.Request.Context(), rd.UserID, planID, req.ScheduledDate)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "workout plan regenerated", view)
}

func (h *WorkoutHandler) TodayWorkout(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		respondError(c, svcerr.ErrUnauthorized)
		return
	}
	date := c.Query("scheduled_date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	view, err := h.queries.GetWorkoutByDate(c.Request.Context(), rd.UserID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "workout fetched", view)
}

func (h *WorkoutHandler) WorkoutByDate(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		respondError(c, svcerr.ErrUnauthorized)
		return
	}
	date := c.Query("scheduled_date")
	if date == "" {
		respondError(c, svcerr.ErrInvalidInput.WithMessage("scheduled_date query parameter is required"))
		return
	}
	view, err := h.queries.GetWorkoutByDate(c.Request.Context(), rd.UserID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "workout fetched", view)
}

func (h *WorkoutHandler) WeekSummaries(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		respondError(c, svcerr.ErrUnauthorized)
		return
	}
	view, err := h.queries.GetWeekSummaries(c.Request.Context(), rd.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "week summaries fetched", view)
}

func (h *WorkoutHandler) ActivePlan(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		respondError(c, svcerr.ErrUnauthorized)
		return
	}
	view, err := h.queries.GetActivePlan(c.Request.Context(), rd.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "active plan fetched", view)
}

func (h *WorkoutHandler) CompleteWorkout(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		respondError(c, svcerr.ErrUnauthorized)
		return
	}
	workoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, svcerr.ErrInvalidInput.WithMessage("workout id must be a UUID"))
		return
	}
	if err := h.queries.CompleteWorkout(c.Request.Context(), rd.UserID, workoutID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "workout completed", nil)
}

func (h *WorkoutHandler) CompleteSet(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		respondError(c, svcerr.ErrUnauthorized)
		return
	}
	setID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, svcerr.ErrInvalidInput.WithMessage("set id must be a UUID"))
		return
	}
	if err := h.queries.CompleteSet(c.Request.Context(), rd.UserID, setID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "set completed", nil)
}
