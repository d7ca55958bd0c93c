package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulsefit/pulsefit-backend/internal/logger"
	"github.com/pulsefit/pulsefit-backend/internal/requestdata"
	"github.com/pulsefit/pulsefit-backend/internal/services"
	"github.com/pulsefit/pulsefit-backend/internal/svcerr"
)

type UserHandler struct {
	users services.UserService
	log   *logger.Logger
}

func NewUserHandler(users services.UserService, baseLog *logger.Logger) *UserHandler {
	return &UserHandler{users: users, log: baseLog.With("handler", "UserHandler")}
}

func (h *UserHandler) MyProfile(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		respondError(c, svcerr.ErrUnauthorized)
		return
	}
	view, err := h.users.GetProfile(c.Request.Context(), rd.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "profile fetched", view)
}

func (h *UserHandler) OnboardUser(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		respondError(c, svcerr.ErrUnauthorized)
		return
	}
	var in services.OnboardInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, svcerr.ErrInvalidInput.WithCause(err))
		return
	}
	profile, err := h.users.Onboard(c.Request.Context(), rd.UserID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "onboarding complete", profile)
}

func (h *UserHandler) EditOnboarding(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		respondError(c, svcerr.ErrUnauthorized)
		return
	}
	var in services.OnboardInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, svcerr.ErrInvalidInput.WithCause(err))
		return
	}
	profile, err := h.users.UpdateOnboarding(c.Request.Context(), rd.UserID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "onboarding updated", profile)
}

func (h *UserHandler) AllEquipment(c *gin.Context) {
	equipment, err := h.users.GetAllEquipment(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "equipment fetched", equipment)
}

func (h *UserHandler) AllExercises(c *gin.Context) {
	exercises, err := h.users.GetAllExercises(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "exercises fetched", exercises)
}
