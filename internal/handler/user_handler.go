package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voyago/identity-service/internal/dto"
	"github.com/voyago/identity-service/internal/service"
)

// UserHandler handles profile and reward-point requests
type UserHandler struct {
	authService service.AuthService
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService service.AuthService) *UserHandler {
	return &UserHandler{
		authService: authService,
	}
}

// GetMe returns the authenticated user's profile
// @Summary Get the current profile
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	profile, err := h.authService.GetProfile(c.Request.Context(), c.GetString(ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, profile)
}

// UpdateMe applies a partial profile update
// @Summary Update the current profile
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile update"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Router /users/me [patch]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	profile, err := h.authService.UpdateProfile(c.Request.Context(), c.GetString(ContextUserID), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, profile)
}

// AddRewardPoints adjusts the reward balance
// @Summary Credit or debit reward points
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AddRewardPointsRequest true "Points delta"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Router /users/me/reward-points [post]
func (h *UserHandler) AddRewardPoints(c *gin.Context) {
	var req dto.AddRewardPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	profile, err := h.authService.AddRewardPoints(c.Request.Context(), c.GetString(ContextUserID), req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, profile)
}
