package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-management-api/internal/dto"
	apierrors "github.com/yukikurage/event-management-api/internal/errors"
	"github.com/yukikurage/event-management-api/internal/services"
)

// UserHandler serves profile endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile returns the caller's profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateProfile updates the caller's own profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	type UpdateProfileRequest struct {
		Name               *string `json:"nome" binding:"omitempty,max=255"`
		Email              *string `json:"email" binding:"omitempty,email"`
		Password           *string `json:"senha" binding:"omitempty,min=6"`
		RegistrationNumber *string `json:"matricula" binding:"omitempty,max=50"`
	}

	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, targetID, services.UpdateProfileInput{
		Name:               req.Name,
		Email:              req.Email,
		Password:           req.Password,
		RegistrationNumber: req.RegistrationNumber,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// GetByRegistrationNumber looks a participant up by matricula
func (h *UserHandler) GetByRegistrationNumber(c *gin.Context) {
	user, err := h.userService.GetByRegistrationNumber(c.Request.Context(), c.Param("matricula"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
