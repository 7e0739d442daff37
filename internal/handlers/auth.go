package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-management-api/internal/dto"
	apierrors "github.com/yukikurage/event-management-api/internal/errors"
	"github.com/yukikurage/event-management-api/internal/models"
	"github.com/yukikurage/event-management-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates an account and signs the user in.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Name               string      `json:"nome" binding:"required,max=255"`
		Email              string      `json:"email" binding:"required,email"`
		Password           string      `json:"senha" binding:"required,min=6"`
		RegistrationNumber *string     `json:"matricula" binding:"omitempty,max=50"`
		Role               models.Role `json:"papel" binding:"omitempty,role"`
	}

	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Name:               req.Name,
		Email:              req.Email,
		Password:           req.Password,
		RegistrationNumber: req.RegistrationNumber,
		Role:               req.Role,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:    user.Email,
		Password: req.Password,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		Message:     "Usuário cadastrado com sucesso",
		AccessToken: result.Token,
		User:        dto.ToUserDTO(*user),
	})
}

// Login authenticates a user and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"senha" binding:"required"`
	}

	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		AccessToken: result.Token,
		User:        dto.ToUserDTO(*result.User),
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
