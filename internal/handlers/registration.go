package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-management-api/internal/dto"
	apierrors "github.com/yukikurage/event-management-api/internal/errors"
	"github.com/yukikurage/event-management-api/internal/models"
	"github.com/yukikurage/event-management-api/internal/services"
	"github.com/yukikurage/event-management-api/internal/utils"
)

// RegistrationHandler serves participant and organizer registration endpoints
type RegistrationHandler struct {
	registrationService *services.RegistrationService
}

// NewRegistrationHandler creates a new RegistrationHandler
func NewRegistrationHandler(registrationService *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// Register enrolls the caller in an event
func (h *RegistrationHandler) Register(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	registration, err := h.registrationService.RegisterForEvent(c.Request.Context(), eventID, userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RegistrationResponse{
		Message:      "Inscrição realizada com sucesso",
		Registration: dto.ToRegistrationDTO(*registration),
	})
}

// Cancel removes the caller's registration
func (h *RegistrationHandler) Cancel(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.registrationService.CancelRegistration(c.Request.Context(), eventID, userID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Inscrição cancelada com sucesso"})
}

// MyEvents lists the caller's registrations as events, newest first
func (h *RegistrationHandler) MyEvents(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	page, err := h.registrationService.ListParticipantEvents(c.Request.Context(), userID, params.Page, params.Limit)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToParticipantEventListResponse(page.Registrations, page.Page, page.PageSize, page.Total))
}

// ListByEvent lists registrations of one of the caller's events
func (h *RegistrationHandler) ListByEvent(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	registrations, err := h.registrationService.ListEventRegistrations(c.Request.Context(), eventID, userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRegistrationDTOs(registrations))
}

// UpdateStatus lets the organizer confirm, hold or cancel a registration
func (h *RegistrationHandler) UpdateStatus(c *gin.Context) {
	type UpdateStatusRequest struct {
		Status models.RegistrationStatus `json:"status" binding:"required,registrationstatus"`
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	registration, err := h.registrationService.UpdateRegistrationStatus(c.Request.Context(), id, req.Status, userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RegistrationResponse{
		Message:      "Status da inscrição atualizado com sucesso",
		Registration: dto.ToRegistrationDTO(*registration),
	})
}
