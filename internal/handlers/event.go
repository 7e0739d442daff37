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

// EventHandler serves public and organizer event endpoints
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// ListEvents returns a page of events with optional search and filters
func (h *EventHandler) ListEvents(c *gin.Context) {
	input, ok := listEventsInput(c)
	if !ok {
		return
	}

	page, err := h.eventService.GetEvents(c.Request.Context(), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventListResponse(page.Events, page.Page, page.PageSize, page.Total))
}

// ListOrganizerEvents returns the caller's own events
func (h *EventHandler) ListOrganizerEvents(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	input, ok := listEventsInput(c)
	if !ok {
		return
	}

	page, err := h.eventService.ListByOrganizer(c.Request.Context(), userID, input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventListResponse(page.Events, page.Page, page.PageSize, page.Total))
}

func listEventsInput(c *gin.Context) (services.ListEventsInput, bool) {
	params := utils.GetPaginationParams(c)
	input := services.ListEventsInput{
		Search:   c.Query("pesquisa"),
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if raw := c.Query("status"); raw != "" {
		status := models.EventStatus(raw)
		if !status.Valid() {
			apierrors.BadRequest(c, "Status inválido")
			return input, false
		}
		input.Status = &status
	}

	var ok bool
	if input.StartFrom, ok = parseDateQuery(c, "data_inicio"); !ok {
		return input, false
	}
	if input.EndUntil, ok = parseDateQuery(c, "data_fim"); !ok {
		return input, false
	}
	return input, true
}

// GetEvent returns event details with organizer and activities
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	event, err := h.eventService.GetByID(c.Request.Context(), id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*event))
}

// CreateEvent creates an event owned by the caller
func (h *EventHandler) CreateEvent(c *gin.Context) {
	type CreateEventRequest struct {
		Name        string       `json:"nome" binding:"required,max=255"`
		Description string       `json:"descricao"`
		StartDate   *requestTime `json:"data_inicio" binding:"required"`
		EndDate     *requestTime `json:"data_fim" binding:"required"`
		Location    string       `json:"local" binding:"max=255"`
		Block       string       `json:"bloco" binding:"max=100"`
		Capacity    *int         `json:"capacidade" binding:"omitempty,gt=0"`
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateEventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), services.CreateEventInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate.Time,
		EndDate:     req.EndDate.Time,
		Location:    req.Location,
		Block:       req.Block,
		Capacity:    req.Capacity,
	}, userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.EventResponse{
		Message: "Evento criado com sucesso",
		Event:   dto.ToEventDTO(*event),
	})
}

// UpdateEvent applies a partial update to an upcoming event
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	type UpdateEventRequest struct {
		Name        *string             `json:"nome" binding:"omitempty,max=255"`
		Description *string             `json:"descricao"`
		StartDate   *requestTime        `json:"data_inicio"`
		EndDate     *requestTime        `json:"data_fim"`
		Location    *string             `json:"local" binding:"omitempty,max=255"`
		Block       *string             `json:"bloco" binding:"omitempty,max=100"`
		Capacity    *int                `json:"capacidade" binding:"omitempty,gt=0"`
		Status      *models.EventStatus `json:"status" binding:"omitempty,eventstatus"`
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateEventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), id, services.UpdateEventInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate.ptr(),
		EndDate:     req.EndDate.ptr(),
		Location:    req.Location,
		Block:       req.Block,
		Capacity:    req.Capacity,
		Status:      req.Status,
	}, userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.EventResponse{
		Message: "Evento atualizado com sucesso",
		Event:   dto.ToEventDTO(*event),
	})
}

// UpdateEventStatus moves an event through its status machine
func (h *EventHandler) UpdateEventStatus(c *gin.Context) {
	type UpdateStatusRequest struct {
		Status models.EventStatus `json:"status" binding:"required,eventstatus"`
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

	event, err := h.eventService.UpdateStatus(c.Request.Context(), id, req.Status, userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.EventResponse{
		Message: "Status do evento atualizado com sucesso",
		Event:   dto.ToEventDTO(*event),
	})
}

// DeleteEvent removes an upcoming event and everything attached to it
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.eventService.Remove(c.Request.Context(), id, userID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Evento removido com sucesso"})
}
