package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-management-api/internal/dto"
	apierrors "github.com/yukikurage/event-management-api/internal/errors"
	"github.com/yukikurage/event-management-api/internal/services"
)

// ActivityHandler serves activity endpoints
type ActivityHandler struct {
	activityService *services.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (h *ActivityHandler) ListByEvent(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	activities, err := h.activityService.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityDTOs(activities))
}

func (h *ActivityHandler) GetActivity(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	activity, err := h.activityService.GetByID(c.Request.Context(), id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityDTO(*activity))
}

func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	type CreateActivityRequest struct {
		Name        string       `json:"nome" binding:"required,max=255"`
		Description string       `json:"descricao"`
		StartDate   *requestTime `json:"data_inicio" binding:"required"`
		EndDate     *requestTime `json:"data_fim" binding:"required"`
	}

	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateActivityRequest
	if !bindJSON(c, &req) {
		return
	}

	activity, err := h.activityService.Create(c.Request.Context(), eventID, services.CreateActivityInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate.Time,
		EndDate:     req.EndDate.Time,
	}, userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ActivityResponse{
		Message:  "Atividade criada com sucesso",
		Activity: dto.ToActivityDTO(*activity),
	})
}

func (h *ActivityHandler) UpdateActivity(c *gin.Context) {
	type UpdateActivityRequest struct {
		Name        *string      `json:"nome" binding:"omitempty,max=255"`
		Description *string      `json:"descricao"`
		StartDate   *requestTime `json:"data_inicio"`
		EndDate     *requestTime `json:"data_fim"`
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateActivityRequest
	if !bindJSON(c, &req) {
		return
	}

	activity, err := h.activityService.Update(c.Request.Context(), id, services.UpdateActivityInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate.ptr(),
		EndDate:     req.EndDate.ptr(),
	}, userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ActivityResponse{
		Message:  "Atividade atualizada com sucesso",
		Activity: dto.ToActivityDTO(*activity),
	})
}

func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.activityService.Remove(c.Request.Context(), id, userID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Atividade removida com sucesso"})
}
