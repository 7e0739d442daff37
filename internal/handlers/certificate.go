package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-management-api/internal/dto"
	apierrors "github.com/yukikurage/event-management-api/internal/errors"
	"github.com/yukikurage/event-management-api/internal/services"
)

// CertificateHandler serves certificate endpoints
type CertificateHandler struct {
	certificateService *services.CertificateService
}

// NewCertificateHandler creates a new CertificateHandler
func NewCertificateHandler(certificateService *services.CertificateService) *CertificateHandler {
	return &CertificateHandler{certificateService: certificateService}
}

// GenerateForEvent issues certificates for every eligible participant of an event
func (h *CertificateHandler) GenerateForEvent(c *gin.Context) {
	type GenerateRequest struct {
		EventID   uint64     `json:"evento_id" binding:"required,gt=0"`
		IssueDate *time.Time `json:"data_emissao"`
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req GenerateRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.certificateService.GenerateForAllParticipants(c.Request.Context(), req.EventID, derefTime(req.IssueDate), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CertificateListResponse{
		Message:      "Certificados gerados com sucesso",
		Total:        len(created),
		Certificates: dto.ToCertificateDTOs(created),
	})
}

// GenerateForParticipant issues one certificate
func (h *CertificateHandler) GenerateForParticipant(c *gin.Context) {
	type GenerateOneRequest struct {
		EventID       uint64     `json:"evento_id" binding:"required,gt=0"`
		ParticipantID uint64     `json:"participante_id" binding:"required,gt=0"`
		IssueDate     *time.Time `json:"data_emissao"`
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req GenerateOneRequest
	if !bindJSON(c, &req) {
		return
	}

	cert, err := h.certificateService.GenerateForParticipant(c.Request.Context(), req.EventID, req.ParticipantID, derefTime(req.IssueDate), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CertificateResponse{
		Message:     "Certificado gerado com sucesso",
		Certificate: dto.ToCertificateDTO(*cert),
	})
}

// ListByEvent lists certificates of one of the caller's events
func (h *CertificateHandler) ListByEvent(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	certs, err := h.certificateService.ListEventCertificates(c.Request.Context(), eventID, userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCertificateDTOs(certs))
}

// Mine lists the caller's certificates
func (h *CertificateHandler) Mine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	certs, err := h.certificateService.ListParticipantCertificates(c.Request.Context(), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCertificateDTOs(certs))
}

func (h *CertificateHandler) GetCertificate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cert, err := h.certificateService.GetCertificate(c.Request.Context(), id, userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCertificateDTO(*cert))
}

// Image serves the certificate PNG, rendering it on first request
func (h *CertificateHandler) Image(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	path, err := h.certificateService.EnsureRendered(c.Request.Context(), id, userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.Header("Content-Type", "image/png")
	c.File(path)
}

// Verify checks a certificate code publicly
func (h *CertificateHandler) Verify(c *gin.Context) {
	cert, err := h.certificateService.VerifyCode(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCertificateVerificationDTO(*cert))
}

func (h *CertificateHandler) DeleteCertificate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.certificateService.DeleteCertificate(c.Request.Context(), id, userID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Certificado removido com sucesso"})
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
