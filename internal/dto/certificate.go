package dto

import (
	"time"

	"github.com/yukikurage/event-management-api/internal/models"
)

// CertificateDTO represents a certificate in API responses
type CertificateDTO struct {
	ID             uint64           `json:"id"`
	Code           string           `json:"codigo"`
	IssueDate      time.Time        `json:"data_emissao"`
	URL            *string          `json:"url"`
	RegistrationID uint64           `json:"inscricao_id"`
	Participant    *UserSummaryDTO  `json:"participante,omitempty"`
	Event          *EventSummaryDTO `json:"evento,omitempty"`
}

// CertificateListResponse wraps newly issued certificates
type CertificateListResponse struct {
	Message      string           `json:"mensagem"`
	Total        int              `json:"total"`
	Certificates []CertificateDTO `json:"certificados"`
}

// CertificateResponse wraps a single issued certificate
type CertificateResponse struct {
	Message     string         `json:"mensagem"`
	Certificate CertificateDTO `json:"certificado"`
}

// CertificateVerificationDTO is the public authenticity check result
type CertificateVerificationDTO struct {
	Valid           bool      `json:"valido"`
	Code            string    `json:"codigo"`
	ParticipantName string    `json:"participante"`
	EventName       string    `json:"evento"`
	EventStart      time.Time `json:"data_inicio"`
	EventEnd        time.Time `json:"data_fim"`
	IssueDate       time.Time `json:"data_emissao"`
	OrganizerName   string    `json:"organizador"`
}

// ToCertificateDTO converts a Certificate model to CertificateDTO
func ToCertificateDTO(cert models.Certificate) CertificateDTO {
	return CertificateDTO{
		ID:             cert.ID,
		Code:           cert.Code,
		IssueDate:      cert.IssueDate,
		URL:            cert.URL,
		RegistrationID: cert.RegistrationID,
		Participant:    toUserSummary(cert.Registration.User),
		Event:          toEventSummary(cert.Registration.Event),
	}
}

func ToCertificateDTOs(certs []models.Certificate) []CertificateDTO {
	dtos := make([]CertificateDTO, len(certs))
	for i, c := range certs {
		dtos[i] = ToCertificateDTO(c)
	}
	return dtos
}

// ToCertificateVerificationDTO exposes only what a third party needs to check authenticity
func ToCertificateVerificationDTO(cert models.Certificate) CertificateVerificationDTO {
	event := cert.Registration.Event
	return CertificateVerificationDTO{
		Valid:           true,
		Code:            cert.Code,
		ParticipantName: cert.Registration.User.Name,
		EventName:       event.Name,
		EventStart:      event.StartDate,
		EventEnd:        event.EndDate,
		IssueDate:       cert.IssueDate,
		OrganizerName:   event.Organizer.Name,
	}
}
