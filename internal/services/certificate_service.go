package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yukikurage/event-management-api/internal/config"
	"github.com/yukikurage/event-management-api/internal/logging"
	"github.com/yukikurage/event-management-api/internal/metrics"
	"github.com/yukikurage/event-management-api/internal/models"
	"github.com/yukikurage/event-management-api/internal/notify"
	"github.com/yukikurage/event-management-api/internal/render"
	"github.com/yukikurage/event-management-api/internal/repository"
	"gorm.io/gorm"
)

// CertificateService issues, renders and verifies participation certificates.
//
// In eager mode every issuing path renders the image right after insert.
// In deferred mode the URL stays empty until EnsureRendered is called.
type CertificateService struct {
	certRepo         repository.CertificateRepository
	registrationRepo repository.RegistrationRepository
	eventRepo        repository.EventRepository
	renderer         render.Renderer
	renderMode       string
	notifier         notify.Notifier
	now              func() time.Time
}

// NewCertificateService creates a new CertificateService
func NewCertificateService(
	certRepo repository.CertificateRepository,
	registrationRepo repository.RegistrationRepository,
	eventRepo repository.EventRepository,
	renderer render.Renderer,
	renderMode string,
	notifier notify.Notifier,
) *CertificateService {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &CertificateService{
		certRepo:         certRepo,
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		renderer:         renderer,
		renderMode:       renderMode,
		notifier:         notifier,
		now:              time.Now,
	}
}

// GenerateForAllParticipants issues certificates for every confirmed or pending
// registration of the event that has none yet. Only new certificates are returned.
func (s *CertificateService) GenerateForAllParticipants(ctx context.Context, eventID uint64, issueDate time.Time, organizerID uint64) ([]models.Certificate, error) {
	event, err := ownedEvent(ctx, s.eventRepo, eventID, organizerID, "Organizer")
	if err != nil {
		return nil, err
	}

	registrations, err := s.registrationRepo.ListEligibleForCertificate(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	if len(registrations) == 0 {
		return nil, ErrNoParticipants
	}

	issueDate = s.issueDate(issueDate)
	byID := make(map[uint64]models.Registration, len(registrations))
	pending := make([]models.Certificate, 0, len(registrations))
	for _, r := range registrations {
		if r.Certificate != nil {
			continue
		}
		code, err := newVerificationCode(r.EventID, r.UserID)
		if err != nil {
			return nil, err
		}
		byID[r.ID] = r
		pending = append(pending, models.Certificate{
			RegistrationID: r.ID,
			Code:           code,
			IssueDate:      issueDate,
		})
	}
	if len(pending) == 0 {
		return []models.Certificate{}, nil
	}

	created, err := s.certRepo.CreateIfAbsent(ctx, pending)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificates: %w", err)
	}
	metrics.CertificatesIssued.WithLabelValues("bulk").Add(float64(len(created)))

	for i := range created {
		registration := byID[created[i].RegistrationID]
		registration.Event = *event
		registration.Certificate = nil
		created[i].Registration = registration
		s.afterIssue(ctx, &created[i])
	}

	return created, nil
}

// GenerateForParticipant issues one certificate for participantID's registration on eventID.
func (s *CertificateService) GenerateForParticipant(ctx context.Context, eventID, participantID uint64, issueDate time.Time, organizerID uint64) (*models.Certificate, error) {
	event, err := ownedEvent(ctx, s.eventRepo, eventID, organizerID, "Organizer")
	if err != nil {
		return nil, err
	}

	found, err := s.registrationRepo.Find(ctx, eventID, participantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to find registration: %w", err)
	}
	if found.Status == models.RegistrationStatusCancelled {
		return nil, ErrRegistrationInactive
	}
	registration, err := s.registrationRepo.FindByID(ctx, found.ID, "User")
	if err != nil {
		return nil, fmt.Errorf("failed to load registration: %w", err)
	}

	code, err := newVerificationCode(eventID, participantID)
	if err != nil {
		return nil, err
	}
	cert := &models.Certificate{
		RegistrationID: registration.ID,
		Code:           code,
		IssueDate:      s.issueDate(issueDate),
	}
	if err := s.certRepo.Create(ctx, cert); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCertificateExists
		}
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}
	metrics.CertificatesIssued.WithLabelValues("single").Inc()

	registration.Event = *event
	cert.Registration = *registration
	s.afterIssue(ctx, cert)

	return cert, nil
}

// ListEventCertificates lists certificates of an event owned by organizerID
func (s *CertificateService) ListEventCertificates(ctx context.Context, eventID, organizerID uint64) ([]models.Certificate, error) {
	if _, err := ownedEvent(ctx, s.eventRepo, eventID, organizerID); err != nil {
		return nil, err
	}
	certs, err := s.certRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	return certs, nil
}

// ListParticipantCertificates lists certificates held by userID, newest first
func (s *CertificateService) ListParticipantCertificates(ctx context.Context, userID uint64) ([]models.Certificate, error) {
	certs, err := s.certRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	return certs, nil
}

// GetCertificate returns a certificate to its holder or to the event organizer.
func (s *CertificateService) GetCertificate(ctx context.Context, id, requesterID uint64) (*models.Certificate, error) {
	cert, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(cert, requesterID) {
		return nil, ErrCertificateForbidden
	}
	return cert, nil
}

// VerifyCode looks a certificate up by its public code.
func (s *CertificateService) VerifyCode(ctx context.Context, code string) (*models.Certificate, error) {
	cert, err := s.certRepo.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, fmt.Errorf("failed to find certificate: %w", err)
	}
	return cert, nil
}

// DeleteCertificate removes a certificate of an event owned by organizerID along with its image.
func (s *CertificateService) DeleteCertificate(ctx context.Context, id, organizerID uint64) error {
	cert, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if cert.Registration.Event.OrganizerID != organizerID {
		return ErrNotEventOrganizer
	}

	if err := s.certRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCertificateNotFound
		}
		return fmt.Errorf("failed to delete certificate: %w", err)
	}

	if cert.URL != nil {
		path := s.renderer.PathFor(*cert.URL)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logging.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("failed to remove certificate image")
		}
	}
	return nil
}

// EnsureRendered returns the image path of a certificate, rendering it first when missing.
func (s *CertificateService) EnsureRendered(ctx context.Context, id, requesterID uint64) (string, error) {
	cert, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}
	if !canAccess(cert, requesterID) {
		return "", ErrCertificateForbidden
	}

	if cert.URL != nil {
		path := s.renderer.PathFor(*cert.URL)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return s.renderAndStore(ctx, cert)
}

func (s *CertificateService) find(ctx context.Context, id uint64) (*models.Certificate, error) {
	cert, err := s.certRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, fmt.Errorf("failed to find certificate: %w", err)
	}
	return cert, nil
}

func canAccess(cert *models.Certificate, requesterID uint64) bool {
	return cert.Registration.UserID == requesterID || cert.Registration.Event.OrganizerID == requesterID
}

func (s *CertificateService) issueDate(t time.Time) time.Time {
	if t.IsZero() {
		return s.now()
	}
	return t
}

// afterIssue renders in eager mode and publishes certificate.issued.
// cert.Registration must carry User and Event with Organizer.
func (s *CertificateService) afterIssue(ctx context.Context, cert *models.Certificate) {
	if s.renderMode == config.RenderModeEager {
		if _, err := s.renderAndStore(ctx, cert); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Uint64("certificate_id", cert.ID).Msg("certificate image not rendered, will render on download")
		}
	}

	user := cert.Registration.User
	event := cert.Registration.Event
	n := notify.Notification{
		Type:            notify.TypeCertificateIssued,
		RecipientEmail:  user.Email,
		RecipientName:   user.Name,
		EventID:         event.ID,
		EventName:       event.Name,
		EventStart:      event.StartDate,
		CertificateCode: cert.Code,
		OccurredAt:      s.now(),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Uint64("certificate_id", cert.ID).Msg("notification not published")
	}
}

func (s *CertificateService) renderAndStore(ctx context.Context, cert *models.Certificate) (string, error) {
	registration := cert.Registration
	start := time.Now()
	url, path, err := s.renderer.Render(render.CertificateData{
		Code:            cert.Code,
		ParticipantName: registration.User.Name,
		EventName:       registration.Event.Name,
		EventStart:      registration.Event.StartDate,
		EventEnd:        registration.Event.EndDate,
		IssueDate:       cert.IssueDate,
		OrganizerName:   registration.Event.Organizer.Name,
	})
	metrics.CertificateRenderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("failed to render certificate: %w", err)
	}

	if err := s.certRepo.UpdateURL(ctx, cert.ID, url); err != nil {
		return "", fmt.Errorf("failed to store certificate url: %w", err)
	}
	cert.URL = &url
	return path, nil
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newVerificationCode formats <event>-<participant>-<8 random symbols>, e.g. 12-345-K7QF9ZMA.
func newVerificationCode(eventID, participantID uint64) (string, error) {
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	for i, b := range suffix {
		suffix[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return fmt.Sprintf("%d-%d-%s", eventID, participantID, suffix), nil
}
