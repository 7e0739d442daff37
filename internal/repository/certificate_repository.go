package repository

import (
	"context"

	"github.com/yukikurage/event-management-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCertificateRepository is a GORM implementation of CertificateRepository
type GormCertificateRepository struct {
	db *gorm.DB
}

// NewCertificateRepository creates a new CertificateRepository
func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &GormCertificateRepository{db: db}
}

var certificatePreloads = []string{
	"Registration",
	"Registration.User",
	"Registration.Event",
	"Registration.Event.Organizer",
}

func (r *GormCertificateRepository) withDetails(ctx context.Context) *gorm.DB {
	query := r.db.WithContext(ctx)
	for _, p := range certificatePreloads {
		query = query.Preload(p)
	}
	return query
}

// Create inserts one certificate
func (r *GormCertificateRepository) Create(ctx context.Context, cert *models.Certificate) error {
	return r.db.WithContext(ctx).Omit("Registration").Create(cert).Error
}

// CreateIfAbsent inserts row by row with ON CONFLICT (registration_id) DO NOTHING,
// so concurrent runs for the same event never duplicate a certificate.
func (r *GormCertificateRepository) CreateIfAbsent(ctx context.Context, certs []models.Certificate) ([]models.Certificate, error) {
	created := make([]models.Certificate, 0, len(certs))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range certs {
			cert := certs[i]
			result := tx.Omit("Registration").
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "registration_id"}},
					DoNothing: true,
				}).
				Create(&cert)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 1 {
				created = append(created, cert)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// FindByID finds a certificate with its registration, user, event and organizer
func (r *GormCertificateRepository) FindByID(ctx context.Context, id uint64) (*models.Certificate, error) {
	var cert models.Certificate
	if err := r.withDetails(ctx).First(&cert, id).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

// FindByCode finds a certificate by verification code
func (r *GormCertificateRepository) FindByCode(ctx context.Context, code string) (*models.Certificate, error) {
	var cert models.Certificate
	if err := r.withDetails(ctx).Where("code = ?", code).First(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *GormCertificateRepository) ListByEvent(ctx context.Context, eventID uint64) ([]models.Certificate, error) {
	certs := []models.Certificate{}
	err := r.withDetails(ctx).
		Joins("JOIN registrations ON registrations.id = certificates.registration_id").
		Where("registrations.event_id = ?", eventID).
		Order("certificates.id ASC").
		Find(&certs).Error
	return certs, err
}

func (r *GormCertificateRepository) ListByUser(ctx context.Context, userID uint64) ([]models.Certificate, error) {
	certs := []models.Certificate{}
	err := r.withDetails(ctx).
		Joins("JOIN registrations ON registrations.id = certificates.registration_id").
		Where("registrations.user_id = ?", userID).
		Order("certificates.issue_date DESC").
		Find(&certs).Error
	return certs, err
}

func (r *GormCertificateRepository) UpdateURL(ctx context.Context, id uint64, url string) error {
	return r.db.WithContext(ctx).
		Model(&models.Certificate{ID: id}).
		Update("url", url).Error
}

func (r *GormCertificateRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&models.Certificate{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
