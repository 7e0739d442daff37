package repository

import (
	"context"

	"github.com/yukikurage/event-management-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByRegistrationNumber finds a user by registration number
func (r *GormUserRepository) FindByRegistrationNumber(ctx context.Context, number string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("registration_number = ?", number).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update saves profile fields. Role changes are not written here.
func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).
		Model(&models.User{ID: user.ID}).
		Select("Name", "Email", "PasswordHash", "RegistrationNumber").
		Updates(user).Error
}
