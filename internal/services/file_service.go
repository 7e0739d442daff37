package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yukikurage/event-management-api/internal/constants"
	"github.com/yukikurage/event-management-api/internal/logging"
	"github.com/yukikurage/event-management-api/internal/models"
	"github.com/yukikurage/event-management-api/internal/repository"
	"github.com/yukikurage/event-management-api/internal/storage"
	"gorm.io/gorm"
)

// FileService handles files attached to events
type FileService struct {
	fileRepo  repository.FileRepository
	eventRepo repository.EventRepository
	store     storage.FileStore
}

// NewFileService creates a new FileService
func NewFileService(fileRepo repository.FileRepository, eventRepo repository.EventRepository, store storage.FileStore) *FileService {
	return &FileService{
		fileRepo:  fileRepo,
		eventRepo: eventRepo,
		store:     store,
	}
}

// UploadInput describes one uploaded file
type UploadInput struct {
	Filename string
	Size     int64
	MimeType string
	Content  io.Reader
}

// Upload stores a file on disk and records it for eventID
func (s *FileService) Upload(ctx context.Context, eventID, organizerID uint64, input UploadInput) (*models.File, error) {
	if _, err := ownedEvent(ctx, s.eventRepo, eventID, organizerID); err != nil {
		return nil, err
	}
	if input.Content == nil || strings.TrimSpace(input.Filename) == "" {
		return nil, ErrFileRequired
	}
	if input.Size > constants.MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	// Read one byte past the limit so a lying Size header cannot bypass it.
	stored, size, err := s.store.Save(input.Filename, io.LimitReader(input.Content, constants.MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}
	if size > constants.MaxUploadSize {
		s.discard(ctx, stored)
		return nil, ErrFileTooLarge
	}

	file := &models.File{
		Filename:   filepath.Base(input.Filename),
		StoredName: stored,
		URL:        s.store.URL(stored),
		Size:       size,
		MimeType:   input.MimeType,
		EventID:    eventID,
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		s.discard(ctx, stored)
		return nil, fmt.Errorf("failed to save file record: %w", err)
	}

	return file, nil
}

// ListByEvent lists the files of an existing event
func (s *FileService) ListByEvent(ctx context.Context, eventID uint64) ([]models.File, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	files, err := s.fileRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

func (s *FileService) GetByID(ctx context.Context, id uint64) (*models.File, error) {
	file, err := s.fileRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to find file: %w", err)
	}
	return file, nil
}

// Open returns the file record and its content. The caller closes the content.
func (s *FileService) Open(ctx context.Context, id uint64) (*models.File, *os.File, error) {
	file, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	content, err := s.store.Open(file.StoredName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, content, nil
}

// Remove deletes a file of eventID from the database and the disk
func (s *FileService) Remove(ctx context.Context, eventID, fileID, organizerID uint64) error {
	if _, err := ownedEvent(ctx, s.eventRepo, eventID, organizerID); err != nil {
		return err
	}

	file, err := s.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if file.EventID != eventID {
		return ErrFileNotFound
	}

	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	s.discard(ctx, file.StoredName)
	return nil
}

func (s *FileService) discard(ctx context.Context, stored string) {
	if err := s.store.Remove(stored); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("file", stored).Msg("failed to remove file from disk")
	}
}
