package storage

import (
	"context"
	"fmt"
	"time"

	"clubhouse-backend/internal/models"

	"gorm.io/gorm"
)

type PhotoStore interface {
	// List returns every photo newest first with Uploader loaded.
	List(ctx context.Context) ([]models.Photo, error)
	ListByUploader(ctx context.Context, userID string) ([]models.Photo, error)
	Get(ctx context.Context, id uint) (*models.Photo, error)
	Create(ctx context.Context, in PhotoInput, uploaderID string) (*models.Photo, error)
	Update(ctx context.Context, id uint, patch PhotoPatch, requesterID string) (*models.Photo, error)
	Delete(ctx context.Context, id uint, requesterID string) (bool, error)
}

type PhotoInput struct {
	Title        string
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	DateTaken    *time.Time
}

type PhotoPatch struct {
	Title *string
}

type photoStore struct {
	db *gorm.DB
}

func NewPhotoStore(db *gorm.DB) PhotoStore {
	return &photoStore{db: db}
}

func (s *photoStore) List(ctx context.Context) ([]models.Photo, error) {
	photos := []models.Photo{}
	err := s.db.WithContext(ctx).
		InnerJoins("Uploader").
		Order("photos.created_at DESC").Order("photos.id DESC").
		Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return photos, nil
}

func (s *photoStore) ListByUploader(ctx context.Context, userID string) ([]models.Photo, error) {
	photos := []models.Photo{}
	err := s.db.WithContext(ctx).
		Where("uploaded_by = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("list photos by uploader: %w", err)
	}
	return photos, nil
}

func (s *photoStore) Get(ctx context.Context, id uint) (*models.Photo, error) {
	var photo models.Photo
	if err := s.db.WithContext(ctx).First(&photo, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &photo, nil
}

func (s *photoStore) Create(ctx context.Context, in PhotoInput, uploaderID string) (*models.Photo, error) {
	photo := &models.Photo{
		Title:        in.Title,
		Filename:     in.Filename,
		OriginalName: in.OriginalName,
		MimeType:     in.MimeType,
		Size:         in.Size,
		DateTaken:    in.DateTaken,
		UploadedBy:   uploaderID,
	}
	if err := s.db.WithContext(ctx).Create(photo).Error; err != nil {
		return nil, fmt.Errorf("create photo: %w", err)
	}
	return photo, nil
}

func (s *photoStore) Update(ctx context.Context, id uint, patch PhotoPatch, requesterID string) (*models.Photo, error) {
	cols := map[string]interface{}{"updated_at": time.Now()}
	if patch.Title != nil {
		cols["title"] = *patch.Title
	}

	res := s.db.WithContext(ctx).
		Model(&models.Photo{}).
		Where("id = ? AND uploaded_by = ?", id, requesterID).
		Updates(cols)
	if res.Error != nil {
		return nil, fmt.Errorf("update photo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotOwnerOrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes the row only. The stored file is the caller's concern.
func (s *photoStore) Delete(ctx context.Context, id uint, requesterID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND uploaded_by = ?", id, requesterID).
		Delete(&models.Photo{})
	if res.Error != nil {
		return false, fmt.Errorf("delete photo: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
