package storage

import (
	"context"
	"errors"
	"fmt"

	"clubhouse-backend/internal/models"

	"gorm.io/gorm"
)

type AttendanceStore interface {
	// ListAttendees returns attendance rows with their User loaded. Rows whose
	// user no longer exists are skipped.
	ListAttendees(ctx context.Context, eventID uint) ([]models.EventAttendee, error)
	IsAttending(ctx context.Context, eventID uint, userID string) (bool, error)
	Add(ctx context.Context, eventID uint, userID string) (*models.EventAttendee, error)
	Remove(ctx context.Context, eventID uint, userID string) error
	CountByEvent(ctx context.Context, eventID uint) (int64, error)
}

type attendanceStore struct {
	db *gorm.DB
}

func NewAttendanceStore(db *gorm.DB) AttendanceStore {
	return &attendanceStore{db: db}
}

func (s *attendanceStore) ListAttendees(ctx context.Context, eventID uint) ([]models.EventAttendee, error) {
	attendees := []models.EventAttendee{}
	err := s.db.WithContext(ctx).
		InnerJoins("User").
		Where("event_attendees.event_id = ?", eventID).
		Order("event_attendees.created_at ASC").Order("event_attendees.id ASC").
		Find(&attendees).Error
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	return attendees, nil
}

func (s *attendanceStore) IsAttending(ctx context.Context, eventID uint, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.EventAttendee{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check attendance: %w", err)
	}
	return count > 0, nil
}

func (s *attendanceStore) Add(ctx context.Context, eventID uint, userID string) (*models.EventAttendee, error) {
	attendee := &models.EventAttendee{EventID: eventID, UserID: userID}
	if err := s.db.WithContext(ctx).Create(attendee).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyAttending
		}
		return nil, fmt.Errorf("add attendee: %w", err)
	}
	return attendee, nil
}

func (s *attendanceStore) Remove(ctx context.Context, eventID uint, userID string) error {
	err := s.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&models.EventAttendee{}).Error
	if err != nil {
		return fmt.Errorf("remove attendee: %w", err)
	}
	return nil
}

func (s *attendanceStore) CountByEvent(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.EventAttendee{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count attendees: %w", err)
	}
	return count, nil
}
