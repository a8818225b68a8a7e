package storage

import (
	"context"
	"fmt"
	"time"

	"clubhouse-backend/internal/models"

	"gorm.io/gorm"
)

type EventStore interface {
	List(ctx context.Context) ([]models.Event, error)
	ListByCreator(ctx context.Context, userID string) ([]models.Event, error)
	Get(ctx context.Context, id uint) (*models.Event, error)
	Create(ctx context.Context, in EventInput, creatorID string) (*models.Event, error)
	Update(ctx context.Context, id uint, patch EventPatch, requesterID string) (*models.Event, error)
	Delete(ctx context.Context, id uint, requesterID string) (bool, error)
}

type EventInput struct {
	Title       string
	Description string
	Location    string
	Date        time.Time
	StartTime   string
	EndTime     string
}

// EventPatch holds the fields of a partial update. Nil fields are left unchanged.
type EventPatch struct {
	Title       *string
	Description *string
	Location    *string
	Date        *time.Time
	StartTime   *string
	EndTime     *string
}

func (p EventPatch) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Location != nil {
		cols["location"] = *p.Location
	}
	if p.Date != nil {
		cols["date"] = *p.Date
	}
	if p.StartTime != nil {
		cols["start_time"] = *p.StartTime
	}
	if p.EndTime != nil {
		cols["end_time"] = *p.EndTime
	}
	return cols
}

type eventStore struct {
	db *gorm.DB
}

func NewEventStore(db *gorm.DB) EventStore {
	return &eventStore{db: db}
}

func (s *eventStore) List(ctx context.Context) ([]models.Event, error) {
	events := []models.Event{}
	if err := s.db.WithContext(ctx).Order("date DESC").Order("id DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *eventStore) ListByCreator(ctx context.Context, userID string) ([]models.Event, error) {
	events := []models.Event{}
	err := s.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("date DESC").Order("id DESC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list events by creator: %w", err)
	}
	return events, nil
}

func (s *eventStore) Get(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &event, nil
}

func (s *eventStore) Create(ctx context.Context, in EventInput, creatorID string) (*models.Event, error) {
	event := &models.Event{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Date:        in.Date,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		CreatedBy:   creatorID,
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// Update applies patch only when the event exists and is owned by requesterID.
// An empty patch still bumps updated_at.
func (s *eventStore) Update(ctx context.Context, id uint, patch EventPatch, requesterID string) (*models.Event, error) {
	cols := patch.columns()
	cols["updated_at"] = time.Now()

	res := s.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ? AND created_by = ?", id, requesterID).
		Updates(cols)
	if res.Error != nil {
		return nil, fmt.Errorf("update event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotOwnerOrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes an owned event together with its attendance rows. It
// reports false when nothing matched (absent or owned by someone else).
func (s *eventStore) Delete(ctx context.Context, id uint, requesterID string) (bool, error) {
	var deleted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&models.Event{}).Select("id").Where("id = ? AND created_by = ?", id, requesterID)
		if err := tx.Where("event_id IN (?)", owned).Delete(&models.EventAttendee{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ? AND created_by = ?", id, requesterID).Delete(&models.Event{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}
	return deleted, nil
}
