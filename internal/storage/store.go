package storage

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrNotOwnerOrNotFound is returned by conditioned mutations that matched
	// no row. Callers cannot tell a missing record from one owned by another member.
	ErrNotOwnerOrNotFound = errors.New("record not found or not owned by requester")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyAttending   = errors.New("already attending this event")
	// ErrPasswordTooLong is bcrypt's 72-byte input limit.
	ErrPasswordTooLong = errors.New("password longer than 72 bytes")
)

// Store groups the persistence contracts used by the HTTP layer.
type Store struct {
	Users      UserStore
	Events     EventStore
	Attendance AttendanceStore
	Photos     PhotoStore
	Sessions   SessionStore
}

func New(db *gorm.DB) *Store {
	return &Store{
		Users:      NewUserStore(db),
		Events:     NewEventStore(db),
		Attendance: NewAttendanceStore(db),
		Photos:     NewPhotoStore(db),
		Sessions:   NewSessionStore(db),
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
