package storage_test

import (
	"context"
	"testing"
	"time"

	"clubhouse-backend/internal/models"
	"clubhouse-backend/internal/storage"
	"clubhouse-backend/internal/testdb"

	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *storage.Store {
	t.Helper()
	return storage.New(testdb.Open(t))
}

func createMember(t *testing.T, s *storage.Store, email string) *models.User {
	t.Helper()
	user, err := s.Users.CreateUser(context.Background(), storage.Registration{
		Email:     email,
		Password:  "correct horse battery",
		FirstName: "Test",
		LastName:  "Member",
	})
	require.NoError(t, err)
	return user
}

func createEvent(t *testing.T, s *storage.Store, ownerID, title string, date time.Time) *models.Event {
	t.Helper()
	event, err := s.Events.Create(context.Background(), storage.EventInput{
		Title:     title,
		Location:  "Main pitch",
		Date:      date,
		StartTime: "18:00",
		EndTime:   "20:00",
	}, ownerID)
	require.NoError(t, err)
	return event
}

func createPhoto(t *testing.T, s *storage.Store, ownerID, filename string) *models.Photo {
	t.Helper()
	photo, err := s.Photos.Create(context.Background(), storage.PhotoInput{
		Title:        "Team photo",
		Filename:     filename,
		OriginalName: "team.jpg",
		MimeType:     "image/jpeg",
		Size:         1024,
	}, ownerID)
	require.NoError(t, err)
	return photo
}

func ptr[T any](v T) *T {
	return &v
}
