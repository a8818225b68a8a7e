package storage

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"clubhouse-backend/internal/models"

	"gorm.io/gorm"
)

type SessionStore interface {
	Create(ctx context.Context, userID string, ttl time.Duration) (*models.Session, error)
	// Lookup returns ErrNotFound for unknown and expired sessions. Expired
	// rows are deleted on the way out.
	Lookup(ctx context.Context, id string) (*models.Session, error)
	Destroy(ctx context.Context, id string) error
	PurgeExpired(ctx context.Context) (int64, error)
}

type sessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) SessionStore {
	return &sessionStore{db: db}
}

func newSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *sessionStore) Create(ctx context.Context, userID string, ttl time.Duration) (*models.Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	session := &models.Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (s *sessionStore) Lookup(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	if err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}

	if session.Expired(time.Now().UTC()) {
		if err := s.Destroy(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return &session, nil
}

func (s *sessionStore) Destroy(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

func (s *sessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", time.Now().UTC()).Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
