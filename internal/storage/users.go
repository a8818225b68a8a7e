package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"clubhouse-backend/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const BcryptCost = 10

type UserStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, reg Registration) (*models.User, error)
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
	UpsertUser(ctx context.Context, profile ExternalProfile) (*models.User, error)
}

// Registration is a local sign-up request. Password is plaintext and is
// hashed before it reaches the database.
type Registration struct {
	Email       string
	Password    string
	DisplayName string
	FirstName   string
	LastName    string
}

// ExternalProfile is the identity asserted by an external provider.
type ExternalProfile struct {
	ID              string
	Email           string
	DisplayName     string
	FirstName       string
	LastName        string
	ProfileImageURL string
}

type userStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) UserStore {
	return &userStore{db: db}
}

// dummyHash is compared against when the email is unknown so both failure
// paths pay for one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("clubhouse-placeholder"), BcryptCost)
	return hash
})

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *userStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", normalizeEmail(email)).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *userStore) CreateUser(ctx context.Context, reg Registration) (*models.User, error) {
	email := normalizeEmail(reg.Email)
	if email == "" {
		return nil, errors.New("email is required")
	}

	if _, err := s.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), BcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	displayName := strings.TrimSpace(reg.DisplayName)
	if displayName == "" {
		displayName = strings.TrimSpace(reg.FirstName + " " + reg.LastName)
	}
	if displayName == "" {
		displayName = email
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        &email,
		DisplayName:  displayName,
		FirstName:    strings.TrimSpace(reg.FirstName),
		LastName:     strings.TrimSpace(reg.LastName),
		PasswordHash: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userStore) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if user == nil || user.PasswordHash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userStore) UpsertUser(ctx context.Context, profile ExternalProfile) (*models.User, error) {
	if profile.ID == "" {
		return nil, errors.New("external profile has no subject")
	}

	user := &models.User{
		ID:              profile.ID,
		DisplayName:     strings.TrimSpace(profile.DisplayName),
		FirstName:       strings.TrimSpace(profile.FirstName),
		LastName:        strings.TrimSpace(profile.LastName),
		ProfileImageURL: profile.ProfileImageURL,
	}
	if email := normalizeEmail(profile.Email); email != "" {
		user.Email = &email
	}
	if user.DisplayName == "" {
		user.DisplayName = strings.TrimSpace(user.FirstName + " " + user.LastName)
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "display_name", "first_name", "last_name", "profile_image_url", "updated_at",
		}),
	}).Create(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	return s.GetUser(ctx, profile.ID)
}
