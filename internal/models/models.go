package models

import "time"

// User is a club member. Local accounts get a random UUID as ID; accounts
// provisioned from an external identity provider keep the provider's subject.
type User struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(255)"`
	Email           *string   `json:"email" gorm:"type:varchar(320);uniqueIndex"`
	DisplayName     string    `json:"displayName" gorm:"type:varchar(255);not null;default:''"`
	FirstName       string    `json:"firstName" gorm:"type:varchar(255);not null;default:''"`
	LastName        string    `json:"lastName" gorm:"type:varchar(255);not null;default:''"`
	ProfileImageURL string    `json:"profileImageUrl" gorm:"column:profile_image_url;type:varchar(1024);not null;default:''"`
	PasswordHash    string    `json:"-" gorm:"type:varchar(255);not null;default:''"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Event is a club event owned by the member who created it
type Event struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"type:varchar(200);not null"`
	Description string    `json:"description" gorm:"type:text;not null;default:''"`
	Location    string    `json:"location" gorm:"type:varchar(200);not null"`
	Date        time.Time `json:"date" gorm:"not null;index"`
	StartTime   string    `json:"startTime" gorm:"type:varchar(5);not null"`
	EndTime     string    `json:"endTime" gorm:"type:varchar(5);not null"`
	CreatedBy   string    `json:"createdBy" gorm:"type:varchar(255);not null;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Creator   *User           `json:"-" gorm:"foreignKey:CreatedBy"`
	Attendees []EventAttendee `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// EventAttendee records that a member attends an event. The composite
// unique index keeps at most one row per (event, member).
type EventAttendee struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   uint      `json:"eventId" gorm:"not null;uniqueIndex:uk_event_attendee"`
	UserID    string    `json:"userId" gorm:"type:varchar(255);not null;uniqueIndex:uk_event_attendee;index"`
	CreatedAt time.Time `json:"createdAt"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Photo is the metadata row for an uploaded image stored on disk as Filename.
type Photo struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Title        string     `json:"title" gorm:"type:varchar(200);not null"`
	Filename     string     `json:"filename" gorm:"type:varchar(255);not null;uniqueIndex"`
	OriginalName string     `json:"originalName" gorm:"type:varchar(255);not null"`
	MimeType     string     `json:"mimeType" gorm:"type:varchar(100);not null"`
	Size         int64      `json:"size" gorm:"not null"`
	UploadedBy   string     `json:"uploadedBy" gorm:"type:varchar(255);not null;index"`
	DateTaken    *time.Time `json:"dateTaken"`
	CreatedAt    time.Time  `json:"createdAt" gorm:"index"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	Uploader *User `json:"uploader,omitempty" gorm:"foreignKey:UploadedBy"`
}

// Session is a server-side login session referenced by the session cookie.
type Session struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)"`
	UserID    string    `gorm:"type:varchar(255);not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{&User{}, &Event{}, &EventAttendee{}, &Photo{}, &Session{}}
}
