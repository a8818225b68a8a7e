package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"clubhouse-backend/internal/api/middleware"
	"clubhouse-backend/internal/auth"
	"clubhouse-backend/internal/storage"
	"clubhouse-backend/internal/uploads"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Deps struct {
	Store *storage.Store
	Files *uploads.LocalStorage
	// Sessions is nil when identity comes from external claims.
	Sessions       *auth.SessionProvider
	MaxUploadBytes int64
	Logger         *zap.Logger
	Ping           func(ctx context.Context) error
}

type Handler struct {
	users      storage.UserStore
	events     storage.EventStore
	attendance storage.AttendanceStore
	photos     storage.PhotoStore
	files      *uploads.LocalStorage
	sessions   *auth.SessionProvider
	maxUpload  int64
	logger     *zap.Logger
	ping       func(ctx context.Context) error
}

func New(deps Deps) *Handler {
	return &Handler{
		users:      deps.Store.Users,
		events:     deps.Store.Events,
		attendance: deps.Store.Attendance,
		photos:     deps.Store.Photos,
		files:      deps.Files,
		sessions:   deps.Sessions,
		maxUpload:  deps.MaxUploadBytes,
		logger:     deps.Logger,
		ping:       deps.Ping,
	}
}

// SessionAuth reports whether the local login endpoints are served.
func (h *Handler) SessionAuth() bool {
	return h.sessions != nil
}

// -----------------------------
// Helper functions
// -----------------------------

func jsonError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"message": msg})
}

// validationError answers 400 with translated field messages when the
// binding error came from the validator.
func validationError(c *gin.Context, msg string, err error) {
	body := gin.H{"message": msg}
	if details := middleware.TranslateValidationErrors(err); len(details) > 0 {
		body["errors"] = details
	}
	c.JSON(http.StatusBadRequest, body)
}

// internalError logs err and answers 500 with a static message.
func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	_ = c.Error(err)
	h.logger.Error(msg, zap.Error(err), zap.String("path", c.FullPath()))
	jsonError(c, http.StatusInternalServerError, msg)
}

// requireUser reads the member id set by RequireIdentity.
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return userID, true
}

func parseID(c *gin.Context, msg string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		jsonError(c, http.StatusBadRequest, msg)
		return 0, false
	}
	return uint(id), true
}

// parseEventDate accepts RFC3339 or YYYY-MM-DD.
func parseEventDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, errors.New("invalid date format (use RFC3339 or YYYY-MM-DD)")
	}
	return t, nil
}
