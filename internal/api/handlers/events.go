package handlers

import (
	"errors"
	"net/http"
	"strings"

	"clubhouse-backend/internal/models"
	"clubhouse-backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type CreateEventRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=5000"`
	Location    string `json:"location" binding:"required,max=200"`
	Date        string `json:"date" binding:"required"` // RFC3339 or YYYY-MM-DD
	StartTime   string `json:"startTime" binding:"required,datetime=15:04"`
	EndTime     string `json:"endTime" binding:"required,datetime=15:04"`
}

// UpdateEventRequest is a partial update; omitted fields stay as they are.
type UpdateEventRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Location    *string `json:"location" binding:"omitempty,min=1,max=200"`
	Date        *string `json:"date"`
	StartTime   *string `json:"startTime" binding:"omitempty,datetime=15:04"`
	EndTime     *string `json:"endTime" binding:"omitempty,datetime=15:04"`
}

type eventResponse struct {
	models.Event
	AttendeeCount int64 `json:"attendeeCount"`
}

func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.events.List(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to fetch events", err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *Handler) MyEvents(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	events, err := h.events.ListByCreator(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "Failed to fetch events", err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *Handler) GetEvent(c *gin.Context) {
	id, ok := parseID(c, "Invalid event ID")
	if !ok {
		return
	}

	event, err := h.events.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			jsonError(c, http.StatusNotFound, "Event not found")
			return
		}
		h.internalError(c, "Failed to fetch event", err)
		return
	}

	count, err := h.attendance.CountByEvent(c.Request.Context(), id)
	if err != nil {
		h.internalError(c, "Failed to fetch event", err)
		return
	}

	c.JSON(http.StatusOK, eventResponse{Event: *event, AttendeeCount: count})
}

func (h *Handler) CreateEvent(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var body CreateEventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		validationError(c, "Invalid event data", err)
		return
	}

	date, err := parseEventDate(body.Date)
	if err != nil {
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	}

	title := strings.TrimSpace(body.Title)
	location := strings.TrimSpace(body.Location)
	if title == "" || location == "" {
		jsonError(c, http.StatusBadRequest, "Invalid event data")
		return
	}

	event, err := h.events.Create(c.Request.Context(), storage.EventInput{
		Title:       title,
		Description: body.Description,
		Location:    location,
		Date:        date,
		StartTime:   body.StartTime,
		EndTime:     body.EndTime,
	}, userID)
	if err != nil {
		h.internalError(c, "Failed to create event", err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *Handler) UpdateEvent(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "Invalid event ID")
	if !ok {
		return
	}

	var body UpdateEventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		validationError(c, "Invalid event data", err)
		return
	}

	patch := storage.EventPatch{
		Description: body.Description,
		StartTime:   body.StartTime,
		EndTime:     body.EndTime,
	}
	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" {
			jsonError(c, http.StatusBadRequest, "Invalid event data")
			return
		}
		patch.Title = &title
	}
	if body.Location != nil {
		location := strings.TrimSpace(*body.Location)
		if location == "" {
			jsonError(c, http.StatusBadRequest, "Invalid event data")
			return
		}
		patch.Location = &location
	}
	if body.Date != nil {
		date, err := parseEventDate(*body.Date)
		if err != nil {
			jsonError(c, http.StatusBadRequest, err.Error())
			return
		}
		patch.Date = &date
	}

	event, err := h.events.Update(c.Request.Context(), id, patch, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotOwnerOrNotFound) {
			jsonError(c, http.StatusBadRequest, "Failed to update event")
			return
		}
		h.internalError(c, "Failed to update event", err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *Handler) DeleteEvent(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "Invalid event ID")
	if !ok {
		return
	}

	deleted, err := h.events.Delete(c.Request.Context(), id, userID)
	if err != nil {
		h.internalError(c, "Failed to delete event", err)
		return
	}
	if !deleted {
		jsonError(c, http.StatusBadRequest, "Failed to delete event")
		return
	}

	c.Status(http.StatusNoContent)
}
