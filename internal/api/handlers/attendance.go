package handlers

import (
	"errors"
	"net/http"

	"clubhouse-backend/internal/storage"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListAttendees(c *gin.Context) {
	eventID, ok := parseID(c, "Invalid event ID")
	if !ok {
		return
	}

	attendees, err := h.attendance.ListAttendees(c.Request.Context(), eventID)
	if err != nil {
		h.internalError(c, "Failed to fetch attendees", err)
		return
	}
	c.JSON(http.StatusOK, attendees)
}

func (h *Handler) Attend(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	eventID, ok := parseID(c, "Invalid event ID")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.events.Get(ctx, eventID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			jsonError(c, http.StatusBadRequest, "Event not found")
			return
		}
		h.internalError(c, "Failed to attend event", err)
		return
	}

	attending, err := h.attendance.IsAttending(ctx, eventID, userID)
	if err != nil {
		h.internalError(c, "Failed to attend event", err)
		return
	}
	if attending {
		jsonError(c, http.StatusBadRequest, "Already attending this event")
		return
	}

	// The unique index catches a concurrent request that passed the check above.
	attendee, err := h.attendance.Add(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyAttending) {
			jsonError(c, http.StatusBadRequest, "Already attending this event")
			return
		}
		h.internalError(c, "Failed to attend event", err)
		return
	}

	c.JSON(http.StatusCreated, attendee)
}

func (h *Handler) Unattend(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	eventID, ok := parseID(c, "Invalid event ID")
	if !ok {
		return
	}

	if err := h.attendance.Remove(c.Request.Context(), eventID, userID); err != nil {
		h.internalError(c, "Failed to leave event", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Attending(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	eventID, ok := parseID(c, "Invalid event ID")
	if !ok {
		return
	}

	attending, err := h.attendance.IsAttending(c.Request.Context(), eventID, userID)
	if err != nil {
		h.internalError(c, "Failed to check attendance", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attending": attending})
}
