package handlers

import (
	"errors"
	"net/http"

	"clubhouse-backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=320"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"displayName" binding:"max=255"`
	FirstName   string `json:"firstName" binding:"max=255"`
	LastName    string `json:"lastName" binding:"max=255"`
}

func (h *Handler) Register(c *gin.Context) {
	var body RegisterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		validationError(c, "Invalid registration data", err)
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), storage.Registration{
		Email:       body.Email,
		Password:    body.Password,
		DisplayName: body.DisplayName,
		FirstName:   body.FirstName,
		LastName:    body.LastName,
	})
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			jsonError(c, http.StatusBadRequest, "User already exists")
			return
		}
		if errors.Is(err, storage.ErrPasswordTooLong) {
			jsonError(c, http.StatusBadRequest, "Invalid registration data")
			return
		}
		h.internalError(c, "Failed to register user", err)
		return
	}

	if err := h.sessions.Login(c.Request.Context(), c.Writer, user.ID); err != nil {
		h.internalError(c, "Failed to establish session", err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(c *gin.Context) {
	var body LoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		validationError(c, "Invalid login data", err)
		return
	}

	user, err := h.users.VerifyPassword(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCredentials) {
			jsonError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.internalError(c, "Failed to log in", err)
		return
	}

	if err := h.sessions.Login(c.Request.Context(), c.Writer, user.ID); err != nil {
		h.internalError(c, "Failed to establish session", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Writer, c.Request); err != nil {
		h.internalError(c, "Failed to log out", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handler) CurrentUser(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			jsonError(c, http.StatusNotFound, "User not found")
			return
		}
		h.internalError(c, "Failed to fetch user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}
