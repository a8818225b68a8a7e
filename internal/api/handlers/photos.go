package handlers

import (
	"errors"
	"net/http"
	"strings"

	"clubhouse-backend/internal/metrics"
	"clubhouse-backend/internal/storage"
	"clubhouse-backend/internal/uploads"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// multipartOverhead is headroom for boundaries and the title field on top of
// the file size limit.
const multipartOverhead = 1 << 20

type UpdatePhotoRequest struct {
	Title *string `json:"title" binding:"omitempty,min=1,max=200"`
}

func (h *Handler) ListPhotos(c *gin.Context) {
	photos, err := h.photos.List(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to fetch photos", err)
		return
	}
	c.JSON(http.StatusOK, photos)
}

func (h *Handler) MyPhotos(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	photos, err := h.photos.ListByUploader(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "Failed to fetch photos", err)
		return
	}
	c.JSON(http.StatusOK, photos)
}

// UploadPhoto validates the multipart "photo" field, stores the file, then
// creates the row. The file is removed again if the row cannot be written.
func (h *Handler) UploadPhoto(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartOverhead)

	file, err := c.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.rejectUpload(c, "size", "File too large")
			return
		}
		h.rejectUpload(c, "missing", "No file uploaded")
		return
	}

	mimeType, err := uploads.Inspect(file, h.maxUpload)
	switch {
	case errors.Is(err, uploads.ErrFileTooLarge):
		h.rejectUpload(c, "size", "File too large")
		return
	case errors.Is(err, uploads.ErrUnsupportedType):
		h.rejectUpload(c, "type", "Only image files are allowed")
		return
	case err != nil:
		h.rejectUpload(c, "unreadable", "Failed to upload photo")
		return
	}

	stored, err := h.files.Save(file)
	if err != nil {
		h.internalError(c, "Failed to upload photo", err)
		return
	}

	path, _ := h.files.Path(stored.Filename)
	dateTaken, err := uploads.CaptureDate(path)
	if err != nil {
		h.logger.Debug("No capture date in upload",
			zap.String("filename", stored.Filename),
			zap.Error(err),
		)
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		title = stored.OriginalName
	}
	if runes := []rune(title); len(runes) > 200 {
		title = string(runes[:200])
	}

	photo, err := h.photos.Create(c.Request.Context(), storage.PhotoInput{
		Title:        title,
		Filename:     stored.Filename,
		OriginalName: stored.OriginalName,
		MimeType:     mimeType,
		Size:         stored.Size,
		DateTaken:    dateTaken,
	}, userID)
	if err != nil {
		h.removeFile(stored.Filename)
		h.internalError(c, "Failed to upload photo", err)
		return
	}

	metrics.PhotosUploaded.Inc()
	c.JSON(http.StatusCreated, photo)
}

func (h *Handler) UpdatePhoto(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "Invalid photo ID")
	if !ok {
		return
	}

	var body UpdatePhotoRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		validationError(c, "Invalid photo data", err)
		return
	}

	patch := storage.PhotoPatch{}
	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" {
			jsonError(c, http.StatusBadRequest, "Invalid photo data")
			return
		}
		patch.Title = &title
	}

	photo, err := h.photos.Update(c.Request.Context(), id, patch, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotOwnerOrNotFound) {
			jsonError(c, http.StatusBadRequest, "Failed to update photo")
			return
		}
		h.internalError(c, "Failed to update photo", err)
		return
	}
	c.JSON(http.StatusOK, photo)
}

// DeletePhoto removes the row under the ownership condition and only then
// unlinks the file.
func (h *Handler) DeletePhoto(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "Invalid photo ID")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	photo, err := h.photos.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			jsonError(c, http.StatusBadRequest, "Failed to delete photo")
			return
		}
		h.internalError(c, "Failed to delete photo", err)
		return
	}

	deleted, err := h.photos.Delete(ctx, id, userID)
	if err != nil {
		h.internalError(c, "Failed to delete photo", err)
		return
	}
	if !deleted {
		jsonError(c, http.StatusBadRequest, "Failed to delete photo")
		return
	}

	h.removeFile(photo.Filename)
	c.Status(http.StatusNoContent)
}

func (h *Handler) rejectUpload(c *gin.Context, reason, msg string) {
	metrics.UploadsRejected.WithLabelValues(reason).Inc()
	jsonError(c, http.StatusBadRequest, msg)
}

func (h *Handler) removeFile(filename string) {
	if err := h.files.Remove(filename); err != nil {
		h.logger.Warn("Failed to remove stored file",
			zap.String("filename", filename),
			zap.Error(err),
		)
	}
}
