package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"irespond/internal/utils"
	"irespond/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxMediaSize = 50 << 20 // 50 MB

type MediaHandler struct {
	storage storage.StorageProvider
}

func NewMediaHandler(storageProvider storage.StorageProvider) *MediaHandler {
	return &MediaHandler{
		storage: storageProvider,
	}
}

// UploadMedia attaches a photo or video to an incident
func (h *MediaHandler) UploadMedia(c *gin.Context) {
	incidentID := c.Param("id")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "Missing file upload")
		return
	}
	defer file.Close()

	if header.Size > maxMediaSize {
		utils.BadRequestResponse(c, "File exceeds the maximum allowed size")
		return
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	if !isAllowedMediaType(ext) {
		utils.BadRequestResponse(c, fmt.Sprintf("Unsupported file type: %s", ext))
		return
	}

	key := fmt.Sprintf("%s/%s/%s.%s", utils.IncidentMediaBucket, incidentID, uuid.NewString(), ext)

	response, err := h.storage.Upload(c.Request.Context(), &storage.UploadRequest{
		Key:         key,
		Reader:      file,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Metadata: map[string]string{
			"incident_id":       incidentID,
			"original_filename": header.Filename,
		},
	})
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "MEDIA_UPLOAD_FAILED", "Failed to upload media: "+err.Error())
		return
	}

	utils.CreatedResponse(c, "Media uploaded successfully", response)
}

// ListMedia lists media attached to an incident
func (h *MediaHandler) ListMedia(c *gin.Context) {
	prefix := fmt.Sprintf("%s/%s/", utils.IncidentMediaBucket, c.Param("id"))

	files, err := h.storage.ListFiles(c.Request.Context(), prefix)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "MEDIA_LIST_FAILED", "Failed to list media: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Media retrieved successfully", files)
}

// GetMediaURL returns a short-lived link for a media object
func (h *MediaHandler) GetMediaURL(c *gin.Context) {
	key := fmt.Sprintf("%s/%s/%s", utils.IncidentMediaBucket, c.Param("id"), c.Param("file"))

	exists, err := h.storage.FileExists(c.Request.Context(), key)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "MEDIA_FETCH_FAILED", "Failed to check media: "+err.Error())
		return
	}
	if !exists {
		utils.NotFoundResponse(c, "Media")
		return
	}

	url, err := h.storage.GetURL(c.Request.Context(), key, 15*time.Minute)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "MEDIA_FETCH_FAILED", "Failed to get media URL: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Media URL retrieved successfully", gin.H{"url": url})
}

// DeleteMedia removes a media object from an incident
func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	key := fmt.Sprintf("%s/%s/%s", utils.IncidentMediaBucket, c.Param("id"), c.Param("file"))

	if err := h.storage.Delete(c.Request.Context(), key); err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "MEDIA_DELETE_FAILED", "Failed to delete media: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Media deleted successfully", nil)
}

func isAllowedMediaType(ext string) bool {
	for _, allowed := range utils.AllowedImageTypes {
		if ext == allowed {
			return true
		}
	}
	for _, allowed := range utils.AllowedVideoTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}
