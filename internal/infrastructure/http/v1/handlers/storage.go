package handlers

import (
	"github.com/gin-gonic/gin"

	"homestock/internal/infrastructure/http/v1/dto"
	"homestock/internal/infrastructure/objectstore"
)

// StorageHandler issues presigned URLs for item photo upload/download.
type StorageHandler struct {
	base  *BaseHandler
	store *objectstore.Store
}

// NewStorageHandler creates a storage handler.
func NewStorageHandler(base *BaseHandler, store *objectstore.Store) *StorageHandler {
	return &StorageHandler{base: base, store: store}
}

// PresignUpload handles GET /api/s3/presign.
func (h *StorageHandler) PresignUpload(c *gin.Context) {
	url, key, err := h.store.PresignUpload(c.Request.Context())
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.PresignUploadResponse{URL: url, Key: key})
}

// PresignDownload handles GET /api/s3/get/:filename.
func (h *StorageHandler) PresignDownload(c *gin.Context) {
	url, err := h.store.PresignDownload(c.Request.Context(), c.Param("filename"))
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, dto.PresignDownloadResponse{URL: url})
}
