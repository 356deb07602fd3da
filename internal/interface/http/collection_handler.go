package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/quickfit/quickfit-server/internal/application"
	"github.com/quickfit/quickfit-server/internal/domain/entity"
	"github.com/quickfit/quickfit-server/pkg/helpers"
	"github.com/quickfit/quickfit-server/pkg/imageproc"
	"github.com/quickfit/quickfit-server/pkg/response"
	"github.com/quickfit/quickfit-server/pkg/validation"
)

type CollectionHandler struct {
	Store  *application.StoreService
	Logger *logrus.Logger
	GCS    *storage.Client // nil disables export
	Bucket string
}

func NewCollectionHandler(store *application.StoreService, logger *logrus.Logger, gcs *storage.Client, bucket string) *CollectionHandler {
	return &CollectionHandler{Store: store, Logger: logger, GCS: gcs, Bucket: bucket}
}

type updateCollectionRequest struct {
	Name       string `json:"name" binding:"required,max=120"`
	IsFavorite *bool  `json:"is_favorite"`
}

func collectionDTO(oc entity.OutfitCollection, withImages bool) gin.H {
	out := gin.H{
		"id":             oc.ID,
		"name":           oc.Name,
		"clothing_items": oc.ClothingItems,
		"created_at":     oc.CreatedAt,
		"is_favorite":    oc.IsFavorite,
	}
	if withImages {
		out["person_image"] = imageproc.EncodeBase64(oc.PersonImageData)
		out["result_image"] = imageproc.EncodeBase64(oc.ResultImageData)
	}
	return out
}

// List returns collections newest-favorite first, without image payloads.
func (h *CollectionHandler) List(c *gin.Context) {
	cols := h.Store.Collections()
	out := make([]gin.H, 0, len(cols))
	for _, oc := range cols {
		out = append(out, collectionDTO(oc, false))
	}
	response.Success(c, http.StatusOK, out, "collections", gin.H{"count": len(out)})
}

func (h *CollectionHandler) Get(c *gin.Context) {
	oc, ok := h.Store.Collection(c.Param("id"))
	if !ok {
		response.Error[any](c, http.StatusNotFound, "collection not found", nil)
		return
	}
	response.Success(c, http.StatusOK, collectionDTO(oc, true), "collection", nil)
}

func (h *CollectionHandler) Update(c *gin.Context) {
	var req updateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	oc, ok := h.Store.Collection(c.Param("id"))
	if !ok {
		response.Error[any](c, http.StatusNotFound, "collection not found", nil)
		return
	}
	oc.Name = req.Name
	if req.IsFavorite != nil {
		oc.IsFavorite = *req.IsFavorite
	}
	if err := h.Store.UpdateOutfitCollection(oc); err != nil {
		response.Error[any](c, statusFor(err), "failed to update collection", nil)
		return
	}
	response.Success(c, http.StatusOK, collectionDTO(oc, false), "collection updated", nil)
}

func (h *CollectionHandler) Delete(c *gin.Context) {
	if err := h.Store.RemoveOutfitCollection(c.Param("id")); err != nil {
		h.Logger.WithError(err).Error("remove collection failed")
		response.Error[any](c, statusFor(err), "failed to remove collection", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"removed": true}, "collection removed", nil)
}

// Export uploads the collection's result image to Cloud Storage and returns
// the public URL.
func (h *CollectionHandler) Export(c *gin.Context) {
	if h.GCS == nil || h.Bucket == "" {
		response.Error[any](c, http.StatusServiceUnavailable, "export is not configured", nil)
		return
	}
	oc, ok := h.Store.Collection(c.Param("id"))
	if !ok {
		response.Error[any](c, http.StatusNotFound, "collection not found", nil)
		return
	}
	if len(oc.ResultImageData) == 0 {
		response.Error[any](c, http.StatusConflict, "collection has no result image", nil)
		return
	}

	object := fmt.Sprintf("collections/%s/%d.jpg", oc.ID, time.Now().UTC().Unix())
	url, err := helpers.UploadObject(c.Request.Context(), h.GCS, h.Bucket, object, "image/jpeg", bytes.NewReader(oc.ResultImageData))
	if err != nil {
		h.Logger.WithError(err).Error("collection export upload failed")
		response.Error[any](c, http.StatusBadGateway, "export failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"url": url}, "collection exported", nil)
}
