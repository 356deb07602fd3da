package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/quickfit/quickfit-server/internal/application"
	"github.com/quickfit/quickfit-server/internal/domain/entity"
	"github.com/quickfit/quickfit-server/pkg/imageproc"
	"github.com/quickfit/quickfit-server/pkg/response"
	"github.com/quickfit/quickfit-server/pkg/validation"
)

type TryOnHandler struct {
	Svc    *application.TryOnService
	Logger *logrus.Logger
}

func NewTryOnHandler(svc *application.TryOnService, logger *logrus.Logger) *TryOnHandler {
	return &TryOnHandler{Svc: svc, Logger: logger}
}

type selectItemRequest struct {
	ItemID string `json:"item_id" binding:"required"`
}

type uploadGarmentRequest struct {
	Image string `json:"image" binding:"required,base64"`
}

type favoriteRequest struct {
	Name string `json:"name" binding:"required,max=120"`
}

type uploadDetail struct {
	Name     string `json:"name" binding:"required,max=120"`
	Category string `json:"category" binding:"required"`
}

type favoriteWithItemsRequest struct {
	Name    string         `json:"name" binding:"required,max=120"`
	Uploads []uploadDetail `json:"uploads" binding:"required,dive"`
}

func (h *TryOnHandler) State(c *gin.Context) {
	response.Success(c, http.StatusOK, h.Svc.Snapshot(), "try-on session", nil)
}

func (h *TryOnHandler) SelectItem(c *gin.Context) {
	var req selectItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.SelectItem(req.ItemID); err != nil {
		response.Error[any](c, statusFor(err), h.Svc.LastError(), nil)
		return
	}
	response.Success(c, http.StatusOK, h.Svc.Snapshot(), "garment selected", nil)
}

func (h *TryOnHandler) Upload(c *gin.Context) {
	var req uploadGarmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	img, err := imageproc.DecodeBase64(req.Image)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "image is not valid base64", nil)
		return
	}
	if err := h.Svc.AddUpload(img); err != nil {
		response.Error[any](c, statusFor(err), h.Svc.LastError(), nil)
		return
	}
	response.Success(c, http.StatusOK, h.Svc.Snapshot(), "garment uploaded", nil)
}

func (h *TryOnHandler) Remove(c *gin.Context) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "index must be an integer", nil)
		return
	}
	if err := h.Svc.RemoveGarment(idx); err != nil {
		response.Error[any](c, statusFor(err), "failed to remove garment", nil)
		return
	}
	response.Success(c, http.StatusOK, h.Svc.Snapshot(), "garment removed", nil)
}

func (h *TryOnHandler) Clear(c *gin.Context) {
	h.Svc.ClearSelection()
	response.Success(c, http.StatusOK, h.Svc.Snapshot(), "selection cleared", nil)
}

func (h *TryOnHandler) Generate(c *gin.Context) {
	result, err := h.Svc.Generate(c.Request.Context())
	if err != nil {
		if errors.Is(err, application.ErrStaleGeneration) {
			response.Error[any](c, http.StatusConflict, "selection changed during generation", nil)
			return
		}
		h.Logger.WithError(err).Warn("try-on generation failed")
		response.Error[any](c, statusFor(err), h.Svc.LastError(), nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": imageproc.EncodeBase64(result)}, "try-on generated", nil)
}

func (h *TryOnHandler) Result(c *gin.Context) {
	result := h.Svc.Result()
	if result == nil {
		response.Error[any](c, http.StatusNotFound, "no generated result", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": imageproc.EncodeBase64(result)}, "try-on result", nil)
}

// Favorite toggles the favorite link. 409 with uploads_pending=true asks the
// client to collect names and categories and retry via FavoriteWithItems.
func (h *TryOnHandler) Favorite(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.Favorite(req.Name); err != nil {
		if errors.Is(err, application.ErrUploadsPending) {
			response.Error[any](c, http.StatusConflict, "uploads need a name and category", gin.H{"uploads_pending": true})
			return
		}
		response.Error[any](c, statusFor(err), h.Svc.LastError(), nil)
		return
	}
	response.Success(c, http.StatusOK, h.Svc.Snapshot(), "favorite updated", nil)
}

func (h *TryOnHandler) FavoriteWithItems(c *gin.Context) {
	var req favoriteWithItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uploads := make([]application.Upload, len(req.Uploads))
	for i, u := range req.Uploads {
		uploads[i] = application.Upload{Name: u.Name, Category: entity.ClothingCategory(u.Category)}
	}
	if err := h.Svc.FavoriteWithNewItems(req.Name, uploads); err != nil {
		response.Error[any](c, statusFor(err), "failed to favorite", nil)
		return
	}
	response.Success(c, http.StatusOK, h.Svc.Snapshot(), "favorite saved", nil)
}
