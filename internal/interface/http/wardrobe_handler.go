package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/quickfit/quickfit-server/internal/application"
	"github.com/quickfit/quickfit-server/internal/domain/entity"
	"github.com/quickfit/quickfit-server/pkg/display"
	"github.com/quickfit/quickfit-server/pkg/imageproc"
	"github.com/quickfit/quickfit-server/pkg/response"
	"github.com/quickfit/quickfit-server/pkg/validation"
)

type WardrobeHandler struct {
	Store  *application.StoreService
	Logger *logrus.Logger
}

func NewWardrobeHandler(store *application.StoreService, logger *logrus.Logger) *WardrobeHandler {
	return &WardrobeHandler{Store: store, Logger: logger}
}

type createItemRequest struct {
	Name     string   `json:"name" binding:"required,max=120"`
	Category string   `json:"category" binding:"required"`
	Image    string   `json:"image" binding:"required,base64"`
	Tags     []string `json:"tags"`
}

type updateItemRequest struct {
	Name     string   `json:"name" binding:"required,max=120"`
	Category string   `json:"category" binding:"required"`
	Image    string   `json:"image"` // empty keeps the stored image
	Tags     []string `json:"tags"`
}

func localeFrom(c *gin.Context) display.Locale {
	if l := c.Query("locale"); l == string(display.LocaleZH) {
		return display.LocaleZH
	}
	return display.LocaleEN
}

func itemDTO(it entity.ClothingItem, loc display.Locale) gin.H {
	return gin.H{
		"id":             it.ID,
		"name":           it.Name,
		"category":       it.Category,
		"category_label": display.CategoryName(it.Category, loc),
		"image":          imageproc.EncodeBase64(it.ImageData),
		"created_at":     it.CreatedAt,
		"tags":           it.Tags,
	}
}

func (h *WardrobeHandler) List(c *gin.Context) {
	loc := localeFrom(c)
	var items []entity.ClothingItem
	if raw := c.Query("category"); raw != "" {
		cat := entity.ClothingCategory(raw)
		if !cat.Valid() {
			response.Error[any](c, http.StatusBadRequest, "unknown category", gin.H{"category": raw})
			return
		}
		items = h.Store.ItemsByCategory(cat)
	} else {
		items = h.Store.Items()
	}
	out := make([]gin.H, 0, len(items))
	for _, it := range items {
		out = append(out, itemDTO(it, loc))
	}
	response.Success(c, http.StatusOK, out, "wardrobe", gin.H{"count": len(out)})
}

func (h *WardrobeHandler) Get(c *gin.Context) {
	it, ok := h.Store.Item(c.Param("id"))
	if !ok {
		response.Error[any](c, http.StatusNotFound, "clothing item not found", nil)
		return
	}
	response.Success(c, http.StatusOK, itemDTO(it, localeFrom(c)), "clothing item", nil)
}

func (h *WardrobeHandler) Create(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cat := entity.ClothingCategory(req.Category)
	if !cat.Valid() {
		response.Error[any](c, http.StatusBadRequest, "unknown category", gin.H{"category": req.Category})
		return
	}
	img, err := imageproc.DecodeBase64(req.Image)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "image is not valid base64", nil)
		return
	}
	if _, err := imageproc.Decode(img); err != nil {
		response.Error[any](c, http.StatusBadRequest, "image bytes are not a decodable image", nil)
		return
	}

	item := entity.NewClothingItem(req.Name, cat, img, req.Tags)
	if err := h.Store.AddClothingItem(item); err != nil {
		h.Logger.WithError(err).Error("add clothing item failed")
		response.Error[any](c, statusFor(err), "failed to add clothing item", nil)
		return
	}
	response.Success(c, http.StatusCreated, itemDTO(item, localeFrom(c)), "clothing item added", nil)
}

func (h *WardrobeHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cat := entity.ClothingCategory(req.Category)
	if !cat.Valid() {
		response.Error[any](c, http.StatusBadRequest, "unknown category", gin.H{"category": req.Category})
		return
	}

	cur, ok := h.Store.Item(id)
	if !ok {
		response.Error[any](c, http.StatusNotFound, "clothing item not found", nil)
		return
	}
	cur.Name = req.Name
	cur.Category = cat
	if req.Tags != nil {
		cur.Tags = req.Tags
	}
	if req.Image != "" {
		img, err := imageproc.DecodeBase64(req.Image)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "image is not valid base64", nil)
			return
		}
		cur.ImageData = img
	}

	if err := h.Store.UpdateClothingItem(cur); err != nil {
		response.Error[any](c, statusFor(err), "failed to update clothing item", nil)
		return
	}
	response.Success(c, http.StatusOK, itemDTO(cur, localeFrom(c)), "clothing item updated", nil)
}

func (h *WardrobeHandler) Delete(c *gin.Context) {
	if err := h.Store.RemoveClothingItem(c.Param("id")); err != nil {
		h.Logger.WithError(err).Error("remove clothing item failed")
		response.Error[any](c, statusFor(err), "failed to remove clothing item", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"removed": true}, "clothing item removed", nil)
}

// Search queries the Elasticsearch index over item names and tags.
func (h *WardrobeHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	hits, err := h.Store.SearchItems(c.Request.Context(), q, 20)
	if err != nil {
		h.Logger.WithError(err).Warn("wardrobe search failed")
		response.Error[any](c, http.StatusBadGateway, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}
