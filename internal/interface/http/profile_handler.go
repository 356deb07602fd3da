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

type ProfileHandler struct {
	Store  *application.StoreService
	Logger *logrus.Logger
}

func NewProfileHandler(store *application.StoreService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Store: store, Logger: logger}
}

type updateUserProfileRequest struct {
	Gender *string  `json:"gender"`
	Height *float64 `json:"height" binding:"omitempty,gt=0,lt=300"`
	Weight *float64 `json:"weight" binding:"omitempty,gt=0,lt=500"`
	Bust   *float64 `json:"bust" binding:"omitempty,gt=0,lt=300"`
	Waist  *float64 `json:"waist" binding:"omitempty,gt=0,lt=300"`
	Hips   *float64 `json:"hips" binding:"omitempty,gt=0,lt=300"`
}

type setImageRequest struct {
	Image string `json:"image" binding:"required,base64"`
}

func profileDTO(p entity.UserProfile, loc display.Locale) gin.H {
	out := gin.H{
		"has_full_body_image": p.HasFullBodyImage(),
		"height":              p.Height,
		"weight":              p.Weight,
		"measurements": gin.H{
			"bust":  p.Measurements.Bust,
			"waist": p.Measurements.Waist,
			"hips":  p.Measurements.Hips,
		},
		"body_description": p.BodyDescription(),
	}
	if p.Gender != nil {
		out["gender"] = *p.Gender
		out["gender_label"] = display.GenderName(*p.Gender, loc)
	}
	if p.HasFullBodyImage() {
		out["full_body_image"] = imageproc.EncodeBase64(p.FullBodyImageData)
	}
	return out
}

func (h *ProfileHandler) Get(c *gin.Context) {
	response.Success(c, http.StatusOK, profileDTO(h.Store.Profile(), localeFrom(c)), "profile", nil)
}

// Update replaces every body attribute; the full-body image has its own
// endpoints and is preserved here.
func (h *ProfileHandler) Update(c *gin.Context) {
	var req updateUserProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	next := entity.UserProfile{
		FullBodyImageData: h.Store.Profile().FullBodyImageData,
		Height:            req.Height,
		Weight:            req.Weight,
		Measurements: entity.BodyMeasurements{
			Bust:  req.Bust,
			Waist: req.Waist,
			Hips:  req.Hips,
		},
	}
	if req.Gender != nil {
		g := entity.Gender(*req.Gender)
		if !g.Valid() {
			response.Error[any](c, http.StatusBadRequest, "unknown gender", gin.H{"gender": *req.Gender})
			return
		}
		next.Gender = &g
	}

	if err := h.Store.UpdateProfile(next); err != nil {
		h.Logger.WithError(err).Error("profile update failed")
		response.Error[any](c, statusFor(err), "failed to update profile", nil)
		return
	}
	response.Success(c, http.StatusOK, profileDTO(next, localeFrom(c)), "profile updated", nil)
}

func (h *ProfileHandler) SetImage(c *gin.Context) {
	var req setImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
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
	if err := h.Store.SetFullBodyImage(img); err != nil {
		response.Error[any](c, statusFor(err), "failed to store image", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"has_full_body_image": true}, "full-body image set", nil)
}

func (h *ProfileHandler) ClearImage(c *gin.Context) {
	if err := h.Store.ClearFullBodyImage(); err != nil {
		response.Error[any](c, statusFor(err), "failed to clear image", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"has_full_body_image": false}, "full-body image cleared", nil)
}

// Reset restores the profile to empty defaults.
func (h *ProfileHandler) Reset(c *gin.Context) {
	if err := h.Store.ResetProfile(); err != nil {
		response.Error[any](c, statusFor(err), "failed to reset profile", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "profile reset", nil)
}
