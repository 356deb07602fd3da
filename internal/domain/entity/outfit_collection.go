package entity

import (
	"time"

	"github.com/google/uuid"
)

// OutfitCollection is a saved, favorited try-on result. ClothingItems holds
// weak references by id: a referenced wardrobe item may be deleted later and
// the collection must keep working with the dangling id.
type OutfitCollection struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	PersonImageData []byte    `json:"personImageData"`
	ClothingItems   []string  `json:"clothingItems"`
	ResultImageData []byte    `json:"resultImageData"`
	CreatedAt       time.Time `json:"createdAt"`
	IsFavorite      bool      `json:"isFavorite"`
}

// NewOutfitCollection builds a collection entry. Membership implies
// favorited, so IsFavorite starts true.
func NewOutfitCollection(name string, personImage []byte, clothingIDs []string, resultImage []byte) OutfitCollection {
	if clothingIDs == nil {
		clothingIDs = []string{}
	}
	return OutfitCollection{
		ID:              uuid.NewString(),
		Name:            name,
		PersonImageData: personImage,
		ClothingItems:   clothingIDs,
		ResultImageData: resultImage,
		CreatedAt:       time.Now().UTC(),
		IsFavorite:      true,
	}
}
