package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClothingItem is a wardrobe entry. The id is immutable; name, category,
// tags and image may change over the item's life.
type ClothingItem struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Category  ClothingCategory `json:"category"`
	ImageData []byte           `json:"imageData"`
	CreatedAt time.Time        `json:"createdAt"`
	Tags      []string         `json:"tags"`
}

// NewClothingItem builds an item with a fresh id and creation timestamp.
func NewClothingItem(name string, category ClothingCategory, imageData []byte, tags []string) ClothingItem {
	if tags == nil {
		tags = []string{}
	}
	return ClothingItem{
		ID:        uuid.NewString(),
		Name:      name,
		Category:  category,
		ImageData: imageData,
		CreatedAt: time.Now().UTC(),
		Tags:      tags,
	}
}
