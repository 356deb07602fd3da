package repository

import "github.com/quickfit/quickfit-server/internal/domain/entity"

// WardrobeRepository persists the ordered list of clothing items. Every
// mutating call is durable when it returns.
type WardrobeRepository interface {
	// All returns the items in insertion order.
	All() ([]entity.ClothingItem, error)
	// Replace overwrites the whole wardrobe with the given snapshot.
	Replace(items []entity.ClothingItem) error
}

// CollectionRepository persists outfit collections, most recent first.
type CollectionRepository interface {
	All() ([]entity.OutfitCollection, error)
	Replace(collections []entity.OutfitCollection) error
}

// ProfileRepository persists the singleton user profile.
type ProfileRepository interface {
	Get() (entity.UserProfile, error)
	Put(profile entity.UserProfile) error
}
