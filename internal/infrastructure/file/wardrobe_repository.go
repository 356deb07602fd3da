package file

import (
	"github.com/quickfit/quickfit-server/internal/domain/entity"
	"github.com/quickfit/quickfit-server/internal/domain/repository"
)

type WardrobeRepository struct {
	store *Store
	path  string
}

func (r *WardrobeRepository) All() ([]entity.ClothingItem, error) {
	items := []entity.ClothingItem{}
	ok, err := r.store.readJSON(r.path, &items)
	if err != nil {
		return nil, err
	}
	if !ok {
		// missing or degraded file; drop whatever unmarshal got to
		return []entity.ClothingItem{}, nil
	}
	return items, nil
}

func (r *WardrobeRepository) Replace(items []entity.ClothingItem) error {
	if items == nil {
		items = []entity.ClothingItem{}
	}
	return r.store.writeJSON(r.path, items)
}

var _ repository.WardrobeRepository = (*WardrobeRepository)(nil)
