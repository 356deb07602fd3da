package file

import (
	"github.com/quickfit/quickfit-server/internal/domain/entity"
	"github.com/quickfit/quickfit-server/internal/domain/repository"
)

type CollectionRepository struct {
	store *Store
	path  string
}

func (r *CollectionRepository) All() ([]entity.OutfitCollection, error) {
	collections := []entity.OutfitCollection{}
	ok, err := r.store.readJSON(r.path, &collections)
	if err != nil {
		return nil, err
	}
	if !ok {
		// missing or degraded file; drop whatever unmarshal got to
		return []entity.OutfitCollection{}, nil
	}
	return collections, nil
}

func (r *CollectionRepository) Replace(collections []entity.OutfitCollection) error {
	if collections == nil {
		collections = []entity.OutfitCollection{}
	}
	return r.store.writeJSON(r.path, collections)
}

var _ repository.CollectionRepository = (*CollectionRepository)(nil)
