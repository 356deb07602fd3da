package file

import (
	"github.com/quickfit/quickfit-server/internal/domain/entity"
	"github.com/quickfit/quickfit-server/internal/domain/repository"
)

type ProfileRepository struct {
	store *Store
	path  string
}

// Get returns the stored profile, or the zero profile when no usable file
// exists.
func (r *ProfileRepository) Get() (entity.UserProfile, error) {
	var profile entity.UserProfile
	ok, err := r.store.readJSON(r.path, &profile)
	if err != nil || !ok {
		return entity.UserProfile{}, err
	}
	return profile, nil
}

func (r *ProfileRepository) Put(profile entity.UserProfile) error {
	return r.store.writeJSON(r.path, profile)
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
