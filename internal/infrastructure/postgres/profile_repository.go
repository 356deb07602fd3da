package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickfit/quickfit-server/internal/domain"
	"github.com/quickfit/quickfit-server/internal/domain/entity"
	"github.com/quickfit/quickfit-server/internal/domain/repository"
)

// ProfileRepository keeps the singleton profile as a single jsonb row, the
// closest relational shape to the profile.json document.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Get() (entity.UserProfile, error) {
	ctx := context.Background()
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT body FROM user_profile WHERE id = 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.UserProfile{}, nil
	}
	if err != nil {
		return entity.UserProfile{}, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	var profile entity.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return entity.UserProfile{}, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	return profile, nil
}

func (r *ProfileRepository) Put(profile entity.UserProfile) error {
	ctx := context.Background()
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO user_profile (id, body) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body
	`, raw)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	return nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
