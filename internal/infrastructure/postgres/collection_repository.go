package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickfit/quickfit-server/internal/domain"
	"github.com/quickfit/quickfit-server/internal/domain/entity"
	"github.com/quickfit/quickfit-server/internal/domain/repository"
)

type CollectionRepository struct {
	pool *pgxpool.Pool
}

func NewCollectionRepository(pool *pgxpool.Pool) *CollectionRepository {
	return &CollectionRepository{pool: pool}
}

func (r *CollectionRepository) All() ([]entity.OutfitCollection, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, person_image, clothing_items, result_image, created_at, is_favorite
		FROM outfit_collections
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	defer rows.Close()

	collections := []entity.OutfitCollection{}
	for rows.Next() {
		var oc entity.OutfitCollection
		if err := rows.Scan(&oc.ID, &oc.Name, &oc.PersonImageData, &oc.ClothingItems, &oc.ResultImageData, &oc.CreatedAt, &oc.IsFavorite); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
		}
		if oc.ClothingItems == nil {
			oc.ClothingItems = []string{}
		}
		collections = append(collections, oc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	return collections, nil
}

func (r *CollectionRepository) Replace(collections []entity.OutfitCollection) error {
	ctx := context.Background()
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM outfit_collections`); err != nil {
			return err
		}
		for pos, oc := range collections {
			_, err := tx.Exec(ctx, `
				INSERT INTO outfit_collections (id, position, name, person_image, clothing_items, result_image, created_at, is_favorite)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, oc.ID, pos, oc.Name, oc.PersonImageData, oc.ClothingItems, oc.ResultImageData, oc.CreatedAt, oc.IsFavorite)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

var _ repository.CollectionRepository = (*CollectionRepository)(nil)
