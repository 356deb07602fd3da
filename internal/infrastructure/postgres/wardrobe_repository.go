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

// WardrobeRepository stores the wardrobe snapshot in postgres. The store
// service re-writes the whole collection on each mutation, so Replace swaps
// the table contents in one transaction; position preserves insertion order.
type WardrobeRepository struct {
	pool *pgxpool.Pool
}

func NewWardrobeRepository(pool *pgxpool.Pool) *WardrobeRepository {
	return &WardrobeRepository{pool: pool}
}

func (r *WardrobeRepository) All() ([]entity.ClothingItem, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, category, image_data, created_at, tags
		FROM wardrobe_items
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	defer rows.Close()

	items := []entity.ClothingItem{}
	for rows.Next() {
		var it entity.ClothingItem
		var cat string
		if err := rows.Scan(&it.ID, &it.Name, &cat, &it.ImageData, &it.CreatedAt, &it.Tags); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
		}
		it.Category = entity.ClothingCategory(cat)
		if it.Tags == nil {
			it.Tags = []string{}
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	return items, nil
}

func (r *WardrobeRepository) Replace(items []entity.ClothingItem) error {
	ctx := context.Background()
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM wardrobe_items`); err != nil {
			return err
		}
		for pos, it := range items {
			_, err := tx.Exec(ctx, `
				INSERT INTO wardrobe_items (id, position, name, category, image_data, created_at, tags)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, it.ID, pos, it.Name, string(it.Category), it.ImageData, it.CreatedAt, it.Tags)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func withTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	return nil
}

var _ repository.WardrobeRepository = (*WardrobeRepository)(nil)
