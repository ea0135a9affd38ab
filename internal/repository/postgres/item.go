package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/shoplist-server/internal/model"
)

var _ model.ItemStore = (*ItemRepository)(nil)

type ItemRepository struct {
	db *Connection
}

func NewItemRepository(db *Connection) *ItemRepository {
	return &ItemRepository{
		db: db,
	}
}

func (r *ItemRepository) Create(ctx context.Context, item model.Item) (model.Item, error) {
	query := `INSERT INTO list_items (id, list_id, name, quantity, notes, image_key, is_completed, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
			  RETURNING id, list_id, name, quantity, notes, image_key, is_completed, created_at, updated_at`

	var savedItem model.Item
	err := r.db.QueryRow(ctx, query,
		item.ID, item.ListID, item.Name, item.Quantity, item.Notes, item.ImageKey, item.IsCompleted,
	).Scan(
		&savedItem.ID, &savedItem.ListID, &savedItem.Name, &savedItem.Quantity, &savedItem.Notes,
		&savedItem.ImageKey, &savedItem.IsCompleted, &savedItem.CreatedAt, &savedItem.UpdatedAt,
	)
	if err != nil {
		return model.Item{}, fmt.Errorf("failed to create item: %w", err)
	}

	return savedItem, nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Item, error) {
	query := `SELECT id, list_id, name, quantity, notes, image_key, is_completed, created_at, updated_at
			  FROM list_items WHERE id = $1`

	var item model.Item
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.ListID, &item.Name, &item.Quantity, &item.Notes,
		&item.ImageKey, &item.IsCompleted, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Item{}, model.ErrNotFound
		}
		return model.Item{}, fmt.Errorf("failed to get item by id: %w", err)
	}

	return item, nil
}

// GetByList returns items in stable insertion order.
func (r *ItemRepository) GetByList(ctx context.Context, listID uuid.UUID) ([]model.Item, error) {
	query := `SELECT id, list_id, name, quantity, notes, image_key, is_completed, created_at, updated_at
			  FROM list_items WHERE list_id = $1
			  ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items by list: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		err := rows.Scan(
			&item.ID, &item.ListID, &item.Name, &item.Quantity, &item.Notes,
			&item.ImageKey, &item.IsCompleted, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *ItemRepository) Update(ctx context.Context, item model.Item) (model.Item, error) {
	query := `UPDATE list_items
			  SET name = $2, quantity = $3, notes = $4, image_key = $5, is_completed = $6, updated_at = NOW()
			  WHERE id = $1
			  RETURNING id, list_id, name, quantity, notes, image_key, is_completed, created_at, updated_at`

	var savedItem model.Item
	err := r.db.QueryRow(ctx, query,
		item.ID, item.Name, item.Quantity, item.Notes, item.ImageKey, item.IsCompleted,
	).Scan(
		&savedItem.ID, &savedItem.ListID, &savedItem.Name, &savedItem.Quantity, &savedItem.Notes,
		&savedItem.ImageKey, &savedItem.IsCompleted, &savedItem.CreatedAt, &savedItem.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Item{}, model.ErrNotFound
		}
		return model.Item{}, fmt.Errorf("failed to update item: %w", err)
	}

	return savedItem, nil
}

func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM list_items WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// GetImageKeysByList lists the stored image keys of a list's items so their
// blobs can be removed before a cascade delete.
func (r *ItemRepository) GetImageKeysByList(ctx context.Context, listID uuid.UUID) ([]string, error) {
	query := `SELECT image_key FROM list_items WHERE list_id = $1 AND image_key <> ''`

	rows, err := r.db.Query(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get image keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return keys, nil
}
