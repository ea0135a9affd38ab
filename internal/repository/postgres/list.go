package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/shoplist-server/internal/model"
)

var _ model.ListStore = (*ListRepository)(nil)

type ListRepository struct {
	db *Connection
}

func NewListRepository(db *Connection) *ListRepository {
	return &ListRepository{
		db: db,
	}
}

func (r *ListRepository) Create(ctx context.Context, list model.List) (model.List, error) {
	query := `INSERT INTO shopping_lists (id, name, owner_id, created_at, updated_at)
			  VALUES ($1, $2, $3, NOW(), NOW())
			  RETURNING id, name, owner_id, created_at, updated_at`

	var savedList model.List
	err := r.db.QueryRow(ctx, query, list.ID, list.Name, list.OwnerID).Scan(
		&savedList.ID, &savedList.Name, &savedList.OwnerID,
		&savedList.CreatedAt, &savedList.UpdatedAt,
	)
	if err != nil {
		return model.List{}, fmt.Errorf("failed to create list: %w", err)
	}

	return savedList, nil
}

// GetByID loads the list together with its full membership set so the access
// policy can run over in-memory data.
func (r *ListRepository) GetByID(ctx context.Context, id uuid.UUID) (model.List, error) {
	query := `SELECT id, name, owner_id, created_at, updated_at
			  FROM shopping_lists WHERE id = $1`

	var list model.List
	err := r.db.QueryRow(ctx, query, id).Scan(
		&list.ID, &list.Name, &list.OwnerID, &list.CreatedAt, &list.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.List{}, model.ErrNotFound
		}
		return model.List{}, fmt.Errorf("failed to get list by id: %w", err)
	}

	list.SharedWith, err = r.getSharedIDs(ctx, id)
	if err != nil {
		return model.List{}, err
	}

	return list, nil
}

// GetVisibleByUser returns all lists the user owns or is shared into,
// deduplicated, newest first.
func (r *ListRepository) GetVisibleByUser(ctx context.Context, userID uuid.UUID) ([]model.List, error) {
	query := `SELECT DISTINCT l.id, l.name, l.owner_id, l.created_at, l.updated_at
			  FROM shopping_lists l
			  LEFT JOIN list_shares s ON s.list_id = l.id
			  WHERE l.owner_id = $1 OR s.user_id = $1
			  ORDER BY l.created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get visible lists: %w", err)
	}
	defer rows.Close()

	var lists []model.List
	for rows.Next() {
		var list model.List
		err := rows.Scan(&list.ID, &list.Name, &list.OwnerID, &list.CreatedAt, &list.UpdatedAt)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range lists {
		lists[i].SharedWith, err = r.getSharedIDs(ctx, lists[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return lists, nil
}

func (r *ListRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	const query = `UPDATE shopping_lists SET name = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id, name)
	if err != nil {
		return fmt.Errorf("failed to update list name: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ReplaceShared swaps the whole membership set in one transaction.
func (r *ListRepository) ReplaceShared(ctx context.Context, listID uuid.UUID, userIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM list_shares WHERE list_id = $1`, listID); err != nil {
		return fmt.Errorf("failed to clear shares: %w", err)
	}

	for _, userID := range userIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO list_shares (list_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			listID, userID)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE shopping_lists SET updated_at = NOW() WHERE id = $1`, listID); err != nil {
		return fmt.Errorf("failed to touch list: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *ListRepository) AddShared(ctx context.Context, listID uuid.UUID, userID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// The primary key guards against duplicates even under concurrent shares.
	_, err = tx.Exec(ctx,
		`INSERT INTO list_shares (list_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		listID, userID)
	if err != nil {
		return fmt.Errorf("failed to insert share: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE shopping_lists SET updated_at = NOW() WHERE id = $1`, listID); err != nil {
		return fmt.Errorf("failed to touch list: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *ListRepository) RemoveShared(ctx context.Context, listID uuid.UUID, userID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx,
		`DELETE FROM list_shares WHERE list_id = $1 AND user_id = $2`,
		listID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete share: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `UPDATE shopping_lists SET updated_at = NOW() WHERE id = $1`, listID); err != nil {
		return fmt.Errorf("failed to touch list: %w", err)
	}

	return tx.Commit(ctx)
}

// Touch refreshes updated_at; item mutations count as list mutations.
func (r *ListRepository) Touch(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE shopping_lists SET updated_at = NOW() WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to touch list: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Delete removes the list; shares and items go with it via FK cascade.
func (r *ListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM shopping_lists WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *ListRepository) getSharedIDs(ctx context.Context, listID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM list_shares WHERE list_id = $1 ORDER BY created_at`, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
