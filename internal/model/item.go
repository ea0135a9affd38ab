package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ItemStore defines persistence operations for list items.
type ItemStore interface {
	Create(ctx context.Context, item Item) (Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (Item, error)
	GetByList(ctx context.Context, listID uuid.UUID) ([]Item, error)
	Update(ctx context.Context, item Item) (Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetImageKeysByList(ctx context.Context, listID uuid.UUID) ([]string, error)
}

// Item represents a single line in a shopping list. It always belongs to
// exactly one list and is removed together with it.
type Item struct {
	ID          uuid.UUID
	ListID      uuid.UUID
	Name        string
	Quantity    string
	Notes       string
	ImageKey    string
	IsCompleted bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateItemParams contains parameters to create an item.
type CreateItemParams struct {
	Name        string
	Quantity    string
	Notes       string
	IsCompleted bool
}

// UpdateItemParams contains the optional fields of an item update.
// Nil fields are left unchanged.
type UpdateItemParams struct {
	Name        *string
	Quantity    *string
	Notes       *string
	IsCompleted *bool
}
