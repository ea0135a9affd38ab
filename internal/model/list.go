package model

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// ListStore defines persistence operations for shopping lists and their membership.
type ListStore interface {
	Create(ctx context.Context, list List) (List, error)
	GetByID(ctx context.Context, id uuid.UUID) (List, error)
	GetVisibleByUser(ctx context.Context, userID uuid.UUID) ([]List, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	ReplaceShared(ctx context.Context, listID uuid.UUID, userIDs []uuid.UUID) error
	AddShared(ctx context.Context, listID uuid.UUID, userID uuid.UUID) error
	RemoveShared(ctx context.Context, listID uuid.UUID, userID uuid.UUID) error
	Touch(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// List represents a shopping list with its membership set fully loaded.
// SharedWith never contains the owner and never contains duplicates.
type List struct {
	ID         uuid.UUID
	Name       string
	OwnerID    uuid.UUID
	SharedWith []uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsOwner reports whether userID created the list.
func (l List) IsOwner(userID uuid.UUID) bool {
	return l.OwnerID == userID
}

// IsShared reports whether userID has been granted shared access.
func (l List) IsShared(userID uuid.UUID) bool {
	return slices.Contains(l.SharedWith, userID)
}

// CanView reports whether userID may read the list and its items.
func (l List) CanView(userID uuid.UUID) bool {
	return l.IsOwner(userID) || l.IsShared(userID)
}

// CanMutate reports whether userID may modify the list or its items.
// Owner and shared members have equal write rights; there is no read-only tier.
func (l List) CanMutate(userID uuid.UUID) bool {
	return l.CanView(userID)
}

// UpdateListParams contains the optional fields of a list update.
// A nil SharedUsernames leaves the membership untouched; a non-nil value
// (including an empty slice) replaces the whole shared set.
type UpdateListParams struct {
	Name            *string
	SharedUsernames *[]string
}
