package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence and directory-lookup operations for users.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (User, error)
	GetManyByUsernames(ctx context.Context, usernames []string) ([]User, error)
	GetManyByIDs(ctx context.Context, ids []uuid.UUID) ([]User, error)
}

// User represents a registered account. Lists reference users, they never own them.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
