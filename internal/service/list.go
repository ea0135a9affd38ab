package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/shoplist-server/internal/apierrors"
	"github.com/dtroode/shoplist-server/internal/logger"
	"github.com/dtroode/shoplist-server/internal/model"
)

// List orchestrates shopping list CRUD and the sharing model. All access
// decisions run over the membership set loaded with the list.
type List struct {
	listStore model.ListStore
	itemStore model.ItemStore
	userStore model.UserStore
	storage   model.Storage
	logger    *logger.Logger
}

func NewList(
	listStore model.ListStore,
	itemStore model.ItemStore,
	userStore model.UserStore,
	storage model.Storage,
	logger *logger.Logger,
) *List {
	return &List{
		listStore: listStore,
		itemStore: itemStore,
		userStore: userStore,
		storage:   storage,
		logger:    logger,
	}
}

// ListVisible returns every list the user owns or is shared into.
func (s *List) ListVisible(ctx context.Context, userID uuid.UUID) ([]model.List, error) {
	lists, err := s.listStore.GetVisibleByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get visible lists: %w", err)
	}

	return lists, nil
}

// GetList resolves a list for the caller. Lists the caller cannot view are
// reported as not found so their existence does not leak.
func (s *List) GetList(ctx context.Context, userID uuid.UUID, listID uuid.UUID) (model.List, error) {
	list, err := s.listStore.GetByID(ctx, listID)
	if errors.Is(err, model.ErrNotFound) {
		return model.List{}, apierrors.NewErrListNotFound(listID)
	}
	if err != nil {
		return model.List{}, fmt.Errorf("failed to get list by id: %w", err)
	}

	if !list.CanView(userID) {
		return model.List{}, apierrors.NewErrListNotFound(listID)
	}

	return list, nil
}

// ListDetail is a list together with its resolved users and items, for
// detail responses.
type ListDetail struct {
	List    model.List
	Owner   model.User
	Members []model.User
	Items   []model.Item
}

// GetListDetail resolves a list with its owner, shared members and items.
func (s *List) GetListDetail(ctx context.Context, userID uuid.UUID, listID uuid.UUID) (ListDetail, error) {
	list, err := s.GetList(ctx, userID, listID)
	if err != nil {
		return ListDetail{}, err
	}

	owner, err := s.userStore.GetByID(ctx, list.OwnerID)
	if err != nil {
		return ListDetail{}, fmt.Errorf("failed to get owner: %w", err)
	}

	var members []model.User
	if len(list.SharedWith) > 0 {
		members, err = s.userStore.GetManyByIDs(ctx, list.SharedWith)
		if err != nil {
			return ListDetail{}, fmt.Errorf("failed to get members: %w", err)
		}
	}

	items, err := s.itemStore.GetByList(ctx, listID)
	if err != nil {
		return ListDetail{}, fmt.Errorf("failed to get items: %w", err)
	}

	return ListDetail{List: list, Owner: owner, Members: members, Items: items}, nil
}

// Create creates a list owned by the caller with an empty shared set.
func (s *List) Create(ctx context.Context, userID uuid.UUID, name string) (model.List, error) {
	if strings.TrimSpace(name) == "" {
		return model.List{}, apierrors.Validation("list name is required")
	}

	list := model.List{
		ID:      uuid.New(),
		Name:    name,
		OwnerID: userID,
	}

	saved, err := s.listStore.Create(ctx, list)
	if err != nil {
		return model.List{}, fmt.Errorf("failed to create list: %w", err)
	}

	return saved, nil
}

// Update changes the list name and, when SharedUsernames is provided,
// replaces the whole shared set with the users resolved from those names.
// Unknown usernames are silently dropped; the owner is never added.
func (s *List) Update(ctx context.Context, userID uuid.UUID, listID uuid.UUID, params model.UpdateListParams) (model.List, error) {
	list, err := s.GetList(ctx, userID, listID)
	if err != nil {
		return model.List{}, err
	}

	if params.Name != nil {
		if err := s.listStore.UpdateName(ctx, listID, *params.Name); err != nil {
			return model.List{}, fmt.Errorf("failed to update list name: %w", err)
		}
	}

	if params.SharedUsernames != nil {
		users, err := s.userStore.GetManyByUsernames(ctx, *params.SharedUsernames)
		if err != nil {
			return model.List{}, fmt.Errorf("failed to resolve usernames: %w", err)
		}

		ids := make([]uuid.UUID, 0, len(users))
		for _, u := range users {
			if u.ID == list.OwnerID {
				continue
			}
			ids = append(ids, u.ID)
		}

		if err := s.listStore.ReplaceShared(ctx, listID, ids); err != nil {
			return model.List{}, fmt.Errorf("failed to replace shared set: %w", err)
		}
	}

	updated, err := s.listStore.GetByID(ctx, listID)
	if err != nil {
		return model.List{}, fmt.Errorf("failed to reload list: %w", err)
	}

	return updated, nil
}

// Delete removes the list and everything under it: shares, items and any
// stored item images.
func (s *List) Delete(ctx context.Context, userID uuid.UUID, listID uuid.UUID) error {
	if _, err := s.GetList(ctx, userID, listID); err != nil {
		return err
	}

	imageKeys, err := s.itemStore.GetImageKeysByList(ctx, listID)
	if err != nil {
		return fmt.Errorf("failed to collect item image keys: %w", err)
	}
	for _, key := range imageKeys {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Error("failed to delete item image", "error", err, "key", key)
		}
	}

	if err := s.listStore.Delete(ctx, listID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewErrListNotFound(listID)
		}
		return fmt.Errorf("failed to delete list: %w", err)
	}

	return nil
}

// Share grants usernameOrEmail shared access. Owner-only.
func (s *List) Share(ctx context.Context, userID uuid.UUID, listID uuid.UUID, usernameOrEmail string) (string, error) {
	list, target, err := s.resolveShareTarget(ctx, userID, listID, usernameOrEmail)
	if err != nil {
		return "", err
	}

	if target.ID == userID {
		return "", apierrors.Validation("cannot share a list with yourself")
	}

	if list.IsShared(target.ID) {
		return "", apierrors.Conflict("list is already shared with this user")
	}

	if err := s.listStore.AddShared(ctx, listID, target.ID); err != nil {
		return "", fmt.Errorf("failed to add share: %w", err)
	}

	return fmt.Sprintf("list shared with %s", target.Username), nil
}

// Unshare revokes shared access previously granted to usernameOrEmail. Owner-only.
func (s *List) Unshare(ctx context.Context, userID uuid.UUID, listID uuid.UUID, usernameOrEmail string) (string, error) {
	list, target, err := s.resolveShareTarget(ctx, userID, listID, usernameOrEmail)
	if err != nil {
		return "", err
	}

	if !list.IsShared(target.ID) {
		return "", apierrors.Conflict("this user does not have access to the list")
	}

	if err := s.listStore.RemoveShared(ctx, listID, target.ID); err != nil {
		return "", fmt.Errorf("failed to remove share: %w", err)
	}

	return fmt.Sprintf("access to the list revoked for %s", target.Username), nil
}

// Leave removes the caller from the shared set. Owners cannot leave their
// own lists; they delete or unshare instead.
func (s *List) Leave(ctx context.Context, userID uuid.UUID, listID uuid.UUID) (string, error) {
	list, err := s.listStore.GetByID(ctx, listID)
	if errors.Is(err, model.ErrNotFound) {
		return "", apierrors.NewErrListNotFound(listID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get list by id: %w", err)
	}

	if list.IsOwner(userID) {
		return "", apierrors.Validation("you own this list and cannot leave it; delete it instead")
	}

	if !list.IsShared(userID) {
		return "", apierrors.NewErrNoListAccess()
	}

	if err := s.listStore.RemoveShared(ctx, listID, userID); err != nil {
		return "", fmt.Errorf("failed to remove share: %w", err)
	}

	return fmt.Sprintf("you left the list %q", list.Name), nil
}

// resolveShareTarget runs the checks common to share and unshare: list
// resolution, the owner-only gate, input presence and target lookup.
func (s *List) resolveShareTarget(ctx context.Context, userID uuid.UUID, listID uuid.UUID, usernameOrEmail string) (model.List, model.User, error) {
	list, err := s.GetList(ctx, userID, listID)
	if err != nil {
		return model.List{}, model.User{}, err
	}

	if !list.IsOwner(userID) {
		return model.List{}, model.User{}, apierrors.NewErrNotListOwner()
	}

	if usernameOrEmail == "" {
		return model.List{}, model.User{}, apierrors.Validation("username or email is required")
	}

	target, err := s.userStore.GetByUsernameOrEmail(ctx, usernameOrEmail)
	if errors.Is(err, model.ErrNotFound) {
		return model.List{}, model.User{}, apierrors.NewErrTargetUserNotFound()
	}
	if err != nil {
		return model.List{}, model.User{}, fmt.Errorf("failed to resolve target user: %w", err)
	}

	return list, target, nil
}
