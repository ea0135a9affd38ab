package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/shoplist-server/internal/apierrors"
	"github.com/dtroode/shoplist-server/internal/logger"
	"github.com/dtroode/shoplist-server/internal/model"
)

// Item orchestrates item CRUD within a list. Authorization always goes
// through the parent list's membership.
type Item struct {
	itemStore model.ItemStore
	listStore model.ListStore
	storage   model.Storage
	logger    *logger.Logger
}

func NewItem(
	itemStore model.ItemStore,
	listStore model.ListStore,
	storage model.Storage,
	logger *logger.Logger,
) *Item {
	return &Item{
		itemStore: itemStore,
		listStore: listStore,
		storage:   storage,
		logger:    logger,
	}
}

// ListItems returns the items of a list in insertion order. Lists the caller
// cannot view are reported as not found.
func (s *Item) ListItems(ctx context.Context, userID uuid.UUID, listID uuid.UUID) ([]model.Item, error) {
	if _, err := s.viewableList(ctx, userID, listID); err != nil {
		return nil, err
	}

	items, err := s.itemStore.GetByList(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}

	return items, nil
}

// GetItem returns a single item. Items of lists the caller cannot view are
// reported as not found.
func (s *Item) GetItem(ctx context.Context, userID uuid.UUID, listID uuid.UUID, itemID uuid.UUID) (model.Item, error) {
	item, err := s.itemStore.GetByID(ctx, itemID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Item{}, apierrors.NewErrItemNotFound(itemID)
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("failed to get item by id: %w", err)
	}

	if item.ListID != listID {
		return model.Item{}, apierrors.NewErrItemNotFound(itemID)
	}

	list, err := s.listStore.GetByID(ctx, item.ListID)
	if err != nil {
		return model.Item{}, fmt.Errorf("failed to get parent list: %w", err)
	}
	if !list.CanView(userID) {
		return model.Item{}, apierrors.NewErrItemNotFound(itemID)
	}

	return item, nil
}

// CreateItem adds an item to the list. Any member may add items; creating an
// item counts as a list mutation for freshness purposes.
func (s *Item) CreateItem(ctx context.Context, userID uuid.UUID, listID uuid.UUID, params model.CreateItemParams) (model.Item, error) {
	list, err := s.listStore.GetByID(ctx, listID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Item{}, apierrors.NewErrListNotFound(listID)
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("failed to get list by id: %w", err)
	}

	if !list.CanMutate(userID) {
		return model.Item{}, apierrors.Permission("you do not have permission to add items to this list")
	}

	if strings.TrimSpace(params.Name) == "" {
		return model.Item{}, apierrors.Validation("item name is required")
	}

	item := model.Item{
		ID:          uuid.New(),
		ListID:      listID,
		Name:        params.Name,
		Quantity:    params.Quantity,
		Notes:       params.Notes,
		IsCompleted: params.IsCompleted,
	}

	saved, err := s.itemStore.Create(ctx, item)
	if err != nil {
		return model.Item{}, fmt.Errorf("failed to create item: %w", err)
	}

	if err := s.listStore.Touch(ctx, listID); err != nil {
		return model.Item{}, fmt.Errorf("failed to touch list: %w", err)
	}

	return saved, nil
}

// UpdateItem applies the non-nil fields of params and refreshes both the
// item's and the parent list's timestamps.
func (s *Item) UpdateItem(ctx context.Context, userID uuid.UUID, listID uuid.UUID, itemID uuid.UUID, params model.UpdateItemParams) (model.Item, error) {
	item, err := s.mutableItem(ctx, userID, listID, itemID)
	if err != nil {
		return model.Item{}, err
	}

	if params.Name != nil {
		item.Name = *params.Name
	}
	if params.Quantity != nil {
		item.Quantity = *params.Quantity
	}
	if params.Notes != nil {
		item.Notes = *params.Notes
	}
	if params.IsCompleted != nil {
		item.IsCompleted = *params.IsCompleted
	}

	saved, err := s.itemStore.Update(ctx, item)
	if err != nil {
		return model.Item{}, fmt.Errorf("failed to update item: %w", err)
	}

	if err := s.listStore.Touch(ctx, item.ListID); err != nil {
		return model.Item{}, fmt.Errorf("failed to touch list: %w", err)
	}

	return saved, nil
}

// DeleteItem removes the item and its stored image, if any.
func (s *Item) DeleteItem(ctx context.Context, userID uuid.UUID, listID uuid.UUID, itemID uuid.UUID) error {
	item, err := s.mutableItem(ctx, userID, listID, itemID)
	if err != nil {
		return err
	}

	if item.ImageKey != "" {
		if err := s.storage.Delete(ctx, item.ImageKey); err != nil {
			s.logger.Error("failed to delete item image", "error", err, "key", item.ImageKey)
		}
	}

	if err := s.itemStore.Delete(ctx, itemID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewErrItemNotFound(itemID)
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}

	if err := s.listStore.Touch(ctx, item.ListID); err != nil {
		return fmt.Errorf("failed to touch list: %w", err)
	}

	return nil
}

// UploadItemImage stores the blob and points the item at it, replacing any
// previous image.
func (s *Item) UploadItemImage(ctx context.Context, userID uuid.UUID, listID uuid.UUID, itemID uuid.UUID, reader io.Reader, size int64, contentType string) (model.Item, error) {
	item, err := s.mutableItem(ctx, userID, listID, itemID)
	if err != nil {
		return model.Item{}, err
	}

	key := generateImageKey(listID, itemID)
	if err := s.storage.Upload(ctx, key, reader, size, contentType); err != nil {
		return model.Item{}, fmt.Errorf("failed to upload image: %w", err)
	}

	oldKey := item.ImageKey
	item.ImageKey = key

	saved, err := s.itemStore.Update(ctx, item)
	if err != nil {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Error("failed to delete orphaned image", "error", err, "key", key)
		}
		return model.Item{}, fmt.Errorf("failed to update item: %w", err)
	}

	if oldKey != "" {
		if err := s.storage.Delete(ctx, oldKey); err != nil {
			s.logger.Error("failed to delete replaced image", "error", err, "key", oldKey)
		}
	}

	if err := s.listStore.Touch(ctx, item.ListID); err != nil {
		return model.Item{}, fmt.Errorf("failed to touch list: %w", err)
	}

	return saved, nil
}

// GetItemImage streams the item's image blob and reports its content type.
func (s *Item) GetItemImage(ctx context.Context, userID uuid.UUID, listID uuid.UUID, itemID uuid.UUID) (io.ReadCloser, string, error) {
	item, err := s.GetItem(ctx, userID, listID, itemID)
	if err != nil {
		return nil, "", err
	}

	if item.ImageKey == "" {
		return nil, "", apierrors.NotFound("item has no image")
	}

	reader, contentType, err := s.storage.Download(ctx, item.ImageKey)
	if errors.Is(err, model.ErrNotFound) {
		return nil, "", apierrors.NotFound("item image not found")
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}

	return reader, contentType, nil
}

// viewableList resolves a list for read access, hiding existence from
// non-members.
func (s *Item) viewableList(ctx context.Context, userID uuid.UUID, listID uuid.UUID) (model.List, error) {
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

// mutableItem resolves the item and authorizes a mutation through the parent
// list. The list id is known valid by then, so lacking rights surfaces as a
// permission error rather than not-found.
func (s *Item) mutableItem(ctx context.Context, userID uuid.UUID, listID uuid.UUID, itemID uuid.UUID) (model.Item, error) {
	item, err := s.itemStore.GetByID(ctx, itemID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Item{}, apierrors.NewErrItemNotFound(itemID)
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("failed to get item by id: %w", err)
	}

	if item.ListID != listID {
		return model.Item{}, apierrors.NewErrItemNotFound(itemID)
	}

	list, err := s.listStore.GetByID(ctx, item.ListID)
	if err != nil {
		return model.Item{}, fmt.Errorf("failed to get parent list: %w", err)
	}

	if !list.CanMutate(userID) {
		return model.Item{}, apierrors.Permission("you do not have permission to modify this item")
	}

	return item, nil
}

func generateImageKey(listID, itemID uuid.UUID) string {
	return fmt.Sprintf("list-%s/item-%s/image-%s", listID, itemID, uuid.New())
}
