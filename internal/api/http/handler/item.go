package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/shoplist-server/internal/api/http/response"
	"github.com/dtroode/shoplist-server/internal/logger"
	"github.com/dtroode/shoplist-server/internal/model"
)

// maxImageSize caps item image uploads at 10 MiB.
const maxImageSize = 10 << 20

// ItemService defines item CRUD and image operations within a list.
type ItemService interface {
	ListItems(ctx context.Context, userID uuid.UUID, listID uuid.UUID) ([]model.Item, error)
	GetItem(ctx context.Context, userID uuid.UUID, listID uuid.UUID, itemID uuid.UUID) (model.Item, error)
	CreateItem(ctx context.Context, userID uuid.UUID, listID uuid.UUID, params model.CreateItemParams) (model.Item, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, listID uuid.UUID, itemID uuid.UUID, params model.UpdateItemParams) (model.Item, error)
	DeleteItem(ctx context.Context, userID uuid.UUID, listID uuid.UUID, itemID uuid.UUID) error
	UploadItemImage(ctx context.Context, userID uuid.UUID, listID uuid.UUID, itemID uuid.UUID, reader io.Reader, size int64, contentType string) (model.Item, error)
	GetItemImage(ctx context.Context, userID uuid.UUID, listID uuid.UUID, itemID uuid.UUID) (io.ReadCloser, string, error)
}

// Item handles the list item endpoints.
type Item struct {
	service        ItemService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewItem creates a new Item handler.
func NewItem(service ItemService, contextManager model.ContextManager, logger *logger.Logger) *Item {
	return &Item{service: service, contextManager: contextManager, logger: logger}
}

func (h *Item) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing authorization token", h.logger)
		return uuid.Nil, false
	}
	return userID, true
}

func (h *Item) itemPath(w http.ResponseWriter, r *http.Request) (userID, listID, itemID uuid.UUID, ok bool) {
	userID, ok = h.userID(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}

	listID, err := parseUUIDParam(r, "listID")
	if err != nil {
		response.HandleError(w, err, h.logger)
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}

	itemID, err = parseUUIDParam(r, "itemID")
	if err != nil {
		response.HandleError(w, err, h.logger)
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}

	return userID, listID, itemID, true
}

// ListItems returns the items of a list in insertion order.
func (h *Item) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	listID, err := parseUUIDParam(r, "listID")
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	items, err := h.service.ListItems(r.Context(), userID, listID)
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	response.Success(w, toItemResponses(items), h.logger)
}

type createItemRequest struct {
	Name        string `json:"name"`
	Quantity    string `json:"quantity"`
	Notes       string `json:"notes"`
	IsCompleted bool   `json:"is_completed"`
}

// CreateItem adds an item to the list. Quantity defaults to "1".
func (h *Item) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	listID, err := parseUUIDParam(r, "listID")
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	if req.Quantity == "" {
		req.Quantity = "1"
	}

	item, err := h.service.CreateItem(r.Context(), userID, listID, model.CreateItemParams{
		Name:        req.Name,
		Quantity:    req.Quantity,
		Notes:       req.Notes,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	h.logger.Info("item created", "item_id", item.ID, "list_id", listID)
	response.Created(w, toItemResponse(item), h.logger)
}

// GetItem returns a single item.
func (h *Item) GetItem(w http.ResponseWriter, r *http.Request) {
	userID, listID, itemID, ok := h.itemPath(w, r)
	if !ok {
		return
	}

	item, err := h.service.GetItem(r.Context(), userID, listID, itemID)
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	response.Success(w, toItemResponse(item), h.logger)
}

type updateItemRequest struct {
	Name        *string `json:"name"`
	Quantity    *string `json:"quantity"`
	Notes       *string `json:"notes"`
	IsCompleted *bool   `json:"is_completed"`
}

// UpdateItem applies the fields present in the request body.
func (h *Item) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, listID, itemID, ok := h.itemPath(w, r)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	item, err := h.service.UpdateItem(r.Context(), userID, listID, itemID, model.UpdateItemParams{
		Name:        req.Name,
		Quantity:    req.Quantity,
		Notes:       req.Notes,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	response.Success(w, toItemResponse(item), h.logger)
}

// DeleteItem removes the item.
func (h *Item) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, listID, itemID, ok := h.itemPath(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteItem(r.Context(), userID, listID, itemID); err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	h.logger.Info("item deleted", "item_id", itemID, "list_id", listID)
	response.NoContent(w)
}

// UploadItemImage stores the request body as the item's image, replacing any
// previous one.
func (h *Item) UploadItemImage(w http.ResponseWriter, r *http.Request) {
	userID, listID, itemID, ok := h.itemPath(w, r)
	if !ok {
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	body := http.MaxBytesReader(w, r.Body, maxImageSize)
	defer body.Close()

	item, err := h.service.UploadItemImage(r.Context(), userID, listID, itemID, body, r.ContentLength, contentType)
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	h.logger.Info("item image uploaded", "item_id", itemID, "list_id", listID)
	response.Success(w, toItemResponse(item), h.logger)
}

// GetItemImage streams the item's image back to the client.
func (h *Item) GetItemImage(w http.ResponseWriter, r *http.Request) {
	userID, listID, itemID, ok := h.itemPath(w, r)
	if !ok {
		return
	}

	reader, contentType, err := h.service.GetItemImage(r.Context(), userID, listID, itemID)
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Error("failed to stream item image", "error", err, "item_id", itemID)
	}
}
