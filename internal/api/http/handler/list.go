package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/shoplist-server/internal/api/http/response"
	"github.com/dtroode/shoplist-server/internal/logger"
	"github.com/dtroode/shoplist-server/internal/model"
	"github.com/dtroode/shoplist-server/internal/service"
)

// ListService defines shopping list CRUD and sharing operations.
type ListService interface {
	ListVisible(ctx context.Context, userID uuid.UUID) ([]model.List, error)
	GetListDetail(ctx context.Context, userID uuid.UUID, listID uuid.UUID) (service.ListDetail, error)
	Create(ctx context.Context, userID uuid.UUID, name string) (model.List, error)
	Update(ctx context.Context, userID uuid.UUID, listID uuid.UUID, params model.UpdateListParams) (model.List, error)
	Delete(ctx context.Context, userID uuid.UUID, listID uuid.UUID) error
	Share(ctx context.Context, userID uuid.UUID, listID uuid.UUID, usernameOrEmail string) (string, error)
	Unshare(ctx context.Context, userID uuid.UUID, listID uuid.UUID, usernameOrEmail string) (string, error)
	Leave(ctx context.Context, userID uuid.UUID, listID uuid.UUID) (string, error)
}

// List handles the shopping list endpoints.
type List struct {
	service        ListService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewList creates a new List handler.
func NewList(service ListService, contextManager model.ContextManager, logger *logger.Logger) *List {
	return &List{service: service, contextManager: contextManager, logger: logger}
}

func (h *List) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing authorization token", h.logger)
		return uuid.Nil, false
	}
	return userID, true
}

// ListLists returns every list the caller owns or has been shared into.
func (h *List) ListLists(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	lists, err := h.service.ListVisible(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	out := make([]listResponse, 0, len(lists))
	for _, l := range lists {
		out = append(out, toListResponse(l))
	}

	response.Success(w, out, h.logger)
}

type createListRequest struct {
	Name                string   `json:"name"`
	SharedWithUsernames []string `json:"shared_with_usernames"`
}

// CreateList creates a list owned by the caller. An initial shared set may be
// provided by username.
func (h *List) CreateList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req createListRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	list, err := h.service.Create(r.Context(), userID, req.Name)
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	if len(req.SharedWithUsernames) > 0 {
		list, err = h.service.Update(r.Context(), userID, list.ID, model.UpdateListParams{
			SharedUsernames: &req.SharedWithUsernames,
		})
		if err != nil {
			response.HandleError(w, err, h.logger)
			return
		}
	}

	h.logger.Info("list created", "list_id", list.ID, "owner_id", userID)
	response.Created(w, toListResponse(list), h.logger)
}

// GetList returns a list with its resolved users and items.
func (h *List) GetList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	listID, err := parseUUIDParam(r, "listID")
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	detail, err := h.service.GetListDetail(r.Context(), userID, listID)
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	response.Success(w, toListDetailResponse(detail), h.logger)
}

type updateListRequest struct {
	Name                *string   `json:"name"`
	SharedWithUsernames *[]string `json:"shared_with_usernames"`
}

// UpdateList renames the list and, when shared_with_usernames is present,
// replaces the whole shared set.
func (h *List) UpdateList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	listID, err := parseUUIDParam(r, "listID")
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	var req updateListRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	list, err := h.service.Update(r.Context(), userID, listID, model.UpdateListParams{
		Name:            req.Name,
		SharedUsernames: req.SharedWithUsernames,
	})
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	response.Success(w, toListResponse(list), h.logger)
}

// DeleteList removes the list with its items and shares.
func (h *List) DeleteList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	listID, err := parseUUIDParam(r, "listID")
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), userID, listID); err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	h.logger.Info("list deleted", "list_id", listID, "user_id", userID)
	response.NoContent(w)
}

type shareRequest struct {
	UsernameOrEmail string `json:"username_or_email"`
}

// ShareList grants another user access to the list.
func (h *List) ShareList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	listID, err := parseUUIDParam(r, "listID")
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	var req shareRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	msg, err := h.service.Share(r.Context(), userID, listID, req.UsernameOrEmail)
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	h.logger.Info("list shared", "list_id", listID, "owner_id", userID)
	response.Success(w, messageResponse{Message: msg}, h.logger)
}

// UnshareList revokes another user's access to the list.
func (h *List) UnshareList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	listID, err := parseUUIDParam(r, "listID")
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	var req shareRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	msg, err := h.service.Unshare(r.Context(), userID, listID, req.UsernameOrEmail)
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	h.logger.Info("list unshared", "list_id", listID, "owner_id", userID)
	response.Success(w, messageResponse{Message: msg}, h.logger)
}

// LeaveList removes the caller from the list's shared set.
func (h *List) LeaveList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	listID, err := parseUUIDParam(r, "listID")
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	msg, err := h.service.Leave(r.Context(), userID, listID)
	if err != nil {
		response.HandleError(w, err, h.logger)
		return
	}

	h.logger.Info("user left list", "list_id", listID, "user_id", userID)
	response.Success(w, messageResponse{Message: msg}, h.logger)
}
