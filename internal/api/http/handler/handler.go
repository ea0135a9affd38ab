// Package handler implements the HTTP handlers for the shopping list API.
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/shoplist-server/internal/apierrors"
	"github.com/dtroode/shoplist-server/internal/model"
	"github.com/dtroode/shoplist-server/internal/service"
)

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierrors.Validation("invalid request body")
	}
	return nil
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apierrors.Validation(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

type userResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

type itemResponse struct {
	ID          uuid.UUID `json:"id"`
	ListID      uuid.UUID `json:"list_id"`
	Name        string    `json:"name"`
	Quantity    string    `json:"quantity"`
	Notes       string    `json:"notes"`
	IsCompleted bool      `json:"is_completed"`
	HasImage    bool      `json:"has_image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toItemResponse(i model.Item) itemResponse {
	return itemResponse{
		ID:          i.ID,
		ListID:      i.ListID,
		Name:        i.Name,
		Quantity:    i.Quantity,
		Notes:       i.Notes,
		IsCompleted: i.IsCompleted,
		HasImage:    i.ImageKey != "",
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func toItemResponses(items []model.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, toItemResponse(i))
	}
	return out
}

type listResponse struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	OwnerID    uuid.UUID   `json:"owner_id"`
	SharedWith []uuid.UUID `json:"shared_with"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func toListResponse(l model.List) listResponse {
	shared := make([]uuid.UUID, 0, len(l.SharedWith))
	shared = append(shared, l.SharedWith...)

	return listResponse{
		ID:         l.ID,
		Name:       l.Name,
		OwnerID:    l.OwnerID,
		SharedWith: shared,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

type listDetailResponse struct {
	ID         uuid.UUID      `json:"id"`
	Name       string         `json:"name"`
	Owner      userResponse   `json:"owner"`
	SharedWith []userResponse `json:"shared_with"`
	Items      []itemResponse `json:"items"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func toListDetailResponse(d service.ListDetail) listDetailResponse {
	members := make([]userResponse, 0, len(d.Members))
	for _, m := range d.Members {
		members = append(members, toUserResponse(m))
	}

	return listDetailResponse{
		ID:         d.List.ID,
		Name:       d.List.Name,
		Owner:      toUserResponse(d.Owner),
		SharedWith: members,
		Items:      toItemResponses(d.Items),
		CreatedAt:  d.List.CreatedAt,
		UpdatedAt:  d.List.UpdatedAt,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
