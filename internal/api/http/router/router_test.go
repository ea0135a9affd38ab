package router_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	httpctx "github.com/dtroode/shoplist-server/internal/api/http/context"
	"github.com/dtroode/shoplist-server/internal/api/http/router"
	"github.com/dtroode/shoplist-server/internal/model"
	"github.com/dtroode/shoplist-server/internal/service"
	"github.com/dtroode/shoplist-server/internal/testutil"
)

// MockAuthService mocks the AuthService and TokenService interfaces
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, email, password string) (model.User, error) {
	args := m.Called(ctx, username, email, password)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, usernameOrEmail, password string) (service.TokenPair, error) {
	args := m.Called(ctx, usernameOrEmail, password)
	return args.Get(0).(service.TokenPair), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (service.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(service.TokenPair), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockListService mocks the ListService interface
type MockListService struct {
	mock.Mock
}

func (m *MockListService) ListVisible(ctx context.Context, userID uuid.UUID) ([]model.List, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.List), args.Error(1)
}

func (m *MockListService) GetListDetail(ctx context.Context, userID uuid.UUID, listID uuid.UUID) (service.ListDetail, error) {
	args := m.Called(ctx, userID, listID)
	return args.Get(0).(service.ListDetail), args.Error(1)
}

func (m *MockListService) Create(ctx context.Context, userID uuid.UUID, name string) (model.List, error) {
	args := m.Called(ctx, userID, name)
	return args.Get(0).(model.List), args.Error(1)
}

func (m *MockListService) Update(ctx context.Context, userID uuid.UUID, listID uuid.UUID, params model.UpdateListParams) (model.List, error) {
	args := m.Called(ctx, userID, listID, params)
	return args.Get(0).(model.List), args.Error(1)
}

func (m *MockListService) Delete(ctx context.Context, userID uuid.UUID, listID uuid.UUID) error {
	args := m.Called(ctx, userID, listID)
	return args.Error(0)
}

func (m *MockListService) Share(ctx context.Context, userID uuid.UUID, listID uuid.UUID, usernameOrEmail string) (string, error) {
	args := m.Called(ctx, userID, listID, usernameOrEmail)
	return args.String(0), args.Error(1)
}

func (m *MockListService) Unshare(ctx context.Context, userID uuid.UUID, listID uuid.UUID, usernameOrEmail string) (string, error) {
	args := m.Called(ctx, userID, listID, usernameOrEmail)
	return args.String(0), args.Error(1)
}

func (m *MockListService) Leave(ctx context.Context, userID uuid.UUID, listID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID, listID)
	return args.String(0), args.Error(1)
}

// MockItemService mocks the ItemService interface
type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) ListItems(ctx context.Context, userID uuid.UUID, listID uuid.UUID) ([]model.Item, error) {
	args := m.Called(ctx, userID, listID)
	return args.Get(0).([]model.Item), args.Error(1)
}

func (m *MockItemService) GetItem(ctx context.Context, userID uuid.UUID, listID uuid.UUID, itemID uuid.UUID) (model.Item, error) {
	args := m.Called(ctx, userID, listID, itemID)
	return args.Get(0).(model.Item), args.Error(1)
}

func (m *MockItemService) CreateItem(ctx context.Context, userID uuid.UUID, listID uuid.UUID, params model.CreateItemParams) (model.Item, error) {
	args := m.Called(ctx, userID, listID, params)
	return args.Get(0).(model.Item), args.Error(1)
}

func (m *MockItemService) UpdateItem(ctx context.Context, userID uuid.UUID, listID uuid.UUID, itemID uuid.UUID, params model.UpdateItemParams) (model.Item, error) {
	args := m.Called(ctx, userID, listID, itemID, params)
	return args.Get(0).(model.Item), args.Error(1)
}

func (m *MockItemService) DeleteItem(ctx context.Context, userID uuid.UUID, listID uuid.UUID, itemID uuid.UUID) error {
	args := m.Called(ctx, userID, listID, itemID)
	return args.Error(0)
}

func (m *MockItemService) UploadItemImage(ctx context.Context, userID uuid.UUID, listID uuid.UUID, itemID uuid.UUID, reader io.Reader, size int64, contentType string) (model.Item, error) {
	args := m.Called(ctx, userID, listID, itemID, reader, size, contentType)
	return args.Get(0).(model.Item), args.Error(1)
}

func (m *MockItemService) GetItemImage(ctx context.Context, userID uuid.UUID, listID uuid.UUID, itemID uuid.UUID) (io.ReadCloser, string, error) {
	args := m.Called(ctx, userID, listID, itemID)
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}

func newTestRouter(authSvc *MockAuthService, listSvc *MockListService, itemSvc *MockItemService) http.Handler {
	r := router.New(authSvc, listSvc, itemSvc, authSvc, httpctx.NewManager(), testutil.MakeNoopLogger())
	return r.Register()
}

func TestRouter_AuthEndpointsAreOpen(t *testing.T) {
	authSvc := &MockAuthService{}
	authSvc.On("Register", mock.Anything, "alice", "alice@example.com", "s3cret").
		Return(model.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}, nil)

	mux := newTestRouter(authSvc, &MockListService{}, &MockItemService{})

	body := bytes.NewBufferString(`{"username":"alice","email":"alice@example.com","password":"s3cret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	authSvc.AssertExpectations(t)
}

func TestRouter_ListEndpointsRequireToken(t *testing.T) {
	mux := newTestRouter(&MockAuthService{}, &MockListService{}, &MockItemService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lists/", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_AuthenticatedListRequest(t *testing.T) {
	userID := uuid.New()

	authSvc := &MockAuthService{}
	authSvc.On("GetUserID", mock.Anything, "good-token").Return(userID, nil)

	listSvc := &MockListService{}
	listSvc.On("ListVisible", mock.Anything, userID).Return([]model.List{
		{ID: uuid.New(), Name: "groceries", OwnerID: userID},
	}, nil)

	mux := newTestRouter(authSvc, listSvc, &MockItemService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lists/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	listSvc.AssertExpectations(t)
}

func TestRouter_NestedItemRouteResolves(t *testing.T) {
	userID := uuid.New()
	listID := uuid.New()
	itemID := uuid.New()

	authSvc := &MockAuthService{}
	authSvc.On("GetUserID", mock.Anything, "good-token").Return(userID, nil)

	itemSvc := &MockItemService{}
	itemSvc.On("GetItem", mock.Anything, userID, listID, itemID).
		Return(model.Item{ID: itemID, ListID: listID, Name: "milk"}, nil)

	mux := newTestRouter(authSvc, &MockListService{}, itemSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lists/"+listID.String()+"/items/"+itemID.String()+"/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	itemSvc.AssertExpectations(t)
}
