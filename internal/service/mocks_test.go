package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/shoplist-server/internal/model"
)

// MockListStore mocks the ListStore interface
type MockListStore struct {
	mock.Mock
}

func (m *MockListStore) Create(ctx context.Context, list model.List) (model.List, error) {
	args := m.Called(ctx, list)
	return args.Get(0).(model.List), args.Error(1)
}

func (m *MockListStore) GetByID(ctx context.Context, id uuid.UUID) (model.List, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.List), args.Error(1)
}

func (m *MockListStore) GetVisibleByUser(ctx context.Context, userID uuid.UUID) ([]model.List, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.List), args.Error(1)
}

func (m *MockListStore) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *MockListStore) ReplaceShared(ctx context.Context, listID uuid.UUID, userIDs []uuid.UUID) error {
	args := m.Called(ctx, listID, userIDs)
	return args.Error(0)
}

func (m *MockListStore) AddShared(ctx context.Context, listID uuid.UUID, userID uuid.UUID) error {
	args := m.Called(ctx, listID, userID)
	return args.Error(0)
}

func (m *MockListStore) RemoveShared(ctx context.Context, listID uuid.UUID, userID uuid.UUID) error {
	args := m.Called(ctx, listID, userID)
	return args.Error(0)
}

func (m *MockListStore) Touch(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockItemStore mocks the ItemStore interface
type MockItemStore struct {
	mock.Mock
}

func (m *MockItemStore) Create(ctx context.Context, item model.Item) (model.Item, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(model.Item), args.Error(1)
}

func (m *MockItemStore) GetByID(ctx context.Context, id uuid.UUID) (model.Item, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Item), args.Error(1)
}

func (m *MockItemStore) GetByList(ctx context.Context, listID uuid.UUID) ([]model.Item, error) {
	args := m.Called(ctx, listID)
	return args.Get(0).([]model.Item), args.Error(1)
}

func (m *MockItemStore) Update(ctx context.Context, item model.Item) (model.Item, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(model.Item), args.Error(1)
}

func (m *MockItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemStore) GetImageKeysByList(ctx context.Context, listID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, listID)
	return args.Get(0).([]string), args.Error(1)
}

// MockUserStore mocks the UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (model.User, error) {
	args := m.Called(ctx, usernameOrEmail)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetManyByUsernames(ctx context.Context, usernames []string) ([]model.User, error) {
	args := m.Called(ctx, usernames)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserStore) GetManyByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]model.User), args.Error(1)
}

// MockStorage mocks the Storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.Error(0)
}

func (m *MockStorage) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockRefreshTokenStore mocks the RefreshTokenStore interface
type MockRefreshTokenStore struct {
	mock.Mock
}

func (m *MockRefreshTokenStore) Create(ctx context.Context, token model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenStore) GetByJTI(ctx context.Context, jti string) (model.RefreshToken, error) {
	args := m.Called(ctx, jti)
	return args.Get(0).(model.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenStore) RevokeByJTI(ctx context.Context, jti string) error {
	args := m.Called(ctx, jti)
	return args.Error(0)
}

func (m *MockRefreshTokenStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockTokenManager mocks the TokenManager interface
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GenerateAccessToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) GenerateRefreshToken(userID uuid.UUID) (string, string, error) {
	args := m.Called(userID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenManager) ParseAccessToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenManager) ParseRefreshToken(token string) (uuid.UUID, string, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}
