package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/shoplist-server/internal/model"
)

// MockMinioAPI mocks the minioAPI interface
type MockMinioAPI struct {
	mock.Mock
}

func (m *MockMinioAPI) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *MockMinioAPI) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	args := m.Called(ctx, bucketName, opts)
	return args.Error(0)
}

func (m *MockMinioAPI) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *MockMinioAPI) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockMinioAPI) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Error(0)
}

func (m *MockMinioAPI) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

func newTestClient(t *testing.T, api *MockMinioAPI) *Client {
	t.Helper()
	api.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil).Once()

	client, err := NewClientWithAPI(context.Background(), api, "test-bucket")
	require.NoError(t, err)
	return client
}

func TestNewClientWithAPI_CreatesMissingBucket(t *testing.T) {
	api := &MockMinioAPI{}
	api.On("BucketExists", mock.Anything, "new-bucket").Return(false, nil)
	api.On("MakeBucket", mock.Anything, "new-bucket", mock.Anything).Return(nil)

	_, err := NewClientWithAPI(context.Background(), api, "new-bucket")

	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestClient_Upload(t *testing.T) {
	api := &MockMinioAPI{}
	client := newTestClient(t, api)

	reader := bytes.NewReader([]byte("image bytes"))
	api.On("PutObject", mock.Anything, "test-bucket", "some/key", reader, int64(11),
		mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
			return opts.ContentType == "image/png"
		})).Return(minio.UploadInfo{}, nil)

	err := client.Upload(context.Background(), "some/key", reader, 11, "image/png")

	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestClient_Download(t *testing.T) {
	t.Run("returns body and content type", func(t *testing.T) {
		api := &MockMinioAPI{}
		client := newTestClient(t, api)

		api.On("StatObject", mock.Anything, "test-bucket", "some/key", mock.Anything).
			Return(minio.ObjectInfo{ContentType: "image/jpeg"}, nil)
		api.On("GetObject", mock.Anything, "test-bucket", "some/key", mock.Anything).
			Return(io.NopCloser(bytes.NewReader([]byte("jpeg"))), nil)

		reader, contentType, err := client.Download(context.Background(), "some/key")

		require.NoError(t, err)
		defer reader.Close()
		assert.Equal(t, "image/jpeg", contentType)
		data, _ := io.ReadAll(reader)
		assert.Equal(t, []byte("jpeg"), data)
	})

	t.Run("missing key maps to not found", func(t *testing.T) {
		api := &MockMinioAPI{}
		client := newTestClient(t, api)

		api.On("StatObject", mock.Anything, "test-bucket", "gone", mock.Anything).
			Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})

		_, _, err := client.Download(context.Background(), "gone")

		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestClient_Delete(t *testing.T) {
	api := &MockMinioAPI{}
	client := newTestClient(t, api)

	api.On("RemoveObject", mock.Anything, "test-bucket", "some/key", mock.Anything).Return(nil)

	err := client.Delete(context.Background(), "some/key")

	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestClient_Exists(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		api := &MockMinioAPI{}
		client := newTestClient(t, api)

		api.On("StatObject", mock.Anything, "test-bucket", "some/key", mock.Anything).
			Return(minio.ObjectInfo{}, nil)

		exists, err := client.Exists(context.Background(), "some/key")

		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("absent", func(t *testing.T) {
		api := &MockMinioAPI{}
		client := newTestClient(t, api)

		api.On("StatObject", mock.Anything, "test-bucket", "gone", mock.Anything).
			Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})

		exists, err := client.Exists(context.Background(), "gone")

		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("transport error surfaces", func(t *testing.T) {
		api := &MockMinioAPI{}
		client := newTestClient(t, api)

		api.On("StatObject", mock.Anything, "test-bucket", "some/key", mock.Anything).
			Return(minio.ObjectInfo{}, errors.New("connection refused"))

		_, err := client.Exists(context.Background(), "some/key")

		assert.Error(t, err)
	})
}
