package context

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestManager_RoundTrip(t *testing.T) {
	manager := NewManager()
	userID := uuid.New()

	ctx := manager.SetUserIDToContext(context.Background(), userID)

	got, ok := manager.GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, userID, got)
}

func TestManager_MissingUserID(t *testing.T) {
	manager := NewManager()

	got, ok := manager.GetUserIDFromContext(context.Background())
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, got)
}

func TestManager_NilUserID(t *testing.T) {
	manager := NewManager()

	ctx := manager.SetUserIDToContext(context.Background(), uuid.Nil)

	_, ok := manager.GetUserIDFromContext(ctx)
	assert.False(t, ok)
}
