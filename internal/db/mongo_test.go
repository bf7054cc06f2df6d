package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aph138/phoneuser/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestMongo connects to the server in PHONEUSER_TEST_MONGO_URI and uses a throwaway database.
func newTestMongo(t *testing.T) *MyMongo {
	t.Helper()
	uri := os.Getenv("PHONEUSER_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("PHONEUSER_TEST_MONGO_URI is not set")
	}
	name := fmt.Sprintf("phoneuser_test_%d", time.Now().UnixNano())
	m, err := NewMongo(uri, name, 5*time.Second, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx := context.Background()
		_ = m.db.Drop(ctx)
		_ = m.Close(ctx)
	})
	return m
}

func TestMongoInsertUserDuplicate(t *testing.T) {
	m := newTestMongo(t)
	ctx := context.Background()

	first, err := m.InsertUser(ctx, entity.User{Phone: "+11234567890", Profile: map[string]any{"name": "alice"}})
	require.NoError(t, err)

	_, err = m.InsertUser(ctx, entity.User{Phone: "+11234567890"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateKey))

	found, err := m.FindUserByPhone(ctx, "+11234567890")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	assert.True(t, first.RegisteredAt.Equal(found.RegisteredAt))
	assert.Equal(t, "alice", found.Profile["name"])
}

func TestMongoInsertUserValidation(t *testing.T) {
	m := newTestMongo(t)
	_, err := m.InsertUser(context.Background(), entity.User{Phone: "++1234567890"})
	assert.True(t, entity.IsValidationError(err))
}

func TestMongoSaveUserAndSearch(t *testing.T) {
	m := newTestMongo(t)
	ctx := context.Background()

	id, err := m.SaveUser(ctx, "09012345678")
	require.NoError(t, err)
	again, err := m.SaveUser(ctx, "09012345678")
	require.NoError(t, err)
	assert.Equal(t, id, again)

	list, err := m.SearchUser(ctx, SearchUserByPhone("09012345678"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID.Hex())
	assert.NotNil(t, list[0].LastLogin)

	_, err = m.FindUserByPhone(ctx, "09000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}
