package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"libms/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	return db
}

func TestRegisterHashesPassword(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepo(db)
	svc := NewRegisterService(users, bcrypt.MinCost)

	user, err := svc.Register(context.Background(), "alice", "Secret1!")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotZero(t, user.ID)

	stored, err := users.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret1!", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("Secret1!")))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegisterService(repository.NewUserRepo(db), bcrypt.MinCost)

	_, err := svc.Register(context.Background(), "alice", "Secret1!")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice", "Other2@!")
	assert.ErrorIs(t, err, ErrConflict)
}
