package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-api/internal/models"
	"gorm.io/gorm"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(setupSQLiteDB(t))
	ctx := context.Background()

	user := &models.User{Email: "a@x.com", PasswordHash: "hash", Name: "Alice"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	byEmail, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.Name)

	// Emails are matched exactly as stored
	_, err = repo.FindByEmail(ctx, "A@X.COM")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(setupSQLiteDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Email: "a@x.com", PasswordHash: "hash"}))

	err := repo.Create(ctx, &models.User{Email: "a@x.com", PasswordHash: "other"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}
