package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expertdesk/internal/database"
)

// The sqlite dev driver reports duplicates differently from postgres; the
// connection is configured to translate both into the same domain error.
func TestRepository_Create_DuplicateEmail(t *testing.T) {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))
	repo := NewRepository(db)

	first := &User{Email: "taken@example.com", PasswordHash: "x", Name: "A", Role: RoleClient}
	require.NoError(t, repo.Create(context.Background(), first))

	dup := &User{Email: "taken@example.com", PasswordHash: "y", Name: "B", Role: RoleExpert}
	err = repo.Create(context.Background(), dup)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRepository_GetByEmail_NotFound(t *testing.T) {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))
	repo := NewRepository(db)

	_, err = repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
