package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/struffoli/facecard/database/dbtest"
	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
)

func createUser(t *testing.T, repo UserRepository, username string) *models.User {
	t.Helper()
	u := &models.User{
		FullName:     "Test " + username,
		Username:     username,
		Email:        username + "@Example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	repo := NewSQLiteUserRepo(dbtest.New(t))
	ctx := context.Background()

	u := createUser(t, repo, "GlowGirl")
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "glowgirl", u.UsernameLower)
	assert.Equal(t, "glowgirl@example.com", u.Email)
	assert.Equal(t, models.DefaultPicturePath, u.PicturePath)

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Username, got.Username)
	assert.Equal(t, models.IDList{}, got.Friends)
	assert.False(t, got.IsPublic)

	byLogin, err := repo.GetByLogin(ctx, "GLOWGIRL")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byLogin.ID)

	byEmail, err := repo.GetByLogin(ctx, "GlowGirl@example.COM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestUserRepo_UniqueViolations(t *testing.T) {
	repo := NewSQLiteUserRepo(dbtest.New(t))
	ctx := context.Background()
	createUser(t, repo, "dewy")

	err := repo.Create(ctx, &models.User{FullName: "x", Username: "DEWY", Email: "other@example.com", PasswordHash: "h"})
	require.ErrorIs(t, err, pkg.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "username already taken")

	err = repo.Create(ctx, &models.User{FullName: "x", Username: "other", Email: "DEWY@example.com", PasswordHash: "h"})
	require.ErrorIs(t, err, pkg.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "email already in use")

	taken, err := repo.UsernameTaken(ctx, "Dewy", "")
	require.NoError(t, err)
	assert.True(t, taken)

	u, err := repo.GetByLogin(ctx, "dewy")
	require.NoError(t, err)
	taken, err = repo.EmailTaken(ctx, "dewy@example.com", u.ID)
	require.NoError(t, err)
	assert.False(t, taken, "a user's own email is not taken for them")
}

func TestUserRepo_FriendsAndGetByIDs(t *testing.T) {
	repo := NewSQLiteUserRepo(dbtest.New(t))
	ctx := context.Background()

	a := createUser(t, repo, "aaaa")
	b := createUser(t, repo, "bbbb")
	c := createUser(t, repo, "cccc")

	require.NoError(t, repo.UpdateFriends(ctx, a.ID, models.IDList{c.ID, "ghost", b.ID}))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IDList{c.ID, "ghost", b.ID}, got.Friends)

	friends, err := repo.GetByIDs(ctx, got.Friends)
	require.NoError(t, err)
	require.Len(t, friends, 2)
	assert.Equal(t, c.ID, friends[0].ID)
	assert.Equal(t, b.ID, friends[1].ID)

	assert.ErrorIs(t, repo.UpdateFriends(ctx, "missing", nil), pkg.ErrNotFound)
}

func TestUserRepo_Update(t *testing.T) {
	repo := NewSQLiteUserRepo(dbtest.New(t))
	ctx := context.Background()

	u := createUser(t, repo, "before")
	other := createUser(t, repo, "taken")

	u.Username = "After"
	u.IsPublic = true
	u.ActiveCardID = "card-1"
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.GetByLogin(ctx, "after")
	require.NoError(t, err)
	assert.True(t, got.IsPublic)
	assert.Equal(t, "card-1", got.ActiveCardID)

	u.Email = other.Email
	assert.ErrorIs(t, repo.Update(ctx, u), pkg.ErrAlreadyExists)

	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "new-hash"))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
}
