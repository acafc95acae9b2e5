package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
)

func TestUserService_ToggleFriend(t *testing.T) {
	e := newTestEnv(t)
	svc := NewUserService(e.db, e.users)
	ctx := context.Background()

	alice := e.user(t, "alice")
	bob := e.user(t, "bobby")

	friends, err := svc.ToggleFriend(ctx, alice.ID, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, models.FriendSummary{
		ID:          bob.ID,
		FullName:    bob.FullName,
		Username:    bob.Username,
		PicturePath: models.DefaultPicturePath,
	}, friends[0])

	assert.True(t, e.reload(t, alice).IsFriend(bob.ID))
	assert.True(t, e.reload(t, bob).IsFriend(alice.ID))

	friends, err = svc.ToggleFriend(ctx, alice.ID, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)
	assert.Empty(t, e.reload(t, alice).Friends)
	assert.Empty(t, e.reload(t, bob).Friends)
}

func TestUserService_ToggleFriendErrors(t *testing.T) {
	e := newTestEnv(t)
	svc := NewUserService(e.db, e.users)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bobby")

	_, err := svc.ToggleFriend(ctx, bob.ID, alice.ID, bob.ID)
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	_, err = svc.ToggleFriend(ctx, alice.ID, alice.ID, alice.ID)
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	_, err = svc.ToggleFriend(ctx, alice.ID, alice.ID, "missing")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	assert.Empty(t, e.reload(t, alice).Friends)
}

func TestUserService_GetFriendsSkipsDangling(t *testing.T) {
	e := newTestEnv(t)
	svc := NewUserService(e.db, e.users)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bobby")
	carol := e.user(t, "carol")

	require.NoError(t, e.users.UpdateFriends(ctx, alice.ID, models.IDList{carol.ID, "gone", bob.ID}))

	friends, err := svc.GetFriends(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, friends, 2)
	assert.Equal(t, carol.ID, friends[0].ID)
	assert.Equal(t, bob.ID, friends[1].ID)

	_, err = svc.GetFriends(ctx, "missing")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	e := newTestEnv(t)
	svc := NewUserService(e.db, e.users)
	ctx := context.Background()
	alice := e.user(t, "alice")
	e.user(t, "taken")

	public := true
	profile, err := svc.UpdateProfile(ctx, alice.ID, alice.ID, &models.UpdateProfileRequest{
		FullName: "Alice Liddell",
		Email:    "ALICE@wonder.land",
		Password: "newpass",
		IsPublic: &public,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", profile.FullName)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "alice@wonder.land", profile.Email)
	assert.True(t, profile.IsPublic)

	stored := e.reload(t, alice)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpass")))

	// Same username in a different case is fine for its owner.
	profile, err = svc.UpdateProfile(ctx, alice.ID, alice.ID, &models.UpdateProfileRequest{Username: "ALICE"})
	require.NoError(t, err)
	assert.Equal(t, "ALICE", profile.Username)
	assert.True(t, profile.IsPublic)

	_, err = svc.UpdateProfile(ctx, alice.ID, alice.ID, &models.UpdateProfileRequest{Username: "TAKEN"})
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)

	_, err = svc.UpdateProfile(ctx, alice.ID, alice.ID, &models.UpdateProfileRequest{Email: "taken@example.com"})
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)

	_, err = svc.UpdateProfile(ctx, "someone-else", alice.ID, &models.UpdateProfileRequest{FullName: "x"})
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	_, err = svc.UpdateProfile(ctx, alice.ID, alice.ID, &models.UpdateProfileRequest{UserID: "someone-else"})
	assert.ErrorIs(t, err, pkg.ErrForbidden)
}
