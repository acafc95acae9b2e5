package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
)

func TestPostService_CreateAndFeed(t *testing.T) {
	e := newTestEnv(t)
	svc := NewPostService(e.posts, e.users)
	users := NewUserService(e.db, e.users)
	ctx := context.Background()

	alice := e.user(t, "alice")
	bob := e.user(t, "bobby")
	carol := e.user(t, "carol")

	all, err := svc.CreatePost(ctx, alice, &models.CreatePostRequest{Description: "first"})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "alice", all[0].UserUsername)
	assert.Equal(t, models.DefaultPicturePath, all[0].UserPicturePath)

	_, err = svc.CreatePost(ctx, bob, &models.CreatePostRequest{Description: "bob's"})
	require.NoError(t, err)
	all, err = svc.CreatePost(ctx, carol, &models.CreatePostRequest{Description: "carol's"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "carol's", all[0].Description)

	_, err = users.ToggleFriend(ctx, alice.ID, alice.ID, bob.ID)
	require.NoError(t, err)

	feed, err := svc.GetFeed(ctx, e.reload(t, alice))
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "bob's", feed[0].Description)
	assert.Equal(t, "first", feed[1].Description)
}

func TestPostService_CreateValidation(t *testing.T) {
	e := newTestEnv(t)
	svc := NewPostService(e.posts, e.users)
	alice := e.user(t, "alice")

	_, err := svc.CreatePost(context.Background(), alice, &models.CreatePostRequest{})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	_, err = svc.CreatePost(context.Background(), alice, &models.CreatePostRequest{UserID: "other", Description: "x"})
	assert.ErrorIs(t, err, pkg.ErrForbidden)
}

func TestPostService_GetUserPostsVisibility(t *testing.T) {
	e := newTestEnv(t)
	svc := NewPostService(e.posts, e.users)
	ctx := context.Background()

	owner := e.user(t, "owner")
	stranger := e.user(t, "stranger")
	friend := e.user(t, "friend")
	require.NoError(t, e.users.UpdateFriends(ctx, owner.ID, models.IDList{friend.ID}))

	_, err := svc.CreatePost(ctx, owner, &models.CreatePostRequest{Description: "mine"})
	require.NoError(t, err)

	posts, err := svc.GetUserPosts(ctx, owner, owner.ID)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	_, err = svc.GetUserPosts(ctx, stranger, owner.ID)
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	posts, err = svc.GetUserPosts(ctx, friend, owner.ID)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	owner = e.reload(t, owner)
	owner.IsPublic = true
	require.NoError(t, e.users.Update(ctx, owner))

	posts, err = svc.GetUserPosts(ctx, stranger, owner.ID)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	_, err = svc.GetUserPosts(ctx, stranger, "missing")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestPostService_LikeAndDelete(t *testing.T) {
	e := newTestEnv(t)
	svc := NewPostService(e.posts, e.users)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bobby")

	all, err := svc.CreatePost(ctx, alice, &models.CreatePostRequest{Description: "like me"})
	require.NoError(t, err)
	id := all[0].ID

	post, err := svc.LikePost(ctx, bob.ID, id)
	require.NoError(t, err)
	assert.Equal(t, models.BoolMap{bob.ID: true}, post.Likes)

	post, err = svc.LikePost(ctx, bob.ID, id)
	require.NoError(t, err)
	assert.Empty(t, post.Likes)

	_, err = svc.LikePost(ctx, bob.ID, "missing")
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	_, err = svc.DeletePost(ctx, bob.ID, id)
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	deleted, err := svc.DeletePost(ctx, alice.ID, id)
	require.NoError(t, err)
	assert.Equal(t, "like me", deleted.Description)

	_, err = svc.DeletePost(ctx, alice.ID, id)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}
