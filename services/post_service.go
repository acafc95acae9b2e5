// Package services: PostService, posts and the friends feed.
//
// Author name and picture are copied onto the post when it is created, so
// a later profile change does not rewrite old posts. Likes are a per-user
// boolean map; liking twice removes the like.
package services

import (
	"context"
	"fmt"

	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
	"github.com/struffoli/facecard/pkg/metrics"
	"github.com/struffoli/facecard/pkg/validation"
	"github.com/struffoli/facecard/repository"
)

// PostService takes the requester as a full *models.User where it needs
// the friend list or author fields, and as an id elsewhere.
type PostService interface {
	CreatePost(ctx context.Context, requester *models.User, req *models.CreatePostRequest) ([]models.Post, error)

	// GetFeed returns posts by the requester and their friends, newest first.
	GetFeed(ctx context.Context, requester *models.User) ([]models.Post, error)

	// GetUserPosts returns one user's posts when the requester may see them:
	// their own, a public profile's, or a friend's. Otherwise pkg.ErrForbidden.
	GetUserPosts(ctx context.Context, requester *models.User, userID string) ([]models.Post, error)

	// LikePost flips the requester's like and returns the updated post.
	LikePost(ctx context.Context, requesterID, id string) (*models.Post, error)

	// DeletePost removes the post and returns it. Author only.
	DeletePost(ctx context.Context, requesterID, id string) (*models.Post, error)
}

type postService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) PostService {
	return &postService{postRepo: postRepo, userRepo: userRepo}
}

// CreatePost stores the post with the requester's current username and
// picture and returns every post, newest first.
func (s *postService) CreatePost(ctx context.Context, requester *models.User, req *models.CreatePostRequest) ([]models.Post, error) {
	if err := checkBodyUser(requester.ID, req.UserID); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:          requester.ID,
		UserUsername:    requester.Username,
		UserPicturePath: requester.PicturePath,
		LinkedObjectID:  req.LinkedObjectID,
		LinksToCard:     req.LinksToCard,
		Description:     req.Description,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	metrics.DocumentsCreated.WithLabelValues("posts").Inc()

	return s.postRepo.ListAll(ctx)
}

// GetFeed returns the posts of the requester and their friends.
func (s *postService) GetFeed(ctx context.Context, requester *models.User) ([]models.Post, error) {
	ids := make([]string, 0, len(requester.Friends)+1)
	ids = append(ids, requester.ID)
	ids = append(ids, requester.Friends...)

	return s.postRepo.ListByUserIDs(ctx, ids)
}

func (s *postService) GetUserPosts(ctx context.Context, requester *models.User, userID string) ([]models.Post, error) {
	owner, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !requester.CanViewPostsOf(owner) {
		return nil, fmt.Errorf("%w: profile is private", pkg.ErrForbidden)
	}

	return s.postRepo.ListByUserIDs(ctx, []string{owner.ID})
}

func (s *postService) LikePost(ctx context.Context, requesterID, id string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	liked := post.Likes.Toggle(requesterID)
	if err := s.postRepo.UpdateLikes(ctx, post.ID, post.Likes); err != nil {
		return nil, err
	}
	metrics.RecordToggle("post_like", liked)

	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, requesterID, id string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(requesterID, post.UserID, "post"); err != nil {
		return nil, err
	}

	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		return nil, err
	}
	return post, nil
}
