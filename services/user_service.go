// Package services: UserService, accounts and the friend graph.
//
// Friendship is symmetric and has no request/accept step. Toggling adds
// the pair to both users' friend arrays or removes it from both, inside one
// transaction so the two sides never disagree. The friend arrays keep the
// order in which friends were added, and GetFriends returns them in that
// order.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/struffoli/facecard/database"
	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
	"github.com/struffoli/facecard/pkg/logging"
	"github.com/struffoli/facecard/pkg/metrics"
	"github.com/struffoli/facecard/pkg/validation"
	"github.com/struffoli/facecard/repository"
)

// UserService is what the users handlers depend on.
type UserService interface {
	// GetUser returns the full profile. The password hash never leaves
	// the models package (json:"-").
	GetUser(ctx context.Context, id string) (*models.User, error)

	// GetFriends returns the short form of each friend. Ids of deleted
	// accounts are skipped rather than reported.
	GetFriends(ctx context.Context, id string) ([]models.FriendSummary, error)

	// ToggleFriend befriends or unfriends friendID on behalf of id, which
	// must be the requester. Returns id's updated friend list.
	ToggleFriend(ctx context.Context, requesterID, id, friendID string) ([]models.FriendSummary, error)

	// UpdateProfile applies the non-empty fields of req to the requester's
	// own account.
	UpdateProfile(ctx context.Context, requesterID, id string, req *models.UpdateProfileRequest) (*models.Profile, error)
}

type userService struct {
	db       *sql.DB // ToggleFriend writes both users in one transaction
	userRepo repository.UserRepository
}

func NewUserService(db *sql.DB, userRepo repository.UserRepository) UserService {
	return &userService{db: db, userRepo: userRepo}
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) GetFriends(ctx context.Context, id string) ([]models.FriendSummary, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.summaries(ctx, user.Friends)
}

// ToggleFriend adds or removes the friendship on both sides.
func (s *userService) ToggleFriend(ctx context.Context, requesterID, id, friendID string) ([]models.FriendSummary, error) {
	if err := requireOwner(requesterID, id, "account"); err != nil {
		return nil, err
	}
	if id == friendID {
		return nil, fmt.Errorf("%w: cannot friend yourself", pkg.ErrBadRequest)
	}

	var friends models.IDList
	var added bool

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		users := repository.NewSQLiteUserRepo(tx)

		found, err := users.GetByIDs(ctx, []string{id, friendID})
		if err != nil {
			return err
		}
		if len(found) != 2 {
			return fmt.Errorf("%w: user(s) not found", pkg.ErrNotFound)
		}
		user, friend := &found[0], &found[1]

		if user.IsFriend(friendID) {
			user.Friends = user.Friends.Without(friendID)
			friend.Friends = friend.Friends.Without(id)
		} else {
			user.Friends = append(user.Friends, friendID)
			if !friend.IsFriend(id) {
				friend.Friends = append(friend.Friends, id)
			}
			added = true
		}

		if err := users.UpdateFriends(ctx, user.ID, user.Friends); err != nil {
			return err
		}
		if err := users.UpdateFriends(ctx, friend.ID, friend.Friends); err != nil {
			return err
		}

		friends = user.Friends
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordToggle("friend", added)
	logging.Debug().Str("user_id", id).Str("friend_id", friendID).Bool("added", added).Msg("[users] friend toggled")

	return s.summaries(ctx, friends)
}

// UpdateProfile applies the non-empty fields of req. Username and email are
// re-checked for uniqueness against every other account.
func (s *userService) UpdateProfile(ctx context.Context, requesterID, id string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	if err := requireOwner(requesterID, id, "account"); err != nil {
		return nil, err
	}
	if err := checkBodyUser(requesterID, req.UserID); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}

	if req.Username != "" && req.Username != user.Username {
		taken, err := s.userRepo.UsernameTaken(ctx, strings.ToLower(req.Username), id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: username already taken", pkg.ErrAlreadyExists)
		}
		user.Username = req.Username
		user.UsernameLower = strings.ToLower(req.Username)
	}

	if req.Email != "" {
		emailLower := strings.ToLower(strings.TrimSpace(req.Email))
		if emailLower != user.Email {
			taken, err := s.userRepo.EmailTaken(ctx, emailLower, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, fmt.Errorf("%w: email already in use", pkg.ErrAlreadyExists)
			}
			user.Email = emailLower
		}
	}

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if req.PicturePath != "" {
		user.PicturePath = req.PicturePath
	}
	if req.ActiveCardID != "" {
		user.ActiveCardID = req.ActiveCardID
	}
	if req.IsPublic != nil {
		user.IsPublic = *req.IsPublic
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	profile := user.Profile()
	return &profile, nil
}

func (s *userService) summaries(ctx context.Context, ids models.IDList) ([]models.FriendSummary, error) {
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.FriendSummary, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out, nil
}
