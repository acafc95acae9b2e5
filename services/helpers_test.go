package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/struffoli/facecard/database/dbtest"
	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/repository"
)

type testEnv struct {
	db            *sql.DB
	users         repository.UserRepository
	posts         repository.PostRepository
	products      repository.ProductRepository
	cards         repository.CardRepository
	comments      repository.CommentRepository
	replies       repository.ReplyRepository
	steps         repository.StepRepository
	notifications repository.NotificationRepository
	resets        repository.PasswordResetRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := dbtest.New(t)
	return &testEnv{
		db:            db,
		users:         repository.NewSQLiteUserRepo(db),
		posts:         repository.NewSQLitePostRepo(db),
		products:      repository.NewSQLiteProductRepo(db),
		cards:         repository.NewSQLiteCardRepo(db),
		comments:      repository.NewSQLiteCommentRepo(db),
		replies:       repository.NewSQLiteReplyRepo(db),
		steps:         repository.NewSQLiteStepRepo(db),
		notifications: repository.NewSQLiteNotificationRepo(db),
		resets:        repository.NewSQLiteResetTokenRepo(db),
	}
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{
		FullName:     "Test " + username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "unused",
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

// reload returns the stored copy of u, as the auth middleware would.
func (e *testEnv) reload(t *testing.T, u *models.User) *models.User {
	t.Helper()
	got, err := e.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	return got
}

func (e *testEnv) product(t *testing.T, owner *models.User, name string) *models.Product {
	t.Helper()
	p := &models.Product{
		UserID:      owner.ID,
		ProductType: "Serum",
		ProductName: name,
		Description: "a product",
	}
	require.NoError(t, e.products.Create(context.Background(), p))
	return p
}
