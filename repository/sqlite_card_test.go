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

func TestCardRepo(t *testing.T) {
	repo := NewSQLiteCardRepo(dbtest.New(t))
	ctx := context.Background()

	morning := &models.Card{UserID: "u1", UserUsername: "one", Name: "Morning"}
	night := &models.Card{UserID: "u1", UserUsername: "one", Name: "Night"}
	foreign := &models.Card{UserID: "u2", UserUsername: "two", Name: "Other"}
	for _, c := range []*models.Card{morning, night, foreign} {
		require.NoError(t, repo.Create(ctx, c))
	}

	cards, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "Morning", cards[0].Name)
	assert.Equal(t, models.IDList{}, cards[0].Steps)

	morning.Name = "AM"
	morning.Steps = models.IDList{"s1", "s2"}
	morning.Comments = models.IDList{"c1"}
	require.NoError(t, repo.Update(ctx, morning))

	got, err := repo.GetByID(ctx, morning.ID)
	require.NoError(t, err)
	assert.Equal(t, "AM", got.Name)
	assert.Equal(t, models.IDList{"s1", "s2"}, got.Steps)
	assert.Equal(t, models.IDList{"c1"}, got.Comments)

	require.NoError(t, repo.Delete(ctx, morning.ID))
	_, err = repo.GetByID(ctx, morning.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestCommentAndReplyRepo_Cascade(t *testing.T) {
	db := dbtest.New(t)
	comments := NewSQLiteCommentRepo(db)
	replies := NewSQLiteReplyRepo(db)
	ctx := context.Background()

	c1 := &models.Comment{CardID: "card", UserID: "u", UserUsername: "u", Description: "one"}
	c2 := &models.Comment{CardID: "card", UserID: "u", UserUsername: "u", Description: "two"}
	other := &models.Comment{CardID: "elsewhere", UserID: "u", UserUsername: "u", Description: "x"}
	for _, c := range []*models.Comment{c1, c2, other} {
		require.NoError(t, comments.Create(ctx, c))
	}

	r1 := &models.Reply{CommentID: c1.ID, UserID: "u", UserUsername: "u", Description: "r1"}
	r2 := &models.Reply{CommentID: c2.ID, UserID: "u", UserUsername: "u", Description: "r2"}
	r3 := &models.Reply{CommentID: other.ID, UserID: "u", UserUsername: "u", Description: "r3"}
	for _, r := range []*models.Reply{r1, r2, r3} {
		require.NoError(t, replies.Create(ctx, r))
	}

	ordered, err := comments.GetByIDs(ctx, []string{c2.ID, c1.ID})
	require.NoError(t, err)
	require.Len(t, ordered, 2)
	assert.Equal(t, c2.ID, ordered[0].ID)

	c1.Description = "edited"
	c1.Edited = true
	c1.Replies = models.IDList{r1.ID}
	require.NoError(t, comments.Update(ctx, c1))
	got, err := comments.GetByID(ctx, c1.ID)
	require.NoError(t, err)
	assert.True(t, got.Edited)
	assert.Equal(t, models.IDList{r1.ID}, got.Replies)

	require.NoError(t, replies.DeleteByCardID(ctx, "card"))
	require.NoError(t, comments.DeleteByCardID(ctx, "card"))

	_, err = replies.GetByID(ctx, r1.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	_, err = replies.GetByID(ctx, r2.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	_, err = comments.GetByID(ctx, c2.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	survivor, err := replies.GetByID(ctx, r3.ID)
	require.NoError(t, err)
	assert.Equal(t, "r3", survivor.Description)

	require.NoError(t, replies.DeleteByCommentID(ctx, other.ID))
	_, err = replies.GetByID(ctx, r3.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestStepRepo(t *testing.T) {
	repo := NewSQLiteStepRepo(dbtest.New(t))
	ctx := context.Background()

	s1 := &models.Step{CardID: "card", ProductID: "p1", ProductName: "Toner", IsAM: true, Frequency: 7}
	s2 := &models.Step{CardID: "card", ProductID: "p2", ProductName: "Retinol", IsPM: true, Frequency: 3}
	require.NoError(t, repo.Create(ctx, s1))
	require.NoError(t, repo.Create(ctx, s2))

	steps, err := repo.GetByIDs(ctx, []string{s2.ID, "gone", s1.ID})
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "Retinol", steps[0].ProductName)
	assert.Equal(t, 3, steps[0].Frequency)

	s1.IsAM = false
	s1.Frequency = 0
	require.NoError(t, repo.Update(ctx, s1))
	got, err := repo.GetByID(ctx, s1.ID)
	require.NoError(t, err)
	assert.False(t, got.IsAM)
	assert.Equal(t, 0, got.Frequency)

	require.NoError(t, repo.Delete(ctx, s1.ID))
	require.NoError(t, repo.DeleteByCardID(ctx, "card"))
	_, err = repo.GetByID(ctx, s2.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}
