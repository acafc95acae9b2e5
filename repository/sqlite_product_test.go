package repository

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/struffoli/facecard/database/dbtest"
	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
)

func TestProductRepo_CRUD(t *testing.T) {
	repo := NewSQLiteProductRepo(dbtest.New(t))
	ctx := context.Background()

	p := &models.Product{
		UserID:      "owner",
		ProductType: "cleanser",
		ProductName: "Gentle Foam",
		Ingredients: models.Ingredients{"water", "glycerin"},
		Description: "mild",
	}
	require.NoError(t, repo.Create(ctx, p))
	assert.Equal(t, models.DefaultProductPicture, p.PicturePath)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(p.Ingredients, got.Ingredients); diff != "" {
		t.Errorf("ingredients mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, models.BoolMap{}, got.Likes)

	got.ProductName = "Gentler Foam"
	got.Ingredients = models.Ingredients{"water"}
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gentler Foam", again.ProductName)
	assert.Equal(t, models.Ingredients{"water"}, again.Ingredients)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestProductRepo_ListFlagged(t *testing.T) {
	repo := NewSQLiteProductRepo(dbtest.New(t))
	ctx := context.Background()

	liked := &models.Product{UserID: "o", ProductType: "t", ProductName: "liked", Description: "d"}
	grail := &models.Product{UserID: "o", ProductType: "t", ProductName: "grail", Description: "d"}
	neither := &models.Product{UserID: "o", ProductType: "t", ProductName: "neither", Description: "d"}
	for _, p := range []*models.Product{liked, grail, neither} {
		require.NoError(t, repo.Create(ctx, p))
	}

	const user = "3f1c2a9e-1111-4c1b-9a55-2f1e0c3d4b5a"
	require.NoError(t, repo.UpdateLikes(ctx, liked.ID, models.BoolMap{user: true}))
	require.NoError(t, repo.UpdateHolyGrails(ctx, grail.ID, models.BoolMap{user: true, "other": true}))
	require.NoError(t, repo.UpdateLikes(ctx, neither.ID, models.BoolMap{user: false}))

	likes, err := repo.ListLikedBy(ctx, user)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, liked.ID, likes[0].ID)

	grails, err := repo.ListHolyGrailedBy(ctx, user)
	require.NoError(t, err)
	require.Len(t, grails, 1)
	assert.Equal(t, grail.ID, grails[0].ID)

	none, err := repo.ListLikedBy(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}
