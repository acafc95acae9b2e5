package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
)

func TestProductService_CreateAndUpdate(t *testing.T) {
	e := newTestEnv(t)
	svc := NewProductService(e.products)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bobby")

	p, err := svc.CreateProduct(ctx, alice.ID, &models.CreateProductRequest{
		ProductType: "Cleanser",
		ProductName: "Gentle Foam",
		Ingredients: models.Ingredients{"water", "glycerin"},
		Description: "mild",
	})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, p.UserID)
	assert.Equal(t, models.DefaultProductPicture, p.PicturePath)

	updated, err := svc.UpdateProduct(ctx, alice.ID, p.ID, &models.UpdateProductRequest{
		ProductName: "Gentle Foam 2",
	})
	require.NoError(t, err)
	assert.Equal(t, "Gentle Foam 2", updated.ProductName)
	assert.Equal(t, "Cleanser", updated.ProductType)
	assert.Equal(t, models.Ingredients{"water", "glycerin"}, updated.Ingredients)
	assert.Equal(t, "mild", updated.Description)

	_, err = svc.UpdateProduct(ctx, bob.ID, p.ID, &models.UpdateProductRequest{ProductName: "mine now"})
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	_, err = svc.CreateProduct(ctx, alice.ID, &models.CreateProductRequest{ProductType: "x", ProductName: "y"})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestProductService_Toggles(t *testing.T) {
	e := newTestEnv(t)
	svc := NewProductService(e.products)
	ctx := context.Background()
	alice := e.user(t, "alice")
	p := e.product(t, alice, "Sunscreen")

	liked, err := svc.LikeProduct(ctx, alice.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, liked.Likes[alice.ID])

	grails, err := svc.HolyGrailProduct(ctx, alice.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, grails.HolyGrails[alice.ID])

	list, err := svc.GetUserLikedProducts(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)

	list, err = svc.GetUserHolyGrailedProducts(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.LikeProduct(ctx, alice.ID, p.ID)
	require.NoError(t, err)
	list, err = svc.GetUserLikedProducts(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProductService_Delete(t *testing.T) {
	e := newTestEnv(t)
	svc := NewProductService(e.products)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bobby")
	p := e.product(t, alice, "Toner")

	_, err := svc.DeleteProduct(ctx, bob.ID, p.ID)
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	deleted, err := svc.DeleteProduct(ctx, alice.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Toner", deleted.ProductName)

	_, err = svc.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestProductService_AuthorizeUpdate(t *testing.T) {
	e := newTestEnv(t)
	svc := NewProductService(e.products)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bobby")

	p, err := svc.CreateProduct(ctx, alice.ID, &models.CreateProductRequest{
		ProductType: "Toner",
		ProductName: "Calm",
		Description: "pm",
	})
	require.NoError(t, err)

	assert.NoError(t, svc.AuthorizeUpdate(ctx, alice.ID, p.ID))
	assert.ErrorIs(t, svc.AuthorizeUpdate(ctx, bob.ID, p.ID), pkg.ErrForbidden)
	assert.ErrorIs(t, svc.AuthorizeUpdate(ctx, alice.ID, "missing"), pkg.ErrNotFound)
}
