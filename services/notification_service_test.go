package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
)

func TestNotificationService_Lifecycle(t *testing.T) {
	e := newTestEnv(t)
	svc := NewNotificationService(e.notifications, e.users)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bobby")

	long := strings.Repeat("a", 60)
	list, err := svc.CreateNotification(ctx, bob.ID, &models.CreateNotificationRequest{
		UserID:      alice.ID,
		FaceCardID:  "card-1",
		Description: long,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	n := list[0]
	assert.Equal(t, bob.ID, n.OtherUserID)
	assert.Equal(t, alice.ID, n.UserID)
	assert.Len(t, n.Description, models.NotificationDescriptionMax)
	assert.True(t, n.IsActive)

	_, err = svc.GetActive(ctx, bob.ID, alice.ID)
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	_, err = svc.Clear(ctx, bob.ID, n.ID)
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	cleared, err := svc.Clear(ctx, alice.ID, n.ID)
	require.NoError(t, err)
	assert.False(t, cleared.IsActive)

	active, err := svc.GetActive(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.GetAll(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestNotificationService_Errors(t *testing.T) {
	e := newTestEnv(t)
	svc := NewNotificationService(e.notifications, e.users)
	ctx := context.Background()
	bob := e.user(t, "bobby")

	_, err := svc.CreateNotification(ctx, bob.ID, &models.CreateNotificationRequest{UserID: "missing", Description: "x"})
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	_, err = svc.CreateNotification(ctx, bob.ID, &models.CreateNotificationRequest{UserID: bob.ID})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	_, err = svc.CreateNotification(ctx, bob.ID, &models.CreateNotificationRequest{
		UserID: bob.ID, OtherUserID: "impostor", Description: "x",
	})
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	_, err = svc.Clear(ctx, bob.ID, "missing")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}
