package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
)

func TestMaintenance_PruneResetTokens(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bobby")

	expired := &models.PasswordResetToken{UserID: alice.ID, TokenHash: "old", ExpiresAt: time.Now().Add(-time.Minute)}
	fresh := &models.PasswordResetToken{UserID: bob.ID, TokenHash: "new", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, e.resets.Create(ctx, expired))
	require.NoError(t, e.resets.Create(ctx, fresh))

	m := NewMaintenance(e.resets, "@hourly")
	n, err := m.PruneResetTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = e.resets.GetByTokenHash(ctx, "old")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	_, err = e.resets.GetByTokenHash(ctx, "new")
	assert.NoError(t, err)
}

func TestMaintenance_StartStop(t *testing.T) {
	e := newTestEnv(t)

	bad := NewMaintenance(e.resets, "not a schedule")
	assert.Error(t, bad.Start())

	m := NewMaintenance(e.resets, "@every 1h")
	require.NoError(t, m.Start())
	require.NoError(t, m.Start())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	m.Stop(ctx)
	m.Stop(ctx)
}
