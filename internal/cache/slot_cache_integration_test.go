//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Freeeeeet/hospital_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Запуск: TEST_REDIS_ADDR=localhost:6379 go test -tags integration ./internal/cache/
func TestSlotCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}

	ctx := context.Background()
	c, err := Connect(ctx, Options{Addr: addr, DB: 15, TTL: time.Minute}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Invalidate(ctx, 1, 2))

	_, hit, err := c.GetAvailable(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)

	at := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	slots := []*model.Slot{{ID: 10, DoctorID: 1, SlotDate: at, Status: model.SlotStatusOpen}}
	version, err := c.Version(ctx, 1)
	require.NoError(t, err)
	stored, err := c.SetAvailable(ctx, 1, version, slots)
	require.NoError(t, err)
	require.True(t, stored)

	got, hit, err := c.GetAvailable(ctx, 1)
	require.NoError(t, err)
	require.True(t, hit)
	require.Len(t, got, 1)
	assert.Equal(t, int64(10), got[0].ID)
	assert.True(t, at.Equal(got[0].SlotDate))

	require.NoError(t, c.Invalidate(ctx, 1))
	_, hit, err = c.GetAvailable(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)

	// версия прочитана до инвалидации, список не записывается
	stored, err = c.SetAvailable(ctx, 1, version, slots)
	require.NoError(t, err)
	assert.False(t, stored)
	_, hit, err = c.GetAvailable(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestSlotCache_ConnectFailure(t *testing.T) {
	_, err := Connect(context.Background(), Options{Addr: "127.0.0.1:1"}, zap.NewNop())
	assert.Error(t, err)
}
