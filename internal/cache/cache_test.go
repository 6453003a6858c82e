package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Name  string `json:"name"`
	Posts int    `json:"posts"`
}

func setup(t *testing.T) (*miniredis.Miniredis, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { Close(client) })
	return mr, New(client)
}

func TestAside_FetchesOnceThenServesFromCache(t *testing.T) {
	mr, c := setup(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *profile) func() error {
		return func() error {
			calls++
			*dest = profile{Name: "Ada", Posts: 3}
			return nil
		}
	}

	var first profile
	require.NoError(t, c.Aside(ctx, ProfileKey(1), &first, ProfileTTL, fetch(&first)))
	assert.Equal(t, "Ada", first.Name)
	assert.True(t, mr.Exists("profile:1"))

	var second profile
	require.NoError(t, c.Aside(ctx, ProfileKey(1), &second, ProfileTTL, fetch(&second)))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	c.InvalidateProfile(ctx, 1)
	assert.False(t, mr.Exists("profile:1"))
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	mr, c := setup(t)

	var dest profile
	err := c.Aside(context.Background(), ProfileKey(2), &dest, ProfileTTL, func() error {
		return errors.New("db down")
	})
	assert.EqualError(t, err, "db down")
	assert.False(t, mr.Exists("profile:2"))
}

func TestAside_RedisUnavailableFallsBackToFetch(t *testing.T) {
	mr, c := setup(t)
	mr.Close()

	var dest profile
	err := c.Aside(context.Background(), ProfileKey(3), &dest, ProfileTTL, func() error {
		dest = profile{Name: "Grace"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace", dest.Name)
}

func TestNilCacheIsNoop(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	assert.False(t, c.Enabled())
	found, err := c.GetJSON(ctx, "k", &profile{})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.SetJSON(ctx, "k", profile{}, time.Minute))
	c.Invalidate(ctx, "k")

	var dest profile
	require.NoError(t, c.Aside(ctx, "k", &dest, time.Minute, func() error {
		dest.Name = "fetched"
		return nil
	}))
	assert.Equal(t, "fetched", dest.Name)
}

func TestNewClient_ParsesURL(t *testing.T) {
	client, err := NewClient("redis://localhost:6380/2")
	require.NoError(t, err)
	defer Close(client)
	assert.Equal(t, "localhost:6380", client.Options().Addr)
	assert.Equal(t, 2, client.Options().DB)

	_, err = NewClient("redis://%zz")
	assert.Error(t, err)
}

func TestInitRedis_EmptyAddress(t *testing.T) {
	assert.Nil(t, InitRedis(""))
}
