package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
}

type cachedProfile struct {
	Username string `json:"username"`
	Bio      string `json:"bio"`
}

func TestAside_FetchesOnMissAndServesFromCache(t *testing.T) {
	setupCache(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedProfile) func() error {
		return func() error {
			fetches++
			dest.Username = "chef1"
			dest.Bio = "taco enthusiast"
			return nil
		}
	}

	var first cachedProfile
	err := Aside(ctx, ProfileKey("chef1"), &first, ProfileTTL, fetch(&first))
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "chef1", first.Username)

	var second cachedProfile
	err = Aside(ctx, ProfileKey("chef1"), &second, ProfileTTL, fetch(&second))
	require.NoError(t, err)
	assert.Equal(t, 1, fetches, "second read should hit the cache")
	assert.Equal(t, "taco enthusiast", second.Bio)
}

func TestAside_InvalidateForcesRefetch(t *testing.T) {
	setupCache(t)
	ctx := context.Background()

	fetches := 0
	var out cachedProfile
	fetch := func() error {
		fetches++
		out.Username = "chef1"
		return nil
	}

	require.NoError(t, Aside(ctx, ProfileKey("chef1"), &out, ProfileTTL, fetch))
	InvalidateUser(ctx, 1, "chef1")
	require.NoError(t, Aside(ctx, ProfileKey("chef1"), &out, ProfileTTL, fetch))
	assert.Equal(t, 2, fetches)
}

func TestAside_NilClientFallsThrough(t *testing.T) {
	SetClient(nil)

	var out cachedProfile
	err := Aside(context.Background(), ProfileKey("chef1"), &out, time.Minute, func() error {
		out.Username = "chef1"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "chef1", out.Username)
}
