package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deadClient points at a port nothing listens on.
func deadClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestOpen_BadURL(t *testing.T) {
	_, err := Open(context.Background(), "http://localhost:6379")
	require.Error(t, err)
}

func TestOpen_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := Open(ctx, "127.0.0.1:1")
	require.Error(t, err)
}

func TestRedis_FailuresAreMisses(t *testing.T) {
	r := New(deadClient())
	defer r.Close()
	ctx := context.Background()

	var v map[string]int
	assert.False(t, r.GetJSON(ctx, "k", &v))
	assert.NotPanics(t, func() {
		r.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute)
		r.Delete(ctx, "k")
		r.Delete(ctx)
	})
}
