//go:build integration

package lock

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisLocker(t *testing.T) {
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLocker(client, time.Second)

	release, err := l.Acquire(ctx, "acct")
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(short, "acct")
	assert.ErrorIs(t, err, ErrNotAcquired)

	release()
	again, err := l.Acquire(ctx, "acct")
	require.NoError(t, err)
	again()

	// A held lock outlives its TTL while the holder keeps renewing it.
	held, err := l.Acquire(ctx, "long-turn")
	require.NoError(t, err)
	time.Sleep(2500 * time.Millisecond)
	busy, cancelBusy := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancelBusy()
	_, err = l.Acquire(busy, "long-turn")
	assert.ErrorIs(t, err, ErrNotAcquired)
	held()
	held()

	// A holder that died without releasing stops renewing; the key expires after the TTL.
	require.NoError(t, client.Set(ctx, "gymbro:lock:stale", "crashed-holder", time.Second).Err())
	waitCtx, cancelWait := context.WithTimeout(ctx, 3*time.Second)
	defer cancelWait()
	later, err := l.Acquire(waitCtx, "stale")
	require.NoError(t, err)
	later()
}
