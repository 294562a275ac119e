package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/kapu/polyglot-connect-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingNotifier struct {
	calls int
	err   error
}

func (c *countingNotifier) CatalogReady(context.Context) error {
	c.calls++
	return c.err
}

func TestBroadcaster(t *testing.T) {
	b := NewBroadcaster()
	early := b.Subscribe()
	assert.False(t, b.Fired())

	assert.NoError(t, b.CatalogReady(context.Background()))
	assert.NoError(t, b.CatalogReady(context.Background()), "second broadcast must not panic on closed channel")

	<-early
	<-b.Subscribe()
	assert.True(t, b.Fired())
}

func TestFanout_DeliversToAllAndJoinsErrors(t *testing.T) {
	failing := &countingNotifier{err: errors.New("publish failed")}
	ok := &countingNotifier{}

	err := Fanout{failing, nil, ok}.CatalogReady(context.Background())

	assert.ErrorContains(t, err, "publish failed")
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls)
}

func TestFanout_Empty(t *testing.T) {
	assert.NoError(t, Fanout(nil).CatalogReady(context.Background()))
}

func TestRedisPublisher_FailureIsReportedOnce(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	defer client.Close()

	pub := NewRedisPublisherWithClient(client, "", zap.NewNop())
	assert.Equal(t, "polyglot:catalog:ready", pub.channel)

	err := pub.CatalogReady(context.Background())
	require.Error(t, err)

	var srcErr *apperrors.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "publish", srcErr.Operation)

	assert.Same(t, err, pub.CatalogReady(context.Background()))
}
