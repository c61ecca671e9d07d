package lock

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestWithDelay(t *testing.T) {
	t.Run(`executes and returns code error`, func(t *testing.T) {
		ok, err := WithDelay(context.Background(), "k1", time.Second, func() error {
			return errors.New("boom")
		})
		require.True(t, ok)
		require.EqualError(t, err, "boom")
	})

	t.Run(`busy key times out`, func(t *testing.T) {
		entered := make(chan struct{})
		release := make(chan struct{})
		go func() {
			_, _ = WithDelay(context.Background(), "k2", time.Second, func() error {
				close(entered)
				<-release
				return nil
			})
		}()
		<-entered
		ok, err := WithDelay(context.Background(), "k2", 100*time.Millisecond, func() error {
			t.Fatal("must not run")
			return nil
		})
		close(release)
		require.False(t, ok)
		require.Nil(t, err)

		require.Eventually(t, func() bool {
			ok, _ := WithDelay(context.Background(), "k2", 10*time.Millisecond, func() error { return nil })
			return ok
		}, time.Second, 20*time.Millisecond)
	})
}
