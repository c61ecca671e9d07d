package lock

import (
	"context"
	"sync"
	"time"
)

var (
	lockMap sync.Map
)

const retryPeriod = 50 * time.Millisecond

// WithDelay выполняет safeCode под блокировкой ключа в пределах процесса.
// Если ключ не освободился за wait или контекст завершён, код не выполняется и success=false
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	deadline := time.NewTimer(wait)
	defer deadline.Stop()
	for {
		if _, loaded := lockMap.LoadOrStore(key, true); !loaded {
			break
		}
		select {
		case <-deadline.C:
			return false, nil
		case <-ctx.Done():
			return false, nil
		case <-time.After(retryPeriod):
		}
	}
	defer lockMap.Delete(key)
	return true, safeCode()
}
