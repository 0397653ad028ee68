package a

import (
	"context"
	"time"
)

func bad(delay time.Duration) {
	time.Sleep(delay) // want "time.Sleep ignores cancellation"
}

func good(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type sleeper struct{}

func (sleeper) Sleep(time.Duration) {}

func notTime(s sleeper) {
	// Same name, different package: should not flag
	s.Sleep(time.Second)
}
