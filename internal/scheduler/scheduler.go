package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"leadhunt-engine/internal/logger"
)

type Task func(ctx context.Context) error

// Every runs task immediately and then on each tick until ctx is done. A
// tick that arrives while the previous run is still going is skipped.
func Every(ctx context.Context, interval time.Duration, name string, task Task, log *zap.Logger) {
	log = logger.OrNop(log).With(zap.String("task", name))

	var running atomic.Bool
	run := func() {
		if !running.CompareAndSwap(false, true) {
			log.Debug("previous run still active, tick skipped")
			return
		}
		defer running.Store(false)

		start := time.Now()
		if err := task(ctx); err != nil {
			log.Error("scheduled run failed", zap.Error(err))
			return
		}
		log.Debug("scheduled run done", zap.Duration("took", time.Since(start)))
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		run()
	}()

	for {
		select {
		case <-ctx.Done():
			<-done
			return
		case <-t.C:
			run()
		}
	}
}
