package httpapi

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"leadhunt-engine/internal/events"
	"leadhunt-engine/internal/logger"
	"leadhunt-engine/internal/runner"
)

var ErrAlreadyRunning = errors.New("a scrape is already running")

// RunFunc performs one scrape run.
type RunFunc func(ctx context.Context, reqID string, publish func(string)) (runner.Report, error)

// Tracker serializes scrape runs and remembers the outcome of the last one.
type Tracker struct {
	mu   sync.Mutex
	st   ScrapeStatus
	last *runner.Report

	run RunFunc
	hub *events.Hub
	log *zap.Logger
	wg  sync.WaitGroup
}

func NewTracker(run RunFunc, hub *events.Hub, log *zap.Logger) *Tracker {
	return &Tracker{run: run, hub: hub, log: logger.OrNop(log).Named("tracker")}
}

func (t *Tracker) Status() ScrapeStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.st
}

// Last returns the report of the last successful run.
func (t *Tracker) Last() (runner.Report, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last == nil {
		return runner.Report{}, false
	}
	return *t.last, true
}

func (t *Tracker) begin() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.st.Running {
		return false
	}
	t.st.Running = true
	t.st.LastRunAt = time.Now().UTC().Format(time.RFC3339)
	t.st.LastError = ""
	return true
}

// RunNow runs synchronously. It returns ErrAlreadyRunning when another run
// holds the tracker.
func (t *Tracker) RunNow(ctx context.Context, reqID string) error {
	if !t.begin() {
		return ErrAlreadyRunning
	}
	return t.execute(ctx, reqID)
}

// Start runs in the background and reports whether a run was started.
func (t *Tracker) Start(ctx context.Context, reqID string) bool {
	if !t.begin() {
		return false
	}
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		_ = t.execute(ctx, reqID)
	}()
	return true
}

// Wait blocks until background runs finish.
func (t *Tracker) Wait() { t.wg.Wait() }

func (t *Tracker) execute(ctx context.Context, reqID string) error {
	publish := func(string) {}
	if t.hub != nil {
		publish = t.hub.Publish
	}

	rep, err := t.run(ctx, reqID, publish)

	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now().UTC().Format(time.RFC3339)
	t.st.Running = false
	t.st.LastRunAt = now
	t.st.LastAdded = rep.Added
	t.st.LastTotal = len(rep.Result.Leads)
	t.st.TokenOrigin = string(rep.TokenOrigin)
	if err != nil {
		t.st.LastError = err.Error()
		t.log.Error("scrape run failed", zap.String("request_id", reqID), zap.Error(err))
		publish(events.MakeEvent(reqID, events.RunFailed, events.Version, map[string]string{"error": err.Error()}))
		return err
	}
	t.st.LastOkAt = now
	t.st.LastOutput = rep.OutputDir
	t.last = &rep
	return nil
}
