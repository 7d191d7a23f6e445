package scrape

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"leadhunt-engine/internal/domain"
	"leadhunt-engine/internal/events"
	"leadhunt-engine/internal/scrape/types"
)

type fakeAdapter struct {
	name    string
	enabled bool
	leads   []domain.Lead
	err     error
	delay   time.Duration
	panics  bool
	calls   int
}

func (f *fakeAdapter) Name() string               { return f.name }
func (f *fakeAdapter) Enabled() bool              { return f.enabled }
func (f *fakeAdapter) ExpectedLeads() (int, bool) { return len(f.leads), true }

func (f *fakeAdapter) Scrape(ctx context.Context) ([]domain.Lead, error) {
	f.calls++
	if f.panics {
		panic("boom")
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.leads, f.err
}

func leads(t *testing.T, src domain.Source, n int, contact bool) []domain.Lead {
	t.Helper()
	out := make([]domain.Lead, 0, n)
	for i := 0; i < n; i++ {
		l, err := domain.NewLead(fmt.Sprintf("%s %d", src.Display(), i), src)
		require.NoError(t, err)
		if contact {
			l = l.WithEmail(fmt.Sprintf("hi%d@example.org", i))
		}
		out = append(out, l)
	}
	return out
}

type recorder struct {
	mu  sync.Mutex
	got []events.Event
}

func (r *recorder) publish(s string) {
	e, err := events.Decode(s)
	if err != nil {
		return
	}
	r.mu.Lock()
	r.got = append(r.got, e)
	r.mu.Unlock()
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.got))
	for _, e := range r.got {
		out = append(out, e.Type)
	}
	return out
}

func TestRunIsolatesFailingSource(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	bad := &fakeAdapter{name: "Y Combinator", enabled: true, err: errors.New("directory down")}
	good := &fakeAdapter{name: "BetaList", enabled: true, leads: leads(t, domain.StartupDirectorySource(), 4, true)}
	rec := &recorder{}

	orch := NewOrchestrator(adapters(bad, good), Options{Logger: zap.New(core), Publish: rec.publish})
	res, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, res.Leads, 4)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"Y Combinator"}, res.FailedSources)
	assert.Equal(t, 4, res.Stats.TotalLeads)

	failed := logs.FilterMessage("source failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	assert.Equal(t, "Y Combinator", failed[0].ContextMap()["source"])

	assert.Equal(t, []string{
		events.RunStarted,
		events.SourceStarted, events.SourceFailed,
		events.SourceStarted, events.SourceFinished,
		events.RunFinished,
	}, rec.types())
}

func adapters(fs ...*fakeAdapter) []types.Adapter {
	out := make([]types.Adapter, 0, len(fs))
	for _, f := range fs {
		out = append(out, f)
	}
	return out
}

func TestRunConcatenatesInAdapterOrderAndPartitions(t *testing.T) {
	yc := &fakeAdapter{name: "Y Combinator", enabled: true, leads: leads(t, domain.DirectorySource(), 2, false)}
	gh := &fakeAdapter{name: "GitHub Awesome", enabled: true, leads: leads(t, domain.CuratedListSource("a/b"), 3, true)}
	bl := &fakeAdapter{name: "BetaList", enabled: true, leads: leads(t, domain.StartupDirectorySource(), 1, false)}

	res, err := NewOrchestrator(adapters(yc, gh, bl), Options{}).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Leads, 6)
	assert.Equal(t, "Y Combinator 0", res.Leads[0].Name)
	assert.Equal(t, "BetaList 0", res.Leads[5].Name)
	assert.Len(t, res.Contactable, 3)
	assert.Len(t, res.Research, 3)
	assert.Equal(t, 3, res.Succeeded)
	assert.Empty(t, res.FailedSources)
	assert.InDelta(t, 50.0, res.Stats.ContactRate, 0.001)
}

func TestRunSkipsDisabledSources(t *testing.T) {
	off := &fakeAdapter{name: "BetaList", leads: leads(t, domain.StartupDirectorySource(), 2, true)}
	on := &fakeAdapter{name: "Y Combinator", enabled: true, leads: leads(t, domain.DirectorySource(), 1, false)}

	res, err := NewOrchestrator(adapters(off, on), Options{}).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, off.calls)
	assert.Len(t, res.Leads, 1)
	assert.Equal(t, 1, res.Succeeded)
	assert.Zero(t, res.Failed)
}

func TestRunNoSources(t *testing.T) {
	res, err := NewOrchestrator(nil, Options{}).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Leads)
	assert.Zero(t, res.Stats.TotalLeads)
	assert.Zero(t, res.Stats.ContactRate)
}

func TestRunRecoversPanickingSource(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	p := &fakeAdapter{name: "GitHub Awesome", enabled: true, panics: true}
	ok := &fakeAdapter{name: "BetaList", enabled: true, leads: leads(t, domain.StartupDirectorySource(), 2, false)}

	res, err := NewOrchestrator(adapters(p, ok), Options{Logger: zap.New(core)}).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Leads, 2)
	assert.Equal(t, []string{"GitHub Awesome"}, res.FailedSources)
	assert.Equal(t, 1, logs.FilterMessage("source panicked").Len())
}

func TestRunKeepsLeadsFromCancelledSource(t *testing.T) {
	cut := &fakeAdapter{
		name:    "Y Combinator",
		enabled: true,
		leads:   leads(t, domain.DirectorySource(), 2, true),
		err:     fmt.Errorf("ycombinator: %w", context.Canceled),
	}
	broken := &fakeAdapter{
		name:    "BetaList",
		enabled: true,
		leads:   leads(t, domain.StartupDirectorySource(), 3, false),
		err:     errors.New("half parsed"),
	}

	res, err := NewOrchestrator(adapters(cut, broken), Options{}).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Leads, 2)
	assert.Equal(t, 2, res.Stats.ContactableLeads)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, []string{"Y Combinator", "BetaList"}, res.FailedSources)
}

func TestRunCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := &fakeAdapter{name: "BetaList", enabled: true}

	_, err := NewOrchestrator(adapters(a), Options{}).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, a.calls)
}

func TestRunParallelKeepsOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	slow := &fakeAdapter{name: "Y Combinator", enabled: true, delay: 30 * time.Millisecond, leads: leads(t, domain.DirectorySource(), 2, true)}
	fast := &fakeAdapter{name: "BetaList", enabled: true, leads: leads(t, domain.StartupDirectorySource(), 3, false)}
	bad := &fakeAdapter{name: "GitHub Awesome", enabled: true, err: errors.New("rate limited")}
	rec := &recorder{}

	res, err := NewOrchestrator(adapters(slow, bad, fast), Options{Parallel: true, Publish: rec.publish}).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Leads, 5)
	assert.Equal(t, "Y Combinator 0", res.Leads[0].Name)
	assert.Equal(t, "BetaList 2", res.Leads[4].Name)
	assert.Equal(t, []string{"GitHub Awesome"}, res.FailedSources)

	got := rec.types()
	assert.Equal(t, events.RunStarted, got[0])
	assert.Equal(t, events.RunFinished, got[len(got)-1])
	assert.Len(t, got, 8)
}

func TestResultMetadata(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	res := Result{
		StartedAt:     start,
		FinishedAt:    start.Add(90 * time.Second),
		Succeeded:     2,
		Failed:        1,
		FailedSources: []string{"BetaList"},
		Stats:         domain.LeadStats{TotalLeads: 10, ContactableLeads: 4, ContactRate: 40},
	}
	m := res.Metadata()
	assert.NotEmpty(t, m.RunID)
	assert.Equal(t, 2, m.SourcesSucceeded)
	assert.Equal(t, 1, m.SourcesFailed)
	assert.Equal(t, []string{"BetaList"}, m.FailedSources)
	assert.InDelta(t, 90.0, m.DurationSeconds, 0.001)
	assert.Equal(t, 10, m.TotalLeads)
}
