package scrape

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"leadhunt-engine/internal/domain"
	"leadhunt-engine/internal/events"
	"leadhunt-engine/internal/logger"
	"leadhunt-engine/internal/scrape/types"
)

type Options struct {
	// Parallel runs every enabled adapter at once. Each adapter still paces
	// its own requests.
	Parallel bool
	// Publish, when set, receives events.MakeEvent JSON for run progress.
	Publish func(string)
	Logger  *zap.Logger
	// RequestID is stamped on published events.
	RequestID string
	Now       func() time.Time
}

type Orchestrator struct {
	adapters []types.Adapter
	opt      Options
	log      *zap.Logger
}

func NewOrchestrator(adapters []types.Adapter, opt Options) *Orchestrator {
	if opt.Now == nil {
		opt.Now = time.Now
	}
	return &Orchestrator{adapters: adapters, opt: opt, log: logger.OrNop(opt.Logger).Named("orchestrator")}
}

// Result is one complete run. Leads keeps adapter order, then document order
// within each adapter.
type Result struct {
	Leads         []domain.Lead
	Contactable   []domain.Lead
	Research      []domain.Lead
	Stats         domain.LeadStats
	Succeeded     int
	Failed        int
	FailedSources []string
	StartedAt     time.Time
	FinishedAt    time.Time
}

func (r Result) Metadata() domain.RunMetadata {
	m := domain.NewRunMetadata(r.StartedAt, r.FinishedAt, r.Stats)
	m.SourcesSucceeded = r.Succeeded
	m.SourcesFailed = r.Failed
	m.FailedSources = append([]string(nil), r.FailedSources...)
	return m
}

type outcome struct {
	name  string
	leads []domain.Lead
	err   error
}

// Run scrapes every enabled adapter. A failing adapter contributes no leads
// and does not stop the others, except that an adapter cut short by
// cancellation still contributes what it extracted before the cut. The only error returned is a context that
// was already done before the first adapter started.
func (o *Orchestrator) Run(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{StartedAt: o.opt.Now().UTC()}
	o.publish(events.RunStarted, nil)

	var active []types.Adapter
	for _, a := range o.adapters {
		if !a.Enabled() {
			o.log.Debug("source disabled", zap.String("source", a.Name()))
			continue
		}
		active = append(active, a)
	}
	o.log.Info("run started", zap.Int("sources", len(active)), zap.Bool("parallel", o.opt.Parallel))

	outcomes := make([]outcome, len(active))
	if o.opt.Parallel {
		var (
			g  errgroup.Group
			mu sync.Mutex
		)
		for i, a := range active {
			g.Go(func() error {
				out := o.runOne(ctx, a)
				mu.Lock()
				outcomes[i] = out
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, a := range active {
			outcomes[i] = o.runOne(ctx, a)
		}
	}

	for _, out := range outcomes {
		res.Leads = append(res.Leads, out.leads...)
		if out.err != nil {
			res.Failed++
			res.FailedSources = append(res.FailedSources, out.name)
			continue
		}
		res.Succeeded++
	}

	res.Contactable, res.Research = domain.Partition(res.Leads)
	res.Stats = domain.ComputeStats(res.Contactable, res.Research)
	res.FinishedAt = o.opt.Now().UTC()

	o.log.Info("run finished",
		zap.Int("leads", res.Stats.TotalLeads),
		zap.Int("contactable", res.Stats.ContactableLeads),
		zap.Int("succeeded", res.Succeeded),
		zap.Int("failed", res.Failed),
		zap.Duration("took", res.FinishedAt.Sub(res.StartedAt)),
	)
	o.publish(events.RunFinished, events.RunPayload{
		TotalLeads:       res.Stats.TotalLeads,
		ContactableLeads: res.Stats.ContactableLeads,
		Succeeded:        res.Succeeded,
		Failed:           res.Failed,
		FailedSources:    res.FailedSources,
		DurationSeconds:  res.FinishedAt.Sub(res.StartedAt).Seconds(),
	})
	return res, nil
}

func (o *Orchestrator) runOne(ctx context.Context, a types.Adapter) (out outcome) {
	name := a.Name()
	out.name = name
	log := o.log.With(zap.String("source", name))

	expected, _ := a.ExpectedLeads()
	log.Info("source started", zap.Int("expected", expected))
	o.publish(events.SourceStarted, events.SourcePayload{Source: name, Expected: expected})

	defer func() {
		if r := recover(); r != nil {
			out.leads = nil
			out.err = fmt.Errorf("panic: %v", r)
			log.Error("source panicked", zap.Any("panic", r), zap.Stack("stack"))
			o.publish(events.SourceFailed, events.SourcePayload{Source: name, Error: out.err.Error()})
		}
	}()

	start := o.opt.Now()
	leads, err := a.Scrape(ctx)
	if err != nil {
		out.err = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			out.leads = leads
		}
		log.Error("source failed", zap.Error(err), zap.Int("kept", len(out.leads)))
		o.publish(events.SourceFailed, events.SourcePayload{Source: name, Error: err.Error()})
		return out
	}

	out.leads = leads
	log.Info("source finished", zap.Int("leads", len(leads)), zap.Duration("took", o.opt.Now().Sub(start)))
	o.publish(events.SourceFinished, events.SourcePayload{Source: name, Expected: expected, Leads: len(leads)})
	return out
}

func (o *Orchestrator) publish(typ string, data any) {
	if o.opt.Publish == nil {
		return
	}
	o.opt.Publish(events.MakeEvent(o.opt.RequestID, typ, events.Version, data))
}
