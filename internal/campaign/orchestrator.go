package campaign

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"leadpilot/internal/gateway"
)

// insightsMaxTokens is the larger completion cap used for the report
// narrative; the per-lead calls stay on the default.
const insightsMaxTokens = 256

// LeadStore loads the campaign leads and persists the processed rows.
type LeadStore interface {
	Load(ctx context.Context) ([]*Lead, error)
	Save(ctx context.Context, leads []*Lead) error
}

// ReportSink receives the rendered campaign report once per run.
type ReportSink interface {
	Write(report string) error
}

// Orchestrator drives one campaign run end to end: load, enrich,
// dispatch, simulate replies, aggregate, persist, report.
type Orchestrator struct {
	store    LeadStore
	reports  ReportSink
	gateway  ModelGateway
	enricher *Enricher
	dispatch *Dispatcher
	replies  ReplySource

	concurrency int
	logger      *zap.Logger

	mu    sync.RWMutex
	state RunState
	runID string
}

// OrchestratorConfig wires the orchestrator's collaborators.
type OrchestratorConfig struct {
	Store           LeadStore
	Reports         ReportSink
	Gateway         ModelGateway
	Sender          MailSender
	Replies         ReplySource // optional; defaults to the simulated source
	SendThreshold   int
	SendBudget      int // <= 0 means unlimited
	DefaultPriority int
	Concurrency     int // worker count for enrich and reply phases; <= 1 runs sequentially
	Logger          *zap.Logger
}

// NewOrchestrator creates an orchestrator for a single campaign run.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	replies := cfg.Replies
	if replies == nil {
		replies = NewSimulatedReplySource(cfg.Gateway, logger)
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Orchestrator{
		store:       cfg.Store,
		reports:     cfg.Reports,
		gateway:     cfg.Gateway,
		enricher:    NewEnricher(cfg.Gateway, cfg.DefaultPriority, logger),
		dispatch:    NewDispatcher(cfg.Sender, cfg.SendThreshold, cfg.SendBudget, logger),
		replies:     replies,
		concurrency: concurrency,
		logger:      logger,
		runID:       uuid.NewString(),
	}
}

// RunID returns the identifier attached to this run's result and logs.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// State returns the current run state.
func (o *Orchestrator) State() RunState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// setState advances the run state. Transitions are strictly forward.
func (o *Orchestrator) setState(s RunState) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
	o.logger.Info("Campaign state",
		zap.String("run_id", o.runID),
		zap.String("state", string(s)))
}

// Run executes one campaign. Per-lead model and delivery failures
// degrade and never abort; store I/O failures, report write failures,
// and context cancellation abort with an error. On the abort paths no
// report is written.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	leads, err := o.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading leads: %w", err)
	}
	for _, lead := range leads {
		if lead.Status == "" {
			lead.Status = StatusPending
		}
	}
	o.setState(RunInitialized)
	o.logger.Info("Leads loaded",
		zap.String("run_id", o.runID),
		zap.Int("leads", len(leads)))

	o.setState(RunRunning)
	if err := o.enrichAll(ctx, leads); err != nil {
		return nil, fmt.Errorf("enrichment aborted: %w", err)
	}

	// Dispatch is strictly sequential: budget consumption follows
	// ingestion order regardless of the concurrency setting.
	sent := o.dispatch.Dispatch(ctx, leads)
	o.logger.Info("Dispatch complete",
		zap.String("run_id", o.runID),
		zap.Int("sent", sent))

	if err := o.replyAll(ctx, leads); err != nil {
		return nil, fmt.Errorf("reply stage aborted: %w", err)
	}

	result := Aggregate(leads)
	result.RunID = o.runID
	o.setState(RunAggregated)

	opts := gateway.DefaultCallOptions()
	opts.MaxTokens = insightsMaxTokens
	insights, err := o.gateway.Complete(ctx, InsightsPrompt(SummaryBlock(result)), opts)
	if err != nil {
		o.logger.Warn("Insights generation degraded", zap.Error(err))
	} else {
		result.Insights = insights
	}

	if err := o.store.Save(ctx, leads); err != nil {
		return nil, fmt.Errorf("saving leads: %w", err)
	}
	if err := o.reports.Write(RenderReport(result)); err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}
	o.setState(RunReported)
	o.logger.Info("Campaign reported",
		zap.String("run_id", o.runID),
		zap.Int("total", result.Total),
		zap.Int("sent", result.Sent),
		zap.Int("replied", result.Replied),
		zap.Float64("avg_priority", result.AvgPriority))

	return &result, nil
}

// enrichAll runs the enrichment stage over every lead. Enrichment never
// fails per lead; the only error out of here is context cancellation.
func (o *Orchestrator) enrichAll(ctx context.Context, leads []*Lead) error {
	if o.concurrency <= 1 {
		for _, lead := range leads {
			if err := ctx.Err(); err != nil {
				return err
			}
			o.enricher.Enrich(ctx, lead)
		}
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for _, lead := range leads {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o.enricher.Enrich(ctx, lead)
			return nil
		})
	}
	return g.Wait()
}

// replyAll resolves replies for sent leads. Workers only ever return
// context errors; reply failures degrade inside resolveReply.
func (o *Orchestrator) replyAll(ctx context.Context, leads []*Lead) error {
	if o.concurrency <= 1 {
		for _, lead := range leads {
			if err := ctx.Err(); err != nil {
				return err
			}
			o.resolveReply(ctx, lead)
		}
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for _, lead := range leads {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o.resolveReply(ctx, lead)
			return nil
		})
	}
	return g.Wait()
}

// resolveReply runs the reply stage for a single lead. Only sent leads
// get replies; everyone else keeps empty response fields. A reply source
// that returns an error degrades to a silent prospect.
func (o *Orchestrator) resolveReply(ctx context.Context, lead *Lead) {
	if lead.Status != StatusSent {
		return
	}
	text, category, err := o.replies.GetReply(ctx, lead)
	if err != nil {
		o.logger.Warn("Reply source failed",
			zap.String("lead", lead.Email),
			zap.Error(err))
		text, category = "", gateway.CategoryNoResponse
	}
	lead.ResponseText = text
	lead.ResponseCategory = category
}
