package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/tskprio/internal/shared/domain"
	"github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/eventbus"
)

// ErrProcessorRunning is returned by Start when the loop is already active.
var ErrProcessorRunning = errors.New("outbox processor already running")

// DefaultRoutingPrefixes are the event families published to the broker.
var DefaultRoutingPrefixes = []string{"project.", "task."}

// ProcessorConfig holds configuration for the outbox processor.
type ProcessorConfig struct {
	PollInterval     time.Duration
	BatchSize        int
	MaxRetries       int
	RetryBackoffBase time.Duration
	RetryBackoffMax  time.Duration
	// RoutingPrefixes limits which routing keys are published. Anything
	// else is dead-lettered without a publish attempt. Empty accepts all.
	RoutingPrefixes []string
}

// DefaultProcessorConfig returns the worker defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval:     500 * time.Millisecond,
		BatchSize:        50,
		MaxRetries:       5,
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  time.Minute,
		RoutingPrefixes:  DefaultRoutingPrefixes,
	}
}

func (c ProcessorConfig) withDefaults() ProcessorConfig {
	def := DefaultProcessorConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = def.BatchSize
	}
	if c.RetryBackoffBase <= 0 {
		c.RetryBackoffBase = def.RetryBackoffBase
	}
	if c.RetryBackoffMax < c.RetryBackoffBase {
		c.RetryBackoffMax = max(def.RetryBackoffMax, c.RetryBackoffBase)
	}
	return c
}

// BatchReport counts what a single pass did with each message it loaded.
type BatchReport struct {
	Published    int
	Retried      int
	DeadLettered int
	// Held messages belong to a project whose earlier event failed in the
	// same pass. They wait for that event instead of overtaking it.
	Held int
}

// Processor polls the outbox and hands pending project and task events to
// a publisher. Events of one project leave in the order they were stored.
type Processor struct {
	repo      Repository
	publisher eventbus.Publisher
	config    ProcessorConfig
	logger    *slog.Logger

	published atomic.Uint64
	retried   atomic.Uint64
	dead      atomic.Uint64

	mu            sync.Mutex
	cancel        context.CancelFunc
	done          chan struct{}
	lastError     string
	lastErrorAt   *time.Time
	lastPassAt    *time.Time
	oldestPending *time.Time
}

// NewProcessor creates a new outbox processor. Zero config values fall
// back to DefaultProcessorConfig, except MaxRetries: zero or less
// dead-letters on the first failure.
func NewProcessor(repo Repository, publisher eventbus.Publisher, config ProcessorConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		repo:      repo,
		publisher: publisher,
		config:    config.withDefaults(),
		logger:    logger.With("component", "outbox"),
	}
}

// Start runs the polling loop in the background until Stop is called or
// ctx is done.
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil && !isClosed(p.done) {
		return ErrProcessorRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel, p.done = cancel, done

	go func() {
		defer close(done)
		p.Run(runCtx)
	}()

	p.logger.Info("outbox processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize,
		"routing_prefixes", p.config.RoutingPrefixes,
	)
	return nil
}

// Stop cancels the loop and waits for the current pass to finish.
func (p *Processor) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.logger.Info("outbox processor stopped")
}

// IsRunning reports whether the background loop is active.
func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done != nil && !isClosed(p.done)
}

// Run drains the outbox once, then again on every poll tick. It blocks
// until ctx is done.
func (p *Processor) Run(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		report, err := p.ProcessOnce(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			p.logger.Error("outbox pass failed", "error", err)
		case report.Retried > 0 || report.DeadLettered > 0:
			p.logger.Warn("outbox pass incomplete",
				"published", report.Published,
				"retried", report.Retried,
				"dead_lettered", report.DeadLettered,
				"held", report.Held,
			)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ProcessOnce publishes one batch synchronously.
func (p *Processor) ProcessOnce(ctx context.Context) (BatchReport, error) {
	var report BatchReport

	messages, err := p.repo.GetUnpublished(ctx, p.config.BatchSize)
	if err != nil {
		p.noteError(err)
		return report, fmt.Errorf("load outbox batch: %w", err)
	}
	p.notePass(messages)

	// project id -> retry time of its first failed event in this pass
	held := make(map[uuid.UUID]time.Time)

	for _, msg := range messages {
		log := p.logger.With(
			"id", msg.ID,
			"routing_key", msg.RoutingKey,
			"project_id", msg.AggregateID,
			"correlation_id", correlationOf(msg),
		)

		if until, ok := held[msg.AggregateID]; ok {
			if err := p.repo.Defer(ctx, msg.ID, until); err != nil {
				log.Error("failed to hold message", "error", err)
			}
			report.Held++
			continue
		}

		if !p.routable(msg.RoutingKey) {
			p.deadLetter(ctx, log, msg, fmt.Sprintf("no route for %q", msg.RoutingKey))
			report.DeadLettered++
			continue
		}

		if err := p.publisher.Publish(ctx, msg.RoutingKey, msg.Payload); err != nil {
			p.noteError(err)
			attempt := msg.RetryCount + 1
			if attempt >= p.config.MaxRetries {
				p.deadLetter(ctx, log, msg, err.Error())
				report.DeadLettered++
				continue
			}

			next := time.Now().Add(p.backoff(attempt))
			if markErr := p.repo.MarkFailed(ctx, msg.ID, err.Error(), next); markErr != nil {
				log.Error("failed to schedule retry", "error", markErr)
			}
			held[msg.AggregateID] = next
			p.retried.Add(1)
			report.Retried++
			log.Warn("publish failed", "attempt", attempt, "next_retry_at", next, "error", err)
			continue
		}

		if err := p.repo.MarkPublished(ctx, msg.ID); err != nil {
			log.Error("failed to mark message as published", "error", err)
			continue
		}
		p.published.Add(1)
		report.Published++
	}

	return report, nil
}

func (p *Processor) deadLetter(ctx context.Context, log *slog.Logger, msg *Message, reason string) {
	if err := p.repo.MarkDead(ctx, msg.ID, reason); err != nil {
		log.Error("failed to dead-letter message", "error", err)
		return
	}
	p.dead.Add(1)
	log.Warn("message dead-lettered", "retries", msg.RetryCount, "reason", reason)
}

func (p *Processor) routable(routingKey string) bool {
	if len(p.config.RoutingPrefixes) == 0 {
		return true
	}
	for _, prefix := range p.config.RoutingPrefixes {
		if strings.HasPrefix(routingKey, prefix) && len(routingKey) > len(prefix) {
			return true
		}
	}
	return false
}

// backoff doubles from RetryBackoffBase per attempt, capped at RetryBackoffMax.
func (p *Processor) backoff(attempt int) time.Duration {
	delay := p.config.RetryBackoffBase
	for i := 1; i < attempt && delay < p.config.RetryBackoffMax; i++ {
		delay *= 2
	}
	return min(delay, p.config.RetryBackoffMax)
}

func correlationOf(msg *Message) string {
	if len(msg.Metadata) == 0 {
		return ""
	}
	var metadata domain.EventMetadata
	if err := json.Unmarshal(msg.Metadata, &metadata); err != nil || metadata.CorrelationID == uuid.Nil {
		return ""
	}
	return metadata.CorrelationID.String()
}

func isClosed(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// Snapshot is a point-in-time view of the processor, served by the
// worker's health endpoint.
type Snapshot struct {
	Running         bool       `json:"running"`
	Published       uint64     `json:"published"`
	Retried         uint64     `json:"retried"`
	DeadLettered    uint64     `json:"dead_lettered"`
	LagSeconds      float64    `json:"lag_seconds"`
	LastError       string     `json:"last_error,omitempty"`
	LastErrorAt     *time.Time `json:"last_error_at,omitempty"`
	LastPassAt      *time.Time `json:"last_pass_at,omitempty"`
	OldestPendingAt *time.Time `json:"oldest_pending_at,omitempty"`
}

// Snapshot returns the current counters and the lag of the oldest event
// seen in the last pass.
func (p *Processor) Snapshot() Snapshot {
	running := p.IsRunning()

	p.mu.Lock()
	defer p.mu.Unlock()

	snap := Snapshot{
		Running:         running,
		Published:       p.published.Load(),
		Retried:         p.retried.Load(),
		DeadLettered:    p.dead.Load(),
		LastError:       p.lastError,
		LastErrorAt:     p.lastErrorAt,
		LastPassAt:      p.lastPassAt,
		OldestPendingAt: p.oldestPending,
	}
	if p.oldestPending != nil {
		snap.LagSeconds = time.Since(*p.oldestPending).Seconds()
	}
	return snap
}

func (p *Processor) noteError(err error) {
	now := time.Now()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastError = err.Error()
	p.lastErrorAt = &now
}

func (p *Processor) notePass(messages []*Message) {
	now := time.Now()
	var oldest *time.Time
	for _, msg := range messages {
		if oldest == nil || msg.CreatedAt.Before(*oldest) {
			created := msg.CreatedAt
			oldest = &created
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastPassAt = &now
	p.oldestPending = oldest
}
