package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/forecast-resolver/internal/domain"
	"github.com/couchcryptid/forecast-resolver/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
	"golang.org/x/sync/errgroup"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// BatchExtractor reads up to batchSize raw requests from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer turns a raw request into the event carrying its answer.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error)
}

// BatchLoader writes multiple output events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

// Pipeline runs the extract-resolve-load loop over the request topic.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	consuming   atomic.Bool
	batchSize   int
	concurrency int
}

// New creates a Pipeline. Up to concurrency requests of a batch are resolved at once.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize, concurrency int) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
		concurrency: concurrency,
	}
}

// CheckReadiness returns nil while the pipeline is consuming from the source.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.consuming.Load() {
		return errors.New("pipeline is not consuming requests")
	}
	return nil
}

// Run executes the batch loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize, "concurrency", p.concurrency)
	p.metrics.PipelineRunning.Set(1)
	p.consuming.Store(true)
	defer func() {
		p.consuming.Store(false)
		p.metrics.PipelineRunning.Set(0)
	}()

	backoff := initialBackoff
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff) {
			return nil
		}
	}
}

// processBatch runs one extract-resolve-load cycle. Returns false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.consuming.Store(false)
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff)
	}
	p.consuming.Store(true)

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.MessagesConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = initialBackoff

	if !p.transformAndLoad(ctx, rawBatch, backoff) {
		return false
	}
	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	return true
}

// transformAndLoad resolves the batch concurrently, loads the results in
// source order and commits offsets. Invalid requests are committed and
// dropped. Returns false if the pipeline should stop.
func (p *Pipeline) transformAndLoad(ctx context.Context, rawBatch []domain.RawEvent, backoff *time.Duration) bool {
	results := make([]domain.OutputEvent, len(rawBatch))
	failed := make([]error, len(rawBatch))

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i := range rawBatch {
		g.Go(func() error {
			results[i], failed[i] = p.transformer.Transform(ctx, rawBatch[i])
			return nil
		})
	}
	_ = g.Wait()

	outBatch := make([]domain.OutputEvent, 0, len(rawBatch))
	successfulRaws := make([]domain.RawEvent, 0, len(rawBatch))
	for i, raw := range rawBatch {
		if failed[i] != nil {
			p.logger.Warn("invalid request, skipping message",
				"error", failed[i],
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commitOffset(ctx, raw)
			continue
		}
		outBatch = append(outBatch, results[i])
		successfulRaws = append(successfulRaws, raw)
	}

	if len(outBatch) == 0 {
		return true
	}

	if err := p.loader.LoadBatch(ctx, outBatch); err != nil {
		p.logger.Error("load batch failed", "error", err, "batch_size", len(outBatch))
		return p.backoffOrStop(ctx, backoff)
	}

	p.metrics.MessagesProduced.Add(float64(len(outBatch)))

	for _, raw := range successfulRaws {
		p.commitOffset(ctx, raw)
	}
	return true
}

// backoffOrStop sleeps with the current backoff and doubles it.
// Returns false if the context ended first.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !retry.SleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = retry.NextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}
