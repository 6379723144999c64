package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/profile-header-etl/internal/domain"
	"github.com/couchcryptid/profile-header-etl/internal/observability"
)

// BatchExtractor reads up to batchSize raw file messages from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer interprets the file carried by a raw message.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.NormalizedProfileHeader, error)
}

// BatchLoader hands normalized headers to the storage collaborator.
type BatchLoader interface {
	LoadBatch(ctx context.Context, headers []domain.NormalizedProfileHeader) error
}

// Pipeline orchestrates the extract-transform-load loop.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil if the pipeline has loaded at least one header,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not loaded any headers yet")
	}
	return nil
}

// Run executes the batch ETL loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	b := newBackoff(initialBackoff, maxBackoff)
	for ctx.Err() == nil {
		if !p.processBatch(ctx, b) {
			break
		}
	}
	p.logger.Info("pipeline stopping", "reason", context.Cause(ctx))
	return nil
}

// processBatch runs one extract-transform-load cycle. Returns false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, b *backoff) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err, "retry_in", b.current)
		return b.wait(ctx)
	}
	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.MessagesConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	b.reset()

	loaded, ok := p.transformAndLoad(ctx, rawBatch, b)
	if !ok {
		return false
	}
	if loaded > 0 {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}
	return true
}

// transformAndLoad parses each file in the batch, loads the headers that
// parsed with backoff retries, and commits offsets. Files that fail to parse
// are poison messages: they are logged, counted by error kind, committed, and
// skipped. Returns the number of loaded headers and false if the pipeline
// should stop.
func (p *Pipeline) transformAndLoad(ctx context.Context, rawBatch []domain.RawEvent, b *backoff) (int, bool) {
	headers := make([]domain.NormalizedProfileHeader, 0, len(rawBatch))
	parsed := make([]domain.RawEvent, 0, len(rawBatch))

	for _, raw := range rawBatch {
		h, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			kind := domain.ErrorKind(err)
			p.logger.Warn("header rejected, skipping message",
				"error", err,
				"kind", kind,
				"filename", raw.Headers[domain.HeaderFilename],
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.ParseErrors.WithLabelValues(kind).Inc()
			p.commitOffset(ctx, raw)
			continue
		}
		headers = append(headers, h)
		parsed = append(parsed, raw)
	}

	if len(headers) == 0 {
		return 0, true
	}

	// The source does not redeliver uncommitted messages within a session, so
	// the same headers are retried until they load or the pipeline stops.
	for {
		err := p.loader.LoadBatch(ctx, headers)
		if err == nil {
			break
		}
		p.logger.Error("load batch failed", "error", err, "batch_size", len(headers), "retry_in", b.current)
		if !b.wait(ctx) {
			return 0, false
		}
	}
	b.reset()

	p.metrics.MessagesProduced.Add(float64(len(headers)))

	for _, raw := range parsed {
		p.commitOffset(ctx, raw)
	}

	return len(headers), true
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

