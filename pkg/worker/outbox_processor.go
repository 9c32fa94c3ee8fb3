package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hospitalon/hospital-api/internal/model"
	"github.com/hospitalon/hospital-api/internal/repository"
	"github.com/hospitalon/hospital-api/pkg/logger"
	"github.com/hospitalon/hospital-api/pkg/messaging"
	"github.com/hospitalon/hospital-api/pkg/metrics"
)

type OutboxProcessorConfig struct {
	BatchSize    int
	PollInterval time.Duration
	// RetryDelay is the base delay before a failed event becomes eligible
	// again; it doubles with every failed attempt.
	RetryDelay time.Duration
	MaxRetries int
	// Retention bounds how long processed events are kept before cleanup.
	Retention       time.Duration
	CleanupInterval time.Duration
}

// OutboxProcessor drains the outbox table and publishes events to the broker.
// Each batch is claimed under row locks inside one transaction, so multiple
// processor instances can run side by side without double publishing.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	tx      repository.TxManager
	broker  messaging.Broker
	config  OutboxProcessorConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	tx repository.TxManager,
	broker messaging.Broker,
	config OutboxProcessorConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *OutboxProcessor {
	if config.BatchSize <= 0 {
		panic("BatchSize must be greater than 0")
	}
	if config.PollInterval <= 0 {
		panic("PollInterval must be greater than 0")
	}
	if config.RetryDelay <= 0 {
		panic("RetryDelay must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		panic("MaxRetries must be greater than 0")
	}

	return &OutboxProcessor{
		repo:    repo,
		tx:      tx,
		broker:  broker,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	var cleanup <-chan time.Time
	if p.config.Retention > 0 && p.config.CleanupInterval > 0 {
		cleanupTicker := time.NewTicker(p.config.CleanupInterval)
		defer cleanupTicker.Stop()
		cleanup = cleanupTicker.C
	}

	p.logger.Info("starting outbox processor")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("shutting down outbox processor")
			return
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.logger.Error(err, "failed to process outbox batch")
			}
		case <-cleanup:
			cutoff := time.Now().Add(-p.config.Retention)
			deleted, err := p.repo.DeleteProcessedBefore(ctx, cutoff)
			if err != nil {
				p.logger.Error(err, "failed to clean up processed events")
				continue
			}
			if deleted > 0 {
				p.logger.Info("cleaned up processed events", "deleted", deleted)
			}
		}
	}
}

func (p *OutboxProcessor) processBatch(ctx context.Context) error {
	timer := prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
	defer timer.ObserveDuration()

	return p.tx.WithTx(ctx, func(ctx context.Context) error {
		events, err := p.repo.GetPendingWithLock(ctx, p.config.BatchSize)
		if err != nil {
			p.metrics.DatabaseOperations.WithLabelValues("get_pending_events", "error").Inc()
			return fmt.Errorf("failed to get pending events: %w", err)
		}
		p.metrics.DatabaseOperations.WithLabelValues("get_pending_events", "success").Inc()

		for _, event := range events {
			if err := p.processEvent(ctx, event); err != nil {
				p.logger.Error(err, "failed to process event",
					"event_id", event.ID.String(),
					"event_type", event.EventType)
			}
		}
		return nil
	})
}

func (p *OutboxProcessor) processEvent(ctx context.Context, event *model.OutboxEvent) error {
	if err := p.broker.Publish(ctx, event.EventType, event.Payload); err != nil {
		p.metrics.OutboxEventsFailed.Inc()

		var retryAt *time.Time
		if event.RetryCount+1 < p.config.MaxRetries {
			// Exponential backoff keyed on how often this event failed.
			at := time.Now().Add(p.config.RetryDelay << event.RetryCount)
			retryAt = &at
		}
		if markErr := p.repo.MarkFailed(ctx, event.ID, err.Error(), retryAt); markErr != nil {
			p.logger.Error(markErr, "failed to mark event failed", "event_id", event.ID.String())
		}
		return err
	}

	p.metrics.OutboxEventsProcessed.Inc()
	return p.repo.MarkProcessed(ctx, event.ID)
}
