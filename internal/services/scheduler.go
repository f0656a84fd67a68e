package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultPollInterval = 30 * time.Second

// Orchestrator runs the jobs. The full pipeline runs at start and on every
// trigger; the write job runs on every wake-up.
type Orchestrator struct {
	ingest   *IngestJob
	classify *ClassifyJob
	review   *ReviewJob
	write    *WriteJob

	// refreshCategories reloads the chat's category list before each cycle.
	refreshCategories func(ctx context.Context) error

	pollInterval time.Duration
	trigger      chan struct{}
	logger       *zap.Logger
}

func NewOrchestrator(
	ingest *IngestJob,
	classify *ClassifyJob,
	review *ReviewJob,
	write *WriteJob,
	refreshCategories func(ctx context.Context) error,
	pollInterval time.Duration,
	logger *zap.Logger,
) *Orchestrator {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Orchestrator{
		ingest:            ingest,
		classify:          classify,
		review:            review,
		write:             write,
		refreshCategories: refreshCategories,
		pollInterval:      pollInterval,
		trigger:           make(chan struct{}, 1),
		logger:            logger,
	}
}

// Trigger asks for a pipeline run. Triggers arriving while one is pending
// are merged.
func (o *Orchestrator) Trigger() {
	select {
	case o.trigger <- struct{}{}:
	default:
	}
}

// Schedule triggers the pipeline on a cron spec in local time.
func (o *Orchestrator) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, o.Trigger); err != nil {
		return nil, fmt.Errorf("failed to parse schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}

func (o *Orchestrator) Run(ctx context.Context) error {
	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	o.RunPipeline(ctx)
	o.runWrite(ctx)

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("orchestrator stopped")
			return nil
		case <-o.trigger:
			o.RunPipeline(ctx)
			o.runWrite(ctx)
		case <-ticker.C:
			o.runWrite(ctx)
		}
	}
}

// RunPipeline runs ingest, classify and review once. A failing stage is
// logged and the next one still runs: rows left over from earlier cycles are
// classified and delivered even while the scraper is down.
func (o *Orchestrator) RunPipeline(ctx context.Context) {
	log := o.logger.With(zap.String("run_id", uuid.NewString()))
	started := time.Now()
	log.Info("pipeline started")

	if o.refreshCategories != nil {
		if err := o.refreshCategories(ctx); err != nil {
			log.Warn("failed to refresh categories", zap.Error(err))
		}
	}

	failed := 0

	ingested, err := o.ingest.Run(ctx)
	if err != nil {
		log.Error("stage failed", zap.String("stage", "ingest"), zap.Error(err))
		failed++
	}

	classified, err := o.classify.Run(ctx)
	if err != nil {
		log.Error("stage failed", zap.String("stage", "classify"), zap.Error(err))
		failed++
	}

	sent, err := o.review.Run(ctx)
	if err != nil {
		log.Error("stage failed", zap.String("stage", "review"), zap.Error(err))
		failed++
	}

	log.Info("pipeline done",
		zap.Int("scraped", ingested.Scraped),
		zap.Int("inserted", ingested.Inserted),
		zap.Int("reviews", classified.Reviews),
		zap.Int("ignored", classified.Ignored),
		zap.Int("sent", sent),
		zap.Int("failed_stages", failed),
		zap.Duration("took", time.Since(started)),
	)
}

func (o *Orchestrator) runWrite(ctx context.Context) {
	if _, err := o.write.Run(ctx); err != nil {
		o.logger.Error("stage failed", zap.String("stage", "write"), zap.Error(err))
	}
}
