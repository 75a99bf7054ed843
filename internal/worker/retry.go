package worker

import (
	"context"
	"time"

	"github.com/spacemudd/clarimount2025-sub000/internal/config"
	"github.com/spacemudd/clarimount2025-sub000/internal/logger"
	"github.com/spacemudd/clarimount2025-sub000/internal/model"
	syncpkg "github.com/spacemudd/clarimount2025-sub000/internal/sync"

	"github.com/rs/zerolog"
)

// RetryWorker periodically sweeps failed records whose backoff window
// has elapsed and replans them into fresh sync batches.
type RetryWorker struct {
	cfg       *config.Config
	scheduler *syncpkg.RetryScheduler
	ticker    *time.Ticker
	log       zerolog.Logger
}

func NewRetryWorker(cfg *config.Config, scheduler *syncpkg.RetryScheduler) *RetryWorker {
	return &RetryWorker{
		cfg:       cfg,
		scheduler: scheduler,
		log:       logger.Get(),
	}
}

func (w *RetryWorker) Start(ctx context.Context) error {
	w.log.Info().Dur("interval", w.cfg.Workers.Retry.Interval).Msg("Starting retry worker")

	if w.cfg.Workers.Retry.RunOnStart {
		w.log.Info().Msg("Running initial retry sweep on startup")
		w.sweep(ctx)
	}

	w.ticker = time.NewTicker(w.cfg.Workers.Retry.Interval)

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Retry worker context cancelled")
			return ctx.Err()
		case <-w.ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *RetryWorker) Stop() {
	w.log.Info().Msg("Stopping retry worker")
	if w.ticker != nil {
		w.ticker.Stop()
	}
}

func (w *RetryWorker) sweep(ctx context.Context) {
	startTime := time.Now()

	batches, err := w.scheduler.Run(ctx, model.RetryScope{})
	if err != nil {
		w.log.Error().Err(err).Msg("Retry sweep failed")
		return
	}

	w.log.Info().
		Dur("duration", time.Since(startTime)).
		Int("batches", len(batches)).
		Msg("Retry sweep completed")
}
