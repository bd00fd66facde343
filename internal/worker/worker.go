package worker

import (
	"context"
	"log/slog"
	"time"

	"newschat/internal/usecase"
)

const (
	refreshTimeout = 5 * time.Minute
	initialBackoff = 1 * time.Minute
	maxBackoff     = 30 * time.Minute
)

// RefreshWorker periodically collects the configured feeds and ingests new
// articles. Failed cycles back off exponentially; a successful cycle resets
// to the configured interval.
type RefreshWorker struct {
	ingest   usecase.IngestArticlesUsecase
	interval time.Duration
	logger   *slog.Logger
	stopChan chan struct{}
	backoff  time.Duration
}

func NewRefreshWorker(ingest usecase.IngestArticlesUsecase, interval time.Duration, logger *slog.Logger) *RefreshWorker {
	return &RefreshWorker{
		ingest:   ingest,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

func (w *RefreshWorker) Start() {
	w.logger.Info("refresh_worker_started", slog.Duration("interval", w.interval))
	go w.run()
}

func (w *RefreshWorker) Stop() {
	w.logger.Info("refresh_worker_stopping")
	close(w.stopChan)
}

func (w *RefreshWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.refreshOnce()
			if w.backoff > 0 {
				ticker.Reset(w.backoff)
			} else {
				ticker.Reset(w.interval)
			}
		}
	}
}

func (w *RefreshWorker) refreshOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	stored, err := w.ingest.Refresh(ctx)
	if err != nil {
		w.backoff = w.nextBackoff(w.backoff)
		w.logger.Warn("refresh_cycle_failed",
			slog.String("error", err.Error()),
			slog.Duration("backoff", w.backoff))
		return
	}

	w.backoff = 0
	w.logger.Info("refresh_cycle_completed", slog.Int("stored", stored))
}

func (w *RefreshWorker) nextBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return initialBackoff
	}
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}
